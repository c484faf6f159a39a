// Package task provides the immutable typed view over a tabular dataset that
// every learner consumes. A task bundles a dataframe with metadata naming the
// covariate columns, the outcome column and the outcome's semantic type.
//
// Tasks are never mutated after construction. Derivations such as row
// selection or covariate replacement always produce new instances.
package task

import (
	"strconv"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/pkg/errors"
)

// Config names the columns of the dataset that form the task.
type Config struct {
	// Covariates lists the design-matrix columns. Required, at least one.
	Covariates []string

	// Outcome names the outcome column. Optional; a task without an
	// outcome can still feed transformers and prediction.
	Outcome string

	// OutcomeType declares the outcome semantics. Required when Outcome
	// is set.
	OutcomeType OutcomeType

	// ID optionally names a row-identifier column.
	ID string

	// Weights optionally names a per-row weight column.
	Weights string

	// Offset optionally names a per-row offset column.
	Offset string
}

// Task is an immutable bundle of a dataset plus the metadata describing
// which columns are covariates, which is the outcome, and how the outcome is
// typed. Covariate and outcome column sets are disjoint and always present
// in the dataset.
type Task struct {
	df  *dataframe.DataFrame
	cfg Config
}

// New constructs a Task from a dataframe and a column configuration.
//
// It fails with a SchemaError if a named column is absent or named twice,
// a ValidationError if the configuration itself is inconsistent, and a
// TypeError if outcome values do not validate against the declared outcome
// type. The dataframe is copied, so later mutation of the caller's frame
// does not reach the task.
func New(df *dataframe.DataFrame, cfg Config) (*Task, error) {
	const op = "task.New"

	if df == nil || len(df.Series) == 0 || df.NRows() == 0 {
		return nil, errors.NewModelError(op, "empty dataset", errors.ErrEmptyData)
	}
	if len(cfg.Covariates) == 0 {
		return nil, errors.NewValidationError("covariates", "at least one covariate column is required", cfg.Covariates)
	}

	seen := make(map[string]bool, len(cfg.Covariates))
	for _, name := range cfg.Covariates {
		if seen[name] {
			return nil, errors.NewSchemaError(op, name, "named more than once in covariates")
		}
		seen[name] = true
		if _, err := df.NameToColumn(name); err != nil {
			return nil, errors.NewSchemaError(op, name, "not found in dataset")
		}
	}

	if cfg.Outcome != "" {
		if seen[cfg.Outcome] {
			return nil, errors.NewValidationError("outcome", "outcome column also listed as covariate", cfg.Outcome)
		}
		if _, err := df.NameToColumn(cfg.Outcome); err != nil {
			return nil, errors.NewSchemaError(op, cfg.Outcome, "not found in dataset")
		}
		if !cfg.OutcomeType.Valid() {
			return nil, errors.NewValidationError("outcome_type", "must be one of categorical, continuous, binomial, multinomial", cfg.OutcomeType)
		}
	} else if cfg.OutcomeType != "" {
		return nil, errors.NewValidationError("outcome_type", "set without an outcome column", cfg.OutcomeType)
	}

	for _, name := range []string{cfg.ID, cfg.Weights, cfg.Offset} {
		if name == "" {
			continue
		}
		if _, err := df.NameToColumn(name); err != nil {
			return nil, errors.NewSchemaError(op, name, "not found in dataset")
		}
	}

	t := &Task{df: df.Copy(), cfg: cloneConfig(cfg)}

	if cfg.Outcome != "" {
		if err := t.validateOutcome(op); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the number of rows in the task's dataset.
func (t *Task) NumRows() int {
	return t.df.NRows()
}

// Covariates returns a copy of the covariate column names, in declaration
// order.
func (t *Task) Covariates() []string {
	out := make([]string, len(t.cfg.Covariates))
	copy(out, t.cfg.Covariates)
	return out
}

// Outcome returns the outcome column name, or the empty string when the task
// carries no outcome.
func (t *Task) Outcome() string {
	return t.cfg.Outcome
}

// OutcomeType returns the declared outcome type.
func (t *Task) OutcomeType() OutcomeType {
	return t.cfg.OutcomeType
}

// HasOutcome reports whether the task carries an outcome column.
func (t *Task) HasOutcome() bool {
	return t.cfg.Outcome != ""
}

// Schema returns a value snapshot of the task's column layout.
func (t *Task) Schema() Schema {
	return Schema{
		Covariates:  t.Covariates(),
		Outcome:     t.cfg.Outcome,
		OutcomeType: t.cfg.OutcomeType,
	}
}

// DataFrame returns a copy of the underlying dataframe.
func (t *Task) DataFrame() *dataframe.DataFrame {
	return t.df.Copy()
}

// X assembles the design matrix: one column per covariate, in declaration
// order, as float64 values. Non-numeric covariate values fail with a
// TypeError. Integer columns are widened to float64 and raise a
// DataConversionWarning once per column.
func (t *Task) X() (*mat.Dense, error) {
	const op = "Task.X"

	rows := t.df.NRows()
	out := mat.NewDense(rows, len(t.cfg.Covariates), nil)
	for j, name := range t.cfg.Covariates {
		col, err := t.df.NameToColumn(name)
		if err != nil {
			return nil, errors.NewSchemaError(op, name, "not found in dataset")
		}
		series := t.df.Series[col]
		if _, isInt := series.(*dataframe.SeriesInt64); isInt {
			errors.Warn(errors.NewDataConversionWarning(name, "int64", "float64", "design matrix assembly"))
		}
		for i := 0; i < rows; i++ {
			v, ok := toFloat(series.Value(i))
			if !ok {
				return nil, errors.NewTypeError(op, name, "numeric covariate", i, series.Value(i))
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// Y returns the outcome as a numeric vector. Only valid for continuous and
// binomial outcomes; discrete label outcomes are read through Labels.
func (t *Task) Y() (*mat.VecDense, error) {
	const op = "Task.Y"

	if t.cfg.Outcome == "" {
		return nil, errors.NewValueError(op, "task has no outcome column")
	}
	if t.cfg.OutcomeType != Continuous && t.cfg.OutcomeType != Binomial {
		return nil, errors.NewValueError(op, "outcome is "+t.cfg.OutcomeType.String()+"; use Labels() for discrete outcomes")
	}

	col, _ := t.df.NameToColumn(t.cfg.Outcome)
	series := t.df.Series[col]
	rows := t.df.NRows()
	vec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v, ok := toFloat(series.Value(i))
		if !ok {
			return nil, errors.NewTypeError(op, t.cfg.Outcome, t.cfg.OutcomeType.String(), i, series.Value(i))
		}
		vec.SetVec(i, v)
	}
	return vec, nil
}

// Labels returns the outcome values as strings, one per row. Valid for any
// outcome type; numeric outcomes are formatted.
func (t *Task) Labels() ([]string, error) {
	const op = "Task.Labels"

	if t.cfg.Outcome == "" {
		return nil, errors.NewValueError(op, "task has no outcome column")
	}
	col, _ := t.df.NameToColumn(t.cfg.Outcome)
	series := t.df.Series[col]
	rows := t.df.NRows()
	out := make([]string, rows)
	for i := 0; i < rows; i++ {
		if series.Value(i) == nil {
			return nil, errors.NewTypeError(op, t.cfg.Outcome, t.cfg.OutcomeType.String(), i, nil)
		}
		out[i] = series.ValueString(i)
	}
	return out, nil
}

// Classes returns the distinct outcome labels in first-appearance order.
// Only valid for discrete outcome types.
func (t *Task) Classes() ([]string, error) {
	const op = "Task.Classes"

	if !t.cfg.OutcomeType.Discrete() {
		return nil, errors.NewValueError(op, "outcome is not discrete")
	}
	labels, err := t.Labels()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, 8)
	var classes []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	return classes, nil
}

// validateOutcome checks the outcome column against the declared type.
func (t *Task) validateOutcome(op string) error {
	col, _ := t.df.NameToColumn(t.cfg.Outcome)
	series := t.df.Series[col]
	rows := t.df.NRows()

	switch t.cfg.OutcomeType {
	case Continuous:
		for i := 0; i < rows; i++ {
			if _, ok := toFloat(series.Value(i)); !ok {
				return errors.NewTypeError(op, t.cfg.Outcome, Continuous.String(), i, series.Value(i))
			}
		}
	case Binomial:
		distinct := make(map[string]bool, 2)
		for i := 0; i < rows; i++ {
			if series.Value(i) == nil {
				return errors.NewTypeError(op, t.cfg.Outcome, Binomial.String(), i, nil)
			}
			distinct[series.ValueString(i)] = true
			if len(distinct) > 2 {
				return errors.NewTypeError(op, t.cfg.Outcome, Binomial.String(), i, series.ValueString(i))
			}
		}
	case Categorical, Multinomial:
		for i := 0; i < rows; i++ {
			if series.Value(i) == nil {
				return errors.NewTypeError(op, t.cfg.Outcome, t.cfg.OutcomeType.String(), i, nil)
			}
		}
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Covariates = make([]string, len(cfg.Covariates))
	copy(out.Covariates, cfg.Covariates)
	return out
}

// toFloat coerces a dataframe cell into a float64.
func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
