package task

import (
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/pkg/errors"
)

// WithCovariates derives a new task whose covariate columns are replaced by
// the given named columns of values, carrying the outcome column and type
// (and any id, weights and offset columns) through unchanged. This is how a
// transformer's prediction output is re-wrapped into a task for the next
// pipeline stage.
func (t *Task) WithCovariates(names []string, values mat.Matrix) (*Task, error) {
	const op = "Task.WithCovariates"

	if len(names) == 0 {
		return nil, errors.NewValidationError("names", "at least one output column is required", names)
	}
	r, c := values.Dims()
	if r != t.df.NRows() {
		return nil, errors.NewDimensionError(op, t.df.NRows(), r, 0)
	}
	if c != len(names) {
		return nil, errors.NewDimensionError(op, len(names), c, 1)
	}

	carried := make(map[string]bool, len(names))
	for _, name := range names {
		if carried[name] {
			return nil, errors.NewSchemaError(op, name, "named more than once in output columns")
		}
		carried[name] = true
	}

	series := make([]dataframe.Series, 0, len(names)+4)
	for j, name := range names {
		vals := make([]interface{}, r)
		for i := 0; i < r; i++ {
			vals[i] = values.At(i, j)
		}
		series = append(series, dataframe.NewSeriesFloat64(name, nil, vals...))
	}

	cfg := Config{
		Covariates:  append([]string(nil), names...),
		Outcome:     t.cfg.Outcome,
		OutcomeType: t.cfg.OutcomeType,
	}
	for _, special := range []struct {
		name string
		dst  *string
	}{
		{t.cfg.Outcome, &cfg.Outcome},
		{t.cfg.ID, &cfg.ID},
		{t.cfg.Weights, &cfg.Weights},
		{t.cfg.Offset, &cfg.Offset},
	} {
		if special.name == "" {
			continue
		}
		if carried[special.name] {
			return nil, errors.NewSchemaError(op, special.name, "output column collides with a carried column")
		}
		col, err := t.df.NameToColumn(special.name)
		if err != nil {
			return nil, errors.NewSchemaError(op, special.name, "not found in dataset")
		}
		series = append(series, t.df.Series[col].Copy())
		*special.dst = special.name
		carried[special.name] = true
	}

	return New(dataframe.NewDataFrame(series...), cfg)
}

// Select derives a new task holding only the given rows, in the given order.
// The column configuration is carried through unchanged.
func (t *Task) Select(rows []int) (*Task, error) {
	const op = "Task.Select"

	if len(rows) == 0 {
		return nil, errors.NewModelError(op, "empty row selection", errors.ErrEmptyData)
	}
	n := t.df.NRows()
	for _, idx := range rows {
		if idx < 0 || idx >= n {
			return nil, errors.NewValueError(op, "row index out of range")
		}
	}

	series := make([]dataframe.Series, 0, len(t.df.Series))
	for _, s := range t.df.Series {
		series = append(series, subsetSeries(s, rows))
	}
	return New(dataframe.NewDataFrame(series...), t.cfg)
}

// subsetSeries copies the selected rows of a series, preserving the concrete
// series type for float64, int64 and string columns. Other column types fall
// back to their string form.
func subsetSeries(s dataframe.Series, rows []int) dataframe.Series {
	vals := make([]interface{}, len(rows))
	switch s.(type) {
	case *dataframe.SeriesFloat64:
		for i, idx := range rows {
			vals[i] = s.Value(idx)
		}
		return dataframe.NewSeriesFloat64(s.Name(), nil, vals...)
	case *dataframe.SeriesInt64:
		for i, idx := range rows {
			vals[i] = s.Value(idx)
		}
		return dataframe.NewSeriesInt64(s.Name(), nil, vals...)
	default:
		for i, idx := range rows {
			if s.Value(idx) == nil {
				vals[i] = nil
				continue
			}
			vals[i] = s.ValueString(idx)
		}
		return dataframe.NewSeriesString(s.Name(), nil, vals...)
	}
}
