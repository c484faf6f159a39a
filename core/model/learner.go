// Package model defines the polymorphic learner contracts at the heart of
// the cascade framework. Concrete learners are pluggable collaborators; the
// framework never inspects their internals, only invokes Train and Predict.
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

// Learner is an untrained unit of work holding only hyperparameters.
// Training never mutates the learner or the input task; it produces a
// distinct FittedLearner owning the learned parameters. An unfit learner is
// therefore a reusable template that can be trained any number of times on
// independent tasks.
type Learner interface {
	// Name identifies the learner type for logging and error messages.
	Name() string

	// Train consumes the task's covariates (and outcome, for supervised
	// learners) and returns an immutable fitted counterpart.
	//
	// Implementations fail with an InsufficientDataError when the task
	// holds fewer rows than they require, and with a DimensionError when
	// the covariate count is incompatible with their hyperparameters.
	Train(t *task.Task) (FittedLearner, error)
}

// FittedLearner is the immutable result of training. Predict must never
// mutate learned state: calling it twice with the same input yields
// identical output.
type FittedLearner interface {
	// Name identifies the learner type for logging and error messages.
	Name() string

	// Predict applies the learned parameters to a task whose covariate
	// schema matches the one seen at training time, failing with a
	// SchemaMismatchError otherwise.
	Predict(t *task.Task) (*Prediction, error)
}

// OutputKind declares what a learner's prediction columns contain.
type OutputKind int

const (
	// KindFeatures marks transformer output: a reduced or rewritten
	// feature matrix whose columns become the next stage's covariates.
	KindFeatures OutputKind = iota

	// KindProbabilities marks classifier output: one column per class,
	// each row a probability vector over the classes.
	KindProbabilities
)

func (k OutputKind) String() string {
	switch k {
	case KindFeatures:
		return "features"
	case KindProbabilities:
		return "probabilities"
	default:
		return "unknown"
	}
}

// Prediction is the output of a fitted learner: a dense value matrix with
// one named column per output. For KindProbabilities the column names are
// the class labels in training order.
type Prediction struct {
	Columns []string
	Values  *mat.Dense
	Kind    OutputKind
}

// NumRows returns the number of prediction rows.
func (p *Prediction) NumRows() int {
	r, _ := p.Values.Dims()
	return r
}

// NumCols returns the number of output columns.
func (p *Prediction) NumCols() int {
	_, c := p.Values.Dims()
	return c
}

// ToTask re-wraps the prediction into a task for the next pipeline stage:
// the base task's covariates are replaced by the prediction columns while
// its outcome column and type carry through unchanged.
func (p *Prediction) ToTask(base *task.Task) (*task.Task, error) {
	return base.WithCovariates(p.Columns, p.Values)
}

// TrainedSchema captures the covariate layout a learner saw at training time
// and checks prediction inputs against it. Embed it in fitted learners.
type TrainedSchema struct {
	schema task.Schema
}

// CaptureSchema snapshots the task's schema for later compatibility checks.
func CaptureSchema(t *task.Task) TrainedSchema {
	return TrainedSchema{schema: t.Schema()}
}

// Schema returns the captured schema.
func (ts TrainedSchema) Schema() task.Schema {
	return ts.schema
}

// CheckSchema fails with a SchemaMismatchError when the task's covariate
// columns differ from the trained layout. Column order is significant; a
// reordered design matrix would silently permute features otherwise.
func (ts TrainedSchema) CheckSchema(op string, t *task.Task) error {
	incoming := t.Schema()
	if ts.schema.EqualCovariates(incoming) {
		return nil
	}
	missing, extra := ts.schema.DiffCovariates(incoming)
	return errors.NewSchemaMismatchError(op, missing, extra)
}
