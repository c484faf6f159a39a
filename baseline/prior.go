// Package baseline provides trivial reference learners. They honor the full
// learner contract and emit well-formed probability tables, which makes them
// useful as pipeline terminals in tests and as sanity baselines next to real
// classifiers.
package baseline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

// PriorClassifier predicts the training-set class frequencies for every row,
// ignoring covariates. The outcome must be a discrete type.
type PriorClassifier struct{}

// NewPriorClassifier creates a new PriorClassifier.
func NewPriorClassifier() *PriorClassifier {
	return &PriorClassifier{}
}

// Name implements model.Learner.
func (p *PriorClassifier) Name() string {
	return "PriorClassifier"
}

// GetParams returns the classifier's hyperparameters. It has none.
func (p *PriorClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

// Train counts class frequencies in the task's outcome column.
func (p *PriorClassifier) Train(t *task.Task) (model.FittedLearner, error) {
	const op = "PriorClassifier.Train"

	if !t.HasOutcome() {
		return nil, errors.NewValueError(op, "task has no outcome column")
	}
	if !t.OutcomeType().Discrete() {
		return nil, errors.NewValueError(op, "outcome must be a discrete type, got "+t.OutcomeType().String())
	}
	if t.NumRows() < 1 {
		return nil, errors.NewInsufficientDataError(op, 1, t.NumRows())
	}

	labels, err := t.Labels()
	if err != nil {
		return nil, err
	}
	classes, err := t.Classes()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(classes))
	for _, l := range labels {
		counts[l]++
	}
	priors := make([]float64, len(classes))
	for i, class := range classes {
		priors[i] = float64(counts[class]) / float64(len(labels))
	}

	return &FittedPriorClassifier{
		schema:  model.CaptureSchema(t),
		classes: classes,
		priors:  priors,
	}, nil
}

// FittedPriorClassifier holds the class priors learned from training data.
type FittedPriorClassifier struct {
	schema  model.TrainedSchema
	classes []string
	priors  []float64
}

// Name implements model.FittedLearner.
func (f *FittedPriorClassifier) Name() string {
	return "PriorClassifier"
}

// Classes returns the classes seen during training, in first-appearance
// order.
func (f *FittedPriorClassifier) Classes() []string {
	out := make([]string, len(f.classes))
	copy(out, f.classes)
	return out
}

// Priors returns the learned class frequencies, aligned with Classes.
func (f *FittedPriorClassifier) Priors() []float64 {
	out := make([]float64, len(f.priors))
	copy(out, f.priors)
	return out
}

// Predict returns one probability row per task row, every row equal to the
// training class frequencies.
func (f *FittedPriorClassifier) Predict(t *task.Task) (*model.Prediction, error) {
	const op = "PriorClassifier.Predict"

	if err := f.schema.CheckSchema(op, t); err != nil {
		return nil, err
	}

	rows := t.NumRows()
	result := mat.NewDense(rows, len(f.classes), nil)
	for i := 0; i < rows; i++ {
		result.SetRow(i, f.priors)
	}

	return &model.Prediction{
		Columns: f.Classes(),
		Values:  result,
		Kind:    model.KindProbabilities,
	}, nil
}
