// Package preprocessing provides transformer learners that rewrite the
// covariates of a task before a downstream classifier or regressor sees them.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

// StandardScaler standardizes covariates to zero mean and unit standard
// deviation. It is an unfit template: Train returns a fitted scaler and
// leaves the template untouched.
type StandardScaler struct {
	// WithMean controls whether the mean is subtracted.
	WithMean bool

	// WithStd controls whether values are divided by the standard
	// deviation.
	WithStd bool
}

// NewStandardScaler creates a new StandardScaler.
//
// Example:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	fitted, err := scaler.Train(trainTask)
//	pred, err := fitted.Predict(testTask)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// NewStandardScalerDefault creates a StandardScaler with both centering and
// scaling enabled.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Name implements model.Learner.
func (s *StandardScaler) Name() string {
	return "StandardScaler"
}

// GetParams returns the scaler's hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String returns the scaler's string representation.
func (s *StandardScaler) String() string {
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
}

// minTrainRows is the minimum number of rows needed to estimate a standard
// deviation.
const minTrainRows = 2

// Train computes per-covariate means and standard deviations from the task's
// design matrix.
func (s *StandardScaler) Train(t *task.Task) (model.FittedLearner, error) {
	const op = "StandardScaler.Train"

	if t.NumRows() < minTrainRows {
		return nil, errors.NewInsufficientDataError(op, minTrainRows, t.NumRows())
	}
	X, err := t.X()
	if err != nil {
		return nil, err
	}
	r, c := X.Dims()

	mean := make([]float64, c)
	scale := make([]float64, c)
	for j := 0; j < c; j++ {
		if s.WithMean {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			mean[j] = sum / float64(r)
		}
		if s.WithStd {
			sumSquares := 0.0
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - mean[j]
				sumSquares += diff * diff
			}
			scale[j] = math.Sqrt(sumSquares / float64(r))
			// Near-constant columns would divide by zero.
			if math.Abs(scale[j]) < 1e-8 {
				scale[j] = 1.0
			}
		} else {
			scale[j] = 1.0
		}
	}

	return &FittedStandardScaler{
		schema:  model.CaptureSchema(t),
		columns: t.Covariates(),
		Mean:    mean,
		Scale:   scale,
	}, nil
}

// FittedStandardScaler holds the statistics learned by a StandardScaler.
// Immutable; Predict never modifies it.
type FittedStandardScaler struct {
	schema  model.TrainedSchema
	columns []string

	// Mean holds the per-covariate means.
	Mean []float64

	// Scale holds the per-covariate standard deviations.
	Scale []float64
}

// Name implements model.FittedLearner.
func (f *FittedStandardScaler) Name() string {
	return "StandardScaler"
}

// OutputColumns returns the output column names, which match the trained
// covariates.
func (f *FittedStandardScaler) OutputColumns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Predict standardizes the task's design matrix using the trained
// statistics.
func (f *FittedStandardScaler) Predict(t *task.Task) (*model.Prediction, error) {
	const op = "StandardScaler.Predict"

	if err := f.schema.CheckSchema(op, t); err != nil {
		return nil, err
	}
	X, err := t.X()
	if err != nil {
		return nil, err
	}
	r, c := X.Dims()

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-f.Mean[j])/f.Scale[j])
		}
	}

	return &model.Prediction{
		Columns: f.OutputColumns(),
		Values:  result,
		Kind:    model.KindFeatures,
	}, nil
}
