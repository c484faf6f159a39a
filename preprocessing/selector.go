package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

// ColumnSelector reduces the covariate space to its first K columns. It
// stands in for heavier dimensionality reducers in pipelines that only need
// the reduction shape, not a particular projection.
type ColumnSelector struct {
	// K is the number of leading covariates to retain.
	K int
}

// NewColumnSelector creates a ColumnSelector retaining the first k
// covariates.
func NewColumnSelector(k int) *ColumnSelector {
	return &ColumnSelector{K: k}
}

// Name implements model.Learner.
func (c *ColumnSelector) Name() string {
	return "ColumnSelector"
}

// GetParams returns the selector's hyperparameters.
func (c *ColumnSelector) GetParams() map[string]interface{} {
	return map[string]interface{}{"k": c.K}
}

// String returns the selector's string representation.
func (c *ColumnSelector) String() string {
	return fmt.Sprintf("ColumnSelector(k=%d)", c.K)
}

// Train validates K against the task's covariate count and captures the
// retained column names.
func (c *ColumnSelector) Train(t *task.Task) (model.FittedLearner, error) {
	const op = "ColumnSelector.Train"

	if c.K < 1 {
		return nil, errors.NewValidationError("k", "must be at least 1", c.K)
	}
	covariates := t.Covariates()
	if c.K > len(covariates) {
		return nil, errors.NewDimensionError(op, c.K, len(covariates), 1)
	}

	return &FittedColumnSelector{
		schema:  model.CaptureSchema(t),
		columns: covariates[:c.K],
	}, nil
}

// FittedColumnSelector holds the column layout captured at training time.
type FittedColumnSelector struct {
	schema  model.TrainedSchema
	columns []string
}

// Name implements model.FittedLearner.
func (f *FittedColumnSelector) Name() string {
	return "ColumnSelector"
}

// OutputColumns returns the retained column names.
func (f *FittedColumnSelector) OutputColumns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Predict extracts the retained columns from the task's design matrix.
func (f *FittedColumnSelector) Predict(t *task.Task) (*model.Prediction, error) {
	const op = "ColumnSelector.Predict"

	if err := f.schema.CheckSchema(op, t); err != nil {
		return nil, err
	}
	X, err := t.X()
	if err != nil {
		return nil, err
	}
	r, _ := X.Dims()

	k := len(f.columns)
	result := mat.NewDense(r, k, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			result.Set(i, j, X.At(i, j))
		}
	}

	return &model.Prediction{
		Columns: f.OutputColumns(),
		Values:  result,
		Kind:    model.KindFeatures,
	}, nil
}
