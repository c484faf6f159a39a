package baseline

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/core/parallel"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

// NearestCentroidClassifier assigns probabilities by proximity to per-class
// covariate centroids. Deterministic and dependency-free, it is the simplest
// classifier whose output actually responds to the covariates.
type NearestCentroidClassifier struct{}

// NewNearestCentroidClassifier creates a new NearestCentroidClassifier.
func NewNearestCentroidClassifier() *NearestCentroidClassifier {
	return &NearestCentroidClassifier{}
}

// Name implements model.Learner.
func (n *NearestCentroidClassifier) Name() string {
	return "NearestCentroidClassifier"
}

// GetParams returns the classifier's hyperparameters. It has none.
func (n *NearestCentroidClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

// centroidMinRows: one row per class is not enough to call this training;
// require at least two rows overall.
const centroidMinRows = 2

// Train computes the mean covariate vector of every class.
func (n *NearestCentroidClassifier) Train(t *task.Task) (model.FittedLearner, error) {
	const op = "NearestCentroidClassifier.Train"

	if !t.HasOutcome() {
		return nil, errors.NewValueError(op, "task has no outcome column")
	}
	if !t.OutcomeType().Discrete() {
		return nil, errors.NewValueError(op, "outcome must be a discrete type, got "+t.OutcomeType().String())
	}
	if t.NumRows() < centroidMinRows {
		return nil, errors.NewInsufficientDataError(op, centroidMinRows, t.NumRows())
	}

	X, err := t.X()
	if err != nil {
		return nil, err
	}
	labels, err := t.Labels()
	if err != nil {
		return nil, err
	}
	classes, err := t.Classes()
	if err != nil {
		return nil, err
	}

	_, c := X.Dims()
	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}

	centroids := mat.NewDense(len(classes), c, nil)
	counts := make([]float64, len(classes))
	for i, label := range labels {
		k := index[label]
		counts[k]++
		for j := 0; j < c; j++ {
			centroids.Set(k, j, centroids.At(k, j)+X.At(i, j))
		}
	}
	for k := range classes {
		for j := 0; j < c; j++ {
			centroids.Set(k, j, centroids.At(k, j)/counts[k])
		}
	}

	return &FittedNearestCentroid{
		schema:    model.CaptureSchema(t),
		classes:   classes,
		centroids: centroids,
	}, nil
}

// FittedNearestCentroid holds the per-class centroids learned from training
// data.
type FittedNearestCentroid struct {
	schema    model.TrainedSchema
	classes   []string
	centroids *mat.Dense
}

// Name implements model.FittedLearner.
func (f *FittedNearestCentroid) Name() string {
	return "NearestCentroidClassifier"
}

// Classes returns the classes seen during training, in first-appearance
// order.
func (f *FittedNearestCentroid) Classes() []string {
	out := make([]string, len(f.classes))
	copy(out, f.classes)
	return out
}

// Predict converts each row's distances to the class centroids into a
// probability vector via softmax over negative distances.
func (f *FittedNearestCentroid) Predict(t *task.Task) (*model.Prediction, error) {
	const op = "NearestCentroidClassifier.Predict"

	if err := f.schema.CheckSchema(op, t); err != nil {
		return nil, err
	}
	X, err := t.X()
	if err != nil {
		return nil, err
	}
	r, c := X.Dims()

	// Rows are independent; score them in CPU-sized chunks. Each worker
	// writes a disjoint row range of the result matrix.
	result := mat.NewDense(r, len(f.classes), nil)
	parallel.Parallelize(r, func(start, end int) {
		for i := start; i < end; i++ {
			scores := make([]float64, len(f.classes))
			maxScore := math.Inf(-1)
			for k := range f.classes {
				dist := 0.0
				for j := 0; j < c; j++ {
					diff := X.At(i, j) - f.centroids.At(k, j)
					dist += diff * diff
				}
				scores[k] = -math.Sqrt(dist)
				if scores[k] > maxScore {
					maxScore = scores[k]
				}
			}
			sum := 0.0
			for k := range scores {
				scores[k] = math.Exp(scores[k] - maxScore)
				sum += scores[k]
			}
			for k := range scores {
				result.Set(i, k, scores[k]/sum)
			}
		}
	})

	return &model.Prediction{
		Columns: f.Classes(),
		Values:  result,
		Kind:    model.KindProbabilities,
	}, nil
}
