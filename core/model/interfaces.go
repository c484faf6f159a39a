package model

// ParameterGetter is the interface for learners that expose their
// hyperparameters.
type ParameterGetter interface {
	// GetParams returns the learner's hyperparameters.
	GetParams() map[string]interface{}
}

// ClassProvider is the interface for fitted classifiers that expose the
// classes seen during training, in training order.
type ClassProvider interface {
	Classes() []string
}

// Transformer marks fitted learners whose predictions are feature matrices
// rather than class probabilities.
type Transformer interface {
	FittedLearner
	OutputColumns() []string
}
