package task

// OutcomeType declares how downstream learners interpret and validate the
// outcome column of a task.
type OutcomeType string

// Recognized outcome types.
const (
	// Categorical marks a discrete outcome with an arbitrary number of
	// classes.
	Categorical OutcomeType = "categorical"

	// Continuous marks a numeric outcome.
	Continuous OutcomeType = "continuous"

	// Binomial marks a discrete outcome with at most two classes.
	Binomial OutcomeType = "binomial"

	// Multinomial marks a discrete outcome with three or more classes.
	Multinomial OutcomeType = "multinomial"
)

// Valid reports whether ot is one of the recognized outcome types.
func (ot OutcomeType) Valid() bool {
	switch ot {
	case Categorical, Continuous, Binomial, Multinomial:
		return true
	}
	return false
}

// Discrete reports whether the outcome type carries class labels rather
// than numeric values.
func (ot OutcomeType) Discrete() bool {
	switch ot {
	case Categorical, Binomial, Multinomial:
		return true
	}
	return false
}

func (ot OutcomeType) String() string {
	return string(ot)
}
