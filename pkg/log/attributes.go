// Package log defines standard attribute keys for learner operations.
//
// Using these keys consistently enables filtering of structured logs by
// model, operation and data shape across every component in the framework.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the learner type.
	// Examples: "Pipeline", "Stack", "StandardScaler"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a model instance,
	// usually a UUID assigned at construction time.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "predict"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "pipeline", "stack", "baseline"
	ComponentKey = "ml.component"

	// StageKey holds the position of a pipeline stage.
	StageKey = "pipeline.stage"

	// MemberKey holds the position of a stack member.
	MemberKey = "stack.member"
)

// Data shape and characteristics.
const (
	// RowsKey indicates the number of rows in the task being processed.
	RowsKey = "data.rows"

	// CovariatesKey indicates the number of covariate columns.
	CovariatesKey = "data.covariates"

	// OutcomeKey holds the name of the outcome column.
	OutcomeKey = "data.outcome"

	// OutcomeTypeKey holds the declared outcome type.
	OutcomeTypeKey = "data.outcome_type"

	// ClassesKey indicates the number of outcome classes for categorical
	// tasks.
	ClassesKey = "data.classes"
)

// Performance metrics.
const (
	// DurationMsKey holds elapsed wall time of an operation in
	// milliseconds.
	DurationMsKey = "perf.duration_ms"
)
