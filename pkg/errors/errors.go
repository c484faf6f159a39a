// Package errors provides the structured error and warning types used across
// the cascade framework. Every constructor attaches a stack trace via
// cockroachdb/errors, and every error type knows how to marshal itself into a
// zerolog event for structured logging.
package errors

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("cascade-warning: %v\n", w)
	}
)

// SetWarningHandler sets the handler invoked for non-fatal warnings raised by
// the framework, such as implicit data conversions while building a task.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop all warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn raises a warning through the configured handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if warningHandler != nil {
		warningHandler(w)
	}
}

// DataConversionWarning is raised when column values are implicitly converted
// to another representation, e.g. integer covariates widened to float64 while
// assembling a design matrix.
type DataConversionWarning struct {
	Column   string
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("column '%s' converted from %s to %s. Reason: %s",
		w.Column, w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning creates a new DataConversionWarning.
func NewDataConversionWarning(column, from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, FromType: from, ToType: to, Reason: reason}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// SchemaError indicates that a column named in a task configuration is absent
// from the underlying dataset, or named more than once.
type SchemaError struct {
	Op     string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("cascade: %s: column '%s': %s", e.Op, e.Column, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "SchemaError")
}

// NewSchemaError creates a new SchemaError with a stack trace attached.
func NewSchemaError(op, column, reason string) error {
	err := &SchemaError{Op: op, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// TypeError indicates that outcome values are inconsistent with the outcome
// type declared on the task, e.g. a non-numeric label under a continuous
// outcome.
type TypeError struct {
	Op       string
	Column   string
	Declared string
	Value    interface{}
	Row      int
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cascade: %s: column '%s' declared %s but row %d holds %v",
		e.Op, e.Column, e.Declared, e.Row, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *TypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("declared", e.Declared).
		Interface("value", e.Value).
		Int("row", e.Row).
		Str("type", "TypeError")
}

// NewTypeError creates a new TypeError with a stack trace attached.
func NewTypeError(op, column, declared string, row int, value interface{}) error {
	err := &TypeError{Op: op, Column: column, Declared: declared, Row: row, Value: value}
	return errors.WithStack(err)
}

// InsufficientDataError indicates that a task holds fewer rows than a learner
// requires for training.
type InsufficientDataError struct {
	Op       string
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cascade: %s: requires at least %d rows, got %d", e.Op, e.Required, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("required", e.Required).
		Int("got", e.Got).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError creates a new InsufficientDataError with a stack
// trace attached.
func NewInsufficientDataError(op string, required, got int) error {
	err := &InsufficientDataError{Op: op, Required: required, Got: got}
	return errors.WithStack(err)
}

// DimensionError indicates a mismatch between the data shape and a learner's
// configured hyperparameters, e.g. selecting more components than covariates.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("cascade: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// SchemaMismatchError indicates that the covariate schema seen at predict
// time differs from the schema the learner was trained on. Missing holds the
// trained columns absent from the prediction task, Extra the columns the
// prediction task carries beyond the trained set.
type SchemaMismatchError struct {
	Op      string
	Missing []string
	Extra   []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing trained columns [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns [%s]", strings.Join(e.Extra, ", ")))
	}
	if len(parts) == 0 {
		parts = append(parts, "covariate order differs from training")
	}
	return fmt.Sprintf("cascade: %s: schema mismatch: %s", e.Op, strings.Join(parts, "; "))
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *SchemaMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("missing", e.Missing).
		Strs("extra", e.Extra).
		Str("type", "SchemaMismatchError")
}

// NewSchemaMismatchError creates a new SchemaMismatchError with a stack trace
// attached. Column lists are sorted for stable messages.
func NewSchemaMismatchError(op string, missing, extra []string) error {
	sort.Strings(missing)
	sort.Strings(extra)
	err := &SchemaMismatchError{Op: op, Missing: missing, Extra: extra}
	return errors.WithStack(err)
}

// NotFittedError indicates that Predict was called on a learner, pipeline or
// stack that has not been trained.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("cascade: %s: not fitted yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValueError indicates an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("cascade: %s: %s", e.Op, e.Message)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("message", e.Message).
		Str("type", "ValueError")
}

// NewValueError creates a new ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ValidationError indicates that a configuration parameter failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cascade: validation failed for parameter '%s': %s (got: %v)",
		e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace
// attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ModelError is a general error raised by a learner implementation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cascade: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("cascade: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a new ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives an empty dataset.
	ErrEmptyData = New("empty data")

	// ErrNoStages is returned when a pipeline is declared with no stages.
	ErrNoStages = New("pipeline requires at least one stage")

	// ErrNoMembers is returned when a stack is declared with no members.
	ErrNoMembers = New("stack requires at least one member")
)
