// Package stack implements independent learner bundling: a collection of
// learners or pipelines trained separately on the identical input task, with
// per-member predictions returned side by side and never aggregated.
package stack

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/core/parallel"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/pkg/log"
	"github.com/cascademl/cascade/task"
)

var globalProvider log.LoggerProvider

// SetLoggerProvider replaces the provider used by stacks created afterwards.
func SetLoggerProvider(p log.LoggerProvider) {
	globalProvider = p
}

func provider() log.LoggerProvider {
	if globalProvider == nil {
		globalProvider = log.NewZerologProvider(log.LevelInfo)
	}
	return globalProvider
}

// Member is a single named member of a stack. Pipelines satisfy
// model.Learner and can be members directly.
type Member struct {
	Name    string
	Learner model.Learner
}

// Option configures a Stack.
type Option func(*Stack)

// WithMemberErrors switches training from the default fail-fast policy to
// per-member error collection: siblings of a failing member still complete,
// the successes are retained in the fitted stack, and the failures are
// reported together as a MemberErrors value.
func WithMemberErrors() Option {
	return func(s *Stack) { s.collectErrors = true }
}

// WithParallelism trains and predicts members on up to n concurrent workers.
// Members are logically independent, so this changes only wall time; results
// are always collected in declaration order. n <= 1 keeps sequential
// execution.
func WithParallelism(n int) Option {
	return func(s *Stack) { s.parallelism = n }
}

// Stack is an immutable, index-addressable collection of learner members.
// Like a pipeline template, it is unfit; Train returns a new Fitted value.
type Stack struct {
	name          string
	id            string
	members       []Member
	collectErrors bool
	parallelism   int
	logger        log.Logger
}

// New creates a Stack from the given members.
func New(name string, members []Member, opts ...Option) *Stack {
	s := &Stack{
		name:    name,
		id:      uuid.NewString(),
		members: append([]Member(nil), members...),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = provider().GetLoggerWithName("stack").With(
		log.ModelNameKey, name,
		log.EstimatorIDKey, s.id,
	)
	return s
}

// Make creates a Stack, generating member names from the learners.
func Make(name string, learners ...model.Learner) *Stack {
	members := make([]Member, len(learners))
	for i, l := range learners {
		members[i] = Member{Name: fmt.Sprintf("member%d_%s", i+1, l.Name()), Learner: l}
	}
	return New(name, members)
}

// Name returns the stack's name.
func (s *Stack) Name() string {
	return s.name
}

// Members returns a copy of the member list.
func (s *Stack) Members() []Member {
	out := make([]Member, len(s.members))
	copy(out, s.members)
	return out
}

// MemberError records one member's training failure.
type MemberError struct {
	Index  int
	Member string
	Err    error
}

func (e MemberError) Error() string {
	return fmt.Sprintf("member %d (%s): %v", e.Index, e.Member, e.Err)
}

func (e MemberError) Unwrap() error {
	return e.Err
}

// MemberErrors aggregates training failures across stack members. Returned
// by Train in collect mode when at least one member failed; the fitted stack
// alongside it still holds every member that trained successfully.
type MemberErrors []MemberError

func (e MemberErrors) Error() string {
	msgs := make([]string, len(e))
	for i, me := range e {
		msgs[i] = me.Error()
	}
	return fmt.Sprintf("cascade: stack: %d member(s) failed: %s", len(e), strings.Join(msgs, "; "))
}

// Train fits every member independently against the identical input task.
// Members never observe each other's outputs.
//
// Under the default fail-fast policy Train reports the first member failure
// in declaration order; sibling members still run to completion, but no
// fitted stack is returned and their results are discarded. With
// WithMemberErrors, Train returns both the fitted stack of successful
// members and a MemberErrors describing the failures.
func (s *Stack) Train(t *task.Task) (*Fitted, error) {
	if len(s.members) == 0 {
		return nil, errors.WithStack(errors.ErrNoMembers)
	}

	start := time.Now()
	fitted := make([]model.FittedLearner, len(s.members))
	trainErrs := parallel.Map(len(s.members), s.parallelism, func(i int) error {
		fl, err := s.members[i].Learner.Train(t)
		if err != nil {
			return err
		}
		fitted[i] = fl
		return nil
	})

	var memberErrs MemberErrors
	for i, err := range trainErrs {
		if err == nil {
			continue
		}
		if !s.collectErrors {
			return nil, errors.Wrapf(err, "stack %q: train failed at member %d (%s)", s.name, i, s.members[i].Name)
		}
		memberErrs = append(memberErrs, MemberError{Index: i, Member: s.members[i].Name, Err: err})
	}

	f := &Fitted{name: s.name, logger: s.logger, parallelism: s.parallelism}
	for i, fl := range fitted {
		if fl == nil {
			continue
		}
		f.members = append(f.members, fittedMember{
			name:    s.members[i].Name,
			index:   i,
			learner: fl,
		})
	}
	f.state.SetFitted()
	f.state.SetDimensions(len(t.Covariates()), t.NumRows())

	s.logger.Info("stack trained",
		log.OperationKey, "train",
		log.RowsKey, t.NumRows(),
		"stack.members_total", len(s.members),
		"stack.members_fitted", len(f.members),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if len(memberErrs) > 0 {
		return f, errors.WithStack(memberErrs)
	}
	return f, nil
}

type fittedMember struct {
	name    string
	index   int
	learner model.FittedLearner
}

// Result pairs one member's prediction with its identity. Err is only set by
// PredictEach.
type Result struct {
	Index      int
	Member     string
	Prediction *model.Prediction
	Err        error
}

// Fitted is an immutable trained stack. The zero value is unfit and fails
// Predict with a NotFittedError.
type Fitted struct {
	name        string
	members     []fittedMember
	logger      log.Logger
	parallelism int
	state       model.StateManager
}

// Name returns the stack's name.
func (f *Fitted) Name() string {
	return f.name
}

// Dimensions returns the covariate and row counts of the training task.
func (f *Fitted) Dimensions() (nCovariates, nRows int) {
	return f.state.GetDimensions()
}

// MemberLearners returns the fitted members in declaration order.
func (f *Fitted) MemberLearners() []model.FittedLearner {
	out := make([]model.FittedLearner, len(f.members))
	for i, m := range f.members {
		out[i] = m.learner
	}
	return out
}

// Predict runs every member's prediction on the task and returns the results
// in declaration order. No aggregation is performed; interpreting or
// combining the per-member outputs is the caller's responsibility. The first
// member failure aborts the operation.
func (f *Fitted) Predict(t *task.Task) ([]Result, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewNotFittedError("Stack", "Predict")
	}

	results := f.predictAll(t)
	for _, r := range results {
		if r.Err != nil {
			return nil, errors.Wrapf(r.Err, "stack %q: predict failed at member %d (%s)", f.name, r.Index, r.Member)
		}
	}
	f.logger.Debug("stack predicted",
		log.OperationKey, "predict",
		log.RowsKey, t.NumRows(),
		"stack.members_fitted", len(f.members),
	)
	return results, nil
}

// PredictEach runs every member's prediction and reports per-member
// outcomes: each Result carries either a Prediction or an Err. Siblings of a
// failing member still produce output.
func (f *Fitted) PredictEach(t *task.Task) ([]Result, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewNotFittedError("Stack", "PredictEach")
	}
	return f.predictAll(t), nil
}

func (f *Fitted) predictAll(t *task.Task) []Result {
	results := make([]Result, len(f.members))
	parallel.Map(len(f.members), f.parallelism, func(i int) error {
		m := f.members[i]
		pred, err := m.learner.Predict(t)
		results[i] = Result{Index: m.index, Member: m.name, Prediction: pred, Err: err}
		return err
	})
	return results
}
