// Package pipeline implements sequential learner composition: an ordered
// chain of stages where each stage's fitted output transforms the task
// handed to the next stage.
//
// A Pipeline is an unfit template; Train produces a new immutable Fitted
// value and leaves the template untouched, so the same template can be
// trained on any number of independent tasks.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/pkg/log"
	"github.com/cascademl/cascade/task"
)

var globalProvider log.LoggerProvider

// SetLoggerProvider replaces the provider used by pipelines created
// afterwards. Tests use it to capture log output.
func SetLoggerProvider(p log.LoggerProvider) {
	globalProvider = p
}

func provider() log.LoggerProvider {
	if globalProvider == nil {
		globalProvider = log.NewZerologProvider(log.LevelInfo)
	}
	return globalProvider
}

// Stage is a single named step in a pipeline.
type Stage struct {
	Name    string
	Learner model.Learner
}

// Pipeline is an immutable ordered sequence of learner stages.
type Pipeline struct {
	name   string
	id     string
	stages []Stage
	logger log.Logger
}

// New creates a Pipeline from the given stages.
func New(name string, stages ...Stage) *Pipeline {
	p := &Pipeline{
		name:   name,
		id:     uuid.NewString(),
		stages: append([]Stage(nil), stages...),
	}
	p.logger = provider().GetLoggerWithName("pipeline").With(
		log.ModelNameKey, name,
		log.EstimatorIDKey, p.id,
	)
	return p
}

// Make creates a Pipeline, generating stage names from the learners.
func Make(name string, learners ...model.Learner) *Pipeline {
	stages := make([]Stage, len(learners))
	for i, l := range learners {
		stages[i] = Stage{Name: fmt.Sprintf("stage%d_%s", i+1, l.Name()), Learner: l}
	}
	return New(name, stages...)
}

// Name implements model.Learner, which lets a pipeline serve as a stack
// member.
func (p *Pipeline) Name() string {
	return p.name
}

// Stages returns a copy of the stage list.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// GetParams returns the pipeline parameters, including the parameters of
// every stage prefixed with the stage name.
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	params["stages"] = len(p.stages)
	for _, st := range p.stages {
		if getter, ok := st.Learner.(model.ParameterGetter); ok {
			for key, value := range getter.GetParams() {
				params[fmt.Sprintf("%s__%s", st.Name, key)] = value
			}
		}
	}
	return params
}

// Train fits every stage in declared order. Stage 0 trains on the input
// task; each later stage trains on the task produced by the previous stage's
// prediction. Intermediate stages must fit into model.Transformer values
// whose feature output can be re-wrapped into a task.
//
// Training fails fast: the first stage error aborts the fit, annotated with
// the failing stage's position, and no partial state is retained. On success
// a new immutable Fitted value is returned; the template itself never
// changes state.
func (p *Pipeline) Train(t *task.Task) (model.FittedLearner, error) {
	if len(p.stages) == 0 {
		return nil, errors.WithStack(errors.ErrNoStages)
	}

	start := time.Now()
	cur := t
	fitted := make([]fittedStage, len(p.stages))
	for i, st := range p.stages {
		fl, err := st.Learner.Train(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q: train failed at stage %d (%s)", p.name, i, st.Name)
		}
		fitted[i] = fittedStage{name: st.Name, learner: fl}

		if i == len(p.stages)-1 {
			break
		}
		tr, ok := fl.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(
				"pipeline stage",
				"intermediate stages must be transformers",
				st.Name,
			)
		}
		pred, err := tr.Predict(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q: transform failed at stage %d (%s)", p.name, i, st.Name)
		}
		if pred.Kind != model.KindFeatures {
			return nil, errors.NewValidationError(
				"pipeline stage",
				"intermediate stages must produce feature output",
				st.Name,
			)
		}
		cur, err = pred.ToTask(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q: re-wrapping output of stage %d (%s)", p.name, i, st.Name)
		}
	}

	f := &Fitted{
		name:   p.name,
		stages: fitted,
		logger: p.logger,
	}
	f.state.SetFitted()
	f.state.SetDimensions(len(t.Covariates()), t.NumRows())

	p.logger.Info("pipeline trained",
		log.OperationKey, "train",
		log.RowsKey, t.NumRows(),
		log.CovariatesKey, len(t.Covariates()),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return f, nil
}

type fittedStage struct {
	name    string
	learner model.FittedLearner
}

// Fitted is an immutable trained pipeline: one fitted learner per stage, in
// stage order. The zero value is unfit and fails Predict with a
// NotFittedError.
type Fitted struct {
	name   string
	stages []fittedStage
	logger log.Logger
	state  model.StateManager
}

// Name implements model.FittedLearner.
func (f *Fitted) Name() string {
	return f.name
}

// Dimensions returns the covariate and row counts of the training task.
func (f *Fitted) Dimensions() (nCovariates, nRows int) {
	return f.state.GetDimensions()
}

// Classes implements model.ClassProvider for pipelines whose final stage is
// a classifier, returning its training classes. Returns nil when the final
// stage exposes no classes.
func (f *Fitted) Classes() []string {
	if len(f.stages) == 0 {
		return nil
	}
	if cp, ok := f.stages[len(f.stages)-1].learner.(model.ClassProvider); ok {
		return cp.Classes()
	}
	return nil
}

// StageLearners returns the fitted learners, one per stage, in stage order.
func (f *Fitted) StageLearners() []model.FittedLearner {
	out := make([]model.FittedLearner, len(f.stages))
	for i, fs := range f.stages {
		out[i] = fs.learner
	}
	return out
}

// Predict threads the task through every fitted stage in order and returns
// the final stage's output.
func (f *Fitted) Predict(t *task.Task) (*model.Prediction, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}

	cur := t
	for i, fs := range f.stages {
		pred, err := fs.learner.Predict(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q: predict failed at stage %d (%s)", f.name, i, fs.name)
		}
		if i == len(f.stages)-1 {
			f.logger.Debug("pipeline predicted",
				log.OperationKey, "predict",
				log.RowsKey, pred.NumRows(),
			)
			return pred, nil
		}
		cur, err = pred.ToTask(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q: re-wrapping output of stage %d (%s)", f.name, i, fs.name)
		}
	}
	// Unreachable: Train rejects empty pipelines.
	return nil, errors.WithStack(errors.ErrNoStages)
}
