package pipeline

import (
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/cascademl/cascade/baseline"
	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/datasets"
	"github.com/cascademl/cascade/partition"
	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/pkg/log"
	"github.com/cascademl/cascade/preprocessing"
	"github.com/cascademl/cascade/task"
)

func init() {
	SetLoggerProvider(log.NewZerologProviderWithWriter(io.Discard, log.LevelError))
}

// failingLearner always fails Train, for exercising error paths.
type failingLearner struct{ name string }

func (f *failingLearner) Name() string { return f.name }

func (f *failingLearner) Train(t *task.Task) (model.FittedLearner, error) {
	return nil, errors.New("boom")
}

func smallTask(t *testing.T) *task.Task {
	t.Helper()
	df := dataframe.NewDataFrame(
		dataframe.NewSeriesFloat64("x1", nil, 0.0, 0.5, 1.0, 9.0, 9.5, 10.0),
		dataframe.NewSeriesFloat64("x2", nil, 1.0, 1.5, 2.0, 8.0, 8.5, 9.0),
		dataframe.NewSeriesString("y", nil, "a", "a", "a", "b", "b", "b"),
	)
	tk, err := task.New(df, task.Config{
		Covariates:  []string{"x1", "x2"},
		Outcome:     "y",
		OutcomeType: task.Categorical,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tk
}

func TestPipelineTrainPredict(t *testing.T) {
	tk := smallTask(t)

	p := Make("scaled-centroid",
		preprocessing.NewStandardScalerDefault(),
		baseline.NewNearestCentroidClassifier(),
	)
	fitted, err := p.Train(tk)
	if err != nil {
		t.Fatal(err)
	}

	pred, err := fitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
	}
	if pred.Kind != model.KindProbabilities {
		t.Errorf("final output kind = %v, want probabilities", pred.Kind)
	}
	if pred.NumRows() != 6 || pred.NumCols() != 2 {
		t.Fatalf("prediction dims = %dx%d, want 6x2", pred.NumRows(), pred.NumCols())
	}
	for i := 0; i < pred.NumRows(); i++ {
		sum := 0.0
		for j := 0; j < pred.NumCols(); j++ {
			sum += pred.Values.At(i, j)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("row %d probabilities sum to %f", i, sum)
		}
	}

	nCov, nRows := fitted.(*Fitted).Dimensions()
	if nCov != 2 || nRows != 6 {
		t.Errorf("dimensions = (%d, %d), want (2, 6)", nCov, nRows)
	}

	// A chain ending in a classifier exposes that classifier's classes.
	cp, ok := fitted.(model.ClassProvider)
	if !ok {
		t.Fatal("fitted pipeline does not provide classes")
	}
	if classes := cp.Classes(); len(classes) != 2 || classes[0] != "a" || classes[1] != "b" {
		t.Errorf("classes = %v, want [a b]", classes)
	}
}

// Classifiers cannot sit in the middle of a chain: their output has no
// feature columns for the next stage to train on.
func TestPipelineIntermediateMustTransform(t *testing.T) {
	tk := smallTask(t)

	p := Make("misordered",
		baseline.NewPriorClassifier(),
		baseline.NewNearestCentroidClassifier(),
	)
	_, err := p.Train(tk)
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "transformers") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestPipelineEmpty(t *testing.T) {
	_, err := New("empty").Train(smallTask(t))
	if !errors.Is(err, errors.ErrNoStages) {
		t.Fatalf("expected ErrNoStages, got %v", err)
	}
}

func TestPipelineTrainFailFast(t *testing.T) {
	tk := smallTask(t)

	p := New("broken",
		Stage{Name: "scale", Learner: preprocessing.NewStandardScalerDefault()},
		Stage{Name: "explode", Learner: &failingLearner{name: "bad"}},
	)
	_, err := p.Train(tk)
	if err == nil {
		t.Fatal("expected train to fail")
	}
	if !strings.Contains(err.Error(), "stage 1 (explode)") {
		t.Errorf("error does not identify the failing stage: %v", err)
	}
}

func TestPipelineZeroFittedNotFitted(t *testing.T) {
	var f Fitted
	_, err := f.Predict(smallTask(t))
	var nfe *errors.NotFittedError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
}

func TestPipelineTemplateReuse(t *testing.T) {
	tk := smallTask(t)
	p := Make("reusable",
		preprocessing.NewStandardScalerDefault(),
		baseline.NewPriorClassifier(),
	)

	first, err := p.Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("train must return a fresh fitted value each time")
	}
	if len(p.Stages()) != 2 {
		t.Errorf("template mutated: %d stages", len(p.Stages()))
	}
}

// Training the full chain and training a prefix then its successor
// separately must agree, since each stage only sees its predecessor's
// output.
func TestPipelineCompositionAgreement(t *testing.T) {
	tk := smallTask(t)

	full := Make("full",
		preprocessing.NewStandardScalerDefault(),
		preprocessing.NewColumnSelector(1),
		baseline.NewNearestCentroidClassifier(),
	)
	fullFitted, err := full.Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	fullPred, err := fullFitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
	}

	prefix := Make("prefix",
		preprocessing.NewStandardScalerDefault(),
		preprocessing.NewColumnSelector(1),
	)
	prefixFitted, err := prefix.Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	intermediate, err := prefixFitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
	}
	interTask, err := intermediate.ToTask(tk)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := baseline.NewNearestCentroidClassifier().Train(interTask)
	if err != nil {
		t.Fatal(err)
	}
	tailPred, err := tail.Predict(interTask)
	if err != nil {
		t.Fatal(err)
	}

	if fullPred.NumRows() != tailPred.NumRows() || fullPred.NumCols() != tailPred.NumCols() {
		t.Fatalf("shape mismatch: %dx%d vs %dx%d",
			fullPred.NumRows(), fullPred.NumCols(), tailPred.NumRows(), tailPred.NumCols())
	}
	for i := 0; i < fullPred.NumRows(); i++ {
		for j := 0; j < fullPred.NumCols(); j++ {
			if math.Abs(fullPred.Values.At(i, j)-tailPred.Values.At(i, j)) > 1e-12 {
				t.Fatalf("predictions diverge at (%d,%d)", i, j)
			}
		}
	}
}

func TestPipelineGetParams(t *testing.T) {
	p := New("named",
		Stage{Name: "scale", Learner: preprocessing.NewStandardScaler(true, false)},
	)
	params := p.GetParams()
	if params["stages"] != 1 {
		t.Errorf("stages = %v, want 1", params["stages"])
	}
	if params["scale__with_mean"] != true {
		t.Errorf("scale__with_mean = %v, want true", params["scale__with_mean"])
	}
	if params["scale__with_std"] != false {
		t.Errorf("scale__with_std = %v, want false", params["scale__with_std"])
	}
}

func TestIrisRoundTrip(t *testing.T) {
	iris, err := datasets.Iris()
	if err != nil {
		t.Fatal(err)
	}
	if iris.NumRows() != 150 {
		t.Fatalf("iris has %d rows, want 150", iris.NumRows())
	}

	rng := rand.New(rand.NewSource(42))
	train, test, err := partition.TrainTest(iris, 0.2, rng)
	if err != nil {
		t.Fatal(err)
	}
	if train.NumRows() != 120 || test.NumRows() != 30 {
		t.Fatalf("split = %d/%d rows, want 120/30", train.NumRows(), test.NumRows())
	}

	p := Make("iris",
		preprocessing.NewColumnSelector(2),
		baseline.NewNearestCentroidClassifier(),
	)
	fitted, err := p.Train(train)
	if err != nil {
		t.Fatal(err)
	}
	pred, err := fitted.Predict(test)
	if err != nil {
		t.Fatal(err)
	}

	if pred.NumRows() != 30 {
		t.Fatalf("prediction has %d rows, want 30", pred.NumRows())
	}
	if pred.NumCols() != 3 {
		t.Fatalf("prediction has %d columns, want one per species", pred.NumCols())
	}
	for i := 0; i < pred.NumRows(); i++ {
		sum := 0.0
		for j := 0; j < pred.NumCols(); j++ {
			sum += pred.Values.At(i, j)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("row %d probabilities sum to %f", i, sum)
		}
	}

	// Same fitted value, same input, same output.
	again, err := fitted.Predict(test)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < pred.NumRows(); i++ {
		for j := 0; j < pred.NumCols(); j++ {
			if pred.Values.At(i, j) != again.Values.At(i, j) {
				t.Fatalf("predict is not idempotent at (%d,%d)", i, j)
			}
		}
	}
}
