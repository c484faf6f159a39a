package baseline

import (
	"math"
	"testing"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

func classTask(t *testing.T) *task.Task {
	t.Helper()
	df := dataframe.NewDataFrame(
		dataframe.NewSeriesFloat64("x1", nil, 0.0, 0.1, 0.2, 5.0, 5.1, 5.2),
		dataframe.NewSeriesFloat64("x2", nil, 0.0, 0.2, 0.1, 5.0, 5.2, 5.1),
		dataframe.NewSeriesString("y", nil, "low", "low", "low", "high", "high", "high"),
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

func TestPriorClassifier(t *testing.T) {
	tk := classTask(t)

	fitted, err := NewPriorClassifier().Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	prior := fitted.(*FittedPriorClassifier)

	if got := prior.Classes(); len(got) != 2 || got[0] != "low" || got[1] != "high" {
		t.Fatalf("classes = %v, want [low high]", got)
	}
	for i, p := range prior.Priors() {
		if math.Abs(p-0.5) > 1e-12 {
			t.Errorf("prior[%d] = %f, want 0.5", i, p)
		}
	}

	pred, err := fitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
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
}

func TestPriorClassifierRequiresDiscreteOutcome(t *testing.T) {
	df := dataframe.NewDataFrame(
		dataframe.NewSeriesFloat64("x", nil, 1.0, 2.0),
		dataframe.NewSeriesFloat64("y", nil, 0.5, 0.7),
	)
	tk, err := task.New(df, task.Config{
		Covariates:  []string{"x"},
		Outcome:     "y",
		OutcomeType: task.Continuous,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewPriorClassifier().Train(tk)
	var ve *errors.ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestNearestCentroidSeparatesClasses(t *testing.T) {
	tk := classTask(t)

	fitted, err := NewNearestCentroidClassifier().Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	pred, err := fitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
	}

	// Well separated clusters: each row's highest probability must land on
	// its own class.
	labels, err := tk.Labels()
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range labels {
		best, bestP := "", -1.0
		for j, class := range pred.Columns {
			if p := pred.Values.At(i, j); p > bestP {
				best, bestP = class, p
			}
		}
		if best != want {
			t.Errorf("row %d classified as %q, want %q", i, best, want)
		}
	}
}

func TestNearestCentroidProbabilityRows(t *testing.T) {
	tk := classTask(t)

	fitted, err := NewNearestCentroidClassifier().Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	pred, err := fitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < pred.NumRows(); i++ {
		sum := 0.0
		for j := 0; j < pred.NumCols(); j++ {
			p := pred.Values.At(i, j)
			if p < 0 || p > 1 {
				t.Errorf("probability (%d,%d) = %f out of range", i, j, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("row %d probabilities sum to %f", i, sum)
		}
	}
}

func TestNearestCentroidManyRows(t *testing.T) {
	// Enough rows that prediction spans several worker chunks.
	const n = 128
	x := make([]interface{}, n)
	y := make([]interface{}, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			x[i] = float64(i % 10)
			y[i] = "low"
		} else {
			x[i] = 100.0 + float64(i%10)
			y[i] = "high"
		}
	}
	df := dataframe.NewDataFrame(
		dataframe.NewSeriesFloat64("x", nil, x...),
		dataframe.NewSeriesString("y", nil, y...),
	)
	tk, err := task.New(df, task.Config{
		Covariates:  []string{"x"},
		Outcome:     "y",
		OutcomeType: task.Categorical,
	})
	if err != nil {
		t.Fatal(err)
	}

	fitted, err := NewNearestCentroidClassifier().Train(tk)
	if err != nil {
		t.Fatal(err)
	}
	pred, err := fitted.Predict(tk)
	if err != nil {
		t.Fatal(err)
	}

	labels, err := tk.Labels()
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range labels {
		best, bestP := "", -1.0
		for j, class := range pred.Columns {
			if p := pred.Values.At(i, j); p > bestP {
				best, bestP = class, p
			}
		}
		if best != want {
			t.Fatalf("row %d classified as %q, want %q", i, best, want)
		}
	}
}

func TestNearestCentroidInsufficientData(t *testing.T) {
	df := dataframe.NewDataFrame(
		dataframe.NewSeriesFloat64("x", nil, 1.0),
		dataframe.NewSeriesString("y", nil, "a"),
	)
	tk, err := task.New(df, task.Config{
		Covariates:  []string{"x"},
		Outcome:     "y",
		OutcomeType: task.Categorical,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewNearestCentroidClassifier().Train(tk)
	var ide *errors.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}
