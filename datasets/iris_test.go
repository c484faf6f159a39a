package datasets

import (
	"testing"

	"github.com/cascademl/cascade/task"
)

func TestIris(t *testing.T) {
	iris, err := Iris()
	if err != nil {
		t.Fatal(err)
	}

	if iris.NumRows() != 150 {
		t.Errorf("rows = %d, want 150", iris.NumRows())
	}
	if got := iris.Covariates(); len(got) != 4 {
		t.Errorf("covariates = %v, want 4 measurement columns", got)
	}
	if iris.Outcome() != IrisOutcome {
		t.Errorf("outcome = %q, want %q", iris.Outcome(), IrisOutcome)
	}
	if iris.OutcomeType() != task.Categorical {
		t.Errorf("outcome type = %v, want categorical", iris.OutcomeType())
	}

	classes, err := iris.Classes()
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 3 {
		t.Fatalf("classes = %v, want 3 species", classes)
	}
	want := []string{"setosa", "versicolor", "virginica"}
	for i, w := range want {
		if classes[i] != w {
			t.Errorf("class %d = %q, want %q", i, classes[i], w)
		}
	}

	X, err := iris.X()
	if err != nil {
		t.Fatal(err)
	}
	r, c := X.Dims()
	if r != 150 || c != 4 {
		t.Errorf("design matrix dims = %dx%d, want 150x4", r, c)
	}
}

func TestIrisClassBalance(t *testing.T) {
	iris, err := Iris()
	if err != nil {
		t.Fatal(err)
	}
	labels, err := iris.Labels()
	if err != nil {
		t.Fatal(err)
	}
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	for class, n := range counts {
		if n != 50 {
			t.Errorf("class %q has %d rows, want 50", class, n)
		}
	}
}
