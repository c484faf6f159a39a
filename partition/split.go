// Package partition splits tasks into train and test subsets. Randomness is
// always an explicit caller-supplied source, never implicit global state, so
// every split is reproducible from its seed.
package partition

import (
	"math/rand"

	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

// TrainTest splits a task's rows into train and test subsets by shuffling
// with the supplied random source. testFraction is the share of rows
// assigned to the test subset and must leave at least one row on each side.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	train, test, err := partition.TrainTest(t, 0.2, rng)
func TrainTest(t *task.Task, testFraction float64, rng *rand.Rand) (train, test *task.Task, err error) {
	const op = "partition.TrainTest"

	if rng == nil {
		return nil, nil, errors.NewValueError(op, "random source is required")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValidationError("testFraction", "must be in (0, 1)", testFraction)
	}

	n := t.NumRows()
	nTest := int(float64(n) * testFraction)
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, errors.NewInsufficientDataError(op, 2, n)
	}

	perm := rng.Perm(n)
	test, err = t.Select(perm[:nTest])
	if err != nil {
		return nil, nil, err
	}
	train, err = t.Select(perm[nTest:])
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// Holdout splits a task by an explicit set of test row indices. Rows not
// named stay in the train subset, in their original order.
func Holdout(t *task.Task, testRows []int) (train, test *task.Task, err error) {
	const op = "partition.Holdout"

	n := t.NumRows()
	inTest := make(map[int]bool, len(testRows))
	for _, idx := range testRows {
		if idx < 0 || idx >= n {
			return nil, nil, errors.NewValueError(op, "test row index out of range")
		}
		if inTest[idx] {
			return nil, nil, errors.NewValueError(op, "duplicate test row index")
		}
		inTest[idx] = true
	}
	if len(inTest) == 0 || len(inTest) == n {
		return nil, nil, errors.NewValidationError("testRows", "must leave rows on both sides of the split", len(testRows))
	}

	trainRows := make([]int, 0, n-len(inTest))
	for i := 0; i < n; i++ {
		if !inTest[i] {
			trainRows = append(trainRows, i)
		}
	}

	test, err = t.Select(testRows)
	if err != nil {
		return nil, nil, err
	}
	train, err = t.Select(trainRows)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
