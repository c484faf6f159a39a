// Package metrics provides summary statistics over prediction results. It is
// a consumer of the framework's outputs, not part of the learner contract:
// stacks and pipelines return raw probability tables, and callers bring them
// here together with ground truth.
package metrics

import (
	"fmt"
	"strings"

	"github.com/cascademl/cascade/core/model"
	"github.com/cascademl/cascade/pkg/errors"
)

// Confusion is a confusion matrix over a fixed label set. Counts[i][j] holds
// the number of rows whose true label is Labels[i] and predicted label is
// Labels[j].
type Confusion struct {
	Labels []string
	Counts [][]int
}

// ConfusionMatrix builds a confusion matrix from ground-truth labels and a
// probability prediction. Each prediction row is resolved to the class
// column holding its maximum probability.
//
// The label set is the prediction's class columns, extended by any truth
// labels the classifier never saw.
func ConfusionMatrix(truth []string, pred *model.Prediction) (*Confusion, error) {
	const op = "metrics.ConfusionMatrix"

	if pred == nil || pred.NumRows() == 0 {
		return nil, errors.NewValueError(op, "empty prediction")
	}
	if pred.Kind != model.KindProbabilities {
		return nil, errors.NewValueError(op, "prediction must carry class probabilities, got "+pred.Kind.String())
	}
	if len(truth) != pred.NumRows() {
		return nil, errors.NewDimensionError(op, len(truth), pred.NumRows(), 0)
	}

	labels := append([]string(nil), pred.Columns...)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	for _, l := range truth {
		if _, ok := index[l]; !ok {
			index[l] = len(labels)
			labels = append(labels, l)
		}
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i, trueLabel := range truth {
		predLabel := pred.Columns[argMaxRow(pred, i)]
		counts[index[trueLabel]][index[predLabel]]++
	}

	return &Confusion{Labels: labels, Counts: counts}, nil
}

// At returns the count of rows with the given true and predicted labels.
// Unknown labels count zero.
func (c *Confusion) At(trueLabel, predLabel string) int {
	ti, pi := -1, -1
	for i, l := range c.Labels {
		if l == trueLabel {
			ti = i
		}
		if l == predLabel {
			pi = i
		}
	}
	if ti < 0 || pi < 0 {
		return 0
	}
	return c.Counts[ti][pi]
}

// Total returns the number of rows summarized by the matrix.
func (c *Confusion) Total() int {
	total := 0
	for _, row := range c.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Accuracy returns the share of rows on the matrix diagonal.
func (c *Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	correct := 0
	for i := range c.Labels {
		correct += c.Counts[i][i]
	}
	return float64(correct) / float64(total)
}

// String renders the matrix as an aligned table, true labels on rows and
// predicted labels on columns.
func (c *Confusion) String() string {
	width := len("true\\pred")
	for _, l := range c.Labels {
		if len(l) > width {
			width = len(l)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s", width, "true\\pred")
	for _, l := range c.Labels {
		fmt.Fprintf(&sb, " %*s", width, l)
	}
	sb.WriteString("\n")
	for i, l := range c.Labels {
		fmt.Fprintf(&sb, "%-*s", width, l)
		for j := range c.Labels {
			fmt.Fprintf(&sb, " %*d", width, c.Counts[i][j])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Accuracy is a shortcut for ConfusionMatrix followed by Accuracy.
func Accuracy(truth []string, pred *model.Prediction) (float64, error) {
	cm, err := ConfusionMatrix(truth, pred)
	if err != nil {
		return 0, err
	}
	return cm.Accuracy(), nil
}

// argMaxRow returns the column index of the row's maximum value. Ties
// resolve to the earliest column.
func argMaxRow(pred *model.Prediction, row int) int {
	best := 0
	bestVal := pred.Values.At(row, 0)
	for j := 1; j < pred.NumCols(); j++ {
		if v := pred.Values.At(row, j); v > bestVal {
			best, bestVal = j, v
		}
	}
	return best
}
