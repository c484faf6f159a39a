// Package datasets provides small embedded datasets as ready-made tasks,
// primarily for examples and tests.
package datasets

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"strconv"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/cascademl/cascade/pkg/errors"
	"github.com/cascademl/cascade/task"
)

//go:embed iris.csv
var irisCSV []byte

// IrisCovariates lists the four measurement columns of the iris dataset.
var IrisCovariates = []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}

// IrisOutcome is the class column of the iris dataset.
const IrisOutcome = "species"

// Iris returns Fisher's iris dataset as a categorical task: 150 rows, four
// numeric covariates and a three-class species outcome.
func Iris() (*task.Task, error) {
	df, err := IrisFrame()
	if err != nil {
		return nil, err
	}
	return task.New(df, task.Config{
		Covariates:  IrisCovariates,
		Outcome:     IrisOutcome,
		OutcomeType: task.Categorical,
	})
}

// IrisFrame returns the raw iris dataframe without task metadata.
func IrisFrame() (*dataframe.DataFrame, error) {
	const op = "datasets.IrisFrame"

	records, err := csv.NewReader(bytes.NewReader(irisCSV)).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "datasets: parsing embedded iris csv")
	}
	if len(records) < 2 {
		return nil, errors.NewModelError(op, "embedded iris csv is empty", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	series := make([]dataframe.Series, len(header))
	for col, name := range header {
		if name == IrisOutcome {
			vals := make([]interface{}, len(rows))
			for i, rec := range rows {
				vals[i] = rec[col]
			}
			series[col] = dataframe.NewSeriesString(name, nil, vals...)
			continue
		}
		vals := make([]interface{}, len(rows))
		for i, rec := range rows {
			f, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return nil, errors.NewTypeError(op, name, "numeric covariate", i, rec[col])
			}
			vals[i] = f
		}
		series[col] = dataframe.NewSeriesFloat64(name, nil, vals...)
	}

	return dataframe.NewDataFrame(series...), nil
}
