// Package cascade provides a small composition framework for machine
// learning workflows in Go: immutable tabular tasks, a uniform learner
// contract, and two composition operators built on top of it.
//
// # Concepts
//
// A Task is an immutable typed view over a dataframe: named covariate
// columns, an optional outcome column with a declared outcome type, and
// accessors that materialize the data as gonum matrices.
//
// A Learner is an unfit template holding hyperparameters. Train never
// mutates it; it returns a distinct FittedLearner whose Predict applies the
// learned parameters and never mutates them back.
//
// A Pipeline chains learners sequentially: each stage trains on the task
// produced by its predecessor's prediction. A Stack trains learners
// independently on the identical task and returns their predictions side by
// side, never aggregated.
//
// # Quick start
//
//	iris, _ := datasets.Iris()
//	rng := rand.New(rand.NewSource(42))
//	train, test, _ := partition.TrainTest(iris, 0.2, rng)
//
//	p := pipeline.Make("iris",
//		preprocessing.NewStandardScalerDefault(),
//		baseline.NewNearestCentroidClassifier(),
//	)
//	fitted, _ := p.Train(train)
//	pred, _ := fitted.Predict(test)
//
// See examples/iris_stack for a complete program.
package cascade
