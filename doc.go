// Package winequality compares Gini and Entropy decision trees on the red
// wine quality data set.
//
// A run decodes the gzip-compressed CSV bundled with the dataset package,
// shuffles it with a fixed seed, splits it into train and test partitions,
// optionally standard-scales the features with statistics from the train
// partition, fits one CART tree per criterion, and scores each on the test
// partition with a confusion matrix. The Gini tree is exported as a LaTeX
// document drawn with TikZ and the forest package.
//
// # Quick Start
//
//	cfg := pipeline.DefaultConfig()
//	p, err := pipeline.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := p.Run()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gini, _ := res.Model("Gini")
//	fmt.Printf("%.2f%%\n", 100*gini.Accuracy)
//
// The same flow is available as a command:
//
//	go run ./examples/decision_tree --seed 42 --ratio 0.8
//
// # Packages
//
//   - dataset: CSV and gzip decoding, label casting, seeded shuffle and split
//   - preprocessing: StandardScaler and MinMaxScaler
//   - sklearn/tree: DecisionTreeClassifier and its TikZ export
//   - metrics: confusion matrix and accuracy
//   - pipeline: the configured load, split, scale, fit and evaluate run
//   - report: atomic report file writing
//   - pkg/config: WINEQ_* environment settings
//   - pkg/errors: typed errors with stack traces
//   - pkg/log: structured logging backed by zerolog
//   - core/model: estimator interfaces and fitted-state tracking
package winequality
