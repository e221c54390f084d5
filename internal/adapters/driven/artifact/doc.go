// Package artifact loads pre-fitted scalers and classifiers exported from
// scikit-learn as JSON.
//
// Every file carries a "kind" field selecting the implementation:
//
//	scaler: "standard" (StandardScaler), "minmax" (MinMaxScaler)
//	model:  "logistic" (LogisticRegression), "forest" (RandomForestClassifier)
//
// Loaded artefacts are immutable and safe for concurrent use.
package artifact
