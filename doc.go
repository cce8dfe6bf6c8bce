// Package stockforecast predicts the daily closing price of Bitcoin from the
// same day's open, high, low and volume.
//
// The command in cmd/stockforecast loads a Yahoo Finance BTC-USD export,
// drops incomplete rows, holds out a quarter of them, trains a min-max
// normalised linear regressor on the rest, prints the test-set metrics and
// forecasts four sample trading days converted to BRL.
//
// # Quick Start
//
//	go run ./cmd/stockforecast -data ../Data/BTC-USD.csv
//
// The same flow from Go:
//
//	package main
//
//	import (
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/stockforecast/dataset"
//	    "github.com/YuminosukeSato/stockforecast/forecast"
//	    "github.com/YuminosukeSato/stockforecast/pipeline"
//	    "github.com/YuminosukeSato/stockforecast/report"
//	)
//
//	func main() {
//	    obs, err := dataset.LoadCSV("BTC-USD.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    split, err := dataset.TrainTestSplit(dataset.DropMissing(obs), 0.25, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    m, err := pipeline.New(pipeline.DefaultTrainerSettings()).Fit(split.Train)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    scores, err := pipeline.Evaluate(m, split.Test)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    report.WriteMetrics(os.Stdout, scores)
//
//	    preds, err := forecast.Predict(m, forecast.Samples())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    report.WritePredictions(os.Stdout, preds)
//	}
//
// # Packages
//
//   - dataset: CSV schema and loader, missing-value filter, train/test split
//   - preprocessing: MinMaxScaler
//   - linear: SDCARegressor and closed-form LinearRegression
//   - pipeline: label/feature stages, fitted Model, Evaluate
//   - metrics: MAE, MSE, RMSE, R²
//   - forecast: sample records and currency conversion
//   - report: console blocks and predicted-vs-actual plot
//   - recorder: optional SQLite run history
//   - core/model: estimator interfaces, fitted state, weight export
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Configuration
//
// Settings come from defaults, an optional YAML file (-config), STOCKFORECAST_*
// environment variables and flags, later sources winning. See internal/config.
package stockforecast
