// Package recorder keeps an optional history of forecast runs.
package recorder

import (
	"time"

	"github.com/YuminosukeSato/stockforecast/forecast"
	"github.com/YuminosukeSato/stockforecast/metrics"
)

// Run holds everything recorded about one execution of the pipeline.
type Run struct {
	// ID is assigned by the recorder when empty.
	ID          string
	StartedAt   time.Time
	DataPath    string
	Seed        int64
	Trainer     string
	TotalRows   int
	TrainRows   int
	TestRows    int
	Metrics     metrics.Regression
	Predictions []forecast.Prediction
}

// Recorder persists run history for later analysis.
type Recorder interface {
	// RecordRun stores run and returns its ID.
	RecordRun(run *Run) (string, error)
	Close() error
}
