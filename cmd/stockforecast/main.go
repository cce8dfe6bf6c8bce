// Command stockforecast trains a linear regressor on daily BTC-USD prices,
// prints its test-set metrics and forecasts the closing price of four sample
// trading days in BRL.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/YuminosukeSato/stockforecast/core/model"
	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/forecast"
	"github.com/YuminosukeSato/stockforecast/internal/config"
	"github.com/YuminosukeSato/stockforecast/pipeline"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
	"github.com/YuminosukeSato/stockforecast/recorder"
	"github.com/YuminosukeSato/stockforecast/report"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.GetLogger().Error("Forecast failed", err)
		os.Exit(1)
	}
}

// parseConfig builds the run configuration: defaults, then the YAML file
// named by -config, then STOCKFORECAST_* variables, then explicit flags.
func parseConfig(args []string, stderr io.Writer) (config.Config, error) {
	def := config.Default()

	fs := flag.NewFlagSet("stockforecast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file (optional)")
	fs.String("data", def.Data.Path, "input CSV path")
	fs.String("delimiter", def.Data.Delimiter, "CSV field delimiter")
	fs.Bool("header", def.Data.HasHeader, "input has a header row")
	fs.Float64("test-fraction", def.Data.TestFraction, "share of rows held out for evaluation")
	fs.Int64("seed", def.Data.Seed, "seed for the split and the SDCA shuffle")
	fs.String("trainer", def.Trainer.Kind, "regression trainer: sdca or ols")
	fs.Float64("l2", def.Trainer.L2, "SDCA L2 regularisation")
	fs.Int("max-iter", def.Trainer.MaxIter, "SDCA maximum epochs")
	fs.Float64("tol", def.Trainer.Tol, "SDCA relative duality-gap tolerance")
	fs.String("log-level", def.LogLevel, "debug, info, warn or error")
	fs.String("plot", "", "write a predicted-vs-actual PNG to this path")
	fs.String("model-out", "", "write the fitted weights as JSON to this path")
	fs.String("history", "", "record the run in this SQLite database")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		err = cfg.Set(f.Name, f.Value.String())
	})
	if err != nil {
		return config.Config{}, err
	}

	return cfg, cfg.Validate()
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	defer errors.Recover(&err, "stockforecast")

	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}
	log.SetupLoggerTo(stderr, cfg.LogLevel)
	logger := log.GetLogger().With(log.ComponentKey, "cmd")

	started := time.Now()
	logger.Info("Starting forecast",
		log.PathKey, cfg.Data.Path,
		log.RandomSeedKey, cfg.Data.Seed,
		log.TrainerKey, cfg.Trainer.Kind,
	)

	obs, err := dataset.LoadCSV(cfg.Data.Path, cfg.LoadOptions()...)
	if err != nil {
		return err
	}
	total := len(obs)
	obs = dataset.DropMissing(obs)

	split, err := dataset.TrainTestSplit(obs, cfg.Data.TestFraction, cfg.Data.Seed)
	if err != nil {
		return err
	}

	settings, err := cfg.TrainerSettings()
	if err != nil {
		return err
	}
	m, err := pipeline.New(settings).Fit(split.Train)
	if err != nil {
		return errors.Wrap(err, "fit pipeline")
	}

	ev, err := pipeline.EvaluateDetailed(m, split.Test)
	if err != nil {
		return errors.Wrap(err, "evaluate")
	}
	if err := report.WriteMetrics(stdout, ev.Metrics); err != nil {
		return err
	}

	preds, err := forecast.Predict(m, forecast.Samples())
	if err != nil {
		return err
	}
	if err := report.WritePredictions(stdout, preds); err != nil {
		return err
	}

	if err := writeArtifacts(cfg, m, ev); err != nil {
		return err
	}

	if err := recordRun(cfg, &recorder.Run{
		StartedAt:   started,
		DataPath:    cfg.Data.Path,
		Seed:        cfg.Data.Seed,
		Trainer:     m.Trainer(),
		TotalRows:   total,
		TrainRows:   len(split.Train),
		TestRows:    len(split.Test),
		Metrics:     ev.Metrics,
		Predictions: preds,
	}); err != nil {
		return err
	}

	logger.Info("Forecast finished", log.DurationMsKey, time.Since(started).Milliseconds())
	return nil
}

func writeArtifacts(cfg config.Config, m *pipeline.Model, ev pipeline.Evaluation) error {
	if p := cfg.Output.PlotPath; p != "" {
		if err := report.WritePlot(p, ev.Predicted, ev.Actual); err != nil {
			return errors.Wrapf(err, "write plot %s", p)
		}
		log.GetLogger().Info("Plot written", log.PathKey, p)
	}
	if p := cfg.Output.ModelOut; p != "" {
		if err := model.SaveWeights(m.Weights(), p); err != nil {
			return errors.Wrapf(err, "save weights %s", p)
		}
		log.GetLogger().Info("Weights written", log.PathKey, p)
	}
	return nil
}

func recordRun(cfg config.Config, run *recorder.Run) (err error) {
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Output.HistoryPath != "" {
		sq, err := recorder.NewSQLiteRecorder(cfg.Output.HistoryPath)
		if err != nil {
			return err
		}
		rec = sq
	}
	defer func() {
		if cerr := rec.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := rec.RecordRun(run); err != nil {
		return errors.Wrap(err, "record run")
	}
	return nil
}
