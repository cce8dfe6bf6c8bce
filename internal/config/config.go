// Package config loads run settings from defaults, a YAML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/pipeline"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// EnvPrefix is prepended to every environment variable, e.g. STOCKFORECAST_DATA_PATH.
const EnvPrefix = "STOCKFORECAST"

// DefaultDataPath is where the BTC-USD export is expected relative to the binary.
const DefaultDataPath = "../Data/BTC-USD.csv"

// Config holds all settings for one forecast run.
type Config struct {
	Data     DataConfig    `yaml:"data" split_words:"true"`
	Trainer  TrainerConfig `yaml:"trainer" split_words:"true"`
	Output   OutputConfig  `yaml:"output" split_words:"true"`
	LogLevel string        `yaml:"log_level" split_words:"true"`
}

// DataConfig describes the input file and how it is split.
type DataConfig struct {
	Path         string  `yaml:"path" split_words:"true"`
	Delimiter    string  `yaml:"delimiter" split_words:"true"`
	HasHeader    bool    `yaml:"has_header" split_words:"true"`
	TestFraction float64 `yaml:"test_fraction" split_words:"true"`
	Seed         int64   `yaml:"seed" split_words:"true"`
}

// TrainerConfig selects and tunes the regression solver.
type TrainerConfig struct {
	Kind    string  `yaml:"kind" split_words:"true"`
	L2      float64 `yaml:"l2" split_words:"true"`
	MaxIter int     `yaml:"max_iter" split_words:"true"`
	Tol     float64 `yaml:"tol" split_words:"true"`
}

// OutputConfig lists optional artifacts. Empty paths disable them.
type OutputConfig struct {
	PlotPath    string `yaml:"plot_path" split_words:"true"`
	ModelOut    string `yaml:"model_out" split_words:"true"`
	HistoryPath string `yaml:"history_path" split_words:"true"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	ts := pipeline.DefaultTrainerSettings()
	return Config{
		Data: DataConfig{
			Path:         DefaultDataPath,
			Delimiter:    ",",
			HasHeader:    true,
			TestFraction: dataset.DefaultTestFraction,
			Seed:         ts.Seed,
		},
		Trainer: TrainerConfig{
			Kind:    string(ts.Kind),
			L2:      ts.L2,
			MaxIter: ts.MaxIter,
			Tol:     ts.Tol,
		},
		LogLevel: "info",
	}
}

// Load applies the YAML file at path (if any) and then the environment on
// top of Default. A missing file is not an error; an empty path skips it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}

	// No default tags: unset variables must leave file values alone.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load config from env")
	}
	return cfg, nil
}

// Set overrides a single setting by its flag name, as used by cmd/stockforecast.
func (c *Config) Set(name, value string) error {
	var err error
	switch name {
	case "data":
		c.Data.Path = value
	case "delimiter":
		c.Data.Delimiter = value
	case "header":
		c.Data.HasHeader, err = strconv.ParseBool(value)
	case "test-fraction":
		c.Data.TestFraction, err = strconv.ParseFloat(value, 64)
	case "seed":
		c.Data.Seed, err = strconv.ParseInt(value, 10, 64)
	case "trainer":
		c.Trainer.Kind = value
	case "l2":
		c.Trainer.L2, err = strconv.ParseFloat(value, 64)
	case "max-iter":
		c.Trainer.MaxIter, err = strconv.Atoi(value)
	case "tol":
		c.Trainer.Tol, err = strconv.ParseFloat(value, 64)
	case "plot":
		c.Output.PlotPath = value
	case "model-out":
		c.Output.ModelOut = value
	case "history":
		c.Output.HistoryPath = value
	case "log-level":
		c.LogLevel = value
	default:
		return errors.NewValidationError(name, "unknown setting", value)
	}
	if err != nil {
		return errors.NewValidationError(name, err.Error(), value)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "must not be empty", c.Data.Path)
	}
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		return errors.NewValidationError("data.delimiter", "must be a single character", c.Data.Delimiter)
	}
	if r, _ := utf8.DecodeRuneInString(c.Data.Delimiter); r == '"' || r == '\n' || r == '\r' {
		return errors.NewValidationError("data.delimiter", "cannot be a quote or newline", c.Data.Delimiter)
	}
	if !(c.Data.TestFraction > 0 && c.Data.TestFraction < 1) {
		return errors.NewValidationError("data.test_fraction", "must be in (0, 1)", c.Data.TestFraction)
	}
	kind, err := pipeline.ParseTrainerKind(c.Trainer.Kind)
	if err != nil {
		return err
	}
	if kind == pipeline.TrainerSDCA {
		if !(c.Trainer.L2 > 0) {
			return errors.NewValidationError("trainer.l2", "must be positive", c.Trainer.L2)
		}
		if c.Trainer.MaxIter <= 0 {
			return errors.NewValidationError("trainer.max_iter", "must be positive", c.Trainer.MaxIter)
		}
		if !(c.Trainer.Tol >= 0) {
			return errors.NewValidationError("trainer.tol", "must be non-negative", c.Trainer.Tol)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "must be debug, info, warn or error", c.LogLevel)
	}
	return nil
}

// LoadOptions translates the data section for dataset.LoadCSV.
func (c Config) LoadOptions() []dataset.LoadOption {
	d, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return []dataset.LoadOption{
		dataset.WithDelimiter(d),
		dataset.WithHeader(c.Data.HasHeader),
	}
}

// TrainerSettings translates the trainer section. The data seed also seeds
// the solver's shuffle.
func (c Config) TrainerSettings() (pipeline.TrainerSettings, error) {
	kind, err := pipeline.ParseTrainerKind(c.Trainer.Kind)
	if err != nil {
		return pipeline.TrainerSettings{}, err
	}
	return pipeline.TrainerSettings{
		Kind:    kind,
		L2:      c.Trainer.L2,
		MaxIter: c.Trainer.MaxIter,
		Tol:     c.Trainer.Tol,
		Seed:    c.Data.Seed,
	}, nil
}
