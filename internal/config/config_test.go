package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/stockforecast/pipeline"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultDataPath, cfg.Data.Path)
	assert.Equal(t, ",", cfg.Data.Delimiter)
	assert.True(t, cfg.Data.HasHeader)
	assert.Equal(t, 0.25, cfg.Data.TestFraction)
	assert.Equal(t, int64(42), cfg.Data.Seed)
	assert.Equal(t, "sdca", cfg.Trainer.Kind)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Output.PlotPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLKeepsUnsetDefaults(t *testing.T) {
	path := writeYAML(t, `
data:
  path: /data/btc.csv
  seed: 7
trainer:
  kind: ols
output:
  history_path: runs.db
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/btc.csv", cfg.Data.Path)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, 0.25, cfg.Data.TestFraction, "unset key keeps its default")
	assert.Equal(t, ",", cfg.Data.Delimiter)
	assert.Equal(t, "ols", cfg.Trainer.Kind)
	assert.Equal(t, 1000, cfg.Trainer.MaxIter)
	assert.Equal(t, "runs.db", cfg.Output.HistoryPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeYAML(t, "data: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "data:\n  path: from-file.csv\n  seed: 7\n")
	t.Setenv("STOCKFORECAST_DATA_PATH", "from-env.csv")
	t.Setenv("STOCKFORECAST_DATA_TEST_FRACTION", "0.3")
	t.Setenv("STOCKFORECAST_TRAINER_MAX_ITER", "50")
	t.Setenv("STOCKFORECAST_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.Data.Path)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, 0.3, cfg.Data.TestFraction)
	assert.Equal(t, 50, cfg.Trainer.MaxIter)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_UnprefixedEnvIgnored(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("SEED", "99")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDataPath, cfg.Data.Path)
	assert.Equal(t, int64(42), cfg.Data.Seed)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("STOCKFORECAST_DATA_SEED", "forty-two")
	_, err := Load("")
	assert.ErrorContains(t, err, "load config from env")
}

func TestSet(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set("data", "x.csv"))
	require.NoError(t, cfg.Set("seed", "9"))
	require.NoError(t, cfg.Set("test-fraction", "0.5"))
	require.NoError(t, cfg.Set("trainer", "OLS"))
	require.NoError(t, cfg.Set("header", "false"))
	require.NoError(t, cfg.Set("plot", "out.png"))
	require.NoError(t, cfg.Set("model-out", "w.json"))
	require.NoError(t, cfg.Set("history", "h.db"))
	require.NoError(t, cfg.Set("log-level", "error"))

	assert.Equal(t, "x.csv", cfg.Data.Path)
	assert.Equal(t, int64(9), cfg.Data.Seed)
	assert.Equal(t, 0.5, cfg.Data.TestFraction)
	assert.False(t, cfg.Data.HasHeader)
	assert.Equal(t, "out.png", cfg.Output.PlotPath)
	assert.Equal(t, "w.json", cfg.Output.ModelOut)
	assert.Equal(t, "h.db", cfg.Output.HistoryPath)
	assert.NoError(t, cfg.Validate())

	ts, err := cfg.TrainerSettings()
	require.NoError(t, err)
	assert.Equal(t, pipeline.TrainerOLS, ts.Kind)
	assert.Equal(t, int64(9), ts.Seed)
}

func TestSet_Errors(t *testing.T) {
	cfg := Default()
	var ve *errors.ValidationError

	err := cfg.Set("seed", "abc")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "seed", ve.ParamName)

	err = cfg.Set("nope", "1")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "nope", ve.ParamName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"empty path", func(c *Config) { c.Data.Path = "" }, "data.path"},
		{"long delimiter", func(c *Config) { c.Data.Delimiter = ";;" }, "data.delimiter"},
		{"empty delimiter", func(c *Config) { c.Data.Delimiter = "" }, "data.delimiter"},
		{"quote delimiter", func(c *Config) { c.Data.Delimiter = `"` }, "data.delimiter"},
		{"zero fraction", func(c *Config) { c.Data.TestFraction = 0 }, "data.test_fraction"},
		{"whole fraction", func(c *Config) { c.Data.TestFraction = 1 }, "data.test_fraction"},
		{"unknown trainer", func(c *Config) { c.Trainer.Kind = "fasttree" }, "trainer"},
		{"zero l2", func(c *Config) { c.Trainer.L2 = 0 }, "trainer.l2"},
		{"zero max iter", func(c *Config) { c.Trainer.MaxIter = 0 }, "trainer.max_iter"},
		{"negative tol", func(c *Config) { c.Trainer.Tol = -1 }, "trainer.tol"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.param, ve.ParamName)
		})
	}
}

func TestValidate_OLSIgnoresSolverSettings(t *testing.T) {
	cfg := Default()
	cfg.Trainer.Kind = "ols"
	cfg.Trainer.L2 = 0
	cfg.Trainer.MaxIter = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadOptions(t *testing.T) {
	cfg := Default()
	cfg.Data.Delimiter = ";"
	assert.Len(t, cfg.LoadOptions(), 2)
}
