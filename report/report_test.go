package report

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/stockforecast/forecast"
	"github.com/YuminosukeSato/stockforecast/metrics"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

func TestWriteMetrics(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMetrics(&buf, metrics.Regression{MAE: 1.5, MSE: 4, RMSE: 2, R2: 0.75, N: 10})
	require.NoError(t, err)

	want := strings.Join([]string{
		"-------------------- METRICS --------------------",
		"Mean Absolute Error: 1.5",
		"Mean Squared Error: 4",
		"Root Mean Squared Error: 2",
		"R Squared: 0.75",
		"--------------------------------------------------",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWritePrediction(t *testing.T) {
	var buf bytes.Buffer
	err := WritePrediction(&buf, forecast.Prediction{
		PredictedClose: 276152.21,
		HasActual:      true,
		Actual:         276152.21 - 1234.5,
		Difference:     1234.5,
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"---------------- PREDICTION ----------------",
		"Predicted BITCOIN price: R$ 276,152.21",
		"Current price: R$ 274,917.71",
		"Difference: R$ 1,234.50",
		"------------------------------------------",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWritePrediction_NoActual(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrediction(&buf, forecast.Prediction{PredictedClose: 10}))

	out := buf.String()
	assert.Contains(t, out, "Predicted BITCOIN price: R$ 10.00\n")
	assert.Contains(t, out, "Current price: n/a\n")
	assert.Contains(t, out, "Difference: n/a\n")
}

func TestWritePredictions(t *testing.T) {
	var buf bytes.Buffer
	preds := []forecast.Prediction{{PredictedClose: 1}, {PredictedClose: 2}, {PredictedClose: 3}}
	require.NoError(t, WritePredictions(&buf, preds))
	assert.Equal(t, 3, strings.Count(buf.String(), "PREDICTION"))
	assert.Less(t, strings.Index(buf.String(), "R$ 1.00"), strings.Index(buf.String(), "R$ 3.00"))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0.00"},
		{5.8, "R$ 5.80"},
		{1234567.891, "R$ 1,234,567.89"},
		{-2500.5, "R$ -2,500.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in), "input %v", tt.in)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_Errors(t *testing.T) {
	assert.ErrorContains(t, WriteMetrics(failingWriter{}, metrics.Regression{}), "disk full")
	assert.ErrorContains(t, WritePrediction(failingWriter{}, forecast.Prediction{}), "disk full")
}

func TestWritePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	actual := []float64{100, 200, 300, 400}
	predicted := []float64{110, 190, 310, 395}

	require.NoError(t, WritePlot(path, predicted, actual))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.DecodeConfig(f)
	assert.NoError(t, err)
}

func TestWritePlot_SinglePoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.png")
	require.NoError(t, WritePlot(path, []float64{49362.45}, []float64{49362.45}))
	assert.FileExists(t, path)
}

func TestWritePlot_Errors(t *testing.T) {
	dir := t.TempDir()

	err := WritePlot(filepath.Join(dir, "a.png"), []float64{1}, []float64{1, 2})
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	err = WritePlot(filepath.Join(dir, "b.png"), nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
