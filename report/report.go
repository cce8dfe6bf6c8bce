// Package report renders evaluation results and forecasts for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/YuminosukeSato/stockforecast/forecast"
	"github.com/YuminosukeSato/stockforecast/metrics"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

const (
	metricsHeader    = "-------------------- METRICS --------------------"
	metricsFooter    = "--------------------------------------------------"
	predictionHeader = "---------------- PREDICTION ----------------"
	predictionFooter = "------------------------------------------"

	currencyPrefix = "R$ "
	currencyFormat = "#,###.##"
	notAvailable   = "n/a"
)

// FormatCurrency renders v with thousands separators and two decimals,
// prefixed with the display currency symbol.
func FormatCurrency(v float64) string {
	return currencyPrefix + humanize.FormatFloat(currencyFormat, v)
}

// WriteMetrics prints the METRICS block.
func WriteMetrics(w io.Writer, m metrics.Regression) error {
	var b strings.Builder
	b.WriteString(metricsHeader + "\n")
	fmt.Fprintf(&b, "Mean Absolute Error: %v\n", m.MAE)
	fmt.Fprintf(&b, "Mean Squared Error: %v\n", m.MSE)
	fmt.Fprintf(&b, "Root Mean Squared Error: %v\n", m.RMSE)
	fmt.Fprintf(&b, "R Squared: %v\n", m.R2)
	b.WriteString(metricsFooter + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write metrics")
	}
	return nil
}

// WritePrediction prints one PREDICTION block. Without an actual close the
// current price and difference lines read n/a.
func WritePrediction(w io.Writer, p forecast.Prediction) error {
	actual, diff := notAvailable, notAvailable
	if p.HasActual {
		actual = FormatCurrency(p.Actual)
		diff = FormatCurrency(p.Difference)
	}

	var b strings.Builder
	b.WriteString(predictionHeader + "\n")
	fmt.Fprintf(&b, "Predicted BITCOIN price: %s\n", FormatCurrency(p.PredictedClose))
	fmt.Fprintf(&b, "Current price: %s\n", actual)
	fmt.Fprintf(&b, "Difference: %s\n", diff)
	b.WriteString(predictionFooter + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write prediction")
	}
	return nil
}

// WritePredictions prints a PREDICTION block per entry, in order.
func WritePredictions(w io.Writer, preds []forecast.Prediction) error {
	for _, p := range preds {
		if err := WritePrediction(w, p); err != nil {
			return err
		}
	}
	return nil
}
