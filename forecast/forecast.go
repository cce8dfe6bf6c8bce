// Package forecast applies a fitted model to sample records and converts the
// results into the display currency.
package forecast

import (
	"math"

	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// CurrencyMultiplier converts model output (USD) to BRL for display.
const CurrencyMultiplier = 5.8

// Regressor predicts the label of an observation.
type Regressor interface {
	PredictObservation(obs dataset.Observation) (float64, error)
}

// Prediction is the converted forecast for one sample.
type Prediction struct {
	Sample dataset.Observation
	// PredictedClose is the model output times CurrencyMultiplier.
	PredictedClose float64
	// HasActual is false when the sample carries no finite close.
	HasActual bool
	// Actual is the sample close times CurrencyMultiplier.
	Actual float64
	// Difference is PredictedClose - Actual.
	Difference float64
}

// Samples returns the four BTC-USD trading days the forecast is demonstrated on.
func Samples() []dataset.Observation {
	return []dataset.Observation{
		{
			Open:     47324.700001,
			High:     49424.780001,
			Low:      45709.43,
			Close:    47612.450001,
			AdjClose: 47612.450001,
			Volume:   36522749952,
		},
		{
			Open:     50114.700001,
			High:     50205.780001,
			Low:      48725.43,
			Close:    50098.450001,
			AdjClose: 50098.450001,
			Volume:   32166727776,
		},
		{
			Open:     49354.700001,
			High:     50724.780001,
			Low:      48725.43,
			Close:    50098.450001,
			AdjClose: 50098.450001,
			Volume:   21939223599,
		},
		{
			Open:     47264.700001,
			High:     49458.780001,
			Low:      46942.43,
			Close:    49362.450001,
			AdjClose: 49362.450001,
			Volume:   25775869261,
		},
	}
}

// Predict runs m over samples in order. A nil model is a NotFittedError; any
// prediction failure aborts the batch.
func Predict(m Regressor, samples []dataset.Observation) ([]Prediction, error) {
	if m == nil {
		return nil, errors.NewNotFittedError("forecast", "Predict")
	}

	logger := log.GetLogger().With(log.ComponentKey, "forecast")
	out := make([]Prediction, 0, len(samples))
	for i, s := range samples {
		raw, err := m.PredictObservation(s)
		if err != nil {
			return nil, errors.Wrapf(err, "predict sample %d", i)
		}

		p := Prediction{
			Sample:         s,
			PredictedClose: raw * CurrencyMultiplier,
		}
		if !math.IsNaN(s.Close) && !math.IsInf(s.Close, 0) {
			p.HasActual = true
			p.Actual = s.Close * CurrencyMultiplier
			p.Difference = p.PredictedClose - p.Actual
		}
		out = append(out, p)

		fields := []any{log.SampleIndexKey, i, log.PredictedKey, p.PredictedClose}
		if p.HasActual {
			fields = append(fields, log.ActualKey, p.Actual)
		}
		logger.Debug("Sample predicted", fields...)
	}
	return out, nil
}
