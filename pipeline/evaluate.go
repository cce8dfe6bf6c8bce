package pipeline

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/metrics"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// Evaluation is the outcome of scoring a model on a held-out subset.
type Evaluation struct {
	Metrics metrics.Regression
	// Actual and Predicted are aligned label values for the scored rows.
	Actual    []float64
	Predicted []float64
	// Skipped counts test rows without a finite label.
	Skipped int
}

// Evaluate predicts every test row with a finite label and returns the
// regression metrics. It prints nothing.
func Evaluate(m *Model, test []dataset.Observation) (metrics.Regression, error) {
	ev, err := EvaluateDetailed(m, test)
	if err != nil {
		return metrics.Regression{}, err
	}
	return ev.Metrics, nil
}

// EvaluateDetailed is Evaluate that also returns the per-row values.
func EvaluateDetailed(m *Model, test []dataset.Observation) (Evaluation, error) {
	if m == nil || m.regressor == nil {
		return Evaluation{}, errors.NewNotFittedError("pipeline.Model", "Evaluate")
	}
	if len(test) == 0 {
		return Evaluation{}, errors.NewEmptyDatasetError("pipeline.Evaluate", "test")
	}

	var ev Evaluation
	ev.Actual = make([]float64, 0, len(test))
	ev.Predicted = make([]float64, 0, len(test))
	for _, obs := range test {
		label := obs.Value(m.label)
		if math.IsNaN(label) || math.IsInf(label, 0) {
			ev.Skipped++
			continue
		}
		pred, err := m.PredictObservation(obs)
		if err != nil {
			return Evaluation{}, errors.Wrapf(err, "predict %s", obs.Date.Format(dataset.DateLayout))
		}
		ev.Actual = append(ev.Actual, label)
		ev.Predicted = append(ev.Predicted, pred)
	}

	logger := log.GetLogger().With(log.ComponentKey, "pipeline")
	if ev.Skipped > 0 {
		logger.Warn("Skipping test rows with non-finite label",
			log.DroppedKey, ev.Skipped,
			log.StageKey, "evaluate",
		)
	}
	if len(ev.Actual) == 0 {
		return Evaluation{}, errors.NewEmptyDatasetError("pipeline.Evaluate", "test")
	}

	n := len(ev.Actual)
	res, err := metrics.EvaluateRegression(mat.NewVecDense(n, ev.Actual), mat.NewVecDense(n, ev.Predicted))
	if err != nil {
		return Evaluation{}, err
	}
	ev.Metrics = res

	logger.Info("Evaluation complete", append([]any{log.OperationKey, "evaluate"}, res.LogFields()...)...)
	return ev, nil
}
