package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/core/model"
	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

// WeightsVersion is the version written into exported weights.
const WeightsVersion = "1.0"

// Model is a fitted pipeline: the fitted stages plus the trained regressor.
// It is immutable after Fit and safe for concurrent prediction.
type Model struct {
	label     dataset.Column
	features  []dataset.Column
	stages    []Stage
	norm      *MinMaxStage
	regressor model.LinearModel
	trainer   string
}

// Features returns the feature columns in input order.
func (m *Model) Features() []dataset.Column {
	return append([]dataset.Column(nil), m.features...)
}

// Label returns the predicted column.
func (m *Model) Label() dataset.Column {
	return m.label
}

// Trainer names the regressor, e.g. "SDCARegressor".
func (m *Model) Trainer() string {
	return m.trainer
}

// Stages lists the fitted stage names in order.
func (m *Model) Stages() []string {
	names := make([]string, len(m.stages))
	for i, s := range m.stages {
		names[i] = s.Name()
	}
	return names
}

// Predict maps a raw feature vector, in Features order, to a predicted label.
// Normalisation is applied with the bounds learned at fit time.
func (m *Model) Predict(features []float64) (float64, error) {
	if m == nil || m.regressor == nil {
		return 0, errors.NewNotFittedError("pipeline.Model", "Predict")
	}
	if len(features) != len(m.features) {
		return 0, errors.NewDimensionError("pipeline.Model.Predict", len(m.features), len(features), 1)
	}

	x := append([]float64(nil), features...)
	for _, st := range m.stages {
		fs, ok := st.(FeatureStage)
		if !ok {
			continue
		}
		var err error
		if x, err = fs.TransformFeatures(x); err != nil {
			return 0, err
		}
	}
	return m.regress(x)
}

// PredictObservation extracts the feature columns from obs and predicts.
func (m *Model) PredictObservation(obs dataset.Observation) (float64, error) {
	if m == nil || m.regressor == nil {
		return 0, errors.NewNotFittedError("pipeline.Model", "PredictObservation")
	}

	row := Row{Source: obs}
	for _, st := range m.stages {
		if err := st.Apply(&row); err != nil {
			return 0, err
		}
	}
	return m.regress(row.Features)
}

func (m *Model) regress(x []float64) (float64, error) {
	if err := errors.CheckNumericalStability("pipeline.Model.Predict", x, 0); err != nil {
		return 0, err
	}
	out, err := m.regressor.Predict(mat.NewDense(1, len(x), x))
	if err != nil {
		return 0, err
	}
	return out.At(0, 0), nil
}

// Weights exports the learned coefficients together with the normalisation
// bounds needed to reproduce a prediction.
func (m *Model) Weights() *model.ModelWeights {
	names := make([]string, len(m.features))
	for i, c := range m.features {
		names[i] = c.String()
	}

	hyper := map[string]interface{}{}
	if p, ok := m.regressor.(interface{ GetParams() map[string]interface{} }); ok {
		hyper = p.GetParams()
	}

	scaler := m.norm.Scaler()
	return &model.ModelWeights{
		ModelType:       m.trainer,
		Version:         WeightsVersion,
		Coefficients:    m.regressor.Coefficients(),
		Intercept:       m.regressor.InterceptValue(),
		Features:        names,
		Hyperparameters: hyper,
		Metadata: map[string]interface{}{
			"label":      m.label.String(),
			"scaler_min": append([]float64(nil), scaler.DataMin...),
			"scaler_max": append([]float64(nil), scaler.DataMax...),
		},
		IsFitted: true,
	}
}
