package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/dataset"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/preprocessing"
)

// Row is the unit flowing through the stages.
type Row struct {
	Source   dataset.Observation
	Label    float64
	Features []float64
}

// Stage rewrites a row in place.
type Stage interface {
	Name() string
	Apply(row *Row) error
}

// Estimator is a stage that learns state from the training rows. FitApply
// learns from rows and rewrites them with what it learned; afterwards Apply
// handles any other row the same way.
type Estimator interface {
	Stage
	FitApply(rows []Row) error
}

// FeatureStage only rewrites the feature vector, so it can run on raw feature
// input that has no source observation.
type FeatureStage interface {
	Stage
	TransformFeatures(x []float64) ([]float64, error)
}

type selectLabel struct {
	col dataset.Column
}

// SelectLabel copies col into Row.Label.
func SelectLabel(col dataset.Column) Stage {
	return selectLabel{col: col}
}

func (s selectLabel) Name() string { return "select_label(" + s.col.String() + ")" }

func (s selectLabel) Apply(row *Row) error {
	row.Label = row.Source.Value(s.col)
	return nil
}

type concatenate struct {
	cols []dataset.Column
}

// Concatenate fills Row.Features with cols in order.
func Concatenate(cols ...dataset.Column) Stage {
	c := make([]dataset.Column, len(cols))
	copy(c, cols)
	return concatenate{cols: c}
}

func (c concatenate) Name() string { return "concatenate" }

func (c concatenate) Apply(row *Row) error {
	row.Features = row.Source.Values(c.cols...)
	return nil
}

// MinMaxStage rescales every feature into [0,1] using bounds learned from
// the training rows.
type MinMaxStage struct {
	scaler *preprocessing.MinMaxScaler
}

// NormalizeMinMax returns an unfitted min-max normalisation stage.
func NormalizeMinMax() *MinMaxStage {
	return &MinMaxStage{scaler: preprocessing.NewMinMaxScalerDefault()}
}

func (m *MinMaxStage) Name() string { return "normalize_min_max" }

// FitApply learns per-feature bounds from rows and rescales them in place.
func (m *MinMaxStage) FitApply(rows []Row) error {
	if len(rows) == 0 {
		return errors.NewEmptyDatasetError("pipeline.NormalizeMinMax", "train")
	}
	d := len(rows[0].Features)
	X := mat.NewDense(len(rows), d, nil)
	for i, r := range rows {
		if len(r.Features) != d {
			return errors.NewDimensionError("pipeline.NormalizeMinMax", d, len(r.Features), 1)
		}
		X.SetRow(i, r.Features)
	}

	scaled, err := m.scaler.FitTransform(X)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].Features = mat.Row(nil, i, scaled)
	}
	return nil
}

func (m *MinMaxStage) Apply(row *Row) error {
	x, err := m.TransformFeatures(row.Features)
	if err != nil {
		return err
	}
	row.Features = x
	return nil
}

// TransformFeatures rescales x with the fitted bounds.
func (m *MinMaxStage) TransformFeatures(x []float64) ([]float64, error) {
	return m.scaler.TransformRow(x)
}

// Scaler exposes the fitted scaler.
func (m *MinMaxStage) Scaler() *preprocessing.MinMaxScaler {
	return m.scaler
}
