// Package preprocessing holds fitted feature transforms.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/core/model"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

// constantRangeTol is the column range under which a feature counts as constant.
const constantRangeTol = 1e-8

// MinMaxScaler rescales each feature column into FeatureRange using the
// minimum and maximum observed during Fit. The learned bounds are reused
// unchanged by Transform and TransformRow, so values outside the training
// range map outside FeatureRange.
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin is the per-feature minimum seen in Fit.
	DataMin []float64

	// DataMax is the per-feature maximum seen in Fit.
	DataMax []float64

	// Scale is DataMax-DataMin, or 1 for a constant feature.
	Scale []float64

	// NFeatures is the number of columns seen in Fit.
	NFeatures int

	// FeatureRange is the target interval [lo, hi].
	FeatureRange [2]float64
}

// NewMinMaxScaler creates a scaler targeting featureRange.
//
// Example:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault creates a scaler targeting [0, 1].
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit records the per-column minimum and maximum of X. Non-finite cells are
// rejected, and a failed refit leaves the scaler unfitted.
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	m.Reset()
	if !(m.FeatureRange[0] < m.FeatureRange[1]) {
		return errors.NewValidationError("feature_range", "lower bound must be below upper bound", m.FeatureRange)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	dataMin := make([]float64, c)
	dataMax := make([]float64, c)
	scale := make([]float64, c)

	for j := 0; j < c; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if !errors.IsFinite(v) {
				return errors.NewValueError("MinMaxScaler.Fit",
					fmt.Sprintf("non-finite value %v at row %d column %d", v, i, j))
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}

		dataMin[j] = lo
		dataMax[j] = hi
		if hi-lo < constantRangeTol {
			scale[j] = 1.0
		} else {
			scale[j] = hi - lo
		}
	}

	m.NFeatures = c
	m.DataMin = dataMin
	m.DataMax = dataMax
	m.Scale = scale
	m.SetFitted()
	return nil
}

// Transform rescales X with the bounds learned in Fit.
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, m.scale(j, X.At(i, j)))
		}
	}
	return result, nil
}

// TransformRow rescales a single feature vector. x is not modified.
func (m *MinMaxScaler) TransformRow(x []float64) ([]float64, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "TransformRow")
	}
	if len(x) != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.TransformRow", m.NFeatures, len(x), 1)
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = m.scale(j, v)
	}
	return out, nil
}

// scale computes (v - min) / (max - min) * (hi - lo) + lo.
func (m *MinMaxScaler) scale(j int, v float64) float64 {
	width := m.FeatureRange[1] - m.FeatureRange[0]
	return (v-m.DataMin[j])/m.Scale[j]*width + m.FeatureRange[0]
}

// FitTransform fits on X and returns X rescaled.
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// GetParams returns the scaler's hyperparameters.
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
