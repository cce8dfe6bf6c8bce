package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

func TestMinMaxScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		10, 200, 5,
		20, 100, 5,
		30, 400, 5,
		40, 300, 5,
	})

	scaler := NewMinMaxScalerDefault()
	got, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 100, 5}, scaler.DataMin)
	assert.Equal(t, []float64{40, 400, 5}, scaler.DataMax)
	assert.Equal(t, []float64{30, 300, 1}, scaler.Scale)

	want := mat.NewDense(4, 3, []float64{
		0, 1.0 / 3, 0,
		1.0 / 3, 0, 0,
		2.0 / 3, 1, 0,
		1, 2.0 / 3, 0,
	})
	assert.True(t, mat.EqualApprox(got, want, 1e-12), "got\n%v", mat.Formatted(got))
}

func TestMinMaxScaler_Bounds(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		47324.7, 36522749952,
		49424.78, 40000000000,
		45709.43, 29000000000,
		51000.0, 33000000000,
		46000.0, 31000000000,
	})

	scaler := NewMinMaxScalerDefault()
	got, err := scaler.FitTransform(X)
	require.NoError(t, err)

	r, c := got.Dims()
	for j := 0; j < c; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < r; i++ {
			v := got.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		assert.InDelta(t, 0.0, lo, 1e-12, "column %d min should map to 0", j)
		assert.InDelta(t, 1.0, hi, 1e-12, "column %d max should map to 1", j)
	}
}

func TestMinMaxScaler_CustomRange(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 5, 10})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	got, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, got.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, got.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, got.At(2, 0), 1e-12)
}

func TestMinMaxScaler_TransformRowReusesTrainingBounds(t *testing.T) {
	scaler := NewMinMaxScalerDefault()
	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{0, 100, 10, 200})))

	row := []float64{20, 150}
	got, err := scaler.TransformRow(row)
	require.NoError(t, err)

	// outside the training range the output leaves [0,1]
	assert.InDeltaSlice(t, []float64{2, 0.5}, got, 1e-12)
	assert.Equal(t, []float64{20, 150}, row, "input must not be modified")

	m, err := scaler.Transform(mat.NewDense(1, 2, row))
	require.NoError(t, err)
	assert.InDeltaSlice(t, got, mat.Row(nil, 0, m), 1e-12)
}

func TestMinMaxScaler_Errors(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		scaler := NewMinMaxScalerDefault()

		_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
		var nfe *errors.NotFittedError
		assert.True(t, errors.As(err, &nfe))

		_, err = scaler.TransformRow([]float64{1})
		assert.True(t, errors.As(err, &nfe))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		scaler := NewMinMaxScalerDefault()
		require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

		_, err := scaler.Transform(mat.NewDense(1, 3, []float64{1, 2, 3}))
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))

		_, err = scaler.TransformRow([]float64{1})
		assert.True(t, errors.As(err, &de))
	})

	t.Run("bad range", func(t *testing.T) {
		scaler := NewMinMaxScaler([2]float64{1, 1})
		err := scaler.Fit(mat.NewDense(1, 1, []float64{1}))
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve))
		assert.False(t, scaler.IsFitted())
	})

	t.Run("non-finite input", func(t *testing.T) {
		scaler := NewMinMaxScalerDefault()
		err := scaler.Fit(mat.NewDense(2, 1, []float64{1, math.NaN()}))
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("failed refit", func(t *testing.T) {
		scaler := NewMinMaxScalerDefault()
		require.NoError(t, scaler.Fit(mat.NewDense(2, 1, []float64{1, 2})))
		require.Error(t, scaler.Fit(mat.NewDense(2, 1, []float64{1, math.Inf(1)})))

		assert.False(t, scaler.IsFitted())
		_, err := scaler.TransformRow([]float64{1.5})
		var nfe *errors.NotFittedError
		assert.True(t, errors.As(err, &nfe))
	})
}

func TestMinMaxScaler_String(t *testing.T) {
	scaler := NewMinMaxScalerDefault()
	assert.Equal(t, "MinMaxScaler(feature_range=[0.0, 1.0])", scaler.String())

	require.NoError(t, scaler.Fit(mat.NewDense(1, 4, []float64{1, 2, 3, 4})))
	assert.Equal(t, "MinMaxScaler(feature_range=[0.0, 1.0], n_features=4)", scaler.String())
	assert.Equal(t, [2]float64{0, 1}, scaler.GetParams()["feature_range"])
}
