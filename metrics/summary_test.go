package metrics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

func TestEvaluateRegression(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	got, err := EvaluateRegression(yTrue, yPred)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, got.MAE, 1e-12)
	assert.InDelta(t, 0.25, got.MSE, 1e-12)
	assert.InDelta(t, 0.5, got.RMSE, 1e-12)
	assert.InDelta(t, 0.8, got.R2, 1e-12)
	assert.Equal(t, 4, got.N)
}

func TestEvaluateRegression_Sanity(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	for trial := 0; trial < 20; trial++ {
		n := 2 + r.IntN(50)
		yTrue := mat.NewVecDense(n, nil)
		yPred := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			yTrue.SetVec(i, float64(i)+r.NormFloat64())
			yPred.SetVec(i, r.NormFloat64()*10)
		}

		got, err := EvaluateRegression(yTrue, yPred)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.MAE, 0.0)
		assert.GreaterOrEqual(t, got.MSE, 0.0)
		assert.InDelta(t, math.Sqrt(got.MSE), got.RMSE, 1e-12)
		assert.LessOrEqual(t, got.R2, 1.0)
		// MAE never exceeds RMSE
		assert.LessOrEqual(t, got.MAE, got.RMSE+1e-12)
	}
}

func TestEvaluateRegression_Errors(t *testing.T) {
	_, err := EvaluateRegression(&mat.VecDense{}, &mat.VecDense{})
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	_, err = EvaluateRegression(mat.NewVecDense(2, []float64{1, 2}), mat.NewVecDense(1, []float64{1}))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestEvaluateRegression_ConstantTarget(t *testing.T) {
	previous := log.GetLogger()
	logger, _ := log.NewTestLogger(log.LevelWarn)
	log.SetLogger(logger)
	t.Cleanup(func() { log.SetLogger(previous) })

	t.Run("single row", func(t *testing.T) {
		got, err := EvaluateRegression(vec([]float64{49362.45}), vec([]float64{49862.45}))
		require.NoError(t, err)
		assert.InDelta(t, 500.0, got.MAE, 1e-9)
		assert.InDelta(t, 250000.0, got.MSE, 1e-6)
		assert.InDelta(t, 500.0, got.RMSE, 1e-9)
		assert.True(t, math.IsNaN(got.R2))
		assert.Equal(t, 1, got.N)
	})

	t.Run("flat prices", func(t *testing.T) {
		got, err := EvaluateRegression(vec([]float64{50000, 50000}), vec([]float64{49000, 51000}))
		require.NoError(t, err)
		assert.InDelta(t, 1000.0, got.MAE, 1e-9)
		assert.True(t, math.IsNaN(got.R2))
	})

	assert.True(t, logger.ContainsMessage("R² undefined for a constant target"))
	assert.True(t, logger.ContainsField(log.SamplesKey, 1.0))
}

func TestRegression_LogFields(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	m := Regression{MAE: 1, MSE: 2, RMSE: math.Sqrt2, R2: 0.5, N: 10}

	logger.Info("Evaluation complete", m.LogFields()...)

	assert.True(t, logger.ContainsField(log.MAEKey, 1.0))
	assert.True(t, logger.ContainsField(log.R2Key, 0.5))
	assert.True(t, logger.ContainsField(log.SamplesKey, 10.0))
}
