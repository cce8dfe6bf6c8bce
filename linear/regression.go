// Package linear provides the linear regression trainers used by the
// forecasting pipeline: a stochastic dual coordinate ascent solver and a
// closed-form least-squares solver.
package linear

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/core/model"
	"github.com/YuminosukeSato/stockforecast/metrics"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

const olsName = "LinearRegression"

// maxCondition is the largest Gram-matrix condition number accepted before
// the features are treated as collinear.
const maxCondition = 1e14

// LinearRegression is unregularised least squares. Like SDCARegressor it
// centres features and labels first, solves the centred normal equations
//
//	(XcᵀXc) w = Xcᵀyc
//
// by Cholesky factorisation and recovers the bias as ȳ - wᵀx̄. Collinear
// features (open, high and low can come close on flat days) are reported as
// ErrSingularMatrix rather than solved into huge offsetting weights.
type LinearRegression struct {
	state  *model.StateManager
	logger log.Logger

	coef      []float64
	intercept float64
	cond      float64
}

// NewLinearRegression creates an unfitted least-squares model.
func NewLinearRegression(opts ...OLSOption) *LinearRegression {
	lr := &LinearRegression{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLogger()
	}
	lr.logger = lr.logger.With(log.ModelNameKey, olsName)
	return lr
}

// Fit learns the coefficients and bias from X (n×d) and y (n×1).
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	lr.state.Reset()

	n, d := X.Dims()
	ry, cy := y.Dims()
	if n == 0 || d == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != n {
		return errors.NewDimensionError("LinearRegression.Fit", n, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	xc := mat.DenseCopyOf(X)
	yc := make([]float64, n)
	xMean := make([]float64, d)
	for i := 0; i < n; i++ {
		row := xc.RawRowView(i)
		if err := errors.CheckNumericalStability("LinearRegression.Fit", row, 0); err != nil {
			return err
		}
		floats.Add(xMean, row)
		yc[i] = y.At(i, 0)
		if err := errors.CheckScalar("LinearRegression.Fit", yc[i], 0); err != nil {
			return err
		}
	}
	floats.Scale(1/float64(n), xMean)
	yMean := floats.Sum(yc) / float64(n)
	for i := 0; i < n; i++ {
		floats.Sub(xc.RawRowView(i), xMean)
		yc[i] -= yMean
	}

	gram := mat.NewSymDense(d, nil)
	gram.SymOuterK(1, xc.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok || chol.Cond() > maxCondition {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var xty, w mat.VecDense
	xty.MulVec(xc.T(), mat.NewVecDense(n, yc))
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	coef := mat.Col(nil, 0, &w)
	if err := errors.CheckNumericalStability("LinearRegression.Fit", coef, 0); err != nil {
		return err
	}

	lr.coef = coef
	lr.intercept = yMean - floats.Dot(coef, xMean)
	lr.cond = chol.Cond()
	lr.state.SetFitted(d)

	lr.logger.Info("OLS solve finished",
		log.ConditionKey, lr.cond,
		log.SamplesKey, n,
		log.FeaturesKey, d,
	)
	return nil
}

// Predict returns an n×1 column of predictions for X.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	if err := lr.state.CheckPredict(olsName, c); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		predictions.Set(i, 0, floats.Dot(row, lr.coef)+lr.intercept)
	}
	return predictions, nil
}

// Score returns R² of the model's predictions on X against y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	return score(lr, X, y)
}

// Coefficients returns a copy of the learned weights.
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.coef == nil {
		return nil
	}
	out := make([]float64, len(lr.coef))
	copy(out, lr.coef)
	return out
}

// InterceptValue returns the learned intercept, or 0 before Fit.
func (lr *LinearRegression) InterceptValue() float64 {
	return lr.intercept
}

// IsFitted reports whether Fit has completed.
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Condition returns the condition number of the centred Gram matrix solved
// by the last Fit.
func (lr *LinearRegression) Condition() float64 {
	return lr.cond
}

// score is R² of p's predictions on X against the label column y.
func score(p model.Predictor, X, y mat.Matrix) (float64, error) {
	yPred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	ry, cy := y.Dims()
	if cy != 1 {
		return 0, errors.NewValueError("Score", "y must be a column vector")
	}
	rp, _ := yPred.Dims()
	if rp != ry {
		return 0, errors.NewDimensionError("Score", rp, ry, 0)
	}
	return metrics.R2Score(
		mat.NewVecDense(ry, mat.Col(nil, 0, y)),
		mat.NewVecDense(rp, mat.Col(nil, 0, yPred)),
	)
}
