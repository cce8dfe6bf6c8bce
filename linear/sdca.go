package linear

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/core/model"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

const sdcaName = "SDCARegressor"

// SDCARegressor fits a ridge-regularised linear model by stochastic dual
// coordinate ascent on the squared loss:
//
//	min_w 1/n Σ ½(yᵢ - wᵀxᵢ)² + λ/2 ‖w‖²
//
// Features and labels are centred before optimisation so the bias is not
// regularised; it is recovered as ȳ - wᵀx̄ afterwards. Each epoch visits every
// row once (in a seeded random order when shuffling) and training stops when
// the duality gap drops to tol times the primal objective at w = 0, or after
// maxIter epochs.
type SDCARegressor struct {
	state *model.StateManager

	l2          float64
	maxIter     int
	tol         float64
	randomState int64
	shuffle     bool
	logger      log.Logger

	coef       []float64
	intercept  float64
	nIter      int
	converged  bool
	dualityGap float64
}

// NewSDCARegressor creates a regressor with l2=1e-4, maxIter=1000, tol=1e-7,
// shuffling on and seed 42.
func NewSDCARegressor(opts ...SDCAOption) *SDCARegressor {
	s := &SDCARegressor{
		state:       model.NewStateManager(),
		l2:          1e-4,
		maxIter:     1000,
		tol:         1e-7,
		randomState: 42,
		shuffle:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ModelNameKey, sdcaName)
	return s
}

func (s *SDCARegressor) validate() error {
	if !(s.l2 > 0) {
		return errors.NewValidationError("l2", "must be positive", s.l2)
	}
	if s.maxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be positive", s.maxIter)
	}
	if !(s.tol >= 0) {
		return errors.NewValidationError("tol", "must be non-negative", s.tol)
	}
	return nil
}

// Fit learns the coefficients and bias from X (n×d) and y (n×1).
func (s *SDCARegressor) Fit(X, y mat.Matrix) error {
	s.state.Reset()
	if err := s.validate(); err != nil {
		return err
	}

	n, d := X.Dims()
	ry, cy := y.Dims()
	if n == 0 || d == 0 {
		return errors.NewModelError("SDCARegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != n {
		return errors.NewDimensionError("SDCARegressor.Fit", n, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("SDCARegressor.Fit", "y must be a column vector")
	}

	// Centre a private copy of the data.
	xc := mat.DenseCopyOf(X)
	yc := make([]float64, n)
	xMean := make([]float64, d)
	var yMean float64
	for i := 0; i < n; i++ {
		row := xc.RawRowView(i)
		if err := errors.CheckNumericalStability("SDCARegressor.Fit", row, 0); err != nil {
			return err
		}
		floats.Add(xMean, row)
		yc[i] = y.At(i, 0)
		if err := errors.CheckScalar("SDCARegressor.Fit", yc[i], 0); err != nil {
			return err
		}
		yMean += yc[i]
	}
	floats.Scale(1/float64(n), xMean)
	yMean /= float64(n)
	for i := 0; i < n; i++ {
		floats.Sub(xc.RawRowView(i), xMean)
		yc[i] -= yMean
	}

	lambdaN := s.l2 * float64(n)
	sqNorms := make([]float64, n)
	for i := 0; i < n; i++ {
		row := xc.RawRowView(i)
		sqNorms[i] = floats.Dot(row, row)
	}

	// P(0) = 1/n Σ ½ yᵢ²
	initialPrimal := 0.5 * floats.Dot(yc, yc) / float64(n)

	w := make([]float64, d)
	alpha := make([]float64, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(s.randomState), uint64(s.randomState)))

	s.converged = false
	s.nIter = 0
	s.dualityGap = 0
	if initialPrimal == 0 {
		// Constant labels: w = 0 is optimal.
		s.converged = true
	}

	for epoch := 1; epoch <= s.maxIter && !s.converged; epoch++ {
		if s.shuffle {
			rng.Shuffle(n, func(a, b int) { order[a], order[b] = order[b], order[a] })
		}

		for _, i := range order {
			xi := xc.RawRowView(i)
			residual := yc[i] - floats.Dot(w, xi)
			delta := (residual - alpha[i]) / (1 + sqNorms[i]/lambdaN)
			if delta == 0 {
				continue
			}
			alpha[i] += delta
			floats.AddScaled(w, delta/lambdaN, xi)
		}

		s.nIter = epoch
		gap := s.gap(xc, yc, w, alpha)
		s.dualityGap = gap
		if err := errors.CheckScalar("SDCARegressor.Fit", gap, epoch); err != nil {
			return err
		}

		if epoch%100 == 0 {
			s.logger.Debug("SDCA epoch",
				log.IterationKey, epoch,
				log.DualityGapKey, gap,
			)
		}

		if gap <= s.tol*initialPrimal {
			s.converged = true
		}
	}

	if !s.converged {
		errors.Warn(errors.NewConvergenceWarning(sdcaName, s.nIter,
			fmt.Sprintf("duality gap %.3g above tolerance after %d epochs", s.dualityGap, s.nIter)))
	}

	s.coef = w
	s.intercept = yMean - floats.Dot(w, xMean)
	s.state.SetFitted(d)

	s.logger.Info("SDCA training finished",
		log.IterationKey, s.nIter,
		log.ConvergedKey, s.converged,
		log.DualityGapKey, s.dualityGap,
		log.RegularizationKey, s.l2,
		log.SamplesKey, n,
		log.FeaturesKey, d,
	)
	return nil
}

// gap returns P(w) - D(α) for the centred problem.
func (s *SDCARegressor) gap(xc *mat.Dense, yc, w, alpha []float64) float64 {
	n := len(yc)
	var loss, dual float64
	for i := 0; i < n; i++ {
		r := yc[i] - floats.Dot(w, xc.RawRowView(i))
		loss += 0.5 * r * r
		dual += alpha[i]*yc[i] - 0.5*alpha[i]*alpha[i]
	}
	reg := 0.5 * s.l2 * floats.Dot(w, w)
	primal := loss/float64(n) + reg
	dualObj := dual/float64(n) - reg
	return primal - dualObj
}

// Predict returns an n×1 column of predictions for X.
func (s *SDCARegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	if err := s.state.CheckPredict(sdcaName, c); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		predictions.Set(i, 0, floats.Dot(row, s.coef)+s.intercept)
	}
	return predictions, nil
}

// Score returns R² of the model's predictions on X against y.
func (s *SDCARegressor) Score(X, y mat.Matrix) (float64, error) {
	return score(s, X, y)
}

// Coefficients returns a copy of the learned weights.
func (s *SDCARegressor) Coefficients() []float64 {
	if s.coef == nil {
		return nil
	}
	out := make([]float64, len(s.coef))
	copy(out, s.coef)
	return out
}

// InterceptValue returns the learned bias.
func (s *SDCARegressor) InterceptValue() float64 {
	return s.intercept
}

// IsFitted reports whether Fit has completed.
func (s *SDCARegressor) IsFitted() bool {
	return s.state.IsFitted()
}

// NIter returns the number of epochs run by the last Fit.
func (s *SDCARegressor) NIter() int {
	return s.nIter
}

// Converged reports whether the last Fit met the tolerance.
func (s *SDCARegressor) Converged() bool {
	return s.converged
}

// DualityGap returns the duality gap after the last epoch.
func (s *SDCARegressor) DualityGap() float64 {
	return s.dualityGap
}

// GetParams returns the regressor's hyperparameters.
func (s *SDCARegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"l2":           s.l2,
		"max_iter":     s.maxIter,
		"tol":          s.tol,
		"random_state": s.randomState,
		"shuffle":      s.shuffle,
	}
}

func (s *SDCARegressor) String() string {
	return fmt.Sprintf("SDCARegressor(l2=%g, max_iter=%d, tol=%g)", s.l2, s.maxIter, s.tol)
}
