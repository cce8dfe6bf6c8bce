package linear

import "github.com/YuminosukeSato/stockforecast/pkg/log"

// SDCAOption configures an SDCARegressor.
type SDCAOption func(*SDCARegressor)

// WithL2 sets the L2 regularisation strength. It must be positive.
func WithL2(l2 float64) SDCAOption {
	return func(s *SDCARegressor) {
		s.l2 = l2
	}
}

// WithMaxIter sets the maximum number of passes over the data.
func WithMaxIter(maxIter int) SDCAOption {
	return func(s *SDCARegressor) {
		s.maxIter = maxIter
	}
}

// WithTol sets the relative duality-gap tolerance used as the stopping rule.
func WithTol(tol float64) SDCAOption {
	return func(s *SDCARegressor) {
		s.tol = tol
	}
}

// WithRandomState seeds the per-epoch shuffle.
func WithRandomState(seed int64) SDCAOption {
	return func(s *SDCARegressor) {
		s.randomState = seed
	}
}

// WithShuffle sets whether rows are visited in a fresh random order each epoch.
func WithShuffle(shuffle bool) SDCAOption {
	return func(s *SDCARegressor) {
		s.shuffle = shuffle
	}
}

// WithLogger sets the logger used for training progress.
func WithLogger(l log.Logger) SDCAOption {
	return func(s *SDCARegressor) {
		if l != nil {
			s.logger = l
		}
	}
}

// OLSOption configures a LinearRegression.
type OLSOption func(*LinearRegression)

// WithOLSLogger sets the logger used to report the solve.
func WithOLSLogger(l log.Logger) OLSOption {
	return func(lr *LinearRegression) {
		if l != nil {
			lr.logger = l
		}
	}
}
