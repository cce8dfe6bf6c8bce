package pipeline

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/stockforecast/core/model"
	"github.com/YuminosukeSato/stockforecast/linear"
	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// TrainerKind selects the regression solver.
type TrainerKind string

const (
	// TrainerSDCA is stochastic dual coordinate ascent with L2 regularisation.
	TrainerSDCA TrainerKind = "sdca"
	// TrainerOLS is closed-form ordinary least squares.
	TrainerOLS TrainerKind = "ols"
)

// ParseTrainerKind resolves "sdca" or "ols", case-insensitively.
func ParseTrainerKind(s string) (TrainerKind, error) {
	switch k := TrainerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case TrainerSDCA, TrainerOLS:
		return k, nil
	default:
		return "", errors.NewValidationError("trainer", "must be sdca or ols", s)
	}
}

// TrainerSettings are the solver hyperparameters. OLS ignores all but Kind.
type TrainerSettings struct {
	Kind    TrainerKind
	L2      float64
	MaxIter int
	Tol     float64
	Seed    int64
}

// DefaultTrainerSettings returns SDCA with l2=1e-4, 1000 epochs, tol=1e-7, seed 42.
func DefaultTrainerSettings() TrainerSettings {
	return TrainerSettings{
		Kind:    TrainerSDCA,
		L2:      1e-4,
		MaxIter: 1000,
		Tol:     1e-7,
		Seed:    42,
	}
}

// NewTrainer builds the regressor described by s.
func NewTrainer(s TrainerSettings, logger log.Logger) (model.LinearModel, error) {
	switch s.Kind {
	case TrainerSDCA:
		return linear.NewSDCARegressor(
			linear.WithL2(s.L2),
			linear.WithMaxIter(s.MaxIter),
			linear.WithTol(s.Tol),
			linear.WithRandomState(s.Seed),
			linear.WithLogger(logger),
		), nil
	case TrainerOLS:
		return linear.NewLinearRegression(linear.WithOLSLogger(logger)), nil
	default:
		return nil, errors.NewValidationError("trainer", "must be sdca or ols", string(s.Kind))
	}
}

func trainerName(r model.LinearModel) string {
	switch r.(type) {
	case *linear.SDCARegressor:
		return "SDCARegressor"
	case *linear.LinearRegression:
		return "LinearRegression"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", r), "*")
	}
}
