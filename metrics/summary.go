package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// Regression bundles the four error measures reported after evaluation.
type Regression struct {
	MAE  float64
	MSE  float64
	RMSE float64
	R2   float64
	// N is the number of rows the measures were computed over.
	N int
}

// EvaluateRegression computes MAE, MSE, RMSE and R² of yPred against yTrue.
// When yTrue has no variance, as with a single test row, R² is NaN and a
// warning is logged; the other measures are still reported.
func EvaluateRegression(yTrue, yPred *mat.VecDense) (Regression, error) {
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Regression{}, err
	}
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return Regression{}, err
	}
	r2, err := R2Score(yTrue, yPred)
	var ve *errors.ValueError
	switch {
	case errors.As(err, &ve):
		// MAE already validated the pair, so this is the zero-variance case.
		log.GetLogger().Warn("R² undefined for a constant target",
			log.ComponentKey, "metrics",
			log.SamplesKey, yTrue.Len(),
		)
		r2 = math.NaN()
	case err != nil:
		return Regression{}, err
	}
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return Regression{}, err
	}

	return Regression{
		MAE:  mae,
		MSE:  mse,
		RMSE: rmse,
		R2:   r2,
		N:    yTrue.Len(),
	}, nil
}

// LogFields returns the measures as key/value pairs for a log.Logger call.
func (r Regression) LogFields() []any {
	return []any{
		log.MAEKey, r.MAE,
		log.MSEKey, r.MSE,
		log.RMSEKey, r.RMSE,
		log.R2Key, r.R2,
		log.SamplesKey, r.N,
	}
}
