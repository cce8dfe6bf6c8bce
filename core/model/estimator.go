package model

import "gonum.org/v1/gonum/mat"

// Predictor maps a feature matrix to an n×1 column of predictions.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel is a trainable linear regressor that exposes its learned
// parameters.
type LinearModel interface {
	Predictor
	// Fit learns from a feature matrix X and a label column y.
	Fit(X, y mat.Matrix) error
	// Score returns R² of the model's predictions on X against y.
	Score(X, y mat.Matrix) (float64, error)
	// Coefficients returns a copy of the learned weights, one per feature.
	Coefficients() []float64
	// InterceptValue returns the learned bias.
	InterceptValue() float64
}
