package model

import (
	"encoding/json"
	"fmt"
)

// ModelWeights is the serialisable form of a fitted linear pipeline: the
// regression coefficients plus whatever preprocessing statistics are needed
// to reproduce a prediction.
type ModelWeights struct {
	// ModelType names the trainer, e.g. "SDCARegressor".
	ModelType string `json:"model_type"`

	// Version of the export format.
	Version string `json:"version"`

	// Coefficients holds one weight per feature, in Features order.
	Coefficients []float64 `json:"coefficients"`

	Intercept float64 `json:"intercept"`

	// Features names the input columns.
	Features []string `json:"features,omitempty"`

	// Hyperparameters used for training.
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata carries fitted preprocessing statistics (e.g. scaler min/max).
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON encodes the weights as indented JSON.
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON decodes weights produced by ToJSON.
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate checks that the weights are internally consistent.
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}

	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}

	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return fmt.Errorf("unfitted model should not have coefficients")
	}

	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return fmt.Errorf("fitted model must have coefficients")
	}

	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return fmt.Errorf("got %d feature names for %d coefficients", len(mw.Features), len(mw.Coefficients))
	}

	return nil
}
