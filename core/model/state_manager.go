package model

import (
	"sync"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

// StateManager records whether a model is fitted and how many feature columns
// it was fitted on. Models hold it by composition; it is safe for concurrent use
// so a fitted model can serve predictions from several goroutines.
type StateManager struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
}

// NewStateManager creates a StateManager in the not-fitted state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model fitted on rows of nFeatures columns.
func (s *StateManager) SetFitted(nFeatures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
}

// Reset clears the fitted state. Fit calls it first so a refit that fails
// half way leaves the model unusable rather than stale.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
}

// CheckPredict guards a Predict call on modelName with an input of
// nFeatures columns: NotFittedError before Fit, DimensionError when the
// column count differs from the fitted one.
func (s *StateManager) CheckPredict(modelName string, nFeatures int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.fitted {
		return errors.NewNotFittedError(modelName, "Predict")
	}
	if nFeatures != s.nFeatures {
		return errors.NewDimensionError(modelName+".Predict", s.nFeatures, nFeatures, 1)
	}
	return nil
}
