package model

import (
	"sync"
)

// StateManager manages the fitted state of a model in a thread-safe manner.
// Fitted pipeline and stack values embed it by composition; a zero value is
// unfit, which is what makes NotFittedError detectable on hand-constructed
// fitted objects.
type StateManager struct {
	fitted bool
	mu     sync.RWMutex

	// Optional metadata captured at fit time.
	nRows       int
	nCovariates int
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
}

// SetDimensions records the training data shape.
func (s *StateManager) SetDimensions(nCovariates, nRows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nCovariates = nCovariates
	s.nRows = nRows
}

// GetDimensions returns the training data shape.
func (s *StateManager) GetDimensions() (nCovariates, nRows int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nCovariates, s.nRows
}
