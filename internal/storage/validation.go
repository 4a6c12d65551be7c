package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medassort/taxon/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidMatch = errors.New("invalid match")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMatch validates a single match row before it is written.
func validateMatch(m *model.Match) error {
	if m == nil {
		return fmt.Errorf("%w: match", ErrNilParameter)
	}
	if m.ProductID == "" {
		return fmt.Errorf("%w: missing product id", ErrInvalidMatch)
	}
	if m.ReferencePriceID == "" {
		return fmt.Errorf("%w: missing reference price id", ErrInvalidMatch)
	}
	if m.Method == "" {
		return fmt.Errorf("%w: missing method", ErrInvalidMatch)
	}
	if m.Score < 0 || m.Score > 1 {
		return fmt.Errorf("%w: score must be between 0 and 1", ErrInvalidMatch)
	}
	return nil
}
