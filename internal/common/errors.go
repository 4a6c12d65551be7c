// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors. Both are fatal and must surface before any
	// product is processed.
	ErrConfig = errors.New("configuration error")
	ErrCycle  = errors.New("category tree cycle")

	// Matching errors.
	ErrNoCandidates = errors.New("no price candidates")
)

// ConfigError reports a rule or keyword-table entry that cannot be used,
// typically because it references a category code absent from the
// category table.
type ConfigError struct {
	Source string // rule or table entry name
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Source, e.Detail)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// NewConfigError creates a ConfigError for the named source.
func NewConfigError(source, format string, args ...any) error {
	return &ConfigError{Source: source, Detail: fmt.Sprintf(format, args...)}
}

// CycleError reports a category whose parent chain does not terminate,
// which means the category table is corrupt.
type CycleError struct {
	CategoryID string
	Steps      int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("category %s: parent chain did not terminate after %d steps", e.CategoryID, e.Steps)
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// IsFatal reports whether an error must abort the run before any side
// effect. Only configuration-level errors qualify.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrCycle)
}

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}
