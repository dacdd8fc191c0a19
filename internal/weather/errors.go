package weather

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable marks any failure of an external dependency:
	// transport errors, timeouts, bad status codes and malformed payloads.
	ErrProviderUnavailable = errors.New("external provider unavailable")

	// ErrMissingField is returned when a successful response lacks a field
	// that has no safe default (the air-quality index).
	ErrMissingField = errors.New("missing required field")
)

// Dependency names the external collaborator that failed.
type Dependency string

const (
	DependencyWeather       Dependency = "weather"
	DependencyAirQuality    Dependency = "air_quality"
	DependencyDocumentStore Dependency = "document_store"
)

// ProviderError carries enough detail to tell which dependency failed.
type ProviderError struct {
	Dependency Dependency
	Provider   string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s provider unavailable: %v", e.Dependency, e.Err)
	}
	return fmt.Sprintf("%s provider %s unavailable: %v", e.Dependency, e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is makes every ProviderError match ErrProviderUnavailable, missing fields included.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

// NewProviderError wraps err for the given dependency. Deadline overruns are
// kept in the chain so callers can still inspect context.DeadlineExceeded.
func NewProviderError(dep Dependency, provider string, err error) *ProviderError {
	if err == nil {
		err = ErrProviderUnavailable
	}
	return &ProviderError{Dependency: dep, Provider: provider, Err: err}
}

// DependencyOf extracts the failing dependency from err, if any.
func DependencyOf(err error) (Dependency, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Dependency, true
	}
	return "", false
}

// IsTimeout reports whether err was caused by a call deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
