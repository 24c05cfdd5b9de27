package datasource

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a geocoding query has no results
	ErrNotFound = errors.New("location not found")
	// ErrNoRoute is returned when the routing provider has no candidate routes
	ErrNoRoute = errors.New("no route found")
	// ErrNoData is returned when a response carries none of the expected data
	ErrNoData = errors.New("no data in response")
)

// NetworkError is a transport-level failure: connection error, timeout or non-2xx status
type NetworkError struct {
	API        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.API, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s API request failed: %v", e.API, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is or wraps a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
