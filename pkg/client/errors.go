package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrNetworkFailure matches every *APIError via errors.Is.
	ErrNetworkFailure = errors.New("network failure")

	// ErrInvalidID is returned when a detail is requested with a non-positive id.
	ErrInvalidID = errors.New("id must be a positive integer")

	// ErrInvalidName is returned when a detail is requested with an empty name.
	ErrInvalidName = errors.New("name must not be empty")

	// ErrMalformedDetail is returned when a detail response carries no types.
	ErrMalformedDetail = errors.New("detail has no types")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures where no response was received.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassUnexpected represents non-success statuses outside 4xx/5xx (e.g. 3xx).
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// APIError is returned for any request that did not end in a 2xx response.
type APIError struct {
	// Op names the operation ("list", "detail_by_id", "detail_by_name")
	Op string

	// StatusCode is 0 when no response was received
	StatusCode int

	// StatusText is the reason phrase of the response
	StatusText string

	ErrorClass ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s failure: %v", e.Op, e.ErrorClass, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error (status %d): %s: %v",
			e.Op, e.ErrorClass, e.StatusCode, e.StatusText, e.Err)
	}
	return fmt.Sprintf("%s: %s error (status %d): %s",
		e.Op, e.ErrorClass, e.StatusCode, e.StatusText)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNetworkFailure.
func (e *APIError) Is(target error) bool {
	return target == ErrNetworkFailure
}

// NotFound reports whether the remote answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is an *APIError carrying a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// classifyStatus maps a non-success status code to an ErrorClass.
func classifyStatus(code int) ErrorClass {
	switch {
	case code >= 400 && code < 500:
		return ErrorClassClient
	case code >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}
