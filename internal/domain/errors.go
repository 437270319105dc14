package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkFailureMessage is shown when the service could not be reached.
const NetworkFailureMessage = "Upload or processing failed: could not reach the summarization service"

// GenericFailureMessage is shown when an error carries nothing presentable.
const GenericFailureMessage = "An error occurred while processing your audio file. Please try again."

// ServiceError is a non-2xx or malformed response from a processing service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service error (HTTP %d)", e.StatusCode)
	}

	return fmt.Sprintf("service error (HTTP %d): %s", e.StatusCode, e.Message)
}

// TransportError is a network failure talking to a processing service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage maps an error to the single message shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Message != "" {
			return svcErr.Message
		}
		if text := http.StatusText(svcErr.StatusCode); text != "" {
			return text
		}

		return GenericFailureMessage
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return NetworkFailureMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return GenericFailureMessage
}
