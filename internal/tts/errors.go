package tts

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means the backend cannot run at all, typically a missing credential.
	// No network call is made.
	ErrConfiguration = errors.New("tts configuration error")

	// ErrInvalidRequest means the input was rejected, locally or by the vendor's validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSynthesis covers every other failure, including an empty audio payload.
	ErrSynthesis = errors.New("speech synthesis failed")
)

// APIError is the error envelope returned by Google APIs.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (code %d, status %s): %s", e.Code, e.Status, e.Message)
}

type errorResponse struct {
	Error *APIError `json:"error"`
}
