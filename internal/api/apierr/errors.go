package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/triviaduel/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidSettings   = "INVALID_SETTINGS"
	CodeInvalidPhase      = "INVALID_PHASE"
	CodeNoTopics          = "NO_TOPICS"
	CodeQuestionBankEmpty = "QUESTION_BANK_EMPTY"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidSettings):
		// The wrapped message names the offending field
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, err.Error()}}
	case errors.Is(err, model.ErrNoTopics):
		return &httpError{http.StatusBadRequest, APIError{CodeNoTopics, "No topics configured"}}
	case errors.Is(err, model.ErrInvalidPhase):
		return &httpError{http.StatusConflict, APIError{CodeInvalidPhase, err.Error()}}
	case errors.Is(err, model.ErrQuestionBankEmpty):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeQuestionBankEmpty, "Question bank is empty"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
