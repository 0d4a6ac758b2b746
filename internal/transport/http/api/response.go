// Package api holds the JSON envelope shared by every HTTP handler.
package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/domain"
	"go.uber.org/zap"
)

const (
	CodeInvalidInput    = "invalid_input"
	CodeUnsupportedYear = "unsupported_year"
	CodeInternal        = "internal"
	CodeNotFound        = "not_found"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write json failed", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// StatusFor maps an error to its HTTP status and envelope code.
func StatusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrUnsupportedYear):
		return http.StatusUnprocessableEntity, CodeUnsupportedYear
	case errors.Is(err, domain.ErrInvalidInput), errors.As(err, &maxBytes):
		return http.StatusBadRequest, CodeInvalidInput
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// FailError writes err with the status chosen by StatusFor. Internal errors get a generic message.
func FailError(w http.ResponseWriter, err error, requestID string) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	Fail(w, status, code, message, requestID)
}
