// Package httputil provides HTTP utility functions for request and response handling.
//
// Every API response is wrapped in a result envelope:
//
//	{"result": {"status": true, "value": ...}}
//	{"result": {"status": false, "error": {"code": 601, "message": "..."}}}
//
// The numeric error codes are part of the external contract and distinguish,
// among others, a policy denial (303) from a missing container (601).
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/tokenbox/internal/errors"
)

// API error codes carried in the result envelope.
const (
	CodeConflict         = 301
	CodePolicyDenied     = 303
	CodeUnsupportedType  = 404
	CodeInternal         = 500
	CodeNotFound         = 601
	CodeUserNotFound     = 904
	CodeMissingParameter = 905
	CodeAdminRequired    = 4033
)

// ResultError describes a failed operation inside the result envelope.
type ResultError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Result is the payload of every API response.
type Result struct {
	Status bool         `json:"status"`
	Value  any          `json:"value,omitempty"`
	Error  *ResultError `json:"error,omitempty"`
}

// Response is the outermost API response envelope.
type Response struct {
	Result Result `json:"result"`
}

// Success writes a 200 response with the value wrapped in the result envelope.
func Success(c *gin.Context, value any) {
	c.JSON(http.StatusOK, Response{Result: Result{Status: true, Value: value}})
}

// HandleErrorGin maps domain errors to HTTP status codes and API error codes
// and writes the result envelope. A policy denial and a missing resource must
// stay distinguishable end-to-end, so the mapping never collapses classes.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode, apiCode int

	switch {
	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		apiCode = CodePolicyDenied

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		apiCode = CodeAdminRequired

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		apiCode = CodeNotFound

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusBadRequest
		apiCode = CodeConflict

	case apperrors.Is(err, apperrors.ErrUnsupportedType):
		statusCode = http.StatusBadRequest
		apiCode = CodeUnsupportedType

	case apperrors.Is(err, apperrors.ErrMissingParameter):
		statusCode = http.StatusBadRequest
		apiCode = CodeMissingParameter

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		apiCode = CodeMissingParameter

	default:
		statusCode = http.StatusInternalServerError
		apiCode = CodeInternal
	}

	// A domain error may carry a more specific API code (e.g. 904 for a
	// failed identity resolution, which is a not-found with its own code).
	if code, ok := apperrors.CodeOf(err); ok {
		apiCode = code
		if apiCode == CodeUserNotFound {
			statusCode = http.StatusBadRequest
		}
	}

	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		// Do not expose internals to the client.
		message = "an internal error occurred"
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.Int("error_code", apiCode),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, Response{Result: Result{
		Status: false,
		Error:  &ResultError{Code: apiCode, Message: message},
	}})
}

// HandleBadRequestGin writes a 400 response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, Response{Result: Result{
		Status: false,
		Error:  &ResultError{Code: CodeMissingParameter, Message: err.Error()},
	}})
}
