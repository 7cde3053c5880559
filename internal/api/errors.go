// Package api implements the JSON/HTTP interface of the expense tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Chunsinee/expenseTracker/internal/logger"
)

// apiError carries an HTTP status and a client-visible message.
// Handlers build one for every expected failure; anything else is treated
// as an unexpected server fault.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func errValidation(message string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: message}
}

func errConflict(message string) *apiError {
	return &apiError{status: http.StatusConflict, message: message}
}

func errForbidden(message string) *apiError {
	return &apiError{status: http.StatusForbidden, message: message}
}

func errUnauthorized(message string) *apiError {
	return &apiError{status: http.StatusUnauthorized, message: message}
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// respond writes v as JSON with the given status.
func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError maps an error to its HTTP representation. Unexpected errors
// become a generic 500 whose detail is exposed only in development mode.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		s.respond(w, apiErr.status, errorResponse{Message: apiErr.message})
		return
	}

	logger.Log.Error().Err(err).Msg("Unhandled server error")

	resp := errorResponse{Message: "Something went wrong on the server"}
	if s.cfg.IsDevelopment() {
		resp.Error = err.Error()
	}
	s.respond(w, http.StatusInternalServerError, resp)
}
