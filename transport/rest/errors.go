package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrOutOfRange),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrInvalidPlayer):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound),
		errors.Is(err, apperror.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrSessionAlreadyTerminal),
		errors.Is(err, apperror.ErrEmailAlreadyExists),
		errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	retryable := errors.Is(err, apperror.ErrConflict)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	}

	if retryable {
		w.Header().Set("Retry-After", "0")
	}

	writeJSON(w, status, errorResponse{Error: message, Retryable: retryable})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
