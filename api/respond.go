package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/openhire/jobboard/internal/apperr"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps a domain error to its HTTP status and a {message} body.
// Unclassified errors are logged and surfaced as a plain 500.
func writeError(w http.ResponseWriter, err error) {
	var derr *apperr.Error
	if !errors.As(err, &derr) {
		logger.Error("internal error", slog.Any("err", err))
		writeJSON(w, messageResponse{Message: "internal server error"}, http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch derr.Kind {
	case apperr.KindValidation, apperr.KindDuplicateEmail, apperr.KindDuplicateApplication:
		status = http.StatusBadRequest
	case apperr.KindUnauthenticated, apperr.KindInvalidCredentials:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInternal:
		logger.Error("internal error", slog.Any("err", derr.Err), slog.String("message", derr.Message))
	}

	msg := derr.Message
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, messageResponse{Message: msg}, status)
}
