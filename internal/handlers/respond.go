package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"CardForge/internal/ai"
	"CardForge/internal/bundle"
	"CardForge/internal/model"
	"CardForge/internal/quiz"
	"CardForge/internal/repo"
	"CardForge/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case tooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, bundle.ErrInvalidFormat),
		errors.Is(err, model.ErrInvalidCard):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// writeError answers with the mapped status. Server faults are logged and their text hidden.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorw(op+": internal error", "error", err)
		http.Error(w, "internal error", status)
		return
	}
	log.Warnw(op+": request failed", "status", status, "error", err)
	http.Error(w, err.Error(), status)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(service.ErrValidation, err)
	}
	return nil
}
