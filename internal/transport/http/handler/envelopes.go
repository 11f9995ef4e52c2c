package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-phone-verify/internal/domain"
)

// Envelope is the response wrapper for every verification route.
type Envelope struct {
	Success  bool        `json:"success"`
	Code     string      `json:"code,omitempty"`
	Mode     string      `json:"mode,omitempty"`
	NewUser  *bool       `json:"newUser,omitempty"`
	Verified *bool       `json:"verified,omitempty"`
	Error    string      `json:"error,omitempty"`
	Details  interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Error: msg})
}

// errorResponder maps domain errors to HTTP. Infrastructure detail is only
// echoed back in development.
type errorResponder struct {
	development bool
}

func (e errorResponder) httpError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, Envelope{Error: domain.ErrValidation.Error(), Details: ve.Fields})
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		writeError(w, http.StatusBadRequest, domain.ErrInvalidOrExpiredCode.Error())
	case errors.Is(err, domain.ErrTooManyRequests):
		writeError(w, http.StatusTooManyRequests, domain.ErrTooManyRequests.Error())
	case errors.Is(err, domain.ErrDeliveryUnavailable), errors.Is(err, domain.ErrDelivery):
		e.write(w, http.StatusServiceUnavailable, "delivery service unavailable", err)
	case errors.Is(err, domain.ErrStorage):
		e.write(w, http.StatusInternalServerError, "storage error", err)
	default:
		slog.Error("unhandled error", "err", err)
		e.write(w, http.StatusInternalServerError, "internal error", err)
	}
}

func (e errorResponder) write(w http.ResponseWriter, status int, msg string, err error) {
	env := Envelope{Error: msg}
	if e.development {
		env.Details = err.Error()
	}
	writeJSON(w, status, env)
}
