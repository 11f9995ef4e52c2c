package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-phone-verify/internal/application/user"
	"github.com/go-phone-verify/internal/application/verification"
	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/validate"
)

// VerificationHandler handles the send/verify code flow and profile upserts.
type VerificationHandler struct {
	svc   verification.Service
	users user.Service
	errorResponder
}

func NewVerificationHandler(svc verification.Service, users user.Service, development bool) *VerificationHandler {
	return &VerificationHandler{svc: svc, users: users, errorResponder: errorResponder{development: development}}
}

func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.httpError(w, err)
		return
	}
	res, err := h.svc.Issue(r.Context(), req.PhoneNumber)
	if err != nil {
		h.httpError(w, err)
		return
	}
	if res.Development {
		writeJSON(w, http.StatusOK, Envelope{Success: true, Code: res.Code, Mode: "development"})
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true})
}

func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.httpError(w, err)
		return
	}
	rec, err := h.svc.Verify(r.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		h.httpError(w, err)
		return
	}
	// The code is spent from here on; a profile failure must not look retryable.
	if _, _, err := h.users.MarkVerified(r.Context(), rec.PhoneNumber); err != nil {
		slog.Error("profile update after verification failed", "phone_number", rec.PhoneNumber, "err", err)
		verified := true
		env := Envelope{Verified: &verified, Error: domain.ErrProfileUpdate.Error()}
		if h.development {
			env.Details = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, env)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true})
}
