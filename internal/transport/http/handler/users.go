package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-phone-verify/internal/application/user"
	"github.com/go-phone-verify/internal/domain"
	"github.com/go-phone-verify/internal/pkg/validate"
)

// UserHandler serves /update-user and /create-user; both are the same upsert.
type UserHandler struct {
	svc user.Service
	errorResponder
}

func NewUserHandler(svc user.Service, development bool) *UserHandler {
	return &UserHandler{svc: svc, errorResponder: errorResponder{development: development}}
}

func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.httpError(w, err)
		return
	}
	_, created, err := h.svc.Upsert(r.Context(), domain.UserUpsert{
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
	})
	if err != nil {
		h.httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, NewUser: &created})
}
