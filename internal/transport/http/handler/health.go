package handler

import (
	"net/http"
	"time"
)

// HealthHandler handles the service and verification health checks.
type HealthHandler struct {
	environment   string
	store         string
	development   bool
	smsConfigured func() bool
}

func NewHealthHandler(environment, store string, development bool, smsConfigured func() bool) *HealthHandler {
	return &HealthHandler{environment: environment, store: store, development: development, smsConfigured: smsConfigured}
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
		"store":       h.store,
	})
}

func (h *HealthHandler) Verification(w http.ResponseWriter, _ *http.Request) {
	mode := "production"
	if h.development {
		mode = "development"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"smsConfigured": h.smsConfigured(),
		"mode":          mode,
	})
}
