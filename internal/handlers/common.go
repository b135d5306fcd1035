package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Root reports service status
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.source.Version(),
	})
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check all configured collaborators
	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		err := check(ctx)
		checks[name] = err == nil
		if err != nil {
			allHealthy = false
			h.logger.Warnw("Readiness check failed", "check", name, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":   allHealthy,
		"checks":  checks,
		"version": h.source.Version(),
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
