package handlers

import (
	"net/http"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// Reload forces a projection table reload check
// @Summary Reload Projection Table
// @Tags System
// @Produce json
// @Success 200 {object} models.ReloadResponse
// @Failure 501 {object} map[string]string "Not Implemented"
// @Router /reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		h.errorResponse(w, http.StatusNotImplemented, "Reload is not supported for this projection source")
		return
	}

	reloaded, err := h.reloader.Reload(r.Context())
	if err != nil {
		h.logger.Errorw("Manual reload failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to reload projection table")
		return
	}

	h.jsonResponse(w, http.StatusOK, models.ReloadResponse{
		Reloaded: reloaded,
		Version:  h.reloader.Version(),
		Source:   "csv",
	})
}
