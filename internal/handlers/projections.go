package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridiron-tools/compare-api/internal/store"
)

// GetPlayers returns the selectable players
// @Summary List Players
// @Tags Players
// @Produce json
// @Success 200 {array} models.Player
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /players [get]
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.source.ListPlayers(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list players", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list players")
		return
	}
	if len(players) == 0 {
		h.errorResponse(w, http.StatusInternalServerError, "players not loaded")
		return
	}

	h.jsonResponse(w, http.StatusOK, players)
}

// GetProjections returns every raw projection record
// @Summary List Projections
// @Tags Players
// @Produce json
// @Success 200 {array} models.Projection
// @Router /projections [get]
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	projections, err := h.source.ListProjections(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list projections", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list projections")
		return
	}
	if len(projections) == 0 {
		h.errorResponse(w, http.StatusInternalServerError, "projections not loaded")
		return
	}

	h.jsonResponse(w, http.StatusOK, projections)
}

// GetProjection returns one player's raw projection record
// @Summary Get Projection
// @Tags Players
// @Produce json
// @Param id path string true "Player ID"
// @Success 200 {object} models.Projection
// @Failure 404 {object} map[string]string "Not Found"
// @Router /projections/{id} [get]
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorResponse(w, http.StatusBadRequest, "ID is required")
		return
	}

	proj, err := h.source.GetProjection(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.errorResponse(w, http.StatusNotFound, "Projection not found")
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to get projection", "id", id, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get projection")
		return
	}

	h.jsonResponse(w, http.StatusOK, proj)
}
