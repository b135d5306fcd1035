package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gridiron-tools/compare-api/internal/logic"
	"github.com/gridiron-tools/compare-api/internal/models"
	"github.com/gridiron-tools/compare-api/internal/store"
)

// GetComparison compares two players
// @Summary Compare Players
// @Description Scalar projection table plus merged cumulative distributions and axis plans
// @Tags Compare
// @Produce json
// @Param a query string true "Player A ID"
// @Param b query string true "Player B ID"
// @Param format query string false "Scoring format (full_ppr, half_ppr, standard)" default(full_ppr)
// @Param viewport query string false "Viewport class (narrow, medium, wide)" default(medium)
// @Success 200 {object} models.Comparison
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /compare [get]
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.CompareRequest{
		PlayerA:  q.Get("a"),
		PlayerB:  q.Get("b"),
		Format:   q.Get("format"),
		Viewport: q.Get("viewport"),
	}
	h.serveComparison(w, r, req)
}

// PostComparison compares two players named in a JSON body
// @Summary Compare Players
// @Tags Compare
// @Accept json
// @Produce json
// @Param request body models.CompareRequest true "Players and format"
// @Success 200 {object} models.Comparison
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /compare [post]
func (h *Handler) PostComparison(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	h.serveComparison(w, r, req)
}

func (h *Handler) serveComparison(w http.ResponseWriter, r *http.Request, req models.CompareRequest) {
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid comparison request: "+err.Error())
		return
	}

	format, err := logic.ParseFormat(req.Format)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	cmp, err := h.compare.Compare(r.Context(), req.PlayerA, req.PlayerB, format, models.Viewport(req.Viewport))
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.errorResponse(w, http.StatusNotFound, "Player not found")
		return
	case errors.Is(err, logic.ErrUnknownFormat):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Errorw("Failed to compare players", "a", req.PlayerA, "b", req.PlayerB, "format", format, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to compare players")
		return
	}

	h.jsonResponse(w, http.StatusOK, cmp)
}
