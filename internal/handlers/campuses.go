package handlers

import (
	"net/http"

	"jpo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListCampuses handles GET /api/campus.
func (h *Handlers) ListCampuses(c *gin.Context) {
	filters := models.CampusFilters{
		City:   c.Query("city"),
		Search: c.Query("search"),
	}

	campuses, err := h.services.Campuses.List(c.Request.Context(), filters)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, campuses)
}

// GetCampus handles GET /api/campus/{id}.
func (h *Handlers) GetCampus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	campus, err := h.services.Campuses.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, campus)
}

// CampusOpenDays handles GET /api/campus/{id}/jpo.
func (h *Handlers) CampusOpenDays(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	openDays, err := h.services.Campuses.OpenDays(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, openDays)
}
