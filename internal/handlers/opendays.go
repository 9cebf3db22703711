package handlers

import (
	"net/http"

	"jpo/internal/logger"
	"jpo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListOpenDays handles GET /api/jpo. The unfiltered list is the hot path of
// the public site, so it is served from Valkey when possible.
func (h *Handlers) ListOpenDays(c *gin.Context) {
	campusID, ok := queryInt64(c, "campus_id")
	if !ok {
		return
	}

	filters := models.OpenDayFilters{
		CampusID: campusID,
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Search:   c.Query("search"),
	}

	unfiltered := filters.CampusID == nil && filters.DateFrom == "" &&
		filters.DateTo == "" && filters.Search == ""

	if unfiltered && h.valkey != nil {
		if raw, err := h.valkey.GetOpenDayListRaw(c.Request.Context()); err == nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	openDays, err := h.services.OpenDays.List(c.Request.Context(), filters)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	response := models.SuccessResponse(openDays)
	if unfiltered && h.valkey != nil {
		if err := h.valkey.SetOpenDayList(c.Request.Context(), response); err != nil {
			logger.WithContext(c.Request.Context()).Error("Failed to cache open day list", "error", err)
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetOpenDay handles GET /api/jpo/{id}; the response includes the comments.
func (h *Handlers) GetOpenDay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	openDay, err := h.services.OpenDays.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, openDay)
}

// CreateOpenDay handles POST /api/jpo.
func (h *Handlers) CreateOpenDay(c *gin.Context) {
	var req models.CreateOpenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	openDay, err := h.services.OpenDays.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, openDay)
}

// UpdateOpenDay handles PUT /api/jpo/{id}.
func (h *Handlers) UpdateOpenDay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOpenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	openDay, err := h.services.OpenDays.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, openDay)
}

// DeleteOpenDay handles DELETE /api/jpo/{id}. Registrations and comments go
// with it.
func (h *Handlers) DeleteOpenDay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.OpenDays.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// OpenDayRegistrations handles GET /api/jpo/{id}/registrations.
func (h *Handlers) OpenDayRegistrations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.services.OpenDays.Get(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	registrations, err := h.services.Registrations.List(c.Request.Context(),
		models.RegistrationFilters{JpoID: &id})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, registrations)
}

// OpenDayComments handles GET /api/jpo/{id}/comments.
func (h *Handlers) OpenDayComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.services.OpenDays.Get(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	comments, err := h.services.Comments.List(c.Request.Context(),
		models.CommentFilters{JpoID: &id})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comments)
}
