package handlers

import (
	"net/http"

	"jpo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListRegistrations handles GET /api/registrations.
func (h *Handlers) ListRegistrations(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	jpoID, ok := queryInt64(c, "jpo_id")
	if !ok {
		return
	}

	filters := models.RegistrationFilters{
		UserID:   userID,
		JpoID:    jpoID,
		Status:   c.Query("status"),
		UserType: c.Query("user_type"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	registrations, err := h.services.Registrations.List(c.Request.Context(), filters)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, registrations)
}

// GetRegistration handles GET /api/registrations/{id}.
func (h *Handlers) GetRegistration(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	registration, err := h.services.Registrations.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, registration)
}

// CreateRegistration handles POST /api/registrations. The admission check
// runs in the service; here we only validate the payload shape.
func (h *Handlers) CreateRegistration(c *gin.Context) {
	var req models.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	registration, err := h.services.Registrations.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, registration)
}

// UpdateRegistration handles PUT /api/registrations/{id}. Only the status
// can change; "unregistered" cancels, "registered" reactivates.
func (h *Handlers) UpdateRegistration(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidStatus, err.Error())
		return
	}

	registration, err := h.services.Registrations.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, registration)
}

// DeleteRegistration handles DELETE /api/registrations/{id}.
func (h *Handlers) DeleteRegistration(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Registrations.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// RegistrationStats handles GET /api/stats/registrations.
func (h *Handlers) RegistrationStats(c *gin.Context) {
	stats, err := h.services.Registrations.Stats(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, stats)
}

// OpenDayStats handles GET /api/stats/jpo.
func (h *Handlers) OpenDayStats(c *gin.Context) {
	stats, err := h.services.Registrations.StatsByOpenDay(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, stats)
}
