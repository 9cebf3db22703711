package handlers

import (
	"net/http"

	"jpo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	roleID, ok := queryInt64(c, "role_id")
	if !ok {
		return
	}

	filters := models.UserFilters{
		UserType:    c.Query("user_type"),
		RoleID:      roleID,
		Search:      c.Query("search"),
		CreatedFrom: c.Query("created_from"),
		CreatedTo:   c.Query("created_to"),
	}

	users, err := h.services.Users.List(c.Request.Context(), filters)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}.
func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.services.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, user)
}

// UserRegistrations handles GET /api/users/{id}/registrations.
func (h *Handlers) UserRegistrations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	registrations, err := h.services.Users.Registrations(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, registrations)
}

// UserComments handles GET /api/users/{id}/comments.
func (h *Handlers) UserComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := h.services.Users.Comments(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comments)
}
