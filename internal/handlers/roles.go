package handlers

import (
	"net/http"

	"jpo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListRoles handles GET /api/roles.
func (h *Handlers) ListRoles(c *gin.Context) {
	roles, err := h.services.Roles.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, roles)
}

// GetRole handles GET /api/roles/{id}.
func (h *Handlers) GetRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	role, err := h.services.Roles.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, role)
}

// CreateRole handles POST /api/roles.
func (h *Handlers) CreateRole(c *gin.Context) {
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	role, err := h.services.Roles.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, role)
}

// UpdateRole handles PUT /api/roles/{id}.
func (h *Handlers) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	role, err := h.services.Roles.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, role)
}

// DeleteRole handles DELETE /api/roles/{id}. A role still assigned to users
// is refused.
func (h *Handlers) DeleteRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Roles.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// RoleUsers handles GET /api/roles/{id}/users.
func (h *Handlers) RoleUsers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	users, err := h.services.Roles.Users(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, users)
}
