// Package handlers binds the HTTP surface to the service layer and shapes
// every reply into the shared JSON envelope.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"jpo/internal/cache"
	"jpo/internal/database"
	apperrors "jpo/internal/errors"
	"jpo/internal/logger"
	"jpo/internal/models"
	"jpo/internal/service"

	"github.com/gin-gonic/gin"
)

// Client-facing messages. The frontend displays them as-is, so they stay in
// French like the rest of the product.
const (
	msgAlreadyRegistered = "L'utilisateur est déjà inscrit à cette JPO"
	msgOpenDayFull       = "Cette JPO est complète, aucune inscription supplémentaire possible"
	msgOpenDayNotFound   = "JPO introuvable"
	msgNotFound          = "Ressource introuvable"
	msgInvalidStatus     = "Statut invalide : utilisez 'registered' ou 'unregistered'"
	msgInvalidID         = "Identifiant invalide"
	msgInvalidPayload    = "Données invalides"
	msgRoleNameTaken     = "Un rôle avec ce nom existe déjà"
	msgRoleInUse         = "Impossible de supprimer un rôle assigné à des utilisateurs"
	msgInternalError     = "Une erreur interne est survenue"
)

type Handlers struct {
	services *service.Services
	valkey   *cache.ValkeyClient
	db       *database.DB

	// debug attaches internal error detail to 500 responses. Off in
	// production.
	debug bool
}

func NewHandlers(services *service.Services, valkey *cache.ValkeyClient, db *database.DB, debug bool) *Handlers {
	return &Handlers{
		services: services,
		valkey:   valkey,
		db:       db,
		debug:    debug,
	}
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, models.SuccessResponse(data))
}

func respondError(c *gin.Context, status int, message string, details any) {
	c.JSON(status, models.ErrorResponse(message, status, details))
}

// respondServiceError maps domain errors to client responses. Anything
// unmapped is a 500; its detail leaks only when debug is on.
func (h *Handlers) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		respondError(c, http.StatusBadRequest, msgAlreadyRegistered, nil)
	case errors.Is(err, apperrors.ErrOpenDayFull):
		respondError(c, http.StatusBadRequest, msgOpenDayFull, nil)
	case errors.Is(err, apperrors.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, msgInvalidStatus, nil)
	case errors.Is(err, apperrors.ErrRoleNameTaken):
		respondError(c, http.StatusBadRequest, msgRoleNameTaken, nil)
	case errors.Is(err, apperrors.ErrRoleInUse):
		respondError(c, http.StatusBadRequest, msgRoleInUse, nil)
	case errors.Is(err, apperrors.ErrOpenDayNotFound):
		respondError(c, http.StatusNotFound, msgOpenDayNotFound, nil)
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, msgNotFound, nil)
	default:
		logger.WithContext(c.Request.Context()).Error("Unhandled service error",
			"error", err,
			"path", c.Request.URL.Path)
		var details any
		if h.debug {
			details = err.Error()
		}
		respondError(c, http.StatusInternalServerError, msgInternalError, details)
	}
}

// parseID reads a positive integer path parameter, answering 400 itself on
// bad input.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, msgInvalidID, gin.H{name: c.Param(name)})
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional integer filter, answering 400 itself when the
// value is present but malformed.
func queryInt64(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, gin.H{name: raw})
		return nil, false
	}
	return &v, true
}

// queryBool mirrors queryInt64 for boolean filters.
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, gin.H{name: raw})
		return nil, false
	}
	return &v, true
}
