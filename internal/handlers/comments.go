package handlers

import (
	"net/http"

	"jpo/internal/models"

	"github.com/gin-gonic/gin"
)

// ListComments handles GET /api/comments.
func (h *Handlers) ListComments(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	jpoID, ok := queryInt64(c, "jpo_id")
	if !ok {
		return
	}
	hasReply, ok := queryBool(c, "has_reply")
	if !ok {
		return
	}

	filters := models.CommentFilters{
		UserID:   userID,
		JpoID:    jpoID,
		HasReply: hasReply,
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	comments, err := h.services.Comments.List(c.Request.Context(), filters)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comments)
}

// GetComment handles GET /api/comments/{id}.
func (h *Handlers) GetComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.services.Comments.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comment)
}

// CreateComment handles POST /api/comments.
func (h *Handlers) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	comment, err := h.services.Comments.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, comment)
}

// UpdateComment handles PUT /api/comments/{id}. Content edits and moderator
// replies go through the same endpoint.
func (h *Handlers) UpdateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comment)
}

// ReplyComment handles POST /api/comments/{id}/reply, attaching a moderator
// reply to an existing comment.
func (h *Handlers) ReplyComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.ReplyCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidPayload, err.Error())
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), id, &models.UpdateCommentRequest{
		ModeratorReply: &req.ModeratorReply,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/{id}.
func (h *Handlers) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Comments.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
