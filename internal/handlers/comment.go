package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	CommentText string `json:"commentText" form:"commentText"`
}

func (h *Handler) PostComment(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.discussion.Post(c.Request.Context(), callerID, c.Param("videoId"), req.CommentText)
	if err != nil {
		h.fail(c, err, "Failed to post comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"newComment": comment})
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.discussion.List(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		h.fail(c, err, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *Handler) UpdateComment(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.discussion.Update(c.Request.Context(), callerID, c.Param("commentId"), req.CommentText)
	if err != nil {
		h.fail(c, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":            "Comment updated successfully",
		"updatedComment": comment,
	})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.discussion.Delete(c.Request.Context(), callerID, c.Param("commentId")); err != nil {
		h.fail(c, err, "Failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Comment deleted successfully"})
}
