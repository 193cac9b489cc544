package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"videotube-api/internal/errno"
)

func (h *Handler) Subscribe(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	err := h.accounts.Subscribe(c.Request.Context(), callerID, c.Param("userBId"))
	if errors.Is(err, errno.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User to subscribe not found"})
		return
	}
	if err != nil {
		h.fail(c, err, "Subscription failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Subscribed successfully"})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	err := h.accounts.Unsubscribe(c.Request.Context(), callerID, c.Param("userBId"))
	if errors.Is(err, errno.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User to unsubscribe not found"})
		return
	}
	if err != nil {
		h.fail(c, err, "Unsubscription failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Unsubscribed successfully"})
}

// Logout revokes every token of the caller, including the one used for this request.
func (h *Handler) Logout(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.accounts.Logout(c.Request.Context(), callerID); err != nil {
		h.fail(c, err, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out successfully"})
}

func (h *Handler) Profile(c *gin.Context) {
	acc, err := h.accounts.Profile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": acc})
}
