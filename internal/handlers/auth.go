package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"videotube-api/internal/errno"
	"videotube-api/internal/service"
	"videotube-api/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SignupRequest struct {
	ChannelName string `form:"channelName"`
	Email       string `form:"email"`
	Phone       string `form:"phone"`
	Password    string `form:"password"`
}

// Signup registers a channel from a multipart form whose logoUrl part is the avatar.
func (h *Handler) Signup(c *gin.Context) {
	if !h.limitUpload(c) {
		return
	}
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cleanup := utils.NewFileCleanup()
	defer h.releaseUploads(cleanup)

	logoPath, err := h.stageOptional(c, "logoUrl", cleanup)
	if err != nil {
		h.failUpload(c, err, "Signup failed")
		return
	}

	acc, err := h.accounts.Register(c.Request.Context(), service.SignupInput{
		ChannelName: req.ChannelName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		LogoPath:    logoPath,
	})
	if errors.Is(err, errno.ErrEmailTaken) {
		c.JSON(http.StatusOK, gin.H{"error": errno.ErrEmailTaken.Msg})
		return
	}
	if err != nil {
		h.fail(c, err, "Signup failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":     "Signup successful",
		"newUser": acc,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Both an unknown email and a wrong password are reported as 400.
		if e, ok := errno.As(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Msg})
			return
		}
		h.fail(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, res)
}
