package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube-api/internal/service"
	"videotube-api/internal/utils"
)

type VideoRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Category    string `form:"category"`
	Tags        string `form:"tags"`
}

// VideoPatchRequest leaves a field nil when the client did not send it.
type VideoPatchRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Category    *string `json:"category" form:"category"`
	Tags        *string `json:"tags" form:"tags"`
}

func (h *Handler) UploadVideo(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	if !h.limitUpload(c) {
		return
	}
	var req VideoRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cleanup := utils.NewFileCleanup()
	defer h.releaseUploads(cleanup)

	videoPath, err := h.stageOptional(c, "video", cleanup)
	if err != nil {
		h.failUpload(c, err, "Failed to upload video")
		return
	}
	thumbnailPath, err := h.stageOptional(c, "thumbnail", cleanup)
	if err != nil {
		h.failUpload(c, err, "Failed to upload video")
		return
	}

	h.log.WithFields(logrus.Fields{
		"owner_id": callerID,
		"title":    req.Title,
	}).Debug("received video upload")

	v, err := h.content.Upload(c.Request.Context(), callerID, service.UploadInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Tags:          req.Tags,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		h.fail(c, err, "Failed to upload video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"newVideo": v})
}

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.content.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
		"count":  len(videos),
	})
}

func (h *Handler) GetVideo(c *gin.Context) {
	v, err := h.content.Get(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		h.fail(c, err, "Failed to fetch video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": v})
}

func (h *Handler) UpdateVideo(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	if !h.limitUpload(c) {
		return
	}
	var req VideoPatchRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cleanup := utils.NewFileCleanup()
	defer h.releaseUploads(cleanup)

	thumbnailPath, err := h.stageOptional(c, "thumbnail", cleanup)
	if err != nil {
		h.failUpload(c, err, "Failed to update video")
		return
	}

	v, err := h.content.Update(c.Request.Context(), callerID, c.Param("videoId"), service.UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Tags:          req.Tags,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		h.fail(c, err, "Failed to update video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedVideo": v})
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}

	v, err := h.content.Delete(c.Request.Context(), callerID, c.Param("videoId"))
	if err != nil {
		h.fail(c, err, "Failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Data deleted successfully",
		"data":    v,
	})
}

func (h *Handler) LikeVideo(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.content.Like(c.Request.Context(), callerID, c.Param("videoId")); err != nil {
		h.fail(c, err, "Error in like API")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Video liked successfully"})
}

func (h *Handler) DislikeVideo(c *gin.Context) {
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.content.Dislike(c.Request.Context(), callerID, c.Param("videoId")); err != nil {
		h.fail(c, err, "Error in dislike API")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Video disliked successfully"})
}

func (h *Handler) RecordView(c *gin.Context) {
	views, err := h.content.RecordView(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		h.fail(c, err, "Error in updating views")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":   "Views updated",
		"views": views,
	})
}
