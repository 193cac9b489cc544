package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube-api/internal/errno"
	"videotube-api/internal/middleware"
	"videotube-api/internal/service"
	"videotube-api/internal/utils"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves every API route.
type Handler struct {
	accounts   *service.AccountService
	content    *service.ContentService
	discussion *service.DiscussionService
	db         Pinger
	uploadDir  string
	maxUpload  int64
	log        *logrus.Logger
}

func New(accounts *service.AccountService, content *service.ContentService, discussion *service.DiscussionService,
	db Pinger, uploadDir string, maxUpload int64, log *logrus.Logger) *Handler {
	return &Handler{
		accounts:   accounts,
		content:    content,
		discussion: discussion,
		db:         db,
		uploadDir:  uploadDir,
		maxUpload:  maxUpload,
		log:        log,
	}
}

// fail writes err to the client. Expected failures carry their own status and message;
// anything else is logged and answered with fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	if e, ok := errno.As(err); ok {
		h.log.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"kind": e.Kind.String(),
		}).Warn(e.Msg)
		c.JSON(e.Kind.Status(), gin.H{"error": e.Msg})
		return
	}
	h.log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// caller returns the account id of the authenticated requester. Only routes behind the
// auth middleware may use it.
func (h *Handler) caller(c *gin.Context) (string, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		h.log.WithField("path", c.Request.URL.Path).Error("route reached without authenticated identity")
		c.JSON(http.StatusUnauthorized, gin.H{"error": errno.ErrInvalidToken.Msg})
		return "", false
	}
	return claims.AccountID, true
}

// limitUpload caps the request body at maxUpload bytes. It answers 413 and returns
// false when the declared length is already over the cap.
func (h *Handler) limitUpload(c *gin.Context) bool {
	if h.maxUpload <= 0 {
		return true
	}
	if c.Request.ContentLength > h.maxUpload {
		h.tooLarge(c, h.maxUpload)
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	return true
}

// badRequest answers a body that could not be read or bound.
func (h *Handler) badRequest(c *gin.Context, err error) {
	if h.rejectOversize(c, err) {
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// rejectOversize answers 413 when err comes from the body cap.
func (h *Handler) rejectOversize(c *gin.Context, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	h.tooLarge(c, maxErr.Limit)
	return true
}

func (h *Handler) tooLarge(c *gin.Context, limit int64) {
	h.log.WithFields(logrus.Fields{
		"path":          c.Request.URL.Path,
		"limit_bytes":   limit,
		"content_bytes": c.Request.ContentLength,
	}).Warn("upload rejected")
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": fmt.Sprintf("Upload exceeds the %d MB limit", limit>>20),
	})
}

// failUpload is fail for errors met while reading a multipart body.
func (h *Handler) failUpload(c *gin.Context, err error, fallback string) {
	if h.rejectOversize(c, err) {
		return
	}
	h.fail(c, err, fallback)
}

// stageOptional stages the named multipart file, returning "" when it was not sent.
func (h *Handler) stageOptional(c *gin.Context, field string, cleanup *utils.FileCleanup) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	return utils.StageUpload(fh, h.uploadDir, cleanup)
}

// releaseUploads removes staged files once the request is done.
func (h *Handler) releaseUploads(cleanup *utils.FileCleanup) {
	if err := cleanup.Cleanup(); err != nil {
		h.log.WithError(err).Warn("failed to remove staged uploads")
	}
}
