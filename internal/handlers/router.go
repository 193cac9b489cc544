package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube-api/internal/middleware"
)

// NewRouter mounts every route. gate guards the routes that need a caller identity.
func NewRouter(h *Handler, gate gin.HandlerFunc, metrics *middleware.Metrics, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandlingMiddleware(log))
	_ = router.SetTrustedProxies(nil)

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	user := router.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/login", h.Login)
		user.GET("/:userId", h.Profile)
		user.PUT("/subscribe/:userBId", gate, h.Subscribe)
		user.PUT("/unsubscribe/:userBId", gate, h.Unsubscribe)
		user.PUT("/logout", gate, h.Logout)
	}

	video := router.Group("/video")
	{
		video.GET("/", h.ListVideos)
		video.GET("/:videoId", h.GetVideo)
		video.PUT("/views/:videoId", h.RecordView)
		video.POST("/upload", gate, h.UploadVideo)
		video.PUT("/:videoId", gate, h.UpdateVideo)
		video.DELETE("/:videoId", gate, h.DeleteVideo)
		video.PUT("/like/:videoId", gate, h.LikeVideo)
		video.PUT("/dislike/:videoId", gate, h.DislikeVideo)
	}

	comment := router.Group("/comment")
	{
		comment.GET("/:videoId", h.ListComments)
		comment.POST("/new-comment/:videoId", gate, h.PostComment)
		comment.PUT("/:commentId", gate, h.UpdateComment)
		comment.DELETE("/:commentId", gate, h.DeleteComment)
	}

	return router
}
