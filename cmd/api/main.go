package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube-api/internal/auth"
	"videotube-api/internal/config"
	"videotube-api/internal/database"
	"videotube-api/internal/handlers"
	"videotube-api/internal/media"
	"videotube-api/internal/middleware"
	"videotube-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := config.NewLogger(cfg.Log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	store := database.NewStore(db)
	defer store.Close()

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	provider, err := media.NewMinioProvider(startCtx, media.MinioConfig{
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		Bucket:    cfg.Media.Bucket,
		Region:    cfg.Media.Region,
		PublicURL: cfg.Media.PublicURL,
		UseSSL:    cfg.Media.UseSSL,
	}, log)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to media host")
	}

	tokens, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("failed to create token manager")
	}

	if err := os.MkdirAll(cfg.Server.UploadDir, 0755); err != nil {
		log.WithError(err).Fatal("failed to create upload staging directory")
	}

	h := handlers.New(
		service.NewAccountService(store, provider, tokens, log),
		service.NewContentService(store, provider, log),
		service.NewDiscussionService(store, log),
		store, cfg.Server.UploadDir, cfg.Server.MaxUploadMB<<20, log,
	)

	gin.SetMode(cfg.Server.Mode)
	router := handlers.NewRouter(h, middleware.AuthMiddleware(tokens, store, log), middleware.NewMetrics(), log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-quit
	log.Info("server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return
	}
	log.Info("server stopped gracefully")
}
