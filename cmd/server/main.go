// Package main runs the CampusFix maintenance-request HTTP server with
// graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campusfix/backend/config"
	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/auth"
	"github.com/campusfix/backend/internal/lifecycle"
	"github.com/campusfix/backend/internal/messages"
	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/internal/notifications"
	"github.com/campusfix/backend/internal/organizations"
	"github.com/campusfix/backend/internal/photos"
	"github.com/campusfix/backend/internal/requests"
	"github.com/campusfix/backend/internal/timeline"
	"github.com/campusfix/backend/internal/worker"
	"github.com/campusfix/backend/pkg/database"
	"github.com/campusfix/backend/pkg/queue"
	"github.com/campusfix/backend/pkg/redis"
	"github.com/campusfix/backend/pkg/response"
	"github.com/campusfix/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			PhotosBucket:         cfg.AWS.PhotosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Notifications (best-effort fan-out + delivery log)
	notifRepo := notifications.NewRepository(pool)
	dispatcher := notifications.NewDispatcher(notifRepo, jobQueue, logger)

	// Auth and users
	authRepo := auth.NewRepository(pool)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo, authRepo)
	authHandler := auth.NewHandler(authRepo, orgRepo, jwtService, logger)

	// Lifecycle (status machine, assignments) owns the request meta lookup the
	// access gate evaluates against.
	lifecycleRepo := lifecycle.NewRepository(pool)
	gate := access.NewGate(lifecycleRepo)
	lifecycleService := lifecycle.NewService(lifecycleRepo, dispatcher, logger)
	lifecycleHandler := lifecycle.NewHandler(lifecycleService)

	// Requests
	requestRepo := requests.NewRepository(pool)
	requestService := requests.NewService(requestRepo, gate, dispatcher, logger)
	requestHandler := requests.NewHandler(requestService)

	// Timeline
	timelineRepo := timeline.NewRepository(pool)
	timelineService := timeline.NewService(timelineRepo)
	timelineHandler := timeline.NewHandler(timelineService, gate)

	// Messages
	messageRepo := messages.NewRepository(pool)
	messageHandler := messages.NewHandler(messageRepo, gate)

	// Photos (pre-signed S3 upload/download)
	photoRepo := photos.NewRepository(pool)
	photoHandler := photos.NewHandler(photoRepo, gate, s3Client, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService.PrincipalFromToken))
	{
		// Users (admin provisions staff and lists members of their org)
		api.GET("/users", middleware.RequireRole(models.RoleAdmin), authHandler.List)
		api.POST("/users", middleware.RequireRole(models.RoleAdmin), authHandler.CreateStaff)

		// Organizations
		api.POST("/organizations", middleware.RequireRole(models.RoleSuperAdmin), orgHandler.Create)
		api.GET("/organizations/me", orgHandler.GetMine)
		api.GET("/organizations/:id/members",
			middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), orgHandler.ListMembers)

		// Requests
		api.POST("/requests", requestHandler.Create)
		api.GET("/requests", requestHandler.List)
		api.GET("/requests/:id", requestHandler.Get)
		api.POST("/requests/:id/building-detail", requestHandler.CreateBuildingDetail)

		// Lifecycle (per-request authorization happens in the service)
		api.PATCH("/requests/:id/status", lifecycleHandler.UpdateStatus)
		api.PATCH("/requests/:id/priority", lifecycleHandler.UpdatePriority)
		api.POST("/requests/:id/assign",
			middleware.RequireRole(models.RoleAdmin, models.RoleMaintenance), lifecycleHandler.Assign)

		// Timeline
		api.GET("/requests/:id/timeline", timelineHandler.Get)

		// Messages
		api.POST("/requests/:id/messages", messageHandler.Create)
		api.GET("/requests/:id/messages", messageHandler.List)

		// Photos
		api.POST("/requests/:id/photos", photoHandler.Create)
		api.GET("/requests/:id/photos", photoHandler.List)
		api.GET("/photos/:id/download-url", photoHandler.DownloadURL)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// In-process notification worker when SMTP is configured; otherwise jobs
	// wait in Redis for a standalone worker.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Email.SMTPHost != "" {
		sender := &worker.SMTPSender{
			Host:     cfg.Email.SMTPHost,
			Port:     strconv.Itoa(cfg.Email.SMTPPort),
			Username: cfg.Email.SMTPUser,
			Password: cfg.Email.SMTPPass,
			From:     cfg.Email.FromAddress,
		}
		processor := worker.NewNotificationProcessor(notifRepo, sender, jobQueue, logger)
		go processor.Run(workerCtx)
		logger.Info("notification worker started")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
