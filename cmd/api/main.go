package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ro-recruiting/back-office-api/api/swagger"
	"github.com/ro-recruiting/back-office-api/internal/handler"
	"github.com/ro-recruiting/back-office-api/internal/middleware"
	"github.com/ro-recruiting/back-office-api/internal/repository"
	"github.com/ro-recruiting/back-office-api/internal/service"
	"github.com/ro-recruiting/back-office-api/pkg/cache"
	"github.com/ro-recruiting/back-office-api/pkg/config"
	"github.com/ro-recruiting/back-office-api/pkg/database"
	"github.com/ro-recruiting/back-office-api/pkg/drive"
	"github.com/ro-recruiting/back-office-api/pkg/fieldcrypt"
	"github.com/ro-recruiting/back-office-api/pkg/jobs"
	"github.com/ro-recruiting/back-office-api/pkg/logger"
	corsmiddleware "github.com/ro-recruiting/back-office-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ro-recruiting/back-office-api/pkg/middleware/requestid"
	"github.com/ro-recruiting/back-office-api/pkg/pdf"
)

// @title Recruiting Back Office API
// @version 1.0.0
// @description Back-office API for candidate and job opening management
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	cipher, err := fieldcrypt.New(cfg.Encryption.Key)
	if err != nil {
		logr.Sugar().Fatalw("failed to init field encryption", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	candidateRepo := repository.NewCandidateRepository(db)
	openingRepo := repository.NewOpeningRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	qualificationRepo := repository.NewQualificationRepository(db)
	backupRepo := repository.NewBackupRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, cfg.Cache.TTL, cfg.Cache.Enabled && redisClient != nil, logr)
	authSvc := service.NewAuthService(cfg.Auth, logr)
	candidateSvc := service.NewCandidateService(candidateRepo, linkRepo, cipher, validate, logr)
	openingSvc := service.NewOpeningService(openingRepo, linkRepo, cipher, validate, logr)
	lifecycleSvc := service.NewLifecycleService(linkRepo, candidateRepo, openingRepo, logr).WithMetrics(metrics)
	qualificationSvc := service.NewQualificationService(qualificationRepo, candidateRepo, validate, logr)
	fichaSvc := service.NewFichaService(candidateSvc, openingSvc, candidateRepo, pdf.NewWkhtmltopdf(cfg.Ficha.HTMLRendererBin), logr)
	dashboardSvc := service.NewDashboardService(candidateRepo, openingRepo, linkRepo, qualificationRepo, cacheSvc, logr)

	var backupSvc *service.BackupService
	if cfg.Backup.Enabled {
		driveClient, err := drive.New(context.Background(), drive.Config{
			FolderID:        cfg.Backup.FolderID,
			CredentialsFile: cfg.Backup.CredentialsFile,
			TokenFile:       cfg.Backup.TokenFile,
		})
		if err != nil {
			logr.Sugar().Warnw("drive unavailable, backups disabled", "error", err)
		} else {
			backupSvc = service.NewBackupService(backupRepo, driveClient, cfg.Backup.Retention, cfg.Backup.RestoreBatch, logr).WithMetrics(metrics)
		}
	}

	authHandler := handler.NewAuthHandler(authSvc, cfg.Auth)
	candidateHandler := handler.NewCandidateHandler(candidateSvc, cacheSvc)
	openingHandler := handler.NewOpeningHandler(openingSvc, cacheSvc)
	linkHandler := handler.NewLinkHandler(lifecycleSvc, cacheSvc)
	qualificationHandler := handler.NewQualificationHandler(qualificationSvc, cacheSvc)
	fichaHandler := handler.NewFichaHandler(fichaSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("", middleware.Auth(authSvc, cfg.Auth.CookieName))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/candidates", candidateHandler.List)
		protected.POST("/candidates", candidateHandler.Create)
		protected.GET("/candidates/:id", candidateHandler.Get)
		protected.PUT("/candidates/:id", candidateHandler.Update)
		protected.DELETE("/candidates/:id", candidateHandler.Delete)
		protected.POST("/candidates/:id/qualify", qualificationHandler.Qualify)
		protected.GET("/candidates/:id/qualification", qualificationHandler.Get)
		protected.GET("/candidates/:id/ficha", fichaHandler.CandidateFicha)

		protected.GET("/openings", openingHandler.List)
		protected.POST("/openings", openingHandler.Create)
		protected.GET("/openings/:id", openingHandler.Get)
		protected.PUT("/openings/:id", openingHandler.Update)
		protected.PATCH("/openings/:id/status", openingHandler.UpdateStatus)
		protected.DELETE("/openings/:id", openingHandler.Delete)
		protected.GET("/openings/:id/notes", openingHandler.ListNotes)
		protected.POST("/openings/:id/notes", openingHandler.AddNote)
		protected.GET("/openings/:id/ficha", fichaHandler.OpeningFicha)

		protected.GET("/links", linkHandler.List)
		protected.POST("/links", linkHandler.Create)
		protected.GET("/links/:id", linkHandler.Get)
		protected.PUT("/links/:id", linkHandler.Update)
		protected.POST("/links/:id/finalize", linkHandler.Finalize)
		protected.POST("/links/expire", linkHandler.ExpireSweep)
		protected.DELETE("/links/:id", linkHandler.Delete)

		protected.GET("/dashboard", dashboardHandler.Metrics)

		if backupSvc != nil {
			backupHandler := handler.NewBackupHandler(backupSvc)
			protected.GET("/backups", backupHandler.List)
			protected.POST("/backups", backupHandler.Create)
			protected.POST("/backups/:id/restore", backupHandler.Restore)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sweep stale processes once on boot so a long downtime does not leave
	// expired links active.
	go func() {
		expired, err := lifecycleSvc.ExpireSweep(ctx)
		if err != nil {
			logr.Sugar().Errorw("startup expire sweep failed", "error", err)
			return
		}
		if expired > 0 {
			logr.Sugar().Infow("startup expire sweep", "expired", expired)
		}
	}()

	expireJob := jobs.NewScheduler("expire-sweep", 24*time.Hour, func(ctx context.Context) error {
		_, err := lifecycleSvc.ExpireSweep(ctx)
		return err
	}, logr)
	expireJob.Start(ctx)
	defer expireJob.Stop()

	if backupSvc != nil && cfg.Backup.AutoInterval > 0 {
		backupJob := jobs.NewScheduler("auto-backup", cfg.Backup.AutoInterval, func(ctx context.Context) error {
			_, err := backupSvc.Create(ctx, true)
			return err
		}, logr)
		backupJob.Start(ctx)
		defer backupJob.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
