package main

import (
	"context"
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

	_ "github.com/nakul-26/timetable-precheck-api/api/swagger"
	"github.com/nakul-26/timetable-precheck-api/internal/handler"
	"github.com/nakul-26/timetable-precheck-api/internal/middleware"
	"github.com/nakul-26/timetable-precheck-api/internal/repository"
	"github.com/nakul-26/timetable-precheck-api/internal/service"
	"github.com/nakul-26/timetable-precheck-api/pkg/cache"
	"github.com/nakul-26/timetable-precheck-api/pkg/config"
	"github.com/nakul-26/timetable-precheck-api/pkg/database"
	"github.com/nakul-26/timetable-precheck-api/pkg/jobs"
	"github.com/nakul-26/timetable-precheck-api/pkg/logger"
	corsmiddleware "github.com/nakul-26/timetable-precheck-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nakul-26/timetable-precheck-api/pkg/middleware/requestid"
	"github.com/nakul-26/timetable-precheck-api/pkg/storage"
)

// @title Timetable Precheck API
// @version 1.0.0
// @description Pre-flight feasibility analysis for class timetabling
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()
	readiness := map[string]handler.ReadinessCheck{}

	// Redis is optional: without it the analyzer simply skips report caching.
	var cacheSvc *service.CacheService
	if cfg.Analyzer.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analyzer.CacheTTL, logr, true)
			readiness["redis"] = func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return client.Ping(pingCtx).Err()
			}
		}
	}

	// Postgres is required only when run history is enabled.
	var runStore *repository.AnalysisRunRepository
	if cfg.RunHistory.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close() //nolint:errcheck
		runStore = repository.NewAnalysisRunRepository(db)
		readiness["postgres"] = db.Ping
	}

	feasibilityCfg := service.FeasibilityConfig{
		CacheTTL:     cfg.Analyzer.CacheTTL,
		RunListLimit: cfg.RunHistory.ListLimit,
	}
	var feasibilitySvc *service.FeasibilityService
	if runStore != nil {
		feasibilitySvc = service.NewFeasibilityService(validate, logr, cacheSvc, metricsSvc, runStore, feasibilityCfg)
	} else {
		feasibilitySvc = service.NewFeasibilityService(validate, logr, cacheSvc, metricsSvc, nil, feasibilityCfg)
	}

	feasibilityHandler := handler.NewFeasibilityHandler(feasibilitySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, readiness)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.Auth.Secret})
		api.Use(middleware.JWT(authSvc))
	}

	api.POST("/timetable/feasibility", feasibilityHandler.Analyze)
	api.GET("/timetable/feasibility/runs", feasibilityHandler.ListRuns)
	api.GET("/timetable/feasibility/runs/:id", feasibilityHandler.GetRun)
	api.GET("/status", metricsHandler.Snapshot)

	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, nil, nil)

		jobRepo := repository.NewExportJobRepository()
		worker := service.NewExportWorker(jobRepo, exportSvc, metricsSvc, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("report-exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		reportExportSvc := service.NewReportExportService(jobRepo, feasibilitySvc, queue, exportSvc, logr, service.ReportExportConfig{
			ResultTTL:       cfg.Exports.JobTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		reportExportSvc.StartCleanup(ctx)

		exportHandler := handler.NewExportHandler(reportExportSvc)
		api.POST("/timetable/export", exportHandler.Create)
		api.GET("/timetable/export/jobs/:id", exportHandler.Status)
		api.GET("/timetable/export/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
