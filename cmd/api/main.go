package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-projects-api/api/swagger"
	"github.com/noah-isme/campus-projects-api/internal/handler"
	"github.com/noah-isme/campus-projects-api/internal/repository"
	"github.com/noah-isme/campus-projects-api/internal/router"
	"github.com/noah-isme/campus-projects-api/internal/service"
	"github.com/noah-isme/campus-projects-api/pkg/cache"
	"github.com/noah-isme/campus-projects-api/pkg/config"
	"github.com/noah-isme/campus-projects-api/pkg/database"
	"github.com/noah-isme/campus-projects-api/pkg/jobs"
	"github.com/noah-isme/campus-projects-api/pkg/logger"
	"github.com/noah-isme/campus-projects-api/pkg/storage"
)

// @title Campus Projects API
// @version 1.0
// @description Users, projects, deliverables and file storage for university project collaboration.
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, project cache disabled", zap.Error(err))
		redisClient = nil
	}

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		logr.Fatal("failed to initialise blob store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	identity, err := service.NewIdentityService(cfg.Identity)
	if err != nil {
		logr.Fatal("failed to initialise identity verification", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.ProjectsTTL, logr, redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	deliverableRepo := repository.NewDeliverableRepository(db)
	fileRepo := repository.NewFileRepository(db)

	fileSvc := service.NewFileService(fileRepo, blobs, cfg.Uploads.MaxFileSizeBytes, metrics, logr)

	cleanupSvc := service.NewCleanupService(fileSvc, metrics, logr)
	cleanupQueue := jobs.NewQueue("orphan-cleanup", cleanupSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Cleanup.Workers,
		MaxRetries: cfg.Cleanup.MaxRetries,
		RetryDelay: cfg.Cleanup.RetryDelay,
		Logger:     logr,
		OnDrop:     cleanupSvc.Dropped,
	})
	cleanupSvc.UseQueue(cleanupQueue)
	cleanupQueue.Start(ctx)

	userSvc := service.NewUserService(userRepo, validate, logr)
	projectSvc := service.NewProjectService(service.ProjectServiceDeps{
		Repo:      projectRepo,
		Files:     fileSvc,
		Cleanup:   cleanupSvc,
		Cache:     cacheSvc,
		CacheTTL:  cfg.Redis.ProjectsTTL,
		Validator: validate,
		Logger:    logr,
	})
	deliverableSvc := service.NewDeliverableService(deliverableRepo, validate, logr)

	engine := router.New(router.Deps{
		Logger:         logr,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxMultipart:   cfg.Uploads.MaxFileSizeBytes,
		MaxUploadBytes: cfg.Uploads.MaxFileSizeBytes,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Metrics:        metrics,
		Identity:       identity,
		Users:          handler.NewUserHandler(userSvc),
		Projects:       handler.NewProjectHandler(projectSvc),
		Deliverables:   handler.NewDeliverableHandler(deliverableSvc),
		Files:          handler.NewFileHandler(fileSvc),
		Ops:            handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver, "identity", identity.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	cleanupQueue.Stop()
	logr.Info("shutdown complete")
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal:
		store, err := storage.NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverMinIO, "":
		store, err := storage.NewMinIOStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
