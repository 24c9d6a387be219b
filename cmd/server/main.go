package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chronos/internal/config"
	apphttp "chronos/internal/http"
	"chronos/internal/repository/sqlite"
	"chronos/internal/service"
	"chronos/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}
	if strings.TrimSpace(cfg.Auth.RegisterPassword) == "" {
		logger.Fatalf("auth registration password is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("timesheet timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	shiftRepo := sqlite.NewShiftRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := profileRepo.Init(ctx); err != nil {
		logger.Fatalf("init profile repository: %v", err)
	}
	if err := shiftRepo.Init(ctx); err != nil {
		logger.Fatalf("init shift repository: %v", err)
	}

	photos, err := buildPhotoStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	handler, err := apphttp.NewHandler(apphttp.Config{
		Users:      service.NewUserService(userRepo, cfg.Auth.RegisterPassword),
		Profiles:   service.NewProfileService(userRepo, profileRepo, photos, logger),
		Timesheets: service.NewTimesheetService(userRepo, shiftRepo, loc, time.Now),
		Shifts:     service.NewShiftService(userRepo, shiftRepo, time.Now),
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.TokenTTL(),
		Location:   loc,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatalf("setup http: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (timesheets in %s)", cfg.Server.Addr, loc)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildPhotoStore connects to S3 when a bucket is configured; without one
// profile photos are disabled.
func buildPhotoStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (service.PhotoStore, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, profile photos disabled")
		return service.PhotoStore{}, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return service.PhotoStore{}, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return service.PhotoStore{
		Service:   storage.NewS3Service(client),
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
	}, nil
}
