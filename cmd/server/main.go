package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dropsync/catalog/config"
	httpDelivery "github.com/dropsync/catalog/internal/delivery/http"
	"github.com/dropsync/catalog/internal/domain"
	"github.com/dropsync/catalog/internal/infrastructure/cache"
	"github.com/dropsync/catalog/internal/infrastructure/metrics"
	"github.com/dropsync/catalog/internal/infrastructure/variantmapper"
	"github.com/dropsync/catalog/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Server, cfg.Log)
	logger.WithFields(logrus.Fields{
		"environment":       cfg.Server.Environment,
		"port":              cfg.Server.Port,
		"cache":             cfg.Cache.Type,
		"cache_ttl":         cfg.Cache.TTL.String(),
		"extractor_version": domain.ExtractorVersion,
	}).Info("Starting catalog import service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newCache(ctx, cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize cache")
	}
	defer closeStore()

	normalizerConfig := usecase.NormalizerConfig{Logger: logger}
	if cfg.VariantMapper.Enabled() {
		normalizerConfig.VariantMapper = variantmapper.NewClient(variantmapper.Config{
			BaseURL:           cfg.VariantMapper.BaseURL,
			APIKey:            cfg.VariantMapper.APIKey,
			Timeout:           cfg.VariantMapper.Timeout,
			RequestsPerSecond: cfg.VariantMapper.RequestsPerSecond,
			Logger:            logger,
		})
		logger.WithField("base_url", cfg.VariantMapper.BaseURL).Info("Remote variant mapper enabled")
	}

	serviceMetrics := metrics.New()

	importService := usecase.NewImportService(
		store,
		usecase.NewNormalizer(normalizerConfig),
		usecase.NewValidator(),
		usecase.ImportServiceConfig{
			CacheTTL:         cfg.Cache.TTL,
			BatchConcurrency: cfg.Import.BatchConcurrency,
			MaxBatchSize:     cfg.Import.MaxBatchSize,
			Recorder:         serviceMetrics,
			Logger:           logger,
		},
	)

	handler := httpDelivery.NewHandler(importService, cfg.Import.MaxUploadMB)
	router := httpDelivery.SetupRouter(cfg, handler, logger, serviceMetrics)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}

// newCache builds the configured CacheRepository and its release function
func newCache(ctx context.Context, cfg config.CacheConfig, logger logrus.FieldLogger) (domain.CacheRepository, func(), error) {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, "catalog:")
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Redis cache connected")
		return redisCache, func() { _ = redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache()
	return memoryCache, func() { _ = memoryCache.Close() }, nil
}
