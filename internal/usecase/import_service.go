package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dropsync/catalog/internal/domain"
)

// Defaults applied when ImportServiceConfig leaves a value at zero
const (
	defaultCacheTTL         = 720 * time.Hour
	defaultBatchConcurrency = 8
	defaultMaxBatchSize     = 500
)

// ImportRecorder receives pipeline observations (implemented by the metrics package)
type ImportRecorder interface {
	ObserveNormalized(platform string)
	ObserveImport(platform string, accepted bool, score int)
}

// ImportServiceConfig holds configuration for the import service
type ImportServiceConfig struct {
	CacheTTL         time.Duration
	BatchConcurrency int
	MaxBatchSize     int
	Recorder         ImportRecorder
	Logger           logrus.FieldLogger
}

// ImportService runs normalize + validate as one unit of work and keeps accepted products in cache
type ImportService struct {
	cache            domain.CacheRepository
	normalizer       *Normalizer
	validator        *Validator
	recorder         ImportRecorder
	logger           logrus.FieldLogger
	cacheTTL         time.Duration
	batchConcurrency int
	maxBatchSize     int
}

// NewImportService creates a new import service with dependencies
func NewImportService(
	cache domain.CacheRepository,
	normalizer *Normalizer,
	validator *Validator,
	config ImportServiceConfig,
) *ImportService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	concurrency := config.BatchConcurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	maxBatch := config.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatchSize
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &ImportService{
		cache:            cache,
		normalizer:       normalizer,
		validator:        validator,
		recorder:         config.Recorder,
		logger:           logger,
		cacheTTL:         cacheTTL,
		batchConcurrency: concurrency,
		maxBatchSize:     maxBatch,
	}
}

// Normalizer returns the service's normalizer
func (s *ImportService) Normalizer() *Normalizer { return s.normalizer }

// Validator returns the service's validator
func (s *ImportService) Validator() *Validator { return s.validator }

// Import normalizes and validates one raw product.
// Flow: normalize -> validate -> cache when importable -> return.
// A rejected product is returned together with ErrImportRejected.
func (s *ImportService) Import(ctx context.Context, request *domain.ImportRequest) (*domain.ImportResult, error) {
	if request == nil || request.Product == nil {
		return nil, domain.ErrInvalidRequest
	}
	platform := normalizePlatform(request.Platform)
	if platform == "" {
		return nil, domain.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	product := s.normalizer.NormalizeContext(ctx, request.Product, platform)
	if s.recorder != nil {
		s.recorder.ObserveNormalized(platform)
	}

	report := s.validator.Validate(product)
	result := &domain.ImportResult{
		ImportID:   uuid.NewString(),
		Product:    product,
		Validation: report,
		Accepted:   report.CanImport,
		ImportedAt: time.Now().UTC(),
	}

	if s.recorder != nil {
		s.recorder.ObserveImport(platform, result.Accepted, report.Score)
	}

	if !result.Accepted {
		s.logger.WithFields(logrus.Fields{
			"platform":    platform,
			"external_id": product.ExternalID(),
			"score":       report.Score,
			"errors":      report.Errors,
		}).Info("product rejected by validation")
		return result, domain.ErrImportRejected
	}

	// Cache failures never fail the import
	key := productCacheKey(platform, product.ExternalID())
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err,
		}).Warn("failed to cache imported product")
	}

	return result, nil
}

// GetImported returns a previously accepted import
func (s *ImportService) GetImported(ctx context.Context, platform, externalID string) (*domain.ImportResult, error) {
	platform = normalizePlatform(platform)
	if platform == "" || externalID == "" {
		return nil, domain.ErrInvalidRequest
	}

	value, err := s.cache.Get(ctx, productCacheKey(platform, externalID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	result, err := toImportResult(value)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	return result, nil
}

// ImportBatch imports products concurrently. Items keep their input order; a rejected
// or invalid item is recorded on the item and does not stop the batch.
func (s *ImportService) ImportBatch(ctx context.Context, platform string, products []map[string]any) (*domain.BatchResult, error) {
	platform = normalizePlatform(platform)
	if platform == "" || len(products) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if len(products) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d products, limit %d", domain.ErrBatchTooLarge, len(products), s.maxBatchSize)
	}

	items := make([]domain.BatchItem, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, product := range products {
		g.Go(func() error {
			result, err := s.Import(gctx, &domain.ImportRequest{Platform: platform, Product: product})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			items[i] = domain.BatchItem{Index: i, Result: result}
			if err != nil {
				items[i].Error = err.Error()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &domain.BatchResult{
		Platform: platform,
		Total:    len(products),
		Items:    items,
	}
	for _, item := range items {
		if item.Result != nil && item.Result.Accepted {
			batch.Accepted++
		} else {
			batch.Rejected++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"platform": platform,
		"total":    batch.Total,
		"accepted": batch.Accepted,
		"rejected": batch.Rejected,
	}).Info("batch import finished")

	return batch, nil
}

// productCacheKey format: "product:{platform}:{external_id}"
func productCacheKey(platform, externalID string) string {
	return fmt.Sprintf("product:%s:%s", platform, externalID)
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// toImportResult handles values stored as structs (in-process) or as decoded JSON (memory/redis)
func toImportResult(value interface{}) (*domain.ImportResult, error) {
	switch v := value.(type) {
	case *domain.ImportResult:
		return v, nil
	case domain.ImportResult:
		return &v, nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = encoded
	}

	var result domain.ImportResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
