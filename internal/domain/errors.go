package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when no imported product matches the lookup
	ErrProductNotFound = errors.New("product not found")

	// ErrImportRejected is returned when a product fails the critical validation tier
	ErrImportRejected = errors.New("product rejected: critical fields missing")

	// ErrBatchTooLarge is returned when a bulk import exceeds the configured size
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrUnsupportedFileType is returned for bulk import files that are neither CSV nor XLSX
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrVariantMapperFailure is returned when the remote variant-mapping service fails
	ErrVariantMapperFailure = errors.New("variant mapping service request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
