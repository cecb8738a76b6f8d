package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// VariantMapper takes over variant normalization when registered with the normalizer.
// An error makes the normalizer fall back to its built-in mapping.
type VariantMapper interface {
	Map(variants []any, platform string, options map[string]any) ([]Variant, error)
}

// ContextVariantMapper is a VariantMapper whose calls can be cancelled by the caller.
// The normalizer prefers MapContext when the mapper implements it.
type ContextVariantMapper interface {
	VariantMapper
	MapContext(ctx context.Context, variants []any, platform string, options map[string]any) ([]Variant, error)
}
