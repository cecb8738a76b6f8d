package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropsync/catalog/internal/domain"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

// MockVariantMapper is a mock implementation of domain.VariantMapper
type MockVariantMapper struct {
	variants []domain.Variant
	err      error
	calls    int
	platform string
}

func (m *MockVariantMapper) Map(variants []any, platform string, options map[string]any) ([]domain.Variant, error) {
	m.calls++
	m.platform = platform
	if m.err != nil {
		return nil, m.err
	}
	return m.variants, nil
}

type requestIDKey struct{}

// MockContextVariantMapper records the context it was called with
type MockContextVariantMapper struct {
	MockVariantMapper
	contextCalls int
	ctx          context.Context
}

func (m *MockContextVariantMapper) MapContext(ctx context.Context, variants []any, platform string, options map[string]any) ([]domain.Variant, error) {
	m.contextCalls++
	m.ctx = ctx
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.variants, nil
}

func newTestNormalizer(mapper domain.VariantMapper) (*Normalizer, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewNormalizer(NormalizerConfig{
		VariantMapper: mapper,
		Logger:        logger,
		Now:           func() time.Time { return fixedNow },
	}), hook
}

func TestNormalize_AliExpressListing(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	product := normalizer.Normalize(map[string]any{
		"title":        "Cool Watch",
		"currentPrice": "12,50",
		"imageUrls":    []any{"//img.com/a.jpg"},
		"storeName":    "AcmeCo",
		"url":          "https://aliexpress.com/item/1234567890",
	}, domain.PlatformAliExpress)

	price, ok := product.Price()
	require.True(t, ok)
	assert.Equal(t, 12.5, price)
	assert.Equal(t, "AcmeCo", product["brand"])
	assert.Equal(t, []string{"https://img.com/a.jpg"}, product.Images())
	assert.Equal(t, "1234567890", product.ExternalID())
	assert.Equal(t, "aliexpress", product.Platform())
	assert.Equal(t, "Cool Watch", product.Title())
	assert.Equal(t, "EUR", product["currency"])
	assert.Equal(t, domain.ExtractorVersion, product["extractor_version"])
	assert.Equal(t, "2024-03-01T12:30:00.000Z", product.ExtractedAt())

	_, hasSKU := product["sku"]
	assert.False(t, hasSKU)
}

func TestNormalize_EmptyPayload(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	for _, platform := range domain.KnownPlatforms {
		t.Run(platform, func(t *testing.T) {
			product := normalizer.Normalize(map[string]any{}, platform)

			assert.Equal(t, "0", product.ExternalID())
			assert.Equal(t, "", product.URL())
			assert.Equal(t, "", product.Title())
			assert.Equal(t, platform, product.Platform())
			assert.Equal(t, "2024-03-01T12:30:00.000Z", product.ExtractedAt())
			assert.Equal(t, []string{}, product.Images())
			assert.Equal(t, []domain.Video{}, product.Videos())
			assert.Equal(t, []domain.Variant{}, product.Variants())
			assert.Equal(t, []domain.Review{}, product.Reviews())
			assert.Equal(t, []any{}, product["tags"])

			_, hasPrice := product.Price()
			assert.False(t, hasPrice)
			_, hasDescription := product["description"]
			assert.False(t, hasDescription)
		})
	}
}

func TestNormalize_NilPayload(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	product := normalizer.Normalize(nil, domain.PlatformEbay)
	assert.Equal(t, "0", product.ExternalID())
}

func TestNormalize_GenericMode(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)
	payload := map[string]any{
		"title":        "Lamp",
		"price":        "9.99",
		"currentPrice": "1.00",
		"url":          "https://shop.test/x",
	}

	t.Run("unknown platform keeps its tag and ignores aliases", func(t *testing.T) {
		product := normalizer.Normalize(payload, "etsy")

		assert.Equal(t, "etsy", product.Platform())
		assert.Equal(t, "1i8603o", product.ExternalID())
		price, _ := product.Price()
		assert.Equal(t, 9.99, price)
	})

	t.Run("empty platform becomes generic", func(t *testing.T) {
		product := normalizer.Normalize(payload, "")
		assert.Equal(t, domain.PlatformGeneric, product.Platform())
		assert.Equal(t, "1i8603o", product.ExternalID())
	})

	t.Run("aliases do not apply without a platform table", func(t *testing.T) {
		product := normalizer.Normalize(map[string]any{"currentPrice": "1.00"}, "etsy")
		_, ok := product.Price()
		assert.False(t, ok)
	})
}

func TestNormalize_ExternalIDPrefersSKU(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	product := normalizer.Normalize(map[string]any{
		"asin": "B08N5WRWNW",
		"url":  "https://www.amazon.fr/dp/B000000001",
	}, domain.PlatformAmazon)

	assert.Equal(t, "B08N5WRWNW", product.ExternalID())
	assert.Equal(t, "B08N5WRWNW", product["sku"])
}

func TestNormalize_SourceURLFallback(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	product := normalizer.Normalize(map[string]any{
		"source_url": " https://www.ebay.com/itm/123456789012 ",
	}, domain.PlatformEbay)

	assert.Equal(t, "https://www.ebay.com/itm/123456789012", product.URL())
	assert.Equal(t, "123456789012", product.ExternalID())
}

func TestNormalize_ExtractedAt(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{"string passes through", map[string]any{"extracted_at": "2023-01-02T03:04:05.000Z"}, "2023-01-02T03:04:05.000Z"},
		{"camel case key", map[string]any{"extractedAt": "2023-06-01T00:00:00.000Z"}, "2023-06-01T00:00:00.000Z"},
		{"epoch millis", map[string]any{"timestamp": 1700000000000.0}, "2023-11-14T22:13:20.000Z"},
		{"blank falls back to now", map[string]any{"extracted_at": "  "}, "2024-03-01T12:30:00.000Z"},
		{"missing falls back to now", map[string]any{}, "2024-03-01T12:30:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizer.Normalize(tt.payload, domain.PlatformShopify).ExtractedAt())
		})
	}
}

func TestNormalize_ConstraintsAndCleaning(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	product := normalizer.Normalize(map[string]any{
		"productTitle":    "  Super   Earbuds!!! ",
		"descriptionHtml": "<p>Good</p><script>track()</script>   <b>sound</b>",
		"averageStar":     "7",
		"quantity":        -3.0,
		"currencyCode":    "EURO",
		"originalPrice":   "1.234,56",
	}, domain.PlatformAliExpress)

	assert.Equal(t, "Super Earbuds", product.Title())
	assert.Equal(t, "<p>Good</p> <b>sound</b>", product.Description())
	assert.Equal(t, 5.0, product["rating"])
	assert.Equal(t, 0.0, product["stock"])
	assert.Equal(t, "EUR", product["currency"])
	assert.Equal(t, 1234.56, product["compare_at_price"])
}

func TestNormalize_CollectionCaps(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	images := make([]any, 60)
	videos := make([]any, 15)
	variants := make([]any, 150)
	reviews := make([]any, 120)
	for i := range images {
		images[i] = fmt.Sprintf("https://cdn.example.com/%d.jpg", i)
	}
	for i := range videos {
		videos[i] = fmt.Sprintf("https://cdn.example.com/%d.mp4", i)
	}
	for i := range variants {
		variants[i] = map[string]any{"sku": fmt.Sprintf("SKU-%d", i)}
	}
	for i := range reviews {
		reviews[i] = map[string]any{"content": "nice"}
	}

	product := normalizer.Normalize(map[string]any{
		"images":   images,
		"videos":   videos,
		"variants": variants,
		"reviews":  reviews,
	}, domain.PlatformGeneric)

	assert.Len(t, product.Images(), 50)
	assert.Len(t, product.Videos(), 10)
	assert.Len(t, product.Variants(), 100)
	assert.Len(t, product.Reviews(), 100)
}

func TestNormalize_Idempotent(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	first := normalizer.Normalize(map[string]any{
		"title":        "Desk Lamp",
		"body_html":    "<p>A warm lamp for your desk</p>",
		"vendor":       "Lumen",
		"product_type": "Lighting",
		"url":          "https://shop.example.com/products/desk-lamp",
		"images":       []any{map[string]any{"src": "https://cdn.example.com/1.jpg"}},
		"variants": []any{map[string]any{
			"id":                 1.0,
			"title":              "Default Title",
			"price":              "19.99",
			"sku":                "DL-1",
			"inventory_quantity": 5.0,
		}},
		"tags": []any{"home"},
	}, domain.PlatformShopify)

	assert.Equal(t, "DL-1", first.ExternalID())
	assert.Equal(t, 5.0, first["stock"])

	second := normalizer.Normalize(first.Payload(), domain.PlatformShopify)
	assert.Equal(t, first, second)
}

func TestNormalize_IdempotentTitle(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	first := normalizer.Normalize(map[string]any{
		"title": "Cool . Watch / Steel",
		"price": 10.0,
		"url":   "https://shop.test/x",
	}, domain.PlatformGeneric)
	assert.Equal(t, "Cool Watch Steel", first.Title())

	second := normalizer.Normalize(first.Payload(), domain.PlatformGeneric)
	assert.Equal(t, first, second)
}

func TestNormalize_URLLength(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)
	longURL := "https://shop.test/" + strings.Repeat("a", 3000)

	product := normalizer.Normalize(map[string]any{"url": longURL}, domain.PlatformGeneric)

	assert.Equal(t, 2048, utf8.RuneCountInString(product.URL()))
	assert.Equal(t, longURL[:2048], product.URL())
}

func TestNormalize_VariantMapper(t *testing.T) {
	raw := map[string]any{"variants": []any{map[string]any{"sku": "A"}}}

	t.Run("mapper result is used", func(t *testing.T) {
		mapper := &MockVariantMapper{variants: []domain.Variant{{ID: "remote-1", Title: "Remote"}}}
		normalizer, _ := newTestNormalizer(mapper)

		product := normalizer.Normalize(raw, domain.PlatformShopify)

		assert.Equal(t, 1, mapper.calls)
		assert.Equal(t, "shopify", mapper.platform)
		assert.Equal(t, []domain.Variant{{ID: "remote-1", Title: "Remote"}}, product.Variants())
	})

	t.Run("mapper failure falls back to built-in mapping", func(t *testing.T) {
		mapper := &MockVariantMapper{err: errors.New("boom")}
		normalizer, hook := newTestNormalizer(mapper)

		product := normalizer.Normalize(raw, domain.PlatformShopify)

		require.Len(t, product.Variants(), 1)
		assert.Equal(t, "A", product.Variants()[0].ID)
		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("mapper output is capped", func(t *testing.T) {
		mapper := &MockVariantMapper{variants: make([]domain.Variant, 150)}
		normalizer, _ := newTestNormalizer(mapper)

		assert.Len(t, normalizer.Normalize(raw, domain.PlatformShopify).Variants(), maxVariants)
	})

	t.Run("nil mapper output becomes empty", func(t *testing.T) {
		normalizer, _ := newTestNormalizer(&MockVariantMapper{})

		variants := normalizer.Normalize(raw, domain.PlatformShopify).Variants()
		assert.NotNil(t, variants)
		assert.Empty(t, variants)
	})
}

func TestValidateNormalized(t *testing.T) {
	normalizer, _ := newTestNormalizer(nil)

	t.Run("empty payload lacks a price", func(t *testing.T) {
		check := normalizer.ValidateNormalized(normalizer.Normalize(map[string]any{}, domain.PlatformAmazon))
		assert.False(t, check.IsValid)
		assert.Equal(t, []string{"missing required field: price"}, check.Errors)
	})

	t.Run("complete record", func(t *testing.T) {
		check := normalizer.ValidateNormalized(normalizer.Normalize(map[string]any{
			"title": "Lamp",
			"price": 10.0,
			"url":   "https://shop.test/x",
		}, domain.PlatformGeneric))
		assert.True(t, check.IsValid)
		assert.Empty(t, check.Errors)
	})
}

func TestNormalizeContext_VariantMapper(t *testing.T) {
	raw := map[string]any{"variants": []any{map[string]any{"sku": "A"}}}

	t.Run("context-aware mapper receives the caller's context", func(t *testing.T) {
		mapper := &MockContextVariantMapper{MockVariantMapper: MockVariantMapper{variants: []domain.Variant{{ID: "remote-1"}}}}
		normalizer, _ := newTestNormalizer(mapper)
		ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")

		product := normalizer.NormalizeContext(ctx, raw, domain.PlatformShopify)

		assert.Equal(t, 1, mapper.contextCalls)
		assert.Equal(t, 0, mapper.calls)
		assert.Equal(t, "req-1", mapper.ctx.Value(requestIDKey{}))
		assert.Equal(t, []domain.Variant{{ID: "remote-1"}}, product.Variants())
	})

	t.Run("cancelled context falls back to built-in mapping", func(t *testing.T) {
		mapper := &MockContextVariantMapper{MockVariantMapper: MockVariantMapper{variants: []domain.Variant{{ID: "remote-1"}}}}
		normalizer, hook := newTestNormalizer(mapper)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		product := normalizer.NormalizeContext(ctx, raw, domain.PlatformShopify)

		require.Len(t, product.Variants(), 1)
		assert.Equal(t, "A", product.Variants()[0].ID)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("plain mapper still works through NormalizeContext", func(t *testing.T) {
		mapper := &MockVariantMapper{variants: []domain.Variant{{ID: "remote-2"}}}
		normalizer, _ := newTestNormalizer(mapper)

		product := normalizer.NormalizeContext(context.Background(), raw, domain.PlatformShopify)

		assert.Equal(t, 1, mapper.calls)
		assert.Equal(t, []domain.Variant{{ID: "remote-2"}}, product.Variants())
	})
}
