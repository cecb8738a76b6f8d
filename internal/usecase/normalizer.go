package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dropsync/catalog/internal/domain"
)

// maxURLLength matches the url field's MaxLength in the unified schema
const maxURLLength = 2048

// isoTimestampLayout matches the millisecond UTC form used for extracted_at
const isoTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// extractionTimestampKeys are checked in order for the payload's own extraction time
var extractionTimestampKeys = []string{"extracted_at", "extractedAt", "timestamp"}

// NormalizerConfig holds the normalizer's optional collaborators
type NormalizerConfig struct {
	// VariantMapper takes over variant normalization when set
	VariantMapper domain.VariantMapper
	Logger        logrus.FieldLogger
	// Now defaults to time.Now
	Now func() time.Time
}

// Normalizer maps raw marketplace payloads to the unified product schema.
// It holds no per-call state and is safe for concurrent use.
type Normalizer struct {
	variantMapper domain.VariantMapper
	logger        logrus.FieldLogger
	now           func() time.Time
}

// NewNormalizer creates a normalizer
func NewNormalizer(config NormalizerConfig) *Normalizer {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Normalizer{
		variantMapper: config.VariantMapper,
		logger:        logger,
		now:           now,
	}
}

// Normalize maps a raw payload scraped from the given platform to a unified record.
// Unknown platforms are normalized in generic mode. It never fails: fields that cannot
// be resolved are omitted or defaulted.
func (n *Normalizer) Normalize(payload map[string]any, platform string) domain.NormalizedProduct {
	return n.NormalizeContext(context.Background(), payload, platform)
}

// NormalizeContext is Normalize with a context that bounds the variant mapper call
func (n *Normalizer) NormalizeContext(ctx context.Context, payload map[string]any, platform string) domain.NormalizedProduct {
	if payload == nil {
		payload = map[string]any{}
	}

	aliases := domain.AliasesFor(platform)
	product := make(domain.NormalizedProduct, len(domain.UnifiedProductSchema)+1)

	for _, field := range domain.UnifiedProductSchema {
		if value, ok := resolveField(payload, field, aliases[field.Name]); ok {
			product[field.Name] = value
		}
	}

	n.enrich(ctx, payload, platform, product)

	return product
}

// resolveField runs extraction, coercion, constraints and defaults for one schema field
func resolveField(payload map[string]any, field domain.FieldDescriptor, aliases []string) (any, bool) {
	raw, found := ExtractValue(payload, field.Name, aliases)

	value, ok := coerceField(field, raw, found)
	if ok {
		return applyConstraints(field, value), true
	}

	if field.Default != nil {
		return field.Default, true
	}
	return nil, false
}

// enrich applies the post-schema steps. Order matters: later steps overwrite earlier values.
func (n *Normalizer) enrich(ctx context.Context, payload map[string]any, platform string, product domain.NormalizedProduct) {
	if platform != "" {
		product["platform"] = platform
	}

	productURL := ""
	if u, ok := firstTruthy(payload, "url", "source_url"); ok {
		productURL = strings.TrimSpace(stringify(u))
	}
	productURL = truncateRunes(productURL, maxURLLength)
	product["url"] = productURL

	if sku, _ := product["sku"].(string); sku != "" {
		product["external_id"] = sku
	} else {
		product["external_id"] = ExternalIDFromURL(productURL, platform)
	}

	product["extracted_at"] = n.extractionTimestamp(payload)
	product["extractor_version"] = domain.ExtractorVersion

	product["images"] = CleanImages(seedCollection(product, payload, "images"))
	product["videos"] = CleanVideos(seedCollection(product, payload, "videos"))
	product["variants"] = n.mapVariants(ctx, seedCollection(product, payload, "variants"), platform)
	product["reviews"] = CleanReviews(seedCollection(product, payload, "reviews"))

	title, _ := product["title"].(string)
	product["title"] = CleanTitle(title)

	if description, ok := product["description"].(string); ok {
		product["description"] = CleanDescription(description)
	}
}

// seedCollection prefers the schema-resolved list and falls back to the same-named raw field
func seedCollection(product domain.NormalizedProduct, payload map[string]any, field string) any {
	if n, ok := listLen(product[field]); ok && n > 0 {
		return product[field]
	}
	return payload[field]
}

func (n *Normalizer) mapVariants(ctx context.Context, seed any, platform string) []domain.Variant {
	raw := toEntries(seed)

	if n.variantMapper != nil {
		var (
			mapped []domain.Variant
			err    error
		)
		if cm, ok := n.variantMapper.(domain.ContextVariantMapper); ok {
			mapped, err = cm.MapContext(ctx, raw, platform, map[string]any{})
		} else {
			mapped, err = n.variantMapper.Map(raw, platform, map[string]any{})
		}
		if err == nil {
			if mapped == nil {
				mapped = []domain.Variant{}
			}
			if len(mapped) > maxVariants {
				mapped = mapped[:maxVariants]
			}
			return mapped
		}

		n.logger.WithFields(logrus.Fields{
			"platform": platform,
			"variants": len(raw),
			"error":    err,
		}).Warn("variant mapper failed, using built-in mapping")
	}

	return FallbackVariants(raw)
}

func (n *Normalizer) extractionTimestamp(payload map[string]any) string {
	for _, key := range extractionTimestampKeys {
		switch v := payload[key].(type) {
		case string:
			if ts := strings.TrimSpace(v); ts != "" {
				return ts
			}
		case float64:
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC().Format(isoTimestampLayout)
			}
		}
	}
	return n.now().UTC().Format(isoTimestampLayout)
}

// ValidateNormalized reports required schema fields missing from a normalized record.
// The result is advisory; callers decide whether it is fatal.
func (n *Normalizer) ValidateNormalized(product domain.NormalizedProduct) domain.NormalizedCheck {
	errs := make([]string, 0)

	for _, field := range domain.UnifiedProductSchema {
		if !field.Required {
			continue
		}
		if value, ok := product[field.Name]; !ok || value == nil {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field.Name))
		}
	}

	return domain.NormalizedCheck{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
