package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/dropsync/catalog/internal/domain"
)

const maxVariants = 100

// variantOptionKeys are scanned in order to derive a variant title and options.
// option1..3 are renamed when copied into the options map.
var variantOptionKeys = []struct {
	source string
	option string
}{
	{"option1", "Size"},
	{"option2", "Color"},
	{"option3", "Style"},
	{"size", "size"},
	{"color", "color"},
	{"style", "style"},
}

// FallbackVariants is the built-in variant mapping used when no VariantMapper is registered
func FallbackVariants(raw []any) []domain.Variant {
	variants := make([]domain.Variant, 0, min(len(raw), maxVariants))

	for i, entry := range raw {
		if len(variants) == maxVariants {
			break
		}
		m, _ := entry.(map[string]any)
		variants = append(variants, mapVariant(m, i))
	}

	return variants
}

func mapVariant(v map[string]any, index int) domain.Variant {
	if v == nil {
		v = map[string]any{}
	}

	variant := domain.Variant{
		ID:        fmt.Sprintf("variant_%d", index),
		Title:     deriveVariantTitle(v),
		SKU:       optionalString(v, "sku"),
		Barcode:   optionalString(v, "barcode", "ean", "upc"),
		Available: v["available"] != false,
	}

	if id, ok := firstTruthy(v, "id", "sku"); ok {
		variant.ID = stringify(id)
	}
	if title, ok := firstTruthy(v, "title", "name"); ok {
		variant.Title = stringify(title)
	}

	if price, ok := ParseLocaleNumber(v["price"]); ok {
		variant.Price = math.Max(price, 0)
	}
	if raw, ok := firstPresent(v, "compare_at_price", "compareAtPrice"); ok {
		if compare, ok := ParseLocaleNumber(raw); ok {
			compare = math.Max(compare, 0)
			variant.CompareAtPrice = &compare
		}
	}

	if raw, ok := firstPresent(v, "inventory_quantity", "inventoryQuantity", "stock", "quantity"); ok {
		if qty, ok := ParseLocaleNumber(raw); ok && qty > 0 {
			variant.InventoryQuantity = int(math.Floor(qty))
		}
	}

	if options, ok := v["options"].(map[string]any); ok {
		variant.Options = make(map[string]string, len(options))
		for key, value := range options {
			variant.Options[key] = stringify(value)
		}
	} else {
		variant.Options = deriveVariantOptions(v)
	}

	if image, ok := firstTruthy(v, "image_url", "imageUrl", "image"); ok {
		if src, ok := imageSource(image); ok {
			variant.ImageURL = src
		}
	}

	if raw, ok := firstPresent(v, "weight"); ok {
		if weight, ok := ParseLocaleNumber(raw); ok {
			weight = math.Max(weight, 0)
			variant.Weight = &weight
		}
	}

	return variant
}

func deriveVariantTitle(v map[string]any) string {
	parts := make([]string, 0, len(variantOptionKeys))
	for _, key := range variantOptionKeys {
		if value, ok := v[key.source]; ok && truthy(value) {
			parts = append(parts, stringify(value))
		}
	}
	if len(parts) == 0 {
		return "Default"
	}
	return strings.Join(parts, " / ")
}

func deriveVariantOptions(v map[string]any) map[string]string {
	options := make(map[string]string)
	for _, key := range variantOptionKeys {
		if value, ok := v[key.source]; ok && truthy(value) {
			options[key.option] = stringify(value)
		}
	}
	return options
}

// optionalString returns the first truthy value among keys as text, or ""
func optionalString(m map[string]any, keys ...string) string {
	if value, ok := firstTruthy(m, keys...); ok {
		return stringify(value)
	}
	return ""
}
