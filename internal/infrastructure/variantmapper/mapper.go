package variantmapper

import (
	"fmt"
	"math"
	"strings"

	"github.com/dropsync/catalog/internal/domain"
)

// maxVariants bounds the number of variants accepted from the service
const maxVariants = 100

// mapRequest is the body posted to the mapping endpoint
type mapRequest struct {
	Platform string         `json:"platform"`
	Variants []any          `json:"variants"`
	Options  map[string]any `json:"options"`
}

// mapResponse is the service reply
type mapResponse struct {
	Variants []remoteVariant `json:"variants"`
}

// remoteVariant is a variant as returned by the service. Optional numbers are pointers
// so that an absent field can be told apart from zero.
type remoteVariant struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Price             *float64          `json:"price"`
	CompareAtPrice    *float64          `json:"compare_at_price"`
	SKU               string            `json:"sku"`
	Barcode           string            `json:"barcode"`
	InventoryQuantity *float64          `json:"inventory_quantity"`
	Available         *bool             `json:"available"`
	Options           map[string]string `json:"options"`
	ImageURL          string            `json:"image_url"`
	Weight            *float64          `json:"weight"`
}

// toDomainVariants converts service variants to domain variants, at most 100.
// Missing IDs become variant_<index>, missing titles "Default", negative numbers clamp to 0.
func toDomainVariants(remote []remoteVariant) []domain.Variant {
	variants := make([]domain.Variant, 0, min(len(remote), maxVariants))

	for i, rv := range remote {
		if i == maxVariants {
			break
		}
		variants = append(variants, toDomainVariant(rv, i))
	}

	return variants
}

func toDomainVariant(rv remoteVariant, index int) domain.Variant {
	variant := domain.Variant{
		ID:             strings.TrimSpace(rv.ID),
		Title:          strings.TrimSpace(rv.Title),
		Price:          nonNegative(rv.Price),
		CompareAtPrice: nonNegativePtr(rv.CompareAtPrice),
		SKU:            rv.SKU,
		Barcode:        rv.Barcode,
		Available:      rv.Available == nil || *rv.Available,
		Options:        rv.Options,
		ImageURL:       rv.ImageURL,
		Weight:         nonNegativePtr(rv.Weight),
	}

	if variant.ID == "" {
		variant.ID = fmt.Sprintf("variant_%d", index)
	}
	if variant.Title == "" {
		variant.Title = "Default"
	}
	if rv.InventoryQuantity != nil && *rv.InventoryQuantity > 0 {
		variant.InventoryQuantity = int(math.Floor(*rv.InventoryQuantity))
	}
	if variant.Options == nil {
		variant.Options = map[string]string{}
	}

	return variant
}

func nonNegative(v *float64) float64 {
	if v == nil || *v < 0 || math.IsNaN(*v) {
		return 0
	}
	return *v
}

func nonNegativePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := nonNegative(v)
	return &clamped
}
