package domain

import (
	"encoding/json"
)

// ExtractorVersion is stamped on every normalized record so consumers can detect schema drift
const ExtractorVersion = "2.1.0"

// Known platform identifiers. Anything else is handled in generic mode.
const (
	PlatformAliExpress = "aliexpress"
	PlatformAmazon     = "amazon"
	PlatformShopify    = "shopify"
	PlatformTemu       = "temu"
	PlatformEbay       = "ebay"
	PlatformGeneric    = "generic"
)

// KnownPlatforms lists the platforms that have an alias table and a URL pattern
var KnownPlatforms = []string{
	PlatformAliExpress,
	PlatformAmazon,
	PlatformShopify,
	PlatformTemu,
	PlatformEbay,
}

// Video is a cleaned product video entry
type Video struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Variant is a cleaned product variant
type Variant struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Price             float64           `json:"price"`
	CompareAtPrice    *float64          `json:"compare_at_price,omitempty"`
	SKU               string            `json:"sku"`
	Barcode           string            `json:"barcode,omitempty"`
	InventoryQuantity int               `json:"inventory_quantity"`
	Available         bool              `json:"available"`
	Options           map[string]string `json:"options"`
	ImageURL          string            `json:"image_url,omitempty"`
	Weight            *float64          `json:"weight,omitempty"`
}

// Review is a cleaned customer review
type Review struct {
	ID           string   `json:"id"`
	Author       string   `json:"author"`
	Rating       float64  `json:"rating"`
	Content      string   `json:"content"`
	Date         string   `json:"date,omitempty"`
	Verified     bool     `json:"verified"`
	HelpfulCount int      `json:"helpful_count"`
	Images       []string `json:"images"`
	Country      string   `json:"country,omitempty"`
}

// NormalizedProduct is the unified product record produced by the normalizer.
// It is sparse: optional fields that could not be resolved are absent.
type NormalizedProduct map[string]any

// Get returns a field and whether it is present
func (p NormalizedProduct) Get(field string) (any, bool) {
	v, ok := p[field]
	return v, ok
}

func (p NormalizedProduct) str(field string) string {
	s, _ := p[field].(string)
	return s
}

// ExternalID returns the record's external identifier
func (p NormalizedProduct) ExternalID() string { return p.str("external_id") }

// URL returns the source product URL
func (p NormalizedProduct) URL() string { return p.str("url") }

// Platform returns the platform tag the record was normalized with
func (p NormalizedProduct) Platform() string { return p.str("platform") }

// Title returns the cleaned title
func (p NormalizedProduct) Title() string { return p.str("title") }

// Description returns the cleaned description
func (p NormalizedProduct) Description() string { return p.str("description") }

// ExtractedAt returns the ISO-8601 extraction timestamp
func (p NormalizedProduct) ExtractedAt() string { return p.str("extracted_at") }

// Price returns the price and whether it could be parsed
func (p NormalizedProduct) Price() (float64, bool) {
	v, ok := p["price"].(float64)
	return v, ok
}

// Images returns the cleaned image URLs
func (p NormalizedProduct) Images() []string {
	v, _ := p["images"].([]string)
	return v
}

// Videos returns the cleaned videos
func (p NormalizedProduct) Videos() []Video {
	v, _ := p["videos"].([]Video)
	return v
}

// Variants returns the cleaned variants
func (p NormalizedProduct) Variants() []Variant {
	v, _ := p["variants"].([]Variant)
	return v
}

// Reviews returns the cleaned reviews
func (p NormalizedProduct) Reviews() []Review {
	v, _ := p["reviews"].([]Review)
	return v
}

// UnmarshalJSON decodes a record and restores the typed media collections,
// so a record read back from a cache has the same accessors as a fresh one.
func (p *NormalizedProduct) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(NormalizedProduct, len(raw))
	for key, value := range raw {
		var err error
		switch key {
		case "images":
			var images []string
			err = json.Unmarshal(value, &images)
			out[key] = images
		case "videos":
			var videos []Video
			err = json.Unmarshal(value, &videos)
			out[key] = videos
		case "variants":
			var variants []Variant
			err = json.Unmarshal(value, &variants)
			out[key] = variants
		case "reviews":
			var reviews []Review
			err = json.Unmarshal(value, &reviews)
			out[key] = reviews
		default:
			var v any
			err = json.Unmarshal(value, &v)
			out[key] = v
		}
		if err != nil {
			return err
		}
	}

	*p = out
	return nil
}

// Payload returns a JSON-shaped copy of the record (maps, slices of any, float64 numbers),
// the same shape a raw payload has after decoding a request body.
func (p NormalizedProduct) Payload() map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return map[string]any{}
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}
