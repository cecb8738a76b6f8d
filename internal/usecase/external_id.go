package usecase

import (
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/dropsync/catalog/internal/domain"
)

// platformURLPatterns capture the product ID segment of each platform's canonical product URL
var platformURLPatterns = map[string]*regexp.Regexp{
	domain.PlatformAliExpress: regexp.MustCompile(`/item/(\d+)`),
	domain.PlatformAmazon:     regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`),
	domain.PlatformShopify:    regexp.MustCompile(`/products/([^/?#]+)`),
	domain.PlatformTemu:       regexp.MustCompile(`(?:goods_id=|-g-)(\d+)`),
	domain.PlatformEbay:       regexp.MustCompile(`/itm/(?:[^/?#]+/)?(\d+)`),
}

// ExternalIDFromURL extracts the platform product ID from a URL,
// falling back to HashURL when the platform has no pattern or nothing matches.
func ExternalIDFromURL(productURL, platform string) string {
	if pattern, ok := platformURLPatterns[platform]; ok {
		if match := pattern.FindStringSubmatch(productURL); len(match) == 2 && match[1] != "" {
			return match[1]
		}
	}
	return HashURL(productURL)
}

// HashURL is the 32-bit rolling hash (h = h*31 + code unit, wrapping) over the
// UTF-16 code units of s, read as unsigned and base-36 encoded.
// Persisted external IDs depend on this exact sequence.
func HashURL(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return strconv.FormatUint(uint64(uint32(h)), 36)
}
