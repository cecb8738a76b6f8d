package usecase

import (
	"regexp"
	"strings"
)

const (
	maxTitleLength       = 500
	maxDescriptionLength = 50000
)

var (
	whitespaceRunPattern = regexp.MustCompile(`\s+`)

	// Word characters, whitespace, hyphen, apostrophe, ampersand and French accented letters survive
	titleDisallowedPattern = regexp.MustCompile(`[^\w\s\-'&àâæçéèêëîïôœùûüÿÀÂÆÇÉÈÊËÎÏÔŒÙÛÜŸ]`)

	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleBlockPattern  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
)

// CleanTitle collapses whitespace, strips markup-hostile characters and truncates to 500 characters
func CleanTitle(title string) string {
	cleaned := whitespaceRunPattern.ReplaceAllString(title, " ")
	cleaned = titleDisallowedPattern.ReplaceAllString(cleaned, "")
	// stripped characters can leave adjacent spaces behind
	cleaned = whitespaceRunPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	return truncateRunes(cleaned, maxTitleLength)
}

// CleanDescription removes script and style blocks, collapses whitespace and truncates to 50000 characters
func CleanDescription(description string) string {
	cleaned := scriptBlockPattern.ReplaceAllString(description, "")
	cleaned = styleBlockPattern.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRunPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	return truncateRunes(cleaned, maxDescriptionLength)
}
