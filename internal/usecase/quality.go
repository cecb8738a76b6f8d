package usecase

import "github.com/dropsync/catalog/internal/domain"

// qualityTiers is the single score-to-label table used by both the report summary and the badge.
// Ordered by descending minimum score.
var qualityTiers = []struct {
	minScore int
	badge    domain.QualityBadge
}{
	{90, domain.QualityBadge{Label: "Excellent", Color: "#16a34a", Icon: "🌟"}},
	{75, domain.QualityBadge{Label: "Bon", Color: "#22c55e", Icon: "✅"}},
	{60, domain.QualityBadge{Label: "Correct", Color: "#eab308", Icon: "👍"}},
	{40, domain.QualityBadge{Label: "Incomplet", Color: "#f97316", Icon: "⚠️"}},
	{0, domain.QualityBadge{Label: "Insuffisant", Color: "#dc2626", Icon: "❌"}},
}

// QualityBadgeFor maps a 0-100 score to its display badge
func QualityBadgeFor(score int) domain.QualityBadge {
	for _, tier := range qualityTiers {
		if score >= tier.minScore {
			return tier.badge
		}
	}
	return qualityTiers[len(qualityTiers)-1].badge
}

// qualitySummary is the icon-tagged label for a score
func qualitySummary(score int) string {
	badge := QualityBadgeFor(score)
	return badge.Icon + " " + badge.Label
}
