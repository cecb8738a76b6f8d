package usecase

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dropsync/catalog/internal/domain"
)

const maxListedMissingFields = 3

// fieldRule is one validated field: its label, failure message and predicate
type fieldRule struct {
	field   string
	label   string
	message string
	check   func(value any) bool
}

type validationTier struct {
	name   string
	weight int
	rules  []fieldRule
}

// validationTiers are evaluated in order; weights sum to 100
var validationTiers = []validationTier{
	{
		name:   domain.TierCritical,
		weight: 40,
		rules: []fieldRule{
			{"title", "Titre", "Titre manquant ou trop court (3 caractères minimum)", minTrimmedLength(3)},
			{"price", "Prix", "Prix manquant ou invalide (doit être supérieur à 0)", numberAbove(0)},
			{"url", "URL", "URL du produit manquante ou invalide", httpURL},
		},
	},
	{
		name:   domain.TierImportant,
		weight: 35,
		rules: []fieldRule{
			{"description", "Description", "Description manquante ou trop courte (10 caractères minimum)", minTrimmedLength(10)},
			{"images", "Images", "Aucune image trouvée", nonEmptyList},
			{"brand", "Marque", "Marque manquante", nonEmptyString},
			{"category", "Catégorie", "Catégorie manquante", nonEmptyString},
			{"sku", "SKU", "SKU manquant", nonEmptyString},
		},
	},
	{
		name:   domain.TierOptional,
		weight: 25,
		rules: []fieldRule{
			{"videos", "Vidéos", "Aucune vidéo trouvée", nonEmptyList},
			{"variants", "Variantes", "Aucune variante trouvée", nonEmptyList},
			{"reviews", "Avis", "Aucun avis trouvé", nonEmptyList},
			{"stock", "Stock", "Stock inconnu", numberAtLeast(0)},
		},
	},
}

// validatorAliases is the validator's own field alias table. It is intentionally separate
// from the normalizer's per-platform tables and does not walk nested paths.
var validatorAliases = map[string][]string{
	"title":       {"name", "productName", "product_name"},
	"price":       {"currentPrice", "current_price", "salePrice", "sale_price"},
	"url":         {"source_url", "productUrl", "product_url", "link"},
	"description": {"desc", "productDescription", "product_description", "body_html"},
	"images":      {"imageUrls", "image_urls", "imgs", "pictures"},
	"brand":       {"storeName", "store_name", "vendor", "manufacturer"},
	"category":    {"categoryName", "category_name", "productType", "product_type"},
	"sku":         {"productId", "product_id", "itemId", "item_id", "asin"},
	"videos":      {"videoUrls", "video_urls"},
	"variants":    {"variations", "skuList", "skus"},
	"reviews":     {"feedbacks", "reviewList", "review_list"},
	"stock":       {"quantity", "inventory", "inventory_quantity", "availableQuantity"},
}

// Validator scores product completeness and gates imports
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Validate scores a raw or normalized product across the critical, important and optional tiers.
// It never fails: an empty payload scores 0 and cannot be imported.
func (v *Validator) Validate(product map[string]any) domain.ValidationReport {
	report := domain.ValidationReport{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	var weighted, totalWeight float64
	for _, tier := range validationTiers {
		result := evaluateTier(product, tier)
		weighted += result.Percentage / 100 * float64(tier.weight)
		totalWeight += float64(tier.weight)

		switch tier.name {
		case domain.TierCritical:
			report.Critical = result
			for _, failure := range result.Failed {
				report.Errors = append(report.Errors, failure.Message)
			}
		case domain.TierImportant:
			report.Important = result
			for _, failure := range result.Failed {
				report.Warnings = append(report.Warnings, failure.Message)
			}
		case domain.TierOptional:
			report.Optional = result
		}
	}

	report.Score = int(math.Round(weighted / totalWeight * 100))
	report.CanImport = len(report.Critical.Failed) == 0
	report.IsValid = report.CanImport
	report.Summary = qualitySummary(report.Score)
	report.Badge = QualityBadgeFor(report.Score)
	report.UserMessage = userMessage(report)

	return report
}

// CanImport reports whether every critical field passes
func (v *Validator) CanImport(product map[string]any) bool {
	return v.Validate(product).CanImport
}

// GetMissingFieldsSummary lists the labels of failed fields per tier
func (v *Validator) GetMissingFieldsSummary(product map[string]any) domain.MissingFields {
	return missingFields(v.Validate(product))
}

func evaluateTier(product map[string]any, tier validationTier) domain.TierResult {
	result := domain.TierResult{
		Passed: make([]string, 0, len(tier.rules)),
		Failed: make([]domain.FieldFailure, 0),
		Weight: tier.weight,
	}

	for _, rule := range tier.rules {
		if rule.check(resolveValidationField(product, rule.field)) {
			result.Passed = append(result.Passed, rule.field)
			continue
		}
		result.Failed = append(result.Failed, domain.FieldFailure{
			Field:   rule.field,
			Label:   rule.label,
			Message: rule.message,
		})
	}

	if len(tier.rules) > 0 {
		result.Percentage = float64(len(result.Passed)) / float64(len(tier.rules)) * 100
	}
	return result
}

// resolveValidationField looks up the field by its own key, then by its validator aliases
func resolveValidationField(product map[string]any, field string) any {
	if product == nil {
		return nil
	}
	if value, ok := product[field]; ok && value != nil {
		return value
	}
	for _, alias := range validatorAliases[field] {
		if value, ok := product[alias]; ok && value != nil {
			return value
		}
	}
	return nil
}

func missingFields(report domain.ValidationReport) domain.MissingFields {
	return domain.MissingFields{
		Critical:  failedLabels(report.Critical),
		Important: failedLabels(report.Important),
		Optional:  failedLabels(report.Optional),
	}
}

func failedLabels(tier domain.TierResult) []string {
	labels := make([]string, 0, len(tier.Failed))
	for _, failure := range tier.Failed {
		labels = append(labels, failure.Label)
	}
	return labels
}

func userMessage(report domain.ValidationReport) string {
	missing := missingFields(report)

	if !report.CanImport {
		return fmt.Sprintf("Import impossible : champs obligatoires manquants (%s)",
			strings.Join(missing.Critical, ", "))
	}

	if missing.Total() == 0 {
		return "Toutes les données du produit sont complètes"
	}

	labels := make([]string, 0, missing.Total())
	labels = append(labels, missing.Critical...)
	labels = append(labels, missing.Important...)
	labels = append(labels, missing.Optional...)

	message := "Données manquantes : " + strings.Join(labels[:min(len(labels), maxListedMissingFields)], ", ")
	if extra := len(labels) - maxListedMissingFields; extra > 0 {
		message += fmt.Sprintf(" +%d autres", extra)
	}
	return message
}

// Predicates

func minTrimmedLength(n int) func(any) bool {
	return func(value any) bool {
		s, ok := value.(string)
		return ok && utf8.RuneCountInString(strings.TrimSpace(s)) >= n
	}
}

func nonEmptyString(value any) bool {
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) != ""
}

func httpURL(value any) bool {
	s, ok := value.(string)
	return ok && strings.HasPrefix(s, "http")
}

func nonEmptyList(value any) bool {
	n, ok := listLen(value)
	return ok && n > 0
}

// numericValue accepts numbers and locale-formatted numeric strings
func numericValue(value any) (float64, bool) {
	switch value.(type) {
	case nil, bool:
		return 0, false
	}
	return ParseLocaleNumber(value)
}

func numberAbove(threshold float64) func(any) bool {
	return func(value any) bool {
		f, ok := numericValue(value)
		return ok && f > threshold
	}
}

func numberAtLeast(threshold float64) func(any) bool {
	return func(value any) bool {
		f, ok := numericValue(value)
		return ok && f >= threshold
	}
}
