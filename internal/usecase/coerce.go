package usecase

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dropsync/catalog/internal/domain"
)

// Compiled patterns for the locale-aware number parser
var (
	currencyAndSpacePattern = regexp.MustCompile(`[€$£¥₹\s\x{00A0}\x{202F}]`)
	europeanNumberPattern   = regexp.MustCompile(`^\d{1,3}(\.\d{3})*,\d{2}$`)
	standardNumberPattern   = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d{2})?$`)
	commaDecimalPattern     = regexp.MustCompile(`^\d+,\d+$`)
	leadingFloatPattern     = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseLocaleNumber converts a raw value to a finite number.
// Strings like "1.234,56", "1,234.56", "12,50" and "€ 29.99" are understood.
func ParseLocaleNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return parseNumericString(v)
	case nil, bool, map[string]any:
		return 0, false
	default:
		return parseNumericString(stringify(v))
	}
}

func parseNumericString(s string) (float64, bool) {
	cleaned := currencyAndSpacePattern.ReplaceAllString(s, "")

	switch {
	case europeanNumberPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case standardNumberPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case commaDecimalPattern.MatchString(cleaned):
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	// parseFloat semantics: the longest numeric prefix wins, trailing junk is ignored
	prefix := leadingFloatPattern.FindString(cleaned)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy mirrors loose truthiness: nil, false, 0, NaN and "" are false
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// stringify renders a raw value as text
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case map[string]any:
		return "[object Object]"
	}

	if list, ok := asList(value); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return strings.Trim(string(data), `"`)
}

// coerceArray passes lists through and wraps a single non-empty value
func coerceArray(value any) []any {
	if list, ok := asList(value); ok {
		return list
	}
	if !truthy(value) {
		return []any{}
	}
	return []any{value}
}

// coerceObject passes plain maps through, anything else becomes an empty map
func coerceObject(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// coerceField converts a resolved raw value to the field's declared type.
// Array fields always produce a list, other types report false when unresolved.
func coerceField(field domain.FieldDescriptor, raw any, found bool) (any, bool) {
	switch field.Type {
	case domain.FieldString:
		if !found {
			return nil, false
		}
		return strings.TrimSpace(stringify(raw)), true
	case domain.FieldNumber:
		if !found {
			return nil, false
		}
		return ParseLocaleNumber(raw)
	case domain.FieldBoolean:
		if !found {
			return nil, false
		}
		return truthy(raw), true
	case domain.FieldArray:
		if !found {
			return []any{}, true
		}
		return coerceArray(raw), true
	case domain.FieldObject:
		if !found {
			return nil, false
		}
		return coerceObject(raw), true
	default:
		return nil, false
	}
}

// applyConstraints truncates strings to MaxLength and clamps numbers to [Min, Max]
func applyConstraints(field domain.FieldDescriptor, value any) any {
	switch v := value.(type) {
	case string:
		if field.MaxLength > 0 {
			return truncateRunes(v, field.MaxLength)
		}
		return v
	case float64:
		return clamp(v, field.Min, field.Max)
	default:
		return value
	}
}

func clamp(v float64, min, max *float64) float64 {
	if min != nil && v < *min {
		v = *min
	}
	if max != nil && v > *max {
		v = *max
	}
	return v
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
