package domain

// Tier names used by the validator
const (
	TierCritical  = "critical"
	TierImportant = "important"
	TierOptional  = "optional"
)

// FieldFailure is a field that did not pass its validation predicate
type FieldFailure struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// TierResult is the outcome of one validation tier
type TierResult struct {
	Passed     []string       `json:"passed"`
	Failed     []FieldFailure `json:"failed"`
	Weight     int            `json:"weight"`
	Percentage float64        `json:"percentage"`
}

// ValidationReport is the validator's read-only summary of a payload
type ValidationReport struct {
	Critical    TierResult   `json:"critical"`
	Important   TierResult   `json:"important"`
	Optional    TierResult   `json:"optional"`
	Score       int          `json:"score"`
	CanImport   bool         `json:"canImport"`
	IsValid     bool         `json:"isValid"`
	Errors      []string     `json:"errors"`
	Warnings    []string     `json:"warnings"`
	Summary     string       `json:"summary"`
	UserMessage string       `json:"userMessage"`
	Badge       QualityBadge `json:"badge"`
}

// MissingFields lists failed field labels per tier
type MissingFields struct {
	Critical  []string `json:"critical"`
	Important []string `json:"important"`
	Optional  []string `json:"optional"`
}

// Total returns the number of missing fields across all tiers
func (m MissingFields) Total() int {
	return len(m.Critical) + len(m.Important) + len(m.Optional)
}

// QualityBadge is the display tag for a quality score
type QualityBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// NormalizedCheck is the advisory result of checking required schema fields
type NormalizedCheck struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
