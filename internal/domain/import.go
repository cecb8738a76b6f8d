package domain

import "time"

// ImportRequest is one raw product handed over by the browser extension or a scraper
type ImportRequest struct {
	Platform string         `json:"platform" binding:"required"`
	Product  map[string]any `json:"product" binding:"required"`
}

// ImportResult is a normalized product together with its quality report
type ImportResult struct {
	ImportID   string            `json:"importId"`
	Product    NormalizedProduct `json:"product"`
	Validation ValidationReport  `json:"validation"`
	Accepted   bool              `json:"accepted"`
	ImportedAt time.Time         `json:"importedAt"`
}

// BatchItem is the outcome of one product in a batch import
type BatchItem struct {
	Index  int           `json:"index"`
	Result *ImportResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// BatchResult summarizes a batch import
type BatchResult struct {
	Platform string      `json:"platform"`
	Total    int         `json:"total"`
	Accepted int         `json:"accepted"`
	Rejected int         `json:"rejected"`
	Items    []BatchItem `json:"items"`
}
