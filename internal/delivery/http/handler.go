package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dropsync/catalog/internal/domain"
	"github.com/dropsync/catalog/internal/infrastructure/spreadsheet"
	"github.com/dropsync/catalog/internal/usecase"
)

const (
	serviceName    = "catalog-import"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	importService  *usecase.ImportService
	maxUploadBytes int64
}

// NewHandler creates a new HTTP handler. A nil import service makes product endpoints return 501.
func NewHandler(importService *usecase.ImportService, maxUploadMB int) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{
		importService:  importService,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// normalizeRequest is the body of POST /products/normalize
type normalizeRequest struct {
	Platform string         `json:"platform"`
	Product  map[string]any `json:"product" binding:"required"`
}

// validateRequest is the body of POST /products/validate
type validateRequest struct {
	Product map[string]any `json:"product" binding:"required"`
}

// bulkImportRequest is the body of POST /products/import/bulk
type bulkImportRequest struct {
	Platform string           `json:"platform" binding:"required"`
	Products []map[string]any `json:"products" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"service":           serviceName,
		"version":           serviceVersion,
		"extractor_version": domain.ExtractorVersion,
	})
}

// Normalize maps a raw payload to the unified schema and reports its quality
func (h *Handler) Normalize(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	normalizer := h.importService.Normalizer()
	product := normalizer.NormalizeContext(c.Request.Context(), req.Product, platform)

	c.JSON(http.StatusOK, gin.H{
		"product":      product,
		"schema_check": normalizer.ValidateNormalized(product),
		"validation":   h.importService.Validator().Validate(product),
	})
}

// Validate scores a raw or normalized payload without importing it
func (h *Handler) Validate(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	validator := h.importService.Validator()
	report := validator.Validate(req.Product)

	c.JSON(http.StatusOK, gin.H{
		"validation": report,
		"missing":    validator.GetMissingFieldsSummary(req.Product),
	})
}

// Import normalizes, validates and stores one product
func (h *Handler) Import(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.importService.Import(c.Request.Context(), &req)
	if errors.Is(err, domain.ErrImportRejected) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ImportBulk imports a JSON array of products from one platform
func (h *Handler) ImportBulk(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	batch, err := h.importService.ImportBatch(c.Request.Context(), req.Platform, req.Products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// ImportFile imports products from an uploaded CSV or XLSX file (multipart fields "file" and "platform")
func (h *Handler) ImportFile(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "uploaded file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	platform := c.PostForm("platform")
	if strings.TrimSpace(platform) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "form field 'platform' is required"})
		return
	}

	format, err := spreadsheet.FormatFromFilename(fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	products, err := spreadsheet.ReadProducts(file, format)
	if err != nil {
		respondError(c, err)
		return
	}

	batch, err := h.importService.ImportBatch(c.Request.Context(), platform, products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// GetImported returns a previously imported product
func (h *Handler) GetImported(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	result, err := h.importService.GetImported(c.Request.Context(), c.Param("platform"), c.Param("externalId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.importService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "import service not configured"})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrImportRejected):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrBatchTooLarge):
		status, message = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		status, message = http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrCacheUnavailable):
		status, message = http.StatusServiceUnavailable, "product store unavailable"
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": message})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}
