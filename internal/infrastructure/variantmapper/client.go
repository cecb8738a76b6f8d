package variantmapper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dropsync/catalog/internal/domain"
)

const (
	maxAttempts        = 3
	defaultTimeout     = 10 * time.Second
	defaultBaseBackoff = 500 * time.Millisecond
	mapEndpoint        = "/v1/variants/map"
)

// Config configures the remote variant-mapping client
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            logrus.FieldLogger
}

// Client calls a remote variant-mapping service. It implements domain.VariantMapper.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	timeout     time.Duration
	baseBackoff time.Duration
	rateLimiter *rate.Limiter
	logger      logrus.FieldLogger
}

// NewClient creates a new variant-mapping client
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      config.APIKey,
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		timeout:     timeout,
		baseBackoff: defaultBaseBackoff,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		logger:      logger.WithField("component", "variant_mapper"),
	}
}

// Map satisfies domain.VariantMapper for callers without a context.
func (c *Client) Map(variants []any, platform string, options map[string]any) ([]domain.Variant, error) {
	return c.MapContext(context.Background(), variants, platform, options)
}

// MapContext satisfies domain.ContextVariantMapper. The call ends when ctx is done
// or after the client timeout for every attempt, whichever comes first.
func (c *Client) MapContext(ctx context.Context, variants []any, platform string, options map[string]any) ([]domain.Variant, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout*maxAttempts)
	defer cancel()
	return c.MapVariants(ctx, variants, platform, options)
}

// MapVariants posts raw variants to the service and returns the cleaned result.
// Transient failures (transport errors, 429 and 5xx) are retried with exponential backoff.
func (c *Client) MapVariants(ctx context.Context, variants []any, platform string, options map[string]any) ([]domain.Variant, error) {
	if options == nil {
		options = map[string]any{}
	}
	body, err := json.Marshal(mapRequest{Platform: platform, Variants: variants, Options: options})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		status, respBody, err := c.doRequest(ctx, body)
		if err != nil {
			c.logger.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Warn("request failed")
			lastErr = err
			if !c.backoff(ctx, attempt) {
				break
			}
			continue
		}

		if status == http.StatusOK {
			var resp mapResponse
			if err := json.Unmarshal(respBody, &resp); err != nil {
				return nil, fmt.Errorf("%w: decode response: %v", domain.ErrVariantMapperFailure, err)
			}
			mapped := toDomainVariants(resp.Variants)
			c.logger.WithFields(logrus.Fields{
				"platform": platform,
				"in":       len(variants),
				"out":      len(mapped),
			}).Debug("variants mapped")
			return mapped, nil
		}

		lastErr = fmt.Errorf("%w: status %d", domain.ErrVariantMapperFailure, status)
		c.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"status":  status,
			"body":    truncateBody(respBody),
		}).Warn("service returned an error")

		if !retryable(status) || !c.backoff(ctx, attempt) {
			break
		}
	}

	return nil, lastErr
}

// doRequest executes one POST and returns status and body
func (c *Client) doRequest(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mapEndpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "DropSync-Catalog/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrVariantMapperFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", domain.ErrVariantMapperFailure, err)
	}
	return resp.StatusCode, respBody, nil
}

// backoff sleeps before the next attempt; it reports false when no attempt is left or ctx is done
func (c *Client) backoff(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return false
	}

	timer := time.NewTimer(exponentialBackoff(c.baseBackoff, attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// exponentialBackoff returns base, 2*base, 4*base... for attempts 1, 2, 3...
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<(attempt-1))
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
