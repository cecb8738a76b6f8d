package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{"chrome extension wildcard", "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen", []string{"chrome-extension://*"}, true},
		{"pinned extension id", "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen", []string{"chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen"}, true},
		{"other extension id not pinned", "chrome-extension://aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", []string{"chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen"}, false},
		{"firefox extension", "moz-extension://4b0c6d3e-1f2a-4c55-9d0e-2a7b8c9d0e1f", []string{"chrome-extension://*", "moz-extension://*"}, true},
		{"dashboard origin", "https://app.dropsync.io", []string{"chrome-extension://*", "https://app.dropsync.io"}, true},
		{"dashboard lookalike", "https://app.dropsync.io.evil.com", []string{"https://app.dropsync.io"}, false},
		{"marketplace page", "https://www.aliexpress.com", []string{"chrome-extension://*"}, false},
		{"empty origin", "", []string{"chrome-extension://*"}, false},
		{"empty allowed list", "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedOrigin(tt.origin, tt.allowedOrigins))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"chrome-extension://*", "https://app.dropsync.io"}

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{"extension import call", "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen", http.MethodPost, http.StatusOK, true},
		{"dashboard lookup", "https://app.dropsync.io", http.MethodGet, http.StatusOK, true},
		{"extension preflight", "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen", http.MethodOptions, http.StatusNoContent, true},
		{"marketplace page script", "https://www.aliexpress.com", http.MethodPost, http.StatusOK, false},
		{"server to server", "", http.MethodPost, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(allowed))
			router.GET("/api/v1/products/:platform/:externalId", func(c *gin.Context) { c.Status(http.StatusOK) })
			router.POST("/api/v1/products/import", func(c *gin.Context) { c.Status(http.StatusOK) })

			path := "/api/v1/products/import"
			if tt.method == http.MethodGet {
				path = "/api/v1/products/aliexpress/1005001234567890"
			}
			req := httptest.NewRequest(tt.method, path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if !tt.wantCORS {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Empty(t, w.Header().Get("Access-Control-Expose-Headers"))
				return
			}

			assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
		})
	}
}

func TestCORSMiddleware_PreflightWithRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware(), CORSMiddleware([]string{"chrome-extension://*"}))
	router.POST("/api/v1/products/import", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products/import", nil)
	req.Header.Set("Origin", "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Request-ID")
	req.Header.Set("X-Request-ID", "ext-preflight-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "chrome-extension://kbfnbcaeplbcioakkpcpgfkobkghlhen", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "ext-preflight-1", w.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware(t *testing.T) {
	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(RequestIDMiddleware())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(requestIDKey))
		})
		return router
	}

	t.Run("assigns an ID when none is sent", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		id := w.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "ext-42")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, "ext-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "ext-42", w.Body.String())
	})
}

func TestLoggerMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok", nil))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "/ok", hook.LastEntry().Data["path"])
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
	assert.NotEmpty(t, hook.LastEntry().Data["request_id"])

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/bad", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1:1234").Code)

	limited := request("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "30", limited.Header().Get("Retry-After"))

	// Other clients have their own bucket
	assert.Equal(t, http.StatusOK, request("10.0.0.2:1234").Code)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(0))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: Status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}
}

func TestIPRateLimiter_EvictsIdleVisitors(t *testing.T) {
	limiter := newIPRateLimiter(60)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.2")
	assert.Len(t, limiter.visitors, 2)

	now = now.Add(visitorIdleTimeout + time.Minute)
	limiter.allow("10.0.0.3")
	assert.Len(t, limiter.visitors, 1)
}
