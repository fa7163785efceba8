package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/pipeline"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

type fixedPreviewer struct{}

func (fixedPreviewer) Preview(context.Context, int) ([]standings.PublishedRow, pipeline.Result, error) {
	return []standings.PublishedRow{{TeamName: "Alpha", Division: "Main"}}, pipeline.Result{RunID: "r"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins:  []string{"https://ukcshub.example"},
		RateLimitEnabled:  true,
		RateLimitRequests: 4,
		RateLimitWindow:   time.Minute,
		PreviewTTL:        time.Minute,
	}
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_Routes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = false
	router := NewRouter(fixedPreviewer{}, cache.New(true, time.Minute), cfg, nil)

	for _, path := range []string{"/", "/health", "/health/cache", "/api/v1/seasons/48/standings"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := serve(router, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Process-Time"), path)
	}
}

func TestNewRouter_CORS(t *testing.T) {
	router := NewRouter(fixedPreviewer{}, cache.New(true, time.Minute), testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://ukcshub.example")
	rec := serve(router, req)
	assert.Equal(t, "https://ukcshub.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = serve(router, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimitMiddleware(4, time.Minute)(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		codes = append(codes, serve(h, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.2:5000"
	assert.Equal(t, http.StatusOK, serve(h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	rec := serve(h, req)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestNewIPLimiter_MinimumBurst(t *testing.T) {
	l := newIPLimiter(1, time.Minute)
	require.Equal(t, 1, l.burst)
	assert.True(t, l.getLimiter("a").Allow())
}

func TestTimingMiddleware_SetsHeaderBeforeBody(t *testing.T) {
	h := TimingMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Regexp(t, `^\d+\.\d{2}ms$`, rec.Header().Get("X-Process-Time"))
}
