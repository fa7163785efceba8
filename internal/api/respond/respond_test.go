package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
)

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusBadGateway, APIError{Code: "PREVIEW_FAILED", Message: "could not assemble standings", Detail: "boom"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"error":{"code":"PREVIEW_FAILED","message":"could not assemble standings","detail":"boom"}}`, rec.Body.String())
}

func TestError_OmitsEmptyDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusTooManyRequests, APIError{Code: "RATE_LIMITED", Message: "Too many requests"})

	assert.JSONEq(t, `{"error":{"code":"RATE_LIMITED","message":"Too many requests"}}`, rec.Body.String())
}

func TestPreview(t *testing.T) {
	e := cache.Entry{Body: []byte(`{"season":48}`), ETag: `W/"abc"`, Expires: time.Now().Add(time.Hour)}

	rec := httptest.NewRecorder()
	Preview(rec, httptest.NewRequest(http.MethodGet, "/", nil), e, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `W/"abc"`, rec.Header().Get("ETag"))
	assert.Regexp(t, `^public, max-age=(3599|3600)$`, rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"season":48}`, rec.Body.String())
}

func TestPreview_NotModified(t *testing.T) {
	e := cache.Entry{Body: []byte(`{}`), ETag: `W/"abc"`, Expires: time.Now().Add(time.Hour)}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", `W/"old", W/"abc"`)

	rec := httptest.NewRecorder()
	Preview(rec, req, e, false)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Body.String())
}

func TestMaxAge(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 90, maxAge(cache.Entry{Expires: now.Add(90 * time.Second)}, now))
	assert.Equal(t, 0, maxAge(cache.Entry{Expires: now.Add(-time.Second)}, now))
}
