package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/pipeline"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

type stubPreviewer struct {
	calls atomic.Int32
	rows  []standings.PublishedRow
	err   error
}

func (s *stubPreviewer) Preview(_ context.Context, season int) ([]standings.PublishedRow, pipeline.Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, pipeline.Result{}, s.err
	}
	return s.rows, pipeline.Result{RunID: "run-1", Errors: []string{"fetch open: timeout"}}, nil
}

func newTestRouter(p Previewer, c *cache.Cache) http.Handler {
	h := New(p, c, nil)
	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Get("/health/cache", h.HealthCheckCache)
	r.Get("/seasons/{season}/standings", h.GetSeasonStandings)
	return r
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetSeasonStandings_MissThenHitThenNotModified(t *testing.T) {
	p := &stubPreviewer{rows: []standings.PublishedRow{
		{TeamName: "Alpha", Division: "Main", Record: "12-3", PageURL: "https://play.esea.net/teams/1"},
	}}
	router := newTestRouter(p, cache.New(true, time.Minute))

	first := get(t, router, "/seasons/48/standings", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var body StandingsResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &body))
	assert.Equal(t, 48, body.Season)
	assert.Equal(t, "run-1", body.RunID)
	assert.Equal(t, standings.PublishedHeader, body.Columns)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "Alpha", body.Rows[0].TeamName)
	assert.Equal(t, []string{"fetch open: timeout"}, body.Warnings)

	second := get(t, router, "/seasons/48/standings", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	third := get(t, router, "/seasons/48/standings", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, third.Code)
	assert.Empty(t, third.Body.String())
	assert.Regexp(t, `^public, max-age=\d+$`, third.Header().Get("Cache-Control"))

	assert.Equal(t, int32(1), p.calls.Load())
}

func TestGetSeasonStandings_CacheDisabledAlwaysAssembles(t *testing.T) {
	p := &stubPreviewer{}
	router := newTestRouter(p, cache.New(false, time.Minute))

	get(t, router, "/seasons/48/standings", nil)
	rec := get(t, router, "/seasons/48/standings", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, mustRows(t, rec))
	assert.Equal(t, int32(2), p.calls.Load())
}

func mustRows(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	return string(raw["rows"])
}

func TestGetSeasonStandings_InvalidSeason(t *testing.T) {
	p := &stubPreviewer{}
	router := newTestRouter(p, cache.New(true, time.Minute))

	for _, path := range []string{"/seasons/abc/standings", "/seasons/0/standings", "/seasons/-2/standings"} {
		rec := get(t, router, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "INVALID_SEASON")
	}
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestGetSeasonStandings_PreviewFailure(t *testing.T) {
	p := &stubPreviewer{err: errors.New("malformed supplementary table")}
	c := cache.New(true, time.Minute)
	router := newTestRouter(p, c)

	rec := get(t, router, "/seasons/48/standings", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "PREVIEW_FAILED")
	assert.Equal(t, 0, c.Stats().Seasons)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(&stubPreviewer{}, cache.New(true, time.Minute))

	rec := get(t, router, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	rec = get(t, router, "/health/cache", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","cache":{"enabled":true,"ttl_seconds":60,"seasons":0,"fresh":0,"stale":0}}`, rec.Body.String())
}
