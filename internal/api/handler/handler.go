// Package handler provides HTTP handlers for the preview API. Handlers run
// the pipeline in preview mode and never write to the spreadsheet.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/api/respond"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/pipeline"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// previewTimeout bounds one assembly; a cold preview scrapes every division.
const previewTimeout = 2 * time.Minute

// Previewer assembles a season without publishing it.
type Previewer interface {
	Preview(ctx context.Context, season int) ([]standings.PublishedRow, pipeline.Result, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	previewer Previewer
	cache     *cache.Cache
	logger    *slog.Logger
	group     singleflight.Group
}

// New creates a Handler with shared dependencies.
func New(p Previewer, c *cache.Cache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{previewer: p, cache: c, logger: logger}
}

// StandingsResponse is the body of the season standings endpoint.
type StandingsResponse struct {
	Season      int                      `json:"season"`
	RunID       string                   `json:"run_id"`
	Columns     []string                 `json:"columns"`
	Rows        []standings.PublishedRow `json:"rows"`
	Warnings    []string                 `json:"warnings,omitempty"`
	GeneratedAt string                   `json:"generated_at"`
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"name":   "UKCS Standings Preview API",
		"status": "running",
		"routes": []string{"/health", "/health/cache", "/api/v1/seasons/{season}/standings"},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache reports cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, struct {
		Status string      `json:"status"`
		Cache  cache.Stats `json:"cache"`
	}{"healthy", h.cache.Stats()})
}

// GetSeasonStandings returns the rows a publish would write for a season.
// Concurrent misses for the same season share one assembly.
func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil || season < 1 {
		respond.Error(w, http.StatusBadRequest, respond.APIError{Code: "INVALID_SEASON", Message: "season must be a positive number"})
		return
	}

	if e, ok := h.cache.Get(season); ok {
		respond.Preview(w, r, e, true)
		return
	}

	v, err, _ := h.group.Do(strconv.Itoa(season), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), previewTimeout)
		defer cancel()
		return h.assemble(ctx, season)
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidSeason) {
			respond.Error(w, http.StatusBadRequest, respond.APIError{Code: "INVALID_SEASON", Message: err.Error()})
			return
		}
		h.logger.Error("Preview failed", "season", season, "error", err)
		respond.Error(w, http.StatusBadGateway, respond.APIError{
			Code:    "PREVIEW_FAILED",
			Message: "could not assemble standings",
			Detail:  err.Error(),
		})
		return
	}
	respond.Preview(w, r, v.(cache.Entry), false)
}

func (h *Handler) assemble(ctx context.Context, season int) (cache.Entry, error) {
	rows, res, err := h.previewer.Preview(ctx, season)
	if err != nil {
		return cache.Entry{}, err
	}
	if rows == nil {
		rows = []standings.PublishedRow{}
	}
	data, err := json.Marshal(StandingsResponse{
		Season:      season,
		RunID:       res.RunID,
		Columns:     standings.PublishedHeader,
		Rows:        rows,
		Warnings:    res.Errors,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return cache.Entry{}, fmt.Errorf("encode standings: %w", err)
	}
	return h.cache.Put(season, data), nil
}
