// Package respond writes the preview API's JSON responses.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
)

// APIError is the body of every error response, sent as {"error": {...}}.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type errorBody struct {
	Error APIError `json:"error"`
}

// JSON encodes v with the given status and no caching.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes e as an uncacheable error response.
func Error(w http.ResponseWriter, status int, e APIError) {
	w.Header().Set("Cache-Control", "no-store")
	JSON(w, status, errorBody{Error: e})
}

// Preview serves a cached season body. It answers 304 when the request's
// If-None-Match names the entry, and advertises only the entry's remaining
// lifetime as max-age.
func Preview(w http.ResponseWriter, r *http.Request, e cache.Entry, hit bool) {
	h := w.Header()
	h.Set("ETag", e.ETag)
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge(e, time.Now())))
	if hit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}

	if e.Matches(r.Header.Get("If-None-Match")) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", "application/json")
	h.Set("Vary", "Accept-Encoding")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Body)
}

func maxAge(e cache.Entry, now time.Time) int {
	left := e.Expires.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds())
}
