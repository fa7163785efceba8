// Package cache keeps assembled standings previews in memory, one entry per
// season, so repeated reads of the preview API do not rescrape ESEA.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long an assembled preview stays fresh.
const DefaultTTL = 15 * time.Minute

// sweepEvery is the interval at which Run drops stale seasons.
const sweepEvery = 5 * time.Minute

// Entry is one encoded season preview.
type Entry struct {
	Body    []byte
	ETag    string
	Expires time.Time
}

// Fresh reports whether the entry may still be served at t.
func (e Entry) Fresh(t time.Time) bool {
	return t.Before(e.Expires)
}

// Matches reports whether an If-None-Match header names this entry. The
// header may list several tags; "*" matches any entry.
func (e Entry) Matches(ifNoneMatch string) bool {
	if e.ETag == "" {
		return false
	}
	for _, tag := range strings.Split(ifNoneMatch, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == strings.TrimPrefix(e.ETag, "W/") {
			return true
		}
	}
	return false
}

// Stats describes what the cache currently holds.
type Stats struct {
	Enabled    bool `json:"enabled"`
	TTLSeconds int  `json:"ttl_seconds"`
	Seasons    int  `json:"seasons"`
	Fresh      int  `json:"fresh"`
	Stale      int  `json:"stale"`
}

// Cache holds season previews. A disabled cache still tags bodies but never
// returns a hit.
type Cache struct {
	mu      sync.RWMutex
	seasons map[int]Entry
	enabled bool
	ttl     time.Duration
	now     func() time.Time
}

// New returns a cache whose entries live for ttl; ttl <= 0 means DefaultTTL.
// Stale seasons are only dropped while Run is active.
func New(enabled bool, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		seasons: make(map[int]Entry),
		enabled: enabled,
		ttl:     ttl,
		now:     time.Now,
	}
}

// TTL is the lifetime given to every stored preview.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the fresh preview for season.
func (c *Cache) Get(season int) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.seasons[season]
	if !ok || !e.Fresh(c.now()) {
		return Entry{}, false
	}
	return e, true
}

// Put stores body as the preview for season and returns the tagged entry.
func (c *Cache) Put(season int, body []byte) Entry {
	e := Entry{Body: body, ETag: etagOf(body), Expires: c.now().Add(c.ttl)}
	if !c.enabled {
		return e
	}
	c.mu.Lock()
	c.seasons[season] = e
	c.mu.Unlock()
	return e
}

// Stats counts the stored seasons by freshness.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{Enabled: c.enabled, TTLSeconds: int(c.ttl.Seconds()), Seasons: len(c.seasons)}
	now := c.now()
	for _, e := range c.seasons {
		if e.Fresh(now) {
			s.Fresh++
		}
	}
	s.Stale = s.Seasons - s.Fresh
	return s
}

// Run drops stale seasons until ctx is done.
func (c *Cache) Run(ctx context.Context) {
	if !c.enabled {
		return
	}
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for season, e := range c.seasons {
		if !e.Fresh(now) {
			delete(c.seasons, season)
		}
	}
}

// etagOf tags a body by content. Previews embed their generation time, so
// the tag changes on every reassembly.
func etagOf(body []byte) string {
	sum := sha256.Sum256(body)
	return fmt.Sprintf(`W/"%x"`, sum[:8])
}
