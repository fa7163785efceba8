package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withClock(c *Cache, at *time.Time) *Cache {
	c.now = func() time.Time { return *at }
	return c
}

func TestCache_PutGetExpire(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := withClock(New(true, time.Minute), &now)

	put := c.Put(48, []byte(`{"season":48}`))
	assert.Equal(t, now.Add(time.Minute), put.Expires)

	got, ok := c.Get(48)
	require.True(t, ok)
	assert.Equal(t, put.ETag, got.ETag)
	assert.JSONEq(t, `{"season":48}`, string(got.Body))

	_, ok = c.Get(47)
	assert.False(t, ok, "seasons are cached independently")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(48)
	assert.False(t, ok)
	assert.Equal(t, Stats{Enabled: true, TTLSeconds: 60, Seasons: 1, Stale: 1}, c.Stats())

	c.sweep()
	assert.Equal(t, 0, c.Stats().Seasons)
}

func TestCache_Disabled(t *testing.T) {
	c := New(false, 0)
	e := c.Put(48, []byte("v"))
	assert.Equal(t, etagOf([]byte("v")), e.ETag)

	_, ok := c.Get(48)
	assert.False(t, ok)
	assert.Equal(t, Stats{TTLSeconds: int(DefaultTTL.Seconds())}, c.Stats())
}

func TestCache_RunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		New(true, 0).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestEtagOf(t *testing.T) {
	a := etagOf([]byte("a"))
	assert.Equal(t, a, etagOf([]byte("a")))
	assert.NotEqual(t, a, etagOf([]byte("b")))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, a)
}

func TestEntry_Matches(t *testing.T) {
	e := Entry{ETag: `W/"abc"`}
	tests := map[string]bool{
		"":                 false,
		"*":                true,
		`W/"abc"`:          true,
		`"abc"`:            true,
		`W/"zzz", W/"abc"`: true,
		`W/"zzz",W/"yyy"`:  false,
		`W/"abcd"`:         false,
	}
	for header, want := range tests {
		assert.Equal(t, want, e.Matches(header), header)
	}
	assert.False(t, Entry{}.Matches("*"), "an untagged entry never matches")
}
