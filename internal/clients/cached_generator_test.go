package clients

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/mindmirror/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingGenerator struct {
	reply string
	err   error
	calls int
}

func (c *countingGenerator) Name() string { return "counting" }

func (c *countingGenerator) Generate(context.Context, sources.GenerateRequest) (string, error) {
	c.calls++
	return c.reply, c.err
}

func TestCachedGeneratorHitsCache(t *testing.T) {
	t.Parallel()

	next := &countingGenerator{reply: "summary"}
	cache := newMemoryCache()
	g := NewCachedGenerator(next, cache, time.Hour)
	req := sources.GenerateRequest{Instructions: "Summarize.", Prompt: "text"}

	for i := 0; i < 3; i++ {
		got, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "summary", got)
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, time.Hour, cache.ttls[requestKey(req)])
	assert.Equal(t, "counting", g.Name())
}

func TestCachedGeneratorDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	next := &countingGenerator{err: errors.New("timeout")}
	cache := newMemoryCache()
	g := NewCachedGenerator(next, cache, time.Hour)

	_, err := g.Generate(context.Background(), sources.GenerateRequest{Prompt: "text"})
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestCachedGeneratorSurvivesCacheErrors(t *testing.T) {
	t.Parallel()

	next := &countingGenerator{reply: "ok"}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	g := NewCachedGenerator(next, cache, time.Hour)

	got, err := g.Generate(context.Background(), sources.GenerateRequest{Prompt: "text"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, next.calls)
}

func TestRequestKey(t *testing.T) {
	t.Parallel()

	a := sources.GenerateRequest{Instructions: "i", Prompt: "p"}
	b := sources.GenerateRequest{Instructions: "ip", Prompt: ""}
	schema := &sources.Schema{Name: "s", Definition: map[string]any{"type": "object", "required": []string{"a", "b"}}}
	c := sources.GenerateRequest{Instructions: "i", Prompt: "p", Schema: schema}

	assert.Equal(t, requestKey(a), requestKey(a))
	assert.NotEqual(t, requestKey(a), requestKey(b))
	assert.NotEqual(t, requestKey(a), requestKey(c))
	assert.Equal(t, requestKey(c), requestKey(c))
	assert.Len(t, requestKey(a), 64)
}

func TestIsConnectionError(t *testing.T) {
	t.Parallel()

	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp: connection refused")))
	assert.True(t, isConnectionError(errors.New("read: i/o timeout")))
	assert.False(t, isConnectionError(errors.New("WRONGTYPE")))
}
