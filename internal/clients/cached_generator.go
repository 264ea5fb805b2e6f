package clients

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spacesedan/mindmirror/internal/sources"
)

type stringCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedGenerator memoizes successful generations. Cache failures never fail
// the call; they only cost a round trip to the wrapped generator.
type CachedGenerator struct {
	next  sources.Generator
	cache stringCache
	ttl   time.Duration
}

func NewCachedGenerator(next sources.Generator, cache stringCache, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{next: next, cache: cache, ttl: ttl}
}

func (c *CachedGenerator) Name() string { return c.next.Name() }

func (c *CachedGenerator) Generate(ctx context.Context, req sources.GenerateRequest) (string, error) {
	key := requestKey(req)

	if v, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("[CachedGenerator] Cache read failed",
			slog.String("source", c.next.Name()),
			slog.String("error", err.Error()))
	} else if ok {
		slog.Debug("[CachedGenerator] Cache hit", slog.String("key", key))
		return v, nil
	}

	out, err := c.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		slog.Warn("[CachedGenerator] Cache write failed",
			slog.String("source", c.next.Name()),
			slog.String("error", err.Error()))
	}
	return out, nil
}

func requestKey(req sources.GenerateRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Instructions))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	h.Write([]byte{0})
	if req.Schema != nil {
		h.Write([]byte(req.Schema.Name))
		// encoding/json sorts map keys, so the encoding is stable.
		if b, err := json.Marshal(req.Schema.Definition); err == nil {
			h.Write(b)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
