package monitoring

import (
	"context"
	"sync/atomic"

	"github.com/spacesedan/mindmirror/internal/sources"
)

type guardedSummarizer struct {
	sources.Summarizer
	healthy *atomic.Bool
}

// GuardSummarizer skips s while the last health probe failed.
func GuardSummarizer(s sources.Summarizer, healthy *atomic.Bool) sources.Summarizer {
	return &guardedSummarizer{Summarizer: s, healthy: healthy}
}

func (g *guardedSummarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	if !g.healthy.Load() {
		return "", sources.Fail(g.Name(), sources.ErrUnavailable)
	}
	return g.Summarizer.Summarize(ctx, text, minWords, maxWords)
}
