package monitoring

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/spacesedan/mindmirror/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoSummarizer struct{ calls int }

func (e *echoSummarizer) Name() string { return "echo" }

func (e *echoSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	e.calls++
	return text, nil
}

func TestGuardSummarizer(t *testing.T) {
	t.Parallel()

	inner := &echoSummarizer{}
	healthy := &atomic.Bool{}
	g := GuardSummarizer(inner, healthy)

	_, err := g.Summarize(context.Background(), "x", 1, 2)
	assert.ErrorIs(t, err, sources.ErrUnavailable)
	assert.Zero(t, inner.calls)

	healthy.Store(true)
	got, err := g.Summarize(context.Background(), "x", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, "echo", g.Name())
}
