package analysis

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
)

type fakeClassifier struct {
	name   string
	scores []models.EmotionScore
	err    error
	panics bool

	calls atomic.Int32
	mu    sync.Mutex
	texts []string
}

func (f *fakeClassifier) Name() string { return f.name }

func (f *fakeClassifier) Classify(_ context.Context, text string, _ sources.Kind) ([]models.EmotionScore, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.panics {
		panic("inference crashed")
	}
	return f.scores, f.err
}

// fakeGenerator answers by schema name; "" keys plain text requests.
type fakeGenerator struct {
	replies map[string]string
	err     error

	mu       sync.Mutex
	requests []sources.GenerateRequest
}

func (f *fakeGenerator) Name() string { return "fake-generator" }

func (f *fakeGenerator) Generate(_ context.Context, req sources.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	key := ""
	if req.Schema != nil {
		key = req.Schema.Name
	}
	reply, ok := f.replies[key]
	if !ok {
		return "", sources.ErrEmptyResult
	}
	return reply, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeSummarizer struct {
	summary string
	err     error

	calls              atomic.Int32
	minWords, maxWords int
}

func (f *fakeSummarizer) Name() string { return "fake-summarizer" }

func (f *fakeSummarizer) Summarize(_ context.Context, _ string, minWords, maxWords int) (string, error) {
	f.calls.Add(1)
	f.minWords, f.maxWords = minWords, maxWords
	return f.summary, f.err
}
