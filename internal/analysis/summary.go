package analysis

import (
	"context"
	"strings"

	"github.com/spacesedan/mindmirror/internal/sources"
)

const (
	minWordsToSummarize = 50
	summaryMinWords     = 30
	summaryMaxWords     = 200
)

// summaryBounds derives summarizer length bounds from the word count of the
// original entry: at most 200 words and half the input, at least 30 words
// unless that would not leave room below the maximum.
func summaryBounds(words int) (minWords, maxWords int) {
	maxWords = min(summaryMaxWords, words/2)
	minWords = summaryMinWords
	if minWords >= maxWords {
		minWords = maxWords / 2
	}
	return minWords, maxWords
}

// summarize never fails. Short entries are truncated without calling any
// source; longer ones go to the generator, then the self-hosted summarizer,
// then truncation.
func (p *Pipeline) summarize(ctx context.Context, original, working string) string {
	words := wordCount(original)
	if words < minWordsToSummarize {
		return truncate(original)
	}

	minWords, maxWords := summaryBounds(words)
	attempts := []sources.Attempt[string]{
		{
			Source: p.src.Generator.Name(),
			Run: func(ctx context.Context) (string, error) {
				out, err := p.src.Generator.Generate(ctx, sources.GenerateRequest{
					Instructions: summaryInstructions,
					Prompt:       working,
				})
				return nonEmpty(out, err)
			},
		},
		{
			Source: p.src.Summarizer.Name(),
			Run: func(ctx context.Context) (string, error) {
				return nonEmpty(p.src.Summarizer.Summarize(ctx, working, minWords, maxWords))
			},
		},
	}

	summary, _ := sources.FirstSuccess(ctx, "summary", attempts, truncate(original))
	return summary
}

func nonEmpty(s string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", sources.ErrEmptyResult
	}
	return s, nil
}
