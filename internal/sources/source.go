// Package sources defines the signal sources the analysis pipeline draws
// from. A source may be unavailable for the life of the process or fail on a
// single call; either way callers substitute their own default.
package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/spacesedan/mindmirror/internal/models"
)

// Kind selects the classification task.
type Kind string

const (
	KindSentiment Kind = "sentiment"
	KindEmotion   Kind = "emotion"
)

var (
	ErrUnavailable     = errors.New("source unavailable")
	ErrUnsupportedKind = errors.New("unsupported classification kind")
	ErrEmptyResult     = errors.New("source returned an empty result")
	ErrMalformed       = errors.New("malformed source payload")
)

// Classifier returns labeled scores for text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string, kind Kind) ([]models.EmotionScore, error)
}

// Schema describes the JSON shape a generative call must return.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type GenerateRequest struct {
	Instructions string
	Prompt       string
	// Schema is nil for plain text generation.
	Schema *Schema
}

// Generator produces text, or JSON matching req.Schema, from a prompt.
// Implementations make exactly one attempt per call.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// CallError records which source a single call failed in.
type CallError struct {
	Source string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Fail wraps err as a CallError for source, leaving existing CallErrors alone.
func Fail(source string, err error) error {
	var ce *CallError
	if errors.As(err, &ce) {
		return err
	}
	return &CallError{Source: source, Err: err}
}

// Summarizer condenses text to between minWords and maxWords words.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}
