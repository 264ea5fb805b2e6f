package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spacesedan/mindmirror/internal/logging"
	"github.com/spacesedan/mindmirror/internal/models"
)

// FallbackSource is reported by FirstSuccess when every attempt failed.
const FallbackSource = "fallback"

// Attempt is one provider in an ordered fallback chain.
type Attempt[T any] struct {
	Source string
	Run    func(ctx context.Context) (T, error)
}

// Try runs attempts in order and returns the first success along with the
// name of the source that produced it. A panicking attempt counts as a
// failed call. When all attempts fail the joined errors are returned.
func Try[T any](ctx context.Context, op string, attempts []Attempt[T]) (T, string, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, "", Fail(op, ErrUnavailable)
	}

	log := logging.FromContext(ctx)
	var errs []error
	for _, a := range attempts {
		start := time.Now()
		v, err := run(ctx, a)
		if err == nil {
			log.Debug("[Sources] Attempt succeeded",
				slog.String("op", op),
				slog.String("source", a.Source),
				slog.Duration("elapsed", time.Since(start)))
			return v, a.Source, nil
		}

		err = Fail(a.Source, err)
		errs = append(errs, err)
		if errors.Is(err, ErrUnavailable) {
			log.Debug("[Sources] Skipping unavailable source",
				slog.String("op", op),
				slog.String("source", a.Source))
			continue
		}
		log.Warn("[Sources] Attempt failed",
			slog.String("op", op),
			slog.String("source", a.Source),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
	}

	return zero, "", errors.Join(errs...)
}

// FirstSuccess is Try with a default: exhaustion yields fallback and
// FallbackSource instead of an error.
func FirstSuccess[T any](ctx context.Context, op string, attempts []Attempt[T], fallback T) (T, string) {
	v, src, err := Try(ctx, op, attempts)
	if err != nil {
		return fallback, FallbackSource
	}
	return v, src
}

func run[T any](ctx context.Context, a Attempt[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Run(ctx)
}

// ClassifierChain tries each classifier in order. Unsupported kinds, errors
// and empty results all move on to the next classifier.
type ClassifierChain struct {
	name        string
	classifiers []Classifier
}

func NewClassifierChain(name string, classifiers ...Classifier) *ClassifierChain {
	return &ClassifierChain{name: name, classifiers: classifiers}
}

func (c *ClassifierChain) Name() string { return c.name }

// Members returns the classifiers in the order they are tried.
func (c *ClassifierChain) Members() []Classifier {
	return slices.Clone(c.classifiers)
}

func (c *ClassifierChain) Classify(ctx context.Context, text string, kind Kind) ([]models.EmotionScore, error) {
	attempts := make([]Attempt[[]models.EmotionScore], 0, len(c.classifiers))
	for _, cl := range c.classifiers {
		attempts = append(attempts, Attempt[[]models.EmotionScore]{
			Source: cl.Name(),
			Run: func(ctx context.Context) ([]models.EmotionScore, error) {
				scores, err := cl.Classify(ctx, text, kind)
				if err != nil {
					return nil, err
				}
				if len(scores) == 0 {
					return nil, ErrEmptyResult
				}
				return scores, nil
			},
		})
	}

	scores, _, err := Try(ctx, c.name+"."+string(kind), attempts)
	if err != nil {
		return nil, Fail(c.name, err)
	}
	return scores, nil
}
