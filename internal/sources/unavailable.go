package sources

import (
	"context"
	"log/slog"
	"sync"

	"github.com/spacesedan/mindmirror/internal/models"
)

// unavailable stands in for a source that was never initialized. It fails
// every call with ErrUnavailable and logs the reason only on the first call.
type unavailable struct {
	name   string
	reason string
	once   sync.Once
}

func (u *unavailable) Name() string { return u.name }

func (u *unavailable) fail() error {
	u.once.Do(func() {
		slog.Warn("[Sources] Source unavailable, using fallbacks",
			slog.String("source", u.name),
			slog.String("reason", u.reason))
	})
	return Fail(u.name, ErrUnavailable)
}

type unavailableClassifier struct{ *unavailable }

func (u unavailableClassifier) Classify(context.Context, string, Kind) ([]models.EmotionScore, error) {
	return nil, u.fail()
}

type unavailableGenerator struct{ *unavailable }

func (u unavailableGenerator) Generate(context.Context, GenerateRequest) (string, error) {
	return "", u.fail()
}

type unavailableSummarizer struct{ *unavailable }

func (u unavailableSummarizer) Summarize(context.Context, string, int, int) (string, error) {
	return "", u.fail()
}

func NewUnavailableClassifier(name, reason string) Classifier {
	return unavailableClassifier{&unavailable{name: name, reason: reason}}
}

func NewUnavailableGenerator(name, reason string) Generator {
	return unavailableGenerator{&unavailable{name: name, reason: reason}}
}

func NewUnavailableSummarizer(name, reason string) Summarizer {
	return unavailableSummarizer{&unavailable{name: name, reason: reason}}
}

// IsUnavailable reports whether src was built by one of the NewUnavailable
// constructors.
func IsUnavailable(src any) bool {
	switch src.(type) {
	case unavailableClassifier, unavailableGenerator, unavailableSummarizer:
		return true
	}
	return false
}
