// Package analysis turns a journal entry into an emotional profile by
// combining classifier, generative and keyword signals. Every signal source
// may fail; the pipeline substitutes a neutral default for each and only
// rejects empty input.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/mindmirror/config"
	"github.com/spacesedan/mindmirror/internal/logging"
	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
	"golang.org/x/sync/errgroup"
)

type state string

const (
	stateReceived   state = "RECEIVED"
	stateDispatched state = "SOURCES_DISPATCHED"
	stateMerged     state = "SOURCES_MERGED"
	stateComplete   state = "COMPLETE"
)

// Sources are the signal sources the pipeline draws from. Nil entries are
// treated as unavailable.
type Sources struct {
	Emotion    sources.Classifier
	Sentiment  sources.Classifier
	Generator  sources.Generator
	Summarizer sources.Summarizer
}

type Options struct {
	Concerns       config.ConcernsSource
	GenerativeTips bool
	MaxTips        int
	WorkingWordCap int
}

// Pipeline is safe for concurrent use; it holds no per-request state.
type Pipeline struct {
	tables *Tables
	src    Sources
	opts   Options
}

func NewPipeline(tables *Tables, src Sources, opts Options) *Pipeline {
	if src.Emotion == nil {
		src.Emotion = sources.NewUnavailableClassifier("emotion", "not configured")
	}
	if src.Sentiment == nil {
		src.Sentiment = sources.NewUnavailableClassifier("sentiment", "not configured")
	}
	if src.Generator == nil {
		src.Generator = sources.NewUnavailableGenerator("generative", "not configured")
	}
	if src.Summarizer == nil {
		src.Summarizer = sources.NewUnavailableSummarizer("summarizer", "not configured")
	}
	if opts.Concerns == "" {
		opts.Concerns = config.ConcernsKeywords
	}
	if opts.MaxTips < 1 {
		opts.MaxTips = defaultMaxTips
	}
	if opts.WorkingWordCap < 1 {
		opts.WorkingWordCap = defaultWorkingWordCap
	}
	return &Pipeline{tables: tables, src: src, opts: opts}
}

// AnalyzeJournal builds the profile for text. Empty text yields a
// *ValidationError before any source is called. Source failures degrade to
// defaults; only an unexpected panic yields an *InternalError.
func (p *Pipeline) AnalyzeJournal(ctx context.Context, text string) (result models.AnalysisResult, err error) {
	if strings.TrimSpace(text) == "" {
		return models.AnalysisResult{}, &ValidationError{Err: ErrNoText}
	}

	requestID := uuid.NewString()
	log := logging.FromContext(ctx).With(slog.String("request_id", requestID))
	ctx = logging.WithLogger(ctx, log)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("[Pipeline] Recovered from panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			result, err = models.AnalysisResult{}, &InternalError{RequestID: requestID, Detail: r}
		}
	}()

	p.transition(log, stateReceived, slog.Int("words", wordCount(text)))

	working := capWords(text, p.opts.WorkingWordCap)
	if len(working) < len(text) {
		log.Debug("[Pipeline] Working copy truncated", slog.Int("cap", p.opts.WorkingWordCap))
	}

	var (
		emotions  []models.EmotionScore
		sentiment []models.EmotionScore
		concerns  []string
		summary   string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("emotion", func() {
		emotions = p.classify(gctx, p.src.Emotion, working, sources.KindEmotion)
	}))
	g.Go(guard("sentiment", func() {
		sentiment = p.classify(gctx, p.src.Sentiment, working, sources.KindSentiment)
	}))
	g.Go(guard("concerns", func() {
		concerns = p.concerns(gctx, text, working)
	}))
	g.Go(guard("summary", func() {
		summary = p.summarize(gctx, text, working)
	}))
	p.transition(log, stateDispatched)

	if err := g.Wait(); err != nil {
		log.Error("[Pipeline] Stage failed", slog.String("error", err.Error()))
		return models.AnalysisResult{}, &InternalError{RequestID: requestID, Detail: err}
	}
	p.transition(log, stateMerged,
		slog.Int("emotions", len(emotions)),
		slog.Int("concerns", len(concerns)))

	emotions = mergeScores(emotions)
	dominant := DominantEmotions(emotions)
	result = models.AnalysisResult{
		MoodScore:    p.tables.MoodScore(emotions),
		Emotions:     emotionMap(emotions),
		CoreConcerns: concerns,
		Summary:      summary,
		GrowthTips:   p.tips(ctx, working, dominant, concerns),
		Sentiment:    sentimentPolarity(sentiment),
	}

	p.transition(log, stateComplete,
		slog.Float64("mood_score", result.MoodScore),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (p *Pipeline) transition(log *slog.Logger, s state, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("state", string(s)))
	for _, a := range attrs {
		args = append(args, a)
	}
	log.Debug("[Pipeline] State changed", args...)
}

// guard turns a panic in a stage goroutine into an error for the group.
func guard(stage string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("stage %s panicked: %v", stage, r)
			}
		}()
		fn()
		return nil
	}
}

func (p *Pipeline) classify(ctx context.Context, c sources.Classifier, text string, kind sources.Kind) []models.EmotionScore {
	attempts := []sources.Attempt[[]models.EmotionScore]{{
		Source: c.Name(),
		Run: func(ctx context.Context) ([]models.EmotionScore, error) {
			return c.Classify(ctx, text, kind)
		},
	}}
	scores, _ := sources.FirstSuccess(ctx, string(kind), attempts, []models.EmotionScore{})
	return scores
}

func (p *Pipeline) concerns(ctx context.Context, original, working string) []string {
	if p.opts.Concerns == config.ConcernsKeywords {
		return p.tables.DetectConcerns(original)
	}

	generative := sources.Attempt[[]string]{
		Source: p.src.Generator.Name(),
		Run: func(ctx context.Context) ([]string, error) {
			out, err := sources.GenerateJSON[models.GeneratedConcerns](ctx, p.src.Generator, sources.GenerateRequest{
				Instructions: concernsInstructions,
				Prompt:       working,
				Schema:       concernsSchema,
			})
			if err != nil {
				return nil, err
			}
			return normalizeConcerns(out.Concerns), nil
		},
	}

	attempts := []sources.Attempt[[]string]{generative}
	if p.opts.Concerns == config.ConcernsHybrid {
		attempts = append(attempts, sources.Attempt[[]string]{
			Source: "keywords",
			Run: func(context.Context) ([]string, error) {
				return p.tables.DetectConcerns(original), nil
			},
		})
	}
	concerns, _ := sources.FirstSuccess(ctx, "concerns", attempts, []string{})
	return concerns
}

func (p *Pipeline) tips(ctx context.Context, working string, dominant, concerns []string) []string {
	fromTables := func() []string {
		return p.tables.SelectTips(dominant, concerns, p.opts.MaxTips)
	}
	if !p.opts.GenerativeTips {
		return fromTables()
	}

	generative := sources.Attempt[[]string]{
		Source: p.src.Generator.Name(),
		Run: func(ctx context.Context) ([]string, error) {
			out, err := sources.GenerateJSON[models.GeneratedTips](ctx, p.src.Generator, sources.GenerateRequest{
				Instructions: fmt.Sprintf(tipsInstructions, p.opts.MaxTips),
				Prompt:       tipsPrompt(working, dominant, concerns),
				Schema:       tipsSchema,
			})
			if err != nil {
				return nil, err
			}
			tips := capTips(dedupe(out.Tips), p.opts.MaxTips)
			if len(tips) == 0 {
				return nil, sources.Fail(p.src.Generator.Name(), sources.ErrEmptyResult)
			}
			return tips, nil
		},
	}

	table := sources.Attempt[[]string]{
		Source: "tables",
		Run: func(context.Context) ([]string, error) {
			return fromTables(), nil
		},
	}
	tips, src := sources.FirstSuccess(ctx, "tips", []sources.Attempt[[]string]{generative, table}, nil)
	if src == sources.FallbackSource {
		return fromTables()
	}
	return tips
}

// mergeScores collapses labels that normalize to the same name, keeping the
// highest score at the position of the first occurrence. NaN, negative and
// unlabeled scores are dropped.
func mergeScores(scores []models.EmotionScore) []models.EmotionScore {
	out := make([]models.EmotionScore, 0, len(scores))
	index := make(map[string]int, len(scores))
	for _, s := range scores {
		label := normalize(s.Label)
		if label == "" || math.IsNaN(s.Score) || s.Score < 0 {
			continue
		}
		if i, ok := index[label]; ok {
			out[i].Score = max(out[i].Score, s.Score)
			continue
		}
		index[label] = len(out)
		out = append(out, models.EmotionScore{Label: label, Score: s.Score})
	}
	return out
}

func emotionMap(scores []models.EmotionScore) map[string]float64 {
	merged := mergeScores(scores)
	out := make(map[string]float64, len(merged))
	for _, s := range merged {
		out[s.Label] = s.Score
	}
	return out
}
