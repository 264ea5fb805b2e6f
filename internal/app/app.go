// Package app wires configured signal sources into the analysis pipeline.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/spacesedan/mindmirror/config"
	"github.com/spacesedan/mindmirror/internal/analysis"
	"github.com/spacesedan/mindmirror/internal/clients"
	"github.com/spacesedan/mindmirror/internal/monitoring"
	"github.com/spacesedan/mindmirror/internal/sentiment"
	"github.com/spacesedan/mindmirror/internal/sources"
)

// Hugging Face repos fetched when MODEL_DOWNLOAD_DIR is set and the
// configured model directory is missing.
const (
	defaultEmotionRepo   = "SamLowe/roberta-base-go_emotions-onnx"
	defaultSentimentRepo = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"
)

type App struct {
	Settings config.Settings
	Pipeline *analysis.Pipeline

	emotion    sources.Classifier
	sentiment  sources.Classifier
	generator  sources.Generator
	summarizer sources.Summarizer

	healthChecker     monitoring.HealthChecker
	summarizerHealthy *atomic.Bool

	session *clients.HugotSession
	valkey  *clients.ValkeyClient
	wg      sync.WaitGroup
}

// New builds every source from s. Only invalid analysis tables are fatal;
// any source that cannot be set up is replaced by an unavailable one.
func New(s config.Settings) (*App, error) {
	tables, err := analysis.LoadTables(s.TablesPath)
	if err != nil {
		return nil, err
	}

	a := &App{Settings: s, summarizerHealthy: &atomic.Bool{}}
	a.summarizerHealthy.Store(true)

	session, err := clients.NewHugotSession(s.ModelDownloadDir)
	if err != nil {
		slog.Error("[App] Hugot session unavailable, local classifiers disabled",
			slog.String("error", err.Error()))
	}
	a.session = session

	a.emotion = sources.NewClassifierChain("emotion",
		a.session.LoadClassifier("emotion-model", sources.KindEmotion,
			a.modelSpec(s.EmotionModelPath, defaultEmotionRepo),
			clients.ModelSpec{Path: s.EmotionFallbackModelPath},
		),
	)
	a.sentiment = sources.NewClassifierChain("sentiment",
		a.session.LoadClassifier("sentiment-model", sources.KindSentiment,
			a.modelSpec(s.SentimentModelPath, defaultSentimentRepo),
			clients.ModelSpec{Path: s.SentimentFallbackModelPath},
		),
		sentiment.NewVaderClassifier(),
	)

	a.generator = a.buildGenerator(s)
	a.summarizer = a.buildSummarizer(s)

	a.Pipeline = analysis.NewPipeline(tables, analysis.Sources{
		Emotion:    a.emotion,
		Sentiment:  a.sentiment,
		Generator:  a.generator,
		Summarizer: a.summarizer,
	}, analysis.Options{
		Concerns:       s.ConcernsSource,
		GenerativeTips: s.GenerativeTips,
		MaxTips:        s.MaxTips,
		WorkingWordCap: s.WorkingWordCap,
	})

	slog.Info("[App] Sources initialized", slog.Any("status", a.Status()))
	return a, nil
}

func (a *App) modelSpec(path, repo string) clients.ModelSpec {
	spec := clients.ModelSpec{Path: path}
	if a.Settings.ModelDownloadDir != "" {
		spec.Repo = repo
	}
	return spec
}

func (a *App) buildGenerator(s config.Settings) sources.Generator {
	gen := clients.NewOpenAIGenerator(clients.OpenAIConfig{
		APIKey:  s.OpenAIAPIKey,
		Model:   s.OpenAIModel,
		BaseURL: s.OpenAIBaseURL,
		Timeout: s.GenerativeTimeout,
	})
	if sources.IsUnavailable(gen) || s.ValkeyAddress == "" {
		return gen
	}

	vc, err := clients.NewValkeyClient(clients.ValkeyConfig{
		Address:  s.ValkeyAddress,
		Password: s.ValkeyPassword,
		TLS:      s.ValkeyTLS,
	})
	if err != nil {
		slog.Warn("[App] Generative cache disabled", slog.String("error", err.Error()))
		return gen
	}
	a.valkey = vc
	return clients.NewCachedGenerator(gen, vc, s.GenerativeCacheTTL)
}

func (a *App) buildSummarizer(s config.Settings) sources.Summarizer {
	sum := clients.NewSummarizer(s.SummarizerURL, s.SummarizerTimeout)
	checker, ok := sum.(monitoring.HealthChecker)
	if !ok {
		return sum
	}
	a.healthChecker = checker
	return monitoring.GuardSummarizer(sum, a.summarizerHealthy)
}

// Start launches background health monitoring until ctx is done.
func (a *App) Start(ctx context.Context) {
	if a.healthChecker == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		monitoring.MonitorHealth(ctx, a.healthChecker, a.summarizerHealthy, a.Settings.HealthcheckInterval)
	}()
}

// Status reports which sources can currently serve requests.
func (a *App) Status() map[string]bool {
	return map[string]bool{
		"emotion":    !allUnavailable(a.emotion),
		"sentiment":  !allUnavailable(a.sentiment),
		"generative": !sources.IsUnavailable(a.generator),
		"summarizer": a.healthChecker != nil && a.summarizerHealthy.Load(),
		"cache":      a.valkey != nil,
	}
}

func allUnavailable(c sources.Classifier) bool {
	if chain, ok := c.(*sources.ClassifierChain); ok {
		for _, member := range chain.Members() {
			if !sources.IsUnavailable(member) {
				return false
			}
		}
		return true
	}
	return sources.IsUnavailable(c)
}

// Close waits for background work started with a cancelled Start context and
// releases the model session and cache connection.
func (a *App) Close() {
	a.wg.Wait()
	a.valkey.Close()
	a.session.Destroy()
}
