package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConcernsSource selects how core concerns are produced.
type ConcernsSource string

const (
	ConcernsKeywords   ConcernsSource = "keywords"
	ConcernsGenerative ConcernsSource = "generative"
	ConcernsHybrid     ConcernsSource = "hybrid"
)

type Settings struct {
	Env      string
	HTTPAddr string

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	GenerativeTimeout time.Duration

	SummarizerURL     string
	SummarizerTimeout time.Duration

	EmotionModelPath           string
	EmotionFallbackModelPath   string
	SentimentModelPath         string
	SentimentFallbackModelPath string
	ModelDownloadDir           string

	ConcernsSource ConcernsSource
	GenerativeTips bool
	TablesPath     string
	MaxTips        int
	WorkingWordCap int

	ValkeyAddress      string
	ValkeyPassword     string
	ValkeyTLS          bool
	GenerativeCacheTTL time.Duration

	HealthcheckInterval time.Duration
}

// FromEnv builds Settings from the process environment. Malformed values fall
// back to their defaults with a warning; only unknown enum values are errors.
func FromEnv() (Settings, error) {
	s := Settings{
		Env:      AppEnv(),
		HTTPAddr: stringOr("HTTP_ADDR", ":5000"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       stringOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		GenerativeTimeout: durationOr("GENERATIVE_TIMEOUT", 30*time.Second),

		SummarizerURL:     os.Getenv("SUMMARIZER_URL"),
		SummarizerTimeout: durationOr("SUMMARIZER_TIMEOUT", 30*time.Second),

		EmotionModelPath:           os.Getenv("EMOTION_MODEL_PATH"),
		EmotionFallbackModelPath:   os.Getenv("EMOTION_FALLBACK_MODEL_PATH"),
		SentimentModelPath:         os.Getenv("SENTIMENT_MODEL_PATH"),
		SentimentFallbackModelPath: os.Getenv("SENTIMENT_FALLBACK_MODEL_PATH"),
		ModelDownloadDir:           os.Getenv("MODEL_DOWNLOAD_DIR"),

		ConcernsSource: ConcernsSource(strings.ToLower(stringOr("CONCERNS_SOURCE", string(ConcernsKeywords)))),
		GenerativeTips: boolOr("GENERATIVE_TIPS", false),
		TablesPath:     os.Getenv("ANALYSIS_TABLES_PATH"),
		MaxTips:        intOr("MAX_TIPS", 7),
		WorkingWordCap: intOr("WORKING_WORD_CAP", 500),

		ValkeyAddress:      os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword:     os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:          boolOr("VALKEY_TLS", false),
		GenerativeCacheTTL: durationOr("GENERATIVE_CACHE_TTL", 24*time.Hour),

		HealthcheckInterval: durationOr("HEALTHCHECK_INTERVAL", 15*time.Second),
	}

	switch s.ConcernsSource {
	case ConcernsKeywords, ConcernsGenerative, ConcernsHybrid:
	default:
		return s, fmt.Errorf("invalid CONCERNS_SOURCE %q", s.ConcernsSource)
	}
	if s.MaxTips < 1 {
		slog.Warn("[Config] MAX_TIPS must be positive, using 7", slog.Int("value", s.MaxTips))
		s.MaxTips = 7
	}
	if s.WorkingWordCap < 1 {
		slog.Warn("[Config] WORKING_WORD_CAP must be positive, using 500", slog.Int("value", s.WorkingWordCap))
		s.WorkingWordCap = 500
	}
	if s.GenerativeCacheTTL < time.Second {
		slog.Warn("[Config] GENERATIVE_CACHE_TTL below one second, using 1s",
			slog.Duration("value", s.GenerativeCacheTTL))
		s.GenerativeCacheTTL = time.Second
	}

	return s, nil
}

func stringOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", def))
		return def
	}
	return d
}

func intOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", def))
		return def
	}
	return n
}

func boolOr(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("[Config] Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Bool("default", def))
		return def
	}
	return b
}
