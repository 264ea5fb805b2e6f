package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
)

// ModelSpec names a text-classification model. Path is a local directory
// holding the ONNX export; Repo is the Hugging Face repo used to fetch it
// when Path is missing and downloads are enabled.
type ModelSpec struct {
	Path string
	Repo string
}

// HugotSession owns the inference session shared by every loaded pipeline.
type HugotSession struct {
	session     *hugot.Session
	downloadDir string
}

// NewHugotSession needs the onnxruntime shared library; without it the
// session fails and the local classifiers are reported unavailable.
func NewHugotSession(downloadDir string) (*HugotSession, error) {
	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}
	return &HugotSession{session: session, downloadDir: downloadDir}, nil
}

func (s *HugotSession) Destroy() {
	if s == nil || s.session == nil {
		return
	}
	if err := s.session.Destroy(); err != nil {
		slog.Warn("[HugotClient] Failed to destroy session", slog.String("error", err.Error()))
	}
}

// LoadClassifier loads the first model in specs that loads successfully,
// mirroring a primary/fallback model setup. If none loads the returned
// classifier is unavailable rather than an error.
func (s *HugotSession) LoadClassifier(name string, kind sources.Kind, specs ...ModelSpec) sources.Classifier {
	if s == nil {
		return sources.NewUnavailableClassifier(name, "hugot session not initialized")
	}

	attempts := make([]sources.Attempt[*pipelines.TextClassificationPipeline], 0, len(specs))
	for i, spec := range specs {
		if spec.Path == "" && spec.Repo == "" {
			continue
		}
		pipelineName := fmt.Sprintf("%s-%d", name, i)
		attempts = append(attempts, sources.Attempt[*pipelines.TextClassificationPipeline]{
			Source: spec.label(),
			Run: func(context.Context) (*pipelines.TextClassificationPipeline, error) {
				return s.loadPipeline(pipelineName, kind, spec)
			},
		})
	}

	pipeline, source, err := sources.Try(context.Background(), "load."+name, attempts)
	if err != nil {
		slog.Error("[HugotClient] No model could be loaded",
			slog.String("classifier", name),
			slog.String("error", err.Error()))
		return sources.NewUnavailableClassifier(name, "no model could be loaded")
	}

	slog.Info("[HugotClient] Model loaded",
		slog.String("classifier", name),
		slog.String("model", source))
	return &HugotClassifier{name: name, kind: kind, pipeline: pipeline}
}

// emotionTopK bounds how many emotion labels a single entry reports.
const emotionTopK = 5

func (s *HugotSession) loadPipeline(name string, kind sources.Kind, spec ModelSpec) (*pipelines.TextClassificationPipeline, error) {
	path, err := s.resolve(spec)
	if err != nil {
		return nil, err
	}

	config := hugot.TextClassificationConfig{
		ModelPath: path,
		Name:      name,
		Options:   pipelineOptions(kind),
	}
	pipeline, err := hugot.NewPipeline(s.session, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline from %s: %w", path, err)
	}
	return pipeline, nil
}

// pipelineOptions scores every emotion label independently so the full
// distribution comes back; sentiment keeps a single softmax winner.
func pipelineOptions(kind sources.Kind) []hugot.TextClassificationOption {
	if kind == sources.KindEmotion {
		return []hugot.TextClassificationOption{
			pipelines.WithMultiLabel(),
			pipelines.WithSigmoid(),
		}
	}
	return []hugot.TextClassificationOption{
		pipelines.WithSingleLabel(),
		pipelines.WithSoftmax(),
	}
}

func (s *HugotSession) resolve(spec ModelSpec) (string, error) {
	if spec.Path != "" {
		if _, err := os.Stat(spec.Path); err == nil {
			return spec.Path, nil
		}
	}
	if spec.Repo == "" || s.downloadDir == "" {
		return "", fmt.Errorf("model not found at %q and downloads disabled", spec.Path)
	}

	if err := os.MkdirAll(s.downloadDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	local := filepath.Join(s.downloadDir, strings.ReplaceAll(spec.Repo, "/", "_"))
	if _, err := os.Stat(local); err == nil {
		slog.Info("[HugotClient] Using existing model", slog.String("path", local))
		return local, nil
	}

	slog.Info("[HugotClient] Model not found, downloading...", slog.String("repo", spec.Repo))
	path, err := hugot.DownloadModel(spec.Repo, s.downloadDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", spec.Repo, err)
	}
	slog.Info("[HugotClient] Model downloaded successfully", slog.String("path", path))
	return path, nil
}

func (m ModelSpec) label() string {
	if m.Path != "" {
		return m.Path
	}
	return m.Repo
}

// HugotClassifier serializes calls into its pipeline; inference on a shared
// pipeline is not safe for concurrent use.
type HugotClassifier struct {
	name     string
	kind     sources.Kind
	mu       sync.Mutex
	pipeline *pipelines.TextClassificationPipeline
}

func (h *HugotClassifier) Name() string { return h.name }

func (h *HugotClassifier) Classify(ctx context.Context, text string, kind sources.Kind) ([]models.EmotionScore, error) {
	if kind != h.kind {
		return nil, sources.ErrUnsupportedKind
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline([]string{text})
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if output == nil || len(output.ClassificationOutputs) == 0 {
		return nil, sources.ErrEmptyResult
	}

	raw := output.ClassificationOutputs[0]
	scores := toEmotionScores(raw, kind)
	if len(scores) == 0 {
		return nil, errors.Join(sources.ErrEmptyResult, fmt.Errorf("no recognized labels in %d outputs", len(raw)))
	}
	return scores, nil
}

// toEmotionScores normalizes labels and orders scores highest first. Emotion
// output is cut to the emotionTopK strongest labels.
func toEmotionScores(raw []pipelines.ClassificationOutput, kind sources.Kind) []models.EmotionScore {
	scores := make([]models.EmotionScore, 0, len(raw))
	for _, o := range raw {
		label := NormalizeLabel(o.Label, kind)
		if label == "" {
			continue
		}
		scores = append(scores, models.EmotionScore{Label: label, Score: float64(o.Score)})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if kind == sources.KindEmotion && len(scores) > emotionTopK {
		scores = scores[:emotionTopK]
	}
	return scores
}

// sentimentLabels maps raw model labels onto negative/neutral/positive.
// LABEL_n comes from cardiffnlp style exports without an id2label table.
var sentimentLabels = map[string]string{
	"label_0":  "negative",
	"label_1":  "neutral",
	"label_2":  "positive",
	"negative": "negative",
	"neutral":  "neutral",
	"positive": "positive",
	"neg":      "negative",
	"neu":      "neutral",
	"pos":      "positive",
}

// NormalizeLabel lower-cases a model label. Sentiment labels outside the
// closed negative/neutral/positive set return "".
func NormalizeLabel(label string, kind sources.Kind) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if kind == sources.KindSentiment {
		return sentimentLabels[l]
	}
	return l
}
