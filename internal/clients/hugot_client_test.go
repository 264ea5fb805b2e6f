package clients

import (
	"context"
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		kind  sources.Kind
		want  string
	}{
		{"LABEL_0", sources.KindSentiment, "negative"},
		{"LABEL_1", sources.KindSentiment, "neutral"},
		{"LABEL_2", sources.KindSentiment, "positive"},
		{"POSITIVE", sources.KindSentiment, "positive"},
		{" Negative ", sources.KindSentiment, "negative"},
		{"joy", sources.KindSentiment, ""},
		{"Sadness", sources.KindEmotion, "sadness"},
		{"LABEL_3", sources.KindEmotion, "label_3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLabel(tt.label, tt.kind), "%s/%s", tt.kind, tt.label)
	}
}

func TestLoadClassifierWithoutModelsIsUnavailable(t *testing.T) {
	t.Parallel()

	var s *HugotSession
	c := s.LoadClassifier("emotion-model", sources.KindEmotion, ModelSpec{Path: "/does/not/exist"})
	assert.True(t, sources.IsUnavailable(c))

	_, err := c.Classify(context.Background(), "text", sources.KindEmotion)
	assert.ErrorIs(t, err, sources.ErrUnavailable)
}

func TestLoadClassifierSkipsMissingPaths(t *testing.T) {
	t.Parallel()

	s := &HugotSession{}
	c := s.LoadClassifier("sentiment-model", sources.KindSentiment,
		ModelSpec{Path: t.TempDir() + "/missing"},
		ModelSpec{},
	)
	assert.True(t, sources.IsUnavailable(c))
}

func TestPipelineOptions(t *testing.T) {
	t.Parallel()

	apply := func(kind sources.Kind) *pipelines.TextClassificationPipeline {
		p := &pipelines.TextClassificationPipeline{}
		for _, o := range pipelineOptions(kind) {
			o(p)
		}
		return p
	}

	emotion := apply(sources.KindEmotion)
	assert.Equal(t, "multiLabel", emotion.ProblemType)
	assert.Equal(t, "SIGMOID", emotion.AggregationFunctionName)

	sentiment := apply(sources.KindSentiment)
	assert.Equal(t, "singleLabel", sentiment.ProblemType)
	assert.Equal(t, "SOFTMAX", sentiment.AggregationFunctionName)
}

func TestToEmotionScores(t *testing.T) {
	t.Parallel()

	t.Run("emotion keeps the five strongest labels in order", func(t *testing.T) {
		raw := []pipelines.ClassificationOutput{
			{Label: "admiration", Score: 0.01},
			{Label: "Sadness", Score: 0.5},
			{Label: "joy", Score: 0.25},
			{Label: "fear", Score: 0.125},
			{Label: "anger", Score: 0.0625},
			{Label: "neutral", Score: 0.75},
			{Label: "grief", Score: 0.03125},
		}

		got := toEmotionScores(raw, sources.KindEmotion)
		assert.Equal(t, []models.EmotionScore{
			{Label: "neutral", Score: 0.75},
			{Label: "sadness", Score: 0.5},
			{Label: "joy", Score: 0.25},
			{Label: "fear", Score: 0.125},
			{Label: "anger", Score: 0.0625},
		}, got)
	})

	t.Run("sentiment drops unknown labels", func(t *testing.T) {
		raw := []pipelines.ClassificationOutput{
			{Label: "LABEL_0", Score: 0.25},
			{Label: "other", Score: 0.9},
			{Label: "LABEL_2", Score: 0.5},
		}

		got := toEmotionScores(raw, sources.KindSentiment)
		assert.Equal(t, []models.EmotionScore{
			{Label: "positive", Score: 0.5},
			{Label: "negative", Score: 0.25},
		}, got)
	})

	t.Run("no outputs", func(t *testing.T) {
		assert.Empty(t, toEmotionScores(nil, sources.KindEmotion))
	})
}
