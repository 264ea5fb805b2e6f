package sentiment

import (
	"context"
	"testing"

	"github.com/spacesedan/mindmirror/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToText(t *testing.T) {
	t.Parallel()

	in := "# Today\n\nI read [this post](https://example.com/a) and felt **great**. See www.example.com too."
	got := ConvertMarkdownToText(in)

	assert.Equal(t, "Today I read this post and felt great. See too.", got)
}

func TestVaderClassify(t *testing.T) {
	t.Parallel()

	v := NewVaderClassifier()

	t.Run("positive", func(t *testing.T) {
		t.Parallel()
		scores, err := v.Classify(context.Background(), "I am so happy and grateful, today was wonderful!", sources.KindSentiment)
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, "positive", scores[0].Label)
		assert.Greater(t, scores[0].Score, 0.2)
		assert.LessOrEqual(t, scores[0].Score, 1.0)
	})

	t.Run("negative", func(t *testing.T) {
		t.Parallel()
		scores, err := v.Classify(context.Background(), "I feel terrible, sad and hopeless. Everything is awful.", sources.KindSentiment)
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, "negative", scores[0].Label)
		assert.Greater(t, scores[0].Score, 0.2)
	})

	t.Run("emotion kind unsupported", func(t *testing.T) {
		t.Parallel()
		_, err := v.Classify(context.Background(), "anything", sources.KindEmotion)
		assert.ErrorIs(t, err, sources.ErrUnsupportedKind)
	})

	t.Run("markup only is empty", func(t *testing.T) {
		t.Parallel()
		_, err := v.Classify(context.Background(), "https://example.com", sources.KindSentiment)
		assert.ErrorIs(t, err, sources.ErrEmptyResult)
	})
}

func TestAnalyzeCompound(t *testing.T) {
	t.Parallel()

	score, label := analyzeCompound(0.5)
	assert.Equal(t, "positive", label)
	assert.InDelta(t, 0.5, score, 1e-9)

	score, label = analyzeCompound(-0.8)
	assert.Equal(t, "negative", label)
	assert.InDelta(t, 0.8, score, 1e-9)

	score, label = analyzeCompound(0.1)
	assert.Equal(t, "neutral", label)
	assert.InDelta(t, 0.9, score, 1e-9)
}
