package analysis

import (
	"math"

	"github.com/spacesedan/mindmirror/internal/models"
)

// MoodScore is the score-weighted average of the label weights, in [-1, 1].
// With no usable scores it is exactly 0.
func (t *Tables) MoodScore(scores []models.EmotionScore) float64 {
	var weighted, total float64
	for _, s := range mergeScores(scores) {
		if s.Score == 0 {
			continue
		}
		weighted += s.Score * t.Weight(s.Label)
		total += s.Score
	}
	if total <= 0 || math.IsInf(total, 0) {
		return 0.0
	}
	return clamp(weighted/total, -1, 1)
}

// sentimentPolarity maps the top sentiment label to a signed score.
func sentimentPolarity(scores []models.EmotionScore) models.SentimentSummary {
	top, ok := topScore(scores)
	if !ok {
		return models.SentimentSummary{Label: "neutral", Polarity: 0}
	}
	switch normalize(top.Label) {
	case "negative":
		return models.SentimentSummary{Label: "negative", Polarity: -clamp(top.Score, 0, 1)}
	case "positive":
		return models.SentimentSummary{Label: "positive", Polarity: clamp(top.Score, 0, 1)}
	default:
		return models.SentimentSummary{Label: "neutral", Polarity: 0}
	}
}

func topScore(scores []models.EmotionScore) (models.EmotionScore, bool) {
	var best models.EmotionScore
	found := false
	for _, s := range scores {
		if math.IsNaN(s.Score) {
			continue
		}
		if !found || s.Score > best.Score {
			best, found = s, true
		}
	}
	return best, found
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
