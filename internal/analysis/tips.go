package analysis

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/spacesedan/mindmirror/internal/models"
)

const (
	dominantCount     = 3
	dominantThreshold = 0.1
	minTableTips      = 2
)

// DominantEmotions returns up to three labels by descending score, keeping
// only scores above 0.1. Ties keep source order.
func DominantEmotions(scores []models.EmotionScore) []string {
	sorted := mergeScores(scores)
	slices.SortStableFunc(sorted, func(a, b models.EmotionScore) int {
		return cmp.Compare(b.Score, a.Score)
	})

	out := make([]string, 0, dominantCount)
	for _, s := range sorted {
		if len(out) == dominantCount {
			break
		}
		if math.IsNaN(s.Score) || s.Score <= dominantThreshold {
			continue
		}
		out = append(out, s.Label)
	}
	return out
}

// SelectTips collects table tips for the dominant emotions then the concerns.
// With fewer than two tips a generic tip chosen by valence is added. The
// result is deduplicated and holds between 1 and maxTips entries.
func (t *Tables) SelectTips(dominant, concerns []string, maxTips int) []string {
	var tips []string
	for _, label := range dominant {
		tips = append(tips, t.emotionTips[normalize(label)]...)
	}
	for _, c := range concerns {
		tips = append(tips, t.concernTips[normalize(c)]...)
	}
	if len(tips) < minTableTips {
		tips = append(tips, t.genericTip(dominant))
	}
	return capTips(dedupe(tips), maxTips)
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func capTips(tips []string, maxTips int) []string {
	if maxTips < 1 {
		maxTips = defaultMaxTips
	}
	if len(tips) > maxTips {
		return tips[:maxTips]
	}
	return tips
}
