package sentiment

import (
	"context"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
)

const vaderSourceName = "vader"

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting HTML tags
// and links, collapsing whitespace.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(output), ""))
	return strings.Join(strings.Fields(plain), " ")
}

// VaderClassifier is a lexicon based sentiment source. It needs no model
// files and is safe for concurrent use, so it anchors the sentiment chain.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Name() string { return vaderSourceName }

// Classify returns a single negative, neutral or positive label derived
// from VADER's compound score. Polar labels carry the compound magnitude,
// neutral carries its complement.
func (v *VaderClassifier) Classify(_ context.Context, text string, kind sources.Kind) ([]models.EmotionScore, error) {
	if kind != sources.KindSentiment {
		return nil, sources.ErrUnsupportedKind
	}

	plain := ConvertMarkdownToText(text)
	if plain == "" {
		return nil, sources.ErrEmptyResult
	}

	score, label := analyzeCompound(v.analyzer.PolarityScores(plain).Compound)
	return []models.EmotionScore{{Label: label, Score: score}}, nil
}

func analyzeCompound(compound float64) (float64, string) {
	switch {
	case compound >= 0.20:
		return compound, "positive"
	case compound <= -0.20:
		return -compound, "negative"
	default:
		return 1 - math.Abs(compound), "neutral"
	}
}
