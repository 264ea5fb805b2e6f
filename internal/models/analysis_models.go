package models

// AnalysisRequest is the body of POST /analyze_journal.
type AnalysisRequest struct {
	Text string `json:"text"`
}

// EmotionScore is one labeled score returned by a classifier source.
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentSummary is the polarity of the top sentiment label:
// negative maps to -score, positive to +score, neutral to 0.
type SentimentSummary struct {
	Label    string  `json:"label"`
	Polarity float64 `json:"polarity"`
}

// AnalysisResult is the emotional profile for one journal entry. It is built
// once by the pipeline and not mutated after it is returned.
type AnalysisResult struct {
	MoodScore    float64            `json:"moodScore"`
	Emotions     map[string]float64 `json:"emotions"`
	CoreConcerns []string           `json:"coreConcerns"`
	Summary      string             `json:"summary"`
	GrowthTips   []string           `json:"growthTips"`
	Sentiment    SentimentSummary   `json:"sentiment"`
}
