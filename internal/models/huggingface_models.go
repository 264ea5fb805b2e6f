package models

// SummaryRequest is the body sent to the self-hosted summarization endpoint.
type SummaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters SummaryParameters `json:"parameters"`
}

// SummaryParameters bounds the generated summary, in words.
type SummaryParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

// SummaryResponse is the single-object reply shape.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// GeneratedSummary is one element of the list reply shape used by
// transformers-style endpoints.
type GeneratedSummary struct {
	SummaryText string `json:"summary_text"`
}
