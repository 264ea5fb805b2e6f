package models

// GeneratedConcerns is the structured reply for a concerns request.
type GeneratedConcerns struct {
	Concerns []string `json:"concerns" jsonschema:"required,description=Short lower-case concern categories such as work or financial"`
}

// GeneratedTips is the structured reply for a growth tips request.
type GeneratedTips struct {
	Tips []string `json:"tips" jsonschema:"required,description=Concrete one-sentence growth tips"`
}
