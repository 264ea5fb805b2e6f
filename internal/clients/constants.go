package clients

import "time"

const (
	USER_AGENT = "mindmirror-client/1.0 (+https://github.com/spacesedan/mindmirror)"

	openAISourceName     = "openai"
	openAIRequestTimeout = 30 * time.Second
	openAIMaxOutput      = 800

	summarizerSourceName     = "self-hosted-summarizer"
	summarizerRequestTimeout = 30 * time.Second
)
