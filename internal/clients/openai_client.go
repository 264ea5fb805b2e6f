package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/spacesedan/mindmirror/internal/sources"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient is the generative source backed by the Responses API. The
// SDK's own retries are disabled: every Generate call is a single attempt.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIGenerator returns an unavailable generator when no API key is
// configured so the service can still start.
func NewOpenAIGenerator(cfg OpenAIConfig) sources.Generator {
	if cfg.APIKey == "" {
		slog.Warn("[OpenAIClient] Missing OPENAI_API_KEY, generative source disabled")
		return sources.NewUnavailableGenerator(openAISourceName, "missing OPENAI_API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = openAIRequestTimeout
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

func (c *OpenAIClient) Name() string { return openAISourceName }

func (c *OpenAIClient) Generate(ctx context.Context, req sources.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(openAIMaxOutput),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        req.Schema.Name,
					Schema:      req.Schema.Definition,
					Strict:      openai.Bool(true),
					Description: openai.String(req.Schema.Description),
					Type:        "json_schema",
				},
			},
		}
	}

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", sources.Fail(openAISourceName, fmt.Errorf("responses request: %w", err))
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", sources.Fail(openAISourceName, sources.ErrEmptyResult)
	}

	slog.Debug("[OpenAIClient] Generation complete",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("output_length", len(text)))
	return text, nil
}
