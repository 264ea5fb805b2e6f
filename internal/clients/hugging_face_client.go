package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
)

// HuggingFaceClient talks to a self-hosted summarization endpoint (a
// transformers pipeline behind HTTP). It does not retry.
type HuggingFaceClient struct {
	Client    *http.Client
	endpoint  string
	healthURL string
}

// NewSummarizer returns an unavailable summarizer when endpoint is empty.
func NewSummarizer(endpoint string, timeout time.Duration) sources.Summarizer {
	if endpoint == "" {
		return sources.NewUnavailableSummarizer(summarizerSourceName, "SUMMARIZER_URL not configured")
	}
	c, err := NewHuggingFaceClient(endpoint, timeout)
	if err != nil {
		slog.Error("[HuggingFaceClient] Invalid summarizer endpoint",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return sources.NewUnavailableSummarizer(summarizerSourceName, err.Error())
	}
	return c
}

func NewHuggingFaceClient(endpoint string, timeout time.Duration) (*HuggingFaceClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid summarizer endpoint %q", endpoint)
	}
	if timeout <= 0 {
		timeout = summarizerRequestTimeout
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", timeout))

	return &HuggingFaceClient{
		Client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		healthURL: u.Scheme + "://" + u.Host + "/",
	}, nil
}

func (h *HuggingFaceClient) Name() string { return summarizerSourceName }

func (h *HuggingFaceClient) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	input := models.SummaryRequest{
		Inputs: text,
		Parameters: models.SummaryParameters{
			MinLength: minWords,
			MaxLength: maxWords,
		},
	}

	start := time.Now()
	raw, err := h.postJSON(ctx, h.endpoint, input)
	if err != nil {
		return "", sources.Fail(summarizerSourceName, err)
	}

	summary, err := decodeSummary(raw)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()),
			getPreview(raw),
			slog.Int("raw_response_length", len(raw)))
		return "", sources.Fail(summarizerSourceName, fmt.Errorf("%w: %v", sources.ErrMalformed, err))
	}
	if summary == "" {
		return "", sources.Fail(summarizerSourceName, sources.ErrEmptyResult)
	}

	slog.Info("[HuggingFaceClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// HealthCheck reports whether the summarizer host answers without a 5xx.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.healthURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < http.StatusInternalServerError
}

// decodeSummary accepts {"summary": "..."} and [{"summary_text": "..."}].
func decodeSummary(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.GeneratedSummary
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "", nil
		}
		return strings.TrimSpace(list[0].SummaryText), nil
	}

	var single models.SummaryResponse
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return "", err
	}
	return strings.TrimSpace(single.Summary), nil
}

// helper function for posting data to the self-hosted AI services
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input any) ([]byte, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return nil, fmt.Errorf("unexpected status: %s", errMsg(nil, resp))
	}

	return respBody, nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
