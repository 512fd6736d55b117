package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	cerrors "cassandra/internal/errors"
	"cassandra/internal/httpclient"
	"cassandra/internal/logging"
)

const maxResponseBytes = 4 << 20

type openAIClient struct {
	provider    string
	model       string
	apiKey      string
	baseURL     string
	temperature float64
	httpClient  *http.Client
	logger      logging.Logger
}

func newOpenAIClient(provider string, cfg Config, logger logging.Logger) *openAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("llm")
	}
	return &openAIClient{
		provider:    provider,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		temperature: temperature,
		httpClient:  httpclient.NewWithCircuitBreaker(timeout, logger, "llm-"+provider, cerrors.DefaultCircuitBreakerConfig()),
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends one non-streaming chat completion. There are no retries.
func (c *openAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logger := logging.FromContext(ctx, c.logger)
	logger.Debug("POST %s model=%s max_tokens=%d", endpoint, c.model, maxTokens)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", c.provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := httpclient.ReadAllWithLimit(resp.Body, maxResponseBytes)
	if err != nil {
		return "", fmt.Errorf("%s read response: %w", c.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", cerrors.FromHTTPStatus(resp.StatusCode, string(data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%s decode response: %w", c.provider, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.provider)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	logger.Debug("%s completion: %d chars, finish=%s, usage=%d+%d",
		c.provider, len(content), parsed.Choices[0].FinishReason,
		parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	return content, nil
}
