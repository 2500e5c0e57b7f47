// Package openai implements the business classifier over an OpenAI-compatible chat API
// (Gemini's compatibility endpoint by default).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/classification"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/metrics"
)

// Classification outcomes recorded in metrics.
const (
	outcomeAccepted    = "accepted"
	outcomeEmpty       = "empty"
	outcomeUnavailable = "unavailable"
)

// Classifier judges which candidates are independent businesses.
type Classifier struct {
	client      *openai.Client
	model       string
	temperature float32
	configured  bool
	logger      *zap.Logger
	usage       TokenRecorder
}

// Config holds the classifier provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
	// Usage receives the total tokens of every completed call. Optional.
	Usage TokenRecorder
}

// TokenRecorder accumulates classifier token spend.
type TokenRecorder interface {
	Record(tokens int64)
}

// NewClassifier creates a classifier client.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		configured:  cfg.APIKey != "",
		logger:      logger,
		usage:       cfg.Usage,
	}
}

// Configured reports whether an API key is set.
func (c *Classifier) Configured() bool { return c.configured }

// Classify sends one chat completion and extracts the accepted local indices.
// Every failure (transport, status, empty or unparsable reply) wraps
// domain.ErrClassifierUnavailable. An empty Result is a successful outcome.
func (c *Classifier) Classify(
	ctx context.Context, query string, candidates []place.Candidate,
) (classification.Result, error) {
	if !c.configured {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, outcomeUnavailable).Inc()
		return classification.Result{}, fmt.Errorf("api key is not configured: %w", domain.ErrClassifierUnavailable)
	}

	prompt, err := classification.NewRequest(query, candidates).UserPrompt()
	if err != nil {
		return classification.Result{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classification.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	metrics.ClassifierRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, outcomeUnavailable).Inc()
		return classification.Result{}, parseAPIError(err)
	}

	if resp.Usage.TotalTokens > 0 {
		metrics.ClassifierTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ClassifierTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		if c.usage != nil {
			c.usage.Record(int64(resp.Usage.TotalTokens))
		}
	}

	if len(resp.Choices) == 0 {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, outcomeUnavailable).Inc()
		return classification.Result{}, fmt.Errorf("empty completion: %w", domain.ErrClassifierUnavailable)
	}

	text := resp.Choices[0].Message.Content
	result, err := classification.Parse(text)
	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues(c.model, outcomeUnavailable).Inc()
		c.logger.Debug("unparsable classifier reply", zap.String("reply", truncate(text, 200)))
		return classification.Result{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	outcome := outcomeAccepted
	if result.Len() == 0 {
		outcome = outcomeEmpty
	}
	metrics.ClassifierRequestsTotal.WithLabelValues(c.model, outcome).Inc()
	return result, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrClassifierUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrClassifierUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("classifier API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("classifier API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("classifier API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("classifier request timed out: %w: %w", wrap, context.DeadlineExceeded)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("classifier request canceled: %w: %w", wrap, context.Canceled)
	}
	return fmt.Errorf("classifier request failed: %w", wrap)
}

// extractDetail pulls a message out of a JSON error body. Gemini returns a
// list of {"error": {...}} objects, OpenAI-style servers return {"detail": "..."}.
func extractDetail(body []byte) string {
	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		return detail.Detail
	}
	var list []struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &list) == nil && len(list) > 0 && list[0].Error.Message != "" {
		return list[0].Error.Message
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
