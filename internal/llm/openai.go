package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/larshagen/calchat/internal/instrumentation"
	"github.com/larshagen/calchat/internal/logging"
)

const retryBackoff = 500 * time.Millisecond

// OpenAIClient talks to an OpenAI-compatible chat-completion endpoint.
type OpenAIClient struct {
	api     *openai.Client
	model   string
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewOpenAIClient builds a client for the given model. baseURL may be empty
// to use the public OpenAI endpoint, or point at any compatible server.
// metrics may be nil.
func NewOpenAIClient(apiKey, baseURL, model string, logger *slog.Logger, metrics *instrumentation.Metrics) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		logger:  logger,
		metrics: metrics,
	}
}

// Complete sends the conversation and returns the model's reply. Transient
// provider failures are retried once before the error is surfaced.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toChatMessages(req.SystemPrompt, req.Messages),
		Tools:    toChatTools(req.Tools),
	}

	log := logging.WithOperation(c.logger, "llm_complete").With(logging.Model(c.model))

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		log.Warn("completion failed, retrying once", logging.Err(err))
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		resp, err = c.api.CreateChatCompletion(ctx, chatReq)
	}
	if err != nil {
		c.metrics.RecordLLMRequest(ctx, c.model, instrumentation.StatusError, time.Since(start))
		log.Error("completion failed", logging.Status(logging.StatusError), logging.Err(err))
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	c.metrics.RecordLLMRequest(ctx, c.model, instrumentation.StatusSuccess, time.Since(start))

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	completion := fromChatMessage(resp.Choices[0].Message)
	log.Debug("completion received",
		logging.Status(logging.StatusSuccess),
		logging.Duration(time.Since(start)),
		slog.Int("tool_calls", len(completion.ToolCalls)))
	return completion, nil
}

// isTransient reports whether a provider failure is worth one retry.
// Rate limits and server-side errors qualify; auth and request errors do not.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
