package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-secops/internal/infra/ai/prompt"
)

const (
	defaultModel = "google/gemini-2.5-pro"
	// NoContent replaces an empty or missing completion.
	NoContent = "No content generated"
)

// Gateway talks to an OpenAI-compatible chat completions endpoint.
type Gateway struct {
	client  *openai.Client
	model   string
	prompts analysis.PromptLibrary
}

type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Prompts analysis.PromptLibrary
}

func NewGateway(opts Options) *Gateway {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	prompts := opts.Prompts
	if prompts == nil {
		prompts = prompt.Library{}
	}
	return &Gateway{client: openai.NewClientWithConfig(cfg), model: model, prompts: prompts}
}

// Analyze sends one non-streaming request: the category's system prompt and
// the raw content as the user turn. No retries.
func (g *Gateway) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.prompts.PromptFor(req.Category)},
			{Role: openai.ChatMessageRoleUser, Content: req.RawContent},
		},
		Stream: false,
	})
	if err != nil {
		return analysis.Result{}, classify(ctx, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return analysis.Result{Content: NoContent}, nil
	}
	return analysis.Result{Content: resp.Choices[0].Message.Content}, nil
}

func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ai gateway call aborted: %w", ctxErr)
	}

	status, body := 0, err.Error()
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, body = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
		if len(reqErr.Body) > 0 {
			body = string(reqErr.Body)
		}
	}

	switch status {
	case http.StatusTooManyRequests:
		return analysis.ErrRateLimited
	case http.StatusPaymentRequired:
		return analysis.ErrQuotaExhausted
	}
	return &analysis.GatewayError{StatusCode: status, Body: body}
}
