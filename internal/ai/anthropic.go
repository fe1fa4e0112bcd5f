// README: Anthropic completer built on go-anthropic.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

type AnthropicCompleter struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicCompleter(apiKey, baseURL, model string) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &AnthropicCompleter{client: anthropic.NewClient(apiKey, opts...), model: model}, nil
}

func (a *AnthropicCompleter) Name() string { return ProviderAnthropic }

func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	maxTokens := int(opts.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = 512
	}
	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		System:    systemPrompt,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		req.Temperature = &t
	}

	resp, err := a.client.CreateMessages(ctx, req)
	if err != nil {
		return "", a.classify(err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}

// anthropicStatus maps API error types to the status the API sends with them.
var anthropicStatus = map[string]int{
	"invalid_request_error": http.StatusBadRequest,
	"authentication_error":  http.StatusUnauthorized,
	"permission_error":      http.StatusForbidden,
	"not_found_error":       http.StatusNotFound,
	"rate_limit_error":      http.StatusTooManyRequests,
	"api_error":             http.StatusInternalServerError,
	"overloaded_error":      529,
}

func (a *AnthropicCompleter) classify(err error) error {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode > 0 {
		return &StatusError{Provider: ProviderAnthropic, Code: reqErr.StatusCode, Err: err}
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if code, ok := anthropicStatus[string(apiErr.Type)]; ok {
			return &StatusError{Provider: ProviderAnthropic, Code: code, Err: err}
		}
	}
	return fmt.Errorf("anthropic messages: %w", err)
}
