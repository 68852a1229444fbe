// Package openai implements llm.Client on top of the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mindwell-ai/convo-eval/internal/llm"
)

type Client struct {
	api     openai.Client
	modelID string
}

func NewClient(apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelID == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(3),
		),
		modelID: modelID,
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
		Temperature:         openai.Float(req.Temperature),
		Model:               openai.ChatModel(c.modelID),
	}

	output, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke model %s: %w", c.modelID, err)
	}
	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	return &llm.Response{
		Content:    choice.Message.Content,
		StopReason: fmt.Sprint(choice.FinishReason),
	}, nil
}

// CompleteWithRetry delegates to Complete; the underlying SDK client is
// constructed with its own retry policy.
func (c *Client) CompleteWithRetry(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return c.Complete(ctx, req)
}
