// Package bedrock implements llm.Client on top of AWS Bedrock's Claude
// messages API.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/mindwell-ai/convo-eval/internal/llm"
)

const anthropicVersion = "bedrock-2023-05-31"

type Client struct {
	api          *bedrockruntime.Client
	modelID      string
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

func NewClient(ctx context.Context, region, modelID string) (*Client, error) {
	if modelID == "" {
		return nil, fmt.Errorf("bedrock model ID is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		api:          bedrockruntime.NewFromConfig(cfg),
		modelID:      modelID,
		maxRetries:   3,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     12 * time.Second,
	}, nil
}

type messageRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	payload := messageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		Messages: []message{
			{Role: "user", Content: req.Prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize bedrock request: %w", err)
	}

	output, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke model %s: %w", c.modelID, err)
	}

	var resp messageResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	var content string
	if len(resp.Content) > 0 {
		content = resp.Content[0].Text
	}

	return &llm.Response{
		Content:    content,
		StopReason: resp.StopReason,
	}, nil
}

func (c *Client) CompleteWithRetry(ctx context.Context, req llm.Request) (*llm.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}

		delay := backoff(attempt, c.initialDelay, c.maxDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", c.maxRetries, lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	// Throttling
	if strings.Contains(msg, "ThrottlingException") ||
		strings.Contains(msg, "TooManyRequestsException") ||
		strings.Contains(msg, "Rate exceeded") {
		return true
	}

	// Service-side 5xx
	if strings.Contains(msg, "InternalServerException") ||
		strings.Contains(msg, "ServiceUnavailableException") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") {
		return true
	}

	// Network
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "timeout") {
		return true
	}

	return false
}

func backoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	d := float64(initialDelay) * math.Pow(2, float64(attempt))
	if d > float64(maxDelay) {
		d = float64(maxDelay)
	}

	// +/- 20% jitter
	d += d * 0.2 * (2*rand.Float64() - 1)

	return time.Duration(d)
}
