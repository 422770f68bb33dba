package model

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"evalgo/pkg/core"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicBackend judges through the Anthropic Messages API.
type AnthropicBackend struct {
	Client     anthropic.Client
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	MaxTokens  int
}

// NewAnthropicFromEnv fails fast when ANTHROPIC_API_KEY is absent.
func NewAnthropicFromEnv(modelName string) (*AnthropicBackend, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("anthropic: ANTHROPIC_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &AnthropicBackend{
		Client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		Model:      modelName,
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		Backoff:    defaultBackoff,
		MaxTokens:  1024,
	}, nil
}

func (a AnthropicBackend) Name() string {
	if a.Model == "" {
		return defaultAnthropicModel
	}
	return a.Model
}

func (a AnthropicBackend) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	maxTokens := a.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Name()),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: opts.SystemPrompt},
		}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(opts.Temperature))
	}
	if opts.TopP > 0 {
		params.TopP = anthropic.Float(float64(opts.TopP))
	}
	if len(opts.Stop) > 0 {
		params.StopSequences = opts.Stop
	}

	return generateWithRetries(ctx, "anthropic", a.Timeout, a.MaxRetries, a.Backoff, func(attemptCtx context.Context) (core.Response, error) {
		start := time.Now()
		message, err := a.Client.Messages.New(attemptCtx, params)
		if err != nil {
			return core.Response{}, err
		}
		usage := core.TokenUsage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		return core.Response{
			Content:    extractAnthropicText(message.Content),
			TokenUsage: usage,
			Latency:    time.Since(start),
		}, nil
	})
}

func extractAnthropicText(blocks []anthropic.ContentBlockUnion) string {
	if len(blocks) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}
