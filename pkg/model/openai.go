package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"evalgo/pkg/core"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend is the default judge backend, speaking the OpenAI
// Responses API.
type OpenAIBackend struct {
	Client     openai.Client
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// NewOpenAIFromEnv fails fast when OPENAI_API_KEY is absent.
func NewOpenAIFromEnv(modelName string) (*OpenAIBackend, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("openai: OPENAI_API_KEY is required")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &OpenAIBackend{
		Client:     openai.NewClient(option.WithAPIKey(apiKey)),
		Model:      modelName,
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		Backoff:    defaultBackoff,
	}, nil
}

func (o OpenAIBackend) Name() string {
	if o.Model == "" {
		return defaultOpenAIModel
	}
	return o.Model
}

func (o OpenAIBackend) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	params := responses.ResponseNewParams{
		Model: openai.ChatModel(o.Name()),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Store: openai.Bool(false),
	}
	if opts.SystemPrompt != "" {
		params.Instructions = openai.String(opts.SystemPrompt)
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(float64(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(float64(opts.TopP))
	}

	return generateWithRetries(ctx, "openai", o.Timeout, o.MaxRetries, o.Backoff, func(attemptCtx context.Context) (core.Response, error) {
		start := time.Now()
		resp, err := o.Client.Responses.New(attemptCtx, params)
		if err != nil {
			return core.Response{}, err
		}
		content := resp.OutputText()
		if content == "" {
			return core.Response{}, fmt.Errorf("openai: empty response")
		}
		return core.Response{
			Content: content,
			TokenUsage: core.TokenUsage{
				PromptTokens:     int(resp.Usage.InputTokens),
				CompletionTokens: int(resp.Usage.OutputTokens),
				TotalTokens:      int(resp.Usage.TotalTokens),
			},
			Latency: time.Since(start),
		}, nil
	})
}
