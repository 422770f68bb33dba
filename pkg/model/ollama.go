package model

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"evalgo/pkg/core"
)

const defaultOllamaBaseURL = "http://localhost:11434/v1"
const defaultOllamaModel = "mistral"

// OllamaBackend runs judging against a locally served model through
// Ollama's OpenAI-compatible endpoint. This is the custom-backend
// path: any pretrained model Ollama can serve becomes a scoring
// backend without changing metric or assertion call shape.
type OllamaBackend struct {
	Client     openai.Client
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func NewOllama(baseURL, modelName string) *OllamaBackend {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if modelName == "" {
		modelName = defaultOllamaModel
	}
	return &OllamaBackend{
		Client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey("ollama"),
		),
		Model:      modelName,
		BaseURL:    baseURL,
		Timeout:    60 * time.Second,
		MaxRetries: defaultMaxRetries,
		Backoff:    defaultBackoff,
	}
}

func (o OllamaBackend) Name() string {
	if o.Model == "" {
		return defaultOllamaModel
	}
	return o.Model
}

func (o OllamaBackend) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Name()),
		Messages: messages,
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(float64(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(float64(opts.TopP))
	}

	return generateWithRetries(ctx, "ollama", o.Timeout, o.MaxRetries, o.Backoff, func(attemptCtx context.Context) (core.Response, error) {
		start := time.Now()
		completion, err := o.Client.Chat.Completions.New(attemptCtx, params)
		if err != nil {
			return core.Response{}, err
		}
		if len(completion.Choices) == 0 {
			return core.Response{}, fmt.Errorf("ollama: empty response")
		}
		return core.Response{
			Content: completion.Choices[0].Message.Content,
			TokenUsage: core.TokenUsage{
				PromptTokens:     int(completion.Usage.PromptTokens),
				CompletionTokens: int(completion.Usage.CompletionTokens),
				TotalTokens:      int(completion.Usage.TotalTokens),
			},
			Latency: time.Since(start),
		}, nil
	})
}
