package model

import (
	"context"
	"time"

	"evalgo/pkg/core"
)

// Mock returns a fixed response or echoes the prompt. Err, when set,
// is returned unchanged.
type Mock struct {
	NameValue    string
	ResponseText string
	Err          error
}

func (m Mock) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m Mock) Generate(_ context.Context, prompt string, _ core.GenerateOptions) (core.Response, error) {
	if m.Err != nil {
		return core.Response{}, m.Err
	}
	start := time.Now()
	content := prompt
	if m.ResponseText != "" {
		content = m.ResponseText
	}
	return core.Response{
		Content: content,
		Latency: time.Since(start),
	}, nil
}
