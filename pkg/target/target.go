// Package target produces actual outputs for datasets that only carry
// inputs, so a run can generate and score in one pass.
package target

import (
	"context"
	"fmt"
	"strings"

	"evalgo/pkg/core"
)

// Target fills in the actual output of a test case.
type Target interface {
	Name() string
	Respond(ctx context.Context, tc core.TestCase) (core.TestCase, error)
}

// ModelTarget asks a backend for the actual output. The prompt
// template substitutes {{input}}; an empty template sends the input
// verbatim.
type ModelTarget struct {
	Backend        core.Backend
	Options        core.GenerateOptions
	PromptTemplate string
}

func (m ModelTarget) Name() string {
	if m.Backend == nil {
		return "model"
	}
	return m.Backend.Name()
}

func (m ModelTarget) Respond(ctx context.Context, tc core.TestCase) (core.TestCase, error) {
	if m.Backend == nil {
		return tc, fmt.Errorf("target: backend is required")
	}
	prompt := tc.Input
	if m.PromptTemplate != "" {
		prompt = strings.ReplaceAll(m.PromptTemplate, "{{input}}", tc.Input)
	}
	resp, err := m.Backend.Generate(ctx, prompt, m.Options)
	if err != nil {
		return tc, err
	}
	tc.ActualOutput = resp.Content
	return tc, nil
}

// StaticTarget leaves provided outputs alone and substitutes a fixed
// response only where the actual output is empty. Useful for dry runs.
type StaticTarget struct {
	Response string
}

func (s StaticTarget) Name() string {
	return "static"
}

func (s StaticTarget) Respond(_ context.Context, tc core.TestCase) (core.TestCase, error) {
	if tc.ActualOutput == "" {
		tc.ActualOutput = s.Response
	}
	return tc, nil
}

// Apply runs the target over a dataset and returns an in-memory
// dataset carrying the generated outputs.
func Apply(ctx context.Context, t Target, ds core.Dataset) ([]core.TestCase, error) {
	if t == nil {
		return nil, fmt.Errorf("target: target is required")
	}
	caseCh, errCh := ds.Cases(ctx)

	var out []core.TestCase
	for tc := range caseCh {
		filled, err := t.Respond(ctx, tc)
		if err != nil {
			return nil, err
		}
		out = append(out, filled)
	}
	if err, ok := <-errCh; ok && err != nil {
		return nil, err
	}
	return out, nil
}
