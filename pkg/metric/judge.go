package metric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"evalgo/pkg/core"
)

// generateJSON asks the judge backend for a structured response and
// decodes it into out. Temperature is pinned to zero so verdicts are
// reproducible. Backend errors propagate unchanged; only a malformed
// judge payload is wrapped.
func generateJSON(ctx context.Context, backend core.Backend, system, prompt string, opts core.GenerateOptions, out any) error {
	if backend == nil {
		return errors.New("metric: judge backend is required")
	}
	opts.SystemPrompt = system
	opts.Temperature = 0
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}

	resp, err := backend.Generate(ctx, prompt, opts)
	if err != nil {
		return err
	}

	payload := extractJSON(resp.Content)
	if payload == "" {
		return fmt.Errorf("metric: judge %q returned no JSON payload", backend.Name())
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("metric: judge %q returned malformed JSON: %w", backend.Name(), err)
	}
	return nil
}

// extractJSON pulls the first JSON object or array out of a judge
// response, tolerating markdown fences and surrounding prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if fenced := strings.Index(text, "```"); fenced >= 0 {
		rest := text[fenced+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = strings.TrimSpace(rest[:end])
		}
	}

	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')
	start := objStart
	closer := byte('}')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start = arrStart
		closer = ']'
	}
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

func normalizeText(input string, caseSensitive bool, normalizeWhitespace bool) string {
	text := input
	if normalizeWhitespace {
		text = strings.Join(strings.Fields(text), " ")
	} else {
		text = strings.TrimSpace(text)
	}
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	return text
}
