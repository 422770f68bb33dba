package metric

import (
	"context"
	"fmt"
	"strings"

	"evalgo/pkg/core"
)

const relevancySystemPrompt = `You are an impartial judge evaluating whether an AI assistant's answer is relevant to the question it was asked.

You will receive a question and an answer. Break the answer into its individual statements, then judge each statement for relevancy to the question.

Respond with ONLY a JSON object of the form:
{"verdicts": [{"verdict": "yes" | "no" | "idk", "reason": "<why, only when the verdict is no>"}]}

Use "yes" when the statement addresses the question, "no" when it is off-topic, and "idk" when the statement is ambiguous or supporting context.`

// AnswerRelevancy scores how relevant the actual output is to the
// input, using a judge backend. The score is the fraction of
// statements in the output that are not judged irrelevant.
type AnswerRelevancy struct {
	Backend    core.Backend
	StrictMode bool
	Options    core.GenerateOptions

	threshold float64
}

// NewAnswerRelevancy builds the metric, rejecting thresholds outside
// [0,1] and a missing judge backend.
func NewAnswerRelevancy(backend core.Backend, threshold float64) (*AnswerRelevancy, error) {
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("metric: answer relevancy requires a judge backend")
	}
	return &AnswerRelevancy{Backend: backend, threshold: threshold}, nil
}

func (m *AnswerRelevancy) Name() string {
	return "answer-relevancy"
}

// Threshold returns 1 in strict mode, the configured bound otherwise.
func (m *AnswerRelevancy) Threshold() float64 {
	if m.StrictMode {
		return 1
	}
	return m.threshold
}

func (m *AnswerRelevancy) Measure(ctx context.Context, tc core.TestCase) (core.Score, error) {
	prompt := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s", tc.Input, tc.ActualOutput)

	var parsed struct {
		Verdicts []struct {
			Verdict string `json:"verdict"`
			Reason  string `json:"reason"`
		} `json:"verdicts"`
	}
	if err := generateJSON(ctx, m.Backend, relevancySystemPrompt, prompt, m.Options, &parsed); err != nil {
		return core.Score{}, err
	}

	// No statements to judge counts as vacuously relevant.
	value := 1.0
	var reasons []string
	if total := len(parsed.Verdicts); total > 0 {
		irrelevant := 0
		for _, v := range parsed.Verdicts {
			if strings.EqualFold(strings.TrimSpace(v.Verdict), "no") {
				irrelevant++
				if v.Reason != "" {
					reasons = append(reasons, v.Reason)
				}
			}
		}
		value = float64(total-irrelevant) / float64(total)
	}

	threshold := m.Threshold()
	if m.StrictMode && value < 1 {
		value = 0
	}

	return core.Score{
		Value:     value,
		Threshold: threshold,
		Passed:    value >= threshold,
		Reason:    strings.Join(reasons, "; "),
	}, nil
}
