package metric

import (
	"context"
	"fmt"
	"strings"

	"evalgo/pkg/core"
)

const gevalSystemPrompt = `You are an impartial judge scoring an AI assistant's output against an evaluation criterion.

You will receive the criterion and the relevant fields of a test case. Score how well the output satisfies the criterion on a scale from 0 (completely fails) to 10 (fully satisfies).

Respond with ONLY a JSON object of the form:
{"score": <0-10>, "reason": "<one sentence>"}`

// GEvalConfig enumerates the named options of a criterion-based
// metric: which fields the judge sees, the criterion text, and the
// pass threshold.
type GEvalConfig struct {
	Label      string
	Criteria   string
	Params     []core.Param
	Threshold  float64
	StrictMode bool
	Backend    core.Backend
	Options    core.GenerateOptions
}

// GEval scores a test case against a free-form evaluation criterion
// using a judge backend. The judge's 0-10 score is normalized to
// [0,1].
type GEval struct {
	cfg GEvalConfig
}

// NewGEval validates the configuration: threshold in [0,1], non-empty
// criteria, known params, and a judge backend. Params default to
// input plus actual output when empty.
func NewGEval(cfg GEvalConfig) (*GEval, error) {
	if err := core.ValidateThreshold(cfg.Threshold); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Criteria) == "" {
		return nil, fmt.Errorf("metric: g-eval requires criteria text")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("metric: g-eval requires a judge backend")
	}
	if len(cfg.Params) == 0 {
		cfg.Params = []core.Param{core.ParamInput, core.ParamActualOutput}
	}
	for _, p := range cfg.Params {
		if _, err := p.Value(core.TestCase{}); err != nil {
			return nil, err
		}
	}
	return &GEval{cfg: cfg}, nil
}

func (m *GEval) Name() string {
	if m.cfg.Label != "" {
		return m.cfg.Label
	}
	return "g-eval"
}

// Threshold returns 1 in strict mode, the configured bound otherwise.
func (m *GEval) Threshold() float64 {
	if m.cfg.StrictMode {
		return 1
	}
	return m.cfg.Threshold
}

func (m *GEval) Measure(ctx context.Context, tc core.TestCase) (core.Score, error) {
	threshold := m.Threshold()

	// An output identical to the expected output is maximal under any
	// correctness criterion; skip the judge call.
	if m.comparesOutputs() && tc.ExpectedOutput != "" &&
		normalizeText(tc.ActualOutput, true, true) == normalizeText(tc.ExpectedOutput, true, true) {
		return core.Score{
			Value:     1,
			Threshold: threshold,
			Passed:    true,
			Reason:    "actual output matches expected output exactly",
		}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Criterion:\n%s\n", m.cfg.Criteria)
	for _, p := range m.cfg.Params {
		value, err := p.Value(tc)
		if err != nil {
			return core.Score{}, err
		}
		fmt.Fprintf(&sb, "\n%s:\n%s\n", p.Label(), value)
	}

	var parsed struct {
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	}
	if err := generateJSON(ctx, m.cfg.Backend, gevalSystemPrompt, sb.String(), m.cfg.Options, &parsed); err != nil {
		return core.Score{}, err
	}

	value := parsed.Score / 10
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	if m.cfg.StrictMode && value < 1 {
		value = 0
	}

	return core.Score{
		Value:     value,
		Threshold: threshold,
		Passed:    value >= threshold,
		Reason:    parsed.Reason,
	}, nil
}

func (m *GEval) comparesOutputs() bool {
	var hasActual, hasExpected bool
	for _, p := range m.cfg.Params {
		switch p {
		case core.ParamActualOutput:
			hasActual = true
		case core.ParamExpectedOutput:
			hasExpected = true
		}
	}
	return hasActual && hasExpected
}
