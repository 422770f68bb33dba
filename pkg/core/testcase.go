package core

import "fmt"

// TestCase is a single evaluation unit: the input given to an LLM
// application, the output it actually produced, and optionally the
// output it should have produced. Fields are plain values; a test case
// is built once and consumed once.
type TestCase struct {
	ID             string            `json:"id,omitempty" yaml:"id,omitempty"`
	Input          string            `json:"input" yaml:"input"`
	ActualOutput   string            `json:"actual_output" yaml:"actual_output"`
	ExpectedOutput string            `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Param names a test case field that a metric evaluates.
type Param string

const (
	ParamInput          Param = "input"
	ParamActualOutput   Param = "actual_output"
	ParamExpectedOutput Param = "expected_output"
)

// Value extracts the named field from a test case.
func (p Param) Value(tc TestCase) (string, error) {
	switch p {
	case ParamInput:
		return tc.Input, nil
	case ParamActualOutput:
		return tc.ActualOutput, nil
	case ParamExpectedOutput:
		return tc.ExpectedOutput, nil
	default:
		return "", fmt.Errorf("core: unknown evaluation param %q", string(p))
	}
}

// Label is the human-readable name used in judge prompts.
func (p Param) Label() string {
	switch p {
	case ParamInput:
		return "Input"
	case ParamActualOutput:
		return "Actual Output"
	case ParamExpectedOutput:
		return "Expected Output"
	default:
		return string(p)
	}
}
