package metric

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"evalgo/pkg/core"
)

// ExactMatch passes when the actual output equals the expected output.
type ExactMatch struct {
	CaseSensitive       bool
	NormalizeWhitespace bool
}

func (e ExactMatch) Name() string {
	return "exact-match"
}

func (e ExactMatch) Threshold() float64 {
	return 1
}

func (e ExactMatch) Measure(_ context.Context, tc core.TestCase) (core.Score, error) {
	expected := normalizeText(tc.ExpectedOutput, e.CaseSensitive, e.NormalizeWhitespace)
	actual := normalizeText(tc.ActualOutput, e.CaseSensitive, e.NormalizeWhitespace)

	passed := expected == actual
	value := 0.0
	if passed {
		value = 1
	}
	return core.Score{Value: value, Threshold: 1, Passed: passed}, nil
}

// Contains passes when the actual output contains the expected output.
type Contains struct {
	CaseSensitive       bool
	NormalizeWhitespace bool
}

func (c Contains) Name() string {
	return "contains"
}

func (c Contains) Threshold() float64 {
	return 1
}

func (c Contains) Measure(_ context.Context, tc core.TestCase) (core.Score, error) {
	expected := normalizeText(tc.ExpectedOutput, c.CaseSensitive, c.NormalizeWhitespace)
	actual := normalizeText(tc.ActualOutput, c.CaseSensitive, c.NormalizeWhitespace)

	passed := strings.Contains(actual, expected)
	value := 0.0
	if passed {
		value = 1
	}
	return core.Score{Value: value, Threshold: 1, Passed: passed}, nil
}

// NumericMatch passes when the last number in the actual output equals
// the last number in the expected output within a tolerance. Falls
// back to normalized string equality when either side has no number.
type NumericMatch struct {
	Tolerance float64
}

func (n NumericMatch) Name() string {
	return "numeric-match"
}

func (n NumericMatch) Threshold() float64 {
	return 1
}

func (n NumericMatch) Measure(_ context.Context, tc core.TestCase) (core.Score, error) {
	expectedNum, expectedRaw := lastNumber(tc.ExpectedOutput)
	actualNum, actualRaw := lastNumber(tc.ActualOutput)

	passed := false
	if expectedRaw != "" && actualRaw != "" {
		tol := n.Tolerance
		if tol <= 0 {
			tol = 1e-6
		}
		passed = math.Abs(expectedNum-actualNum) <= tol
	} else {
		expected := normalizeText(tc.ExpectedOutput, false, true)
		actual := normalizeText(tc.ActualOutput, false, true)
		passed = expected == actual
	}

	value := 0.0
	if passed {
		value = 1
	}
	return core.Score{Value: value, Threshold: 1, Passed: passed}, nil
}

var numberRegex = regexp.MustCompile(`[-+]?\d[\d,]*(?:\.\d+)?`)

func lastNumber(text string) (float64, string) {
	matches := numberRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, ""
	}
	raw := matches[len(matches)-1]
	clean := strings.ReplaceAll(raw, ",", "")
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, ""
	}
	return value, raw
}
