package core

import (
	"math"
	"sort"
	"time"
)

// Score is the outcome of measuring one metric against one test case.
type Score struct {
	Value     float64 `json:"value" yaml:"value"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Passed    bool    `json:"passed" yaml:"passed"`
	Reason    string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// MetricResult is one metric's score for one test case.
type MetricResult struct {
	Metric   string        `json:"metric" yaml:"metric"`
	Score    Score         `json:"score" yaml:"score"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// CaseResult holds every metric result for one test case.
type CaseResult struct {
	TestCase TestCase       `json:"test_case" yaml:"test_case"`
	Results  []MetricResult `json:"results" yaml:"results"`
	Duration time.Duration  `json:"duration" yaml:"duration"`
}

// Passed reports whether every metric passed without error.
func (c CaseResult) Passed() bool {
	for _, r := range c.Results {
		if r.Error != "" || !r.Score.Passed {
			return false
		}
	}
	return len(c.Results) > 0
}

// RunReport summarizes an evaluation run over a dataset.
type RunReport struct {
	Name       string            `json:"name" yaml:"name"`
	JudgeName  string            `json:"judge_name,omitempty" yaml:"judge_name,omitempty"`
	Summaries  []MetricSummary   `json:"summaries" yaml:"summaries"`
	Results    []CaseResult      `json:"results" yaml:"results"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	StartedAt  time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time         `json:"finished_at" yaml:"finished_at"`
}

// Passed reports whether every case passed every metric.
func (r RunReport) Passed() bool {
	for _, c := range r.Results {
		if !c.Passed() {
			return false
		}
	}
	return len(r.Results) > 0
}

// MetricSummary aggregates one metric's scores across a run.
type MetricSummary struct {
	Metric       string        `json:"metric" yaml:"metric"`
	Cases        int           `json:"cases" yaml:"cases"`
	Errors       int           `json:"errors" yaml:"errors"`
	PassRate     float64       `json:"pass_rate" yaml:"pass_rate"`
	AverageScore float64       `json:"average_score" yaml:"average_score"`
	MedianScore  float64       `json:"median_score" yaml:"median_score"`
	P95Score     float64       `json:"p95_score" yaml:"p95_score"`
	AvgLatency   time.Duration `json:"avg_latency" yaml:"avg_latency"`
	P95Latency   time.Duration `json:"p95_latency" yaml:"p95_latency"`
}

// Summarize computes per-metric aggregates from case results.
func Summarize(results []CaseResult) []MetricSummary {
	if len(results) == 0 {
		return nil
	}

	type bucket struct {
		scores    []float64
		latencies []time.Duration
		passed    int
		errors    int
	}

	buckets := map[string]*bucket{}
	var order []string
	for _, caseResult := range results {
		for _, result := range caseResult.Results {
			b, ok := buckets[result.Metric]
			if !ok {
				b = &bucket{}
				buckets[result.Metric] = b
				order = append(order, result.Metric)
			}
			if result.Error != "" {
				b.errors++
				continue
			}
			b.scores = append(b.scores, result.Score.Value)
			b.latencies = append(b.latencies, result.Duration)
			if result.Score.Passed {
				b.passed++
			}
		}
	}

	summaries := make([]MetricSummary, 0, len(order))
	for _, name := range order {
		b := buckets[name]
		total := len(b.scores) + b.errors
		summary := MetricSummary{
			Metric: name,
			Cases:  total,
			Errors: b.errors,
		}
		if total > 0 {
			summary.PassRate = float64(b.passed) / float64(total)
		}
		summary.AverageScore = average(b.scores)
		summary.MedianScore = percentile(b.scores, 0.50)
		summary.P95Score = percentile(b.scores, 0.95)
		summary.AvgLatency = averageDuration(b.latencies)
		summary.P95Latency = percentileDuration(b.latencies, 0.95)
		summaries = append(summaries, summary)
	}
	return summaries
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	copied := make([]float64, len(values))
	copy(copied, values)
	sort.Float64s(copied)

	if p <= 0 {
		return copied[0]
	}
	if p >= 1 {
		return copied[len(copied)-1]
	}

	index := p * float64(len(copied)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return copied[lower]
	}
	weight := index - float64(lower)
	return copied[lower]*(1-weight) + copied[upper]*weight
}

func averageDuration(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range values {
		sum += v
	}
	return time.Duration(int64(sum) / int64(len(values)))
}

func percentileDuration(values []time.Duration, p float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	copied := make([]time.Duration, len(values))
	copy(copied, values)
	sort.Slice(copied, func(i, j int) bool { return copied[i] < copied[j] })

	if p <= 0 {
		return copied[0]
	}
	if p >= 1 {
		return copied[len(copied)-1]
	}

	index := p * float64(len(copied)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return copied[lower]
	}
	weight := index - float64(lower)
	lowerVal := float64(copied[lower])
	upperVal := float64(copied[upper])
	return time.Duration(lowerVal*(1-weight) + upperVal*weight)
}
