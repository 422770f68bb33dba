package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Runner evaluates every test case in a dataset against a set of
// metrics using a worker pool.
type Runner struct {
	Dataset     Dataset
	Metrics     []Metric
	Workers     int
	CaseTimeout time.Duration
	Progress    func(completed, total int)
	TotalCases  int
}

// Run executes the evaluation and returns a report.
func (r *Runner) Run(ctx context.Context) (RunReport, error) {
	if r.Dataset == nil || len(r.Metrics) == 0 {
		return RunReport{}, errors.New("runner: dataset and at least one metric are required")
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	started := time.Now()
	caseCh, errCh := r.Dataset.Cases(ctx)

	resultsCh := make(chan CaseResult, workers)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for tc := range caseCh {
			select {
			case <-ctx.Done():
				return
			default:
			}

			result := r.evaluateCase(ctx, tc)
			select {
			case resultsCh <- result:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var results []CaseResult
	var datasetErr error
	for {
		select {
		case <-ctx.Done():
			return RunReport{}, ctx.Err()
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil && datasetErr == nil {
				datasetErr = err
			}
		case result, ok := <-resultsCh:
			if !ok {
				if datasetErr != nil {
					return RunReport{}, datasetErr
				}
				return RunReport{
					Name:       r.Dataset.Name(),
					Summaries:  Summarize(results),
					Results:    results,
					StartedAt:  started,
					FinishedAt: time.Now(),
				}, nil
			}
			results = append(results, result)
			if r.Progress != nil {
				r.Progress(len(results), r.TotalCases)
			}
		}
	}
}

func (r *Runner) evaluateCase(ctx context.Context, tc TestCase) CaseResult {
	caseCtx := ctx
	if r.CaseTimeout > 0 {
		var cancel context.CancelFunc
		caseCtx, cancel = context.WithTimeout(ctx, r.CaseTimeout)
		defer cancel()
	}

	start := time.Now()
	result := CaseResult{TestCase: tc}
	for _, metric := range r.Metrics {
		metricStart := time.Now()
		score, err := metric.Measure(caseCtx, tc)
		metricResult := MetricResult{
			Metric:   metric.Name(),
			Score:    score,
			Duration: time.Since(metricStart),
		}
		if err != nil {
			metricResult.Error = err.Error()
		}
		result.Results = append(result.Results, metricResult)
	}
	result.Duration = time.Since(start)
	return result
}
