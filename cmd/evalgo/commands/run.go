package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"evalgo/pkg/cache"
	"evalgo/pkg/core"
	"evalgo/pkg/dataset"
	"evalgo/pkg/metric"
	"evalgo/pkg/model"
	"evalgo/pkg/reporter"
	"evalgo/pkg/runlog"
	"evalgo/pkg/target"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultCriteria = "Correctness - determine if the actual output is correct according to the expected output."

func newRunCommand() *cobra.Command {
	var (
		datasetPath  string
		metricNames  []string
		workers      int
		outputPath   string
		format       string
		provider     string
		modelName    string
		mockResponse string
		threshold    float64
		criteria     string
		strict       bool
		generate     bool
		logDir       string
		noLog        bool
		rateLimit    float64
		useCache     bool
		cacheDir     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a dataset of test cases against metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveString(datasetPath, appConfig.Dataset)
			if path == "" {
				return errors.New("dataset path is required")
			}
			names := metricNames
			if len(names) == 0 {
				names = appConfig.Metrics
			}
			if len(names) == 0 {
				names = []string{"exact"}
			}
			formatResolved := resolveString(format, appConfig.Format)
			if formatResolved == "" {
				formatResolved = "table"
			}
			outputResolved := resolveString(outputPath, appConfig.Output)
			providerResolved := resolveString(provider, appConfig.Provider)
			if providerResolved == "" {
				providerResolved = "mock"
			}
			modelResolved := resolveString(modelName, appConfig.Model.Name)
			mockResolved := resolveString(mockResponse, appConfig.Model.MockResponse)
			thresholdResolved := resolveFloat(threshold, appConfig.Threshold, 0.5)
			criteriaResolved := resolveString(criteria, appConfig.Criteria)
			if criteriaResolved == "" {
				criteriaResolved = defaultCriteria
			}
			strictResolved := strict || appConfig.Strict
			workerCount := resolveInt(workers, appConfig.Workers, 1)
			logDirResolved := resolveString(logDir, appConfig.LogDir)
			rateLimitResolved := resolveFloat(rateLimit, appConfig.RateLimit, 0)
			useCacheResolved := useCache || appConfig.UseCache
			cacheDirResolved := resolveString(cacheDir, appConfig.CacheDir)

			judge, cleanup, err := buildBackend(providerResolved, modelResolved, mockResolved, rateLimitResolved, useCacheResolved, cacheDirResolved)
			if err != nil {
				return err
			}
			defer cleanup()

			metrics, err := buildMetrics(names, judge, thresholdResolved, criteriaResolved, strictResolved)
			if err != nil {
				return err
			}

			ds := dataset.NewFileDataset(path)
			var runDataset core.Dataset = ds
			total, err := ds.Len(cmd.Context())
			if err != nil {
				return err
			}

			if generate {
				cases, err := target.Apply(cmd.Context(), target.ModelTarget{Backend: judge}, ds)
				if err != nil {
					return err
				}
				runDataset = dataset.NewSliceDataset(cases, ds.Name())
			}

			logger.Info("starting run",
				zap.String("dataset", path),
				zap.Strings("metrics", names),
				zap.String("provider", providerResolved),
				zap.Int("workers", workerCount),
			)

			progress := newProgressBar(progressWriter(cmd), total)
			runner := core.Runner{
				Dataset:    runDataset,
				Metrics:    metrics,
				Workers:    workerCount,
				TotalCases: total,
				Progress: func(completed, totalCases int) {
					progress.Update(completed)
				},
			}

			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			report.JudgeName = judge.Name()
			if report.Metadata == nil {
				report.Metadata = map[string]string{}
			}
			report.Metadata["provider"] = providerResolved

			writer := cmd.OutOrStdout()
			if outputResolved != "" {
				file, err := os.Create(outputResolved)
				if err != nil {
					return err
				}
				defer file.Close()
				writer = file
			}

			rep, err := buildReporter(formatResolved, writer)
			if err != nil {
				return err
			}
			if err := rep.Report(report); err != nil {
				return err
			}

			if !noLog && logDirResolved != "" {
				logPath, err := runlog.Write(logDirResolved, report)
				if err != nil {
					return err
				}
				logger.Info("wrote run log", zap.String("path", logPath))
			}

			if !report.Passed() {
				failed := 0
				for _, caseResult := range report.Results {
					if !caseResult.Passed() {
						failed++
					}
				}
				return fmt.Errorf("%d of %d test cases failed", failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to test case file (json or jsonl)")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to run (relevancy, correctness, exact, contains, numeric)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, html, markdown, csv)")
	cmd.Flags().StringVar(&provider, "provider", "", "judge backend (mock, openai, anthropic, gemini, ollama)")
	cmd.Flags().StringVar(&modelName, "model", "", "judge model name")
	cmd.Flags().StringVar(&mockResponse, "mock-response", "", "fixed mock judge response")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "pass threshold for judge metrics")
	cmd.Flags().StringVar(&criteria, "criteria", "", "criteria text for the correctness metric")
	cmd.Flags().BoolVar(&strict, "strict", false, "binary scoring with threshold forced to 1")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate actual outputs with the judge backend before scoring")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for JSON run logs")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "skip writing a run log")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "max judge requests per second (0 = unlimited)")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache judge responses on disk")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "judge response cache directory")

	return cmd
}

func buildMetrics(names []string, judge core.Backend, threshold float64, criteria string, strict bool) ([]core.Metric, error) {
	metrics := make([]core.Metric, 0, len(names))
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case "relevancy", "answer-relevancy":
			m, err := metric.NewAnswerRelevancy(judge, threshold)
			if err != nil {
				return nil, err
			}
			m.StrictMode = strict
			metrics = append(metrics, m)
		case "correctness", "g-eval":
			m, err := metric.NewGEval(metric.GEvalConfig{
				Label:      "correctness",
				Criteria:   criteria,
				Params:     []core.Param{core.ParamActualOutput, core.ParamExpectedOutput},
				Threshold:  threshold,
				StrictMode: strict,
				Backend:    judge,
			})
			if err != nil {
				return nil, err
			}
			metrics = append(metrics, m)
		case "exact":
			metrics = append(metrics, metric.ExactMatch{NormalizeWhitespace: true})
		case "contains":
			metrics = append(metrics, metric.Contains{NormalizeWhitespace: true})
		case "numeric":
			metrics = append(metrics, metric.NumericMatch{})
		default:
			return nil, fmt.Errorf("unknown metric: %s", name)
		}
	}
	return metrics, nil
}

func buildBackend(provider, modelName, mockResponse string, rateLimit float64, useCache bool, cacheDir string) (core.Backend, func(), error) {
	cleanup := func() {}

	var backend core.Backend
	switch provider {
	case "mock":
		backend = model.Mock{NameValue: modelName, ResponseText: mockResponse}
	case "openai":
		openaiBackend, err := model.NewOpenAIFromEnv(resolveString(modelName, appConfig.OpenAI.Model))
		if err != nil {
			return nil, cleanup, err
		}
		applyProviderConfig(&openaiBackend.Timeout, &openaiBackend.MaxRetries, &openaiBackend.Backoff, appConfig.OpenAI)
		backend = openaiBackend
	case "anthropic":
		anthropicBackend, err := model.NewAnthropicFromEnv(resolveString(modelName, appConfig.Anthropic.Model))
		if err != nil {
			return nil, cleanup, err
		}
		cfg := appConfig.Anthropic
		if cfg.TimeoutSeconds > 0 {
			anthropicBackend.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		if cfg.MaxRetries > 0 {
			anthropicBackend.MaxRetries = cfg.MaxRetries
		}
		if cfg.BackoffMillis > 0 {
			anthropicBackend.Backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
		}
		if cfg.MaxTokens > 0 {
			anthropicBackend.MaxTokens = cfg.MaxTokens
		}
		backend = anthropicBackend
	case "gemini":
		geminiBackend, err := model.NewGeminiFromEnv(resolveString(modelName, appConfig.Gemini.Model))
		if err != nil {
			return nil, cleanup, err
		}
		applyProviderConfig(&geminiBackend.Timeout, &geminiBackend.MaxRetries, &geminiBackend.Backoff, appConfig.Gemini)
		backend = geminiBackend
	case "ollama":
		ollamaBackend := model.NewOllama(appConfig.Ollama.BaseURL, resolveString(modelName, appConfig.Ollama.Model))
		if appConfig.Ollama.TimeoutSeconds > 0 {
			ollamaBackend.Timeout = time.Duration(appConfig.Ollama.TimeoutSeconds) * time.Second
		}
		backend = ollamaBackend
	default:
		return nil, cleanup, fmt.Errorf("unknown provider: %s", provider)
	}

	if useCache {
		responseCache, err := cache.New(cacheDir, 0)
		if err != nil {
			return nil, cleanup, err
		}
		backend = model.Cached{Backend: backend, Cache: responseCache}
	}

	if rateLimit > 0 {
		limiter, stop, err := core.NewRateLimiter(rateLimit, 1)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = stop
		backend = model.Throttled{Backend: backend, Limiter: limiter}
	}

	return backend, cleanup, nil
}

func applyProviderConfig(timeout *time.Duration, maxRetries *int, backoff *time.Duration, cfg ProviderConfig) {
	if cfg.TimeoutSeconds > 0 {
		*timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		*maxRetries = cfg.MaxRetries
	}
	if cfg.BackoffMillis > 0 {
		*backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
	}
}

func buildReporter(format string, writer io.Writer) (reporter.Reporter, error) {
	switch format {
	case reporter.FormatJSON:
		return reporter.JSONReporter{Writer: writer, Pretty: true}, nil
	case reporter.FormatTable:
		return reporter.TableReporter{Writer: writer}, nil
	case reporter.FormatHTML:
		return reporter.HTMLReporter{Writer: writer}, nil
	case reporter.FormatMarkdown:
		return reporter.MarkdownReporter{Writer: writer}, nil
	case reporter.FormatCSV:
		return reporter.CSVReporter{Writer: writer}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

type progressBar struct {
	writer io.Writer
	total  int
	start  time.Time
	isTTY  bool
}

func newProgressBar(writer io.Writer, total int) *progressBar {
	return &progressBar{
		writer: writer,
		total:  total,
		start:  time.Now(),
		isTTY:  isTerminal(writer),
	}
}

func (p *progressBar) Update(completed int) {
	width := 30
	if p.total <= 0 {
		elapsed := time.Since(p.start).Truncate(time.Second)
		if p.isTTY {
			fmt.Fprintf(p.writer, "\rProcessed %d test cases (%s)", completed, elapsed)
		} else {
			fmt.Fprintf(p.writer, "Processed %d test cases (%s)\n", completed, elapsed)
		}
		return
	}

	ratio := float64(completed) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	bar := strings.Repeat("=", filled) + strings.Repeat(".", width-filled)
	percent := int(ratio * 100)
	elapsed := time.Since(p.start).Truncate(time.Second)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	line := fmt.Sprintf("[%s] %3d%% (%d/%d) %s", barStyle.Render(bar), percent, completed, p.total, elapsed)
	if p.isTTY {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else {
		fmt.Fprintf(p.writer, "%s\n", line)
	}

	if completed >= p.total {
		fmt.Fprintln(p.writer)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func progressWriter(cmd *cobra.Command) io.Writer {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	if isTerminal(stderr) {
		return stderr
	}
	if isTerminal(stdout) {
		return stdout
	}
	return stderr
}

func resolveString(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolveInt(value int, fallback int, defaultValue int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}

func resolveFloat(value float64, fallback float64, defaultValue float64) float64 {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}
