package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/maltedev/selector-discovery/internal/analyzer"
	"github.com/maltedev/selector-discovery/internal/browser"
	"github.com/maltedev/selector-discovery/internal/config"
	"github.com/maltedev/selector-discovery/internal/discovery"
	"github.com/maltedev/selector-discovery/internal/fetcher"
	"github.com/maltedev/selector-discovery/internal/queue"
	"github.com/maltedev/selector-discovery/internal/ratelimit"
	"github.com/maltedev/selector-discovery/internal/storage"
)

const maxTaskRetries = 2

func main() {
	var (
		urls      = flag.String("urls", "", "Comma-separated list of listing page URLs to analyze")
		inputFile = flag.String("file", "", "File containing URLs (one per line)")
		htmlFile  = flag.String("html", "", "Local HTML file to analyze instead of fetching")
		output    = flag.String("output", "stdout", "Output format: stdout, json")
		saveFile  = flag.String("save", "", "JSON file to persist results to")
		render    = flag.Bool("render", true, "Render pages in a browser before analysis")
		headless  = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	if *htmlFile != "" {
		os.Exit(analyzeLocalFile(*htmlFile, *output))
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	taskQueue := queue.NewInMemoryQueue()
	defer taskQueue.Close()

	if err := loadTasks(taskQueue, *urls, *inputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load URLs: %v\n", err)
		os.Exit(1)
	}
	if taskQueue.Size() == 0 {
		fmt.Println("No URLs to analyze. Use -urls or -file to specify listing pages.")
		flag.Usage()
		os.Exit(1)
	}

	var resultStorage *storage.ResultStorage
	if *saveFile != "" {
		resultStorage, err = storage.NewResultStorage(*saveFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open results file: %v\n", err)
			os.Exit(1)
		}
	}

	pageFetcher, cleanup, err := buildFetcher(cfg, *render, *headless, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize fetcher: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	limiter := ratelimit.NewPerDomainLimiter(cfg.Fetcher.RateLimitMin, cfg.Fetcher.RateLimitMax)

	// CLI runs have no database and no cache, every page is analyzed fresh.
	service := discovery.NewService(
		pageFetcher,
		analyzer.New(analyzer.Config{}, logger),
		nil,
		nil,
		limiter,
		logger,
	)

	exitCode := 0
	for taskQueue.Size() > 0 {
		select {
		case <-ctx.Done():
			os.Exit(130)
		default:
		}

		task, err := taskQueue.Pop(ctx)
		if err != nil {
			break
		}

		result, err := service.Discover(ctx, task.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to analyze %s: %v\n", task.URL, err)
			if task.Retries < maxTaskRetries {
				task.Retries++
				taskQueue.Push(task)
				continue
			}
			exitCode = 1
			continue
		}

		if resultStorage != nil {
			saved := &storage.SavedResult{
				URL:       result.URL,
				Domain:    result.Domain,
				Selectors: result.Selectors,
			}
			if err := resultStorage.Add(saved); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save result: %v\n", err)
				exitCode = 1
			}
		}

		if err := outputResult(result, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to output result: %v\n", err)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

func analyzeLocalFile(path, format string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read HTML file: %v\n", err)
		return 1
	}

	a := analyzer.New(analyzer.Config{}, slog.Default())
	report, err := a.AnalyzeMarkup(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to analyze %s: %v\n", path, err)
		return 1
	}

	result := &discovery.Result{
		URL:       path,
		Selectors: report.Results,
		Roles:     report.Roles,
	}
	if err := outputResult(result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to output result: %v\n", err)
		return 1
	}
	return 0
}

func buildFetcher(cfg *config.Config, render, headless bool, logger *slog.Logger) (fetcher.Fetcher, func(), error) {
	plain := fetcher.NewPlainFetcher(cfg.Fetcher.PlainTimeout)
	if !render {
		return plain, func() {}, nil
	}

	b, err := browser.New(&browser.Options{
		Headless:       headless && cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		return nil, nil, err
	}

	renderer := fetcher.NewRenderFetcher(b, fetcher.RenderOptions{
		RenderWait: cfg.Fetcher.RenderWait,
		NavRetries: cfg.Fetcher.NavRetries,
		Annotate:   cfg.Fetcher.Annotate,
	}, logger)

	cleanup := func() {
		if err := b.Close(); err != nil {
			logger.Warn("browser close failed", "error", err)
		}
	}
	return fetcher.NewFallbackFetcher(renderer, plain, logger), cleanup, nil
}

func loadTasks(q queue.Queue, urls, inputFile string) error {
	var targets []string

	if urls != "" {
		targets = append(targets, strings.Split(urls, ",")...)
	}

	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "#") {
				targets = append(targets, line)
			}
		}
	}

	for i, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}

		q.Push(&queue.Task{
			ID:        fmt.Sprintf("task-%d", i),
			URL:       target,
			Priority:  1,
			CreatedAt: time.Now(),
		})
	}

	return nil
}

func outputResult(result *discovery.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		fmt.Printf("URL: %s\n", result.URL)
		fmt.Printf("Domain: %s\n", result.Domain)
		if len(result.Selectors) == 0 {
			fmt.Println("No selectors found.")
		}
		for _, sel := range result.Selectors {
			fmt.Printf("%-10s %-40s confidence %.2f\n", sel.Type, sel.Value, sel.Confidence)
			if sel.Description != "" {
				fmt.Printf("           %s\n", sel.Description)
			}
		}
		fmt.Println("---")
	}
	return nil
}
