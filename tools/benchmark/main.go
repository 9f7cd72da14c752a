// Command benchmark load-tests a running ledger API and reports latency
// percentiles per endpoint, optionally writing a markdown report.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

const (
	defaultTarget      = "http://localhost:8080"
	defaultConcurrency = 8
	defaultDuration    = 30 * time.Second
)

type Config struct {
	Target      string
	Concurrency int
	Duration    time.Duration
	Scenario    string // "reads" or "transfers"
	Admin       string // admin account, required for the transfers scenario
	Accounts    int    // synthetic accounts for the transfers scenario
	Timeout     time.Duration
	OutputFile  string
}

// sample is a single request observation
type sample struct {
	endpoint string
	latency  time.Duration
	status   int
	err      error
}

// EndpointStats aggregates observations for one endpoint
type EndpointStats struct {
	Endpoint  string
	Count     int
	Succeeded int
	Failed    int
	Latencies []time.Duration
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, collecting results...")
		cancel()
	}()

	fmt.Printf("Target:      %s\n", cfg.Target)
	fmt.Printf("Scenario:    %s\n", cfg.Scenario)
	fmt.Printf("Concurrency: %d\n", cfg.Concurrency)
	fmt.Printf("Duration:    %s\n\n", cfg.Duration)

	runner := &runner{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}

	if cfg.Scenario == "transfers" {
		if cfg.Admin == "" {
			fmt.Fprintln(os.Stderr, "transfers scenario requires -admin")
			os.Exit(1)
		}
		if err := runner.seedAccounts(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed accounts: %v\n", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	samples := runner.run(ctx)
	elapsed := time.Since(start)

	stats := aggregate(samples)
	printReport(stats, elapsed)

	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, cfg, stats, elapsed); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nReport written to %s\n", cfg.OutputFile)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Target, "target", defaultTarget, "base URL of the ledger API")
	flag.IntVar(&cfg.Concurrency, "concurrency", defaultConcurrency, "number of concurrent workers")
	flag.DurationVar(&cfg.Duration, "duration", defaultDuration, "how long to run")
	flag.StringVar(&cfg.Scenario, "scenario", "reads", "workload: reads or transfers")
	flag.StringVar(&cfg.Admin, "admin", "", "admin account for the transfers scenario")
	flag.IntVar(&cfg.Accounts, "accounts", 16, "synthetic accounts for the transfers scenario")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.StringVar(&cfg.OutputFile, "output", "", "markdown report file (optional)")
	flag.Parse()
	return cfg
}

type runner struct {
	cfg    Config
	client *http.Client
}

// run fans out workers until the context expires and collects every
// observation.
func (r *runner) run(ctx context.Context) []sample {
	results := make(chan sample, 1024)
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for n := 0; ; n++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- r.step(ctx, worker, n)
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var samples []sample
	for s := range results {
		samples = append(samples, s)
	}
	return samples
}

// step issues one request chosen by the scenario
func (r *runner) step(ctx context.Context, worker, n int) sample {
	if r.cfg.Scenario == "transfers" {
		from := syntheticAccount(worker % r.cfg.Accounts)
		to := syntheticAccount((worker + 1) % r.cfg.Accounts)
		return r.post(ctx, "/api/v1/token/transfer", map[string]any{
			"from": from, "to": to, "amount": 1,
		})
	}

	switch n % 3 {
	case 0:
		return r.get(ctx, "/api/v1/token/supply")
	case 1:
		return r.get(ctx, "/api/v1/properties")
	default:
		return r.get(ctx, "/api/v1/orders")
	}
}

// seedAccounts issues an opening balance to each synthetic account so the
// transfer workload has funds to move around.
func (r *runner) seedAccounts(ctx context.Context) error {
	for i := 0; i < r.cfg.Accounts; i++ {
		s := r.post(ctx, "/api/v1/token/issue", map[string]any{
			"caller": r.cfg.Admin,
			"to":     syntheticAccount(i),
			"amount": 1_000_000,
		})
		if s.err != nil {
			return s.err
		}
		if s.status != http.StatusOK {
			return fmt.Errorf("issue to account %d returned %d", i, s.status)
		}
	}
	return nil
}

func (r *runner) get(ctx context.Context, path string) sample {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Target+path, nil)
	if err != nil {
		return sample{endpoint: "GET " + path, err: err}
	}
	return r.do("GET "+path, req)
}

func (r *runner) post(ctx context.Context, path string, body map[string]any) sample {
	payload, err := json.Marshal(body)
	if err != nil {
		return sample{endpoint: "POST " + path, err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Target+path, bytes.NewReader(payload))
	if err != nil {
		return sample{endpoint: "POST " + path, err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do("POST "+path, req)
}

func (r *runner) do(endpoint string, req *http.Request) sample {
	start := time.Now()
	resp, err := r.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return sample{endpoint: endpoint, latency: latency, err: err}
	}
	_ = resp.Body.Close()
	return sample{endpoint: endpoint, latency: latency, status: resp.StatusCode}
}

func aggregate(samples []sample) []*EndpointStats {
	byEndpoint := make(map[string]*EndpointStats)
	for _, s := range samples {
		st, ok := byEndpoint[s.endpoint]
		if !ok {
			st = &EndpointStats{Endpoint: s.endpoint}
			byEndpoint[s.endpoint] = st
		}
		st.Count++
		if s.err == nil && s.status >= 200 && s.status < 300 {
			st.Succeeded++
		} else {
			st.Failed++
		}
		st.Latencies = append(st.Latencies, s.latency)
	}

	var stats []*EndpointStats
	for _, st := range byEndpoint {
		sort.Slice(st.Latencies, func(i, j int) bool { return st.Latencies[i] < st.Latencies[j] })
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Endpoint < stats[j].Endpoint })
	return stats
}

// percentile returns the p-th percentile of sorted latencies
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

func printReport(stats []*EndpointStats, elapsed time.Duration) {
	total := 0
	for _, st := range stats {
		total += st.Count
	}
	fmt.Printf("Completed %d requests in %s (%s)\n\n", total, formatDuration(elapsed), formatRate(total, elapsed))

	for _, st := range stats {
		emoji := statusEmoji(st.Succeeded, st.Failed)
		fmt.Printf("%s %s\n", emoji, st.Endpoint)
		fmt.Printf("    requests: %d  ok: %s  p50: %s  p95: %s  p99: %s\n",
			st.Count,
			percentageString(st.Succeeded, st.Count),
			percentile(st.Latencies, 50),
			percentile(st.Latencies, 95),
			percentile(st.Latencies, 99),
		)
	}
}

func writeMarkdownReport(path string, cfg Config, stats []*EndpointStats, elapsed time.Duration) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	total := 0
	for _, st := range stats {
		total += st.Count
	}

	_, _ = fmt.Fprintf(file, "# Ledger API Benchmark\n\n")
	_, _ = fmt.Fprintf(file, "| Setting | Value |\n")
	_, _ = fmt.Fprintf(file, "|---------|-------|\n")
	_, _ = fmt.Fprintf(file, "| **Target** | %s |\n", cfg.Target)
	_, _ = fmt.Fprintf(file, "| **Scenario** | %s |\n", cfg.Scenario)
	_, _ = fmt.Fprintf(file, "| **Concurrency** | %d |\n", cfg.Concurrency)
	_, _ = fmt.Fprintf(file, "| **Duration** | %s |\n", formatDuration(elapsed))
	_, _ = fmt.Fprintf(file, "| **Total Requests** | %d |\n", total)
	_, _ = fmt.Fprintf(file, "| **Throughput** | %s |\n\n", formatRate(total, elapsed))

	_, _ = fmt.Fprintf(file, "## Endpoints\n\n")
	_, _ = fmt.Fprintf(file, "| Endpoint | Requests | Success | p50 | p95 | p99 |\n")
	_, _ = fmt.Fprintf(file, "|----------|----------|---------|-----|-----|-----|\n")
	for _, st := range stats {
		_, _ = fmt.Fprintf(file, "| %s | %d | %s | %s | %s | %s |\n",
			st.Endpoint,
			st.Count,
			percentageString(st.Succeeded, st.Count),
			percentile(st.Latencies, 50),
			percentile(st.Latencies, 95),
			percentile(st.Latencies, 99),
		)
	}
	return nil
}
