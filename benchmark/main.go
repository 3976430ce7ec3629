// Package main provides a performance benchmarking tool for the hubtrend CLI.
// It serves synthetic hub listings of several sizes from a local server and
// measures the full fetch command against them, once without a store and
// several times with SQLite. The first SQLite run inserts every model (cold)
// and the remaining runs update them (warm). Results are written as CSV.
//
// Prerequisites:
// - hubtrend binary installed and available in PATH
//
// Usage: go run benchmark/main.go
package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Size        int
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	Sizes       []int // Models served per listing
}

func main() {
	config := BenchmarkConfig{
		Timeout:     5 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Sizes:       []int{100, 1000, 5000},
	}

	if _, err := exec.LookPath("hubtrend"); err != nil {
		fmt.Printf("Prerequisites check failed: hubtrend binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// syntheticHub serves size models per listing. Listings overlap by half so
// the merge step sees duplicates on every phase.
func syntheticHub(size int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := 0
		switch r.URL.Query().Get("sort") {
		case "likes":
			offset = size / 2
		case "likes7d":
			offset = size
		case "createdAt":
			offset = size + size/2
		}
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit > size {
			limit = size
		}

		models := make([]map[string]any, 0, limit)
		for i := 0; i < limit; i++ {
			n := offset + i
			models = append(models, map[string]any{
				"id":           fmt.Sprintf("bench/model-%06d", n),
				"downloads":    1_000_000 - n,
				"likes":        n % 500,
				"pipeline_tag": "text-generation",
				"library_name": "transformers",
				"tags":         []string{"text-generation", "transformers", "benchmark"},
				"createdAt":    "2024-01-01T00:00:00.000Z",
				"lastModified": "2024-05-01T12:00:00.000Z",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(models)
	}))
}

// runBenchmarks executes the fetch benchmark for every configured listing size
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %d models per listing\n", size)
		results = append(results, runBenchmarkSuite(config, size))
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for one listing size
func runBenchmarkSuite(config BenchmarkConfig, size int) BenchmarkResult {
	hub := syntheticHub(size)
	defer hub.Close()

	dir, err := os.MkdirTemp("", "hubtrend-benchmark-*")
	if err != nil {
		fmt.Printf("  Failed to create temp dir: %v\n", err)
		return BenchmarkResult{Size: size, NoStoreTime: "ERROR", ColdTime: "ERROR", WarmTime: "ERROR"}
	}
	defer func() { _ = os.RemoveAll(dir) }()

	// Helper to run a benchmark phase
	runPhase := func(backend, connStr string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, hub.URL, backend, connStr, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", "", config.NoStoreRuns, "No-store")

	// Phase 2: SQLite runs against a fresh database file
	coldTime, warmAvg := runPhase("sqlite", filepath.Join(dir, "bench.db"), config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Size:        size,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes hubtrend fetch multiple times with the given store and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, hubURL, backend, connStr string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{"fetch", "--output", "json", "--base-url", hubURL, "--store-backend", backend}
	if connStr != "" {
		args = append(args, "--store-db-connect", connStr)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("hubtrend", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the run summary reports no errors
func isSuccess(output []byte) bool {
	var summary struct {
		Run struct {
			ErrorCount int `json:"error_count"`
		} `json:"run"`
	}
	if err := sonic.Unmarshal(output, &summary); err != nil {
		return false
	}
	return summary.Run.ErrorCount == 0
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/hubtrend_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"size", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.Size), result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	fmt.Printf("Fetch:\n")
	for _, result := range results {
		fmt.Printf("  %6d models: No-store: %s, Cold: %s, Warm: %s\n", result.Size, result.NoStoreTime, result.ColdTime, result.WarmTime)
	}
}
