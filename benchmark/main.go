// Package main measures repopulse report latency across cache backends.
// Each report is run several times per backend: the first successful run is
// the cold time (upstream fetch) and the rest are averaged as warm time.
// Results are written to a timestamped CSV file.
//
// Prerequisites:
// - repopulse binary installed and available in PATH
// - GITHUB_TOKEN exported with read access to the benchmark repositories
//
// Usage: go run benchmark/main.go [months]
//
//	months: size of the report window ending today (default 3)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the cold and warm times for one repository and backend.
type BenchmarkResult struct {
	Repository string
	Backend    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout      time.Duration
	Runs         int
	Months       int
	Backends     []string
	Repositories []string
	WorkDir      string
}

func main() {
	months := 3
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 1 {
			fmt.Printf("Usage: %s [months]\n", os.Args[0])
			os.Exit(1)
		}
		months = n
	}

	workDir, err := os.MkdirTemp("", "repopulse-benchmark-")
	if err != nil {
		fmt.Printf("Failed to create work directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		Timeout:  5 * time.Minute,
		Runs:     4,
		Months:   months,
		Backends: []string{"none", "file", "sqlite"},
		Repositories: []string{
			"spf13/cobra",
			"gofiber/fiber",
			"golang/go",
		},
		WorkDir: workDir,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the binary and a token are available.
func checkPrerequisites() error {
	if _, err := exec.LookPath("repopulse"); err != nil {
		return fmt.Errorf("repopulse binary not found in PATH")
	}
	if os.Getenv("GITHUB_TOKEN") == "" && os.Getenv("REPOPULSE_TOKEN") == "" {
		return fmt.Errorf("GITHUB_TOKEN or REPOPULSE_TOKEN must be set")
	}
	return nil
}

// runBenchmarks executes every repository against every backend.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %d backends, %d months, %d runs, %v timeout\n",
		len(config.Repositories), len(config.Backends), config.Months, config.Runs, config.Timeout)

	for _, repo := range config.Repositories {
		fmt.Printf("Benchmarking %s\n", repo)
		for _, backend := range config.Backends {
			results = append(results, runBenchmarkSuite(config, repo, backend))
		}
	}
	return results
}

// runBenchmarkSuite runs one repository against one backend with a fresh cache.
func runBenchmarkSuite(config BenchmarkConfig, repo, backend string) BenchmarkResult {
	fmt.Printf("  %s backend (%d runs)\n", backend, config.Runs)

	cacheDir := filepath.Join(config.WorkDir, strings.ReplaceAll(repo, "/", "_"), backend)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		fmt.Printf("  Warning: failed to create cache directory: %v\n", err)
	}

	cold, warm := runBenchmark(config, repo, backend, cacheDir)

	coldStr := "TIMEOUT"
	if cold > 0 {
		coldStr = fmt.Sprintf("%.3fs", cold)
	}
	warmStr := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmStr = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmStr)
	return BenchmarkResult{Repository: repo, Backend: backend, ColdTime: coldStr, WarmTime: warmStr}
}

// runBenchmark runs the report numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, repo, backend, cacheDir string) (coldTime float64, warmTimes []float64) {
	args := []string{
		"report",
		"--repository", repo,
		"--lookback", fmt.Sprintf("%d months", config.Months),
		"--output", "json",
		"--view", "kpis",
		"--cache-backend", backend,
	}
	switch backend {
	case "file":
		args = append(args, "--cache-file", filepath.Join(cacheDir, "snapshot.json"))
	case "sqlite":
		args = append(args, "--cache-db-connect", filepath.Join(cacheDir, "cache.db"))
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("repopulse", args...)
		cmd.Dir = cacheDir

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
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the output is a kpis document.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), `"kpis"`)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("repopulse_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"repo", "backend", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Backend, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by backend.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, backend := range config.Backends {
		fmt.Printf("%s backend:\n", backend)
		for _, result := range results {
			if result.Backend == backend {
				fmt.Printf("  %-16s: Cold: %s, Warm: %s\n", result.Repository, result.ColdTime, result.WarmTime)
			}
		}
	}
}
