package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"AuthGate/pkg/config"
)

// ResultItem is one scenario outcome.
type ResultItem struct {
	Scenario   string `json:"scenario"`
	Passed     bool   `json:"passed"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Timestamp  string `json:"timestamp"`
}

type RunSummary struct {
	RunID             string       `json:"run_id"`
	BaseURL           string       `json:"base_url"`
	StartedAt         string       `json:"started_at"`
	EndedAt           string       `json:"ended_at"`
	Env               string       `json:"env"`
	RevocationBackend string       `json:"revocation_backend,omitempty"`
	Only              string       `json:"only,omitempty"`
	Total             int          `json:"total"`
	Failed            int          `json:"failed"`
	Results           []ResultItem `json:"results"`
}

func ensureDir(p string) error {
	return os.MkdirAll(p, 0o755)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, items []ResultItem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	_ = w.Write([]string{"scenario", "passed", "duration_ms", "error"})
	for _, it := range items {
		_ = w.Write([]string{it.Scenario, strconv.FormatBool(it.Passed), fmt.Sprintf("%d", it.DurationMs), it.Error})
	}
	return nil
}

// filterScenarios keeps scenarios whose name contains one of the
// comma-separated substrings in only. An empty filter keeps everything.
func filterScenarios(all []scenario, only string) []scenario {
	only = strings.TrimSpace(only)
	if only == "" {
		return all
	}
	var subs []string
	for _, t := range strings.Split(only, ",") {
		if v := strings.ToLower(strings.TrimSpace(t)); v != "" {
			subs = append(subs, v)
		}
	}
	out := make([]scenario, 0, len(all))
	for _, s := range all {
		for _, sub := range subs {
			if strings.Contains(s.Name, sub) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func runAll(c *client, list []scenario, timeout time.Duration) []ResultItem {
	results := make([]ResultItem, 0, len(list))
	for _, s := range list {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		t0 := time.Now()
		err := s.Run(ctx, c)
		cancel()
		r := ResultItem{
			Scenario:   s.Name,
			Passed:     err == nil,
			DurationMs: time.Since(t0).Milliseconds(),
			Timestamp:  time.Now().Format(time.RFC3339),
		}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func main() {
	baseURL := strings.TrimSpace(os.Getenv("SMOKE_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:" + config.Port
	}
	timeoutSec := 15
	if s := strings.TrimSpace(os.Getenv("SMOKE_TIMEOUT_SEC")); s != "" {
		if v, e := strconv.Atoi(s); e == nil && v > 0 {
			timeoutSec = v
		}
	}
	only := os.Getenv("SMOKE_ONLY")

	c := newClient(baseURL)
	started := time.Now()
	runID := fmt.Sprintf("smoke-%s", started.Format("20060102-150405"))

	var backend string
	hctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	if code, body, err := c.do(hctx, http.MethodGet, "/health", "", nil); err == nil && code == http.StatusOK {
		backend, _ = body["revocation_backend"].(string)
		if backend == "memory" {
			fmt.Println("[warn] server runs with the in-memory revocation store; revocations are lost on restart")
		}
	} else {
		fmt.Printf("[warn] health check failed: code=%d err=%v\n", code, err)
	}
	cancel()

	list := filterScenarios(scenarios(), only)
	results := runAll(c, list, time.Duration(timeoutSec)*time.Second)
	failed := 0
	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAIL " + r.Error
			failed++
		}
		fmt.Printf("[%s] %dms %s\n", r.Scenario, r.DurationMs, status)
	}

	outDir := strings.TrimSpace(os.Getenv("SMOKE_OUT_DIR"))
	if outDir == "" {
		outDir = filepath.Join("cmd", "smoke", "results")
	}
	if err := ensureDir(outDir); err != nil {
		fmt.Println("failed to create results dir:", err)
		os.Exit(1)
	}
	stamp := time.Now().Format("20060102-150405")
	jsonPath := filepath.Join(outDir, fmt.Sprintf("smoke-%s.json", stamp))
	csvPath := filepath.Join(outDir, fmt.Sprintf("smoke-%s.csv", stamp))

	summary := RunSummary{
		RunID:             runID,
		BaseURL:           baseURL,
		StartedAt:         started.Format(time.RFC3339),
		EndedAt:           time.Now().Format(time.RFC3339),
		Env:               config.AppEnv,
		RevocationBackend: backend,
		Only:              strings.TrimSpace(only),
		Total:             len(results),
		Failed:            failed,
		Results:           results,
	}
	if err := writeJSON(jsonPath, summary); err != nil {
		fmt.Println("failed to write JSON:", err)
		os.Exit(1)
	}
	if err := writeCSV(csvPath, results); err != nil {
		fmt.Println("failed to write CSV:", err)
		os.Exit(1)
	}

	fmt.Println("\nSaved:")
	fmt.Println(" -", jsonPath)
	fmt.Println(" -", csvPath)
	if failed > 0 {
		os.Exit(1)
	}
}
