package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ccollicutt/logstat/pkg/config"
	"github.com/ccollicutt/logstat/pkg/output"
)

func TestCollectWebhooks(t *testing.T) {
	t.Run("config only", func(t *testing.T) {
		cfg := &config.Config{
			Webhooks: []config.WebhookConfig{
				{Name: "slack", URL: "https://slack.com/webhook"},
				{Name: "pagerduty", URL: "https://pagerduty.com/webhook"},
			},
		}

		webhooks := collectWebhooks(cfg, &AnalyzeOptions{})

		if len(webhooks) != 2 {
			t.Errorf("got %d webhooks, want 2", len(webhooks))
		}
	})

	t.Run("cli only", func(t *testing.T) {
		opts := &AnalyzeOptions{
			WebhookURL:     "https://cli.example.com/webhook",
			WebhookToken:   "secret",
			WebhookTrigger: "always",
		}

		webhooks := collectWebhooks(&config.Config{}, opts)

		if len(webhooks) != 1 {
			t.Fatalf("got %d webhooks, want 1", len(webhooks))
		}
		if webhooks[0].Name != "cli" {
			t.Errorf("got name %q, want cli", webhooks[0].Name)
		}
		if webhooks[0].Token != "secret" {
			t.Errorf("got token %q, want secret", webhooks[0].Token)
		}
		if webhooks[0].Trigger != config.WebhookTriggerAlways {
			t.Errorf("got trigger %q, want always", webhooks[0].Trigger)
		}
	})

	t.Run("both", func(t *testing.T) {
		cfg := &config.Config{
			Webhooks: []config.WebhookConfig{{Name: "slack", URL: "https://slack.com/webhook"}},
		}
		opts := &AnalyzeOptions{WebhookURL: "https://cli.example.com/webhook"}

		webhooks := collectWebhooks(cfg, opts)

		if len(webhooks) != 2 {
			t.Fatalf("got %d webhooks, want 2", len(webhooks))
		}
		if webhooks[1].Trigger != config.WebhookTriggerOnIssues {
			t.Errorf("empty trigger should default to on_issues, got %q", webhooks[1].Trigger)
		}
	})
}

func TestRunAnalyze_Text(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeTestFile(t, tmpDir, "app.log", testLog)

	stdout, _, err := execute(t, "analyze", logPath)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	for _, want := range []string{
		"LOG ANALYSIS REPORT",
		"Period: 2024-1-15 10:23:45 to 2024-1-15 11:5:0",
		"Total Entries: 4",
		"Error Rate: 25.00%",
		"Peak Hour: 10:00 (2 entries)",
		"Most Active: storage (2 entries)",
		"Parse Errors: 1 lines skipped",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q:\n%s", want, stdout)
		}
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0 without --fail-on-errors", ExitCode)
	}
}

func TestRunAnalyze_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, tmpDir, "a.log", testLog)
	writeTestFile(t, tmpDir, "b.log", cleanLog)

	stdout, _, err := execute(t, "analyze", "-o", "json", "--concurrency", "2", filepath.Join(tmpDir, "*.log"))
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, stdout)
	}
	if report.Summary.TotalEntries != 6 {
		t.Errorf("TotalEntries = %d, want 6", report.Summary.TotalEntries)
	}
	if len(report.Metadata.Sources) != 2 {
		t.Errorf("Sources = %v, want 2 files", report.Metadata.Sources)
	}
	if report.ByLevel["Debug"] != 1 {
		t.Errorf("ByLevel = %v", report.ByLevel)
	}
}

func TestRunAnalyze_FailOnErrors(t *testing.T) {
	tmpDir := t.TempDir()
	dirty := writeTestFile(t, tmpDir, "dirty.log", testLog)
	clean := writeTestFile(t, tmpDir, "clean.log", cleanLog)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"issues without flag", []string{"analyze", "-q", dirty}, 0},
		{"issues with flag", []string{"analyze", "-q", "--fail-on-errors", dirty}, 1},
		{"clean with flag", []string{"analyze", "-q", "--fail-on-errors", clean}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err != nil {
				t.Fatalf("analyze error = %v", err)
			}
			if ExitCode != tt.want {
				t.Errorf("ExitCode = %d, want %d", ExitCode, tt.want)
			}
		})
	}
}

func TestRunAnalyze_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeTestFile(t, tmpDir, "app.log", testLog)
	emptyDir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"analyze", filepath.Join(tmpDir, "missing.log")}, "path does not exist"},
		{"no log files", []string{"analyze", emptyDir}, "no files with extension .log"},
		{"bad format", []string{"analyze", "-o", "xml", logPath}, "unknown output format"},
		{"bad concurrency", []string{"analyze", "--concurrency", "0", logPath}, "concurrency"},
		{"bad log level", []string{"--log-level", "loud", "analyze", logPath}, "logging"},
		{"bad webhook trigger", []string{"analyze", "--webhook-url", "https://example.com", "--webhook-trigger", "sometimes", logPath}, "invalid trigger"},
		{"missing config", []string{"--config", "/nonexistent.yaml", "analyze", logPath}, "loading config"},
		{"no args", []string{"analyze"}, "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("analyze error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunAnalyze_MetricsTextfile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeTestFile(t, tmpDir, "app.log", testLog)
	promPath := filepath.Join(tmpDir, "logstat.prom")

	if _, _, err := execute(t, "analyze", "-q", "--metrics-textfile", promPath, logPath); err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	data, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"logstat_files_processed_total 1",
		"logstat_records_parsed_total 4",
		`logstat_parse_errors_total{kind="invalid_timestamp"} 1`,
		`logstat_entries{level="Error"} 1`,
		"logstat_error_rate 0.25",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("metrics missing %q:\n%s", want, content)
		}
	}
}

func TestRunAnalyze_Webhook(t *testing.T) {
	var (
		mu       sync.Mutex
		payloads []map[string]interface{}
		auth     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		_ = json.Unmarshal(body, &payload)

		mu.Lock()
		payloads = append(payloads, payload)
		auth = r.Header.Get("Authorization")
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	dirty := writeTestFile(t, tmpDir, "dirty.log", testLog)
	clean := writeTestFile(t, tmpDir, "clean.log", cleanLog)

	// on_issues: clean input sends nothing
	if _, _, err := execute(t, "analyze", "-q", "--webhook-url", server.URL, clean); err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	mu.Lock()
	fired := len(payloads)
	mu.Unlock()
	if fired != 0 {
		t.Fatalf("webhook fired for clean input")
	}

	_, stderr, err := execute(t, "--log-level", "info", "analyze", "-q", "--webhook-url", server.URL, "--webhook-token", "tok", dirty)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(payloads) != 1 {
		t.Fatalf("got %d webhook calls, want 1", len(payloads))
	}
	if _, ok := payloads[0]["summary"]; !ok {
		t.Error("webhook payload missing summary")
	}
	if auth != "Bearer tok" {
		t.Errorf("Authorization = %q", auth)
	}
	if !strings.Contains(stderr, "webhook delivered") {
		t.Errorf("stderr missing delivery log:\n%s", stderr)
	}
}

func TestRunAnalyze_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	logDir := filepath.Join(tmpDir, "logs")
	if err := os.Mkdir(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, logDir, "app.out", cleanLog+"\n")
	promPath := filepath.Join(tmpDir, "run.prom")
	configPath := writeTestFile(t, tmpDir, "config.yaml", `
extensions: [out]
skip_blank_lines: true
metrics:
  textfile: `+promPath+`
logging:
  level: debug
  format: json
`)

	stdout, stderr, err := execute(t, "--config", configPath, "analyze", "-o", "json", "-q", logDir)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var summary output.Summary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if summary.TotalEntries != 2 || summary.ParseErrorCount != 0 {
		t.Errorf("Summary = %+v, want 2 entries and no parse errors", summary)
	}
	if _, err := os.Stat(promPath); err != nil {
		t.Errorf("metrics textfile from config not written: %v", err)
	}
	if !strings.Contains(stderr, `"message":"processed file"`) {
		t.Errorf("stderr missing json debug log:\n%s", stderr)
	}
}

func TestRunAnalyze_WebhookTokenFromConfig(t *testing.T) {
	var (
		mu   sync.Mutex
		auth string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = r.Header.Get("Authorization")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("LOGSTAT_TEST_TOKEN", "$tok")
	t.Setenv("tok", "wrong")

	tmpDir := t.TempDir()
	dirty := writeTestFile(t, tmpDir, "dirty.log", testLog)
	configPath := writeTestFile(t, tmpDir, "config.yaml", `
webhooks:
  - name: alerts
    url: `+server.URL+`
    token: "${LOGSTAT_TEST_TOKEN}"
`)

	if _, _, err := execute(t, "--config", configPath, "analyze", "-q", dirty); err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if auth != "Bearer $tok" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer $tok")
	}
}
