package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const testLog = `2024-01-15 10:23:45 [INFO] storage: Started
2024-01-15 10:24:00 [ERROR] storage: Failed to mount filesystem /dev/sda1
this line is garbage
2024-01-15 11:00:00 [WARN] network: Slow response
2024-01-15 11:05:00 [INFO] network: Recovered
`

const cleanLog = `2024-01-15 10:23:45 [INFO] storage: Started
2024-01-15 11:05:00 [DEBUG] network: Recovered
`

// execute runs args against a root command wired like the real one.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	global := &GlobalOptions{}
	root := &cobra.Command{Use: "logstat", SilenceUsage: true, SilenceErrors: true}
	global.Bind(root)
	root.AddCommand(
		NewAnalyzeCommand(global),
		NewCheckCommand(global),
		NewValidateCommand(),
		NewVersionCommand(),
	)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand(&GlobalOptions{})

	if cmd.Use != "analyze <path|glob>..." {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{
		"output", "verbose", "quiet", "concurrency", "skip-blank-lines",
		"metrics-textfile", "fail-on-errors", "webhook-url", "webhook-token", "webhook-trigger",
	}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand(&GlobalOptions{})

	if cmd.Use != "check <path|glob>..." {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("skip-blank-lines") == nil {
		t.Error("Missing flag: skip-blank-lines")
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestGlobalOptions_Bind(t *testing.T) {
	root := &cobra.Command{Use: "logstat"}
	(&GlobalOptions{}).Bind(root)

	for _, flag := range []string{"config", "log-level", "log-format"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag: %s", flag)
		}
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if stdout != "logstat dev\n" {
		t.Errorf("version output = %q", stdout)
	}
}

func TestRunValidate_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeTestFile(t, tmpDir, "config.yaml", `
extensions: [log, txt]
concurrency: 4
logging:
  level: info
webhooks:
  - name: alerts
    url: https://example.com/hook
`)

	stdout, _, err := execute(t, "validate", configPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	for _, want := range []string{
		"Configuration valid!",
		"Extensions:       .log, .txt",
		"Concurrency:      4",
		"Logging:          info (console)",
		"1. alerts [on_issues, timeout 10s]",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeTestFile(t, tmpDir, "config.yaml", "concurrency: 0\n")

	_, _, err := execute(t, "validate", configPath)
	if err == nil {
		t.Fatal("Expected error for invalid config")
	}
	if !strings.Contains(err.Error(), "concurrency") {
		t.Errorf("Error should name the field: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunCheck_WithErrors(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeTestFile(t, tmpDir, "app.log", testLog)

	stdout, _, err := execute(t, "check", logPath)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	if !strings.Contains(stdout, logPath+":3: invalid timestamp") {
		t.Errorf("Output missing location:\n%s", stdout)
	}
	if !strings.Contains(stdout, "    this line is garbage") {
		t.Errorf("Output missing offending line:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1 line(s) failed to parse, 4 entries in 1 file(s)") {
		t.Errorf("Output missing summary:\n%s", stdout)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunCheck_Clean(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, tmpDir, "app.log", cleanLog)

	stdout, _, err := execute(t, "check", tmpDir)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if stdout != "OK: 2 entries in 1 file(s)\n" {
		t.Errorf("check output = %q", stdout)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestRunCheck_SkipBlankLines(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeTestFile(t, tmpDir, "app.log", cleanLog+"\n\n")

	if _, _, err := execute(t, "check", logPath); err != nil {
		t.Fatalf("check error = %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("blank lines should fail by default, ExitCode = %d", ExitCode)
	}

	if _, _, err := execute(t, "check", "--skip-blank-lines", logPath); err != nil {
		t.Fatalf("check error = %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d with --skip-blank-lines, want 0", ExitCode)
	}
}

func TestRunCheck_MissingPath(t *testing.T) {
	_, _, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.log"))
	if err == nil || !strings.Contains(err.Error(), "path does not exist") {
		t.Errorf("check error = %v, want path does not exist", err)
	}
}

func TestRunCheck_ConfigExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	logDir := filepath.Join(tmpDir, "logs")
	if err := os.Mkdir(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, logDir, "app.txt", cleanLog)
	configPath := writeTestFile(t, tmpDir, "config.yaml", "extensions: [txt]\n")

	stdout, _, err := execute(t, "--config", configPath, "check", logDir)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.HasPrefix(stdout, "OK: 2 entries") {
		t.Errorf("check output = %q", stdout)
	}
}
