// Package main provides tests for the leapparse CLI.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapparse/internal/cli"
	"github.com/leapstack-labs/leapparse/internal/cli/commands"
	"github.com/leapstack-labs/leapparse/pkg/parser"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, _, err := execute(t, "", "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "leapparse") {
		t.Errorf("version output should contain 'leapparse', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, _, err := execute(t, "", "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"parse", "tokens", "check", "repl", "completion"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestParseCommandText(t *testing.T) {
	output, _, err := execute(t, "select a from t", "parse", "-o", "text")
	if err != nil {
		t.Fatalf("parse command error = %v", err)
	}
	if output != "SELECT\n  a\nFROM t\n" {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestParseCommandEnvOutput(t *testing.T) {
	t.Setenv("LEAPPARSE_OUTPUT", "json")

	output, _, err := execute(t, "SELECT 1", "parse")
	if err != nil {
		t.Fatalf("parse command error = %v", err)
	}
	if !strings.Contains(output, `"ok": true`) {
		t.Errorf("LEAPPARSE_OUTPUT=json should select JSON output, got: %s", output)
	}

	// Flag wins over env
	output, _, err = execute(t, "SELECT 1", "parse", "--output", "text")
	if err != nil {
		t.Fatalf("parse command error = %v", err)
	}
	if strings.Contains(output, `"ok"`) {
		t.Errorf("--output text should override env, got: %s", output)
	}
}

func TestParseCommandMaxDepthFlag(t *testing.T) {
	_, _, err := execute(t, "SELECT ((((1))))", "parse", "--max-depth", "3")
	if !errors.Is(err, parser.ErrTooDeep) {
		t.Errorf("expected ErrTooDeep, got %v", err)
	}
}

func TestParseCommandConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("parser:\n  max_depth: 3\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "SELECT ((((1))))", "parse", "--config", cfgPath)
	if !errors.Is(err, parser.ErrTooDeep) {
		t.Errorf("expected ErrTooDeep from config file limit, got %v", err)
	}

	_, _, err = execute(t, "SELECT 1", "parse", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseCommandFailure(t *testing.T) {
	_, errOut, err := execute(t, "SELECT * FORM users", "parse", "-o", "text")
	if !errors.Is(err, commands.ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
	if !strings.Contains(errOut, "did you mean FROM?") {
		t.Errorf("diagnostic should suggest FROM, got: %s", errOut)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ok.sql"), []byte("SELECT 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("SELECT (1"), 0644); err != nil {
		t.Fatal(err)
	}

	output, _, err := execute(t, "", "check", dir, "--concurrency", "1", "-o", "markdown")
	if !errors.Is(err, commands.ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	if !strings.Contains(output, "2 files checked, 1 passed, 1 failed") {
		t.Errorf("unexpected summary, got: %s", output)
	}
}

func TestCompletionCommand(t *testing.T) {
	output, _, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion command error = %v", err)
	}
	if !strings.Contains(output, "leapparse") {
		t.Errorf("completion script should mention leapparse")
	}
}
