package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/tasker/internal/config"
)

// testEnv writes a config file pointing at a fresh store.
func testEnv(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Store.Backend = backend
	cfg.Store.Path = filepath.Join(dir, "tasks."+backend)
	cfg.Log.Level = "error"

	path := filepath.Join(dir, "config.json")
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("saving config: %v", err)
	}
	return path
}

// run executes the CLI with args and returns stdout and the error.
func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

// tableNames returns the first column of each table row, skipping the header.
func tableNames(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		cells := strings.FieldsFunc(line, func(r rune) bool { return r == '│' || r == '|' })
		if len(cells) < 5 {
			continue
		}
		name := strings.TrimSpace(cells[0])
		if name == "" || name == "NAME" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func mustRun(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	out, err := run(t, configPath, args...)
	if err != nil {
		t.Fatalf("tasker %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCommandsEndToEnd(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfgPath := testEnv(t, backend)

			out := mustRun(t, cfgPath, "add", "A", "--priority", "2", "--due", "2025-01-01")
			if !strings.Contains(out, "Added A (executable)") {
				t.Errorf("add A output = %q", out)
			}
			out = mustRun(t, cfgPath, "add", "B", "-p", "1", "-d", "2025-02-01", "--deps", "A")
			if !strings.Contains(out, "Added B (blocked)") {
				t.Errorf("add B output = %q", out)
			}
			mustRun(t, cfgPath, "add", "C", "-p", "3", "-d", "2024-12-01")

			out = mustRun(t, cfgPath, "next")
			if !strings.HasPrefix(out, "A (priority 2") {
				t.Errorf("next output = %q, want A", out)
			}

			out = mustRun(t, cfgPath, "list")
			if got := strings.Join(tableNames(out), ","); got != "B,A,C" {
				t.Errorf("list by priority = %s, want B,A,C:\n%s", got, out)
			}

			out = mustRun(t, cfgPath, "list", "--order", "due_date")
			if got := strings.Join(tableNames(out), ","); got != "C,A,B" {
				t.Errorf("list by due date = %s, want C,A,B:\n%s", got, out)
			}

			out = mustRun(t, cfgPath, "complete", "A")
			if !strings.Contains(out, "Completed A") || !strings.Contains(out, "Now executable: B") {
				t.Errorf("complete output = %q", out)
			}

			out = mustRun(t, cfgPath, "next")
			if !strings.HasPrefix(out, "B ") {
				t.Errorf("next after completing A = %q, want B", out)
			}

			out = mustRun(t, cfgPath, "plan")
			if got := strings.Join(tableNames(out), ","); got != "B,C" && got != "C,B" {
				t.Errorf("plan = %s, want B and C only:\n%s", got, out)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	cfgPath := testEnv(t, config.BackendJSON)
	mustRun(t, cfgPath, "add", "A", "--due", "2025-01-01")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", []string{"add", "A", "--due", "2025-01-01"}, "duplicate task name"},
		{"bad priority", []string{"add", "X", "--priority", "high", "--due", "2025-01-01"}, "invalid argument"},
		{"unknown dependency", []string{"add", "X", "--due", "2025-01-01", "--deps", "nope"}, "unknown dependency"},
		{"missing due", []string{"add", "X"}, "due"},
		{"malformed due", []string{"add", "X", "--due", "next tuesday"}, "malformed date"},
		{"complete unknown", []string{"complete", "nope"}, "not found or already completed"},
		{"bad order", []string{"list", "--order", "size"}, "unknown order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, cfgPath, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}

	// Completing twice fails the same way as an unknown name
	mustRun(t, cfgPath, "complete", "A")
	if _, err := run(t, cfgPath, "complete", "A"); err == nil || !strings.Contains(err.Error(), "not found or already completed") {
		t.Errorf("second complete error = %v", err)
	}
}

// TestMalformedDueDateNotStored verifies a rejected date leaves due-date
// listings working.
func TestMalformedDueDateNotStored(t *testing.T) {
	cfgPath := testEnv(t, config.BackendJSON)
	mustRun(t, cfgPath, "add", "A", "--due", "2025-01-01")

	if _, err := run(t, cfgPath, "add", "B", "--due", "2025-13-01"); err == nil {
		t.Fatal("expected malformed date error")
	}

	out := mustRun(t, cfgPath, "list", "--order", "due_date")
	if got := strings.Join(tableNames(out), ","); got != "A" {
		t.Errorf("list by due date = %s, want A:\n%s", got, out)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nested", "config.json")
	storePath := filepath.Join(dir, "tasks.db")

	out := mustRun(t, cfgPath, "--backend", "sqlite", "--store", storePath, "config", "init")
	if !strings.Contains(out, "Wrote "+cfgPath) {
		t.Errorf("config init output = %q", out)
	}

	cfg, err := config.Load("", cfgPath)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.Store.Backend != config.BackendSQLite || cfg.Store.Path != storePath {
		t.Errorf("store = %+v, want sqlite at %s", cfg.Store, storePath)
	}
	if cfg.List.DefaultOrder != "priority" {
		t.Errorf("default order = %q, want priority", cfg.List.DefaultOrder)
	}

	// The written file drives later commands
	mustRun(t, cfgPath, "add", "A", "--due", "2025-01-01")
	if _, err := os.Stat(storePath); err != nil {
		t.Errorf("expected sqlite store at %s: %v", storePath, err)
	}

	if _, err := run(t, cfgPath, "config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}

	// --force keeps existing settings unless overridden
	mustRun(t, cfgPath, "--backend", "json", "config", "init", "--force")
	cfg, err = config.Load("", cfgPath)
	if err != nil {
		t.Fatalf("loading rewritten config: %v", err)
	}
	if cfg.Store.Backend != config.BackendJSON || cfg.Store.Path != storePath {
		t.Errorf("store after --force = %+v, want json at %s", cfg.Store, storePath)
	}
}

func TestEmptyStoreOutput(t *testing.T) {
	cfgPath := testEnv(t, config.BackendJSON)

	if out := mustRun(t, cfgPath, "list"); !strings.Contains(out, "No pending tasks") {
		t.Errorf("list output = %q", out)
	}
	if out := mustRun(t, cfgPath, "next"); !strings.Contains(out, "No executable tasks") {
		t.Errorf("next output = %q", out)
	}
	if out := mustRun(t, cfgPath, "plan"); !strings.Contains(out, "No pending tasks") {
		t.Errorf("plan output = %q", out)
	}
}

func TestFlagOverrides(t *testing.T) {
	cfgPath := testEnv(t, config.BackendJSON)
	storePath := filepath.Join(t.TempDir(), "override.db")

	mustRun(t, cfgPath, "--store", storePath, "--backend", "sqlite", "add", "A", "--due", "2025-01-01")
	if _, err := os.Stat(storePath); err != nil {
		t.Fatalf("expected sqlite store at %s: %v", storePath, err)
	}

	// The configured JSON store was never written
	if out := mustRun(t, cfgPath, "list"); !strings.Contains(out, "No pending tasks") {
		t.Errorf("configured store should be empty, got %q", out)
	}

	if _, err := run(t, cfgPath, "--backend", "csv", "list"); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := run(t, filepath.Join(t.TempDir(), "missing.json"), "list"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCmd()
	want := map[string]bool{"add": false, "list": false, "complete": false, "next": false, "plan": false, "config": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing %s command", name)
		}
	}
	for _, flag := range []string{"config", "store", "backend"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}
