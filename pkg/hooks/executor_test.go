package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeHooksFile(t *testing.T, dir, content string) {
	t.Helper()
	d := filepath.Join(dir, ".sectorlens")
	if err := os.MkdirAll(d, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(d, "hooks.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write hooks.yaml: %v", err)
	}
}

func TestExportContextToEnv(t *testing.T) {
	ctx := ExportContext{
		Dir:          "/tmp/out",
		Format:       "svg",
		SurfaceCount: 8,
		Year:         "2021*",
		Segment:      "core",
		Timestamp:    time.Date(2025, 11, 30, 10, 30, 0, 0, time.UTC),
	}
	env := strings.Join(ctx.ToEnv(), "\n")
	for _, want := range []string{
		"SECTORLENS_EXPORT_DIR=/tmp/out",
		"SECTORLENS_EXPORT_FORMAT=svg",
		"SECTORLENS_SURFACE_COUNT=8",
		"SECTORLENS_YEAR=2021*",
		"SECTORLENS_SEGMENT=core",
		"SECTORLENS_SQLITE_PATH=",
		"SECTORLENS_TIMESTAMP=2025-11-30T10:30:00Z",
	} {
		if !strings.Contains(env, want) {
			t.Errorf("env missing %q:\n%s", want, env)
		}
	}
}

func TestLoaderNoConfig(t *testing.T) {
	loader := NewLoader(WithProjectDir(t.TempDir()))
	if err := loader.Load(); err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if loader.HasHooks() {
		t.Error("expected no hooks")
	}
}

func TestLoaderDefaults(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, `
hooks:
  pre-export:
    - name: validate
      command: echo validating
      timeout: 5s
    - command: "  "
  post-export:
    - command: echo done
      timeout: 30
      env:
        CUSTOM_VAR: custom_value
`)
	loader := NewLoader(WithProjectDir(dir))
	if err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	pre := loader.GetHooks(PreExport)
	if len(pre) != 1 {
		t.Fatalf("pre-export hooks = %d, want 1", len(pre))
	}
	if pre[0].Timeout != 5*time.Second || pre[0].OnError != "fail" {
		t.Errorf("pre hook = %+v", pre[0])
	}
	if len(loader.Warnings()) != 1 {
		t.Errorf("warnings = %v, want one for the empty command", loader.Warnings())
	}

	post := loader.GetHooks(PostExport)
	if len(post) != 1 {
		t.Fatalf("post-export hooks = %d, want 1", len(post))
	}
	if post[0].Name != "post-export-1" || post[0].OnError != "continue" || post[0].Timeout != 30*time.Second {
		t.Errorf("post hook = %+v", post[0])
	}
	if post[0].Env["CUSTOM_VAR"] != "custom_value" {
		t.Errorf("env = %v", post[0].Env)
	}

	if hooks := loader.GetHooks(HookPhase("unknown")); hooks != nil {
		t.Errorf("unknown phase returned %v", hooks)
	}
}

func TestLoaderBadTimeout(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, "hooks:\n  pre-export:\n    - command: echo\n      timeout: soon\n")
	if err := NewLoader(WithProjectDir(dir)).Load(); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestExecutorEnvironment(t *testing.T) {
	t.Setenv("TEST_HOOK_VAR", "expanded_value")
	config := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "ctx", Command: "echo $SECTORLENS_EXPORT_DIR $SECTORLENS_YEAR", Timeout: 5 * time.Second, OnError: "fail"},
		{Name: "custom", Command: "echo $CUSTOM_VAR", Timeout: 5 * time.Second, OnError: "fail",
			Env: map[string]string{"CUSTOM_VAR": "${TEST_HOOK_VAR}"}},
	}}}

	exec := NewExecutor(config, ExportContext{Dir: "/custom/out", Year: "2020"})
	if err := exec.RunPreExport(); err != nil {
		t.Fatalf("RunPreExport: %v", err)
	}
	res := exec.Results()
	if len(res) != 2 {
		t.Fatalf("results = %d, want 2", len(res))
	}
	if res[0].Stdout != "/custom/out 2020" {
		t.Errorf("stdout = %q", res[0].Stdout)
	}
	if res[1].Stdout != "expanded_value" {
		t.Errorf("stdout = %q", res[1].Stdout)
	}
}

func TestExecutorPreExportStopsOnFailure(t *testing.T) {
	config := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "fail", Command: "exit 1", Timeout: time.Second, OnError: "fail"},
		{Name: "never", Command: "echo ran", Timeout: time.Second, OnError: "fail"},
	}}}
	exec := NewExecutor(config, ExportContext{})
	if err := exec.RunPreExport(); err == nil {
		t.Fatal("expected error")
	}
	if len(exec.Results()) != 1 {
		t.Errorf("results = %d, want 1", len(exec.Results()))
	}
}

func TestExecutorPostExportRunsAll(t *testing.T) {
	config := &Config{Hooks: HooksByPhase{PostExport: []Hook{
		{Name: "fail", Command: "exit 1", Timeout: time.Second, OnError: "fail"},
		{Name: "still", Command: "echo still-running", Timeout: time.Second, OnError: "continue"},
	}}}
	exec := NewExecutor(config, ExportContext{})
	if err := exec.RunPostExport(); err == nil {
		t.Fatal("expected error from the failing hook")
	}
	res := exec.Results()
	if len(res) != 2 || !res[1].Success || res[1].Stdout != "still-running" {
		t.Errorf("results = %+v", res)
	}
}

func TestExecutorContinueSwallowsFailure(t *testing.T) {
	config := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "soft", Command: "exit 3", Timeout: time.Second, OnError: "continue"},
	}}}
	exec := NewExecutor(config, ExportContext{})
	if err := exec.RunPreExport(); err != nil {
		t.Errorf("continue hook should not fail the phase: %v", err)
	}
}

func TestExecutorTimeout(t *testing.T) {
	config := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "slow", Command: "sleep 10", Timeout: 100 * time.Millisecond, OnError: "fail"},
	}}}
	exec := NewExecutor(config, ExportContext{})
	if err := exec.RunPreExport(); err == nil {
		t.Fatal("expected timeout error")
	}
	res := exec.Results()[0]
	if res.Success || res.Duration < 100*time.Millisecond {
		t.Errorf("result = %+v", res)
	}
}

func TestExecutorCommandNotFound(t *testing.T) {
	config := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "missing", Command: "definitely-not-a-real-command-xyz", Timeout: time.Second, OnError: "fail"},
	}}}
	exec := NewExecutor(config, ExportContext{})
	if err := exec.RunPreExport(); err == nil {
		t.Fatal("expected error")
	}
	if exec.Results()[0].Stderr == "" {
		t.Error("expected the shell error on stderr")
	}
}

func TestExecutorSummary(t *testing.T) {
	config := &Config{Hooks: HooksByPhase{
		PreExport:  []Hook{{Name: "ok", Command: "echo ok", Timeout: time.Second, OnError: "continue"}},
		PostExport: []Hook{{Name: "noisy", Command: "printf '%0300d' 0 1>&2; exit 1", Timeout: time.Second, OnError: "continue"}},
	}}
	exec := NewExecutor(config, ExportContext{})
	if exec.Summary() != "" {
		t.Error("summary before any run should be empty")
	}
	_ = exec.RunPreExport()
	_ = exec.RunPostExport()

	summary := exec.Summary()
	if !strings.Contains(summary, "1 succeeded") || !strings.Contains(summary, "1 failed") {
		t.Errorf("summary missing totals:\n%s", summary)
	}
	for _, line := range strings.Split(summary, "\n") {
		if strings.Contains(line, "stderr:") && len(line) > 230 {
			t.Errorf("stderr line not truncated: %d chars", len(line))
		}
	}
	if !strings.Contains(summary, "...") {
		t.Error("expected ellipsis for truncated stderr")
	}
}

func TestRunHooks(t *testing.T) {
	dir := t.TempDir()
	if exec, err := RunHooks(dir, ExportContext{}, false); err != nil || exec != nil {
		t.Fatalf("missing config: exec=%v err=%v", exec, err)
	}

	writeHooksFile(t, dir, "hooks:\n  pre-export:\n    - command: echo hi\n")
	if exec, err := RunHooks(dir, ExportContext{}, true); err != nil || exec != nil {
		t.Fatalf("disabled hooks: exec=%v err=%v", exec, err)
	}
	exec, err := RunHooks(dir, ExportContext{}, false)
	if err != nil || exec == nil {
		t.Fatalf("RunHooks: exec=%v err=%v", exec, err)
	}
	if err := exec.RunPreExport(); err != nil {
		t.Fatal(err)
	}
	if got := exec.Results()[0].Stdout; got != "hi" {
		t.Errorf("stdout = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghijklmnopqrstuvwxyz", 8); got != "abcde..." {
		t.Errorf("got %q", got)
	}
}
