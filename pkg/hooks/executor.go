package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/sectorlens/pkg/debug"
)

// maxSummaryStderr bounds the stderr excerpt in Summary lines.
const maxSummaryStderr = 200

// HookResult records one hook run.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs configured hooks with the export context in their environment.
type Executor struct {
	config  *Config
	context ExportContext
	results []HookResult
}

// NewExecutor creates an executor. A nil config runs nothing.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, context: ctx}
}

// SetContext updates the context seen by later phases.
func (e *Executor) SetContext(ctx ExportContext) {
	e.context = ctx
}

// RunPreExport runs the pre-export hooks. The first failing hook with
// on_error "fail" stops the phase and its error is returned.
func (e *Executor) RunPreExport() error {
	return e.runPhase(PreExport, e.config.Hooks.PreExport)
}

// RunPostExport runs the post-export hooks. Every hook runs; the first
// failure of a hook with on_error "fail" is returned.
func (e *Executor) RunPostExport() error {
	return e.runPhase(PostExport, e.config.Hooks.PostExport)
}

func (e *Executor) runPhase(phase HookPhase, hooks []Hook) error {
	var firstErr error
	for _, h := range hooks {
		res := e.run(phase, h)
		e.results = append(e.results, res)
		if res.Success || h.OnError == "continue" {
			continue
		}
		err := fmt.Errorf("%s hook %q: %w", phase, h.Name, res.Error)
		if phase == PreExport {
			return err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Executor) run(phase HookPhase, h Hook) HookResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	// Children of the shell may hold the output pipes open after it is killed.
	cmd.WaitDelay = time.Second
	cmd.Env = append(os.Environ(), e.context.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := HookResult{
		Hook:     h,
		Phase:    phase,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Error = fmt.Errorf("timed out after %s", timeout)
	case err != nil:
		res.Error = err
	default:
		res.Success = true
	}
	debug.Log("hook %s/%s success=%v in %s", phase, h.Name, res.Success, res.Duration)
	return res
}

// Results returns every hook run so far, in order.
func (e *Executor) Results() []HookResult {
	return e.results
}

// Summary renders one line per hook plus totals, or "" when nothing ran.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var b strings.Builder
	ok, failed := 0, 0
	for _, r := range e.results {
		if r.Success {
			ok++
			fmt.Fprintf(&b, "  ok   %s %s (%s)\n", r.Phase, r.Hook.Name, r.Duration.Round(time.Millisecond))
			continue
		}
		failed++
		fmt.Fprintf(&b, "  FAIL %s %s: %v\n", r.Phase, r.Hook.Name, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&b, "       stderr: %s\n", truncate(r.Stderr, maxSummaryStderr))
		}
	}
	fmt.Fprintf(&b, "hooks: %d succeeded, %d failed", ok, failed)
	return b.String()
}

// RunHooks loads the hooks of projectDir and returns an executor, or nil
// when hooks are disabled or none are configured.
func RunHooks(projectDir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ctx), nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
