// Package debug provides conditional debug logging for sectorlens.
//
// Debug logging is enabled by setting the SECTORLENS_DEBUG environment variable:
//
//	SECTORLENS_DEBUG=1 sectorlens -data data/dashboard_data.json
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	debug.Log("merged overlay for %d sectors", n)
//	defer debug.LogEnterExit("renderAll")()
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const prefix = "[SL_DEBUG] "

var (
	// enabled is true when SECTORLENS_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [SL_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("SECTORLENS_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output.
func SetOutput(w io.Writer) {
	if logger == nil {
		logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
		return
	}
	logger.SetOutput(w)
}

// ToFile appends debug output to path until the returned func is called,
// which restores the previous writer and closes the file. The TUI uses it so
// log lines never tear the alternate screen. It does nothing while debug
// logging is disabled.
func ToFile(path string) (func(), error) {
	if !enabled {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating debug log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	prev := logger.Writer()
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(prev)
		f.Close()
	}, nil
}

// Log writes a debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func renderAll() {
//	    defer debug.LogEnterExit("renderAll")()
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	if !enabled {
		return
	}
	logger.Printf("=== %s ===", name)
}
