// Package logging provides the shared slog backend for all server
// subsystems. Log output goes to stdout and, when configured, to a
// rotating logfile.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogConfig holds the configuration for the log backend.
type LogConfig struct {
	LogFile        string // Path to the logfile ("" disables file logging)
	DebugLevel     string // Default level, or per-subsystem "SUBSYS=level" pairs separated by commas
	MaxLogFiles    int
	MaxBufferLines int
}

// LogBackend wraps a slog backend together with its logfile rotator.
type LogBackend struct {
	backend    *slog.Backend
	rotator    *rotator.Rotator
	defaultLvl slog.Level
	levels     map[string]slog.Level
	loggers    map[string]slog.Logger
}

// logWriter fans every log line out to stdout and the rotator.
type logWriter struct {
	r *rotator.Rotator
}

func (w *logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if w.r != nil {
		return w.r.Write(p)
	}
	return len(p), nil
}

// NewLogBackend creates a log backend from the given config.
func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	b := &LogBackend{
		defaultLvl: slog.LevelInfo,
		levels:     make(map[string]slog.Level),
		loggers:    make(map[string]slog.Logger),
	}

	if cfg.LogFile != "" {
		logDir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %v", err)
		}
		maxFiles := cfg.MaxLogFiles
		if maxFiles == 0 {
			maxFiles = 3
		}
		r, err := rotator.New(cfg.LogFile, 1024, false, maxFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to create file rotator: %v", err)
		}
		b.rotator = r
	}

	var w io.Writer = &logWriter{r: b.rotator}
	b.backend = slog.NewBackend(w)

	if err := b.parseDebugLevel(cfg.DebugLevel); err != nil {
		return nil, err
	}
	return b, nil
}

// parseDebugLevel accepts either a single level ("debug") or a list of
// "SUBSYS=level" pairs separated by commas.
func (b *LogBackend) parseDebugLevel(debugLevel string) error {
	if debugLevel == "" {
		return nil
	}
	if lvl, ok := slog.LevelFromString(debugLevel); ok {
		b.defaultLvl = lvl
		return nil
	}
	for _, pair := range strings.Split(debugLevel, ",") {
		subsys, lvlStr, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid debug level pair %q", pair)
		}
		lvl, ok := slog.LevelFromString(lvlStr)
		if !ok {
			return fmt.Errorf("invalid debug level %q", lvlStr)
		}
		b.levels[subsys] = lvl
	}
	return nil
}

// Logger returns the logger for the given subsystem, creating it on first
// use.
func (b *LogBackend) Logger(subsys string) slog.Logger {
	if log, ok := b.loggers[subsys]; ok {
		return log
	}
	log := b.backend.Logger(subsys)
	lvl := b.defaultLvl
	if override, ok := b.levels[subsys]; ok {
		lvl = override
	}
	log.SetLevel(lvl)
	b.loggers[subsys] = log
	return log
}

// Close flushes and closes the logfile rotator.
func (b *LogBackend) Close() error {
	if b.rotator != nil {
		return b.rotator.Close()
	}
	return nil
}
