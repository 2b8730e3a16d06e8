package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/pomotask/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// defaultDevLogDir anchors dev logs under the workspace root.
const defaultDevLogDir = ".pomotask/log"

// runtimeLogger writes to a styled console and, in dev mode, a rotating logfmt file.
// The console is muted while the TUI owns the terminal; the file never is.
type runtimeLogger struct {
	console      *charmLog.Logger
	consoleMuted bool

	file    *charmLog.Logger
	rotator *lumberjack.Logger
}

// newRuntimeLogger builds the console sink and, when dev mode enables it, the file sink.
// Each sink filters at its own level: logging.level for the console, logging.dev_file.level for the file.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, now func() time.Time) (*runtimeLogger, error) {
	consoleLevel, err := parseLevel("logging.level", cfg.Level)
	if err != nil {
		return nil, err
	}
	if stderr == nil {
		stderr = io.Discard
	}
	l := &runtimeLogger{
		console: newSink(stderr, appName, consoleLevel, charmLog.TextFormatter),
	}
	if !devMode || !cfg.DevFile.Enabled {
		return l, nil
	}

	fileLevel, err := parseLevel("logging.dev_file.level", cfg.FileLevel())
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	path, err := devLogFilePath(cfg.DevFile.Dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	l.rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.DevFile.MaxSizeMB,
		MaxBackups: cfg.DevFile.MaxBackups,
	}
	l.file = newSink(l.rotator, appName, fileLevel, charmLog.LogfmtFormatter)
	return l, nil
}

func parseLevel(key, raw string) (charmLog.Level, error) {
	level, err := charmLog.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	return level, nil
}

func newSink(w io.Writer, appName string, level charmLog.Level, formatter charmLog.Formatter) *charmLog.Logger {
	return charmLog.NewWithOptions(w, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})
}

// DevLogPath returns the active dev log file path, or "" without a file sink.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil || l.rotator == nil {
		return ""
	}
	return l.rotator.Filename
}

// Close flushes and closes the rotating file.
func (l *runtimeLogger) Close() error {
	if l == nil || l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// SetConsoleEnabled mutes or unmutes the console sink.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l != nil {
		l.consoleMuted = !enabled
	}
}

// ConsoleEnabled reports whether console output is currently visible.
func (l *runtimeLogger) ConsoleEnabled() bool {
	return l != nil && !l.consoleMuted
}

func (l *runtimeLogger) emit(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	if !l.consoleMuted {
		l.console.Log(level, msg, keyvals...)
	}
	if l.file != nil {
		l.file.Log(level, msg, keyvals...)
	}
}

func (l *runtimeLogger) Debug(msg string, keyvals ...any) { l.emit(charmLog.DebugLevel, msg, keyvals...) }
func (l *runtimeLogger) Info(msg string, keyvals ...any)  { l.emit(charmLog.InfoLevel, msg, keyvals...) }
func (l *runtimeLogger) Warn(msg string, keyvals ...any)  { l.emit(charmLog.WarnLevel, msg, keyvals...) }
func (l *runtimeLogger) Error(msg string, keyvals ...any) { l.emit(charmLog.ErrorLevel, msg, keyvals...) }

// devLogFilePath returns <dir>/<app>-YYYYMMDD.log; a relative dir is joined to the workspace root.
func devLogFilePath(dir, appName string, day time.Time) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultDevLogDir
	}
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		dir = filepath.Join(workspaceRootFrom(cwd), dir)
	}
	name := fmt.Sprintf("%s-%s.log", logFileStem(appName), day.Format("20060102"))
	return filepath.Join(filepath.Clean(dir), name), nil
}

// workspaceRootFrom walks up from start to the nearest dir holding go.mod or .git,
// returning start when there is none.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	for dir := start; ; {
		for _, marker := range []string{"go.mod", ".git"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func logFileStem(appName string) string {
	stem := strings.Trim(strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-").Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "pomotask"
	}
	return stem
}
