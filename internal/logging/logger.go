// Package logging provides category-scoped file logging for navshell's
// subsystems. Each category gets its own log file under
// <workspaceRoot>/.navshell/logs/<category>.log, written either as
// newline-delimited JSON or as plain text lines depending on
// NAVSHELL_LOG_FORMAT.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category identifies the subsystem a log line belongs to.
type Category string

const (
	CategoryPatch     Category = "patch"
	CategoryShell     Category = "shell"
	CategoryNavigator Category = "navigator"
	CategoryPlanner   Category = "planner"
	CategoryUI        Category = "ui"
	CategoryCLI       Category = "cli"
)

var allCategories = []Category{
	CategoryPatch,
	CategoryShell,
	CategoryNavigator,
	CategoryPlanner,
	CategoryUI,
	CategoryCLI,
}

// Level is a log severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the on-disk line encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

type entry struct {
	Time     string         `json:"time"`
	Level    Level          `json:"level"`
	Category Category       `json:"category"`
	Message  string         `json:"message"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// Logger writes lines scoped to a single category.
type Logger struct {
	category Category
	mu       sync.Mutex
	file     *os.File
	format   Format
}

func (l *Logger) log(level Level, msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	e := entry{
		Time:     time.Now().UTC().Format(time.RFC3339Nano),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   fields,
	}
	if l.format == FormatJSON {
		b, err := json.Marshal(e)
		if err != nil {
			return
		}
		l.file.Write(append(b, '\n'))
		return
	}
	line := fmt.Sprintf("%s [%s] %s: %s", e.Time, e.Level, e.Category, e.Message)
	for k, v := range fields {
		line += fmt.Sprintf(" %s=%v", k, v)
	}
	fmt.Fprintln(l.file, line)
}

func (l *Logger) Debug(msg string, fields map[string]any) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.log(LevelError, msg, fields) }

// Timer measures an operation's duration and logs it at Debug level when done.
func (l *Logger) Timer(msg string) func() {
	start := time.Now()
	return func() {
		l.Debug(msg, map[string]any{"duration_ms": time.Since(start).Milliseconds()})
	}
}

var (
	mu       sync.Mutex
	loggers  = map[Category]*Logger{}
	format   = FormatPlain
	initDone bool
)

// Initialize opens the per-category log files under workspaceRoot/.navshell/logs.
// It is safe to call more than once; later calls replace the open files.
func Initialize(workspaceRoot string) error {
	mu.Lock()
	defer mu.Unlock()

	format = FormatPlain
	if v := os.Getenv("NAVSHELL_LOG_FORMAT"); v == string(FormatJSON) {
		format = FormatJSON
	}

	logDir := filepath.Join(workspaceRoot, ".navshell", "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("logging: create log dir: %w", err)
	}

	for _, cat := range allCategories {
		path := filepath.Join(logDir, string(cat)+".log")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("logging: open %s: %w", path, err)
		}
		loggers[cat] = &Logger{category: cat, file: f, format: format}
	}
	initDone = true
	return nil
}

// Get returns the logger for a category. Before Initialize is called it
// returns a no-op logger so callers never need a nil check.
func Get(category Category) *Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	return &Logger{category: category}
}

// CloseAll closes every open category log file.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		l.mu.Lock()
		if l.file != nil {
			l.file.Close()
			l.file = nil
		}
		l.mu.Unlock()
	}
	loggers = map[Category]*Logger{}
	initDone = false
}

// Initialized reports whether Initialize has succeeded and not been
// followed by CloseAll.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initDone
}
