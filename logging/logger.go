package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string ("debug", "info", ...) to a LogLevel,
// defaulting to info for unknown values.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug", "DEBUG":
		return LogLevelDebug
	case "warn", "WARN":
		return LogLevelWarn
	case "error", "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface for AgentHub. Components
// accept a Logger so callers can supply their own implementation or one of
// the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NoOpLogger discards all log messages. Useful for tests or when logging is
// disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// LoggerConfig configures construction of an AgentHubLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// AgentHubLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. It is cheap to copy via the With* methods.
type AgentHubLogger struct {
	logger         *slog.Logger
	level          LogLevel
	component      string
	conversationID int64
	taskID         int64
}

// NewLogger builds an AgentHubLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *AgentHubLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &AgentHubLogger{logger: slog.New(handler), level: cfg.Level, component: cfg.Component}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a copy scoped to a logical component (orchestrator,
// store, server, ...).
func (l *AgentHubLogger) WithComponent(c string) *AgentHubLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithTurn returns a copy carrying conversation and task identifiers so every
// entry of one turn correlates.
func (l *AgentHubLogger) WithTurn(conversationID, taskID int64) *AgentHubLogger {
	nl := *l
	nl.conversationID = conversationID
	nl.taskID = taskID
	return &nl
}

func (l *AgentHubLogger) attrs(extra []any) []any {
	args := make([]any, 0, len(extra)+6)
	if l.component != "" {
		args = append(args, "component", l.component)
	}
	if l.conversationID != 0 {
		args = append(args, "conversation_id", l.conversationID)
	}
	if l.taskID != 0 {
		args = append(args, "task_id", l.taskID)
	}
	return append(args, extra...)
}

// Debug logs at debug level.
func (l *AgentHubLogger) Debug(msg string, args ...any) {
	if l.level <= LogLevelDebug {
		l.logger.Debug(msg, l.attrs(args)...)
	}
}

// Info logs at info level.
func (l *AgentHubLogger) Info(msg string, args ...any) {
	if l.level <= LogLevelInfo {
		l.logger.Info(msg, l.attrs(args)...)
	}
}

// Warn logs at warn level.
func (l *AgentHubLogger) Warn(msg string, args ...any) {
	if l.level <= LogLevelWarn {
		l.logger.Warn(msg, l.attrs(args)...)
	}
}

// Error logs at error level.
func (l *AgentHubLogger) Error(msg string, args ...any) {
	if l.level <= LogLevelError {
		l.logger.Error(msg, l.attrs(args)...)
	}
}

// LogModelCall records latency and outcome of one generation provider call.
func (l *AgentHubLogger) LogModelCall(model, agent string, dur time.Duration, err error) {
	args := l.attrs([]any{"model", model, "agent", agent, "duration", dur})
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.LogAttrs(context.Background(), slog.LevelError, "Model call failed", toAttrs(args)...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Model call completed", toAttrs(args)...)
}

// LogToolCall records execution details for a tool invocation.
func (l *AgentHubLogger) LogToolCall(tool string, dur time.Duration, err error) {
	args := l.attrs([]any{"tool_name", tool, "duration", dur})
	if err != nil {
		args = append(args, "error", err.Error())
		l.logger.LogAttrs(context.Background(), slog.LevelError, "Tool execution failed", toAttrs(args)...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Tool execution completed", toAttrs(args)...)
}

func toAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
