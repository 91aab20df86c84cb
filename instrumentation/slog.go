package instrumentation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const tagKey = "tag"

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

// NewTextLogger builds a SlogLogger writing to w in the given format ("text" or "json").
func NewTextLogger(w io.Writer, format string, level slog.Level) (*SlogLogger, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts))), nil
	case "json":
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, opts))), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel maps debug|info|warn|error onto a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return l, nil
}

func (s *SlogLogger) Debug(activity string, message string) {
	s.log(slog.LevelDebug, activity, message)
}

func (s *SlogLogger) Info(activity string, message string) {
	s.log(slog.LevelInfo, activity, message)
}

func (s *SlogLogger) Warn(activity string, message string) {
	s.log(slog.LevelWarn, activity, message)
}

func (s *SlogLogger) Error(activity string, message string) {
	s.log(slog.LevelError, activity, message)
}

func (s *SlogLogger) log(level slog.Level, activity string, message string) {
	s.l.Log(context.Background(), level, message, slog.String(tagKey, activity))
}
