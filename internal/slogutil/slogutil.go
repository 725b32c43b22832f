package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Stable warning category codes. Hosts and CI filter on the "code"
// attribute, so these strings are part of the output contract.
const (
	CodeMissingGirInclude = "missing-gir-include"
	CodeParserDiagnostic  = "parser-diagnostic"
	CodeMalformedNode     = "malformed-node"
	CodeAmbiguousPage     = "ambiguous-page"
	CodeNoPageHint        = "no-page-hint"
	CodeBadInclusion      = "bad-inclusion"
	CodeToolchainMissing  = "toolchain-missing"
)

// NewLogger creates a text logger writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewStderrLogger creates the default CLI logger.
func NewStderrLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level)
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// Warn logs a categorized warning. Every recoverable condition in the
// scanner goes through here so the category code is never dropped.
func Warn(log *slog.Logger, code string, msg string, args ...any) {
	if log == nil {
		return
	}
	log.Warn(msg, append([]any{slog.String("code", code)}, args...)...)
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
