// Package logger provides structured logging for the service.
// All log methods accept a message string followed by key-value pairs.
package logger

import "context"

// Logger is the logging contract shared by every component.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, args ...any)

	// With creates a child logger with additional key-value pairs that will be
	// included in all subsequent log entries
	With(args ...any) Logger

	// WithContext creates a child logger that carries the request ID from ctx
	WithContext(ctx context.Context) Logger
}
