package logger

import (
	"context"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"info", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{"json", JSONFormat, false},
		{"text", TextFormat, false},
		{"console", TextFormat, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLogFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewZapLogger(t *testing.T) {
	for _, format := range []LogFormat{JSONFormat, TextFormat} {
		log, err := NewZapLogger(Config{Level: DebugLevel, Format: format})
		if err != nil {
			t.Fatalf("NewZapLogger(%q) error: %v", format, err)
		}
		if log == nil {
			t.Fatalf("NewZapLogger(%q) returned nil", format)
		}
	}
}

func TestWithContext_RequestID(t *testing.T) {
	log, err := NewZapLogger(DefaultConfig())
	if err != nil {
		t.Fatalf("NewZapLogger error: %v", err)
	}

	ctx := context.WithValue(context.Background(), "request_id", "req-123") //nolint:staticcheck
	child := log.WithContext(ctx)
	if child == nil {
		t.Fatal("WithContext returned nil")
	}

	// No request ID in context returns the same logger.
	if got := log.WithContext(context.Background()); got != Logger(log) {
		t.Error("WithContext without request ID should return the receiver")
	}
}
