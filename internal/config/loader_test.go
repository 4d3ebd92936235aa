package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	loader := NewViperLoader("", "EDUNOTE")

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Service.Name != "edunote" {
		t.Errorf("service.name = %q, want edunote", cfg.Service.Name)
	}
	if cfg.HTTP.Port != 3000 {
		t.Errorf("http.port = %d, want 3000", cfg.HTTP.Port)
	}
	if cfg.MongoDB.Database != "edunote" {
		t.Errorf("mongodb.database = %q, want edunote", cfg.MongoDB.Database)
	}
	if cfg.MongoDB.OperationTimeout != 5*time.Second {
		t.Errorf("mongodb.operation_timeout = %v, want 5s", cfg.MongoDB.OperationTimeout)
	}
	if cfg.Auth.Enabled {
		t.Error("auth.enabled should default to false")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EDUNOTE_HTTP_PORT", "8080")
	t.Setenv("EDUNOTE_MDB_URL", "mongodb://db:27017")
	t.Setenv("EDUNOTE_LOG_LEVEL", "debug")

	loader := NewViperLoader("", "EDUNOTE")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.MongoDB.URL != "mongodb://db:27017" {
		t.Errorf("mongodb.url = %q, want mongodb://db:27017", cfg.MongoDB.URL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	loader := NewViperLoader("", "EDUNOTE")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad http port",
			mutate:  func(c *Config) { c.HTTP.Port = -1 },
			wantErr: "http.port",
		},
		{
			name:    "management port collision",
			mutate:  func(c *Config) { c.Management.Port = c.HTTP.Port },
			wantErr: "management.port must differ",
		},
		{
			name:    "missing mongodb url",
			mutate:  func(c *Config) { c.MongoDB.URL = " " },
			wantErr: "mongodb.url is required",
		},
		{
			name:    "auth enabled without secret",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: "auth.secret is required",
		},
		{
			name: "ratelimit enabled with zero rps",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.RequestsPerSecond = 0
			},
			wantErr: "requests_per_second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := loader.Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
