// Package config defines service configuration and its loader.
package config

import "time"

// Config is the root configuration for the service.
// It is built once at startup and injected into every component that needs it.
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Management ManagementConfig `mapstructure:"management"`
	MongoDB    MongoDBConfig    `mapstructure:"mongodb"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig holds settings for the public API server.
type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ManagementConfig holds settings for the management server (health, metrics).
type ManagementConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// MongoDBConfig holds document store connection settings.
type MongoDBConfig struct {
	URL              string        `mapstructure:"url"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// RateLimitConfig holds public server rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// CORSConfig holds cross-origin settings for the public server.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "edunote",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:         3000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Management: ManagementConfig{
			Enabled: true,
			Port:    9090,
		},
		MongoDB: MongoDBConfig{
			URL:              "mongodb://localhost:27017",
			Database:         "edunote",
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			Enabled:    false,
			CookieName: "token",
			TokenTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 100,
			Burst:             200,
		},
		CORS: CORSConfig{
			Enabled:      false,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:       600,
		},
	}
}
