package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a new ViperLoader.
// configFile may be empty; envPrefix is the environment variable prefix (e.g. "EDUNOTE").
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration with precedence: ENV > file > defaults.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars explicitly binds environment variables for nested structs.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixedEnv("SERVICE_ENVIRONMENT"), l.prefixedEnv("ENVIRONMENT"))

	v.BindEnv("http.port", l.prefixedEnv("HTTP_PORT"), l.prefixedEnv("PORT"))
	v.BindEnv("http.read_timeout", l.prefixedEnv("HTTP_READ_TIMEOUT"))
	v.BindEnv("http.write_timeout", l.prefixedEnv("HTTP_WRITE_TIMEOUT"))
	v.BindEnv("http.idle_timeout", l.prefixedEnv("HTTP_IDLE_TIMEOUT"))

	v.BindEnv("management.enabled", l.prefixedEnv("MGMT_ENABLED"))
	v.BindEnv("management.port", l.prefixedEnv("MGMT_PORT"))

	v.BindEnv("mongodb.url", l.prefixedEnv("MDB_URL"), l.prefixedEnv("MONGODB_URL"))
	v.BindEnv("mongodb.database", l.prefixedEnv("MDB_DATABASE"))
	v.BindEnv("mongodb.connect_timeout", l.prefixedEnv("MDB_CONNECT_TIMEOUT"))
	v.BindEnv("mongodb.operation_timeout", l.prefixedEnv("MDB_OPERATION_TIMEOUT"))

	v.BindEnv("log.level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("log.format", l.prefixedEnv("LOG_FORMAT"))

	v.BindEnv("auth.enabled", l.prefixedEnv("AUTH_ENABLED"))
	v.BindEnv("auth.secret", l.prefixedEnv("AUTH_SECRET"))
	v.BindEnv("auth.cookie_name", l.prefixedEnv("AUTH_COOKIE_NAME"))
	v.BindEnv("auth.token_ttl", l.prefixedEnv("AUTH_TOKEN_TTL"))

	v.BindEnv("ratelimit.enabled", l.prefixedEnv("RATELIMIT_ENABLED"))
	v.BindEnv("ratelimit.requests_per_second", l.prefixedEnv("RATELIMIT_RPS"))
	v.BindEnv("ratelimit.burst", l.prefixedEnv("RATELIMIT_BURST"))

	v.BindEnv("cors.enabled", l.prefixedEnv("CORS_ENABLED"))
	v.BindEnv("cors.allow_origins", l.prefixedEnv("CORS_ALLOW_ORIGINS"))
	v.BindEnv("cors.allow_methods", l.prefixedEnv("CORS_ALLOW_METHODS"))
	v.BindEnv("cors.allow_headers", l.prefixedEnv("CORS_ALLOW_HEADERS"))
	v.BindEnv("cors.allow_credentials", l.prefixedEnv("CORS_ALLOW_CREDENTIALS"))
	v.BindEnv("cors.max_age", l.prefixedEnv("CORS_MAX_AGE"))
}

func (l *ViperLoader) prefixedEnv(name string) string {
	if l.envPrefix == "" {
		return name
	}
	return l.envPrefix + "_" + name
}

// setDefaults seeds viper with every default value so env-only loading works.
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)

	v.SetDefault("management.enabled", cfg.Management.Enabled)
	v.SetDefault("management.port", cfg.Management.Port)

	v.SetDefault("mongodb.url", cfg.MongoDB.URL)
	v.SetDefault("mongodb.database", cfg.MongoDB.Database)
	v.SetDefault("mongodb.connect_timeout", cfg.MongoDB.ConnectTimeout)
	v.SetDefault("mongodb.operation_timeout", cfg.MongoDB.OperationTimeout)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("auth.enabled", cfg.Auth.Enabled)
	v.SetDefault("auth.secret", cfg.Auth.Secret)
	v.SetDefault("auth.cookie_name", cfg.Auth.CookieName)
	v.SetDefault("auth.token_ttl", cfg.Auth.TokenTTL)

	v.SetDefault("ratelimit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("ratelimit.requests_per_second", cfg.RateLimit.RequestsPerSecond)
	v.SetDefault("ratelimit.burst", cfg.RateLimit.Burst)

	v.SetDefault("cors.enabled", cfg.CORS.Enabled)
	v.SetDefault("cors.allow_origins", cfg.CORS.AllowOrigins)
	v.SetDefault("cors.allow_methods", cfg.CORS.AllowMethods)
	v.SetDefault("cors.allow_headers", cfg.CORS.AllowHeaders)
	v.SetDefault("cors.allow_credentials", cfg.CORS.AllowCredentials)
	v.SetDefault("cors.max_age", cfg.CORS.MaxAge)
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (l *ViperLoader) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var problems []string

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port %d out of range", cfg.HTTP.Port))
	}
	if cfg.Management.Enabled {
		if cfg.Management.Port <= 0 || cfg.Management.Port > 65535 {
			problems = append(problems, fmt.Sprintf("management.port %d out of range", cfg.Management.Port))
		}
		if cfg.Management.Port == cfg.HTTP.Port {
			problems = append(problems, "management.port must differ from http.port")
		}
	}
	if strings.TrimSpace(cfg.MongoDB.URL) == "" {
		problems = append(problems, "mongodb.url is required")
	}
	if strings.TrimSpace(cfg.MongoDB.Database) == "" {
		problems = append(problems, "mongodb.database is required")
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.Secret) == "" {
		problems = append(problems, "auth.secret is required when auth is enabled")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			problems = append(problems, "ratelimit.requests_per_second must be positive")
		}
		if cfg.RateLimit.Burst <= 0 {
			problems = append(problems, "ratelimit.burst must be positive")
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
