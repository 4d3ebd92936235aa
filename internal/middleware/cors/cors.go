// Package cors implements cross-origin resource sharing for the public API.
package cors

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/edunote/edunote/internal/server/router"
)

// Config configures CORS middleware behavior.
type Config struct {
	Enabled          bool
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultConfig returns CORS middleware defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		AllowOrigins: []string{},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       600,
	}
}

// Middleware returns a router middleware implementing CORS. Preflight
// requests are answered directly with 204; other requests gain the
// appropriate Access-Control headers before reaching the handler.
func Middleware(cfg Config) router.MiddlewareFunc {
	cfg = normalize(cfg)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled {
				return next(c)
			}

			req := c.Request()
			res := c.Response()
			origin := req.Header.Get("Origin")
			if origin == "" {
				return next(c)
			}

			if !cfg.allowsOrigin(origin) {
				if isPreflight(req) {
					res.WriteHeader(http.StatusForbidden)
					return nil
				}
				return next(c)
			}

			applyVary(res.Header())
			cfg.setOriginHeaders(res.Header(), origin)

			if isPreflight(req) {
				res.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
				if len(cfg.AllowHeaders) > 0 {
					res.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
				} else if requested := req.Header.Get("Access-Control-Request-Headers"); requested != "" {
					res.Header().Set("Access-Control-Allow-Headers", requested)
				}
				if cfg.MaxAge > 0 {
					res.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				res.WriteHeader(http.StatusNoContent)
				return nil
			}

			return next(c)
		}
	}
}

func normalize(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.AllowMethods == nil {
		cfg.AllowMethods = defaults.AllowMethods
	}
	if cfg.AllowHeaders == nil {
		cfg.AllowHeaders = defaults.AllowHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = defaults.MaxAge
	}

	for i := range cfg.AllowMethods {
		cfg.AllowMethods[i] = strings.ToUpper(strings.TrimSpace(cfg.AllowMethods[i]))
	}
	for i := range cfg.AllowOrigins {
		cfg.AllowOrigins[i] = strings.TrimSpace(cfg.AllowOrigins[i])
	}
	for i := range cfg.AllowHeaders {
		cfg.AllowHeaders[i] = strings.TrimSpace(cfg.AllowHeaders[i])
	}

	return cfg
}

func isPreflight(req *http.Request) bool {
	return req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != ""
}

func (cfg Config) allowsOrigin(origin string) bool {
	for _, allowed := range cfg.AllowOrigins {
		if allowed == "*" {
			return true
		}
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (cfg Config) setOriginHeaders(h http.Header, origin string) {
	if cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		return
	}
	if cfg.isAllowAllOriginsList() {
		h.Set("Access-Control-Allow-Origin", "*")
		return
	}
	h.Set("Access-Control-Allow-Origin", origin)
}

func (cfg Config) isAllowAllOriginsList() bool {
	for _, allowed := range cfg.AllowOrigins {
		if allowed == "*" {
			return true
		}
	}
	return false
}

func applyVary(h http.Header) {
	appendVary(h, "Origin")
	appendVary(h, "Access-Control-Request-Method")
	appendVary(h, "Access-Control-Request-Headers")
}

func appendVary(h http.Header, value string) {
	current := h.Get("Vary")
	if current == "" {
		h.Set("Vary", value)
		return
	}

	for _, part := range strings.Split(current, ",") {
		if strings.EqualFold(strings.TrimSpace(part), value) {
			return
		}
	}

	h.Set("Vary", current+", "+value)
}
