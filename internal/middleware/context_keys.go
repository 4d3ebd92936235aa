// Package middleware holds shared middleware context keys.
package middleware

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	// RequestIDKey is the context key for the request ID
	RequestIDKey ContextKey = "request_id"

	// UserKey is the context key for the authenticated user document
	UserKey ContextKey = "user"
)
