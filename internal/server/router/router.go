// Package router defines the HTTP routing contract used by the service.
// Handlers and middleware are written against these interfaces rather than a
// concrete engine, keeping the routing layer pluggable.
package router

import "net/http"

// Router registers handlers for HTTP routes.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PUT(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	DELETE(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Group creates a route group with a common prefix and middleware
	Group(prefix string, middleware ...MiddlewareFunc) Router

	// Use applies middleware to all routes
	Use(middleware ...MiddlewareFunc)

	// NoRoute registers the handler invoked when no route matches
	NoRoute(handler HandlerFunc)

	// ServeHTTP implements http.Handler
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFunc is the function signature for route handlers.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc and returns a new HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context provides access to request and response in an engine-agnostic way.
type Context interface {
	// Request returns the underlying HTTP request
	Request() *http.Request

	// SetRequest sets the HTTP request (used by middleware that derives a new context)
	SetRequest(r *http.Request)

	// Response returns the response writer
	Response() ResponseWriter

	// SetResponse sets the response writer (used by middleware that wraps responses)
	SetResponse(w ResponseWriter)

	// Param returns a URL parameter by name (e.g. /student/:id)
	Param(name string) string

	// Query returns a query parameter by name
	Query(name string) string

	// Bind parses the JSON request body into the provided value
	Bind(v interface{}) error

	// JSON sends a JSON response with the given status code
	JSON(code int, v interface{}) error

	// String sends a plain text response with the given status code
	String(code int, s string) error
}

// ResponseWriter wraps http.ResponseWriter to track response status.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the HTTP status code of the response
	Status() int

	// Written returns whether the response has been written
	Written() bool
}
