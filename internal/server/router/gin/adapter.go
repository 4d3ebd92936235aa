// Package gin provides a gin-gonic based implementation of router.Router.
package gin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	ginpkg "github.com/gin-gonic/gin"

	"github.com/edunote/edunote/internal/server/router"
)

// GinRouter implements router.Router using gin-gonic/gin.
type GinRouter struct {
	engine     *ginpkg.Engine
	group      *ginpkg.RouterGroup
	middleware []router.MiddlewareFunc
	mu         *sync.RWMutex
}

// NewRouter creates a new GinRouter in release mode.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	return &GinRouter{
		engine: ginpkg.New(),
		mu:     &sync.RWMutex{},
	}
}

// GET registers a handler for HTTP GET requests at the specified path.
func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

// POST registers a handler for HTTP POST requests at the specified path.
func (r *GinRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

// PUT registers a handler for HTTP PUT requests at the specified path.
func (r *GinRouter) PUT(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPut, path, handler, middleware)
}

// DELETE registers a handler for HTTP DELETE requests at the specified path.
func (r *GinRouter) DELETE(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodDelete, path, handler, middleware)
}

// Group creates a route group with a common prefix and middleware.
func (r *GinRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	r.mu.RLock()
	combined := append([]router.MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()
	combined = append(combined, middleware...)

	var group *ginpkg.RouterGroup
	if r.group == nil {
		group = r.engine.Group(prefix)
	} else {
		group = r.group.Group(prefix)
	}

	return &GinRouter{
		engine:     r.engine,
		group:      group,
		middleware: combined,
		mu:         r.mu,
	}
}

// Use applies middleware to all routes registered afterwards.
func (r *GinRouter) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// NoRoute registers the fallthrough handler. The global middleware chain is
// applied, so request IDs and logging still cover unmatched routes.
func (r *GinRouter) NoRoute(handler router.HandlerFunc) {
	r.engine.NoRoute(func(gc *ginpkg.Context) {
		r.dispatch(gc, handler, nil)
	})
}

// ServeHTTP implements http.Handler.
func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *GinRouter) handle(method, path string, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
	ginHandler := func(gc *ginpkg.Context) {
		r.dispatch(gc, h, routeMiddleware)
	}
	if r.group != nil {
		r.group.Handle(method, path, ginHandler)
		return
	}
	r.engine.Handle(method, path, ginHandler)
}

func (r *GinRouter) dispatch(gc *ginpkg.Context, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
	r.mu.RLock()
	global := append([]router.MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()

	ctx := newContext(gc)
	handler := h
	for i := len(routeMiddleware) - 1; i >= 0; i-- {
		handler = routeMiddleware[i](handler)
	}
	for i := len(global) - 1; i >= 0; i-- {
		handler = global[i](handler)
	}

	if err := handler(ctx); err != nil && !ctx.Response().Written() {
		gc.AbortWithStatus(http.StatusInternalServerError)
	}
}

// ginContext adapts gin.Context to router.Context.
type ginContext struct {
	ctx      *ginpkg.Context
	response router.ResponseWriter
}

func newContext(c *ginpkg.Context) *ginContext {
	return &ginContext{ctx: c, response: &ginResponseWriter{ResponseWriter: c.Writer}}
}

func (c *ginContext) Request() *http.Request {
	return c.ctx.Request
}

func (c *ginContext) SetRequest(r *http.Request) {
	c.ctx.Request = r
}

func (c *ginContext) Response() router.ResponseWriter {
	return c.response
}

func (c *ginContext) SetResponse(w router.ResponseWriter) {
	c.response = w
}

func (c *ginContext) Param(name string) string {
	return c.ctx.Param(name)
}

func (c *ginContext) Query(name string) string {
	return c.ctx.Query(name)
}

// Bind deserializes a JSON request body into v.
func (c *ginContext) Bind(v interface{}) error {
	if c.ctx.Request.Body == nil || c.ctx.Request.Body == http.NoBody {
		return fmt.Errorf("request body is empty")
	}
	defer c.ctx.Request.Body.Close()

	contentType := c.ctx.GetHeader("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}

	return json.NewDecoder(c.ctx.Request.Body).Decode(v)
}

func (c *ginContext) JSON(code int, v interface{}) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	if v == nil {
		return nil
	}
	return json.NewEncoder(c.response).Encode(v)
}

func (c *ginContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

// ginResponseWriter wraps gin.ResponseWriter to satisfy router.ResponseWriter.
type ginResponseWriter struct {
	ginpkg.ResponseWriter
	mu      sync.RWMutex
	status  int
	written bool
}

func (w *ginResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	if !w.written {
		w.status = code
		w.written = true
	}
	w.mu.Unlock()
	w.ResponseWriter.WriteHeader(code)
}

func (w *ginResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	if !w.written {
		w.status = http.StatusOK
		w.written = true
	}
	w.mu.Unlock()
	return w.ResponseWriter.Write(b)
}

// Status returns the HTTP status code that was written, or 200 if not yet set.
func (w *ginResponseWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Written reports whether a response has been started.
func (w *ginResponseWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}
