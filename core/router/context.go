package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default handler.Context implementation.
// It delegates context.Context methods to the request's context.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params Params
}

// NewContext creates the default Context for a request.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the current request, including values added with SetValue.
func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value captured for the named path parameter.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// Params returns all captured path parameters.
func (c *Context) Params() Params {
	return c.params
}

func (c *Context) SetParam(key, value string) {
	if c.params == nil {
		c.params = make(Params)
	}
	c.params[key] = value
}

// SetValue stores a request-scoped value readable through Value.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

type patternKey struct{}

// MatchedPattern returns the pattern of the route that matched the request,
// such as "/users/:id", or an empty string when no route matched. Middleware
// can read it after calling next.
func MatchedPattern(ctx context.Context) string {
	p, _ := ctx.Value(patternKey{}).(string)
	return p
}
