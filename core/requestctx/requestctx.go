// Package requestctx carries the per-request correlation handle.
//
// The router creates one RequestContext for every request it receives, not
// per connection, and attaches it to the request's context.Context before
// the middleware chain runs. It is read-only afterwards.
//
//	rc, ok := requestctx.FromContext(ctx)
//	if ok {
//		log.Info("handling", logger.RequestID(rc.ID()))
//	}
package requestctx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestContext identifies a single request/response cycle.
type RequestContext struct {
	id        string
	startedAt time.Time
}

// New creates a RequestContext with a random UUID and the current time.
func New() *RequestContext {
	return NewWithID(uuid.New().String())
}

// NewWithID creates a RequestContext with the given identifier.
// An empty id falls back to a generated one.
func NewWithID(id string) *RequestContext {
	if id == "" {
		id = uuid.New().String()
	}
	return &RequestContext{
		id:        id,
		startedAt: time.Now(),
	}
}

// ID returns the correlation identifier.
func (rc *RequestContext) ID() string {
	return rc.id
}

// StartedAt returns the time the request was received.
func (rc *RequestContext) StartedAt() time.Time {
	return rc.startedAt
}

// Elapsed returns the time spent since the request was received.
func (rc *RequestContext) Elapsed() time.Duration {
	return time.Since(rc.startedAt)
}

// maxHeaderIDLength bounds identifiers accepted from clients.
const maxHeaderIDLength = 128

// FromHeader returns a constructor that reuses the named request header as
// the identifier, for use behind proxies that already assign one. Missing,
// oversized or non-printable values get a generated identifier instead.
func FromHeader(name string) func(*http.Request) *RequestContext {
	return func(r *http.Request) *RequestContext {
		id := r.Header.Get(name)
		if !validHeaderID(id) {
			id = ""
		}
		return NewWithID(id)
	}
}

func validHeaderID(id string) bool {
	if id == "" || len(id) > maxHeaderIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}

type contextKey struct{}

// NewContext returns a copy of parent carrying rc.
func NewContext(parent context.Context, rc *RequestContext) context.Context {
	return context.WithValue(parent, contextKey{}, rc)
}

// FromContext extracts the RequestContext stored by NewContext.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(*RequestContext)
	return rc, ok && rc != nil
}

// ID returns the request identifier stored in ctx, or an empty string.
func ID(ctx context.Context) string {
	if rc, ok := FromContext(ctx); ok {
		return rc.id
	}
	return ""
}
