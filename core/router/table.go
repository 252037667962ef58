package router

import (
	"fmt"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"
)

// Params holds the values captured by parameter segments, keyed by name.
type Params map[string]string

// Entry is a registered route.
type Entry[H any] struct {
	Method  string
	Pattern Pattern
	Handler H
	Name    string
}

// Table stores routes per method and matches requests against them.
//
// Routes are registered while building the application. Prepare sorts each
// method's routes by specificity and seals the table; after that the table is
// read-only and Match can be called concurrently without locking.
type Table[H any] struct {
	mu       sync.Mutex
	prepared atomic.Bool
	routes   map[string][]*Entry[H]
	ordered  []*Entry[H] // registration order, for introspection
}

// NewTable returns an empty route table.
func NewTable[H any]() *Table[H] {
	return &Table[H]{routes: make(map[string][]*Entry[H])}
}

// Register adds a route. It fails with ErrInvalidPattern when the pattern
// does not parse or when the table has already been prepared.
func (t *Table[H]) Register(method, pattern string, h H, name string) error {
	if method == "" {
		return fmt.Errorf("%w: empty method for '%s'", ErrInvalidMethod, pattern)
	}

	p, err := ParsePattern(pattern)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.prepared.Load() {
		return fmt.Errorf("%w: %w: %s %s", ErrInvalidPattern, ErrRouterPrepared, method, pattern)
	}

	e := &Entry[H]{Method: method, Pattern: p, Handler: h, Name: name}
	t.routes[method] = append(t.routes[method], e)
	t.ordered = append(t.ordered, e)
	return nil
}

// Prepare orders every method's routes by descending specificity and seals
// the table. It is idempotent.
//
// Ties between patterns with identical segment kinds keep registration order,
// so for "/users/:id/:a" and "/users/:id/:b" the one registered first wins.
func (t *Table[H]) Prepare() {
	if t.prepared.Load() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.prepared.Load() {
		return
	}

	for _, entries := range t.routes {
		slices.SortStableFunc(entries, func(a, b *Entry[H]) int {
			return compareSpecificity(a.Pattern, b.Pattern)
		})
	}
	t.prepared.Store(true)
}

// Prepared reports whether Prepare has run.
func (t *Table[H]) Prepared() bool {
	return t.prepared.Load()
}

// Match finds the most specific route for method and path.
//
// Only routes registered under the exact method and with the same number of
// segments are candidates. A route registered for the path under a different
// method still yields ErrNotFound. Match prepares the table on first use.
func (t *Table[H]) Match(method, path string) (*Entry[H], Params, error) {
	t.Prepare()

	parts, ok := splitPath(path)
	if !ok {
		return nil, nil, ErrNotFound
	}

	for _, e := range t.routes[method] {
		if len(e.Pattern.segments) != len(parts) {
			continue
		}
		if params, ok := matchSegments(e.Pattern.segments, parts); ok {
			return e, params, nil
		}
	}

	return nil, nil, ErrNotFound
}

// matchSegments tests one candidate. Captured values only survive when every
// segment matches.
func matchSegments(segments []Segment, parts []string) (Params, bool) {
	var captured []int
	for i, s := range segments {
		switch s.Kind {
		case Static:
			if s.Value != parts[i] {
				return nil, false
			}
		case Param:
			captured = append(captured, i)
		}
	}

	if len(captured) == 0 {
		return nil, true
	}

	params := make(Params, len(captured))
	for _, i := range captured {
		params[segments[i].Value] = parts[i]
	}
	return params, true
}

// Entries returns the registered routes in registration order.
func (t *Table[H]) Entries() []*Entry[H] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.ordered)
}

// Candidates returns the routes for method in matching order.
// Before Prepare this is registration order.
func (t *Table[H]) Candidates(method string) []*Entry[H] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.routes[method])
}

// unescapeParams decodes percent-encoded parameter values taken from a raw
// request path. Values that fail to decode are kept as they are.
func unescapeParams(params Params) {
	for k, v := range params {
		if dec, err := url.PathUnescape(v); err == nil {
			params[k] = dec
		}
	}
}
