package router

import (
	"fmt"
	"strings"
)

// SegmentKind tells how a path segment is matched.
type SegmentKind uint8

const (
	// Static segments match their literal text, case-sensitively.
	Static SegmentKind = iota
	// Param segments match any text and capture it under their name.
	Param
)

// String implements fmt.Stringer.
func (k SegmentKind) String() string {
	if k == Param {
		return "param"
	}
	return "static"
}

// Segment is one '/'-delimited component of a route pattern.
// For Static segments Value is the literal, for Param segments it is the
// parameter name without the leading ':'.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Pattern is a parsed route path.
type Pattern struct {
	raw      string
	segments []Segment
}

// ParsePattern parses a route path such as "/users/:id/posts".
//
// The path must start with '/'. Segments prefixed with ':' are named
// parameters; parameter names must be non-empty and unique within the
// pattern. A trailing slash produces a trailing empty static segment, so
// "/users" and "/users/" are different patterns.
func ParsePattern(raw string) (Pattern, error) {
	if raw == "" || raw[0] != '/' {
		return Pattern{}, fmt.Errorf("%w: '%s' must start with '/'", ErrInvalidPattern, raw)
	}

	parts := strings.Split(raw[1:], "/")
	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]struct{})

	for _, part := range parts {
		if !strings.HasPrefix(part, ":") {
			segments = append(segments, Segment{Kind: Static, Value: part})
			continue
		}

		name := part[1:]
		if name == "" {
			return Pattern{}, fmt.Errorf("%w: %w in '%s'", ErrInvalidPattern, ErrEmptyParam, raw)
		}
		if _, dup := seen[name]; dup {
			return Pattern{}, fmt.Errorf("%w: %w '%s' in '%s'", ErrInvalidPattern, ErrDuplicateParam, name, raw)
		}
		seen[name] = struct{}{}
		segments = append(segments, Segment{Kind: Param, Value: name})
	}

	return Pattern{raw: raw, segments: segments}, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(raw string) Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as it was registered.
func (p Pattern) String() string {
	return p.raw
}

// Segments returns a copy of the parsed segments.
func (p Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len returns the number of segments.
func (p Pattern) Len() int {
	return len(p.segments)
}

// ParamNames returns parameter names in positional order.
func (p Pattern) ParamNames() []string {
	var names []string
	for _, s := range p.segments {
		if s.Kind == Param {
			names = append(names, s.Value)
		}
	}
	return names
}

// compareSpecificity orders two patterns for matching: at the first position
// where segment kinds differ, Static sorts before Param. Patterns whose kinds
// agree up to the shorter length fall back to shorter first. Zero means the
// patterns are tied and registration order decides.
func compareSpecificity(a, b Pattern) int {
	n := min(len(a.segments), len(b.segments))
	for i := range n {
		ak, bk := a.segments[i].Kind, b.segments[i].Kind
		if ak == bk {
			continue
		}
		if ak == Static {
			return -1
		}
		return 1
	}
	return len(a.segments) - len(b.segments)
}

// splitPath splits a request path into segments the same way patterns are
// split. It reports false for paths that do not start with '/'.
func splitPath(path string) ([]string, bool) {
	if path == "" {
		path = "/"
	}
	if path[0] != '/' {
		return nil, false
	}
	return strings.Split(path[1:], "/"), true
}
