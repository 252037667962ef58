// Package state provides the application state container used for
// dependency injection into handlers and middleware.
//
// Values are keyed by their static type. A Builder collects values before
// the server starts; Build freezes them into a State that only exposes read
// access, so concurrent requests read it without locking.
//
//	b := state.NewBuilder()
//	state.Provide(b, pool)          // *pgxpool.Pool
//	state.Provide(b, cfg)           // AppConfig
//	st := b.Build()
//
//	pool, ok := state.Get[*pgxpool.Pool](st)
package state

import (
	"context"
	"fmt"
	"reflect"
)

// Builder accumulates values before the State is frozen.
// It is not safe for concurrent use.
type Builder struct {
	values map[reflect.Type]any
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{values: make(map[reflect.Type]any)}
}

// Provide stores v under the type T. Providing a second value of the same
// type replaces the first.
func Provide[T any](b *Builder, v T) *Builder {
	b.values[reflect.TypeFor[T]()] = v
	return b
}

// Build returns an immutable snapshot of the provided values.
// The Builder can keep being used without affecting the returned State.
func (b *Builder) Build() *State {
	values := make(map[reflect.Type]any, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	return &State{values: values}
}

// State is a read-only, type-indexed value container.
// The zero value and a nil *State are both empty.
type State struct {
	values map[reflect.Type]any
}

// Len returns the number of stored values.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Get returns the value stored for type T.
func Get[T any](s *State) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.values[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// MustGet returns the value stored for type T or panics.
func MustGet[T any](s *State) T {
	v, ok := Get[T](s)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrNotProvided, reflect.TypeFor[T]()))
	}
	return v
}

type contextKey struct{}

// NewContext returns a copy of parent carrying s.
func NewContext(parent context.Context, s *State) context.Context {
	return context.WithValue(parent, contextKey{}, s)
}

// FromContext extracts the State attached by the router.
func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(contextKey{}).(*State)
	return s, ok && s != nil
}

// From looks up a value of type T in the State attached to ctx.
func From[T any](ctx context.Context) (T, bool) {
	s, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	return Get[T](s)
}
