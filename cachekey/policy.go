package cachekey

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ExclusionPolicy is an immutable set of types that never contribute to key
// generation. Values of an excluded type serialize to Excluded at any nesting
// depth, so two calls differing only in excluded values share a key.
//
// A policy is configured once at startup and passed by reference into the
// serializer; it has no mutators and is safe to share across goroutines.
type ExclusionPolicy struct {
	types map[reflect.Type]struct{}
}

// NewExclusionPolicy builds a policy excluding the types of the provided
// sample values. Pointers to excluded types are covered automatically because
// the serializer dereferences before consulting the policy.
func NewExclusionPolicy(samples ...any) *ExclusionPolicy {
	types := make(map[reflect.Type]struct{}, len(samples))

	for _, s := range samples {
		if t := reflect.TypeOf(s); t != nil {
			types[t] = struct{}{}
		}
	}

	return &ExclusionPolicy{types: types}
}

// DefaultExclusionPolicy excludes inherently unstable argument types:
// timestamps and UUIDs change between otherwise identical calls and would
// invalidate the cache on every invocation.
func DefaultExclusionPolicy() *ExclusionPolicy {
	return NewExclusionPolicy(time.Time{}, uuid.UUID{})
}

// Excludes reports whether values of type t are excluded from key generation.
func (p *ExclusionPolicy) Excludes(t reflect.Type) bool {
	if p == nil || t == nil {
		return false
	}

	_, ok := p.types[t]

	return ok
}
