// SPDX-License-Identifier: MIT

// registry.go - the kind-to-factory registry and the Make entry point.

package builder

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/boltzgen/distribution"
)

// Kind tags a distribution family in declarative specs.
type Kind string

// Built-in kinds, registered at package init.
const (
	KindNormal          Kind = "normal"
	KindUniform         Kind = "uniform"
	KindTruncatedNormal Kind = "truncated-normal"
)

// Factory constructs a component of the given dimension. Options carry
// the family's parameters (means, bounds, seeds) straight through to the
// distribution layer.
type Factory func(dim int, opts ...distribution.Option) (distribution.Component, error)

var (
	regMu     sync.RWMutex
	factories = map[Kind]Factory{
		KindNormal: func(dim int, opts ...distribution.Option) (distribution.Component, error) {
			return distribution.NewNormal(dim, opts...)
		},
		KindUniform: func(dim int, opts ...distribution.Option) (distribution.Component, error) {
			return distribution.NewUniform(dim, opts...)
		},
		KindTruncatedNormal: func(dim int, opts ...distribution.Option) (distribution.Component, error) {
			return distribution.NewTruncatedNormal(dim, opts...)
		},
	}
)

// Register adds a factory for a custom kind. Built-in and previously
// registered kinds are protected.
//
// Errors: ErrNilFactory, ErrDuplicateKind.
func Register(kind Kind, f Factory) error {
	if f == nil {
		return ErrNilFactory
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := factories[kind]; ok {
		return fmt.Errorf("%q: %w", kind, ErrDuplicateKind)
	}
	factories[kind] = f
	return nil
}

// Kinds returns the registered kind tags in unspecified order.
func Kinds() []Kind {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]Kind, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}

// Make constructs a component of the given kind and dimension.
//
// Errors: ErrUnknownKind for an unregistered tag, plus whatever the
// factory reports for bad parameters.
func Make(kind Kind, dim int, opts ...distribution.Option) (distribution.Component, error) {
	regMu.RLock()
	f, ok := factories[kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	c, err := f(dim, opts...)
	if err != nil {
		return nil, fmt.Errorf("make %q: %w", kind, err)
	}
	return c, nil
}
