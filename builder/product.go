// SPDX-License-Identifier: MIT

// product.go - declarative assembly of product distributions.

package builder

import (
	"fmt"

	"github.com/katalvlaran/boltzgen/distribution"
)

// Spec describes one component of a product distribution.
type Spec struct {
	// Kind selects the registered factory.
	Kind Kind

	// Dim is the component's event dimension.
	Dim int

	// Options carry family parameters (WithMean, WithLow, WithSeed, ...).
	Options []distribution.Option
}

// validate rejects empty kinds and non-positive dimensions before any
// factory runs.
func (s Spec) validate(i int) error {
	if s.Kind == "" {
		return fmt.Errorf("spec %d: empty kind: %w", i, ErrBadSpec)
	}
	if s.Dim <= 0 {
		return fmt.Errorf("spec %d: dim %d: %w", i, s.Dim, ErrBadSpec)
	}
	return nil
}

// Components constructs every spec in order.
func Components(specs []Spec) ([]distribution.Component, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no specs: %w", ErrBadSpec)
	}
	out := make([]distribution.Component, len(specs))
	for i, s := range specs {
		if err := s.validate(i); err != nil {
			return nil, err
		}
		c, err := Make(s.Kind, s.Dim, s.Options...)
		if err != nil {
			return nil, fmt.Errorf("spec %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// Product constructs all specs and assembles them into a product
// distribution. The trailing options configure the product itself
// (WithConcatAxis, WithSobol, WithSeed).
func Product(specs []Spec, opts ...distribution.Option) (*distribution.ProductDistribution, error) {
	components, err := Components(specs)
	if err != nil {
		return nil, err
	}
	p, err := distribution.NewProduct(components, opts...)
	if err != nil {
		return nil, fmt.Errorf("assemble product: %w", err)
	}
	return p, nil
}
