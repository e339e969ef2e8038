// SPDX-License-Identifier: MIT

// product.go - product-space composition of independent energies and
// samplers. Energies add; samples are drawn independently per component.
//
// Two tensor layouts are supported and fixed at construction:
//   - separate:     one tensor per component (NoConcat),
//   - concatenated: one tensor split/joined along a configured event axis
//     with precomputed per-component lengths.
package distribution

import (
	"fmt"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
)

// ProductEnergy sums K independent component energies on the product
// space.
//
// In concatenated mode, all component event shapes must agree on every
// axis except the concatenation axis; violations are construction-time
// errors, never deferred to evaluation.
type ProductEnergy struct {
	components []Energier
	catAxis    int
	lengths    []int
	shape      tensor.Shape // stacked event shape (concatenated mode only)
}

// NewProductEnergy composes the given energies. Honors WithConcatAxis.
//
// Errors: ErrNoComponents, ErrNilComponent, core.ErrInconsistentShapes
// (concatenated mode with mismatched off-axis extents).
func NewProductEnergy(components []Energier, opts ...Option) (*ProductEnergy, error) {
	cfg := newConfig(opts...)
	if len(components) == 0 {
		return nil, ErrNoComponents
	}
	shapes := make([]tensor.Shape, len(components))
	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("component %d: %w", i, ErrNilComponent)
		}
		shapes[i] = c.EventShape()
	}

	p := &ProductEnergy{components: components, catAxis: cfg.catAxis}
	if cfg.catAxis != NoConcat {
		shape, lengths, err := core.StackedShape(shapes, cfg.catAxis)
		if err != nil {
			return nil, fmt.Errorf("product energy: %w", err)
		}
		p.shape, p.lengths = shape, lengths
	}
	return p, nil
}

// Len returns the number of components.
func (p *ProductEnergy) Len() int { return len(p.components) }

// At returns the i-th component energy.
func (p *ProductEnergy) At(i int) Energier { return p.components[i] }

// EventShape returns the stacked event shape in concatenated mode and the
// first component's shape otherwise (the product then has multiple
// events; see EventShapes).
func (p *ProductEnergy) EventShape() tensor.Shape {
	if p.catAxis != NoConcat {
		return p.shape
	}
	return p.components[0].EventShape()
}

// EventShapes returns every component's event shape.
func (p *ProductEnergy) EventShapes() []tensor.Shape {
	out := make([]tensor.Shape, len(p.components))
	for i, c := range p.components {
		out[i] = c.EventShape()
	}
	return out
}

// Energy evaluates the summed energy. In separate mode xs must hold one
// tensor per component; in concatenated mode exactly one tensor, split
// along the configured axis by the precomputed lengths.
func (p *ProductEnergy) Energy(xs core.Batch) ([]float64, error) {
	parts, err := p.split(xs)
	if err != nil {
		return nil, err
	}
	var total []float64
	for i, c := range p.components {
		e, err := c.Energy(parts[i])
		if err != nil {
			return nil, fmt.Errorf("component %d energy: %w", i, err)
		}
		if total == nil {
			total = e
			continue
		}
		if total, err = core.AddColumns(total, e); err != nil {
			return nil, fmt.Errorf("component %d energy: %w", i, err)
		}
	}
	return total, nil
}

// split resolves the configured layout into per-component tensors.
func (p *ProductEnergy) split(xs core.Batch) (core.Batch, error) {
	if p.catAxis == NoConcat {
		if len(xs) != len(p.components) {
			return nil, fmt.Errorf("got %d tensors for %d components: %w",
				len(xs), len(p.components), ErrArity)
		}
		return xs, nil
	}
	if len(xs) != 1 {
		return nil, fmt.Errorf("concatenated layout takes one tensor, got %d: %w",
			len(xs), ErrArity)
	}
	parts, err := core.SplitAlong(xs[0], p.catAxis, p.lengths)
	if err != nil {
		return nil, fmt.Errorf("split product tensor: %w", err)
	}
	return parts, nil
}

// ProductSampler draws independently from K component samplers and
// returns either the per-component batch or its concatenation.
type ProductSampler struct {
	components []Sampler
	catAxis    int
}

// NewProductSampler composes the given samplers. Honors WithConcatAxis;
// the shape-consistency check of concatenated mode is performed here too,
// so a sampler cannot be constructed that would fail on its first draw.
//
// Errors: ErrNoComponents, ErrNilComponent, core.ErrInconsistentShapes.
func NewProductSampler(components []Sampler, opts ...Option) (*ProductSampler, error) {
	cfg := newConfig(opts...)
	if len(components) == 0 {
		return nil, ErrNoComponents
	}
	shapes := make([]tensor.Shape, len(components))
	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("component %d: %w", i, ErrNilComponent)
		}
		shapes[i] = c.EventShape()
	}
	if cfg.catAxis != NoConcat {
		if _, _, err := core.StackedShape(shapes, cfg.catAxis); err != nil {
			return nil, fmt.Errorf("product sampler: %w", err)
		}
	}
	return &ProductSampler{components: components, catAxis: cfg.catAxis}, nil
}

// Len returns the number of components.
func (p *ProductSampler) Len() int { return len(p.components) }

// Sample draws n samples per component at temperature 1.
func (p *ProductSampler) Sample(n int) (core.Batch, error) {
	return p.SampleTemperature(n, 1)
}

// SampleTemperature draws n samples per component, passing the
// temperature through to each component unmodified.
func (p *ProductSampler) SampleTemperature(n int, temperature float64) (core.Batch, error) {
	samples := make(core.Batch, len(p.components))
	for i, c := range p.components {
		s, err := c.SampleTemperature(n, temperature)
		if err != nil {
			return nil, fmt.Errorf("component %d sample: %w", i, err)
		}
		samples[i] = s
	}
	return p.assemble(samples)
}

// assemble applies the configured output layout.
func (p *ProductSampler) assemble(samples core.Batch) (core.Batch, error) {
	if p.catAxis == NoConcat {
		return samples, nil
	}
	cat, err := core.ConcatAlong(p.catAxis, samples)
	if err != nil {
		return nil, fmt.Errorf("concat product samples: %w", err)
	}
	return core.Single(cat), nil
}
