// SPDX-License-Identifier: MIT

// sobol_sampler.go - quasi-random product sampler: one shared scrambled
// Sobol sequence spanning the concatenated dimensions of all components.
package distribution

import (
	"fmt"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
	"github.com/katalvlaran/boltzgen/qmc"
)

// SobolProductSampler draws all components' randomness from one shared
// low-discrepancy sequence over the sum of the component dimensions, so
// the joint point set — not just each marginal — is evenly spread.
//
// Per draw it generates one (n, totalDim) Sobol block, splits it by
// component widths, and feeds each slice to that component's
// SampleUniforms. Draw sizes must be powers of two
// (qmc.ErrNotPowerOfTwo otherwise, raised before any sampling work);
// capacity exhaustion reseeds the sequence transparently.
//
// Not safe for concurrent use: the Sobol cursor is mutable shared state.
type SobolProductSampler struct {
	components []Sampler
	sourced    []UniformSourced
	dims       []int
	catAxis    int
	seq        *qmc.Sobol
}

// NewSobolProductSampler composes the given samplers over a shared Sobol
// sequence. Honors WithConcatAxis and WithSeed (which seeds the
// sequence's scrambling).
//
// Every component must have a vector event shape and implement
// UniformSourced; both are checked here, at construction.
//
// Errors: ErrNoComponents, ErrNilComponent, ErrNotVector,
// ErrNotUniformSourced, core.ErrInconsistentShapes, qmc.ErrDimension.
func NewSobolProductSampler(components []Sampler, opts ...Option) (*SobolProductSampler, error) {
	cfg := newConfig(opts...)
	if len(components) == 0 {
		return nil, ErrNoComponents
	}

	dims := make([]int, len(components))
	sourced := make([]UniformSourced, len(components))
	shapes := make([]tensor.Shape, len(components))
	total := 0
	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("component %d: %w", i, ErrNilComponent)
		}
		shape := c.EventShape()
		if len(shape) != 1 {
			return nil, fmt.Errorf("component %d has event shape %v: %w", i, shape, ErrNotVector)
		}
		us, ok := c.(UniformSourced)
		if !ok {
			return nil, fmt.Errorf("component %d (%T): %w", i, c, ErrNotUniformSourced)
		}
		dims[i] = shape[0]
		sourced[i] = us
		shapes[i] = shape
		total += shape[0]
	}
	if cfg.catAxis != NoConcat {
		if _, _, err := core.StackedShape(shapes, cfg.catAxis); err != nil {
			return nil, fmt.Errorf("sobol product sampler: %w", err)
		}
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = randomSeed()
	}
	seq, err := qmc.New(total, seed)
	if err != nil {
		return nil, fmt.Errorf("sobol product sampler: %w", err)
	}
	return &SobolProductSampler{
		components: components,
		sourced:    sourced,
		dims:       dims,
		catAxis:    cfg.catAxis,
		seq:        seq,
	}, nil
}

// Len returns the number of components.
func (p *SobolProductSampler) Len() int { return len(p.components) }

// TotalDim returns the summed component dimensionality spanned by the
// shared sequence.
func (p *SobolProductSampler) TotalDim() int { return p.seq.Dim() }

// Remaining reports the unconsumed capacity of the underlying sequence.
func (p *SobolProductSampler) Remaining() int { return p.seq.Remaining() }

// Sample draws n samples per component at temperature 1. n must be a
// power of two.
func (p *SobolProductSampler) Sample(n int) (core.Batch, error) {
	return p.SampleTemperature(n, 1)
}

// SampleTemperature draws n quasi-random samples per component, passing
// the temperature through to each component unmodified. n must be a
// power of two.
func (p *SobolProductSampler) SampleTemperature(n int, temperature float64) (core.Batch, error) {
	block, err := p.seq.Draw(n)
	if err != nil {
		return nil, fmt.Errorf("sobol draw: %w", err)
	}
	slices, err := core.SplitAlong(block, 0, p.dims)
	if err != nil {
		return nil, fmt.Errorf("split sobol block: %w", err)
	}

	samples := make(core.Batch, len(p.components))
	for i, us := range p.sourced {
		s, err := us.SampleUniforms(slices[i], temperature)
		if err != nil {
			return nil, fmt.Errorf("component %d sample: %w", i, err)
		}
		samples[i] = s
	}
	if p.catAxis == NoConcat {
		return samples, nil
	}
	cat, err := core.ConcatAlong(p.catAxis, samples)
	if err != nil {
		return nil, fmt.Errorf("concat product samples: %w", err)
	}
	return core.Single(cat), nil
}
