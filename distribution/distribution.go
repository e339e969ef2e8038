// SPDX-License-Identifier: MIT

// distribution.go - the ProductDistribution facade pairing a product
// energy with a product sampler, plus the batch-level sampler interface
// shared by the plain and quasi-random variants.
package distribution

import (
	"fmt"
	"math"

	"github.com/katalvlaran/boltzgen/core"
)

// BatchSampler is the batch-level sampling capability of product
// composition: one call yields the full per-event Batch.
type BatchSampler interface {
	Sample(n int) (core.Batch, error)
	SampleTemperature(n int, temperature float64) (core.Batch, error)
}

// ProductDistribution is a distribution on a product space: a
// ProductEnergy and a matching product sampler over the same components,
// plus the normalized LogProb that neither capability alone provides.
type ProductDistribution struct {
	components []Component
	energy     *ProductEnergy
	sampler    BatchSampler
	catAxis    int
	lengths    []int
}

// NewProduct composes component distributions into one product
// distribution. Honors WithConcatAxis, WithSobol and WithSeed.
//
// Errors: ErrNoComponents, ErrNilComponent, core.ErrInconsistentShapes,
// and the SobolProductSampler construction errors when WithSobol is set.
func NewProduct(components []Component, opts ...Option) (*ProductDistribution, error) {
	cfg := newConfig(opts...)
	if len(components) == 0 {
		return nil, ErrNoComponents
	}

	energiers := make([]Energier, len(components))
	samplers := make([]Sampler, len(components))
	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("component %d: %w", i, ErrNilComponent)
		}
		energiers[i] = c
		samplers[i] = c
	}

	energy, err := NewProductEnergy(energiers, opts...)
	if err != nil {
		return nil, err
	}
	var sampler BatchSampler
	if cfg.sobol {
		sampler, err = NewSobolProductSampler(samplers, opts...)
	} else {
		sampler, err = NewProductSampler(samplers, opts...)
	}
	if err != nil {
		return nil, err
	}

	return &ProductDistribution{
		components: components,
		energy:     energy,
		sampler:    sampler,
		catAxis:    cfg.catAxis,
		lengths:    energy.lengths,
	}, nil
}

// FromComponent wraps a single component distribution as a product of
// one, giving it the batch-level API expected by generator orchestration.
func FromComponent(c Component, opts ...Option) (*ProductDistribution, error) {
	return NewProduct([]Component{c}, opts...)
}

// Len returns the number of components.
func (d *ProductDistribution) Len() int { return len(d.components) }

// At returns the i-th component.
func (d *ProductDistribution) At(i int) Component { return d.components[i] }

// Energy evaluates the summed unnormalized energy of the batch.
func (d *ProductDistribution) Energy(xs core.Batch) ([]float64, error) {
	return d.energy.Energy(xs)
}

// Sample draws n samples at temperature 1.
func (d *ProductDistribution) Sample(n int) (core.Batch, error) {
	return d.sampler.Sample(n)
}

// SampleTemperature draws n samples, passing the temperature through to
// every component unmodified.
func (d *ProductDistribution) SampleTemperature(n int, temperature float64) (core.Batch, error) {
	return d.sampler.SampleTemperature(n, temperature)
}

// LogProb evaluates the normalized log-density: the sum over components
// of each component's own LogProb, with every per-component result
// flattened to a single trailing dimension before summation. This is the
// normalized counterpart of Energy and must not be confused with it.
func (d *ProductDistribution) LogProb(xs core.Batch) ([]float64, error) {
	parts, err := d.energy.split(xs)
	if err != nil {
		return nil, err
	}
	var total []float64
	for i, c := range d.components {
		flat, err := core.FlattenEvents(parts[i])
		if err != nil {
			return nil, fmt.Errorf("component %d log-prob: %w", i, err)
		}
		lp, err := c.LogProb(flat)
		if err != nil {
			return nil, fmt.Errorf("component %d log-prob: %w", i, err)
		}
		if total == nil {
			total = lp
			continue
		}
		if total, err = core.AddColumns(total, lp); err != nil {
			return nil, fmt.Errorf("component %d log-prob: %w", i, err)
		}
	}
	return total, nil
}

// IsNormalized reports whether every row of lp is a finite log-density.
// Convenience guard for downstream consumers of LogProb.
func IsNormalized(lp []float64) bool {
	for _, v := range lp {
		if math.IsNaN(v) || math.IsInf(v, 1) {
			return false
		}
	}
	return true
}
