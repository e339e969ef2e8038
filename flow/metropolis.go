// SPDX-License-Identifier: MIT

// metropolis.go - a stochastic "flow" layer that relaxes samples toward
// an energy model with Metropolis Monte Carlo. The reported per-row term
// is the energy difference along the trajectory rather than a Jacobian,
// which keeps downstream importance weights consistent under detailed
// balance.
package flow

import (
	"fmt"
	"math"
	"time"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/boltzgen/core"
)

// Metropolis runs a fixed number of Metropolis Monte Carlo steps against
// an energy model. Proposals are isotropic Gaussian perturbations with
// the configured standard deviation; each batch row walks independently.
//
// Forward and Inverse perform the same relaxation: the layer is its own
// inverse in distribution, not pointwise.
type Metropolis struct {
	nopTrigger

	energy   EnergyModel
	steps    int
	stepSize float64
	rng      *rand.Rand
}

// NewMetropolis builds the layer around an energy model. Options: WithSteps,
// WithStepSize, WithSource / WithSeed.
//
// Errors: ErrNilEnergy on a nil model, ErrBadParam on a non-positive step
// count or step size.
func NewMetropolis(energy EnergyModel, opts ...Option) (*Metropolis, error) {
	if energy == nil {
		return nil, ErrNilEnergy
	}
	cfg := newConfig(opts...)
	if cfg.steps <= 0 {
		return nil, fmt.Errorf("steps %d: %w", cfg.steps, ErrBadParam)
	}
	if cfg.stepSize <= 0 {
		return nil, fmt.Errorf("step size %v: %w", cfg.stepSize, ErrBadParam)
	}
	src := cfg.src
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &Metropolis{
		energy:   energy,
		steps:    cfg.steps,
		stepSize: cfg.stepSize,
		rng:      rand.New(src),
	}, nil
}

// Forward relaxes each row for the configured number of steps and reports
// the per-row energy difference E(end) - E(start).
func (m *Metropolis) Forward(z core.Batch, _ *tensor.Dense) (core.Batch, []float64, error) {
	return m.walk(z)
}

// Inverse performs the same relaxation as Forward.
func (m *Metropolis) Inverse(x core.Batch, _ *tensor.Dense) (core.Batch, []float64, error) {
	return m.walk(x)
}

func (m *Metropolis) walk(b core.Batch) (core.Batch, []float64, error) {
	if len(b) != 1 {
		return nil, nil, fmt.Errorf("got %d event tensors, want 1: %w", len(b), ErrArity)
	}
	cur := b[0].Clone().(*tensor.Dense)
	data := cur.Data().([]float64)
	n := cur.Shape()[0]
	width := len(data) / n

	e0, err := m.energy.Energy(cur)
	if err != nil {
		return nil, nil, fmt.Errorf("initial energy: %w", err)
	}
	if err := core.CheckColumn(e0, n); err != nil {
		return nil, nil, err
	}
	e := append([]float64(nil), e0...)

	normal := distuv.Normal{Mu: 0, Sigma: m.stepSize, Src: m.rng}
	prop := make([]float64, len(data))
	for step := 0; step < m.steps; step++ {
		copy(prop, data)
		for i := range prop {
			prop[i] += normal.Rand()
		}

		cand := tensor.New(tensor.WithShape(cur.Shape()...), tensor.WithBacking(prop))
		eProp, err := m.energy.Energy(cand)
		if err != nil {
			return nil, nil, fmt.Errorf("step %d energy: %w", step, err)
		}
		if err := core.CheckColumn(eProp, n); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", step, err)
		}

		for r := 0; r < n; r++ {
			if m.rng.Float64() < math.Exp(-(eProp[r] - e[r])) {
				copy(data[r*width:(r+1)*width], prop[r*width:(r+1)*width])
				e[r] = eProp[r]
			}
		}
	}

	// Work done along the trajectory.
	dW := make([]float64, n)
	for r := 0; r < n; r++ {
		dW[r] = e[r] - e0[r]
	}
	return core.Single(cur), dW, nil
}
