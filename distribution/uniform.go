// SPDX-License-Identifier: MIT

// uniform.go - box-uniform component distribution.
package distribution

import (
	"fmt"
	"math"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/boltzgen/core"
)

// Uniform is a uniform distribution over an axis-aligned box with vector
// event shape (dim,).
//
// Temperature semantics: sampling temperature has no effect on a bounded
// uniform density and is deliberately ignored (pass-through convention:
// each component owns its own interpretation).
type Uniform struct {
	dim  int
	low  []float64
	high []float64
	src  rand.Source
}

var (
	_ Component      = (*Uniform)(nil)
	_ UniformSourced = (*Uniform)(nil)
)

// NewUniform constructs a dim-dimensional box uniform.
// Defaults: the unit box [0,1)^dim, time-seeded source.
//
// Errors: ErrBadParam for dim <= 0, wrong parameter lengths, or
// low[j] >= high[j].
func NewUniform(dim int, opts ...Option) (*Uniform, error) {
	cfg := newConfig(opts...)
	low, err := expand("uniform low", cfg.low, dim, 0)
	if err != nil {
		return nil, err
	}
	high, err := expand("uniform high", cfg.high, dim, 1)
	if err != nil {
		return nil, err
	}
	for j := range low {
		if low[j] >= high[j] {
			return nil, fmt.Errorf("uniform bounds [%v, %v) on dim %d: %w",
				low[j], high[j], j, ErrBadParam)
		}
	}
	return &Uniform{dim: dim, low: low, high: high, src: cfg.source()}, nil
}

// EventShape returns (dim,).
func (d *Uniform) EventShape() tensor.Shape { return tensor.Shape{d.dim} }

// Sample draws n samples.
func (d *Uniform) Sample(n int) (*tensor.Dense, error) {
	return d.SampleTemperature(n, 1)
}

// SampleTemperature draws n samples; temperature is ignored.
func (d *Uniform) SampleTemperature(n int, _ float64) (*tensor.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrBadParam)
	}
	data := make([]float64, n*d.dim)
	for j := 0; j < d.dim; j++ {
		dist := distuv.Uniform{Min: d.low[j], Max: d.high[j], Src: d.src}
		for i := 0; i < n; i++ {
			data[i*d.dim+j] = dist.Rand()
		}
	}
	return tensor.New(tensor.WithShape(n, d.dim), tensor.WithBacking(data)), nil
}

// SampleUniforms rescales a pre-supplied (n, dim) block of uniforms into
// the box. Temperature is ignored.
func (d *Uniform) SampleUniforms(u *tensor.Dense, _ float64) (*tensor.Dense, error) {
	if err := core.CheckEvent(u, tensor.Shape{d.dim}, -1); err != nil {
		return nil, err
	}
	n := u.Shape()[0]
	in := u.Data().([]float64)
	data := make([]float64, n*d.dim)
	for j := 0; j < d.dim; j++ {
		width := d.high[j] - d.low[j]
		for i := 0; i < n; i++ {
			data[i*d.dim+j] = d.low[j] + in[i*d.dim+j]*width
		}
	}
	return tensor.New(tensor.WithShape(n, d.dim), tensor.WithBacking(data)), nil
}

// Energy is zero inside the box and +Inf outside.
func (d *Uniform) Energy(x *tensor.Dense) ([]float64, error) {
	if err := core.CheckEvent(x, tensor.Shape{d.dim}, -1); err != nil {
		return nil, err
	}
	n := x.Shape()[0]
	data := x.Data().([]float64)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < d.dim; j++ {
			v := data[i*d.dim+j]
			if v < d.low[j] || v >= d.high[j] {
				out[i] = math.Inf(1)
				break
			}
		}
	}
	return out, nil
}

// LogProb returns -sum_j log(high_j - low_j) inside the box, -Inf outside.
func (d *Uniform) LogProb(x *tensor.Dense) ([]float64, error) {
	energies, err := d.Energy(x)
	if err != nil {
		return nil, err
	}
	var logVol float64
	for j := range d.low {
		logVol += math.Log(d.high[j] - d.low[j])
	}
	for i, e := range energies {
		if math.IsInf(e, 1) {
			energies[i] = math.Inf(-1)
		} else {
			energies[i] = -logVol
		}
	}
	return energies, nil
}
