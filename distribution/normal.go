// SPDX-License-Identifier: MIT

// normal.go - diagonal Gaussian component distribution built on
// gonum/stat/distuv.
package distribution

import (
	"fmt"
	"math"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/boltzgen/core"
)

// uniformFloor keeps quantile transforms away from the exact endpoints
// of [0,1], where the inverse CDF diverges.
const uniformFloor = 1e-13

// Normal is a diagonal Gaussian over a vector event shape (dim,).
//
// Temperature semantics: sampling at temperature T scales every sigma by
// sqrt(T), the Boltzmann convention for Gaussian energies.
type Normal struct {
	dim   int
	mu    []float64
	sigma []float64
	src   rand.Source
}

var (
	_ Component      = (*Normal)(nil)
	_ UniformSourced = (*Normal)(nil)
)

// NewNormal constructs a dim-dimensional diagonal Gaussian.
// Defaults: mean 0, sigma 1, time-seeded source.
//
// Errors: ErrBadParam for dim <= 0, wrong parameter lengths, or a
// non-positive sigma.
func NewNormal(dim int, opts ...Option) (*Normal, error) {
	cfg := newConfig(opts...)
	mu, err := expand("normal mean", cfg.mu, dim, 0)
	if err != nil {
		return nil, err
	}
	sigma, err := expand("normal sigma", cfg.sigma, dim, 1)
	if err != nil {
		return nil, err
	}
	for i, s := range sigma {
		if s <= 0 {
			return nil, fmt.Errorf("normal sigma[%d]=%v: %w", i, s, ErrBadParam)
		}
	}
	return &Normal{dim: dim, mu: mu, sigma: sigma, src: cfg.source()}, nil
}

// EventShape returns (dim,).
func (d *Normal) EventShape() tensor.Shape { return tensor.Shape{d.dim} }

// Sample draws n samples at temperature 1.
func (d *Normal) Sample(n int) (*tensor.Dense, error) {
	return d.SampleTemperature(n, 1)
}

// SampleTemperature draws n samples with sigma scaled by sqrt(temperature).
func (d *Normal) SampleTemperature(n int, temperature float64) (*tensor.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrBadParam)
	}
	scale := tempScale(temperature)
	data := make([]float64, n*d.dim)
	for j := 0; j < d.dim; j++ {
		dist := distuv.Normal{Mu: d.mu[j], Sigma: d.sigma[j] * scale, Src: d.src}
		for i := 0; i < n; i++ {
			data[i*d.dim+j] = dist.Rand()
		}
	}
	return tensor.New(tensor.WithShape(n, d.dim), tensor.WithBacking(data)), nil
}

// SampleUniforms maps a pre-supplied (n, dim) block of uniforms through
// the per-dimension quantile function, so that low-discrepancy input
// yields low-discrepancy Gaussian output.
func (d *Normal) SampleUniforms(u *tensor.Dense, temperature float64) (*tensor.Dense, error) {
	if err := core.CheckEvent(u, tensor.Shape{d.dim}, -1); err != nil {
		return nil, err
	}
	n := u.Shape()[0]
	scale := tempScale(temperature)
	in := u.Data().([]float64)
	data := make([]float64, n*d.dim)
	for j := 0; j < d.dim; j++ {
		dist := distuv.Normal{Mu: d.mu[j], Sigma: d.sigma[j] * scale}
		for i := 0; i < n; i++ {
			data[i*d.dim+j] = dist.Quantile(clampUnit(in[i*d.dim+j]))
		}
	}
	return tensor.New(tensor.WithShape(n, d.dim), tensor.WithBacking(data)), nil
}

// Energy returns the unnormalized negative log-density
// E(x) = sum_j [ (x_j-mu_j)^2 / (2 sigma_j^2) + log sigma_j ].
func (d *Normal) Energy(x *tensor.Dense) ([]float64, error) {
	if err := core.CheckEvent(x, tensor.Shape{d.dim}, -1); err != nil {
		return nil, err
	}
	n := x.Shape()[0]
	data := x.Data().([]float64)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var e float64
		for j := 0; j < d.dim; j++ {
			z := (data[i*d.dim+j] - d.mu[j]) / d.sigma[j]
			e += 0.5*z*z + math.Log(d.sigma[j])
		}
		out[i] = e
	}
	return out, nil
}

// LogProb returns the exact normalized log-density, one entry per row.
func (d *Normal) LogProb(x *tensor.Dense) ([]float64, error) {
	if err := core.CheckEvent(x, tensor.Shape{d.dim}, -1); err != nil {
		return nil, err
	}
	n := x.Shape()[0]
	data := x.Data().([]float64)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var lp float64
		for j := 0; j < d.dim; j++ {
			dist := distuv.Normal{Mu: d.mu[j], Sigma: d.sigma[j]}
			lp += dist.LogProb(data[i*d.dim+j])
		}
		out[i] = lp
	}
	return out, nil
}

// tempScale converts a sampling temperature to a sigma multiplier.
// Non-positive temperatures are treated as 1 (unset).
func tempScale(temperature float64) float64 {
	if temperature <= 0 {
		return 1
	}
	return math.Sqrt(temperature)
}

// clampUnit nudges u into the open interval (0, 1).
func clampUnit(u float64) float64 {
	if u < uniformFloor {
		return uniformFloor
	}
	if u > 1-uniformFloor {
		return 1 - uniformFloor
	}
	return u
}
