// SPDX-License-Identifier: MIT

// affine.go - RealNVP/NICE-style affine transformer: y' = sigma*y + mu
// with conditioner-produced parameters.
package flow

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
)

// Affine transforms y conditioned on a carrier x:
//
//	forward:  y' = exp(log_sigma) * y + mu,  dlogp = +sum(log_sigma)
//	inverse:  y' = (y - mu) * exp(-log_sigma), dlogp = -sum(log_sigma)
//
// mu comes from the shift conditioner (zero when absent); log_sigma is
// the scale conditioner's output passed through tanh and damped by
// exp(-initDownscale), so a freshly constructed transform stays close to
// the identity. With volume preservation, log_sigma is recentred to zero
// mean across the event dimension and the determinant is exactly one.
//
// Dimensions marked circular wrap transformed values back into [0,1).
// Scaling is incompatible with periodicity: if both are configured, the
// periodicity is dropped with a warning.
type Affine struct {
	shift          Conditioner
	scale          Conditioner
	logAlpha       float64
	preserveVolume bool
	circular       []int
	circularAll    bool
}

var _ Transformer = (*Affine)(nil)

// NewAffine constructs an affine transformer. With neither WithShift nor
// WithScale it is the identity with zero dlogp.
func NewAffine(opts ...Option) *Affine {
	cfg := newConfig(opts...)
	a := &Affine{
		shift:          cfg.shift,
		scale:          cfg.scale,
		logAlpha:       -cfg.initDownscale,
		preserveVolume: cfg.preserveVolume,
		circular:       cfg.circular,
		circularAll:    cfg.circularAll,
	}
	if a.scale != nil && (a.circularAll || len(a.circular) > 0) {
		slog.Warn("flow: scaling is not compatible with periodicity, deactivating periodicity")
		a.circular, a.circularAll = nil, false
	}
	return a
}

// params evaluates mu and log_sigma flattened over y's full shape,
// defaulting to zeros. Conditioner outputs must match y's shape exactly.
func (a *Affine) params(x, y, ctx *tensor.Dense) (mu, logSigma []float64, err error) {
	d := y.Shape()[len(y.Shape())-1]
	total := totalSize(y.Shape())

	if a.shift != nil {
		t, err := a.shift(x, ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("shift conditioner: %w", err)
		}
		if !core.SameShape(t.Shape(), y.Shape()) {
			return nil, nil, fmt.Errorf("shift produced %v for target %v: %w",
				t.Shape(), y.Shape(), core.ErrShapeMismatch)
		}
		mu = t.Data().([]float64)
	} else {
		mu = make([]float64, total)
	}

	if a.scale != nil {
		t, err := a.scale(x, ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("scale conditioner: %w", err)
		}
		if !core.SameShape(t.Shape(), y.Shape()) {
			return nil, nil, fmt.Errorf("scale produced %v for target %v: %w",
				t.Shape(), y.Shape(), core.ErrShapeMismatch)
		}
		alpha := math.Exp(a.logAlpha)
		raw := t.Data().([]float64)
		logSigma = make([]float64, total)
		for i, v := range raw {
			logSigma[i] = math.Tanh(v) * alpha
		}
		if a.preserveVolume {
			// Recenter each trailing-axis row to a zero mean.
			for base := 0; base < total; base += d {
				rowMean := 0.0
				for c := 0; c < d; c++ {
					rowMean += logSigma[base+c]
				}
				rowMean /= float64(d)
				for c := 0; c < d; c++ {
					logSigma[base+c] -= rowMean
				}
			}
		}
	} else {
		logSigma = make([]float64, total)
	}
	return mu, logSigma, nil
}

// TransformForward applies y' = exp(log_sigma)*y + mu.
func (a *Affine) TransformForward(x, y, ctx *tensor.Dense) (*tensor.Dense, []float64, error) {
	return a.apply(x, y, ctx, false)
}

// TransformInverse applies y' = (y - mu)*exp(-log_sigma).
func (a *Affine) TransformInverse(x, y, ctx *tensor.Dense) (*tensor.Dense, []float64, error) {
	return a.apply(x, y, ctx, true)
}

func (a *Affine) apply(x, y, ctx *tensor.Dense, inverse bool) (*tensor.Dense, []float64, error) {
	mu, logSigma, err := a.params(x, y, ctx)
	if err != nil {
		return nil, nil, err
	}
	shape := y.Shape()
	n := shape[0]
	d := shape[len(shape)-1]
	in := y.Data().([]float64)

	// The map is elementwise over the whole event, whatever its rank;
	// only the Jacobian sum and the periodicity flags care about layout.
	out := make([]float64, len(in))
	dlogp := make([]float64, n)
	perRow := len(in) / n
	for r := 0; r < n; r++ {
		var rowSum float64
		base := r * perRow
		for j := 0; j < perRow; j++ {
			i := base + j
			if inverse {
				out[i] = (in[i] - mu[i]) * math.Exp(-logSigma[i])
				rowSum -= logSigma[i]
			} else {
				out[i] = math.Exp(logSigma[i])*in[i] + mu[i]
				rowSum += logSigma[i]
			}
			if a.wraps(j % d) {
				out[i] = wrapUnit(out[i])
			}
		}
		dlogp[r] = rowSum
	}

	res := tensor.New(tensor.WithShape(shape...), tensor.WithBacking(out))
	return res, dlogp, nil
}

// totalSize is the element count of a shape.
func totalSize(s tensor.Shape) int {
	total := 1
	for _, v := range s {
		total *= v
	}
	return total
}

// wraps reports whether dimension c is periodic.
func (a *Affine) wraps(c int) bool {
	if a.circularAll {
		return true
	}
	for _, d := range a.circular {
		if d == c {
			return true
		}
	}
	return false
}

// wrapUnit maps v into [0,1), correct for negative values.
func wrapUnit(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	return v
}
