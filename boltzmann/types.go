// SPDX-License-Identifier: MIT

package boltzmann

import (
	"errors"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
)

// Sentinel errors of the generator layer.
var (
	// ErrNilPrior indicates a generator constructed without a prior.
	ErrNilPrior = errors.New("boltzmann: nil prior")

	// ErrNilFlow indicates a generator constructed without a flow.
	ErrNilFlow = errors.New("boltzmann: nil flow")

	// ErrNilTarget indicates a generator constructed without a target.
	ErrNilTarget = errors.New("boltzmann: nil target")

	// ErrBadCount indicates a non-positive sample or batch count.
	ErrBadCount = errors.New("boltzmann: bad sample count")
)

// Prior is the latent-space capability the generator consumes: draw
// batches and score them with an unnormalized negative log-density.
type Prior interface {
	Sample(n int) (core.Batch, error)
	Energy(z core.Batch) ([]float64, error)
}

// Target scores configurations with an unnormalized negative
// log-density. The temperature's interpretation is owned by the target
// (commonly an energy rescale); the generator passes it through
// unmodified.
type Target interface {
	Energy(x core.Batch, temperature float64) ([]float64, error)
}

// BatchEnergier is a temperature-blind energy over batches, the shape
// exposed by the distribution layer's products.
type BatchEnergier interface {
	Energy(x core.Batch) ([]float64, error)
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(x core.Batch, temperature float64) ([]float64, error)

// Energy calls f.
func (f TargetFunc) Energy(x core.Batch, temperature float64) ([]float64, error) {
	return f(x, temperature)
}

// Scaled wraps a temperature-blind energy with the conventional E/T
// rescale, making it usable as a generator target. Temperatures <= 0
// are treated as 1.
func Scaled(e BatchEnergier) Target {
	return TargetFunc(func(x core.Batch, temperature float64) ([]float64, error) {
		vals, err := e.Energy(x)
		if err != nil {
			return nil, err
		}
		if temperature > 0 && temperature != 1 {
			for i := range vals {
				vals[i] /= temperature
			}
		}
		return vals, nil
	})
}

// DefaultTemperature is forwarded when no temperature option is given.
const DefaultTemperature = 1.0

// Option configures Sample, Energy, KLDiv and the log-weight methods.
// Options not consulted by a method are ignored there.
type Option func(*config)

type config struct {
	ctx         *tensor.Dense
	temperature float64
	normalize   bool

	withLatent     bool
	withDlogp      bool
	withEnergy     bool
	withLogWeights bool
	withWeights    bool

	regularizer func([]float64) []float64
	rawEnergies bool
}

// WithContext threads a conditioning tensor through the flow.
// Default: none.
func WithContext(ctx *tensor.Dense) Option { return func(c *config) { c.ctx = ctx } }

// WithTemperature sets the sampling temperature handed to the target.
// Default: DefaultTemperature.
func WithTemperature(t float64) Option { return func(c *config) { c.temperature = t } }

// WithoutNormalization leaves log-weights un-normalized instead of
// subtracting their logsumexp. Default: normalized.
func WithoutNormalization() Option { return func(c *config) { c.normalize = false } }

// WithLatent requests the latent batch in the sample result.
func WithLatent() Option { return func(c *config) { c.withLatent = true } }

// WithDlogp requests the per-row log-Jacobian column in the sample result.
func WithDlogp() Option { return func(c *config) { c.withDlogp = true } }

// WithEnergy requests the generator's own energy of the drawn samples.
func WithEnergy() Option { return func(c *config) { c.withEnergy = true } }

// WithLogWeights requests importance log-weights in the sample result.
func WithLogWeights() Option { return func(c *config) { c.withLogWeights = true } }

// WithWeights requests normalized importance weights in the sample result.
func WithWeights() Option { return func(c *config) { c.withWeights = true } }

// WithRegularizer transforms target energies before the KL estimate,
// e.g. to clip heavy tails. Default: none.
func WithRegularizer(fn func([]float64) []float64) Option {
	return func(c *config) { c.regularizer = fn }
}

// WithRawEnergies additionally returns the unregularized target energies
// from KLDiv. Default: off.
func WithRawEnergies() Option { return func(c *config) { c.rawEnergies = true } }

func newConfig(opts ...Option) config {
	cfg := config{
		temperature: DefaultTemperature,
		normalize:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
