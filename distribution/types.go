// SPDX-License-Identifier: MIT

// Package distribution: capability interfaces, sentinel errors and the
// functional options shared by component and product constructors.
package distribution

import (
	"errors"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"
)

// Sentinel errors for construction and evaluation.
var (
	// ErrNoComponents indicates a product was built from an empty slice.
	ErrNoComponents = errors.New("distribution: no components")

	// ErrNilComponent indicates a nil entry in a component slice.
	ErrNilComponent = errors.New("distribution: nil component")

	// ErrBadParam indicates an invalid distribution parameter
	// (non-positive sigma, inverted bounds, wrong parameter length).
	ErrBadParam = errors.New("distribution: bad parameter")

	// ErrArity indicates the wrong number of event tensors for the
	// configured layout (separate vs. concatenated).
	ErrArity = errors.New("distribution: wrong number of event tensors")

	// ErrNotUniformSourced indicates a component without the
	// UniformSourced capability was handed to a quasi-random sampler.
	ErrNotUniformSourced = errors.New("distribution: component does not accept pre-supplied uniforms")

	// ErrNotVector indicates a quasi-random sampler was given a component
	// with a non-vector event shape.
	ErrNotVector = errors.New("distribution: quasi-random sampling requires vector event shapes")
)

// Shaped exposes the immutable per-event shape of a component, excluding
// the batch dimension.
type Shaped interface {
	EventShape() tensor.Shape
}

// Energier is the unnormalized negative log-density capability. The
// returned column has one entry per batch row. Additive composition
// across independent components is the core invariant of this library.
type Energier interface {
	Shaped
	Energy(x *tensor.Dense) ([]float64, error)
}

// Sampler draws n samples with event shape EventShape(). The temperature
// variant controls how aggressively spread the samples are; its numeric
// interpretation belongs to the component alone.
type Sampler interface {
	Shaped
	Sample(n int) (*tensor.Dense, error)
	SampleTemperature(n int, temperature float64) (*tensor.Dense, error)
}

// LogProber is the normalized log-density capability. Not to be confused
// with Energier: LogProb includes the log-partition constant.
type LogProber interface {
	LogProb(x *tensor.Dense) ([]float64, error)
}

// UniformSourced is the optional capability of mapping a pre-supplied
// (n, dim) block of uniforms in [0,1) to samples, used by quasi-random
// product sampling as a drop-in substitute for the component's own RNG.
type UniformSourced interface {
	SampleUniforms(u *tensor.Dense, temperature float64) (*tensor.Dense, error)
}

// Component bundles the full capability set of a single-event
// distribution. All concrete components in this package implement it.
type Component interface {
	Energier
	Sampler
	LogProber
}

// NoConcat configures product composition to keep per-component outputs
// separate instead of concatenating them.
const NoConcat = -1

// Option configures component and product constructors.
type Option func(*config)

type config struct {
	mu      []float64
	sigma   []float64
	low     []float64
	high    []float64
	src     rand.Source
	catAxis int
	sobol   bool
	seed    uint64
	seeded  bool
}

// WithMean sets the per-dimension mean; a single value broadcasts.
// Default: zero.
func WithMean(mu ...float64) Option { return func(c *config) { c.mu = mu } }

// WithSigma sets the per-dimension standard deviation; a single value
// broadcasts. Values must be strictly positive. Default: one.
func WithSigma(sigma ...float64) Option { return func(c *config) { c.sigma = sigma } }

// WithLow sets the per-dimension lower bound; a single value broadcasts.
// Default: zero (Uniform) or -Inf (TruncatedNormal).
func WithLow(low ...float64) Option { return func(c *config) { c.low = low } }

// WithHigh sets the per-dimension upper bound; a single value broadcasts.
// Default: one (Uniform) or +Inf (TruncatedNormal).
func WithHigh(high ...float64) Option { return func(c *config) { c.high = high } }

// WithSource sets the random source backing the component's own sampling.
// Default: a time-seeded source.
func WithSource(src rand.Source) Option { return func(c *config) { c.src = src } }

// WithSeed is shorthand for WithSource(rand.NewSource(seed)); it also
// seeds the Sobol sequence of a quasi-random product sampler, freezing
// the whole stochastic path for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.src = rand.NewSource(seed)
		c.seed = seed
		c.seeded = true
	}
}

// WithConcatAxis makes product composition concatenate component outputs
// along the given event axis (0 = first event dimension). All component
// shapes must agree on every other axis. Default: NoConcat.
func WithConcatAxis(axis int) Option { return func(c *config) { c.catAxis = axis } }

// WithSobol switches a product distribution to quasi-random sampling
// backed by a shared scrambled Sobol sequence. Default: off.
func WithSobol() Option { return func(c *config) { c.sobol = true } }
