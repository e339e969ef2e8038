// SPDX-License-Identifier: MIT

// Package flow: interfaces, sentinel errors and functional options shared
// by the concrete transform layers.
package flow

import (
	"errors"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"

	"github.com/katalvlaran/boltzgen/core"
)

// Sentinel errors for transform construction and evaluation.
var (
	// ErrArity indicates a batch with the wrong number of event tensors
	// for the layer (e.g. a two-event coupling fed a single tensor).
	ErrArity = errors.New("flow: wrong number of event tensors")

	// ErrBadParam indicates an invalid layer parameter.
	ErrBadParam = errors.New("flow: bad parameter")

	// ErrNilTransform indicates a nil entry in a transform sequence.
	ErrNilTransform = errors.New("flow: nil transform")

	// ErrNilEnergy indicates a Metropolis flow without an energy model.
	ErrNilEnergy = errors.New("flow: nil energy model")
)

// Command is a mode-change message passed down through nested transforms.
// The core attaches no semantics; composite layers forward it, leaves
// ignore it unless they recognize the command.
type Command string

// Transform is a map between two tensor spaces that reports the
// log-Jacobian-determinant contribution of the step alongside the
// transformed batch. ctx is an optional conditioning side-channel and
// may be nil.
type Transform interface {
	Forward(z core.Batch, ctx *tensor.Dense) (core.Batch, []float64, error)
	Inverse(x core.Batch, ctx *tensor.Dense) (core.Batch, []float64, error)

	// Trigger requests mode-specific behavior changes in contained
	// sub-layers. Pass-through only; unrecognized commands are no-ops.
	Trigger(cmd Command) error
}

// Transformer is the two-variable contract driven by coupling layers:
// transform y conditioned on the carrier x.
type Transformer interface {
	TransformForward(x, y, ctx *tensor.Dense) (*tensor.Dense, []float64, error)
	TransformInverse(x, y, ctx *tensor.Dense) (*tensor.Dense, []float64, error)
}

// Conditioner produces a per-dimension parameter tensor (shift or
// log-scale) from the carrier variable and the optional context. The
// neural networks of a trained model enter the library through this
// type; LinearConditioner provides the simplest concrete instance.
type Conditioner func(x, ctx *tensor.Dense) (*tensor.Dense, error)

// EnergyModel is the slice of the distribution capability the Metropolis
// flow consumes.
type EnergyModel interface {
	Energy(x *tensor.Dense) ([]float64, error)
}

// nopTrigger is embedded by leaf transforms to satisfy the Trigger hook.
type nopTrigger struct{}

// Trigger is a no-op on leaf transforms.
func (nopTrigger) Trigger(Command) error { return nil }

// Option configures transform constructors.
type Option func(*config)

type config struct {
	shift          Conditioner
	scale          Conditioner
	initDownscale  float64
	preserveVolume bool
	circular       []int
	circularAll    bool
	split          []int
	steps          int
	stepSize       float64
	src            rand.Source
}

// DefaultInitDownscale is the initial downscaling exponent of the affine
// log-scale; exp(-1) keeps a fresh transform near the identity.
const DefaultInitDownscale = 1.0

// DefaultSteps is the Metropolis trajectory length.
const DefaultSteps = 1

// DefaultStepSize is the Metropolis proposal standard deviation.
const DefaultStepSize = 0.01

// WithShift sets the shift conditioner of an affine transformer.
// Default: no shift (mu = 0).
func WithShift(c Conditioner) Option { return func(cfg *config) { cfg.shift = c } }

// WithScale sets the log-scale conditioner of an affine transformer.
// Default: no scaling (sigma = 1). Setting a scale disables any
// configured periodicity (scaling is incompatible with wrap-around).
func WithScale(c Conditioner) Option { return func(cfg *config) { cfg.scale = c } }

// WithInitDownscale sets the initial log-scale damping exponent; larger
// values start closer to the identity. Default: DefaultInitDownscale.
func WithInitDownscale(d float64) Option { return func(cfg *config) { cfg.initDownscale = d } }

// WithVolumePreservation recenters log-sigma to zero mean across the
// event dimension, forcing a unit Jacobian determinant. Default: off.
func WithVolumePreservation() Option { return func(cfg *config) { cfg.preserveVolume = true } }

// WithCircular marks dimensions as periodic on [0,1): transformed values
// wrap around (mod 1). No arguments marks every dimension. Default: none.
func WithCircular(dims ...int) Option {
	return func(cfg *config) {
		cfg.circular = dims
		cfg.circularAll = len(dims) == 0
	}
}

// WithSplit makes a coupling layer operate on a single event tensor,
// split along the last axis into a carrier of width `carrier` and a
// transformed part of width `transformed`. Default: two separate events.
func WithSplit(carrier, transformed int) Option {
	return func(cfg *config) { cfg.split = []int{carrier, transformed} }
}

// WithSteps sets the Metropolis trajectory length. Default: DefaultSteps.
func WithSteps(n int) Option { return func(cfg *config) { cfg.steps = n } }

// WithStepSize sets the Metropolis proposal standard deviation.
// Default: DefaultStepSize.
func WithStepSize(s float64) Option { return func(cfg *config) { cfg.stepSize = s } }

// WithSource sets the random source of a stochastic flow.
// Default: a time-seeded source.
func WithSource(src rand.Source) Option { return func(cfg *config) { cfg.src = src } }

// WithSeed is shorthand for WithSource(rand.NewSource(seed)).
func WithSeed(seed uint64) Option {
	return func(cfg *config) { cfg.src = rand.NewSource(seed) }
}

// newConfig resolves options onto the documented defaults.
func newConfig(opts ...Option) config {
	cfg := config{
		initDownscale: DefaultInitDownscale,
		steps:         DefaultSteps,
		stepSize:      DefaultStepSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
