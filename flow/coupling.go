// SPDX-License-Identifier: MIT

// coupling.go - coupling layer driving a Transformer over a
// carrier/transformed partition of the batch.
package flow

import (
	"fmt"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
)

// Coupling applies a two-variable Transformer inside a Transform:
// the carrier passes through unchanged and conditions the transformation
// of the remaining part. The Jacobian is therefore triangular and the
// layer's dlogp is exactly the transformer's.
//
// Two layouts, fixed at construction:
//
//   - two-event (default): the batch holds [carrier, target]; the output
//     holds [carrier, transformed target].
//   - split (WithSplit): the batch holds one event tensor, partitioned
//     along the last axis into carrier and target halves and reassembled
//     after the transformation — the RealNVP layout.
type Coupling struct {
	nopTrigger

	transformer Transformer
	split       []int // nil for the two-event layout
}

var _ Transform = (*Coupling)(nil)

// NewCoupling wraps the given transformer. Honors WithSplit.
//
// Errors: ErrNilTransform for a nil transformer, ErrBadParam for
// non-positive split widths.
func NewCoupling(t Transformer, opts ...Option) (*Coupling, error) {
	if t == nil {
		return nil, ErrNilTransform
	}
	cfg := newConfig(opts...)
	if cfg.split != nil && (cfg.split[0] <= 0 || cfg.split[1] <= 0) {
		return nil, fmt.Errorf("split widths %v: %w", cfg.split, ErrBadParam)
	}
	return &Coupling{transformer: t, split: cfg.split}, nil
}

// Forward transforms the target part conditioned on the carrier.
func (c *Coupling) Forward(z core.Batch, ctx *tensor.Dense) (core.Batch, []float64, error) {
	return c.apply(z, ctx, false)
}

// Inverse un-transforms the target part conditioned on the carrier.
func (c *Coupling) Inverse(x core.Batch, ctx *tensor.Dense) (core.Batch, []float64, error) {
	return c.apply(x, ctx, true)
}

func (c *Coupling) apply(b core.Batch, ctx *tensor.Dense, inverse bool) (core.Batch, []float64, error) {
	carrier, target, err := c.partition(b)
	if err != nil {
		return nil, nil, err
	}

	var out *tensor.Dense
	var dlogp []float64
	if inverse {
		out, dlogp, err = c.transformer.TransformInverse(carrier, target, ctx)
	} else {
		out, dlogp, err = c.transformer.TransformForward(carrier, target, ctx)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("coupling transformer: %w", err)
	}

	if c.split == nil {
		return core.Batch{carrier, out}, dlogp, nil
	}
	joined, err := core.ConcatAlong(len(carrier.Shape())-2, core.Batch{carrier, out})
	if err != nil {
		return nil, nil, fmt.Errorf("coupling reassemble: %w", err)
	}
	return core.Single(joined), dlogp, nil
}

// partition resolves the configured layout into carrier and target.
func (c *Coupling) partition(b core.Batch) (carrier, target *tensor.Dense, err error) {
	if c.split == nil {
		if len(b) != 2 {
			return nil, nil, fmt.Errorf("two-event coupling got %d tensors: %w", len(b), ErrArity)
		}
		return b[0], b[1], nil
	}
	if len(b) != 1 {
		return nil, nil, fmt.Errorf("split coupling takes one tensor, got %d: %w", len(b), ErrArity)
	}
	lastAxis := len(b[0].Shape()) - 2 // event axis index of the last axis
	parts, err := core.SplitAlong(b[0], lastAxis, c.split)
	if err != nil {
		return nil, nil, fmt.Errorf("coupling split: %w", err)
	}
	return parts[0], parts[1], nil
}
