// SPDX-License-Identifier: MIT

// sequence.go - ordered composition of transforms. The workhorse of every
// generator: priors feed the first child on the forward pass, targets feed
// the last child on the inverse pass, and Jacobian terms accumulate along
// the way.
package flow

import (
	"fmt"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
)

// Sequence applies its children in order on Forward and in reverse order
// on Inverse. Per-row log-Jacobian contributions are summed across the
// chain.
type Sequence struct {
	children []Transform
}

// NewSequence composes the given transforms. At least one child is
// required and none may be nil.
func NewSequence(children ...Transform) (*Sequence, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("empty sequence: %w", ErrNilTransform)
	}
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("child %d: %w", i, ErrNilTransform)
		}
	}
	return &Sequence{children: append([]Transform(nil), children...)}, nil
}

// Len reports the number of composed transforms.
func (s *Sequence) Len() int { return len(s.children) }

// Forward runs the children front to back.
func (s *Sequence) Forward(z core.Batch, ctx *tensor.Dense) (core.Batch, []float64, error) {
	return s.run(z, ctx, false)
}

// Inverse runs the children back to front, each in its inverse direction.
func (s *Sequence) Inverse(x core.Batch, ctx *tensor.Dense) (core.Batch, []float64, error) {
	return s.run(x, ctx, true)
}

func (s *Sequence) run(in core.Batch, ctx *tensor.Dense, inverse bool) (core.Batch, []float64, error) {
	cur := in
	var total []float64
	for i := 0; i < len(s.children); i++ {
		child := s.children[i]
		if inverse {
			child = s.children[len(s.children)-1-i]
		}

		var (
			next  core.Batch
			dlogp []float64
			err   error
		)
		if inverse {
			next, dlogp, err = child.Inverse(cur, ctx)
		} else {
			next, dlogp, err = child.Forward(cur, ctx)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("sequence step %d: %w", i, err)
		}

		if total == nil {
			total = append([]float64(nil), dlogp...)
		} else {
			if err := core.CheckColumn(dlogp, len(total)); err != nil {
				return nil, nil, fmt.Errorf("sequence step %d: %w", i, err)
			}
			total, err = core.AddColumns(total, dlogp)
			if err != nil {
				return nil, nil, fmt.Errorf("sequence step %d: %w", i, err)
			}
		}
		cur = next
	}
	return cur, total, nil
}

// Trigger broadcasts the command to every child; the first failure stops
// the walk.
func (s *Sequence) Trigger(cmd Command) error {
	for i, c := range s.children {
		if err := c.Trigger(cmd); err != nil {
			return fmt.Errorf("sequence step %d: %w", i, err)
		}
	}
	return nil
}
