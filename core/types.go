// SPDX-License-Identifier: MIT

// Package core declares the Batch type, event-shape descriptors and the
// sentinel errors shared across boltzgen.
//
// This file holds only declarations; the batch and column kernels live in
// batch.go and column.go.
package core

import (
	"errors"

	"github.com/pdevine/tensor"
)

// Sentinel errors for shape and batch contract violations.
var (
	// ErrEmptyBatch indicates an operation received zero tensors.
	ErrEmptyBatch = errors.New("core: empty batch")

	// ErrBatchSize indicates tensors inside one batch disagree on the
	// leading (batch) dimension.
	ErrBatchSize = errors.New("core: batch size mismatch")

	// ErrShapeMismatch indicates a tensor does not match the event shape
	// declared for its slot.
	ErrShapeMismatch = errors.New("core: event shape mismatch")

	// ErrInconsistentShapes indicates product components differ on an axis
	// other than the concatenation axis.
	ErrInconsistentShapes = errors.New("core: inconsistent component shapes")

	// ErrColumnLength indicates a log-density column does not have one
	// entry per batch row.
	ErrColumnLength = errors.New("core: column length mismatch")

	// ErrAxis indicates an axis argument outside the event rank.
	ErrAxis = errors.New("core: axis out of range")
)

// Batch is an ordered sequence of event tensors. Every tensor has the
// batch size as its leading dimension; the remaining dimensions form that
// event's shape. A single-event batch holds exactly one tensor.
//
// Batch is a value type: callers may share it freely, but must not rely
// on deep copies being taken by the functions in this package.
type Batch []*tensor.Dense

// Single wraps one event tensor into a Batch.
func Single(t *tensor.Dense) Batch { return Batch{t} }

// EventShape returns the event shape of t, i.e. its shape with the batch
// dimension stripped. Scalars per sample yield an empty shape.
func EventShape(t *tensor.Dense) tensor.Shape {
	s := t.Shape()
	if len(s) <= 1 {
		return tensor.Shape{}
	}
	out := make(tensor.Shape, len(s)-1)
	copy(out, s[1:])
	return out
}

// SameShape reports whether a and b are identical shapes.
func SameShape(a, b tensor.Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
