// SPDX-License-Identifier: MIT

// batch.go - shape bookkeeping for batched event tensors: batch-size
// queries, event-axis concatenation/splitting, flattening, and the
// stacked-shape computation used by product composition.
package core

import (
	"fmt"

	"github.com/pdevine/tensor"
)

// BatchSize returns the shared leading dimension of all tensors in b.
//
// Errors:
//   - ErrEmptyBatch if b holds no tensors.
//   - ErrBatchSize if the leading dimensions disagree.
func BatchSize(b Batch) (int, error) {
	if len(b) == 0 {
		return 0, ErrEmptyBatch
	}
	n := b[0].Shape()[0]
	for i, t := range b[1:] {
		if t.Shape()[0] != n {
			return 0, fmt.Errorf("event %d has leading dim %d, want %d: %w",
				i+1, t.Shape()[0], n, ErrBatchSize)
		}
	}
	return n, nil
}

// StackedShape computes the event shape of the concatenation of the given
// event shapes along event axis `axis`, together with each component's
// length along that axis.
//
// All shapes must agree on every axis except `axis`; a violation is the
// structural constraint error of product composition.
//
// Complexity: O(K·r) for K shapes of rank r.
func StackedShape(shapes []tensor.Shape, axis int) (tensor.Shape, []int, error) {
	if len(shapes) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	rank := len(shapes[0])
	if axis < 0 || axis >= rank {
		return nil, nil, fmt.Errorf("axis %d for rank %d: %w", axis, rank, ErrAxis)
	}
	lengths := make([]int, len(shapes))
	total := 0
	for i, s := range shapes {
		if len(s) != rank {
			return nil, nil, fmt.Errorf("component %d has rank %d, want %d: %w",
				i, len(s), rank, ErrInconsistentShapes)
		}
		for ax := 0; ax < rank; ax++ {
			if ax != axis && s[ax] != shapes[0][ax] {
				return nil, nil, fmt.Errorf("component %d differs on axis %d (%d vs %d): %w",
					i, ax, s[ax], shapes[0][ax], ErrInconsistentShapes)
			}
		}
		lengths[i] = s[axis]
		total += s[axis]
	}
	out := make(tensor.Shape, rank)
	copy(out, shapes[0])
	out[axis] = total
	return out, lengths, nil
}

// ConcatAlong concatenates the batch tensors along event axis `axis`
// (tensor axis axis+1). All inputs must share the batch size and agree on
// every other axis.
func ConcatAlong(axis int, ts Batch) (*tensor.Dense, error) {
	if len(ts) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(ts) == 1 {
		return ts[0], nil
	}
	if _, err := BatchSize(ts); err != nil {
		return nil, err
	}
	rest := make([]tensor.Tensor, len(ts)-1)
	for i, t := range ts[1:] {
		rest[i] = t
	}
	cat, err := tensor.Concat(axis+1, ts[0], rest...)
	if err != nil {
		return nil, fmt.Errorf("concat along event axis %d: %w", axis, err)
	}
	return cat.(*tensor.Dense), nil
}

// SplitAlong splits t into len(lengths) pieces along event axis `axis`
// (tensor axis axis+1). The lengths must sum to t's extent on that axis.
// Each returned tensor is a materialized copy, safe to mutate.
func SplitAlong(t *tensor.Dense, axis int, lengths []int) (Batch, error) {
	shape := t.Shape()
	tAxis := axis + 1
	if tAxis < 1 || tAxis >= len(shape) {
		return nil, fmt.Errorf("axis %d for event rank %d: %w", axis, len(shape)-1, ErrAxis)
	}
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	if sum != shape[tAxis] {
		return nil, fmt.Errorf("split lengths sum to %d, axis extent is %d: %w",
			sum, shape[tAxis], ErrShapeMismatch)
	}

	out := make(Batch, 0, len(lengths))
	off := 0
	for _, l := range lengths {
		specs := make([]tensor.Slice, len(shape))
		specs[tAxis] = tensor.S(off, off+l)
		view, err := t.Slice(specs...)
		if err != nil {
			return nil, fmt.Errorf("slice [%d:%d) on axis %d: %w", off, off+l, axis, err)
		}
		out = append(out, view.Materialize().(*tensor.Dense))
		off += l
	}
	return out, nil
}

// ConcatBatches concatenates per-chunk batches along the batch axis.
// chunks[i] must all hold the same number of events with identical event
// shapes; the result holds one tensor per event.
func ConcatBatches(chunks []Batch) (Batch, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(chunks) == 1 {
		return chunks[0], nil
	}
	events := len(chunks[0])
	for i, c := range chunks[1:] {
		if len(c) != events {
			return nil, fmt.Errorf("chunk %d has %d events, want %d: %w",
				i+1, len(c), events, ErrShapeMismatch)
		}
	}
	out := make(Batch, events)
	for e := 0; e < events; e++ {
		rest := make([]tensor.Tensor, len(chunks)-1)
		for i, c := range chunks[1:] {
			rest[i] = c[e]
		}
		cat, err := tensor.Concat(0, chunks[0][e], rest...)
		if err != nil {
			return nil, fmt.Errorf("concat event %d along batch axis: %w", e, err)
		}
		out[e] = cat.(*tensor.Dense)
	}
	return out, nil
}

// FlattenEvents reshapes a copy of t to (batch, prod(event dims)). The
// input is left untouched.
func FlattenEvents(t *tensor.Dense) (*tensor.Dense, error) {
	shape := t.Shape()
	if len(shape) == 0 {
		return nil, ErrShapeMismatch
	}
	n := shape[0]
	rest := 1
	for _, d := range shape[1:] {
		rest *= d
	}
	c := t.Clone().(*tensor.Dense)
	if err := c.Reshape(n, rest); err != nil {
		return nil, fmt.Errorf("flatten events of %v: %w", shape, err)
	}
	return c, nil
}

// CheckEvent verifies that t carries event shape want; n < 0 skips the
// batch-size check.
func CheckEvent(t *tensor.Dense, want tensor.Shape, n int) error {
	if got := EventShape(t); !SameShape(got, want) {
		return fmt.Errorf("got event shape %v, want %v: %w", got, want, ErrShapeMismatch)
	}
	if n >= 0 && t.Shape()[0] != n {
		return fmt.Errorf("got batch size %d, want %d: %w", t.Shape()[0], n, ErrBatchSize)
	}
	return nil
}
