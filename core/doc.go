// Package core provides the fundamental batched-tensor types shared by
// every other package in boltzgen.
//
// The central abstractions:
//
//   - Batch — an ordered sequence of event tensors. A distribution over a
//     product space produces one tensor per "event" (positions,
//     orientations, torsions, …); each tensor carries the batch size as
//     its leading dimension and a fixed event shape on the remaining
//     dimensions.
//   - Column log-densities — energies, log-Jacobians and log-weights are
//     plain []float64 slices with one entry per batch row (the column
//     vector of shape (batch, 1) in tensor terms). Independent components
//     compose additively: the joint energy of independent sub-spaces is
//     the sum of their energies.
//
// Why a dedicated package?
//
//   - Single source of truth for shape bookkeeping — concatenation,
//     splitting and flattening of event tensors live here, so product
//     composition and coupling layers never duplicate axis arithmetic.
//   - Numeric policy in one place — log-space kernels (LogSumExp,
//     Softmax) delegate to gonum and are the only exponentiation sites,
//     keeping the wide-dynamic-range log-density arithmetic stable.
//   - Uniform error taxonomy — all shape-contract violations surface as
//     the sentinels declared in types.go, so callers can branch with
//     errors.Is regardless of which package detected the violation.
//
// Shape conventions:
//
//	tensor axis 0           — batch dimension (never part of an event shape)
//	tensor axes 1..r        — event shape axes 0..r-1
//	ConcatAlong/SplitAlong  — take event-shape axes; the batch axis is
//	                          not a legal concatenation target
//
// Errors:
//
//	ErrEmptyBatch         — operation received no tensors.
//	ErrBatchSize          — leading dimensions disagree inside one batch.
//	ErrShapeMismatch      — a tensor does not match its declared event shape.
//	ErrInconsistentShapes — component shapes differ on a non-concatenation axis.
//	ErrColumnLength       — a log-density column does not match the batch size.
//
// All operations are synchronous, allocation-explicit and goroutine-safe
// for read-only use; none of the types carry hidden mutable state.
package core
