// Package flow provides the bijective-transform abstraction of boltzgen
// and a small set of concrete layers: affine transformers, coupling
// layers, sequential composition, and a stochastic Metropolis Monte
// Carlo flow.
//
// A Transform maps a batch of event tensors to a batch of event tensors
// and reports the log-Jacobian-determinant contribution ("dlogp") of the
// step, one value per batch row:
//
//	x, dlogp, err := t.Forward(z, ctx)   // z -> x, log|det dx/dz|
//	z, dlogp, err := t.Inverse(x, ctx)   // x -> z, log|det dz/dx|
//
// Sign convention: forward dlogp values are added when composing; for a
// pure bijection the inverse dlogp is the negative of the corresponding
// forward term. The Metropolis flow deliberately breaks this rule — it
// is not a bijection, and its reported "dlogp" is the realized
// nonequilibrium work of the trajectory (see metropolis.go).
//
// The optional ctx tensor is a side-channel threaded through unchanged;
// conditioners may consume it, the transforms themselves never touch it.
//
// Trigger is a pass-through command hook: Sequence forwards a Command to
// every child, leaf transforms default to no-op. The core defines no
// command semantics of its own.
//
// Layers:
//
//   - Affine    — y' = sigma*y + mu with conditioner-produced shift and
//     tanh-bounded, downscaled log-scale; optional volume
//     preservation and per-dimension circular wrap.
//   - Coupling  — RealNVP-style layer driving an Affine (or any
//     Transformer) over a carrier/transformed partition,
//     either as two events or as one split event tensor.
//   - Sequence  — ordered composition with additive dlogp accumulation.
//   - Metropolis — fixed-step Metropolis MC under an energy model.
//   - Identity  — passthrough with zero dlogp.
package flow
