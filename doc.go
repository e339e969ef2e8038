// Package boltzgen implements Boltzmann generators: normalizing-flow
// samplers for unnormalized target densities, with importance-weight
// bias correction.
//
// 🚀 What is boltzgen?
//
//	A library that brings together the pieces of a trainable sampler:
//		• core/         — batched tensors & stable log-space column kernels
//		• qmc/          — scrambled Sobol low-discrepancy sequences
//		• distribution/ — normal / uniform / truncated-normal components,
//		  product composition, optionally quasi-random
//		• flow/         — invertible transforms: affine couplings,
//		  sequences, stochastic Metropolis relaxation
//		• boltzmann/    — the generator itself: sampling, reverse-KL
//		  estimation, importance log-weights, effective sample size
//		• builder/      — declarative spec-to-distribution construction
//
// ✨ Why choose boltzgen?
//
//   - Explicit errors — sentinel values, errors.Is-friendly wrapping, no panics
//   - Log-space throughout — logsumexp/softmax at the last possible moment
//   - Small consumed interfaces — bring your own prior, flow or target
//   - Deterministic when seeded — every stochastic component takes a source
//
// Everything is synchronous call-and-return numerics: no goroutines, no
// I/O. Log-densities follow a single convention across the library — one
// float64 per batch row.
//
// Quick sketch:
//
//	prior ── flow.Forward ──► x, dlogp
//	  │                        │
//	  └── energy(z) + dlogp ──┴──► logw = E_bg - E_target ──► ESS, resampling
//
// Dive into each package's doc.go for the full contract.
//
//	go get github.com/katalvlaran/boltzgen
package boltzgen
