// SPDX-License-Identifier: MIT

// Package boltzmann assembles a prior distribution, an invertible flow
// and a target energy into a Boltzmann generator: a trainable sampler
// whose pushforward distribution approximates the target's Boltzmann
// distribution and whose bias is corrected by importance weights.
//
// The Generator consumes three narrow capabilities:
//
//   - Prior: sample latent batches and score their energy;
//   - flow.Transform: map latents to configurations (and back) while
//     accumulating the log-Jacobian-determinant;
//   - Target: score configurations, optionally temperature-scaled.
//
// Everything stays in log-space until the final softmax or logsumexp,
// which keeps extreme energy differences from overflowing. Per-sample
// log-densities follow the column convention of package core: one
// float64 per batch row.
//
// Generators are not safe for concurrent use when the underlying
// sampler carries mutable cursor state (quasi-random sampling);
// serialize calls externally.
package boltzmann
