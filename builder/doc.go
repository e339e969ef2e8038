// SPDX-License-Identifier: MIT

// Package builder maps declarative specs onto constructed distribution
// components: a type tag plus options becomes a ready Component, and a
// list of specs becomes a full product distribution. It exists so that
// configuration layers can describe priors without importing the
// construction details of every concrete distribution.
//
// The registry ships with the built-in kinds (KindNormal, KindUniform,
// KindTruncatedNormal) and accepts custom factories via Register, which
// plays the role of passing a factory in place of a type tag.
//
// Error policy:
//   - Only sentinel variables are exposed; branch with errors.Is.
//   - Factories attach context with %w wrapping, never panics.
package builder
