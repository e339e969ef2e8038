// SPDX-License-Identifier: MIT

// params.go - option resolution and parameter broadcasting shared by the
// concrete component constructors.
package distribution

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// newConfig resolves functional options into an immutable config with
// documented defaults.
func newConfig(opts ...Option) config {
	c := config{catAxis: NoConcat}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// source returns the configured random source, falling back to a
// time-seeded one.
func (c config) source() rand.Source {
	if c.src != nil {
		return c.src
	}
	return rand.NewSource(uint64(time.Now().UnixNano()))
}

// randomSeed derives a fresh seed for samplers constructed without
// WithSeed.
func randomSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// expand broadcasts vals to dim entries: nil yields dim copies of def, a
// single value broadcasts, dim values pass through.
//
// Errors: ErrBadParam on any other length or non-positive dim.
func expand(name string, vals []float64, dim int, def float64) ([]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%s: dim=%d: %w", name, dim, ErrBadParam)
	}
	out := make([]float64, dim)
	switch len(vals) {
	case 0:
		for i := range out {
			out[i] = def
		}
	case 1:
		for i := range out {
			out[i] = vals[0]
		}
	case dim:
		copy(out, vals)
	default:
		return nil, fmt.Errorf("%s: got %d values for dim %d: %w", name, len(vals), dim, ErrBadParam)
	}
	return out, nil
}
