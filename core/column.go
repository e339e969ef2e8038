// SPDX-License-Identifier: MIT

// column.go - log-space kernels over column log-densities.
//
// Energies, log-Jacobians and log-weights are []float64 slices with one
// entry per batch row. Everything stays in log-space until the last
// possible moment: the only exponentiation sites in the whole library are
// Softmax and the final exp of the ESS formula, both routed through
// gonum's LogSumExp to survive wide dynamic range.
package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogSumExp returns log(sum_i exp(x_i)) computed stably.
// Delegates to gonum; defined here so callers need a single import.
func LogSumExp(x []float64) float64 {
	return floats.LogSumExp(x)
}

// NormalizeLogs subtracts logsumexp(x) from every entry in place, so that
// sum(exp(x)) == 1 up to floating-point precision. Returns x.
func NormalizeLogs(x []float64) []float64 {
	floats.AddConst(-floats.LogSumExp(x), x)
	return x
}

// Softmax returns the normalized probability weights exp(x)/sum(exp(x)),
// shifted by logsumexp before exponentiating. The input is not modified.
func Softmax(x []float64) []float64 {
	lse := floats.LogSumExp(x)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v - lse)
	}
	return out
}

// AddColumns adds src into dst elementwise and returns dst.
//
// Errors: ErrColumnLength if the lengths differ.
func AddColumns(dst, src []float64) ([]float64, error) {
	if len(dst) != len(src) {
		return nil, fmt.Errorf("len %d vs %d: %w", len(dst), len(src), ErrColumnLength)
	}
	floats.Add(dst, src)
	return dst, nil
}

// SubColumns subtracts src from dst elementwise and returns dst.
//
// Errors: ErrColumnLength if the lengths differ.
func SubColumns(dst, src []float64) ([]float64, error) {
	if len(dst) != len(src) {
		return nil, fmt.Errorf("len %d vs %d: %w", len(dst), len(src), ErrColumnLength)
	}
	floats.Sub(dst, src)
	return dst, nil
}

// CheckColumn verifies that col has exactly n entries.
func CheckColumn(col []float64, n int) error {
	if len(col) != n {
		return fmt.Errorf("column has %d entries, batch size is %d: %w",
			len(col), n, ErrColumnLength)
	}
	return nil
}
