// SPDX-License-Identifier: MIT

// weights.go - free diagnostics over importance log-weights and
// weight-proportional resampling.
package boltzmann

import (
	"fmt"
	"math"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/katalvlaran/boltzgen/core"
)

// EffectiveSampleSize is the Kish effective sample size
//
//	ESS = exp(2*logsumexp(logw) - logsumexp(2*logw)),
//
// valid for un-normalized log-weights: adding a constant to every
// log-weight leaves it unchanged. ESS lies in [1, len(logw)].
func EffectiveSampleSize(logw []float64) float64 {
	doubled := make([]float64, len(logw))
	for i, v := range logw {
		doubled[i] = 2 * v
	}
	return math.Exp(2*core.LogSumExp(logw) - core.LogSumExp(doubled))
}

// SamplingEfficiency is ESS divided by the batch size, in (0, 1].
func SamplingEfficiency(logw []float64) float64 {
	if len(logw) == 0 {
		return 0
	}
	return EffectiveSampleSize(logw) / float64(len(logw))
}

// Resample draws n rows from x with probability proportional to the
// importance weights, turning a biased generator batch into an
// (approximately) unbiased target batch. logw need not be normalized.
// A nil src falls back to the global source.
func Resample(x core.Batch, logw []float64, n int, src rand.Source) (core.Batch, error) {
	batch, err := core.BatchSize(x)
	if err != nil {
		return nil, err
	}
	if err := core.CheckColumn(logw, batch); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrBadCount)
	}

	probs := core.Softmax(logw)
	w := sampleuv.NewWeighted(probs, src)
	idx := make([]int, n)
	for i := range idx {
		j, ok := w.Take()
		if !ok {
			return nil, fmt.Errorf("row %d: %w", i, ErrBadCount)
		}
		idx[i] = j
		// Take removes the drawn item; restore its weight so the draw
		// is with replacement.
		w.Reweight(j, probs[j])
	}

	out := make(core.Batch, len(x))
	for e, t := range x {
		data := t.Data().([]float64)
		width := len(data) / batch
		pick := make([]float64, n*width)
		for i, j := range idx {
			copy(pick[i*width:(i+1)*width], data[j*width:(j+1)*width])
		}
		shape := append(tensor.Shape{n}, t.Shape()[1:]...)
		out[e] = tensor.New(tensor.WithShape(shape...), tensor.WithBacking(pick))
	}
	return out, nil
}
