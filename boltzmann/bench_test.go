// SPDX-License-Identifier: MIT

package boltzmann_test

import (
	"testing"

	"github.com/katalvlaran/boltzgen/boltzmann"
	"github.com/katalvlaran/boltzgen/distribution"
	"github.com/katalvlaran/boltzgen/flow"
)

// benchGenerator wires a dim-dimensional self-targeted generator.
func benchGenerator(b *testing.B, dim int) *boltzmann.Generator {
	b.Helper()
	prior, err := distribution.FromComponent(mustNormal(dim, 1))
	if err != nil {
		b.Fatalf("prior: %v", err)
	}
	target, err := distribution.FromComponent(mustNormal(dim, 2))
	if err != nil {
		b.Fatalf("target: %v", err)
	}
	g, err := boltzmann.New(prior, flow.NewIdentity(), boltzmann.Scaled(target))
	if err != nil {
		b.Fatalf("generator: %v", err)
	}
	return g
}

func benchmarkSample(b *testing.B, dim, n int) {
	g := benchGenerator(b, dim)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.Sample(n, boltzmann.WithLogWeights()); err != nil {
			b.Fatalf("sample: %v", err)
		}
	}
}

func BenchmarkSample_Dim2(b *testing.B)  { benchmarkSample(b, 2, 256) }
func BenchmarkSample_Dim32(b *testing.B) { benchmarkSample(b, 32, 256) }

func BenchmarkLogWeightsFromSamples(b *testing.B) {
	g := benchGenerator(b, 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.LogWeightsFromSamples(1024, 128); err != nil {
			b.Fatalf("log weights: %v", err)
		}
	}
}

func BenchmarkEffectiveSampleSize(b *testing.B) {
	logw := make([]float64, 4096)
	for i := range logw {
		logw[i] = float64(i%7) - 3
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = boltzmann.EffectiveSampleSize(logw)
	}
}
