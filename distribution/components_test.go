package distribution_test

import (
	"math"
	"testing"

	"github.com/pdevine/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/boltzgen/distribution"
)

// row wraps a single sample vector into a (1, dim) tensor.
func row(vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(1, len(vals)), tensor.WithBacking(vals))
}

func TestNewNormalValidation(t *testing.T) {
	t.Parallel()

	_, err := distribution.NewNormal(0)
	require.ErrorIs(t, err, distribution.ErrBadParam)

	_, err = distribution.NewNormal(3, distribution.WithSigma(1, 2)) // wrong length
	require.ErrorIs(t, err, distribution.ErrBadParam)

	_, err = distribution.NewNormal(2, distribution.WithSigma(-1))
	require.ErrorIs(t, err, distribution.ErrBadParam)

	d, err := distribution.NewNormal(2, distribution.WithMean(1), distribution.WithSigma(0.5))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, d.EventShape())
}

func TestNormalEnergyClosedForm(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewNormal(2, distribution.WithSeed(1))
	require.NoError(t, err)

	// Standard normal: E(x) = 0.5 * ||x||^2 (sigma term vanishes).
	e, err := d.Energy(row(3, 4))
	require.NoError(t, err)
	require.Len(t, e, 1)
	assert.InDelta(t, 0.5*25, e[0], 1e-12)

	// LogProb carries the 2*pi constant that Energy drops.
	lp, err := d.LogProb(row(0, 0))
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(2*math.Pi), lp[0], 1e-12)
}

func TestNormalSampleMoments(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewNormal(1,
		distribution.WithMean(2), distribution.WithSigma(0.5), distribution.WithSeed(7))
	require.NoError(t, err)

	const n = 20000
	x, err := d.Sample(n)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{n, 1}, x.Shape())

	var mean float64
	for _, v := range x.Data().([]float64) {
		mean += v
	}
	mean /= n
	assert.InDelta(t, 2.0, mean, 0.02)
}

func TestNormalTemperatureWidensSpread(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewNormal(1, distribution.WithSeed(11))
	require.NoError(t, err)

	const n = 20000
	cold, err := d.SampleTemperature(n, 0.25)
	require.NoError(t, err)
	hot, err := d.SampleTemperature(n, 4.0)
	require.NoError(t, err)

	variance := func(td *tensor.Dense) float64 {
		var m, v float64
		data := td.Data().([]float64)
		for _, x := range data {
			m += x
		}
		m /= float64(len(data))
		for _, x := range data {
			v += (x - m) * (x - m)
		}
		return v / float64(len(data))
	}
	// sigma scales by sqrt(T), variance by T.
	assert.InDelta(t, 0.25, variance(cold), 0.05)
	assert.InDelta(t, 4.0, variance(hot), 0.5)
}

func TestUniformBoundsAndEnergy(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewUniform(2,
		distribution.WithLow(-1), distribution.WithHigh(3), distribution.WithSeed(3))
	require.NoError(t, err)

	x, err := d.Sample(256)
	require.NoError(t, err)
	for _, v := range x.Data().([]float64) {
		require.GreaterOrEqual(t, v, -1.0)
		require.Less(t, v, 3.0)
	}

	e, err := d.Energy(row(0, 0))
	require.NoError(t, err)
	assert.Zero(t, e[0])

	e, err = d.Energy(row(5, 0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(e[0], 1))

	lp, err := d.LogProb(row(0, 0))
	require.NoError(t, err)
	assert.InDelta(t, -2*math.Log(4), lp[0], 1e-12)

	_, err = distribution.NewUniform(1, distribution.WithLow(2), distribution.WithHigh(1))
	require.ErrorIs(t, err, distribution.ErrBadParam)
}

func TestTruncatedNormalRespectsBounds(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewTruncatedNormal(1,
		distribution.WithLow(-0.5), distribution.WithHigh(0.5), distribution.WithSeed(5))
	require.NoError(t, err)

	x, err := d.Sample(4096)
	require.NoError(t, err)
	for _, v := range x.Data().([]float64) {
		require.GreaterOrEqual(t, v, -0.5)
		require.LessOrEqual(t, v, 0.5)
	}

	e, err := d.Energy(row(1.0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(e[0], 1))

	lp, err := d.LogProb(row(1.0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(lp[0], -1))
}

func TestTruncatedNormalLogProbNormalizes(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewTruncatedNormal(1,
		distribution.WithLow(-1), distribution.WithHigh(1))
	require.NoError(t, err)

	// Riemann sum of exp(LogProb) over the support should be ~1.
	const steps = 4000
	var mass float64
	for i := 0; i < steps; i++ {
		v := -1 + 2*(float64(i)+0.5)/steps
		lp, err := d.LogProb(row(v))
		require.NoError(t, err)
		mass += math.Exp(lp[0]) * (2.0 / steps)
	}
	assert.InDelta(t, 1.0, mass, 1e-3)
}

func TestSampleUniformsQuantileTransform(t *testing.T) {
	t.Parallel()

	d, err := distribution.NewNormal(1, distribution.WithSeed(1))
	require.NoError(t, err)

	u := tensor.New(tensor.WithShape(3, 1), tensor.WithBacking([]float64{0.5, 0.025, 0.975}))
	x, err := d.SampleUniforms(u, 1)
	require.NoError(t, err)

	got := x.Data().([]float64)
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, -1.96, got[1], 1e-2)
	assert.InDelta(t, 1.96, got[2], 1e-2)

	// Endpoint uniforms must stay finite.
	u = tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float64{0, 1}))
	x, err = d.SampleUniforms(u, 1)
	require.NoError(t, err)
	for _, v := range x.Data().([]float64) {
		require.False(t, math.IsInf(v, 0))
	}
}
