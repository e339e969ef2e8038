package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/boltzgen/core"
)

func TestNormalizeLogs(t *testing.T) {
	t.Parallel()

	// Wildly spread magnitudes must still normalize to unit mass.
	logs := []float64{-900, -3, 0, 250, 249.5}
	core.NormalizeLogs(logs)

	var sum float64
	for _, lw := range logs {
		sum += math.Exp(lw)
	}
	assert.InDelta(t, 1.0, sum, 1e-10)
}

func TestSoftmax(t *testing.T) {
	t.Parallel()

	in := []float64{1, 2, 3}
	w := core.Softmax(in)

	require.Len(t, w, 3)
	assert.InDelta(t, 1.0, w[0]+w[1]+w[2], 1e-12)
	assert.Greater(t, w[2], w[1])
	assert.Greater(t, w[1], w[0])
	// input untouched
	assert.Equal(t, []float64{1, 2, 3}, in)

	// Extreme offsets must not overflow.
	w = core.Softmax([]float64{1000, 1000})
	assert.InDelta(t, 0.5, w[0], 1e-12)
}

func TestColumnArithmetic(t *testing.T) {
	t.Parallel()

	dst, err := core.AddColumns([]float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, dst)

	dst, err = core.SubColumns([]float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, dst)

	_, err = core.AddColumns([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, core.ErrColumnLength)

	_, err = core.SubColumns([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, core.ErrColumnLength)

	require.NoError(t, core.CheckColumn([]float64{1, 2}, 2))
	require.ErrorIs(t, core.CheckColumn([]float64{1}, 2), core.ErrColumnLength)
}
