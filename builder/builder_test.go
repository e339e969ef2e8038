// SPDX-License-Identifier: MIT

package builder_test

import (
	"testing"

	"github.com/pdevine/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/boltzgen/builder"
	"github.com/katalvlaran/boltzgen/distribution"
)

func TestMakeBuiltins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind builder.Kind
		opts []distribution.Option
	}{
		{builder.KindNormal, []distribution.Option{distribution.WithMean(1, 2)}},
		{builder.KindUniform, []distribution.Option{distribution.WithHigh(2)}},
		{builder.KindTruncatedNormal, []distribution.Option{distribution.WithLow(0)}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()
			c, err := builder.Make(tc.kind, 2, tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{2}, c.EventShape())
		})
	}
}

func TestMakeUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := builder.Make("cauchy", 2)
	require.ErrorIs(t, err, builder.ErrUnknownKind)
}

func TestMakePropagatesFactoryErrors(t *testing.T) {
	t.Parallel()

	_, err := builder.Make(builder.KindNormal, 3, distribution.WithMean(1, 2))
	require.ErrorIs(t, err, distribution.ErrBadParam, "2 means cannot broadcast to dim 3")
}

func TestRegisterCustomKind(t *testing.T) {
	t.Parallel()

	err := builder.Register("unit-box", func(dim int, opts ...distribution.Option) (distribution.Component, error) {
		return distribution.NewUniform(dim, opts...)
	})
	require.NoError(t, err)
	assert.Contains(t, builder.Kinds(), builder.Kind("unit-box"))

	c, err := builder.Make("unit-box", 4)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4}, c.EventShape())

	err = builder.Register("unit-box", func(dim int, opts ...distribution.Option) (distribution.Component, error) {
		return distribution.NewUniform(dim, opts...)
	})
	require.ErrorIs(t, err, builder.ErrDuplicateKind)

	err = builder.Register("nil-kind", nil)
	require.ErrorIs(t, err, builder.ErrNilFactory)
}

func TestSpecValidation(t *testing.T) {
	t.Parallel()

	_, err := builder.Components(nil)
	require.ErrorIs(t, err, builder.ErrBadSpec)

	_, err = builder.Components([]builder.Spec{{Kind: "", Dim: 2}})
	require.ErrorIs(t, err, builder.ErrBadSpec)

	_, err = builder.Components([]builder.Spec{{Kind: builder.KindNormal, Dim: 0}})
	require.ErrorIs(t, err, builder.ErrBadSpec)
}

func TestProductAssembly(t *testing.T) {
	t.Parallel()

	specs := []builder.Spec{
		{Kind: builder.KindNormal, Dim: 2, Options: []distribution.Option{distribution.WithSeed(7)}},
		{Kind: builder.KindUniform, Dim: 3, Options: []distribution.Option{distribution.WithSeed(8)}},
	}
	p, err := builder.Product(specs)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	xs, err := p.Sample(5)
	require.NoError(t, err)
	require.Len(t, xs, 2)
	assert.Equal(t, tensor.Shape{5, 2}, xs[0].Shape())
	assert.Equal(t, tensor.Shape{5, 3}, xs[1].Shape())
}

func TestProductConcatenatedSobol(t *testing.T) {
	t.Parallel()

	specs := []builder.Spec{
		{Kind: builder.KindNormal, Dim: 2, Options: []distribution.Option{distribution.WithSeed(1)}},
		{Kind: builder.KindTruncatedNormal, Dim: 2, Options: []distribution.Option{distribution.WithSeed(2)}},
	}
	p, err := builder.Product(specs,
		distribution.WithConcatAxis(0),
		distribution.WithSobol(),
		distribution.WithSeed(9),
	)
	require.NoError(t, err)

	xs, err := p.Sample(8)
	require.NoError(t, err)
	require.Len(t, xs, 1)
	assert.Equal(t, tensor.Shape{8, 4}, xs[0].Shape())

	_, err = p.Sample(5)
	require.Error(t, err, "quasi-random draws require a power of two")
}
