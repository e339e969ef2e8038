package distribution_test

import (
	"testing"

	"github.com/pdevine/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/boltzgen/core"
	"github.com/katalvlaran/boltzgen/distribution"
)

// twoComponents builds a 2D standard normal and a 3D uniform with fixed
// seeds, the workhorse fixture of the product tests.
func twoComponents(t *testing.T) (*distribution.Normal, *distribution.Uniform) {
	t.Helper()
	n, err := distribution.NewNormal(2, distribution.WithSeed(1))
	require.NoError(t, err)
	u, err := distribution.NewUniform(3, distribution.WithSeed(2))
	require.NoError(t, err)
	return n, u
}

func TestProductEnergyAdditivity(t *testing.T) {
	t.Parallel()

	n, u := twoComponents(t)
	xn := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{1, 2, -1, 0.5}))
	xu := tensor.New(tensor.WithShape(2, 3), tensor.WithBacking([]float64{0.1, 0.2, 0.3, 0.9, 0.5, 0.4}))

	en, err := n.Energy(xn)
	require.NoError(t, err)
	eu, err := u.Energy(xu)
	require.NoError(t, err)

	// Separate layout: one tensor per component.
	sep, err := distribution.NewProductEnergy([]distribution.Energier{n, u})
	require.NoError(t, err)
	got, err := sep.Energy(core.Batch{xn, xu})
	require.NoError(t, err)
	for i := range got {
		assert.InDelta(t, en[i]+eu[i], got[i], 1e-12, "row %d", i)
	}

	// Concatenated layout: one tensor, split along event axis 0.
	cat, err := distribution.NewProductEnergy([]distribution.Energier{n, u},
		distribution.WithConcatAxis(0))
	require.NoError(t, err)
	joined, err := core.ConcatAlong(0, core.Batch{xn, xu})
	require.NoError(t, err)
	got, err = cat.Energy(core.Single(joined))
	require.NoError(t, err)
	for i := range got {
		assert.InDelta(t, en[i]+eu[i], got[i], 1e-12, "row %d", i)
	}
	assert.Equal(t, tensor.Shape{5}, cat.EventShape())
}

func TestProductEnergyArity(t *testing.T) {
	t.Parallel()

	n, u := twoComponents(t)
	x := tensor.New(tensor.WithShape(1, 5), tensor.WithBacking(make([]float64, 5)))

	sep, err := distribution.NewProductEnergy([]distribution.Energier{n, u})
	require.NoError(t, err)
	_, err = sep.Energy(core.Single(x))
	require.ErrorIs(t, err, distribution.ErrArity)

	cat, err := distribution.NewProductEnergy([]distribution.Energier{n, u},
		distribution.WithConcatAxis(0))
	require.NoError(t, err)
	_, err = cat.Energy(core.Batch{x, x})
	require.ErrorIs(t, err, distribution.ErrArity)
}

func TestProductConstructionValidation(t *testing.T) {
	t.Parallel()

	_, err := distribution.NewProductEnergy(nil)
	require.ErrorIs(t, err, distribution.ErrNoComponents)

	n, _ := twoComponents(t)
	_, err = distribution.NewProductEnergy([]distribution.Energier{n, nil})
	require.ErrorIs(t, err, distribution.ErrNilComponent)

	// Vector components always concatenate on axis 0; an out-of-range
	// axis is a structural error at construction time.
	_, err = distribution.NewProductEnergy([]distribution.Energier{n, n},
		distribution.WithConcatAxis(1))
	require.ErrorIs(t, err, core.ErrAxis)
}

func TestProductSamplerLayouts(t *testing.T) {
	t.Parallel()

	n, u := twoComponents(t)

	sep, err := distribution.NewProductSampler([]distribution.Sampler{n, u})
	require.NoError(t, err)
	batch, err := sep.Sample(8)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, tensor.Shape{8, 2}, batch[0].Shape())
	assert.Equal(t, tensor.Shape{8, 3}, batch[1].Shape())

	cat, err := distribution.NewProductSampler([]distribution.Sampler{n, u},
		distribution.WithConcatAxis(0))
	require.NoError(t, err)
	batch, err = cat.Sample(8)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, tensor.Shape{8, 5}, batch[0].Shape())
}

func TestProductDistributionLogProb(t *testing.T) {
	t.Parallel()

	n, u := twoComponents(t)
	d, err := distribution.NewProduct([]distribution.Component{n, u},
		distribution.WithConcatAxis(0), distribution.WithSeed(9))
	require.NoError(t, err)

	x, err := d.Sample(4)
	require.NoError(t, err)
	require.Len(t, x, 1)

	lp, err := d.LogProb(x)
	require.NoError(t, err)
	require.Len(t, lp, 4)
	assert.True(t, distribution.IsNormalized(lp))

	// LogProb must differ from Energy by exactly the normalization
	// constants; for this product the gap is the Gaussian 2*pi term plus
	// the (zero) log-volume of the unit box.
	e, err := d.Energy(x)
	require.NoError(t, err)
	for i := range lp {
		assert.InDelta(t, lp[0]+e[0], lp[i]+e[i], 1e-9, "row %d", i)
	}
}

func TestFromComponent(t *testing.T) {
	t.Parallel()

	n, _ := twoComponents(t)
	d, err := distribution.FromComponent(n)
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())

	batch, err := d.Sample(4)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, tensor.Shape{4, 2}, batch[0].Shape())
}
