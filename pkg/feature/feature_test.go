package feature_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/feature"
)

func sampleChain(t *testing.T, f feature.Feature, seed uint64, components, component int) float64 {
	t.Helper()
	src := rand.NewPCG(seed, 0)

	shared := f.SampleShared(src)
	group, err := f.SampleGroup(src, shared, components)
	require.NoError(t, err)

	d, err := f.ValueDist(src, group, component)
	require.NoError(t, err)
	return d.Rand()
}

func TestFeatures_Determinism(t *testing.T) {
	for _, f := range []feature.Feature{feature.NewBoolean("flag"), feature.NewReal("height")} {
		t.Run(f.Name(), func(t *testing.T) {
			first := sampleChain(t, f, 1234, 5, 2)
			second := sampleChain(t, f, 1234, 5, 2)
			assert.Equal(t, first, second, "same seed must reproduce the full chain")
		})
	}
}

func TestBoolean_ValueDistIsBernoulli(t *testing.T) {
	f := feature.NewBoolean("flag")
	src := rand.NewPCG(7, 0)

	group, err := f.SampleGroup(src, f.SampleShared(src), 3)
	require.NoError(t, err)

	d, err := f.ValueDist(src, group, 1)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		v := d.Rand()
		assert.Contains(t, []float64{0, 1}, v)
	}
}

func TestReal_GroupVariesByComponent(t *testing.T) {
	f := feature.NewReal("height")
	src := rand.NewPCG(99, 0)

	group, err := f.SampleGroup(src, f.SampleShared(src), 2)
	require.NoError(t, err)

	d0, err := f.ValueDist(nil, group, 0)
	require.NoError(t, err)
	d1, err := f.ValueDist(nil, group, 1)
	require.NoError(t, err)

	assert.NotEqual(t, d0.LogProb(0), d1.LogProb(0),
		"independent component draws should give distinct observation densities")
}

func TestFeatures_ComponentOutOfRange(t *testing.T) {
	f := feature.NewBoolean("flag")
	src := rand.NewPCG(3, 0)

	group, err := f.SampleGroup(src, f.SampleShared(src), 2)
	require.NoError(t, err)

	_, err = f.ValueDist(src, group, 2)
	assert.Error(t, err)
	_, err = f.ValueDist(src, group, -1)
	assert.Error(t, err)
}

func TestFeatures_RejectForeignShared(t *testing.T) {
	boolean := feature.NewBoolean("flag")
	real := feature.NewReal("height")
	src := rand.NewPCG(11, 0)

	_, err := boolean.SampleGroup(src, real.SampleShared(src), 2)
	assert.Error(t, err, "shared parameters from another feature type must be rejected")
}
