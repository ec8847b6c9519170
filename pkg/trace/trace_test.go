package trace_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/trace"
)

func buildTrace(t *testing.T) *trace.Trace {
	t.Helper()
	tr := trace.New(domain.NewTraceID())
	require.NoError(t, tr.Add("mu", &domain.Message{
		Type:  domain.MessageSample,
		Value: 0.3,
		Dist:  domain.DistSpec{Kind: domain.DistNormal, Loc: 0, Scale: 1},
	}))
	require.NoError(t, tr.Add("obs", &domain.Message{
		Type:  domain.MessageObserve,
		Value: 1.1,
		Dist:  domain.DistSpec{Kind: domain.DistNormal, Loc: 0.3, Scale: 0.5},
	}))
	require.NoError(t, tr.Add("lr", &domain.Message{
		Type:  domain.MessageParam,
		Value: 0.01,
	}))
	return tr
}

func TestTrace_RoundTrip(t *testing.T) {
	tr := buildTrace(t)

	blob, err := tr.Marshal()
	require.NoError(t, err)

	restored := trace.New("")
	require.NoError(t, restored.Unmarshal(blob))

	assert.Equal(t, tr.ID(), restored.ID())
	assert.Equal(t, tr.Sites(), restored.Sites(), "site order must survive serialization")
	assert.Equal(t, tr.Snapshot(), restored.Snapshot())
}

func TestTrace_AddRejectsDuplicateSite(t *testing.T) {
	tr := buildTrace(t)
	err := tr.Add("mu", &domain.Message{Type: domain.MessageSample})
	assert.Error(t, err)
}

func TestTrace_ResampleDeterminism(t *testing.T) {
	run := func() float64 {
		tr := buildTrace(t)
		msg, err := tr.Message("mu")
		require.NoError(t, err)
		require.NoError(t, tr.Resample("mu", msg, rand.NewPCG(42, 0)))
		return msg.Value
	}

	first, second := run(), run()
	assert.Equal(t, first, second, "identical seeds must produce identical draws")
}

func TestTrace_ResampleLeavesOtherSitesUntouched(t *testing.T) {
	tr := buildTrace(t)
	before := tr.Snapshot()

	msg, err := tr.Message("mu")
	require.NoError(t, err)
	require.NoError(t, tr.Resample("mu", msg, rand.NewPCG(7, 0)))

	after := tr.Snapshot()
	assert.Equal(t, before["obs"], after["obs"])
	assert.Equal(t, before["lr"], after["lr"])
}

func TestTrace_ResampleRejectsNonSample(t *testing.T) {
	tr := buildTrace(t)
	msg, err := tr.Message("obs")
	require.NoError(t, err)

	err = tr.Resample("obs", msg, rand.NewPCG(1, 0))
	assert.ErrorIs(t, err, domain.ErrNotSampleSite)
}

func TestTrace_BatchLogProb(t *testing.T) {
	tr := buildTrace(t)

	want := distuv.Normal{Mu: 0, Sigma: 1}.LogProb(0.3) +
		distuv.Normal{Mu: 0.3, Sigma: 0.5}.LogProb(1.1)

	got, err := tr.BatchLogProb()
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12, "param sites must not contribute density")
}

func TestTrace_CloneIsIndependent(t *testing.T) {
	tr := buildTrace(t)
	cp := tr.Clone()

	msg, err := tr.Message("mu")
	require.NoError(t, err)
	require.NoError(t, tr.Resample("mu", msg, rand.NewPCG(99, 0)))

	assert.NotEqual(t, tr.Snapshot()["mu"], cp.Snapshot()["mu"],
		"mutating the original must not leak into the clone")
}
