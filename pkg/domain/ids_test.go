package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/domain"
)

func TestTraceKey_RoundTrip(t *testing.T) {
	id, site := domain.NewTraceID(), domain.Site("model/theta:0")

	gotID, gotSite, err := domain.ParseTraceKey(domain.TraceKey(id, site))
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, site, gotSite)
}

func TestTraceKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "noseparator", ":site", "id:"} {
		_, _, err := domain.ParseTraceKey(key)
		assert.Error(t, err, key)
	}
}

func TestPairKey_RoundTrip(t *testing.T) {
	pair := domain.Pair{
		Parent: domain.NewTraceID(),
		Child:  domain.NewTraceID(),
		Site:   "theta",
	}

	got, err := domain.ParsePairKey(pair.Key())
	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

func TestNewTraceID_Distinct(t *testing.T) {
	assert.NotEqual(t, domain.NewTraceID(), domain.NewTraceID())
}
