package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/adapters/memory"
	"github.com/inferlab/forkpoint/pkg/domain"
)

func TestRouter_Pairs(t *testing.T) {
	store := memory.NewStore()
	pair := domain.Pair{Parent: domain.NewTraceID(), Child: domain.NewTraceID(), Site: "theta"}
	require.NoError(t, store.AddPairUUIDs(context.Background(), pair))

	srv := httptest.NewServer(newRouter(store, prometheus.NewRegistry()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/pairs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pairs []domain.Pair
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pairs))
	assert.Equal(t, []domain.Pair{pair}, pairs)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := httptest.NewServer(newRouter(memory.NewStore(), prometheus.NewRegistry()))
	defer srv.Close()

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
