package main

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint"
	"github.com/inferlab/forkpoint/internal/logging"
	"github.com/inferlab/forkpoint/pkg/adapters/memory"
	"github.com/inferlab/forkpoint/pkg/observability"
)

func TestRunDemo_InMemory(t *testing.T) {
	store := memory.NewStore()
	s := &setup{logger: logging.NewNop(), dialer: store}
	rt := forkpoint.New(
		forkpoint.WithDialer(store),
		forkpoint.WithLogger(s.logger),
	)

	require.NoError(t, runDemo(context.Background(), rt, s, 2, 777))
}

func TestRunDemo_MovesProtocolCounters(t *testing.T) {
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	s := &setup{
		logger:   logging.NewNop(),
		dialer:   store,
		registry: reg,
		metrics:  observability.New(reg),
	}
	rt := forkpoint.New(
		forkpoint.WithDialer(store),
		forkpoint.WithLogger(s.logger),
		forkpoint.WithMetrics(s.metrics),
	)

	require.NoError(t, runDemo(context.Background(), rt, s, 2, 4242))

	for _, name := range []string{
		"forkpoint_forks_total",
		"forkpoint_parks_total",
		"forkpoint_wakes_total",
		"forkpoint_resamples_total",
		"forkpoint_kills_total",
	} {
		assert.Greater(t, counterValue(t, reg, name), 0.0, name)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}
