package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts protocol-level branch events. All methods are safe on a
// nil receiver so callers never need to guard instrumentation sites.
type Metrics struct {
	forks     prometheus.Counter
	parks     prometheus.Counter
	wakes     prometheus.Counter
	resamples prometheus.Counter
	kills     prometheus.Counter
}

// New registers the protocol counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		forks: factory.NewCounter(prometheus.CounterOpts{
			Name: "forkpoint_forks_total",
			Help: "Branches spawned by control commands.",
		}),
		parks: factory.NewCounter(prometheus.CounterOpts{
			Name: "forkpoint_parks_total",
			Help: "Branches parked on a coordination lock.",
		}),
		wakes: factory.NewCounter(prometheus.CounterOpts{
			Name: "forkpoint_wakes_total",
			Help: "Parked branches released by a wake command.",
		}),
		resamples: factory.NewCounter(prometheus.CounterOpts{
			Name: "forkpoint_resamples_total",
			Help: "Site resamples executed.",
		}),
		kills: factory.NewCounter(prometheus.CounterOpts{
			Name: "forkpoint_kills_total",
			Help: "Branches terminated by a kill command.",
		}),
	}
}

// ForkStarted records one spawned branch.
func (m *Metrics) ForkStarted() {
	if m != nil {
		m.forks.Inc()
	}
}

// BranchParked records one branch entering a lock wait.
func (m *Metrics) BranchParked() {
	if m != nil {
		m.parks.Inc()
	}
}

// BranchWoken records one branch released from a lock wait.
func (m *Metrics) BranchWoken() {
	if m != nil {
		m.wakes.Inc()
	}
}

// ResampleRun records one executed site resample.
func (m *Metrics) ResampleRun() {
	if m != nil {
		m.resamples.Inc()
	}
}

// BranchKilled records one branch terminated by Kill.
func (m *Metrics) BranchKilled() {
	if m != nil {
		m.kills.Inc()
	}
}
