package ports

import (
	"math/rand/v2"

	"github.com/inferlab/forkpoint/pkg/domain"
)

// Trace is the capability surface the protocol consumes from the executing
// probabilistic program. The core never inspects trace internals beyond the
// type tags on messages; it only serializes, clones, resamples and scores.
type Trace interface {
	// ID returns the lineage this trace currently belongs to.
	ID() domain.TraceID

	// SetID reassigns the trace to a new lineage, after a branch event.
	SetID(id domain.TraceID)

	// Marshal serializes the trace to an opaque blob.
	Marshal() ([]byte, error)

	// Unmarshal replaces the trace's contents from a blob produced by
	// Marshal on a trace of the same concrete type.
	Unmarshal(blob []byte) error

	// Clone returns an independent deep copy.
	Clone() Trace

	// Resample redraws the value at site from the given sample message's
	// distribution using src, mutating the trace in place.
	Resample(site domain.Site, msg *domain.Message, src rand.Source) error

	// BatchLogProb computes the joint log-density of every sample and
	// observe site in the trace.
	BatchLogProb() (float64, error)

	// Snapshot returns the current site to value mapping, for
	// equivalence checks and reporting.
	Snapshot() map[domain.Site]float64
}
