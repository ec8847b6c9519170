/*
Package trace provides a concrete execution record for a probabilistic
program: an ordered mapping from site name to sampled message. It
implements the ports.Trace capability surface the protocol consumes, so the
control-point machinery can be run and tested without an external inference
engine.
*/
package trace

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

type entry struct {
	Site domain.Site     `json:"site"`
	Msg  *domain.Message `json:"msg"`
}

// Trace is an ordered site->message record identified by a lineage ID.
// It is exclusively owned by the single branch holding it; branch events
// hand copies around, never the original.
type Trace struct {
	id      domain.TraceID
	entries []entry
	index   map[domain.Site]int
}

var _ ports.Trace = (*Trace)(nil)

// New creates an empty trace for the given lineage.
func New(id domain.TraceID) *Trace {
	return &Trace{
		id:    id,
		index: make(map[domain.Site]int),
	}
}

// ID returns the lineage this trace belongs to.
func (t *Trace) ID() domain.TraceID { return t.id }

// SetID reassigns the trace to a new lineage.
func (t *Trace) SetID(id domain.TraceID) { t.id = id }

// Add appends a site record. Sites are unique within a trace.
func (t *Trace) Add(site domain.Site, msg *domain.Message) error {
	if _, ok := t.index[site]; ok {
		return fmt.Errorf("site %q already recorded", site)
	}
	cp := *msg
	t.index[site] = len(t.entries)
	t.entries = append(t.entries, entry{Site: site, Msg: &cp})
	return nil
}

// Message returns the record at site.
func (t *Trace) Message(site domain.Site) (*domain.Message, error) {
	i, ok := t.index[site]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSiteNotFound, site)
	}
	return t.entries[i].Msg, nil
}

// Sites lists site names in recording order.
func (t *Trace) Sites() []domain.Site {
	out := make([]domain.Site, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Site
	}
	return out
}

type wire struct {
	ID      domain.TraceID `json:"id"`
	Entries []entry        `json:"entries"`
}

// Marshal serializes the trace, preserving site order.
func (t *Trace) Marshal() ([]byte, error) {
	return json.Marshal(wire{ID: t.id, Entries: t.entries})
}

// Unmarshal replaces the trace's contents from a Marshal blob.
func (t *Trace) Unmarshal(blob []byte) error {
	var w wire
	if err := json.Unmarshal(blob, &w); err != nil {
		return fmt.Errorf("failed to decode trace: %w", err)
	}
	t.id = w.ID
	t.entries = w.Entries
	t.index = make(map[domain.Site]int, len(w.Entries))
	for i, e := range w.Entries {
		t.index[e.Site] = i
	}
	return nil
}

// Clone returns an independent deep copy.
func (t *Trace) Clone() ports.Trace {
	cp := New(t.id)
	for _, e := range t.entries {
		msg := *e.Msg
		cp.index[e.Site] = len(cp.entries)
		cp.entries = append(cp.entries, entry{Site: e.Site, Msg: &msg})
	}
	return cp
}

// Resample redraws the value at site from the message's distribution,
// mutating the trace in place. Only sample-typed messages may be redrawn.
func (t *Trace) Resample(site domain.Site, msg *domain.Message, src rand.Source) error {
	if !msg.IsSample() {
		return fmt.Errorf("%w: site %q is %q", domain.ErrNotSampleSite, site, msg.Type)
	}
	own, err := t.Message(site)
	if err != nil {
		return err
	}
	d, err := NewDist(msg.Dist, src)
	if err != nil {
		return fmt.Errorf("cannot resample %q: %w", site, err)
	}
	v := d.Rand()
	own.Value = v
	msg.Value = v
	return nil
}

// BatchLogProb sums the log-density of every sample and observe site.
// Param sites carry no density and are skipped.
func (t *Trace) BatchLogProb() (float64, error) {
	total := 0.0
	for _, e := range t.entries {
		if e.Msg.Type == domain.MessageParam {
			continue
		}
		d, err := NewDist(e.Msg.Dist, nil)
		if err != nil {
			return 0, fmt.Errorf("cannot score %q: %w", e.Site, err)
		}
		total += d.LogProb(e.Msg.Value)
	}
	return total, nil
}

// Snapshot returns the current site->value mapping.
func (t *Trace) Snapshot() map[domain.Site]float64 {
	out := make(map[domain.Site]float64, len(t.entries))
	for _, e := range t.entries {
		out[e.Site] = e.Msg.Value
	}
	return out
}
