package ports

import (
	"context"

	"github.com/inferlab/forkpoint/pkg/domain"
)

// CoordStore is the shared rendezvous service the protocol coordinates
// through: trace blobs and message slots keyed by (trace, site), a
// single-waiter wake channel per key, and an append-only lineage registry.
//
// The store is the only shared mutable resource in the system. Every use
// follows scoped-connection discipline: obtain a handle from a Dialer,
// perform exactly the operations needed, and Close the handle on every exit
// path.
type CoordStore interface {
	// SetTrace persists a serialized trace snapshot. Last write wins.
	SetTrace(ctx context.Context, id domain.TraceID, site domain.Site, blob []byte) error

	// GetTrace loads a previously persisted snapshot.
	// Returns domain.ErrTraceNotFound if none exists.
	GetTrace(ctx context.Context, id domain.TraceID, site domain.Site) ([]byte, error)

	// AddLockAndWait parks the caller on the given key until another
	// handle delivers a payload via Wake, then returns that payload.
	// At most one waiter per key is defined behavior. The wait is
	// unbounded unless the context carries a deadline.
	AddLockAndWait(ctx context.Context, key string) ([]byte, error)

	// Wake delivers a payload to the waiter parked on key, releasing it.
	// A wake delivered before the waiter parks is retained and handed to
	// the next waiter on that key.
	Wake(ctx context.Context, key string, payload []byte) error

	// AddPairUUIDs records a parent/child lineage link. Idempotent: the
	// record's key is derived deterministically from its fields.
	AddPairUUIDs(ctx context.Context, pair domain.Pair) error

	// Pairs lists every lineage record. Read by external analysis only.
	Pairs(ctx context.Context) ([]domain.Pair, error)

	// SetMsg publishes an opaque result payload. Last write wins.
	SetMsg(ctx context.Context, key string, blob []byte) error

	// GetMsg reads a published payload.
	// Returns domain.ErrMsgNotFound if none exists.
	GetMsg(ctx context.Context, key string) ([]byte, error)

	// Close releases the handle. Nothing reads through it afterwards.
	Close() error
}

// Dialer opens scoped CoordStore handles.
type Dialer interface {
	Dial(ctx context.Context) (CoordStore, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (CoordStore, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context) (CoordStore, error) {
	return f(ctx)
}
