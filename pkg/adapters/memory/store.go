/*
Package memory provides an in-process coordination store. It backs tests
and single-process runs; the wake slot for each key is a single-waiter
channel, the in-process shape of the protocol's lock/wait primitive.
*/
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Store implements ports.CoordStore in memory. Safe for concurrent use.
// A Store is also its own Dialer: handles share the hub state and Close is
// a no-op, so the scoped-connection discipline of callers stays intact.
type Store struct {
	mu      sync.Mutex
	traces  map[string][]byte
	msgs    map[string][]byte
	pairs   map[string]domain.Pair
	order   []string
	waiters map[string]chan []byte
	pending map[string][][]byte
}

var (
	_ ports.CoordStore = (*Store)(nil)
	_ ports.Dialer     = (*Store)(nil)
)

// NewStore creates an empty in-memory coordination store.
func NewStore() *Store {
	return &Store{
		traces:  make(map[string][]byte),
		msgs:    make(map[string][]byte),
		pairs:   make(map[string]domain.Pair),
		waiters: make(map[string]chan []byte),
		pending: make(map[string][][]byte),
	}
}

// Dial implements ports.Dialer.
func (s *Store) Dial(ctx context.Context) (ports.CoordStore, error) {
	return s, nil
}

// SetTrace implements ports.CoordStore.
func (s *Store) SetTrace(ctx context.Context, id domain.TraceID, site domain.Site, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces[domain.TraceKey(id, site)] = append([]byte(nil), blob...)
	return nil
}

// GetTrace implements ports.CoordStore.
func (s *Store) GetTrace(ctx context.Context, id domain.TraceID, site domain.Site) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.traces[domain.TraceKey(id, site)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTraceNotFound, domain.TraceKey(id, site))
	}
	return append([]byte(nil), blob...), nil
}

// AddLockAndWait implements ports.CoordStore. A wake delivered before the
// waiter parked is consumed immediately; otherwise the caller blocks until
// woken or the context ends.
func (s *Store) AddLockAndWait(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	if queued, ok := s.pending[key]; ok && len(queued) > 0 {
		payload := queued[0]
		if len(queued) == 1 {
			delete(s.pending, key)
		} else {
			s.pending[key] = queued[1:]
		}
		s.mu.Unlock()
		return payload, nil
	}
	if _, parked := s.waiters[key]; parked {
		s.mu.Unlock()
		return nil, fmt.Errorf("a waiter is already parked at %s", key)
	}
	ch := make(chan []byte, 1)
	s.waiters[key] = ch
	s.mu.Unlock()

	select {
	case payload := <-ch:
		return payload, nil
	case <-ctx.Done():
		s.mu.Lock()
		delete(s.waiters, key)
		// A wake may have landed on the channel after ctx fired but
		// before we took the lock; it was acknowledged to the waker,
		// so requeue it for the next waiter instead of dropping it.
		select {
		case payload := <-ch:
			s.pending[key] = append([][]byte{payload}, s.pending[key]...)
		default:
		}
		s.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Wake implements ports.CoordStore.
func (s *Store) Wake(ctx context.Context, key string, payload []byte) error {
	cp := append([]byte(nil), payload...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.waiters[key]; ok {
		delete(s.waiters, key)
		ch <- cp // buffered, never blocks
		return nil
	}
	s.pending[key] = append(s.pending[key], cp)
	return nil
}

// AddPairUUIDs implements ports.CoordStore.
func (s *Store) AddPairUUIDs(ctx context.Context, pair domain.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair.Key()
	if _, ok := s.pairs[key]; ok {
		return nil
	}
	s.pairs[key] = pair
	s.order = append(s.order, key)
	return nil
}

// Pairs implements ports.CoordStore, in insertion order.
func (s *Store) Pairs(ctx context.Context) ([]domain.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Pair, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.pairs[key])
	}
	return out, nil
}

// SetMsg implements ports.CoordStore.
func (s *Store) SetMsg(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[key] = append([]byte(nil), blob...)
	return nil
}

// GetMsg implements ports.CoordStore.
func (s *Store) GetMsg(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.msgs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMsgNotFound, key)
	}
	return append([]byte(nil), blob...), nil
}

// Close implements ports.CoordStore. Handles share the hub, so this is a
// no-op.
func (s *Store) Close() error { return nil }
