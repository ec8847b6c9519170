/*
Package redis implements the coordination store over Redis: trace blobs and
message slots as plain keys, the lineage registry as a set, and the
per-key wake channel as a list consumed with BLPOP, which gives the
protocol its store-then-exactly-one-waiter-wakes rendezvous.
*/
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Store implements ports.CoordStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.CoordStore = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration for trace blobs and message slots.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for all coordination keys.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "forkpoint:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) traceKey(key string) string { return s.prefix + "trace:" + key }
func (s *Store) wakeKey(key string) string  { return s.prefix + "wake:" + key }
func (s *Store) msgKey(key string) string   { return s.prefix + "msg:" + key }
func (s *Store) pairsKey() string           { return s.prefix + "pairs" }

// SetTrace persists a serialized trace snapshot. Last write wins.
func (s *Store) SetTrace(ctx context.Context, id domain.TraceID, site domain.Site, blob []byte) error {
	key := s.traceKey(domain.TraceKey(id, site))
	if err := s.client.Set(ctx, key, blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist trace to redis: %w", err)
	}
	return nil
}

// GetTrace loads a previously persisted snapshot.
func (s *Store) GetTrace(ctx context.Context, id domain.TraceID, site domain.Site) ([]byte, error) {
	key := s.traceKey(domain.TraceKey(id, site))
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrTraceNotFound, domain.TraceKey(id, site))
		}
		return nil, fmt.Errorf("failed to load trace from redis: %w", err)
	}
	return val, nil
}

// AddLockAndWait parks on the key's wake list until a payload arrives.
// The block is unbounded unless the context carries a deadline.
func (s *Store) AddLockAndWait(ctx context.Context, key string) ([]byte, error) {
	res, err := s.client.BLPop(ctx, 0, s.wakeKey(key)).Result()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("lock wait on redis failed: %w", err)
	}
	// BLPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply of length %d", len(res))
	}
	return []byte(res[1]), nil
}

// Wake pushes a payload onto the key's wake list, releasing exactly one
// waiter. A wake delivered before anyone parks is retained by the list.
func (s *Store) Wake(ctx context.Context, key string, payload []byte) error {
	if err := s.client.RPush(ctx, s.wakeKey(key), payload).Err(); err != nil {
		return fmt.Errorf("failed to deliver wake payload: %w", err)
	}
	return nil
}

// AddPairUUIDs records a lineage link. The set makes the insert idempotent.
func (s *Store) AddPairUUIDs(ctx context.Context, pair domain.Pair) error {
	if err := s.client.SAdd(ctx, s.pairsKey(), pair.Key()).Err(); err != nil {
		return fmt.Errorf("failed to register lineage pair: %w", err)
	}
	return nil
}

// Pairs lists every recorded lineage link.
func (s *Store) Pairs(ctx context.Context) ([]domain.Pair, error) {
	members, err := s.client.SMembers(ctx, s.pairsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list lineage pairs: %w", err)
	}

	pairs := make([]domain.Pair, 0, len(members))
	for _, m := range members {
		pair, err := domain.ParsePairKey(m)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// SetMsg publishes an opaque result payload. Last write wins.
func (s *Store) SetMsg(ctx context.Context, key string, blob []byte) error {
	if err := s.client.Set(ctx, s.msgKey(key), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to publish message to redis: %w", err)
	}
	return nil
}

// GetMsg reads a published payload.
func (s *Store) GetMsg(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.msgKey(key)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrMsgNotFound, key)
		}
		return nil, fmt.Errorf("failed to read message from redis: %w", err)
	}
	return val, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Dialer opens one Store (and one client) per handle, so callers can hold
// the scoped open-use-close discipline the protocol requires.
type Dialer struct {
	address  string
	password string
	db       int
	opts     []Option
}

var _ ports.Dialer = (*Dialer)(nil)

// NewDialer creates a dialer for the given Redis endpoint.
func NewDialer(address, password string, db int, opts ...Option) *Dialer {
	return &Dialer{
		address:  address,
		password: password,
		db:       db,
		opts:     opts,
	}
}

// Dial implements ports.Dialer.
func (d *Dialer) Dial(ctx context.Context) (ports.CoordStore, error) {
	st := New(d.address, d.password, d.db, d.opts...)
	if err := st.client.Ping(ctx).Err(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("cannot reach redis at %s: %w", d.address, err)
	}
	return st, nil
}
