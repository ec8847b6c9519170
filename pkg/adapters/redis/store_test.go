package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/adapters/redis"
	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	defer mr.Close()

	// One client per handle, so Close on one handle cannot starve
	// another branch mid-wait.
	dialer := ports.DialerFunc(func(ctx context.Context) (ports.CoordStore, error) {
		client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
		return redis.NewFromClient(client), nil
	})

	ports.RunCoordStoreContract(t, dialer)
}

func TestRedisStore_PrefixIsolation(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("exp42:"))

	id, site := domain.NewTraceID(), domain.Site("theta")
	require.NoError(t, store.SetTrace(ctx, id, site, []byte("blob")))

	assert.True(t, mr.Exists("exp42:trace:"+domain.TraceKey(id, site)),
		"trace keys should live under the configured prefix")
}

func TestRedisStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))

	id, site := domain.NewTraceID(), domain.Site("theta")
	require.NoError(t, store.SetTrace(ctx, id, site, []byte("blob")))

	mr.FastForward(2 * time.Minute)

	_, err = store.GetTrace(ctx, id, site)
	assert.ErrorIs(t, err, domain.ErrTraceNotFound, "expired snapshots should read as missing")
}

func TestRedisStore_WakeQueuesFIFO(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)

	key := domain.TraceKey(domain.NewTraceID(), "park")
	require.NoError(t, store.Wake(ctx, key, []byte("first")))
	require.NoError(t, store.Wake(ctx, key, []byte("second")))

	got, err := store.AddLockAndWait(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}
