package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/adapters/memory"
	"github.com/inferlab/forkpoint/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunCoordStoreContract(t, memory.NewStore())
}

// A wake racing the waiter's cancellation must end up exactly one place:
// either the waiter consumed it, or it stays queued for the next waiter.
// The waker got a nil error either way, so the payload may never vanish.
func TestMemoryStore_WakeRacingCancelIsNotLost(t *testing.T) {
	store := memory.NewStore()

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("trace-%d:site", i)
		ctx, cancel := context.WithCancel(context.Background())

		type result struct {
			payload []byte
			err     error
		}
		done := make(chan result, 1)
		go func() {
			payload, err := store.AddLockAndWait(ctx, key)
			done <- result{payload, err}
		}()

		// Give the waiter a moment to park, then race the wake against
		// the cancellation.
		time.Sleep(time.Millisecond)
		go cancel()
		require.NoError(t, store.Wake(context.Background(), key, []byte("cmd")))

		res := <-done
		if res.err == nil {
			require.Equal(t, []byte("cmd"), res.payload)
			cancel()
			continue
		}
		require.ErrorIs(t, res.err, context.Canceled)

		// The waiter lost the race; the payload must await the next one.
		retryCtx, retryCancel := context.WithTimeout(context.Background(), time.Second)
		payload, err := store.AddLockAndWait(retryCtx, key)
		retryCancel()
		require.NoError(t, err)
		require.Equal(t, []byte("cmd"), payload)
	}
}
