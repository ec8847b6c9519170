package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/domain"
)

// RunCoordStoreContract verifies that a CoordStore implementation adheres
// to the rendezvous semantics the protocol depends on. Adapters call it
// from their own tests with a dialer for a fresh, isolated store.
func RunCoordStoreContract(t *testing.T, dialer Dialer) {
	ctx := context.Background()

	dial := func(t *testing.T) CoordStore {
		st, err := dialer.Dial(ctx)
		require.NoError(t, err, "Dial should not fail")
		t.Cleanup(func() { _ = st.Close() })
		return st
	}

	t.Run("TraceRoundTrip", func(t *testing.T) {
		st := dial(t)
		id, site := domain.NewTraceID(), domain.Site("x")
		blob := []byte(`{"sites":{"x":1.5}}`)

		require.NoError(t, st.SetTrace(ctx, id, site, blob))

		got, err := st.GetTrace(ctx, id, site)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("TraceMissing", func(t *testing.T) {
		st := dial(t)
		_, err := st.GetTrace(ctx, domain.NewTraceID(), "nowhere")
		assert.ErrorIs(t, err, domain.ErrTraceNotFound)
	})

	t.Run("MsgSlot", func(t *testing.T) {
		st := dial(t)
		key := domain.TraceKey(domain.NewTraceID(), "density")

		_, err := st.GetMsg(ctx, key)
		assert.ErrorIs(t, err, domain.ErrMsgNotFound)

		require.NoError(t, st.SetMsg(ctx, key, []byte(`{"log_pdf":-3.2}`)))
		require.NoError(t, st.SetMsg(ctx, key, []byte(`{"log_pdf":-4.1}`)))

		got, err := st.GetMsg(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"log_pdf":-4.1}`), got, "last write wins")
	})

	t.Run("PairIdempotency", func(t *testing.T) {
		st := dial(t)
		pair := domain.Pair{Parent: domain.NewTraceID(), Child: domain.NewTraceID(), Site: "fork"}

		require.NoError(t, st.AddPairUUIDs(ctx, pair))
		require.NoError(t, st.AddPairUUIDs(ctx, pair))

		pairs, err := st.Pairs(ctx)
		require.NoError(t, err)

		count := 0
		for _, p := range pairs {
			if p == pair {
				count++
			}
		}
		assert.Equal(t, 1, count, "duplicate inserts must collapse to one record")
	})

	t.Run("WaitThenWake", func(t *testing.T) {
		key := domain.TraceKey(domain.NewTraceID(), "park")
		payload := []byte(`{"kind":"kill"}`)

		got := make(chan []byte, 1)
		errs := make(chan error, 1)
		go func() {
			// No require in here: FailNow must not be called off the
			// test goroutine.
			waiter, err := dialer.Dial(ctx)
			if err != nil {
				errs <- err
				return
			}
			defer waiter.Close()
			b, err := waiter.AddLockAndWait(ctx, key)
			if err != nil {
				errs <- err
				return
			}
			got <- b
		}()

		// Give the waiter a moment to park before waking it.
		time.Sleep(50 * time.Millisecond)

		waker := dial(t)
		require.NoError(t, waker.Wake(ctx, key, payload))

		select {
		case b := <-got:
			assert.Equal(t, payload, b)
		case err := <-errs:
			t.Fatalf("waiter failed: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("waiter was never woken")
		}
	})

	t.Run("WakeBeforeWait", func(t *testing.T) {
		key := domain.TraceKey(domain.NewTraceID(), "early")
		payload := []byte(`{"kind":"continue"}`)

		waker := dial(t)
		require.NoError(t, waker.Wake(ctx, key, payload))

		waiter := dial(t)
		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		got, err := waiter.AddLockAndWait(waitCtx, key)
		require.NoError(t, err, "a retained wake must release the next waiter")
		assert.Equal(t, payload, got)
	})

	t.Run("WaitCancellation", func(t *testing.T) {
		st := dial(t)
		waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()

		_, err := st.AddLockAndWait(waitCtx, domain.TraceKey(domain.NewTraceID(), "never"))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
