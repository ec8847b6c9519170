package control

import (
	"context"
	"fmt"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Continue persists the current trace snapshot and splits the branch in
// two. The calling side returns immediately and proceeds; the spawned side
// reloads the snapshot, parks at the same (trace, site) key, and dispatches
// to whatever command it is eventually woken with, keeping the original
// trace-id throughout.
type Continue struct{}

// Kind implements Command.
func (c *Continue) Kind() string { return KindContinue }

// Execute implements Command.
func (c *Continue) Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	env.logger().Debug("fork/continue", "trace", id, "site", site)

	if err := persistTrace(ctx, env, id, site, tr); err != nil {
		return OutcomeTerminated, err
	}

	// The spawned side owns its own copies; nothing is shared with the
	// caller except what went through the store.
	childMsg := copyMsg(msg)
	prototype := tr.Clone()

	env.Metrics.ForkStarted()
	env.Forker.Fork(ctx, func(ctx context.Context) {
		runBranch(ctx, env, id, site, func(ctx context.Context) (Outcome, error) {
			snapshot, err := loadTrace(ctx, env, id, site, prototype)
			if err != nil {
				return OutcomeTerminated, err
			}
			return parkAndDispatch(ctx, env, id, site, snapshot, childMsg)
		})
	})

	// Calling side simply continues.
	return OutcomeContinue, nil
}

// persistTrace stores a serialized snapshot under (id, site) through a
// scoped store handle.
func persistTrace(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace) error {
	blob, err := tr.Marshal()
	if err != nil {
		return fmt.Errorf("cannot serialize trace %s: %w", id, err)
	}

	st, err := env.Dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	if err := st.SetTrace(ctx, id, site, blob); err != nil {
		return fmt.Errorf("cannot persist trace %s at %s: %w", id, site, err)
	}
	return nil
}

// loadTrace reconstructs the persisted snapshot for (id, site). The
// prototype supplies the concrete trace type; its contents are replaced
// wholesale by the stored blob.
func loadTrace(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, prototype ports.Trace) (ports.Trace, error) {
	st, err := env.Dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	blob, err := st.GetTrace(ctx, id, site)
	if err != nil {
		return nil, fmt.Errorf("cannot load trace %s at %s: %w", id, site, err)
	}

	snapshot := prototype.Clone()
	if err := snapshot.Unmarshal(blob); err != nil {
		return nil, fmt.Errorf("cannot deserialize trace %s: %w", id, err)
	}
	return snapshot, nil
}
