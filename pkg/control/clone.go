package control

import (
	"context"
	"fmt"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Clone fans the live trace out into Count independent lineages. Nothing
// is persisted: each child carries an in-memory copy across the fork,
// adopts a freshly minted trace-id, registers its lineage pair, and parks
// at its new key waiting for a wake command. The calling branch terminates
// unconditionally once all children are spawned; it has delegated all
// further work.
type Clone struct {
	Count int `json:"count" mapstructure:"count"`
}

// Kind implements Command.
func (c *Clone) Kind() string { return KindClone }

// Execute implements Command.
func (c *Clone) Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	spawnClones(ctx, env, id, site, tr, c.Count, func(ctx context.Context, childID domain.TraceID, child ports.Trace) (Outcome, error) {
		childMsg := copyMsg(msg)
		return parkAndDispatch(ctx, env, childID, site, child, childMsg)
	})

	// The calling branch has no further role.
	return OutcomeTerminated, nil
}

// spawnClones runs the shared fan-out loop: mint a child id, copy the
// trace, spawn a branch that registers the lineage pair and then runs
// childRun under the new id. Children race to register and park; no
// ordering is guaranteed between siblings.
func spawnClones(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, count int,
	childRun func(ctx context.Context, childID domain.TraceID, child ports.Trace) (Outcome, error)) {

	for i := 0; i < count; i++ {
		childID := domain.NewTraceID()
		child := tr.Clone()

		env.Metrics.ForkStarted()
		env.Forker.Fork(ctx, func(ctx context.Context) {
			runBranch(ctx, env, childID, site, func(ctx context.Context) (Outcome, error) {
				// The child adopts its new lineage before any
				// coordination, so trace-ids stay 1:1 with
				// live branches.
				child.SetID(childID)
				if err := registerPair(ctx, env, id, childID, site); err != nil {
					return OutcomeTerminated, err
				}
				return childRun(ctx, childID, child)
			})
		})
	}
}

// registerPair records the parent/child lineage link through a scoped
// store handle.
func registerPair(ctx context.Context, env *Env, parent, child domain.TraceID, site domain.Site) error {
	st, err := env.Dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	pair := domain.Pair{Parent: parent, Child: child, Site: site}
	if err := st.AddPairUUIDs(ctx, pair); err != nil {
		return fmt.Errorf("cannot register lineage %s: %w", pair.Key(), err)
	}
	return nil
}

// copyMsg gives each child its own message record so sibling resamples
// cannot alias.
func copyMsg(msg *domain.Message) *domain.Message {
	if msg == nil {
		return nil
	}
	cp := *msg
	return &cp
}
