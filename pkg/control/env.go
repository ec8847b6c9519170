package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inferlab/forkpoint/internal/logging"
	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/observability"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Env carries the collaborators every command executes against. It is
// passed explicitly through the protocol, never held as ambient state.
type Env struct {
	// Dialer opens scoped coordination-store handles. Required.
	Dialer ports.Dialer

	// Forker spawns branches. Required.
	Forker ports.Forker

	// Logger receives protocol events. Defaults to a no-op logger.
	Logger *slog.Logger

	// Metrics counts branch events. Nil disables instrumentation.
	Metrics *observability.Metrics

	// WaitTimeout bounds each lock wait. Zero means wait forever, which
	// matches the source protocol; production deployments should set it.
	WaitTimeout time.Duration
}

// NewEnv builds an Env with defaults filled in.
func NewEnv(dialer ports.Dialer, forker ports.Forker) *Env {
	return &Env{
		Dialer: dialer,
		Forker: forker,
		Logger: logging.NewNop(),
	}
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}

// waitOnLock parks the calling branch on (id, site) until an external waker
// delivers a payload, then decodes it into the next command. The store
// handle is torn down on every path out. A payload that is not a valid
// command is a fatal contract violation.
func waitOnLock(ctx context.Context, env *Env, id domain.TraceID, site domain.Site) (Command, error) {
	key := domain.TraceKey(id, site)

	st, err := env.Dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	waitCtx := ctx
	if env.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, env.WaitTimeout)
		defer cancel()
	}

	env.logger().Debug("waiting on lock", "key", key)
	env.Metrics.BranchParked()

	payload, err := st.AddLockAndWait(waitCtx, key)
	if err != nil {
		return nil, fmt.Errorf("lock wait at %s failed: %w", key, err)
	}

	env.logger().Debug("released from lock", "key", key)
	env.Metrics.BranchWoken()

	cmd, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("woken at %s with bad payload: %w", key, err)
	}
	return cmd, nil
}

// parkAndDispatch is the reactive tail of a parked branch: wait for a wake
// command at (id, site), then hand the branch over to it. Errors are
// terminal for the branch.
func parkAndDispatch(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	cmd, err := waitOnLock(ctx, env, id, site)
	if err != nil {
		return OutcomeTerminated, err
	}
	return cmd.Execute(ctx, env, id, site, tr, msg)
}

// runBranch drives a spawned branch to completion, logging its fate. It is
// the body handed to the Forker; nothing observes its return value, so
// failures surface through the log and metrics only.
func runBranch(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, run func(ctx context.Context) (Outcome, error)) {
	log := env.logger().With("trace", id, "site", site)
	outcome, err := run(ctx)
	if err != nil {
		log.Error("branch aborted", "err", err)
		return
	}
	if outcome == OutcomeTerminated {
		log.Debug("branch terminated")
	}
}
