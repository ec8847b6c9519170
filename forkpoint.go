package forkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/inferlab/forkpoint/pkg/adapters/memory"
	"github.com/inferlab/forkpoint/pkg/control"
	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/observability"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Version is the library version, reported by the CLI.
const Version = "0.1.0"

// Runtime is the high-level entry point for the library. It wires a
// coordination store, a forker and the ambient collaborators into one
// handle for both sides of the protocol: programs hitting control points
// and orchestrators waking parked branches.
type Runtime struct {
	env *control.Env
}

// Option configures a Runtime.
type Option func(*control.Env)

// WithDialer injects the coordination-store dialer. Defaults to a fresh
// in-memory store.
func WithDialer(d ports.Dialer) Option {
	return func(e *control.Env) {
		e.Dialer = d
	}
}

// WithForker injects a custom branch spawner.
func WithForker(f ports.Forker) Option {
	return func(e *control.Env) {
		e.Forker = f
	}
}

// WithLogger sets a structured logger for protocol events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *control.Env) {
		e.Logger = logger
	}
}

// WithMetrics enables prometheus instrumentation of branch events.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *control.Env) {
		e.Metrics = m
	}
}

// WithWaitTimeout bounds every lock wait. The zero default waits forever,
// matching the source protocol; set this in production deployments.
func WithWaitTimeout(d time.Duration) Option {
	return func(e *control.Env) {
		e.WaitTimeout = d
	}
}

// New creates a Runtime. With no options it runs self-contained: in-memory
// coordination, goroutine branches, silent logger.
func New(opts ...Option) *Runtime {
	env := control.NewEnv(nil, nil)
	for _, opt := range opts {
		opt(env)
	}
	if env.Dialer == nil {
		env.Dialer = memory.NewStore()
	}
	if env.Forker == nil {
		env.Forker = control.NewGoForker()
	}
	return &Runtime{env: env}
}

// AddControlPoint is invoked by the executing program when it reaches a
// named site; it delegates to the command governing that transition.
func (r *Runtime) AddControlPoint(ctx context.Context, id domain.TraceID, site domain.Site, tr ports.Trace, cmd control.Command, msg *domain.Message) (control.Outcome, error) {
	return control.AddControlPoint(ctx, r.env, id, site, tr, cmd, msg)
}

// Wake delivers a command to the branch parked at (id, site).
func (r *Runtime) Wake(ctx context.Context, id domain.TraceID, site domain.Site, cmd control.Command) error {
	payload, err := control.Encode(cmd)
	if err != nil {
		return err
	}

	st, err := r.env.Dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	return st.Wake(ctx, domain.TraceKey(id, site), payload)
}

// LogPdfResult reads the log-density a LogPdf command published for
// (id, site). Returns domain.ErrMsgNotFound if nothing was published yet.
func (r *Runtime) LogPdfResult(ctx context.Context, id domain.TraceID, site domain.Site) (float64, error) {
	st, err := r.env.Dialer.Dial(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	blob, err := st.GetMsg(ctx, domain.TraceKey(id, site))
	if err != nil {
		return 0, err
	}

	var res domain.LogPdfResult
	if err := json.Unmarshal(blob, &res); err != nil {
		return 0, fmt.Errorf("malformed log-density payload: %w", err)
	}
	return res.LogPdf, nil
}

// Pairs lists every lineage record branch events have registered.
func (r *Runtime) Pairs(ctx context.Context) ([]domain.Pair, error) {
	st, err := r.env.Dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot reach coordination store: %w", err)
	}
	defer st.Close()

	return st.Pairs(ctx)
}

// Shutdown waits for every live branch to finish. Parked branches only
// finish once woken (or once their wait times out), so drive the protocol
// to completion first.
func (r *Runtime) Shutdown() {
	r.env.Forker.Wait()
}
