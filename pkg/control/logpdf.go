package control

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// LogPdf computes the batch log-density of the current trace, publishes it
// to the message slot keyed by (trace, site), then parks exactly like a
// Continue child and dispatches whatever command it is later woken with.
type LogPdf struct{}

// Kind implements Command.
func (l *LogPdf) Kind() string { return KindLogPdf }

// Execute implements Command.
func (l *LogPdf) Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	logPdf, err := tr.BatchLogProb()
	if err != nil {
		return OutcomeTerminated, fmt.Errorf("log-density of %s failed: %w", id, err)
	}

	payload, err := json.Marshal(domain.LogPdfResult{LogPdf: logPdf})
	if err != nil {
		return OutcomeTerminated, fmt.Errorf("cannot encode log-density result: %w", err)
	}

	key := domain.TraceKey(id, site)
	st, err := env.Dialer.Dial(ctx)
	if err != nil {
		return OutcomeTerminated, fmt.Errorf("cannot reach coordination store: %w", err)
	}
	if err := st.SetMsg(ctx, key, payload); err != nil {
		st.Close()
		return OutcomeTerminated, fmt.Errorf("cannot publish log-density for %s: %w", key, err)
	}
	if err := st.Close(); err != nil {
		return OutcomeTerminated, err
	}

	env.logger().Debug("published log-density", "key", key, "log_pdf", logPdf)

	return parkAndDispatch(ctx, env, id, site, tr, msg)
}
