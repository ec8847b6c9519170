package control

import (
	"context"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Kill terminates the branch immediately and unconditionally: no store
// access, no further action. Any cleanup must have been arranged before
// the branch reaches it.
type Kill struct{}

// Kind implements Command.
func (k *Kill) Kind() string { return KindKill }

// Execute implements Command.
func (k *Kill) Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	env.logger().Debug("killing branch", "trace", id, "site", site)
	env.Metrics.BranchKilled()
	return OutcomeTerminated, nil
}
