/*
Package control implements the control-point execution protocol: the
command variants that suspend, clone, resample and resume probabilistic
execution branches, coordinated through an external store.

Branches are lightweight tasks spawned through the ports.Forker rather than
OS process forks. Each branch eventually parks on a lock keyed by
(trace, site) and waits for a waking command, producing a purely reactive,
externally driven chain of continuations.
*/
package control

import (
	"context"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// AddControlPoint is the single entry point an executing program invokes
// when it reaches a named site. It delegates to whichever command
// currently governs the (trace, site) transition; it owns no state and
// performs no coordination itself.
func AddControlPoint(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, cmd Command, msg *domain.Message) (Outcome, error) {
	return cmd.Execute(ctx, env, id, site, tr, msg)
}
