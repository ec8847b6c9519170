package control

import (
	"context"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// Outcome tells the caller of Execute what became of its branch.
type Outcome int

const (
	// OutcomeContinue means the calling branch proceeds normally.
	OutcomeContinue Outcome = iota

	// OutcomeTerminated means the calling branch is done and must stop:
	// it has either been killed or delegated all further work to
	// spawned children.
	OutcomeTerminated
)

// Kind tags for the wire form of each command variant.
const (
	KindContinue              = "continue"
	KindClone                 = "clone"
	KindResampleCloneContinue = "resample_clone_continue"
	KindResampleForkContinue  = "resample_fork_continue"
	KindLogPdf                = "log_pdf"
	KindKill                  = "kill"
)

// Command is one variant of the control-point protocol: the action to take
// when execution reaches a (trace, site) coordination point. A command is
// immutable per use and consumed exactly once; it may spawn branches, park
// the caller on a lock, or hand off a successor command to a child.
type Command interface {
	// Kind returns the variant's wire tag.
	Kind() string

	// Execute performs the variant's action. It may run synchronously,
	// spawn branches through env.Forker, or block indefinitely on a
	// coordination lock. A returned error of kind
	// domain.ErrInvalidWakeCommand or domain.ErrNotSampleSite is a
	// fatal contract violation: the branch must abort.
	Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error)
}
