package control

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/inferlab/forkpoint/pkg/domain"
	"github.com/inferlab/forkpoint/pkg/ports"
)

// ResampleForkContinue redraws the value at the current site under a
// deterministic seed, then persists and forks exactly as Continue does.
// With UUIDOnSample set, the redrawn trace is treated as a new lineage: a
// fresh trace-id is minted, the pair is registered, and the remainder of
// the action runs under the new id.
type ResampleForkContinue struct {
	Seed         *uint64 `json:"seed,omitempty" mapstructure:"seed"`
	UUIDOnSample bool    `json:"uuid_on_sample" mapstructure:"uuid_on_sample"`
}

// Kind implements Command.
func (r *ResampleForkContinue) Kind() string { return KindResampleForkContinue }

// Execute implements Command.
func (r *ResampleForkContinue) Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	if !msg.IsSample() {
		return OutcomeTerminated, fmt.Errorf("site %q: %w", site, domain.ErrNotSampleSite)
	}

	// One explicit seed establishes the reproducible random stream for
	// this branch; absent a caller-provided seed, draw one.
	src := rand.NewPCG(seedOrRandom(r.Seed), 0)

	env.logger().Debug("resampling", "trace", id, "site", site)
	if err := tr.Resample(site, msg, src); err != nil {
		return OutcomeTerminated, fmt.Errorf("resample of %s at %s failed: %w", id, site, err)
	}
	env.Metrics.ResampleRun()

	if r.UUIDOnSample {
		childID := domain.NewTraceID()
		if err := registerPair(ctx, env, id, childID, site); err != nil {
			return OutcomeTerminated, err
		}
		tr.SetID(childID)
		id = childID
	}

	cont := &Continue{}
	return cont.Execute(ctx, env, id, site, tr, msg)
}

// ResampleCloneContinue is a Clone whose children skip parking: instead of
// waiting for a wake command each child immediately and synchronously runs
// a ResampleForkContinue against the same site and message. The children's
// lineages were already minted during cloning, so no further id is
// generated on resample.
type ResampleCloneContinue struct {
	Seed  *uint64 `json:"seed,omitempty" mapstructure:"seed"`
	Count int     `json:"count" mapstructure:"count"`
}

// Kind implements Command.
func (r *ResampleCloneContinue) Kind() string { return KindResampleCloneContinue }

// Execute implements Command.
func (r *ResampleCloneContinue) Execute(ctx context.Context, env *Env, id domain.TraceID, site domain.Site, tr ports.Trace, msg *domain.Message) (Outcome, error) {
	spawnClones(ctx, env, id, site, tr, r.Count, func(ctx context.Context, childID domain.TraceID, child ports.Trace) (Outcome, error) {
		resample := &ResampleForkContinue{Seed: r.Seed, UUIDOnSample: false}
		return resample.Execute(ctx, env, childID, site, child, copyMsg(msg))
	})

	return OutcomeTerminated, nil
}

// seedOrRandom returns the explicit seed when present, otherwise a fresh
// random one.
func seedOrRandom(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return rand.Uint64()
}
