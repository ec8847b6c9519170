/*
Package forkpoint implements distributed, branch-forking control flow for
probabilistic-program execution traces.

A probabilistic program reaches a named site inside a trace and invokes a
control point. The command governing that (trace, site) transition decides
what happens next: suspend the branch, clone it into independent lineages,
resample the site under a deterministic seed, publish the trace's
log-density, or kill the branch outright. Branches coordinate exclusively
through an external store (Redis, or in-memory for single-process runs):
each suspended branch parks on a lock keyed by its (trace, site) pair and
waits for an external waker to deliver the next command — a purely
reactive chain of continuations.

# Usage

	rt := forkpoint.New() // in-memory store, goroutine branches

	ctx := context.Background()
	tr := trace.New(domain.NewTraceID())
	// ... record sites on tr ...

	// Suspend a copy of the execution at site "theta".
	msg, _ := tr.Message("theta")
	outcome, err := rt.AddControlPoint(ctx, tr.ID(), "theta", tr, &control.Continue{}, msg)

	// Later, an orchestrator drives the parked branch:
	rt.Wake(ctx, tr.ID(), "theta", &control.LogPdf{})
	lp, _ := rt.LogPdfResult(ctx, tr.ID(), "theta")
	rt.Wake(ctx, tr.ID(), "theta", &control.Kill{})
	rt.Shutdown()

The heavy lifting lives in pkg/control (the command variants), pkg/adapters
(coordination stores) and pkg/feature (hierarchical mixture models for
building observation distributions).
*/
package forkpoint
