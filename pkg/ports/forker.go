package ports

import "context"

// BranchFunc is the body of a spawned branch. It runs to completion on its
// own lightweight task; when it returns, the branch is gone.
type BranchFunc func(ctx context.Context)

// Forker spawns independent execution branches. It replaces OS process
// duplication: the caller keeps its own trace copy and continues, while the
// spawned branch runs with an independent copy and coordinates with the
// rest of the system only through the CoordStore.
type Forker interface {
	// Fork starts fn on a new branch and returns immediately.
	Fork(ctx context.Context, fn BranchFunc)

	// Wait blocks until every branch spawned so far has finished.
	Wait()
}
