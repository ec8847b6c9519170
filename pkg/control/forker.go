package control

import (
	"context"
	"sync"

	"github.com/inferlab/forkpoint/pkg/ports"
)

// goForker implements ports.Forker with plain goroutines. Branches share
// nothing except what they explicitly round-trip through the store.
type goForker struct {
	wg sync.WaitGroup
}

// NewGoForker returns the default goroutine-backed forker.
func NewGoForker() ports.Forker {
	return &goForker{}
}

// Fork implements ports.Forker.
func (g *goForker) Fork(ctx context.Context, fn ports.BranchFunc) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn(ctx)
	}()
}

// Wait implements ports.Forker.
func (g *goForker) Wait() {
	g.wg.Wait()
}
