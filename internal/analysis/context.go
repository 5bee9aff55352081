// Package analysis wires the statistical primitives, histograms and
// reporters together into the three test pipelines a harness run
// performs against a hash list: collision analysis, distribution
// analysis, and avalanche/BIC tally. It also owns the only
// parallelism in the system, threading a single Context value through
// every call instead of relying on global state.
package analysis

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"hashqa/internal/report"
)

// Context carries the per-run configuration every analyzer needs:
// worker count, output stream, and report verbosity flags. It is safe
// to share a single Context across concurrent analyzer calls.
type Context struct {
	NCPU  int
	Out   io.Writer
	Flags report.Flags
}

// NewContext returns a Context with ncpu clamped to [1,32] as the CLI
// surface requires.
func NewContext(ncpu int, out io.Writer, flags report.Flags) Context {
	if ncpu < 1 {
		ncpu = 1
	}
	if ncpu > 32 {
		ncpu = 32
	}
	return Context{NCPU: ncpu, Out: out, Flags: flags}
}

// parallelFor partitions [0,n) across ctx.NCPU workers using a shared
// atomic counter for work-stealing, invoking fn(i) for each claimed
// index; fn must be safe to call concurrently from distinct workers
// provided it only touches state private to its own index.
func (ctx Context) parallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := ctx.NCPU
	if workers > n {
		workers = n
	}

	var next int64 = -1
	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(atomic.AddInt64(&next, 1))
				if i >= n {
					return nil
				}
				fn(i)
			}
		})
	}
	_ = g.Wait()
}

// printMu is a mutex for serializing stdout/stderr writes from parallel
// workers. No code in this package locks it; progress output goes
// through mpb (see progress.go).
var printMu sync.Mutex
