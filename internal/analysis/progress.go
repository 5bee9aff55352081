package analysis

import (
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"hashqa/internal/report"
)

// progressBar is a thin handle the parallel loops increment once per
// completed unit of work; it is a no-op when the PROGRESS flag is off,
// so callers never need to branch on ctx.Flags themselves.
type progressBar struct {
	bar *mpb.Bar
	p   *mpb.Progress
}

// newProgress starts an mpb progress bar for name over total units, or
// returns a no-op handle when flags does not request progress output:
// percentage prepended, ETA appended once complete.
func newProgress(name string, total int64, flags report.Flags) *progressBar {
	if !flags.Has(report.FlagProgress) || total <= 0 {
		return &progressBar{}
	}
	p := mpb.New(mpb.WithWidth(80))
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name+": "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)
	return &progressBar{bar: bar, p: p}
}

// Incr advances the bar by one unit; safe to call from any worker.
func (pb *progressBar) Incr() {
	if pb == nil || pb.bar == nil {
		return
	}
	pb.bar.Increment()
}

// Done waits for the underlying mpb.Progress to finish rendering.
func (pb *progressBar) Done() {
	if pb == nil || pb.p == nil {
		return
	}
	pb.p.Wait()
}

// parallelForProgress is parallelFor plus a named progress bar shown
// under the PROGRESS flag; each claimed unit of work increments the bar
// exactly once, regardless of which worker claims it.
func (ctx Context) parallelForProgress(name string, n int, fn func(i int)) {
	pb := newProgress(name, int64(n), ctx.Flags)
	var done int64
	ctx.parallelFor(n, func(i int) {
		fn(i)
		atomic.AddInt64(&done, 1)
		pb.Incr()
	})
	pb.Done()
}
