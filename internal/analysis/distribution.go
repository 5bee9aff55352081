package analysis

import (
	"hashqa/internal/blob"
	"hashqa/internal/report"
	"hashqa/internal/stats"
)

// maxDistWindowBits is the largest sliding-window width the
// distribution analyzer ever tallies a histogram for.
const maxDistWindowBits = 24

// minDistWindowBits is the smallest window width worth testing; below
// it there are too few bins for the RMSE score to be meaningful.
const minDistWindowBits = 8

// MaxDistBits returns the largest window width w <= 24 with
// nbH >= 5*2^w, or 0 if even a 1-bit window has too few samples
// (nbH < 10). Results below minDistWindowBits are possible; callers
// skip the analysis in that case.
func MaxDistBits(nbH uint64) int {
	best := 0
	for w := 1; w <= maxDistWindowBits; w++ {
		if nbH < 5*(uint64(1)<<uint(w)) {
			break
		}
		best = w
	}
	return best
}

// Distribution measures, for every starting bit s and window width
// w in [minDistWindowBits, MaxDistBits(nbH)], how close the
// distribution of hash.Window(s,w) is to uniform. The per-s work is
// split across ctx.NCPU workers, each with a private bins buffer; the
// report then picks the single worst (s,w) score across every worker's
// output and scales the p-value across the full (s,w) test count.
//
// The second return value is false when nbH is too small for even the
// minimum window width, in which case no report is printed.
func (ctx Context) Distribution(hashes []blob.Blobber, flags report.Flags) (report.Result, bool) {
	nbH := uint64(len(hashes))
	maxW := MaxDistBits(nbH)
	if maxW < minDistWindowBits {
		return report.Result{}, false
	}

	n := hashes[0].BitLen()
	numW := maxW - minDistWindowBits + 1
	scores := make([]float64, n*numW)

	ctx.parallelForProgress("Distribution", n, func(s int) {
		bins := make([]uint32, 1<<uint(maxW))
		for _, h := range hashes {
			bins[h.Window(s, maxW)]++
		}

		w := maxW
		for {
			sumsq := stats.SumSquares(bins[:1<<uint(w)])
			score := stats.CalcScore(sumsq, 1<<uint(w), len(hashes))
			scores[s*numW+(maxW-w)] = score

			if w == minDistWindowBits {
				break
			}
			half := 1 << uint(w-1)
			for i := 0; i < half; i++ {
				bins[i] += bins[i+half]
			}
			w--
		}
	})

	return report.ReportDistribution(ctx.Out, scores, flags), true
}
