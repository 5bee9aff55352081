package analysis

import (
	"hashqa/internal/blob"
	"hashqa/internal/report"
	"hashqa/internal/stats"
)

// explicitWidths is the fixed set of truncation widths always reported
// on explicitly, filtered to widths strictly below the hash's own bit width.
var explicitWidths = []int{224, 160, 128, 64, 32}

// maxCollWidths is appended to explicitWidths when TestMaxCollisions is set.
var maxCollWidths = []int{12, 8}

// CollisionConfig selects which parts of the TestHashList pipeline run.
type CollisionConfig struct {
	TestCollisions    bool
	TestMaxCollisions bool
	TestDistribution  bool
	TestHighBits      bool
	TestLowBits       bool

	// DeltaK selects first-order (DeltaK==1) and, if >=2, additionally
	// k-th order XOR-delta recursion. 0 disables delta analysis.
	DeltaK int

	// recurseDepth is 0 at the top level and 1 inside a delta
	// recursion; delta-of-delta is never computed.
	recurseDepth int
}

// HashListResult collects every reporter Result a TestHashList run
// produced, including those from its (depth-1-only) delta recursion.
type HashListResult struct {
	FullCollisions  report.Result
	ExplicitWidths  map[int]report.Result
	SweptHigh       report.Result
	HasSweptHigh    bool
	SweptLow        report.Result
	HasSweptLow     bool
	Distribution    report.Result
	HasDistribution bool
	Delta1          *HashListResult
	DeltaK          *HashListResult
}

// TestHashList runs the sorted-collision analyzer (and, if enabled,
// the distribution analyzer and delta-list recursion) against hashes,
// mutating it in place: delta lists are captured before sorting, then
// hashes is sorted. The low-bit collision pass sorts a bit-reversed
// copy, leaving hashes itself in sorted order.
func (ctx Context) TestHashList(hashes []blob.Blobber, cfg CollisionConfig) HashListResult {
	var res HashListResult
	nbH := len(hashes)
	if nbH < 2 {
		return res
	}
	n := hashes[0].BitLen()

	var deltas1, deltasN []blob.Blobber
	if cfg.recurseDepth == 0 && cfg.DeltaK >= 1 {
		deltas1 = make([]blob.Blobber, nbH-1)
		for i := 1; i < nbH; i++ {
			deltas1[i-1] = hashes[i].XOR(hashes[i-1])
		}
		if cfg.DeltaK >= 2 && nbH > cfg.DeltaK {
			deltasN = make([]blob.Blobber, nbH-cfg.DeltaK)
			for i := cfg.DeltaK; i < nbH; i++ {
				deltasN[i-cfg.DeltaK] = hashes[i].XOR(hashes[i-cfg.DeltaK])
			}
		}
	}

	blob.Sort(hashes, nil)

	fullCount, sample := scanFullCollisions(hashes)
	if cfg.TestCollisions {
		res.FullCollisions = report.ReportCollisions(ctx.Out, uint64(nbH), fullCount, n, false, true, ctx.Flags)
		if ctx.Flags.Has(report.FlagVerbose) {
			report.PrintCollisions(ctx.Out, sample, 1000)
		}
	}

	widths := widthSet(n, cfg, uint64(nbH))
	minSwept, maxSwept := sweepRange(uint64(nbH), n, cfg)

	lo, hi := minSwept, maxSwept
	for _, w := range widths {
		if w < lo {
			lo = w
		}
		if w > hi {
			hi = w
		}
	}

	// Below the n*log(n) bound, the expected collision count per bucket
	// approaches the bucket population, so the meaningful statistic is
	// the single fullest bucket rather than the summed pair count.
	// threshBits is the highest explicitly-reported width still under
	// that bound; widths at or below it get max-bucket counts, wider
	// ones keep the cumulative pair count.
	threshBits := 0
	if cfg.TestMaxCollisions {
		nlognBits := stats.GetNLogNBound(uint64(nbH))
		for _, w := range widths {
			if w < nlognBits && w > threshBits {
				threshBits = w
			}
		}
	}

	if lo <= hi {
		cumulative := adjacentRunCounts(hashes, lo, hi, threshBits)

		res.ExplicitWidths = make(map[int]report.Result, len(widths))
		for _, w := range widths {
			observed := cumulative[w-lo]
			isMax := threshBits > 0 && w <= threshBits
			res.ExplicitWidths[w] = report.ReportCollisions(ctx.Out, uint64(nbH), observed, w, isMax, true, ctx.Flags)
		}

		if minSwept <= maxSwept {
			sweptCounts := cumulative[minSwept-lo : maxSwept-lo+1]
			res.SweptHigh = report.ReportBitsCollisions(ctx.Out, uint64(nbH), sweptCounts, minSwept, true, ctx.Flags)
			res.HasSweptHigh = true
		}
	}

	if cfg.TestLowBits && minSwept <= maxSwept {
		reversed := make([]blob.Blobber, nbH)
		for i, h := range hashes {
			reversed[i] = h.ReverseBits()
		}
		blob.Sort(reversed, nil)
		lowCounts := adjacentRunCounts(reversed, minSwept, maxSwept, 0)
		res.SweptLow = report.ReportBitsCollisions(ctx.Out, uint64(nbH), lowCounts, minSwept, false, ctx.Flags)
		res.HasSweptLow = true
	}

	if cfg.TestDistribution {
		if dres, ok := ctx.Distribution(hashes, ctx.Flags); ok {
			res.Distribution = dres
			res.HasDistribution = true
		}
	}

	if cfg.recurseDepth == 0 {
		childCfg := cfg
		childCfg.recurseDepth = 1
		childCfg.DeltaK = 0
		if len(deltas1) >= 2 {
			child := ctx.TestHashList(deltas1, childCfg)
			res.Delta1 = &child
		}
		if len(deltasN) >= 2 {
			child := ctx.TestHashList(deltasN, childCfg)
			res.DeltaK = &child
		}
	}

	return res
}

// scanFullCollisions scans a sorted hash list for adjacent equal runs,
// returning the total collision count (sum of run-length-1 per run)
// and a sample of up to 1000 (hex, multiplicity) entries.
func scanFullCollisions(sorted []blob.Blobber) (int, map[string]int) {
	sample := make(map[string]int)
	total := 0
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j].Equal(sorted[i]) {
			j++
		}
		run := j - i
		if run > 1 {
			total += run - 1
			if len(sample) < 1000 {
				sample[sorted[i].Hex()] = run
			}
		}
		i = j
	}
	return total, sample
}

// adjacentRunCounts returns, for every width w in [lo,hi], a collision
// count from a single pass over the fully sorted list. Because the
// total order sorts MSB-first, elements sharing their top w bits are
// always contiguous for any w, so an adjacent-pair tally of each
// pair's XOR leading-zero-bit count, turned into a suffix sum, gives
// the exact per-width collision-pair count.
//
// When threshBits > 0, widths in [lo,threshBits] additionally track a
// running per-bucket collision counter that resets on each
// non-collision, so those widths instead report the single fullest
// bucket's occupancy -- the statistic that matters once expected
// collisions approach the bucket population.
func adjacentRunCounts(sorted []blob.Blobber, lo, hi, threshBits int) []int {
	width := hi - lo + 1
	maxWidth := 0
	if threshBits > 0 {
		maxWidth = threshBits - lo + 1
	}

	counts := make([]int, width)
	prevColl := make([]int, maxWidth+1)
	maxColl := make([]int, maxWidth+1)

	for i := 1; i < len(sorted); i++ {
		xor := sorted[i].XOR(sorted[i-1])
		z := xor.HighZeroBits()
		if z >= lo {
			zc := z
			if zc > hi {
				zc = hi
			}
			counts[zc-lo]++
		}
		if maxWidth == 0 || z >= threshBits {
			continue
		}
		zf := z
		if zf < lo-1 {
			zf = lo - 1
		}
		coll := 0
		for b := width - 1; b >= maxWidth; b-- {
			coll += counts[b]
		}
		for b := maxWidth - 1; b > zf-lo; b-- {
			coll += counts[b]
			if d := coll - prevColl[b]; d > maxColl[b] {
				maxColl[b] = d
			}
			prevColl[b] = coll
		}
	}

	running := 0
	for b := width - 1; b >= 0; b-- {
		running += counts[b]
		counts[b] = running
	}
	for b := maxWidth - 1; b >= 0; b-- {
		if d := counts[b] - prevColl[b]; maxColl[b] > d {
			counts[b] = maxColl[b]
		} else {
			counts[b] = d
		}
	}
	return counts
}

// widthSet builds the explicit-report width list: the fixed set,
// optionally extended with the max-collision widths and the width at
// which expected collisions are about 100, filtered to widths < n.
func widthSet(n int, cfg CollisionConfig, nbH uint64) []int {
	var widths []int
	for _, w := range explicitWidths {
		if w < n {
			widths = append(widths, w)
		}
	}
	if cfg.TestMaxCollisions {
		for _, w := range maxCollWidths {
			if w < n {
				widths = append(widths, w)
			}
		}
	}
	if cfg.TestHighBits || cfg.TestLowBits {
		if w := widthAtExpected(nbH, 100, n); w > 0 && w < n {
			widths = append(widths, w)
		}
	}
	return dedupInts(widths)
}

// sweepRange computes the swept bit-width range
// [max(MaxDistBits(nbH)+1, nLogN), widthAtExpected10].
func sweepRange(nbH uint64, n int, cfg CollisionConfig) (int, int) {
	nLogN := stats.GetNLogNBound(nbH)
	lowerBound := nLogN
	if cfg.TestDistribution {
		if d := MaxDistBits(nbH) + 1; d > lowerBound {
			lowerBound = d
		}
	}
	upper := widthAtExpected(nbH, 10, n)
	if lowerBound < 1 {
		lowerBound = 1
	}
	if upper < lowerBound {
		upper = lowerBound
	}
	if upper >= n {
		upper = n - 1
	}
	if lowerBound >= n {
		lowerBound = n - 1
	}
	return lowerBound, upper
}

// widthAtExpected returns the smallest bit width b in [1,maxWidth-1] at
// which the expected collision count for nbH samples falls to or
// below target, or maxWidth-1 if no such width exists.
func widthAtExpected(nbH uint64, target float64, maxWidth int) int {
	for b := 1; b < maxWidth; b++ {
		if stats.ExpectedCollisions(nbH, b) <= target {
			return b
		}
	}
	return maxWidth - 1
}

func dedupInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
