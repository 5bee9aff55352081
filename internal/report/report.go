// Package report renders the pass/warn/fail verdicts the analyzers
// compute into the textual lines a harness run prints, following the
// same "label, ratio, p-value, verdict" shape across every statistic:
// collisions, bit-sweep collisions, avalanche bias, chi-square
// independence, and distribution RMSE.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"

	"hashqa/internal/stats"
)

// Flags controls how much a report prints.
type Flags uint8

const (
	FlagProgress Flags = 1 << iota
	FlagVerbose
	FlagMoreStats
	FlagDiagrams
	FlagQuiet
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func styleFor(v stats.Verdict) lipgloss.Style {
	switch v {
	case stats.Fail:
		return failStyle
	case stats.Warn:
		return warnStyle
	default:
		return passStyle
	}
}

// Result is the (pass, log2p) pair every reporter hands back to its
// caller so TestHashList can track overall pass/fail across a run.
type Result struct {
	Pass    bool
	Log2P   int
	Verdict stats.Verdict
}

func resultOf(scaledP float64) Result {
	v := stats.Classify(scaledP)
	return Result{Pass: v != stats.Fail, Log2P: stats.Log2PValue(scaledP), Verdict: v}
}

func ratioString(observed, expected float64) string {
	if expected <= 0 {
		return "------"
	}
	ratio := observed / expected
	if math.Abs(ratio-1.0) < 0.005 {
		return "1.00"
	}
	return fmt.Sprintf("%.2f", ratio)
}

func printLine(w io.Writer, flags Flags, verdict stats.Verdict, format string, args ...interface{}) {
	if flags.Has(FlagQuiet) && verdict == stats.Pass {
		return
	}
	line := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleFor(verdict).Render(line))
}

// ReportCollisions reports an observed collision count for a given
// truncation width against its statistical expectation.
func ReportCollisions(w io.Writer, nbH uint64, observed int, hashbits int, isMax, isHigh bool, flags Flags) Result {
	var expected, p float64
	if isMax {
		expected = stats.MaxExpected(nbH, hashbits)
		p = stats.MaxCollPValue(nbH, hashbits, observed)
	} else {
		expected = stats.ExpectedCollisions(nbH, hashbits)
		p = stats.GetBoundedPoissonPValue(expected, uint64(observed))
	}

	res := resultOf(p)
	side := "high"
	if !isHigh {
		side = "low"
	}
	label := "Collisions"
	if isMax {
		label = "Max collisions"
	}
	printLine(w, flags, res.Verdict,
		"%-28s %3d-bit (%-4s) %10d (%8s) %9.2f p-value (%2d^) %s",
		label, hashbits, side, observed, ratioString(float64(observed), expected), p, res.Log2P, res.Verdict)
	return res
}

// ReportBitsCollisions scans the swept bit-width range and reports the
// worst (smallest p-value) truncation width, scaling across the number
// of widths tested.
func ReportBitsCollisions(w io.Writer, nbH uint64, counts []int, minBits int, isHigh bool, flags Flags) Result {
	worstP := 1.0
	worstBits := minBits
	for i, observed := range counts {
		bits := minBits + i
		expected := stats.ExpectedCollisions(nbH, bits)
		p := stats.GetBoundedPoissonPValue(expected, uint64(observed))
		if p < worstP {
			worstP = p
			worstBits = bits
		}
	}
	scaled := stats.ScalePValue(worstP, uint64(len(counts)))
	res := resultOf(scaled)
	side := "high"
	if !isHigh {
		side = "low"
	}
	printLine(w, flags, res.Verdict,
		"%-28s worst at %3d-bit (%-4s) %9.2e p-value (%2d^) %s",
		"Collisions (swept widths)", worstBits, side, scaled, res.Log2P, res.Verdict)
	return res
}

// ReportBias reports the worst avalanche/BIC bias across a flat counts
// vector indexed as (keybit*hashbits + outbit), each entry a Binomial(trials,1/2) count.
func ReportBias(w io.Writer, counts []uint64, coinflips uint64, hashbits int, flags Flags) Result {
	half := coinflips / 2
	var worstDelta uint64
	worstIdx := 0
	for i, c := range counts {
		delta := c - half
		if c < half {
			delta = half - c
		}
		if delta > worstDelta {
			worstDelta = delta
			worstIdx = i
		}
	}
	p := stats.CoinflipBinomialPValue(coinflips, worstDelta)
	scaled := stats.ScalePValue(p, uint64(len(counts)))
	res := resultOf(scaled)

	keybit := worstIdx / hashbits
	outbit := worstIdx % hashbits
	printLine(w, flags, res.Verdict,
		"%-28s worst bias at keybit %4d -> outbit %3d, delta %6d  %9.2e p-value (%2d^) %s",
		"Avalanche bias", keybit, outbit, worstDelta, scaled, res.Log2P, res.Verdict)
	return res
}

// ReportChiSqIndep reconstructs the 2x2 independence table for every
// (keybit, outbit1, outbit2) triple and reports the worst chi-square
// value, scaled across all triples tested.
func ReportChiSqIndep(w io.Writer, popcount []uint64, andFor func(i, o1, o2 int) uint64, k, h int, reps uint64, flags Flags) Result {
	worstChisq := 0.0
	var worstI, worstO1, worstO2 int
	for i := 0; i < k; i++ {
		for o1 := 0; o1 < h; o1++ {
			a := popcount[i*h+o1]
			for o2 := o1 + 1; o2 < h; o2++ {
				b := popcount[i*h+o2]
				c := andFor(i, o1, o2)
				boxes := [4]uint32{
					uint32(reps - a - b + c),
					uint32(a - c),
					uint32(b - c),
					uint32(c),
				}
				chisq := stats.ChiSqIndepValue(boxes, reps)
				if chisq > worstChisq {
					worstChisq = chisq
					worstI, worstO1, worstO2 = i, o1, o2
				}
			}
		}
	}
	p := stats.ChiSqPValue(worstChisq, 1)
	tests := uint64(k) * uint64(h*(h-1)/2)
	scaled := stats.ScalePValue(p, tests)
	res := resultOf(scaled)
	v := stats.CramersV(worstChisq, reps)
	printLine(w, flags, res.Verdict,
		"%-28s worst at keybit %4d, outbits (%3d,%3d), Cramer's V %.4f  %9.2e p-value (%2d^) %s",
		"BIC chi-sq independence", worstI, worstO1, worstO2, v, scaled, res.Log2P, res.Verdict)
	return res
}

// ReportDistribution reports the worst standard-normal score across all
// (startbit, width) distribution windows tested.
func ReportDistribution(w io.Writer, scores []float64, flags Flags) Result {
	worst := 0.0
	worstIdx := 0
	for i, s := range scores {
		if math.Abs(s) > math.Abs(worst) {
			worst = s
			worstIdx = i
		}
	}
	p := stats.StdNormalPValue(math.Abs(worst))
	scaled := stats.ScalePValue(p, uint64(len(scores)))
	res := resultOf(scaled)
	printLine(w, flags, res.Verdict,
		"%-28s worst bias is %.3f sigma at window %d  %9.2e p-value (%2d^) %s",
		"Distribution", worst, worstIdx, scaled, res.Log2P, res.Verdict)
	return res
}

// PrintCollisions dumps up to maxShown (digest, multiplicity) entries
// for verbose diagnostics. Not a pass/fail reporter.
func PrintCollisions(w io.Writer, entries map[string]int, maxShown int) {
	shown := 0
	for hex, count := range entries {
		if shown >= maxShown {
			fmt.Fprintf(w, "  ... (%d more)\n", len(entries)-shown)
			return
		}
		fmt.Fprintf(w, "  %s x%d\n", hex, count)
		shown++
	}
}

// ShowOutliers dumps the keys responsible for the worst collisions,
// given their original indices into a caller-provided key printer.
func ShowOutliers(w io.Writer, idxs []int, keyprint func(idx int) string) {
	for _, idx := range idxs {
		fmt.Fprintln(w, " ", keyprint(idx))
	}
}

// Plot returns the single-character glyph SMHasher-style reports use to
// visualize a p-value at a glance: '.' for very safe, descending digits
// and letters toward the fail boundary, 'X' for extreme failure.
func Plot(p float64, trials uint64) byte {
	scaled := stats.ScalePValue(p, trials)
	log2p := stats.Log2PValue(scaled)
	switch {
	case log2p <= 4:
		return '.'
	case log2p < stats.WarnLog2P:
		return byte('1' + (log2p - 5))
	case log2p < stats.FailLog2P:
		return byte('a' + (log2p - stats.WarnLog2P))
	default:
		return 'X'
	}
}
