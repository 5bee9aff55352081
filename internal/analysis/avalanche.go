package analysis

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"hashqa/internal/blob"
	"hashqa/internal/histogram"
	"hashqa/internal/hut"
	"hashqa/internal/report"
)

// AvalancheResult is the outcome of an avalanche-and-BIC tally run: the
// reduced tensor plus the reporter verdicts derived from it.
type AvalancheResult struct {
	Tensor *histogram.Tensor
	Bias   report.Result
	BIC    report.Result
}

// Avalanche runs the avalanche/BIC tally for h across reps keys of
// keyLen bytes and seed: for every input bit, it flips the bit, rehashes,
// XORs the two digests, and tallies the result into a popcount/joint-flip
// tensor. Rep indices are partitioned across ctx.NCPU workers via a
// shared atomic counter; each worker accumulates into a private tensor,
// which a final single-threaded pass reduces into one combined tensor.
func (ctx Context) Avalanche(h hut.Hash, keyLen int, seed uint64, reps int) AvalancheResult {
	kbits := keyLen * 8
	hbits := h.Bits()

	workers := ctx.NCPU
	if workers > reps {
		workers = reps
	}
	if workers < 1 {
		workers = 1
	}

	partials := make([]*histogram.Tensor, workers)
	pb := newProgress("Avalanche/BIC", int64(reps), ctx.Flags)

	var next int64 = -1
	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			t := histogram.NewTensor(kbits, hbits)
			partials[w] = t

			key := make([]byte, keyLen)
			base := make([]byte, hbits/8)
			flipped := make([]byte, hbits/8)

			for {
				rep := int(atomic.AddInt64(&next, 1))
				if rep >= reps {
					return nil
				}

				fillKeyForRep(key, rep)
				effSeed := h.SeedInit(seed, keyLen)
				h.HashInto(key, effSeed, base)
				baseBlob := blob.FromBytes(base)

				for i := 0; i < kbits; i++ {
					key[i/8] ^= 1 << uint(i%8)
					h.HashInto(key, effSeed, flipped)
					key[i/8] ^= 1 << uint(i%8)

					diff := baseBlob.XOR(blob.FromBytes(flipped))
					t.AddSample(i, diff)
				}
				pb.Incr()
			}
		})
	}
	_ = g.Wait()
	pb.Done()

	combined := reduceTensors(partials, kbits, hbits)

	coinflips := uint64(reps)
	bias := report.ReportBias(ctx.Out, combined.Pop, coinflips, hbits, ctx.Flags)

	bic := report.ReportChiSqIndep(ctx.Out, combined.Pop, func(i, o1, o2 int) uint64 {
		return combined.AndAt(i, o1, o2)
	}, kbits, hbits, coinflips, ctx.Flags)

	return AvalancheResult{Tensor: combined, Bias: bias, BIC: bic}
}

// fillKeyForRep derives a deterministic, rep-indexed key so avalanche
// runs are reproducible across identical configurations.
func fillKeyForRep(key []byte, rep int) {
	for i := range key {
		key[i] = 0
	}
	key[0] = byte(rep)
	if len(key) > 1 {
		key[1] = byte(rep >> 8)
	}
	if len(key) > 2 {
		key[2] = byte(rep >> 16)
	}
}

// reduceTensors sums every worker's private tensor into one combined
// tensor, the single-threaded reduction step the concurrency model calls for.
func reduceTensors(partials []*histogram.Tensor, kbits, hbits int) *histogram.Tensor {
	combined := histogram.NewTensor(kbits, hbits)
	for _, t := range partials {
		if t == nil {
			continue
		}
		for i := range combined.Pop {
			combined.Pop[i] += t.Pop[i]
		}
		for i := range combined.And {
			combined.And[i] += t.And[i]
		}
	}
	return combined
}
