// Package histogram implements the popcount and joint-flip tensors used
// by the avalanche and bit-independence-criterion (BIC) analyzers: for
// every input bit flipped, tally which output bits changed, and which
// pairs of output bits changed together.
package histogram

import "hashqa/internal/blob"

// Tensor holds, for kbits input bits and h output bits, a popcount per
// (input bit, output bit) and a joint "both flipped" count per (input
// bit, output-bit pair). The pair axis is padded by one slot per input
// bit block so a write-through-zero histogram primitive never needs a
// bounds check.
type Tensor struct {
	KBits int
	H     int
	pairs int

	Pop []uint64
	And []uint64
}

// NewTensor allocates a zeroed tensor for kbits input bits and h output bits.
func NewTensor(kbits, h int) *Tensor {
	pairs := h * (h - 1) / 2
	return &Tensor{
		KBits: kbits,
		H:     h,
		pairs: pairs,
		Pop:   make([]uint64, kbits*h),
		And:   make([]uint64, kbits*(pairs+1)),
	}
}

// PairIndex returns the row-major upper-triangle index for output bits
// o1<o2 out of h total output bits.
func PairIndex(o1, o2, h int) int {
	if o1 > o2 {
		o1, o2 = o2, o1
	}
	return o1*h - o1*(o1+1)/2 + (o2 - o1 - 1)
}

// PopAt returns the popcount for (input bit i, output bit o).
func (t *Tensor) PopAt(i, o int) uint64 {
	return t.Pop[i*t.H+o]
}

// AndAt returns the joint-flip count for (input bit i, output-bit pair o1<o2).
func (t *Tensor) AndAt(i, o1, o2 int) uint64 {
	block := t.And[i*(t.pairs+1) : (i+1)*(t.pairs+1)]
	return block[PairIndex(o1, o2, t.H)+1]
}

// AddSample records one avalanche sample: the XOR of two digests
// produced by flipping input bit i, recording which output bits
// changed (popcount) and which pairs changed together (andcount).
func (t *Tensor) AddSample(i int, diff blob.Blobber) {
	popRow := t.Pop[i*t.H : (i+1)*t.H]
	HistogramHashBits(diff, popRow)

	andBlock := t.And[i*(t.pairs+1) : (i+1)*(t.pairs+1)]
	set := make([]int, 0, t.H)
	for o := 0; o < t.H; o++ {
		if diff.GetBit(o) != 0 {
			set = append(set, o)
		}
	}
	for a := 0; a < len(set); a++ {
		for b := a + 1; b < len(set); b++ {
			andBlock[PairIndex(set[a], set[b], t.H)+1]++
		}
	}
}

// HistogramHashBits adds +1 to cursor[j] for every set bit j of hash.
// cursor must have at least hash.BitLen() entries.
func HistogramHashBits(hash blob.Blobber, cursor []uint64) {
	n := hash.BitLen()
	for j := 0; j < n; j++ {
		if hash.GetBit(j) != 0 {
			cursor[j]++
		}
	}
}

// HistogramHashBitsFrom is HistogramHashBits but suppresses bits below
// startbit, leaving cursor[0:startbit] untouched.
func HistogramHashBitsFrom(hash blob.Blobber, cursor []uint64, startbit int) {
	n := hash.BitLen()
	for j := startbit; j < n; j++ {
		if hash.GetBit(j) != 0 {
			cursor[j]++
		}
	}
}
