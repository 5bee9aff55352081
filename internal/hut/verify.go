package hut

import "encoding/binary"

// VerificationValue computes the 32-bit legacy verification value for a
// HUT: 256 rows are hashed with seeds counting down from 256, assembled
// into a table, and that table is hashed once more at seed 0; the first
// four bytes of that final digest, little-endian, are the result.
//
// The result is not compared here. A zero *expected* value in the
// legacy store is the "untested, skip" sentinel; internal/vstore's
// Check applies that convention.
func VerificationValue(h Hash) uint32 {
	n := h.Bits() / 8
	table := make([]byte, 256*n)
	row := make([]byte, n)

	for i := 0; i < 256; i++ {
		key := make([]byte, i)
		for j := range key {
			key[j] = byte(j)
		}
		seed := h.SeedInit(uint64(256-i), i)
		h.HashInto(key, seed, row)
		copy(table[i*n:(i+1)*n], row)
	}

	seed := h.SeedInit(0, len(table))
	digest := Digest(h, table, seed)
	return binary.LittleEndian.Uint32(digest[:4])
}
