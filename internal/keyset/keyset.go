// Package keyset provides thin keyset-generation drivers kept outside
// the statistical core: sparse-bit, two-byte and sequential key
// builders. They exist only so the harness's runner has something
// concrete to feed the analyzers; none of the statistics live here.
package keyset

import "hashqa/internal/stats"

// Sequential returns n keys of keyLen bytes, each the little-endian
// encoding of its own index. Used by the identity/self-test HUTs and by
// callers that just need a reproducible, size-controlled key list.
func Sequential(n, keyLen int) [][]byte {
	keys := make([][]byte, n)
	for i := 0; i < n; i++ {
		k := make([]byte, keyLen)
		v := uint64(i)
		for j := 0; j < keyLen && j < 8; j++ {
			k[j] = byte(v >> uint(8*j))
		}
		keys[i] = k
	}
	return keys
}

// Sparse generates every keyLen-byte key with up to maxBitsSet bits
// set: flip one bit at a time, recording the key whenever the
// recursion has spent its last available bit or the caller asked for
// every intermediate count (inclusive).
func Sparse(keyLen, maxBitsSet int, inclusive bool) [][]byte {
	bitlen := keyLen * 8
	var keys [][]byte
	k := make([]byte, keyLen)

	var recurse func(start, bitsLeft int)
	recurse = func(start, bitsLeft int) {
		for i := start; i < bitlen; i++ {
			k[i/8] ^= 1 << uint(i%8)

			if inclusive || bitsLeft == 1 {
				keys = append(keys, append([]byte(nil), k...))
			}
			if bitsLeft > 1 {
				recurse(i+1, bitsLeft-1)
			}

			k[i/8] ^= 1 << uint(i%8)
		}
	}
	recurse(0, maxBitsSet)
	return keys
}

// EstimateSparseCount returns the number of keys Sparse(keyLen,
// maxBitsSet, false) produces: the binomial coefficient
// C(bitlen, maxBitsSet).
func EstimateSparseCount(keyLen, maxBitsSet int) uint64 {
	return stats.ChooseK(keyLen*8, maxBitsSet)
}

// TwoBytes generates, for every length from 2 up to maxLen, every key
// with exactly one or exactly two non-zero bytes: a cheap way to probe
// a HUT's behavior on keys that are mostly zero.
func TwoBytes(maxLen int) [][]byte {
	var keys [][]byte

	for keyLen := 2; keyLen <= maxLen; keyLen++ {
		for byteA := 0; byteA < keyLen; byteA++ {
			for valA := 1; valA <= 255; valA++ {
				k := make([]byte, keyLen)
				k[byteA] = byte(valA)
				keys = append(keys, k)
			}
		}
	}

	for keyLen := 2; keyLen <= maxLen; keyLen++ {
		for byteA := 0; byteA < keyLen-1; byteA++ {
			for byteB := byteA + 1; byteB < keyLen; byteB++ {
				for valA := 1; valA <= 255; valA++ {
					for valB := 1; valB <= 255; valB++ {
						k := make([]byte, keyLen)
						k[byteA] = byte(valA)
						k[byteB] = byte(valB)
						keys = append(keys, k)
					}
				}
			}
		}
	}

	return keys
}
