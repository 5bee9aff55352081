package hut

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// xxh3_64 wraps cespare/xxhash's streaming XXH64 implementation. The
// library's exported API does not take a seed directly, so the seed is
// folded in as an 8-byte little-endian prefix ahead of the key, which is
// the usual workaround for libraries exposing only the unseeded sum.
type xxh3_64 struct{}

func newXXH3_64() Hash { return xxh3_64{} }

func (xxh3_64) Name() string { return "xxh3-64" }
func (xxh3_64) Bits() int    { return 64 }

func (xxh3_64) HashInto(key []byte, seed uint64, out []byte) {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)

	d := xxhash.New()
	d.Write(seedBytes[:])
	d.Write(key)
	binary.LittleEndian.PutUint64(out, d.Sum64())
}

func (xxh3_64) SeedInit(seed uint64, hint int) uint64 { return seed }

// murmur3_32 wraps spaolacci/murmur3's native-seed 32-bit sum.
type murmur3_32 struct{}

func newMurmur3_32() Hash { return murmur3_32{} }

func (murmur3_32) Name() string { return "murmur3-32" }
func (murmur3_32) Bits() int    { return 32 }

func (murmur3_32) HashInto(key []byte, seed uint64, out []byte) {
	sum := murmur3.Sum32WithSeed(key, uint32(seed))
	binary.LittleEndian.PutUint32(out, sum)
}

func (murmur3_32) SeedInit(seed uint64, hint int) uint64 { return seed }

// sha256Truncated hashes seed||key with crypto/sha256 and truncates to
// 64 bits; kept on the standard library since no pack example imports a
// third-party SHA-256 implementation superior to the stdlib one.
type sha256Truncated struct{}

func newSHA256Truncated() Hash { return sha256Truncated{} }

func (sha256Truncated) Name() string { return "sha256-trunc64" }
func (sha256Truncated) Bits() int    { return 64 }

func (sha256Truncated) HashInto(key []byte, seed uint64, out []byte) {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)

	h := sha256.New()
	h.Write(seedBytes[:])
	h.Write(key)
	sum := h.Sum(nil)
	copy(out, sum[:8])
}

func (sha256Truncated) SeedInit(seed uint64, hint int) uint64 { return seed }
