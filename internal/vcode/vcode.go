// Package vcode implements the write-only verification-code channel: a
// cheap, order-sensitive digest of everything a test run fed through it,
// so two runs of the same harness against the same HUT and seeds can be
// compared for bit-exact reproducibility without diffing full logs.
package vcode

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Channel carries three independent streams -- Input, Output, Result --
// each its own XXH64 state seeded with its stream index, folded together
// into one 32-bit overall code on Finalize.
type Channel struct {
	input  *xxhash.Digest
	output *xxhash.Digest
	result *xxhash.Digest
}

// New returns a channel with each stream seeded by its index (0,1,2).
func New() *Channel {
	c := &Channel{input: xxhash.New(), output: xxhash.New(), result: xxhash.New()}
	seedStream(c.input, 0)
	seedStream(c.output, 1)
	seedStream(c.result, 2)
	return c
}

func seedStream(d *xxhash.Digest, idx uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], idx)
	d.Write(b[:])
}

// Input feeds bytes into the Input stream (e.g. keys and seeds consumed).
func (c *Channel) Input(b []byte) { c.input.Write(b) }

// Output feeds bytes into the Output stream (e.g. raw digests produced).
func (c *Channel) Output(b []byte) { c.output.Write(b) }

// Result feeds bytes into the Result stream (e.g. pass/fail/p-value summaries).
func (c *Channel) Result(b []byte) { c.result.Write(b) }

// Finalize folds the three streams' low 32 bits into a fourth XXH64 pass
// and returns the overall 32-bit verification code.
func (c *Channel) Finalize() uint32 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(c.input.Sum64()))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(c.output.Sum64()))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(c.result.Sum64()))

	final := xxhash.New()
	final.Write(buf[:])
	return uint32(final.Sum64())
}
