package analysis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"hashqa/internal/blob"
	"hashqa/internal/report"
)

func blobs32(vals []uint64) []blob.Blobber {
	out := make([]blob.Blobber, len(vals))
	for i, v := range vals {
		b := blob.FromUint64(32, v)
		out[i] = b
	}
	return out
}

func TestScanFullCollisionsCountsRunsNotPairs(t *testing.T) {
	// Value 1 appears three times (a run of 3 contributes 2 collisions,
	// not C(3,2)=3), value 2 twice, values 3 and 5..7 once each.
	vals := []uint64{1, 2, 3, 1, 2, 5, 6, 7, 1}
	hashes := blobs32(vals)
	blob.Sort(hashes, nil)

	count, sample := scanFullCollisions(hashes)
	require.Equal(t, 3, count) // run(1)*3 -> 2, run(2)*2 -> 1
	require.Equal(t, 3, sample["00000001"])
}

func TestTestHashListRunsWithoutPanicking(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(2, &buf, 0)

	hashes := blobs32([]uint64{1, 2, 3, 1, 2, 5, 6, 7, 1})
	res := ctx.TestHashList(hashes, CollisionConfig{TestCollisions: true})
	require.NotNil(t, res.ExplicitWidths)
}

func TestTestHashListZeroCollisionsOnDistinctValues(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(1, &buf, 0)

	vals := make([]uint64, 2000)
	for i := range vals {
		vals[i] = uint64(i) * 0x9E3779B1
	}
	hashes := blobs32(vals)
	res := ctx.TestHashList(hashes, CollisionConfig{TestCollisions: true})
	require.True(t, res.FullCollisions.Pass)
}

func TestAdjacentRunCountsMatchesKnownPrefixSharing(t *testing.T) {
	// Four values sharing their top 16 bits pairwise.
	vals := []uint64{0x00010000, 0x00010001, 0x00020000, 0x00020002}
	hashes := blobs32(vals)
	blob.Sort(hashes, nil)

	counts := adjacentRunCounts(hashes, 1, 31, 0)
	// at width 16, the two pairs sharing top 16 bits each contribute
	// one collision, for a total of 2.
	require.Equal(t, 2, counts[16-1])
}

func TestAdjacentRunCountsTracksMaxBucketBelowThreshold(t *testing.T) {
	// Two non-trivial width-2 buckets: top2=00 holds 3 keys (pair count
	// 2), top2=01 holds 4 keys (pair count 3). Below the threshold the
	// statistic must report the fullest bucket (3), not the summed
	// pair count across both buckets (5).
	vals := []uint64{
		0x00000000, 0x00000001, 0x00000002,
		0x40000000, 0x40000001, 0x40000002, 0x40000003,
		0x80000000, 0xC0000000,
	}
	hashes := blobs32(vals)
	blob.Sort(hashes, nil)

	counts := adjacentRunCounts(hashes, 1, 2, 2)
	require.Equal(t, 3, counts[2-1], "max-bucket count at width 2 must be the fullest bucket's pair count")

	sumOnly := adjacentRunCounts(hashes, 1, 2, 0)
	require.Equal(t, 5, sumOnly[2-1], "summed pair count across both buckets")
}

func TestWidthSetFiltersAboveHashWidth(t *testing.T) {
	cfg := CollisionConfig{TestMaxCollisions: true, TestHighBits: true}
	widths := widthSet(32, cfg, 100000)
	for _, w := range widths {
		require.Less(t, w, 32)
	}
	require.Contains(t, widths, 12)
	require.Contains(t, widths, 8)
}

func TestTestHashListRecursesIntoDeltasOnce(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(1, &buf, 0)

	vals := make([]uint64, 300)
	for i := range vals {
		vals[i] = uint64(i)
	}
	hashes := blobs32(vals)
	res := ctx.TestHashList(hashes, CollisionConfig{TestCollisions: true, DeltaK: 2})

	require.NotNil(t, res.Delta1)
	require.NotNil(t, res.DeltaK)
	// delta-of-delta must not be computed
	require.Nil(t, res.Delta1.Delta1)
	require.Nil(t, res.Delta1.DeltaK)
}

func TestScanFullCollisionsSamplesCappedAtThousand(t *testing.T) {
	vals := make([]uint64, 5000)
	for i := range vals {
		vals[i] = uint64(i % 2000)
	}
	hashes := blobs32(vals)
	blob.Sort(hashes, nil)
	_, sample := scanFullCollisions(hashes)
	require.LessOrEqual(t, len(sample), 1000)
}

func TestReportResultUnused(t *testing.T) {
	// Sanity: the report.Result zero value has Pass == false, so callers
	// rely on the Has* flags of HashListResult, not on the zero value, to
	// tell a skipped analysis from a failed one.
	var r report.Result
	require.False(t, r.Pass)
}
