package histogram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hashqa/internal/blob"
)

func TestHistogramHashBitsCountsSetBits(t *testing.T) {
	b := blob.FromUint32(0b1011)
	cursor := make([]uint64, 32)
	HistogramHashBits(b, cursor)
	require.Equal(t, uint64(1), cursor[0])
	require.Equal(t, uint64(1), cursor[1])
	require.Equal(t, uint64(0), cursor[2])
	require.Equal(t, uint64(1), cursor[3])
}

func TestHistogramHashBitsFromSuppressesLowBits(t *testing.T) {
	b := blob.FromUint32(0b1111)
	cursor := make([]uint64, 32)
	HistogramHashBitsFrom(b, cursor, 2)
	require.Equal(t, uint64(0), cursor[0])
	require.Equal(t, uint64(0), cursor[1])
	require.Equal(t, uint64(1), cursor[2])
	require.Equal(t, uint64(1), cursor[3])
}

func TestPairIndexIsSymmetricAndDistinct(t *testing.T) {
	h := 5
	seen := map[int]bool{}
	for o1 := 0; o1 < h; o1++ {
		for o2 := o1 + 1; o2 < h; o2++ {
			idx := PairIndex(o1, o2, h)
			require.False(t, seen[idx], "duplicate index for (%d,%d)", o1, o2)
			seen[idx] = true
			require.Equal(t, idx, PairIndex(o2, o1, h))
		}
	}
	require.Len(t, seen, h*(h-1)/2)
}

func TestTensorAddSampleTalliesPopAndAnd(t *testing.T) {
	tensor := NewTensor(8, 4)
	diff := blob.FromUint32(0b1011) // bits 0,1,3 set
	tensor.AddSample(2, diff)

	require.Equal(t, uint64(1), tensor.PopAt(2, 0))
	require.Equal(t, uint64(1), tensor.PopAt(2, 1))
	require.Equal(t, uint64(0), tensor.PopAt(2, 2))
	require.Equal(t, uint64(1), tensor.PopAt(2, 3))

	require.Equal(t, uint64(1), tensor.AndAt(2, 0, 1))
	require.Equal(t, uint64(1), tensor.AndAt(2, 0, 3))
	require.Equal(t, uint64(1), tensor.AndAt(2, 1, 3))
	require.Equal(t, uint64(0), tensor.AndAt(2, 2, 3))

	// Other input-bit rows remain untouched.
	require.Equal(t, uint64(0), tensor.PopAt(0, 0))
}
