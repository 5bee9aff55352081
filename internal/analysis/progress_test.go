package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hashqa/internal/report"
)

func TestProgressBarNoopWithoutFlag(t *testing.T) {
	pb := newProgress("test", 100, 0)
	require.NotPanics(t, func() {
		pb.Incr()
		pb.Done()
	})
}

func TestParallelForProgressVisitsEveryIndex(t *testing.T) {
	ctx := NewContext(4, nil, report.FlagProgress)
	seen := make([]int32, 50)
	ctx.parallelForProgress("units", len(seen), func(i int) {
		seen[i] = 1
	})
	for i, v := range seen {
		require.Equal(t, int32(1), v, "index %d not visited", i)
	}
}
