package hut

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	h, err := Lookup("XXH3-64")
	require.NoError(t, err)
	require.Equal(t, "xxh3-64", h.Name())
}

func TestLookupUnknownReturnsHarnessError(t *testing.T) {
	_, err := Lookup("does-not-exist")
	require.Error(t, err)
}

func TestIdentity32MatchesContract(t *testing.T) {
	h := identity32{}
	out := Digest(h, []byte{1, 2, 3}, 0x42)
	want := uint32(0x42) ^ (uint32(3) << 16)
	require.Equal(t, want, uint32(out[0])|uint32(out[1])<<8|uint32(out[2])<<16|uint32(out[3])<<24)
}

func TestVerificationValueIsDeterministic(t *testing.T) {
	h, err := Lookup("identity32")
	require.NoError(t, err)
	a := VerificationValue(h)
	b := VerificationValue(h)
	require.Equal(t, a, b)
}

func TestVerificationValueDiffersAcrossHUTs(t *testing.T) {
	id32, _ := Lookup("identity32")
	xx, _ := Lookup("xxh3-64")
	require.NotEqual(t, VerificationValue(id32), VerificationValue(xx))
}

func TestNamesListsEveryBuiltin(t *testing.T) {
	names := Names()
	require.Contains(t, names, "identity32")
	require.Contains(t, names, "xxh3-64")
	require.Contains(t, names, "murmur3-32")
	require.Contains(t, names, "sha256-trunc64")
}
