package vstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verify.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndLookupRoundTrips(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("xxh3-64", 0x39CD9E4A))

	v, ok, err := s.Lookup("xxh3-64")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(0x39CD9E4A), v)
}

func TestLookupMissingIsNotOK(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.Lookup("does-not-exist")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckUnknownWhenNoEntry(t *testing.T) {
	s := openTemp(t)
	v, err := s.Check("nope", 123)
	require.NoError(t, err)
	require.Equal(t, Unknown, v)
}

func TestCheckSkipsZeroSentinel(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("untested-be", 0))
	v, err := s.Check("untested-be", 0xDEADBEEF)
	require.NoError(t, err)
	require.Equal(t, Skip, v)
}

func TestCheckMatchAndMismatch(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("murmur3-32", 0x1234))

	v, err := s.Check("murmur3-32", 0x1234)
	require.NoError(t, err)
	require.Equal(t, Match, v)

	v, err = s.Check("murmur3-32", 0x5678)
	require.NoError(t, err)
	require.Equal(t, Mismatch, v)
}

func TestAllListsEveryEntry(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("a", 1))
	require.NoError(t, s.Put("b", 2))

	all, err := s.All()
	require.NoError(t, err)
	require.Equal(t, map[string]uint32{"a": 1, "b": 2}, all)
}
