package runner

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hashqa/internal/config"
	"hashqa/internal/vstore"
)

func newTestStore(t *testing.T) *vstore.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := vstore.Open(filepath.Join(dir, "verification.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunProducesAReportForAGoodHUT(t *testing.T) {
	store := newTestStore(t)
	cfg := config.Default()
	cfg.HUTName = "murmur3-32"

	rep, err := Run(cfg, Options{KeyCount: 4096, AvalancheReps: 200, KeyLen: 8}, io.Discard, store)
	require.NoError(t, err)
	require.Equal(t, "murmur3-32", rep.HUTName)
	require.NotZero(t, rep.VCode)
}

func TestRunFlagsIdentityHashAsFailing(t *testing.T) {
	store := newTestStore(t)
	cfg := config.Default()
	cfg.HUTName = "identity32"

	rep, err := Run(cfg, Options{KeyCount: 2048, AvalancheReps: 200, KeyLen: 8}, io.Discard, store)
	require.NoError(t, err)
	require.False(t, rep.Pass)
}

func TestRunRejectsUnknownHUT(t *testing.T) {
	store := newTestStore(t)
	cfg := config.Default()
	cfg.HUTName = "does-not-exist"

	_, err := Run(cfg, Options{}, io.Discard, store)
	require.Error(t, err)
}

func TestRunIsDeterministicForSameConfig(t *testing.T) {
	store := newTestStore(t)
	cfg := config.Default()
	cfg.HUTName = "xxh3-64"
	cfg.Seed = 99

	opts := Options{KeyCount: 2048, AvalancheReps: 200, KeyLen: 8}
	r1, err := Run(cfg, opts, io.Discard, store)
	require.NoError(t, err)
	r2, err := Run(cfg, opts, io.Discard, store)
	require.NoError(t, err)

	require.Equal(t, r1.VCode, r2.VCode)
}

func TestRunChecksVerificationAgainstStore(t *testing.T) {
	store := newTestStore(t)
	cfg := config.Default()
	cfg.HUTName = "identity32"
	opts := Options{KeyCount: 512, AvalancheReps: 100, KeyLen: 4}

	first, err := Run(cfg, opts, io.Discard, store)
	require.NoError(t, err)
	require.Equal(t, vstore.Unknown, first.VerificationVerdict)

	second, err := Run(cfg, opts, io.Discard, store)
	require.NoError(t, err)
	require.Equal(t, vstore.Match, second.VerificationVerdict)
}
