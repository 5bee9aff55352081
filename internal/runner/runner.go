// Package runner ties the harness's pieces together into the single
// entry point both the CLI and the HTTP control plane call: resolve
// configuration, look up the HUT, build a key list, run the analyzer
// pipelines, check the HUT's verification value against the legacy
// store, and fold everything into one VCode.
package runner

import (
	"fmt"
	"io"

	"hashqa/internal/analysis"
	"hashqa/internal/blob"
	"hashqa/internal/config"
	"hashqa/internal/harnesserr"
	"hashqa/internal/hut"
	"hashqa/internal/keyset"
	"hashqa/internal/report"
	"hashqa/internal/vcode"
	"hashqa/internal/vstore"
)

// DefaultKeyCount is the default size of the sequential key list used
// for collision/distribution analysis; overridable per-run via Options.
const DefaultKeyCount = 1 << 18

// DefaultAvalancheReps is the default rep count for the avalanche/BIC tally.
const DefaultAvalancheReps = 8000

// Options carries the per-run knobs that aren't part of Config proper
// (they tune the runner's own keyset/rep sizing, not the HUT under test).
type Options struct {
	KeyCount      int
	AvalancheReps int
	KeyLen        int

	// Verbose asks analyzers to print per-key diagnostics on failure.
	Verbose bool
	// Progress enables live progress bars over long-running sweeps.
	Progress bool
}

// resolved fills in zero fields with the package defaults.
func (o Options) resolved() Options {
	if o.KeyCount <= 0 {
		o.KeyCount = DefaultKeyCount
	}
	if o.AvalancheReps <= 0 {
		o.AvalancheReps = DefaultAvalancheReps
	}
	if o.KeyLen <= 0 {
		o.KeyLen = 8
	}
	return o
}

// Report is the summary a single harness run against one HUT produces.
type Report struct {
	HUTName             string              `json:"hut_name"`
	Bits                int                 `json:"bits"`
	VerificationValue   uint32              `json:"verification_value"`
	VerificationVerdict vstore.Verdict      `json:"verification_verdict"`
	VCode               uint32              `json:"vcode"`

	Collisions   analysis.HashListResult  `json:"collisions"`
	HasAvalanche bool                     `json:"has_avalanche"`
	Avalanche    analysis.AvalancheResult `json:"avalanche"`

	Pass bool `json:"pass"`
}

// Run executes the full pipeline against cfg.HUTName and returns a
// Report, writing human-readable progress/verdict lines to out as it
// goes (out may be io.Discard for a programmatic caller like the HTTP
// control plane).
func Run(cfg config.Config, opts Options, out io.Writer, store *vstore.Store) (*Report, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	opts = opts.resolved()

	h, err := hut.Lookup(cfg.HUTName)
	if err != nil {
		return nil, err
	}

	vc := vcode.New()
	rep := &Report{HUTName: h.Name(), Bits: h.Bits()}

	rep.VerificationValue = hut.VerificationValue(h)
	vc.Result(uint32Bytes(rep.VerificationValue))

	if store != nil {
		verdict, err := store.Check(h.Name(), rep.VerificationValue)
		if err != nil {
			return nil, fmt.Errorf("verification store check: %w", err)
		}
		rep.VerificationVerdict = verdict
		if verdict == vstore.Unknown {
			if err := store.Put(h.Name(), rep.VerificationValue); err != nil {
				return nil, fmt.Errorf("verification store put: %w", err)
			}
		}
	}

	flags := flagsFromConfig(cfg)
	if opts.Verbose {
		flags |= report.FlagVerbose
	}
	if opts.Progress {
		flags |= report.FlagProgress
	}
	ctx := analysis.NewContext(cfg.NCPU, out, flags)

	aborted := cfg.ExitOnFailure && rep.VerificationVerdict == vstore.Mismatch

	if !aborted && (cfg.RunCollisions || cfg.RunDistribution) {
		hashes := buildHashList(h, opts.KeyLen, cfg.Seed, opts.KeyCount, vc)
		rep.Collisions = ctx.TestHashList(hashes, analysis.CollisionConfig{
			TestCollisions:    cfg.RunCollisions,
			TestMaxCollisions: cfg.RunCollisions,
			TestDistribution:  cfg.RunDistribution,
			TestHighBits:      cfg.RunCollisions,
			TestLowBits:       cfg.RunCollisions,
			DeltaK:            1,
		})
		aborted = cfg.ExitOnFailure && !collisionsPass(rep.Collisions, cfg)
	}

	if !aborted && (cfg.RunAvalanche || cfg.RunBIC) {
		rep.Avalanche = ctx.Avalanche(h, opts.KeyLen, cfg.Seed, opts.AvalancheReps)
		rep.HasAvalanche = true
	}

	rep.Pass = overallPass(rep, cfg)
	vc.Result([]byte(fmt.Sprintf("%v", rep.Pass)))
	rep.VCode = vc.Finalize()

	return rep, nil
}

func uint32Bytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// buildHashList hashes a sequential key set and feeds every key and
// digest into the VCode Input/Output streams as it goes.
func buildHashList(h hut.Hash, keyLen int, seed uint64, n int, vc *vcode.Channel) []blob.Blobber {
	keys := keyset.Sequential(n, keyLen)
	hashes := make([]blob.Blobber, n)
	out := make([]byte, h.Bits()/8)
	effSeed := h.SeedInit(seed, keyLen)

	for i, key := range keys {
		h.HashInto(key, effSeed, out)
		vc.Input(key)
		vc.Output(out)
		hashes[i] = blob.FromBytesForWidth(h.Bits(), out)
	}
	return hashes
}

func flagsFromConfig(cfg config.Config) report.Flags {
	var f report.Flags
	if cfg.ExitOnFailure {
		f |= report.FlagQuiet
	}
	return f
}

// collisionsPass ANDs together every verdict a TestHashList run
// produced, including its delta-list recursion, restricted to the
// families cfg actually asked for.
func collisionsPass(res analysis.HashListResult, cfg config.Config) bool {
	pass := true
	if cfg.RunCollisions {
		pass = pass && res.FullCollisions.Pass
		for _, r := range res.ExplicitWidths {
			pass = pass && r.Pass
		}
		if res.HasSweptHigh {
			pass = pass && res.SweptHigh.Pass
		}
		if res.HasSweptLow {
			pass = pass && res.SweptLow.Pass
		}
	}
	if cfg.RunDistribution && res.HasDistribution {
		pass = pass && res.Distribution.Pass
	}
	if res.Delta1 != nil {
		pass = pass && collisionsPass(*res.Delta1, cfg)
	}
	if res.DeltaK != nil {
		pass = pass && collisionsPass(*res.DeltaK, cfg)
	}
	return pass
}

// overallPass ANDs together every verdict a run produced. Only families
// cfg actually asked for contribute a verdict.
func overallPass(rep *Report, cfg config.Config) bool {
	pass := collisionsPass(rep.Collisions, cfg)
	if rep.HasAvalanche {
		if cfg.RunAvalanche {
			pass = pass && rep.Avalanche.Bias.Pass
		}
		if cfg.RunBIC {
			pass = pass && rep.Avalanche.BIC.Pass
		}
	}
	if rep.VerificationVerdict == vstore.Mismatch {
		pass = false
	}
	return pass
}

// ErrNoSuchHUT re-exports harnesserr's unknown-HUT sentinel so callers
// can match a Run error against it with errors.Is without importing
// harnesserr directly.
var ErrNoSuchHUT = harnesserr.ErrUnknownHUT
