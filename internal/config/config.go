// Package config resolves the harness's run-time configuration: seed
// policy, worker count, endianness, and which test families to run.
package config

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// Endian records the byte order chosen with --endian. No part of the
// harness reads it: verification values are always read little-endian
// from the final digest.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// Config is the full set of knobs a harness run is parameterized by.
type Config struct {
	HUTName string

	// Seed is the seed every HUT call in a run is made with.
	Seed uint64
	// RandSeed records the --randseed flag. The runner does not read it:
	// runs always use Seed, and no seed is drawn at random.
	RandSeed bool

	Endian Endian

	// NCPU is the worker count for parallel analyzers; 0 means
	// "detect logical core count at Resolve time".
	NCPU int

	RunCollisions   bool
	RunDistribution bool
	RunAvalanche    bool
	RunBIC          bool

	// ExitOnFailure aborts the remaining test suite on first hard
	// failure instead of continuing to accumulate verdicts.
	ExitOnFailure bool

	VerificationDBPath string
}

// Default returns a Config with every test family enabled and a fixed,
// reproducible seed -- the harness's out-of-the-box behavior.
func Default() Config {
	return Config{
		Seed:               0,
		Endian:             LittleEndian,
		RunCollisions:      true,
		RunDistribution:    true,
		RunAvalanche:       true,
		RunBIC:             true,
		VerificationDBPath: "verification.db",
	}
}

// Resolve fills in machine-dependent defaults (worker count) and
// validates the configuration, returning an error for anything that
// would make the rest of the harness misbehave silently.
func (c Config) Resolve() (Config, error) {
	if c.HUTName == "" {
		return c, fmt.Errorf("config: HUTName must be set")
	}

	if c.NCPU <= 0 {
		n, err := logicalCoreCount()
		if err != nil || n <= 0 {
			n = runtime.NumCPU()
		}
		c.NCPU = n
	}

	if !c.RunCollisions && !c.RunDistribution && !c.RunAvalanche && !c.RunBIC {
		return c, fmt.Errorf("config: at least one test family must be enabled")
	}

	return c, nil
}

func logicalCoreCount() (int, error) {
	counts, err := cpu.Counts(true)
	if err != nil {
		return 0, err
	}
	return counts, nil
}
