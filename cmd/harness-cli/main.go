// Command harness-cli is the statistical hash-QA harness's command-line
// driver: it resolves CLI flags into a config.Config, runs the test
// pipelines against one registered HUT, and prints a pass/fail summary.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hashqa/internal/config"
	"hashqa/internal/hut"
	"hashqa/internal/runner"
	"hashqa/internal/vstore"
)

const version = "hashqa-harness 0.1.0"

var (
	testList       = flag.String("test", "All", "comma-separated test names to run (unique-prefix match)")
	noTestList     = flag.String("notest", "", "comma-separated test names to exclude")
	extra          = flag.Bool("extra", false, "run extra (slower) test variants")
	verbose        = flag.Bool("verbose", false, "print per-key diagnostics for failing tests")
	forceSummary   = flag.Bool("force-summary", false, "print the summary line even when every test passes")
	ncpu           = flag.Int("ncpu", 0, "worker count, 1-32 (0 = auto-detect)")
	seedFlag       = flag.String("seed", "0x0", "hash input seed, hex")
	randSeed       = flag.Bool("randseed", false, "recorded in the run config; the runner does not read it and always uses --seed")
	endianFlag     = flag.String("endian", "default", "native|nonnative|default|nondefault|big|little")
	exitOnFail     = flag.Bool("exit-on-failure", false, "abort the suite after the first hard failure")
	exitCodeOnFail = flag.Bool("exit-code-on-failure", false, "exit 99 if any test failed")
	vcodeFlag      = flag.Bool("vcode", false, "print the run's VCode")
	vcodeAll       = flag.Bool("vcode-all", false, "same as --vcode: print the run's single VCode (no per-test codes)")
	dbPath         = flag.String("vdb", "verification.db", "path to the legacy-verification bbolt store")
	progress       = flag.Bool("progress", false, "show live progress bars over long-running sweeps")

	listFlag      = flag.Bool("list", false, "list registered HUT names and exit")
	listNamesFlag = flag.Bool("listnames", false, "alias for --list")
	testsFlag     = flag.Bool("tests", false, "list known test family names and exit")
	versionFlag   = flag.Bool("version", false, "print version and exit")
)

// testFamilies is the reserved test-name vocabulary the CLI accepts,
// matched case-insensitively by unique prefix.
var testFamilies = []string{
	"All", "VerifyAll", "SanityAll", "SpeedAll",
	"Collisions", "Distribution", "Avalanche", "BIC", "BadSeeds",
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}
	if *listFlag || *listNamesFlag {
		for _, n := range hut.Names() {
			fmt.Println(n)
		}
		return
	}
	if *testsFlag {
		for _, n := range testFamilies {
			fmt.Println(n)
		}
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: harness-cli [flags] <hashname>")
		os.Exit(1)
	}

	cfg, opts, err := buildConfig(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	store, err := vstore.Open(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	defer store.Close()

	rep, err := runner.Run(cfg, opts, os.Stdout, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "run error:", err)
		os.Exit(1)
	}

	if *vcodeFlag || *vcodeAll {
		fmt.Printf("VCode: 0x%08x\n", rep.VCode)
	}

	if *forceSummary || !rep.Pass {
		status := "PASS"
		if !rep.Pass {
			status = "FAIL"
		}
		fmt.Printf("%s: %s (verification 0x%08x, verdict %v)\n", rep.HUTName, status, rep.VerificationValue, rep.VerificationVerdict)
	}

	if *exitCodeOnFail && !rep.Pass {
		os.Exit(99)
	}
}

func buildConfig(hashName string) (config.Config, runner.Options, error) {
	cfg := config.Default()
	cfg.HUTName = hashName
	cfg.NCPU = *ncpu
	cfg.ExitOnFailure = *exitOnFail
	cfg.VerificationDBPath = *dbPath

	seed, err := strconv.ParseUint(strings.TrimPrefix(*seedFlag, "0x"), 16, 64)
	if err != nil {
		return cfg, runner.Options{}, fmt.Errorf("invalid --seed: %w", err)
	}
	cfg.Seed = seed
	cfg.RandSeed = *randSeed

	endian, err := parseEndian(*endianFlag)
	if err != nil {
		return cfg, runner.Options{}, err
	}
	cfg.Endian = endian

	selected := selectTests(*testList, *noTestList)
	cfg.RunCollisions = selected["collisions"]
	cfg.RunDistribution = selected["distribution"]
	cfg.RunAvalanche = selected["avalanche"]
	cfg.RunBIC = selected["bic"]

	opts := runner.Options{Verbose: *verbose, Progress: *progress}
	if *extra {
		opts.KeyCount = runner.DefaultKeyCount * 4
		opts.AvalancheReps = runner.DefaultAvalancheReps * 4
	}

	return cfg, opts, nil
}

func parseEndian(s string) (config.Endian, error) {
	switch strings.ToLower(s) {
	case "default", "native", "little":
		return config.LittleEndian, nil
	case "nondefault", "nonnative", "big":
		return config.BigEndian, nil
	default:
		return config.LittleEndian, fmt.Errorf("unknown --endian value %q", s)
	}
}

// selectTests resolves --test/--notest into the boolean test-family
// selection config.Config understands, matching names by case
// insensitive unique prefix.
func selectTests(include, exclude string) map[string]bool {
	all := map[string]bool{"collisions": true, "distribution": true, "avalanche": true, "bic": true}

	matches := func(name, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
	}

	selected := map[string]bool{}
	for _, tok := range strings.Split(include, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.EqualFold(tok, "All") {
			for k := range all {
				selected[k] = true
			}
			continue
		}
		for k := range all {
			if matches(k, tok) {
				selected[k] = true
			}
		}
	}
	if len(selected) == 0 {
		selected = map[string]bool{"collisions": true, "distribution": true, "avalanche": true, "bic": true}
	}

	for _, tok := range strings.Split(exclude, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		for k := range all {
			if matches(k, tok) {
				delete(selected, k)
			}
		}
	}

	return selected
}
