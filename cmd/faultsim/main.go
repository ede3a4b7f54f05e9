// Command faultsim runs the stuck-at fault sweep of one circuit against one
// pattern file and writes its answer table.
//
// Grounded on the teacher's cmd/main.go (construct the whole circuit graph
// in one function, panic/return on the first error): faultsim keeps that
// "build the whole pipeline, bail on the first failure" shape but replaces
// the teacher's log.Print with a spf13/cobra command tree and log/slog,
// following AleutianFOSS's dependency graph (§2.1 of the expanded spec).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/engine"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/netlist"
	"github.com/faultsim/faultsim/pattern"
)

var (
	flagEngine  string
	flagWorkers int
	flagWindow  int
)

func engineKindFromFlag(name string) (engine.EngineKind, bool) {
	switch name {
	case "", "auto":
		return engine.KindAuto, true
	case "serial":
		return engine.KindSerialDFS, true
	case "word":
		return engine.KindWordParallel, true
	case "thread":
		return engine.KindThreadParallel, true
	case "multisweep":
		return engine.KindMultiFaultSweep, true
	case "distributed":
		return engine.KindAuto, true // handled specially, see runFaultsim
	}
	return engine.KindAuto, false
}

func workersFromEnv(flagVal int) int {
	if flagVal > 0 {
		return flagVal
	}
	if v := os.Getenv("OMP_NUM_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0 // 0 means "use all available", per engine.Options.Workers
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "faultsim <circuit> <output-path>",
		Short:         "Run a stuck-at-fault sweep over a gate-level netlist",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFaultsim(args[0], args[1])
		},
	}
	root.Flags().StringVar(&flagEngine, "engine", "auto", "backend: auto|serial|word|thread|multisweep|distributed")
	root.Flags().IntVar(&flagWorkers, "workers", 0, "worker/rank count (0 = use OMP_NUM_THREADS or all available)")
	root.Flags().IntVar(&flagWindow, "window", 64, "pattern/fault lane width: 32 or 64")
	return root
}

// resolveCircuitPath implements §6's "circuit argument may omit the .v
// suffix": path is tried as given first, then with .v appended.
func resolveCircuitPath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	withSuffix := path + ".v"
	if _, err := os.Stat(withSuffix); err == nil {
		return withSuffix, nil
	}
	return "", fmt.Errorf("circuit file not found: %s (also tried %s)", path, withSuffix)
}

func runFaultsim(circuitPath, outPath string) error {
	logger := slog.Default()

	base := strings.TrimSuffix(filepath.Base(circuitPath), filepath.Ext(circuitPath))
	inPath := filepath.Join("testcases", base+".in")

	resolvedPath, err := resolveCircuitPath(circuitPath)
	if err != nil {
		return err
	}
	c, err := netlist.ParseFile(resolvedPath)
	if err != nil {
		return err
	}
	logger.Info("netlist parsed", "circuit", resolvedPath, "nets", c.NetCount())

	lc, err := levelize.Levelize(c)
	if err != nil {
		return err
	}
	logger.Info("levelization done", "levels", lc.MaxLevel+1, "gates", len(lc.Gates()))

	rows, err := pattern.Load(inPath, c)
	if err != nil {
		return err
	}
	logger.Info("patterns loaded", "path", inPath, "count", len(rows))

	kind, ok := engineKindFromFlag(flagEngine)
	if !ok {
		return fmt.Errorf("unknown engine %q", flagEngine)
	}
	workers := workersFromEnv(flagWorkers)
	opts := engine.Options{Circuit: lc, Rows: rows, Window: flagWindow, Workers: workers}

	var backend engine.Backend
	if flagEngine == "distributed" {
		ranks := workers
		if ranks <= 0 {
			ranks = runtime.GOMAXPROCS(-1)
		}
		backend = engine.NewDistributed(opts, ranks)
		if err := backend.Start(); err != nil {
			return err
		}
	} else {
		backend, err = engine.Run(opts, kind)
		if err != nil {
			return err
		}
	}
	logger.Info("engine selected", "engine", flagEngine, "workers", workers)

	if err := answer.WriteFile(outPath, backend.Answers(), backend.NetNames()); err != nil {
		return err
	}
	if err := answer.WriteDigestFile(outPath, outPath+".sha"); err != nil {
		return err
	}
	logger.Info("pattern window complete", "output", outPath, "patterns", backend.PatternCount())
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
