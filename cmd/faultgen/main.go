// Command faultgen generates a random pattern file for a circuit, runs the
// same fault-sweep pipeline as faultsim against it, and writes the
// resulting *.in/*.ans/*.ans.sha triple under testcases/.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/engine"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/netlist"
	"github.com/faultsim/faultsim/pattern"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "faultgen <circuit> [pattern-count] [seed]",
		Short:         "Generate random patterns for a circuit and sweep them",
		Args:          cobra.RangeArgs(1, 3),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, seed := 100, uint64(42)
			var err error
			if len(args) >= 2 {
				if count, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("pattern-count: %w", err)
				}
			}
			if len(args) >= 3 {
				var s int64
				if s, err = strconv.ParseInt(args[2], 10, 64); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				seed = uint64(s)
			}
			return runFaultgen(args[0], count, seed)
		},
	}
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

func runFaultgen(circuitPath string, count int, seed uint64) error {
	logger := slog.Default()

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

	rows := pattern.Generate(c, count, seed)
	logger.Info("patterns generated", "count", len(rows), "seed", seed)

	base := trimExt(filepath.Base(circuitPath))
	if err := os.MkdirAll("testcases", 0o755); err != nil {
		return fmt.Errorf("testcases dir: %w", err)
	}
	inPath := filepath.Join("testcases", base+".in")
	if err := writePatternFile(inPath, rows, c); err != nil {
		return err
	}
	logger.Info("pattern file written", "path", inPath)

	backend, err := engine.Run(engine.Options{Circuit: lc, Rows: rows, Window: 64}, engine.KindAuto)
	if err != nil {
		return err
	}
	logger.Info("engine selected", "engine", "auto")

	ansPath := filepath.Join("testcases", base+".ans")
	if err := answer.WriteFile(ansPath, backend.Answers(), backend.NetNames()); err != nil {
		return err
	}
	if err := answer.WriteDigestFile(ansPath, ansPath+".sha"); err != nil {
		return err
	}
	logger.Info("pattern window complete", "output", ansPath, "patterns", backend.PatternCount())
	return nil
}

func writePatternFile(path string, rows []pattern.Row, c *circuit.Circuit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return pattern.Save(f, rows, c)
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
