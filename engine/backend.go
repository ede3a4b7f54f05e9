// Package engine implements the bit-parallel and DFS fault-simulation
// backends and the orchestrator that selects among them.
package engine

import (
	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/pattern"
)

// Backend is the capability set every execution strategy (serial DFS,
// word-parallel, thread-parallel levelized, distributed, GPU) satisfies.
// The orchestrator selects one implementation at construction time; callers
// never type-switch on the concrete type.
//
// Grounded on the teacher's PartSpec/NewPartFn indirection: a single
// function-shaped seam every built-in and custom part satisfies without a
// type switch, generalized here from individual gates to whole engines.
type Backend interface {
	// Start runs the full simulation, filling every cell of Answers().
	// Start returns control to the caller without producing partial
	// results on any fatal error (no mid-level cancellation).
	Start() error
	// Answers returns the table Start fills. Reading before Start returns
	// successfully yields an incompletely filled table.
	Answers() *answer.Table
	// PatternCount returns the number of pattern rows being simulated.
	PatternCount() int
	// NetNames returns net names in finalized NetId order, the same order
	// the answer table's columns are addressed by.
	NetNames() []string
}

// Options configures every backend constructor. Thread counts and window
// width are passed in explicitly and never read from a package global (§9
// "no hidden global state"); the CLI is responsible for translating
// OMP_NUM_THREADS into Workers.
type Options struct {
	Circuit *levelize.Circuit
	Rows    []pattern.Row
	// Window is W, the pattern/fault lane count per sweep: 32 or 64.
	Window int
	// Workers bounds shared-memory parallelism in ThreadParallel and the
	// per-rank goroutine count in Distributed. 0 means "use all available".
	Workers int
}

// NetCount returns the number of nets in the circuit being simulated.
func (o Options) NetCount() int { return o.Circuit.NetCount() }

// PatternCount returns the number of pattern rows to simulate.
func (o Options) PatternCount() int { return len(o.Rows) }

func (o Options) window() int {
	if o.Window == 32 {
		return 32
	}
	return 64
}
