package engine

import (
	"runtime"
	"sync"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/batch"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/gate"
	"github.com/faultsim/faultsim/levelize"
)

// ThreadParallel implements §4.6: after fault injection, re-simulate level
// by level starting at the fault net's own level, skipping the gate that
// drives the fault net (it stays pinned at the forced word), running every
// fault net's re-simulation concurrently once the shared golden values below
// the fault's level are known.
//
// Grounded on the teacher's worker pool in hwsim.go (NewCircuit spawning
// goroutines over a channel-gated worker loop, joined via sync.WaitGroup at
// Step()): ThreadParallel reuses that "partition a slice of work across
// goroutines, wg.Add/wg.Wait at the boundary" pattern, but re-partitions it
// per pattern window over fault nets instead of once globally, since the
// parallel unit here is "the fault nets of this window" rather than "the
// whole circuit's gate list".
type ThreadParallel struct {
	opts   Options
	golden *Golden
	table  *answer.Table
}

// NewThreadParallel builds a ThreadParallel backend over opts.
func NewThreadParallel(opts Options) *ThreadParallel {
	return &ThreadParallel{
		opts:   opts,
		golden: NewGolden(opts.Circuit),
		table:  answer.NewTable(opts.PatternCount(), opts.NetCount()),
	}
}

func (t *ThreadParallel) Answers() *answer.Table { return t.table }
func (t *ThreadParallel) PatternCount() int      { return t.opts.PatternCount() }
func (t *ThreadParallel) NetNames() []string     { return t.opts.Circuit.NetNames() }

func (t *ThreadParallel) workers() int {
	if t.opts.Workers > 0 {
		return t.opts.Workers
	}
	if n := runtime.GOMAXPROCS(-1); n > 0 {
		return n
	}
	return 1
}

// Start runs the levelized fault sweep over every window.
func (t *ThreadParallel) Start() error {
	lc := t.opts.Circuit
	rows := t.opts.Rows
	width := t.opts.window()

	for base := 0; base < len(rows); base += width {
		win, err := batch.Assemble(lc.Circuit, rows, base, width, t.golden)
		if err != nil {
			return err
		}
		goldenValues := evalCircuitWords(lc, win.Values, win.Mask, nil, nil)
		t.sweepWindow(lc, win, goldenValues, base)
	}
	return nil
}

// sweepWindow re-simulates every net's two stuck faults concurrently, using
// a bounded worker pool. Each goroutine owns one net's two stuck-value
// results exclusively, so it may write both without racing any other
// goroutine (per Table's concurrent-use contract).
func (t *ThreadParallel) sweepWindow(lc *levelize.Circuit, win *batch.Window, goldenValues []uint64, base int) {
	sem := make(chan struct{}, t.workers())
	var wg sync.WaitGroup
	for net := 0; net < lc.NetCount(); net++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(net int) {
			defer wg.Done()
			defer func() { <-sem }()
			nid := circuit.NetId(net)
			for _, stuck0 := range [2]bool{true, false} {
				equalBits := simulateFromLevel(lc, win, goldenValues, nid, stuck0)
				for i := 0; i < win.ChunkSize; i++ {
					t.table.Set(base+i, net, stuck0, equalBits&(uint64(1)<<uint(i)) != 0)
				}
			}
		}(net)
	}
	wg.Wait()
}

// simulateFromLevel re-evaluates only the levels at and above the fault
// net's own level, reusing goldenValues (unaffected, since nothing at or
// below the fault's level can depend on it) for everything beneath it.
func simulateFromLevel(lc *levelize.Circuit, win *batch.Window, goldenValues []uint64, fault circuit.NetId, stuck0 bool) uint64 {
	values := make([]uint64, len(goldenValues))
	copy(values, goldenValues)

	faultLevel := lc.NetLevels[fault]
	forced := win.Mask
	if stuck0 {
		values[fault] = 0
	} else {
		values[fault] = forced
	}

	gates := lc.Gates()
	for level := faultLevel; level <= lc.MaxLevel; level++ {
		for _, gi := range lc.GatesByLevel[level] {
			g := gates[gi]
			if g.Output == fault {
				continue // stays pinned at the forced word
			}
			ins := make([]uint64, len(g.Inputs))
			for i, in := range g.Inputs {
				ins[i] = values[in]
			}
			values[g.Output] = gate.EvalWord(g.Type, ins, win.Mask)
		}
	}

	equalAll := win.Mask
	for _, po := range lc.PrimaryOutputs() {
		same := (^(values[po] ^ win.Expected[po])) & win.Mask
		equalAll &= same
	}
	return equalAll
}
