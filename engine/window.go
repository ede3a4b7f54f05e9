package engine

import (
	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/batch"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/levelize"
)

// WordParallel implements §4.5's 64-way (or 32-way) baseline: for each
// window of up to W patterns, evaluate one fixed (fault net, stuck value) in
// a single word-parallel sweep, then repeat for every net and every stuck
// value.
//
// Grounded on the teacher's Circuit.Update/chip.mount ordering: gates run in
// build order, which after levelization is topological.
type WordParallel struct {
	opts   Options
	golden *Golden
	table  *answer.Table
}

// NewWordParallel builds a WordParallel backend over opts.
func NewWordParallel(opts Options) *WordParallel {
	return &WordParallel{
		opts:   opts,
		golden: NewGolden(opts.Circuit),
		table:  answer.NewTable(opts.PatternCount(), opts.NetCount()),
	}
}

func (w *WordParallel) Answers() *answer.Table { return w.table }
func (w *WordParallel) PatternCount() int      { return w.opts.PatternCount() }
func (w *WordParallel) NetNames() []string     { return w.opts.Circuit.NetNames() }

// Start runs the baseline sweep over every window, net, and stuck value.
func (w *WordParallel) Start() error {
	lc := w.opts.Circuit
	rows := w.opts.Rows
	width := w.opts.window()

	for base := 0; base < len(rows); base += width {
		win, err := batch.Assemble(lc.Circuit, rows, base, width, w.golden)
		if err != nil {
			return err
		}
		if err := simulateWindowAllFaults(lc, win, w.table, base); err != nil {
			return err
		}
	}
	return nil
}

// simulateWindowAllFaults sweeps every (net, stuck value) pair for one
// window and scatters lane results into table starting at row base.
func simulateWindowAllFaults(lc *levelize.Circuit, win *batch.Window, table *answer.Table, base int) error {
	for net := 0; net < lc.NetCount(); net++ {
		nid := circuit.NetId(net)
		for _, stuck0 := range [2]bool{true, false} {
			equalBits := simulateWindowFault(lc, win, nid, stuck0)
			for i := 0; i < win.ChunkSize; i++ {
				table.Set(base+i, net, stuck0, equalBits&(uint64(1)<<uint(i)) != 0)
			}
		}
	}
	return nil
}

func simulateWindowFault(lc *levelize.Circuit, win *batch.Window, net circuit.NetId, stuck0 bool) uint64 {
	forceZero := map[circuit.NetId]uint64{}
	forceOne := map[circuit.NetId]uint64{}
	if stuck0 {
		forceZero[net] = win.Mask
	} else {
		forceOne[net] = win.Mask
	}

	values := evalCircuitWords(lc, win.Values, win.Mask, forceZero, forceOne)

	equalAll := win.Mask
	for _, po := range lc.PrimaryOutputs() {
		same := (^(values[po] ^ win.Expected[po])) & win.Mask
		equalAll &= same
	}
	return equalAll
}
