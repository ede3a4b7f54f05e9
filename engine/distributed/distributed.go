package distributed

import (
	"runtime"
	"sync"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/batch"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/gate"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/pattern"
)

// Options configures a distributed run. Ranks <= 0 means "one rank per
// GOMAXPROCS", mirroring engine.Options.Workers' "0 means use all
// available" convention.
type Options struct {
	Circuit *levelize.Circuit
	Rows    []pattern.Row
	Window  int
	Ranks   int
}

func (o Options) window() int {
	if o.Window == 32 {
		return 32
	}
	return 64
}

// Run partitions the circuit's levels across ranks (ceil((max_level+1)/R)
// levels per rank, the last rank absorbing the remainder) and simulates
// every pattern window and every (net, stuck value) fault with one
// goroutine "rank" per partition, each owning and broadcasting the levels
// it computes.
func Run(opts Options) (*answer.Table, error) {
	ranks := opts.Ranks
	if ranks <= 0 {
		ranks = runtime.GOMAXPROCS(-1)
	}
	if ranks < 1 {
		ranks = 1
	}
	lc := opts.Circuit
	levelCount := lc.MaxLevel + 1
	levelsPerRank := (levelCount + ranks - 1) / ranks
	if levelsPerRank < 1 {
		levelsPerRank = 1
	}
	ownerOfLevel := func(level int) int {
		r := level / levelsPerRank
		if r >= ranks {
			r = ranks - 1
		}
		return r
	}

	table := answer.NewTable(len(opts.Rows), lc.NetCount())
	group := NewLocalGroup(ranks)
	errs := make([]error, ranks)

	var wg sync.WaitGroup
	for r := 0; r < ranks; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			errs[r] = runRank(group[r], opts, table, ownerOfLevel)
		}(r)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

// distGolden adapts simulateDistributed into batch.GoldenSimulator so every
// rank can call batch.Assemble identically (SPMD: all ranks execute the
// same control flow, differing only in which levels they compute locally
// versus receive by broadcast).
type distGolden struct {
	l            *Local
	lc           *levelize.Circuit
	ownerOfLevel func(int) int
}

func (g *distGolden) Simulate(inputs map[circuit.NetId]uint64, mask uint64) (map[circuit.NetId]uint64, error) {
	values, err := simulateDistributed(g.l, g.lc, inputs, mask, nil, nil, g.ownerOfLevel)
	if err != nil {
		return nil, err
	}
	out := make(map[circuit.NetId]uint64, len(g.lc.PrimaryOutputs()))
	for _, po := range g.lc.PrimaryOutputs() {
		out[po] = values[po]
	}
	return out, nil
}

func runRank(l *Local, opts Options, table *answer.Table, ownerOfLevel func(int) int) error {
	lc := opts.Circuit
	width := opts.window()
	rows := opts.Rows
	golden := &distGolden{l: l, lc: lc, ownerOfLevel: ownerOfLevel}

	for base := 0; base < len(rows); base += width {
		win, err := batch.Assemble(lc.Circuit, rows, base, width, golden)
		if err != nil {
			return err
		}
		for net := 0; net < lc.NetCount(); net++ {
			nid := circuit.NetId(net)
			for _, stuck0 := range [2]bool{true, false} {
				forceZero := map[circuit.NetId]uint64{}
				forceOne := map[circuit.NetId]uint64{}
				if stuck0 {
					forceZero[nid] = win.Mask
				} else {
					forceOne[nid] = win.Mask
				}
				values, err := simulateDistributed(l, lc, win.Values, win.Mask, forceZero, forceOne, ownerOfLevel)
				if err != nil {
					return err
				}
				if l.Rank() == 0 {
					equalAll := win.Mask
					for _, po := range lc.PrimaryOutputs() {
						same := (^(values[po] ^ win.Expected[po])) & win.Mask
						equalAll &= same
					}
					for i := 0; i < win.ChunkSize; i++ {
						table.Set(base+i, net, stuck0, equalAll&(uint64(1)<<uint(i)) != 0)
					}
				}
			}
		}
	}
	return nil
}

// simulateDistributed evaluates one word-parallel sweep of lc, level by
// level, with the owner of each level computing its gates (and, at level 0,
// also broadcasting the PrimaryInput words every later level depends on)
// and every other rank receiving that level's results by broadcast.
func simulateDistributed(l *Local, lc *levelize.Circuit, inputs map[circuit.NetId]uint64, mask uint64, forceZero, forceOne map[circuit.NetId]uint64, ownerOfLevel func(int) int) ([]uint64, error) {
	values := make([]uint64, lc.NetCount())
	for _, pi := range lc.PrimaryInputs() {
		v := inputs[pi] & mask
		v = (v &^ forceZero[pi]) | forceOne[pi]
		values[pi] = v & mask
	}

	gates := lc.Gates()
	for level := 0; level <= lc.MaxLevel; level++ {
		owner := ownerOfLevel(level)
		if l.Rank() == owner {
			var netIDs []int
			var vals []uint64
			for _, gi := range lc.GatesByLevel[level] {
				g := gates[gi]
				ins := make([]uint64, len(g.Inputs))
				for i, in := range g.Inputs {
					ins[i] = values[in]
				}
				v := gate.EvalWord(g.Type, ins, mask)
				v = (v &^ forceZero[g.Output]) | forceOne[g.Output]
				v &= mask
				values[g.Output] = v
				netIDs = append(netIDs, int(g.Output))
				vals = append(vals, v)
			}
			if level == 0 {
				for _, pi := range lc.PrimaryInputs() {
					netIDs = append(netIDs, int(pi))
					vals = append(vals, values[pi])
				}
			}
			if _, _, err := l.Broadcast(owner, netIDs, vals); err != nil {
				return nil, err
			}
		} else {
			netIDs, vals, err := l.Broadcast(owner, nil, nil)
			if err != nil {
				return nil, err
			}
			for i, id := range netIDs {
				values[circuit.NetId(id)] = vals[i]
			}
		}
	}
	return values, nil
}
