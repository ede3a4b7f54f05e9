package engine

import (
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/gate"
	"github.com/faultsim/faultsim/levelize"
)

// Golden is the fault-free reference simulator: no forcing, gates evaluated
// in levelized (topological) order. It satisfies batch.GoldenSimulator so
// batch.Assemble can compute expected primary-output words for windows whose
// pattern rows omit ProvidedOutputs, and it is the word-parallel building
// block every forcing-mask backend below evaluates on top of.
type Golden struct {
	lc *levelize.Circuit
}

// NewGolden wraps a levelized circuit for fault-free and forced word
// evaluation.
func NewGolden(lc *levelize.Circuit) *Golden { return &Golden{lc: lc} }

// Simulate evaluates the circuit with no forcing and returns the primary
// output words, satisfying batch.GoldenSimulator.
func (g *Golden) Simulate(inputs map[circuit.NetId]uint64, mask uint64) (map[circuit.NetId]uint64, error) {
	values := evalCircuitWords(g.lc, inputs, mask, nil, nil)
	out := make(map[circuit.NetId]uint64, len(g.lc.PrimaryOutputs()))
	for _, po := range g.lc.PrimaryOutputs() {
		out[po] = values[po]
	}
	return out, nil
}

// evalCircuitWords is the shared word-parallel gate sweep every bit-parallel
// backend builds on: initialize PrimaryInput words from inputs, apply
// per-net forcing masks (forceZero/forceOne, nil meaning "no forcing
// anywhere"), then evaluate every gate exactly once in level order,
// reapplying forcing to each gate's output the instant it is computed. This
// is the binding resolution of the forcing-mask ordering Open Question:
// gates visited in topological (level) order, forcing applied as the last
// step of each net's own computation, before any downstream gate in a later
// level can read a stale, unforced value.
//
// Grounded on the teacher's Circuit.Update/worker two-buffer sweep
// (hwsim.go): a flat list of gate closures run once per step. This keeps
// that "run every component once, in a fixed order" shape but replaces the
// bool ping-pong buffers with a single []uint64 written once per net (since
// levelization already guarantees each net is computed after everything it
// depends on, a second buffer is unnecessary).
func evalCircuitWords(lc *levelize.Circuit, inputs map[circuit.NetId]uint64, mask uint64, forceZero, forceOne map[circuit.NetId]uint64) []uint64 {
	n := lc.NetCount()
	values := make([]uint64, n)
	fz := func(id circuit.NetId) uint64 {
		if forceZero == nil {
			return 0
		}
		return forceZero[id]
	}
	fo := func(id circuit.NetId) uint64 {
		if forceOne == nil {
			return 0
		}
		return forceOne[id]
	}

	for _, pi := range lc.PrimaryInputs() {
		v := inputs[pi] & mask
		v = (v &^ fz(pi)) | fo(pi)
		values[pi] = v & mask
	}

	gates := lc.Gates()
	ins := make([]uint64, 0, 8)
	for level := 0; level <= lc.MaxLevel; level++ {
		for _, gi := range lc.GatesByLevel[level] {
			g := gates[gi]
			ins = ins[:0]
			for _, in := range g.Inputs {
				ins = append(ins, values[in])
			}
			v := gate.EvalWord(g.Type, ins, mask)
			v = (v &^ fz(g.Output)) | fo(g.Output)
			values[g.Output] = v & mask
		}
	}
	return values
}

// ScalarGolden is the reference scalar (int 0/1) simulator MultiFaultSweep
// uses to cross-check ProvidedOutputs, grounded on
// the fixpoint scalar evaluation of the original simulator: no packing, one
// net at a time, gates in level order.
type ScalarGolden struct {
	lc *levelize.Circuit
}

// NewScalarGolden wraps a levelized circuit for scalar evaluation.
func NewScalarGolden(lc *levelize.Circuit) *ScalarGolden { return &ScalarGolden{lc: lc} }

// Simulate evaluates the circuit for one pattern's PrimaryInput assignment,
// with optional per-net forcing (forced net is overwritten unconditionally
// before the sweep, whether or not it is a PrimaryInput, per Open Question
// 3), and returns every net's value.
func (s *ScalarGolden) Simulate(pi map[circuit.NetId]int, forced map[circuit.NetId]int) ([]int, error) {
	n := s.lc.NetCount()
	values := make([]int, n)
	for _, id := range s.lc.PrimaryInputs() {
		values[id] = pi[id]
	}
	for id, v := range forced {
		values[id] = v
	}

	gates := s.lc.Gates()
	ins := make([]int, 0, 8)
	for level := 0; level <= s.lc.MaxLevel; level++ {
		for _, gi := range s.lc.GatesByLevel[level] {
			g := gates[gi]
			if _, isForced := forced[g.Output]; isForced {
				continue
			}
			ins = ins[:0]
			for _, in := range g.Inputs {
				ins = append(ins, values[in])
			}
			v, err := gate.Eval(g.Type, ins)
			if err != nil {
				return nil, err
			}
			values[g.Output] = v
		}
	}
	return values, nil
}
