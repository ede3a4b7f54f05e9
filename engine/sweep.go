package engine

import (
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/levelize"
)

// FaultCandidate names one (net, stuck value) fault to inject.
type FaultCandidate struct {
	Net    circuit.NetId
	Stuck0 bool
}

// Sweep implements §4.4: for one pattern, evaluate up to W-1 fault
// candidates in a single word-parallel pass plus the golden reference in
// lane 0.
type Sweep struct {
	lc *levelize.Circuit
}

// NewSweep wraps a levelized circuit for single-pattern multi-fault sweeps.
func NewSweep(lc *levelize.Circuit) *Sweep { return &Sweep{lc: lc} }

// maxCandidatesPerSweep is W-1: lane 0 is reserved for the golden reference.
const maxCandidatesPerSweep = 63

// Run evaluates the golden reference for piValues plus every candidate,
// returning, for each candidate, whether every primary output under that
// fault equals the golden reference. len(candidates) must not exceed
// maxCandidatesPerSweep; callers batch larger fault sets into multiple
// calls.
func (s *Sweep) Run(piValues map[circuit.NetId]int, candidates []FaultCandidate) ([]bool, error) {
	if len(candidates) > maxCandidatesPerSweep {
		candidates = candidates[:maxCandidatesPerSweep]
	}
	chunkSize := len(candidates) + 1
	mask := uint64(1)<<uint(chunkSize) - 1
	if chunkSize == 64 {
		mask = ^uint64(0)
	}

	inputs := make(map[circuit.NetId]uint64, len(s.lc.PrimaryInputs()))
	for _, pi := range s.lc.PrimaryInputs() {
		if piValues[pi] != 0 {
			inputs[pi] = mask
		}
	}

	forceZero := make(map[circuit.NetId]uint64)
	forceOne := make(map[circuit.NetId]uint64)
	for i, cand := range candidates {
		lane := uint64(1) << uint(i+1)
		if cand.Stuck0 {
			forceZero[cand.Net] |= lane
		} else {
			forceOne[cand.Net] |= lane
		}
	}

	values := evalCircuitWords(s.lc, inputs, mask, forceZero, forceOne)

	equalAll := mask
	for _, po := range s.lc.PrimaryOutputs() {
		v := values[po]
		lane0 := -(v & 1) // all-ones if bit 0 set, else 0
		same := (^(v ^ lane0)) & mask
		equalAll &= same
	}

	results := make([]bool, len(candidates))
	for i := range candidates {
		results[i] = equalAll&(uint64(1)<<uint(i+1)) != 0
	}
	return results, nil
}
