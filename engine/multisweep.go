package engine

import (
	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
	"github.com/faultsim/faultsim/pattern"
)

// MultiFaultSweep implements §4.4's single-pattern multi-fault sweep as a
// selectable Backend: for every pattern it evaluates every (net, stuck
// value) fault in batches of up to maxCandidatesPerSweep via Sweep.Run,
// packing many faults into one word-parallel pass. This is the complement of
// WordParallel, which instead packs many patterns into one pass per fault.
type MultiFaultSweep struct {
	opts   Options
	sweep  *Sweep
	golden *ScalarGolden
	table  *answer.Table
}

// NewMultiFaultSweep builds a MultiFaultSweep backend over opts.
func NewMultiFaultSweep(opts Options) *MultiFaultSweep {
	return &MultiFaultSweep{
		opts:   opts,
		sweep:  NewSweep(opts.Circuit),
		golden: NewScalarGolden(opts.Circuit),
		table:  answer.NewTable(opts.PatternCount(), opts.NetCount()),
	}
}

func (m *MultiFaultSweep) Answers() *answer.Table { return m.table }
func (m *MultiFaultSweep) PatternCount() int      { return m.opts.PatternCount() }
func (m *MultiFaultSweep) NetNames() []string     { return m.opts.Circuit.NetNames() }

// Start runs the per-pattern multi-fault sweep for every pattern row.
func (m *MultiFaultSweep) Start() error {
	lc := m.opts.Circuit
	candidates := make([]FaultCandidate, 0, 2*lc.NetCount())
	for net := 0; net < lc.NetCount(); net++ {
		nid := circuit.NetId(net)
		candidates = append(candidates,
			FaultCandidate{Net: nid, Stuck0: true},
			FaultCandidate{Net: nid, Stuck0: false},
		)
	}

	for p, row := range m.opts.Rows {
		if err := m.checkProvidedOutputs(row); err != nil {
			return err
		}
		for base := 0; base < len(candidates); base += maxCandidatesPerSweep {
			end := base + maxCandidatesPerSweep
			if end > len(candidates) {
				end = len(candidates)
			}
			chunk := candidates[base:end]
			results, err := m.sweep.Run(row.Inputs, chunk)
			if err != nil {
				return err
			}
			for i, cand := range chunk {
				m.table.Set(p, int(cand.Net), cand.Stuck0, results[i])
			}
		}
	}
	return nil
}

// checkProvidedOutputs, when row supplies ProvidedOutputs, evaluates the
// fault-free reference and cross-checks it (invariant 2), matching the same
// check every other backend applies before trusting a pattern row. Rows
// without ProvidedOutputs are not simulated here.
func (m *MultiFaultSweep) checkProvidedOutputs(row pattern.Row) error {
	if row.ProvidedOutputs == nil {
		return nil
	}
	values, err := m.golden.Simulate(row.Inputs, nil)
	if err != nil {
		return err
	}
	for _, po := range m.opts.Circuit.PrimaryOutputs() {
		provided, ok := row.ProvidedOutputs[po]
		if !ok {
			return errors.Wrapf(faulterr.ErrMissingExpectedOutput, "missing expected output %q", m.opts.Circuit.NetName(po))
		}
		if provided != values[po] {
			return errors.Wrapf(faulterr.ErrExpectedOutputMismatch,
				"provided output %q = %d, golden computed %d", m.opts.Circuit.NetName(po), provided, values[po])
		}
	}
	return nil
}
