//go:build faultsim_gpu

// Package gpu sketches a GPU-resident fault sweep behind the
// faultsim_gpu build tag: the device-side data layout §4.8 specifies,
// evaluated here by a pure-Go reference kernel since no CUDA/OpenCL binding
// appears anywhere in the retrieval pack. A real kernel would replace
// evalLevel; the gate table and buffer layout are what it would consume
// unchanged.
package gpu

import (
	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
	"github.com/faultsim/faultsim/gate"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/pattern"
)

// gateTable is the flat, device-friendly encoding of a circuit's gates:
// parallel arrays indexed by gate index, plus a single flattened input
// buffer sliced per gate by (inputOffset, inputCount). A real kernel would
// upload these six slices once and index into them from every thread.
type gateTable struct {
	opKind      []circuit.OpKind
	invert      []bool
	output      []int32
	inputOffset []int32
	inputCount  []int32
	gateInputs  []int32
}

func buildGateTable(lc *levelize.Circuit) *gateTable {
	gt := &gateTable{}
	for _, g := range lc.Gates() {
		op, inv := g.Type.Decompose()
		gt.opKind = append(gt.opKind, op)
		gt.invert = append(gt.invert, inv)
		gt.output = append(gt.output, int32(g.Output))
		gt.inputOffset = append(gt.inputOffset, int32(len(gt.gateInputs)))
		gt.inputCount = append(gt.inputCount, int32(len(g.Inputs)))
		for _, in := range g.Inputs {
			gt.gateInputs = append(gt.gateInputs, int32(in))
		}
	}
	return gt
}

// evalLevel evaluates every gate in one level against values, the
// pure-Go stand-in for a device kernel launch over that level's gates.
func evalLevel(lc *levelize.Circuit, gt *gateTable, level int, values []uint64, mask uint64) {
	ins := make([]uint64, 0, 8)
	for _, gi := range lc.GatesByLevel[level] {
		off, cnt := gt.inputOffset[gi], gt.inputCount[gi]
		ins = ins[:0]
		for k := int32(0); k < cnt; k++ {
			ins = append(ins, values[gt.gateInputs[off+k]])
		}
		values[gt.output[gi]] = gate.EvalWord(lc.Gates()[gi].Type, ins, mask)
	}
}

// Backend runs the same window/fault sweep as engine.WordParallel, but
// through the device-layout gate table and evalLevel kernel above.
type Backend struct {
	Circuit *levelize.Circuit
	Rows    []pattern.Row
	Window  int

	gt    *gateTable
	table *answer.Table
}

// NewBackend builds a gpu.Backend over the given levelized circuit and rows.
func NewBackend(lc *levelize.Circuit, rows []pattern.Row, window int) *Backend {
	if window != 32 {
		window = 64
	}
	return &Backend{Circuit: lc, Rows: rows, Window: window, gt: buildGateTable(lc)}
}

func (b *Backend) Answers() *answer.Table { return b.table }
func (b *Backend) PatternCount() int      { return len(b.Rows) }
func (b *Backend) NetNames() []string     { return b.Circuit.NetNames() }

// Start runs the fault sweep for every window, net, and stuck value.
func (b *Backend) Start() error {
	lc := b.Circuit
	b.table = answer.NewTable(len(b.Rows), lc.NetCount())

	for base := 0; base < len(b.Rows); base += b.Window {
		chunkSize := b.Window
		if base+chunkSize > len(b.Rows) {
			chunkSize = len(b.Rows) - base
		}
		mask := maskOf(chunkSize)

		values := make(map[circuit.NetId]uint64, len(lc.PrimaryInputs()))
		for _, pi := range lc.PrimaryInputs() {
			var word uint64
			for i := 0; i < chunkSize; i++ {
				if b.Rows[base+i].Inputs[pi] != 0 {
					word |= uint64(1) << uint(i)
				}
			}
			values[pi] = word & mask
		}
		expected, err := b.expectedOutputs(base, chunkSize, mask, values)
		if err != nil {
			return err
		}

		for net := 0; net < lc.NetCount(); net++ {
			nid := circuit.NetId(net)
			for _, stuck0 := range [2]bool{true, false} {
				result := b.simulate(values, mask, nid, stuck0)
				equalAll := mask
				for _, po := range lc.PrimaryOutputs() {
					same := (^(result[po] ^ expected[po])) & mask
					equalAll &= same
				}
				for i := 0; i < chunkSize; i++ {
					b.table.Set(base+i, net, stuck0, equalAll&(uint64(1)<<uint(i)) != 0)
				}
			}
		}
	}
	return nil
}

// expectedOutputs always runs the fault-free sweep and, for any row in the
// window that supplies ProvidedOutputs, cross-checks it lane-by-lane against
// that golden result (invariant 2) instead of trusting it verbatim.
func (b *Backend) expectedOutputs(base, chunkSize int, mask uint64, piValues map[circuit.NetId]uint64) (map[circuit.NetId]uint64, error) {
	full := b.simulate(piValues, mask, -1, false)
	out := make(map[circuit.NetId]uint64, len(b.Circuit.PrimaryOutputs()))
	for _, po := range b.Circuit.PrimaryOutputs() {
		word := full[po] & mask
		for i := 0; i < chunkSize; i++ {
			row := b.Rows[base+i]
			if row.ProvidedOutputs == nil {
				continue
			}
			provided, ok := row.ProvidedOutputs[po]
			if !ok {
				return nil, errors.Wrapf(faulterr.ErrMissingExpectedOutput, "pattern %d missing expected output %q", base+i, b.Circuit.NetName(po))
			}
			goldenBit := (word >> uint(i)) & 1
			providedBit := uint64(0)
			if provided != 0 {
				providedBit = 1
			}
			if providedBit != goldenBit {
				return nil, errors.Wrapf(faulterr.ErrExpectedOutputMismatch,
					"pattern %d: provided output %q = %d, golden computed %d", base+i, b.Circuit.NetName(po), providedBit, goldenBit)
			}
		}
		out[po] = word
	}
	return out, nil
}

// simulate runs one full word-parallel sweep, forcing net to stuck (net < 0
// means no forcing, used for the golden reference).
func (b *Backend) simulate(piValues map[circuit.NetId]uint64, mask uint64, net circuit.NetId, stuck0 bool) []uint64 {
	lc := b.Circuit
	values := make([]uint64, lc.NetCount())
	for _, pi := range lc.PrimaryInputs() {
		v := piValues[pi] & mask
		if net >= 0 && pi == net {
			v = forcedWord(stuck0, mask)
		}
		values[pi] = v
	}
	for level := 0; level <= lc.MaxLevel; level++ {
		evalLevel(lc, b.gt, level, values, mask)
		if net >= 0 {
			for _, gi := range lc.GatesByLevel[level] {
				g := lc.Gates()[gi]
				if g.Output == net {
					values[net] = forcedWord(stuck0, mask)
				}
			}
		}
	}
	return values
}

func forcedWord(stuck0 bool, mask uint64) uint64 {
	if stuck0 {
		return 0
	}
	return mask
}

func maskOf(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
