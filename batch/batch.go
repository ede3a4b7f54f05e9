// Package batch assembles a contiguous window of up to W patterns into the
// per-net bit-planes the bit-parallel engines evaluate in one sweep.
package batch

import (
	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
	"github.com/faultsim/faultsim/pattern"
)

// GoldenSimulator computes the fault-free primary-output word for a window
// of primary-input words. Assemble always consults it, both to fill in
// windows whose rows omit ProvidedOutputs and to cross-check windows whose
// rows supply it; engine.Golden is the production implementation, kept
// behind this narrow interface so batch never imports engine.
type GoldenSimulator interface {
	Simulate(inputs map[circuit.NetId]uint64, mask uint64) (map[circuit.NetId]uint64, error)
}

// Window is a pattern window assembled per §4.3: Values holds, for every
// PrimaryInput, a word whose lane i carries the bit from pattern Base+i;
// Expected holds the same lane packing for every PrimaryOutput. Mask has the
// low ChunkSize bits set and no others (invariant W1).
type Window struct {
	Base      int
	ChunkSize int
	Mask      uint64
	Values    map[circuit.NetId]uint64
	Expected  map[circuit.NetId]uint64
}

// WindowMask returns the low n bits set, 0 <= n <= 64.
func WindowMask(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// Assemble packs rows[base : base+chunkSize] (chunkSize = min(w, len(rows)-base))
// into a Window. golden is always run: it fills Expected for any row that
// omits ProvidedOutputs, and cross-checks Expected against ProvidedOutputs
// for any row that supplies it, per invariant 2 (the golden reference the
// engine computes must equal whatever provided_outputs a pattern row
// declares). A row whose provided value disagrees with golden is reported
// as ErrExpectedOutputMismatch, not silently trusted.
func Assemble(c *circuit.Circuit, rows []pattern.Row, base, w int, golden GoldenSimulator) (*Window, error) {
	if base < 0 || base >= len(rows) {
		return nil, errors.Errorf("batch: base %d out of range [0,%d)", base, len(rows))
	}
	chunkSize := w
	if base+chunkSize > len(rows) {
		chunkSize = len(rows) - base
	}
	mask := WindowMask(chunkSize)

	values := make(map[circuit.NetId]uint64, len(c.PrimaryInputs()))
	for _, pi := range c.PrimaryInputs() {
		var word uint64
		for i := 0; i < chunkSize; i++ {
			row := rows[base+i]
			bit, ok := row.Inputs[pi]
			if !ok {
				return nil, errors.Wrapf(faulterr.ErrUnknownNet, "pattern %d missing primary input %q", base+i, c.NetName(pi))
			}
			if bit != 0 {
				word |= uint64(1) << uint(i)
			}
		}
		values[pi] = word & mask
	}

	if golden == nil {
		return nil, errors.Wrap(faulterr.ErrMissingExpectedOutput, "no golden simulator was given")
	}
	goldenValues, err := golden.Simulate(values, mask)
	if err != nil {
		return nil, err
	}

	expected := make(map[circuit.NetId]uint64, len(c.PrimaryOutputs()))
	for _, po := range c.PrimaryOutputs() {
		word := goldenValues[po] & mask
		for i := 0; i < chunkSize; i++ {
			row := rows[base+i]
			if row.ProvidedOutputs == nil {
				continue
			}
			bit, ok := row.ProvidedOutputs[po]
			if !ok {
				return nil, errors.Wrapf(faulterr.ErrMissingExpectedOutput, "pattern %d missing expected output %q", base+i, c.NetName(po))
			}
			goldenBit := (word >> uint(i)) & 1
			providedBit := uint64(0)
			if bit != 0 {
				providedBit = 1
			}
			if providedBit != goldenBit {
				return nil, errors.Wrapf(faulterr.ErrExpectedOutputMismatch,
					"pattern %d: provided output %q = %d, golden computed %d", base+i, c.NetName(po), providedBit, goldenBit)
			}
		}
		expected[po] = word
	}

	return &Window{
		Base:      base,
		ChunkSize: chunkSize,
		Mask:      mask,
		Values:    values,
		Expected:  expected,
	}, nil
}
