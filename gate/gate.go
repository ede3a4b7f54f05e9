// Package gate evaluates the truth function of a GateType, both as a single
// 0/1 scalar and as a bit-parallel machine word. The word form is the inner
// loop of every bit-parallel engine in package engine; it is written to
// avoid branching on gate type more than once per call.
package gate

import (
	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
)

// Eval evaluates t's truth function over 0/1 integer inputs. It returns
// ErrArityMismatch for NOT/BUF with other than one input or any gate with
// zero inputs, and ErrUnknownGate for a GateType outside the eight
// supported kinds.
func Eval(t circuit.GateType, in []int) (int, error) {
	if len(in) == 0 {
		return 0, errors.Wrap(faulterr.ErrArityMismatch, "gate has no inputs")
	}
	switch t {
	case circuit.AND, circuit.NAND:
		v := 1
		for _, x := range in {
			v &= x
		}
		if t == circuit.NAND {
			v = 1 - v
		}
		return v, nil
	case circuit.OR, circuit.NOR:
		v := 0
		for _, x := range in {
			v |= x
		}
		if t == circuit.NOR {
			v = 1 - v
		}
		return v, nil
	case circuit.XOR, circuit.XNOR:
		v := 0
		for _, x := range in {
			v ^= x
		}
		if t == circuit.XNOR {
			v = 1 - v
		}
		return v, nil
	case circuit.NOT:
		if len(in) != 1 {
			return 0, errors.Wrap(faulterr.ErrArityMismatch, "NOT expects exactly one input")
		}
		return 1 - in[0], nil
	case circuit.BUF:
		if len(in) != 1 {
			return 0, errors.Wrap(faulterr.ErrArityMismatch, "BUF expects exactly one input")
		}
		return in[0], nil
	default:
		return 0, errors.Wrap(faulterr.ErrUnknownGate, "unrecognized gate type")
	}
}

// EvalWord evaluates t's truth function lane-wise over a slice of
// bit-parallel input words, masked to the chunk_size active lanes in mask
// (invariant W1: bits outside mask are always zero on return).
//
// EvalWord panics on an unknown gate type and does not check arity: NOT and
// BUF read only in[0], and the n-ary gates reduce over whatever inputs are
// given. Callers are expected to have validated the circuit once at
// Finalize time, so a bad gate here indicates an engine bug rather than a
// user error.
func EvalWord(t circuit.GateType, in []uint64, mask uint64) uint64 {
	switch t {
	case circuit.AND, circuit.NAND:
		v := mask
		for _, x := range in {
			v &= x
		}
		if t == circuit.NAND {
			v = (^v) & mask
		}
		return v
	case circuit.OR, circuit.NOR:
		var v uint64
		for _, x := range in {
			v |= x
		}
		v &= mask
		if t == circuit.NOR {
			v = (^v) & mask
		}
		return v
	case circuit.XOR, circuit.XNOR:
		var v uint64
		for _, x := range in {
			v ^= x
		}
		v &= mask
		if t == circuit.XNOR {
			v = (^v) & mask
		}
		return v
	case circuit.NOT:
		return (^in[0]) & mask
	case circuit.BUF:
		return in[0] & mask
	default:
		panic("gate: unknown gate type in EvalWord")
	}
}
