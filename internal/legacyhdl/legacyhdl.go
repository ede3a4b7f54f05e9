// Package legacyhdl builds tiny circuit.Circuit fixtures for unit tests that
// want an ad-hoc gate list without going through the netlist parser.
//
// Adapted from the teacher's hdl.go Part/W wiring model: W's "check the
// wires against a declared pin list, default anything unconnected" idiom
// becomes Wires.Check below, and Chip's "flatten a part list into one
// component" idiom becomes Build. The teacher's own version stayed
// general enough to nest chips arbitrarily deep (a whole 8-bit computer);
// this one only ever needs a single flat gate list, so the recursive
// chip-of-chips machinery is dropped in favor of building straight onto a
// circuit.Builder.
package legacyhdl

import (
	"fmt"

	"github.com/faultsim/faultsim/circuit"
)

// Wires maps a gate's input pin names ("in", or "a" and "b") to net names in the
// fixture being built.
type Wires map[string]string

// Check validates that w names no pin outside pinNames and returns a copy
// with every declared-but-unconnected pin defaulted to net "0".
func (w Wires) Check(pinNames ...string) (Wires, error) {
	checked := make(Wires, len(pinNames))
	remaining := make(Wires, len(w))
	for k, v := range w {
		remaining[k] = v
	}
	for _, name := range pinNames {
		if net, ok := remaining[name]; ok {
			checked[name] = net
			delete(remaining, name)
		} else {
			checked[name] = "0"
		}
	}
	for name := range remaining {
		return nil, fmt.Errorf("legacyhdl: unknown pin %q", name)
	}
	return checked, nil
}

// Gate names one gate instance: its type, output net, and input pin
// wiring, e.g. Gate{Type: circuit.AND, Output: "y", Wires: Wires{"a": "x1", "b": "x2"}}.
type Gate struct {
	Type   circuit.GateType
	Output string
	Wires  Wires
}

// pinNames returns the ordered input pin names Check should expect for a
// gate of type t: single "in" for NOT/BUF, "a"/"b" for everything else.
func pinNames(t circuit.GateType) []string {
	if t == circuit.NOT || t == circuit.BUF {
		return []string{"in"}
	}
	return []string{"a", "b"}
}

// Build assembles inputs, outputs, and gates into a finalized circuit.Circuit.
// Net "0" is always available for unconnected pins, matching the teacher's
// cstFalse reserved pin; it is a PrimaryInput fixtures must drive to 0 in
// every pattern row (there being no constant-value primitive in the gate
// vocabulary this simulator supports).
func Build(inputs, outputs []string, gates []Gate) (*circuit.Circuit, error) {
	b := circuit.NewBuilder()
	b.AddPrimaryInput("0")
	for _, in := range inputs {
		b.AddPrimaryInput(in)
	}
	for _, out := range outputs {
		b.AddPrimaryOutput(out)
	}
	for i, g := range gates {
		wires, err := g.Wires.Check(pinNames(g.Type)...)
		if err != nil {
			return nil, err
		}
		var ins []string
		for _, p := range pinNames(g.Type) {
			ins = append(ins, wires[p])
		}
		name := fmt.Sprintf("g%d", i)
		if err := b.AddGate(g.Type, name, g.Output, ins); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}
