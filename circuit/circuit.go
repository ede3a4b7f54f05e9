// Package circuit holds the NetId-keyed combinational circuit model that the
// rest of this module addresses nets by. A circuit.Circuit is produced once
// by the netlist parser (via Finalize) and is thereafter immutable and
// shared by reference among every engine.
package circuit

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/faulterr"
)

// NetId is a dense index in [0, N) assigned after all nets have been
// interned. NetId ordering is deterministic: it is the lexicographic order
// of net names, assigned by Finalize.
type NetId int

// NetType classifies a net. A Wire that is also declared a PrimaryOutput
// keeps the PrimaryOutput tag (outputs win over wires).
type NetType int

const (
	Wire NetType = iota
	PrimaryInput
	PrimaryOutput
)

func (t NetType) String() string {
	switch t {
	case PrimaryInput:
		return "input"
	case PrimaryOutput:
		return "output"
	default:
		return "wire"
	}
}

// GateType is one of the eight supported logical operators.
type GateType int

const (
	AND GateType = iota
	OR
	NAND
	NOR
	XOR
	XNOR
	NOT
	BUF
)

var gateNames = map[GateType]string{
	AND: "and", OR: "or", NAND: "nand", NOR: "nor",
	XOR: "xor", XNOR: "xnor", NOT: "not", BUF: "buf",
}

func (t GateType) String() string {
	if s, ok := gateNames[t]; ok {
		return s
	}
	return "unknown"
}

// OpKind groups gate types by the shape of their word-parallel reduction:
// AND-like and OR-like reduce with the corresponding bitwise operator over
// all inputs, XOR-like reduces with XOR, and Unary passes a single input
// through (optionally inverted). Invert marks NAND/NOR/XNOR/NOT, whose
// truth table is the negation of the reduction.
type OpKind int

const (
	AndLike OpKind = iota
	OrLike
	XorLike
	Unary
)

// Decompose returns the reduction shape and invert flag for t, per §3's
// (op_kind, invert) simplification.
func (t GateType) Decompose() (OpKind, bool) {
	switch t {
	case AND:
		return AndLike, false
	case NAND:
		return AndLike, true
	case OR:
		return OrLike, false
	case NOR:
		return OrLike, true
	case XOR:
		return XorLike, false
	case XNOR:
		return XorLike, true
	case NOT:
		return Unary, true
	case BUF:
		return Unary, false
	default:
		return Unary, false
	}
}

// GateTypeFromString maps a case-insensitive Verilog gate keyword to a
// GateType. ok is false for anything outside the eight supported keywords.
func GateTypeFromString(s string) (GateType, bool) {
	for t, name := range gateNames {
		if len(s) == len(name) && equalFold(s, name) {
			return t, true
		}
	}
	return 0, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Gate drives exactly one net from zero or more inputs. NOT and BUF require
// exactly one input; all other gate types require at least one.
type Gate struct {
	Type   GateType
	Name   string
	Output NetId
	Inputs []NetId
}

// Circuit is the finalized, NetId-keyed combinational netlist. Once built by
// Finalize it is read-only and safe to share by reference among any number
// of engines.
type Circuit struct {
	netNames []string
	netTypes []NetType
	inputs   []NetId
	outputs  []NetId
	gates    []Gate
}

// NetCount returns the number of interned nets.
func (c *Circuit) NetCount() int { return len(c.netNames) }

// NetName returns the name of net id, as assigned during parsing.
func (c *Circuit) NetName(id NetId) string { return c.netNames[id] }

// NetType returns the classification of net id.
func (c *Circuit) NetType(id NetId) NetType { return c.netTypes[id] }

// PrimaryInputs returns the primary input nets in insertion order (the
// order AddPrimaryInput was called), not in NetId order.
func (c *Circuit) PrimaryInputs() []NetId { return c.inputs }

// PrimaryOutputs returns the primary output nets in insertion order; this is
// the answer table's and the pattern file's output column order.
func (c *Circuit) PrimaryOutputs() []NetId { return c.outputs }

// Gates returns every gate in the circuit, in the order they were added by
// the builder (parse order, before levelization).
func (c *Circuit) Gates() []Gate { return c.gates }

// NetNames returns every interned net name in NetId order.
func (c *Circuit) NetNames() []string { return c.netNames }

// Builder accumulates a netlist before it is finalized into a dense,
// NetId-keyed Circuit. It is the pre-intern form a parser (or a test fixture)
// populates; nets are registered by name and only receive a NetId once
// Finalize sorts and remaps them.
type Builder struct {
	names  []string
	types  map[string]NetType
	lookup map[string]int
	inputs []string
	outs   []string
	gates  []pendingGate
}

type pendingGate struct {
	typ    GateType
	name   string
	output string
	inputs []string
}

// NewBuilder returns an empty circuit builder.
func NewBuilder() *Builder {
	return &Builder{
		types:  make(map[string]NetType),
		lookup: make(map[string]int),
	}
}

// Ensure interns net, registering it as typ if it is new. An existing Wire
// net is upgraded to typ; outputs and inputs are never downgraded back to
// Wire (outputs win over wires, invariant from §3).
func (b *Builder) Ensure(net string, typ NetType) {
	if _, ok := b.lookup[net]; !ok {
		b.lookup[net] = len(b.names)
		b.names = append(b.names, net)
		b.types[net] = typ
		return
	}
	if b.types[net] == Wire && typ != Wire {
		b.types[net] = typ
	}
}

// AddPrimaryInput interns net as a PrimaryInput and records it in port order.
func (b *Builder) AddPrimaryInput(net string) {
	b.Ensure(net, PrimaryInput)
	b.inputs = append(b.inputs, net)
}

// AddPrimaryOutput interns net as a PrimaryOutput and records it in port order.
func (b *Builder) AddPrimaryOutput(net string) {
	b.Ensure(net, PrimaryOutput)
	b.outs = append(b.outs, net)
}

// AddWire interns net as a Wire.
func (b *Builder) AddWire(net string) {
	b.Ensure(net, Wire)
}

// AddGate registers a gate driving output from inputs, interning any net not
// already known as a Wire. It returns ErrArityMismatch for NOT/BUF gates with
// other than one input, or any gate with zero inputs.
func (b *Builder) AddGate(typ GateType, name, output string, inputs []string) error {
	if len(inputs) == 0 {
		return errors.Wrapf(faulterr.ErrArityMismatch, "gate %q has no inputs", name)
	}
	if (typ == NOT || typ == BUF) && len(inputs) != 1 {
		return errors.Wrapf(faulterr.ErrArityMismatch, "gate %q (%s) expects exactly one input, got %d", name, typ, len(inputs))
	}
	b.Ensure(output, Wire)
	for _, in := range inputs {
		b.Ensure(in, Wire)
	}
	b.gates = append(b.gates, pendingGate{typ: typ, name: name, output: output, inputs: append([]string(nil), inputs...)})
	return nil
}

// Finalize sorts interned net names lexicographically, assigns dense NetIds
// in that order, and remaps every port list and gate to the new ids. NetId
// ordering is therefore deterministic across runs on the same input.
//
// Finalize enforces invariants G1–G3: every gate output is unique and not a
// primary input; every referenced net is in range; the caller is expected to
// have already rejected malformed gate arity via AddGate.
func (b *Builder) Finalize() (*Circuit, error) {
	order := make([]string, len(b.names))
	copy(order, b.names)
	sort.Strings(order)

	id := make(map[string]NetId, len(order))
	for i, n := range order {
		id[n] = NetId(i)
	}

	types := make([]NetType, len(order))
	driven := make([]bool, len(order))
	for i, n := range order {
		types[i] = b.types[n]
	}

	inputs := make([]NetId, len(b.inputs))
	for i, n := range b.inputs {
		inputs[i] = id[n]
	}
	outputs := make([]NetId, len(b.outs))
	for i, n := range b.outs {
		outputs[i] = id[n]
	}

	gates := make([]Gate, len(b.gates))
	for i, g := range b.gates {
		out, ok := id[g.output]
		if !ok {
			return nil, errors.Wrapf(faulterr.ErrUnknownNet, "gate %q output %q", g.name, g.output)
		}
		if types[out] == PrimaryInput {
			return nil, errors.Errorf("gate %q drives primary input %q", g.name, g.output)
		}
		if driven[out] {
			return nil, errors.Errorf("net %q driven by more than one gate", g.output)
		}
		driven[out] = true
		ins := make([]NetId, len(g.inputs))
		for j, in := range g.inputs {
			nid, ok := id[in]
			if !ok {
				return nil, errors.Wrapf(faulterr.ErrUnknownNet, "gate %q input %q", g.name, in)
			}
			ins[j] = nid
		}
		gates[i] = Gate{Type: g.typ, Name: g.name, Output: out, Inputs: ins}
	}

	for i, typ := range types {
		if typ != PrimaryInput && !driven[i] {
			return nil, errors.Errorf("net %q is not a primary input and has no driving gate", order[i])
		}
	}

	return &Circuit{
		netNames: order,
		netTypes: types,
		inputs:   inputs,
		outputs:  outputs,
		gates:    gates,
	}, nil
}
