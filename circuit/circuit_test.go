package circuit_test

import (
	"testing"

	"github.com/faultsim/faultsim/circuit"
)

func buildAnd(t *testing.T) *circuit.Circuit {
	t.Helper()
	b := circuit.NewBuilder()
	b.AddPrimaryInput("a")
	b.AddPrimaryInput("b")
	b.AddPrimaryOutput("y")
	if err := b.AddGate(circuit.AND, "g1", "y", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	c, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestFinalizeOrdersNetsLexicographically(t *testing.T) {
	c := buildAnd(t)
	if got, want := c.NetCount(), 3; got != want {
		t.Fatalf("NetCount() = %d, want %d", got, want)
	}
	names := c.NetNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("net names not sorted: %v", names)
		}
	}
}

func TestPrimaryOutputTagWinsOverWire(t *testing.T) {
	b := circuit.NewBuilder()
	b.AddPrimaryInput("a")
	b.AddWire("y") // declared wire first
	b.AddPrimaryOutput("y")
	if err := b.AddGate(circuit.BUF, "g1", "y", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	c, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	for id := circuit.NetId(0); int(id) < c.NetCount(); id++ {
		if c.NetName(id) == "y" && c.NetType(id) != circuit.PrimaryOutput {
			t.Fatalf("net y: got type %v, want PrimaryOutput", c.NetType(id))
		}
	}
}

func TestAddGateRejectsBadArity(t *testing.T) {
	cases := []struct {
		name   string
		typ    circuit.GateType
		inputs []string
	}{
		{"not with two inputs", circuit.NOT, []string{"a", "b"}},
		{"buf with no inputs", circuit.BUF, nil},
		{"and with no inputs", circuit.AND, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := circuit.NewBuilder()
			b.AddPrimaryInput("a")
			b.AddPrimaryInput("b")
			if err := b.AddGate(tc.typ, "g1", "y", tc.inputs); err == nil {
				t.Fatal("expected arity error, got nil")
			}
		})
	}
}

func TestFinalizeRejectsMultiplyDrivenNet(t *testing.T) {
	b := circuit.NewBuilder()
	b.AddPrimaryInput("a")
	b.AddPrimaryInput("b")
	b.AddPrimaryOutput("y")
	if err := b.AddGate(circuit.AND, "g1", "y", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddGate(circuit.OR, "g2", "y", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finalize(); err == nil {
		t.Fatal("expected error for multiply-driven net")
	}
}

func TestFinalizeRejectsUndrivenWire(t *testing.T) {
	b := circuit.NewBuilder()
	b.AddPrimaryInput("a")
	b.AddWire("n1")
	b.AddPrimaryOutput("y")
	if err := b.AddGate(circuit.BUF, "g1", "y", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finalize(); err == nil {
		t.Fatal("expected error for undriven wire n1")
	}
}

func TestGateTypeFromString(t *testing.T) {
	for _, s := range []string{"and", "AND", "And", "nand", "NOR", "xOr", "xnor", "not", "buf"} {
		if _, ok := circuit.GateTypeFromString(s); !ok {
			t.Errorf("GateTypeFromString(%q): expected ok", s)
		}
	}
	if _, ok := circuit.GateTypeFromString("dff"); ok {
		t.Errorf("GateTypeFromString(%q): expected not ok", "dff")
	}
}

func TestDecompose(t *testing.T) {
	cases := []struct {
		t      circuit.GateType
		k      circuit.OpKind
		invert bool
	}{
		{circuit.AND, circuit.AndLike, false},
		{circuit.NAND, circuit.AndLike, true},
		{circuit.OR, circuit.OrLike, false},
		{circuit.NOR, circuit.OrLike, true},
		{circuit.XOR, circuit.XorLike, false},
		{circuit.XNOR, circuit.XorLike, true},
		{circuit.NOT, circuit.Unary, true},
		{circuit.BUF, circuit.Unary, false},
	}
	for _, tc := range cases {
		k, inv := tc.t.Decompose()
		if k != tc.k || inv != tc.invert {
			t.Errorf("%v.Decompose() = (%v, %v), want (%v, %v)", tc.t, k, inv, tc.k, tc.invert)
		}
	}
}
