package legacyhdl_test

import (
	"testing"

	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/internal/legacyhdl"
)

func TestBuildXorFromNotAndOrGates(t *testing.T) {
	c, err := legacyhdl.Build(
		[]string{"a", "b"},
		[]string{"y"},
		[]legacyhdl.Gate{
			{Type: circuit.NOT, Output: "nota", Wires: legacyhdl.Wires{"in": "a"}},
			{Type: circuit.NOT, Output: "notb", Wires: legacyhdl.Wires{"in": "b"}},
			{Type: circuit.AND, Output: "w1", Wires: legacyhdl.Wires{"a": "a", "b": "notb"}},
			{Type: circuit.AND, Output: "w2", Wires: legacyhdl.Wires{"a": "nota", "b": "b"}},
			{Type: circuit.OR, Output: "y", Wires: legacyhdl.Wires{"a": "w1", "b": "w2"}},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if c.NetCount() == 0 {
		t.Fatal("expected a non-empty circuit")
	}
	if len(c.PrimaryInputs()) != 3 { // a, b, and the reserved "0" pin
		t.Fatalf("expected 3 primary inputs, got %d", len(c.PrimaryInputs()))
	}
	if len(c.PrimaryOutputs()) != 1 {
		t.Fatalf("expected 1 primary output, got %d", len(c.PrimaryOutputs()))
	}
}

func TestBuildRejectsUnknownPin(t *testing.T) {
	_, err := legacyhdl.Build(
		[]string{"a"},
		[]string{"y"},
		[]legacyhdl.Gate{
			{Type: circuit.NOT, Output: "y", Wires: legacyhdl.Wires{"in": "a", "bogus": "a"}},
		},
	)
	if err == nil {
		t.Fatal("expected an error for an unknown pin name")
	}
}

func TestBuildDefaultsUnconnectedPinToGround(t *testing.T) {
	c, err := legacyhdl.Build(
		[]string{"a"},
		[]string{"y"},
		[]legacyhdl.Gate{
			{Type: circuit.AND, Output: "y", Wires: legacyhdl.Wires{"a": "a"}}, // b left unconnected
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range c.NetNames() {
		if n == "0" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the reserved ground net \"0\" to be present")
	}
}
