package engine_test

import (
	"testing"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/engine"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/pattern"
)

// fullAdder builds a gate-level 1-bit full adder:
//
//	s   = a ^ b ^ cin
//	cout = (a&b) | (cin&(a^b))
//
// wired entirely from AND/OR/XOR primitives so every backend exercises
// multiple levels and both output nets.
func fullAdder(t *testing.T) *levelize.Circuit {
	t.Helper()
	b := circuit.NewBuilder()
	for _, n := range []string{"a", "b", "cin"} {
		b.AddPrimaryInput(n)
	}
	for _, n := range []string{"s", "cout"} {
		b.AddPrimaryOutput(n)
	}
	for _, n := range []string{"axb", "aandb", "cinandaxb"} {
		b.AddWire(n)
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.AddGate(circuit.XOR, "g1", "axb", []string{"a", "b"}))
	must(b.AddGate(circuit.XOR, "g2", "s", []string{"axb", "cin"}))
	must(b.AddGate(circuit.AND, "g3", "aandb", []string{"a", "b"}))
	must(b.AddGate(circuit.AND, "g4", "cinandaxb", []string{"cin", "axb"}))
	must(b.AddGate(circuit.OR, "g5", "cout", []string{"aandb", "cinandaxb"}))
	c, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	lc, err := levelize.Levelize(c)
	if err != nil {
		t.Fatal(err)
	}
	return lc
}

func netByName(lc *levelize.Circuit, name string) circuit.NetId {
	for i, n := range lc.NetNames() {
		if n == name {
			return circuit.NetId(i)
		}
	}
	return -1
}

func allRows(lc *levelize.Circuit) []pattern.Row {
	a, b, cin := netByName(lc, "a"), netByName(lc, "b"), netByName(lc, "cin")
	var rows []pattern.Row
	for v := 0; v < 8; v++ {
		rows = append(rows, pattern.Row{Inputs: map[circuit.NetId]int{
			a:   (v >> 2) & 1,
			b:   (v >> 1) & 1,
			cin: v & 1,
		}})
	}
	return rows
}

// tableEqual compares two answer tables row by row over the given pattern
// count, requiring both to be fully filled.
func tableEqual(t *testing.T, name string, want, got *answer.Table, patterns int) {
	t.Helper()
	for p := 0; p < patterns; p++ {
		wr, err := want.Get(p)
		if err != nil {
			t.Fatalf("reference table: pattern %d: %v", p, err)
		}
		gr, err := got.Get(p)
		if err != nil {
			t.Fatalf("%s: pattern %d: %v", name, p, err)
		}
		if len(wr) != len(gr) {
			t.Fatalf("%s: pattern %d: net count mismatch: %d vs %d", name, p, len(wr), len(gr))
		}
		for n := range wr {
			if wr[n] != gr[n] {
				t.Fatalf("%s mismatch at pattern=%d net=%d: want %+v got %+v", name, p, n, wr[n], gr[n])
			}
		}
	}
}

// TestCrossBackendEquivalence is invariant D1: every backend must produce a
// byte-for-byte identical answer table for the same circuit and patterns.
func TestCrossBackendEquivalence(t *testing.T) {
	lc := fullAdder(t)
	rows := allRows(lc)

	reference := engine.NewWordParallel(engine.Options{Circuit: lc, Rows: rows, Window: 64})
	if err := reference.Start(); err != nil {
		t.Fatalf("WordParallel: %v", err)
	}

	backends := map[string]engine.Backend{
		"SerialDFS":       engine.NewSerialDFS(engine.Options{Circuit: lc, Rows: rows, Window: 64}),
		"ThreadParallel":  engine.NewThreadParallel(engine.Options{Circuit: lc, Rows: rows, Window: 64, Workers: 4}),
		"Distributed":     engine.NewDistributed(engine.Options{Circuit: lc, Rows: rows, Window: 64}, 3),
		"MultiFaultSweep": engine.NewMultiFaultSweep(engine.Options{Circuit: lc, Rows: rows, Window: 64}),
	}
	for name, be := range backends {
		if err := be.Start(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		tableEqual(t, name, reference.Answers(), be.Answers(), len(rows))
	}
}

// TestCrossBackendEquivalenceAcrossWindowSizes checks that a chunk smaller
// than the window width (partial final window) still agrees across backends.
func TestCrossBackendEquivalenceAcrossWindowSizes(t *testing.T) {
	lc := fullAdder(t)
	rows := allRows(lc)[:5] // not a multiple of any window width

	reference := engine.NewWordParallel(engine.Options{Circuit: lc, Rows: rows, Window: 32})
	if err := reference.Start(); err != nil {
		t.Fatalf("WordParallel: %v", err)
	}
	dfs := engine.NewSerialDFS(engine.Options{Circuit: lc, Rows: rows, Window: 32})
	if err := dfs.Start(); err != nil {
		t.Fatalf("SerialDFS: %v", err)
	}
	tableEqual(t, "SerialDFS", reference.Answers(), dfs.Answers(), len(rows))
}
