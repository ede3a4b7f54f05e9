package answer_test

import (
	"testing"

	"github.com/faultsim/faultsim/answer"
)

func TestSetAndHasAndGet(t *testing.T) {
	tab := answer.NewTable(2, 3)
	if tab.Has(0) {
		t.Fatal("Has(0) = true before any writes")
	}
	for net := 0; net < 3; net++ {
		tab.Set(0, net, true, true)
		tab.Set(0, net, false, net%2 == 0)
	}
	if !tab.Has(0) {
		t.Fatal("Has(0) = false after all cells written")
	}
	if tab.Has(1) {
		t.Fatal("Has(1) = true before pattern 1 was written")
	}
	rows, err := tab.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if !rows[0].Stuck0Eq || !rows[0].Stuck1Eq {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].Stuck1Eq {
		t.Fatalf("rows[1].Stuck1Eq = true, want false")
	}
}

func TestGetFailsOnUnfilledPattern(t *testing.T) {
	tab := answer.NewTable(1, 2)
	tab.Set(0, 0, true, true)
	if _, err := tab.Get(0); err == nil {
		t.Fatal("expected error for partially filled pattern")
	}
}

func TestSetIsIdempotent(t *testing.T) {
	tab := answer.NewTable(1, 1)
	tab.Set(0, 0, true, true)
	tab.Set(0, 0, true, false) // overwrite, must not double-increment
	tab.Set(0, 0, false, true)
	if !tab.Has(0) {
		t.Fatal("Has(0) = false after both slots written once each")
	}
	rows, err := tab.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Stuck0Eq != false {
		t.Fatalf("Stuck0Eq = %v, want false (last write wins)", rows[0].Stuck0Eq)
	}
}

func TestAllFilled(t *testing.T) {
	tab := answer.NewTable(2, 1)
	if tab.AllFilled() {
		t.Fatal("AllFilled() = true on a fresh table")
	}
	tab.Set(0, 0, true, true)
	tab.Set(0, 0, false, true)
	if tab.AllFilled() {
		t.Fatal("AllFilled() = true with pattern 1 unwritten")
	}
	tab.Set(1, 0, true, true)
	tab.Set(1, 0, false, true)
	if !tab.AllFilled() {
		t.Fatal("AllFilled() = false after every pattern was written")
	}
}
