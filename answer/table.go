// Package answer implements the AnswerTable: the dense pattern×net grid of
// stuck-at fault equivalence results every engine writes to and every
// writer/CLI reads from.
package answer

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/faulterr"
)

// cell packs both stuck-value results plus a two-bit "written" mask, kept
// distinct from the value bits so a cell can be told apart from "never
// written" even when both its bits happen to be false.
type cell struct {
	stuck0Eq, stuck1Eq   bool
	wroteStuck0, wroteS1 bool
}

func (c cell) filled() bool { return c.wroteStuck0 && c.wroteS1 }

// Row is the pair of fault-equivalence results for one (pattern, net) cell.
type Row struct {
	Stuck0Eq bool
	Stuck1Eq bool
}

// Table is a flat pattern_count×net_count grid of FaultEvaluation cells,
// following the teacher's Circuit.s0/s1 discipline: pre-size once at
// construction, index arithmetically, never grow. filledCounts[p] tracks how
// many of pattern p's 2*netCount slots have been written, so Has can answer
// in O(1) (invariant A1: after Start returns, every pattern is fully
// filled).
//
// Set is safe for concurrent use as long as concurrent callers never write
// the same (pattern, net) cell at the same time — the sharding §5 requires
// of every parallel backend (a level's gates, or a levelized fault sweep's
// fault nets, each own a disjoint set of net columns).
type Table struct {
	patternCount int
	netCount     int
	cells        []cell
	filledCounts []int32
}

// NewTable allocates a table sized for patternCount patterns over netCount
// nets. Every cell starts unwritten.
func NewTable(patternCount, netCount int) *Table {
	return &Table{
		patternCount: patternCount,
		netCount:     netCount,
		cells:        make([]cell, patternCount*netCount),
		filledCounts: make([]int32, patternCount),
	}
}

func (t *Table) index(pattern, net int) int { return pattern*t.netCount + net }

// PatternCount returns the number of pattern rows the table was sized for.
func (t *Table) PatternCount() int { return t.patternCount }

// NetCount returns the number of net columns the table was sized for.
func (t *Table) NetCount() int { return t.netCount }

// Set records the result of forcing net to the given stuck value for
// pattern, incrementing that pattern's fill counter the first time this
// exact (pattern, net, stuck0) slot is written. Writing the same slot again
// with the same or a different value is legal and does not double-increment
// (invariant A2).
func (t *Table) Set(pattern, net int, stuck0 bool, equal bool) {
	i := t.index(pattern, net)
	c := &t.cells[i]
	if stuck0 {
		if !c.wroteStuck0 {
			c.wroteStuck0 = true
			atomic.AddInt32(&t.filledCounts[pattern], 1)
		}
		c.stuck0Eq = equal
		return
	}
	if !c.wroteS1 {
		c.wroteS1 = true
		atomic.AddInt32(&t.filledCounts[pattern], 1)
	}
	c.stuck1Eq = equal
}

// Has reports whether pattern's row is fully filled: every net has received
// both a stuck-at-0 and a stuck-at-1 result.
func (t *Table) Has(pattern int) bool {
	return atomic.LoadInt32(&t.filledCounts[pattern]) == int32(2*t.netCount)
}

// Get returns pattern's full row of results, or ErrUnfilledPattern if the
// row is not yet fully filled.
func (t *Table) Get(pattern int) ([]Row, error) {
	if !t.Has(pattern) {
		return nil, errors.Wrapf(faulterr.ErrUnfilledPattern, "pattern %d", pattern)
	}
	rows := make([]Row, t.netCount)
	for net := 0; net < t.netCount; net++ {
		c := t.cells[t.index(pattern, net)]
		rows[net] = Row{Stuck0Eq: c.stuck0Eq, Stuck1Eq: c.stuck1Eq}
	}
	return rows, nil
}

// AllFilled reports whether every pattern row is fully filled (invariant
// A1), the postcondition every engine's Start must establish before
// returning success.
func (t *Table) AllFilled() bool {
	for p := 0; p < t.patternCount; p++ {
		if !t.Has(p) {
			return false
		}
	}
	return true
}
