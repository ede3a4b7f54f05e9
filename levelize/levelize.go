// Package levelize assigns a level to every net in a circuit.Circuit and
// groups gates by the level of their output, so that every downstream
// engine can evaluate gates in a single dependency-respecting pass.
package levelize

import (
	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
)

// Circuit wraps a circuit.Circuit with its level assignment: NetLevels[n] is
// the length of the longest path from any primary input to net n;
// GatesByLevel[L] lists, in gate-index order, the indices (into
// Circuit.Gates()) of gates whose output is at level L; MaxLevel is the
// diameter of the combinational DAG. Fanout[n] lists the indices of gates
// that consume net n as an input, for engines that walk forward from a net
// rather than level by level.
type Circuit struct {
	*circuit.Circuit
	NetLevels    []int
	GatesByLevel [][]int
	MaxLevel     int
	Fanout       [][]int
}

// Levelize runs the sweep-until-fixpoint algorithm of the core spec: assign
// level 0 to every primary input, then repeatedly sweep unplaced gates,
// placing any whose inputs are all leveled at 1+max(input levels). A full
// sweep that places nothing while gates remain is a combinational loop or a
// reference to an undeclared net, reported as ErrCombinationalLoop.
func Levelize(c *circuit.Circuit) (*Circuit, error) {
	n := c.NetCount()
	levels := make([]int, n)
	for i := range levels {
		levels[i] = -1
	}
	for _, pi := range c.PrimaryInputs() {
		levels[pi] = 0
	}

	gates := c.Gates()
	placed := make([]bool, len(gates))
	remaining := len(gates)
	maxLevel := 0

	fanout := make([][]int, n)
	for gi, g := range gates {
		for _, in := range g.Inputs {
			fanout[in] = append(fanout[in], gi)
		}
	}

	for remaining > 0 {
		progress := false
		for gi, g := range gates {
			if placed[gi] {
				continue
			}
			maxInput := -1
			ready := true
			for _, in := range g.Inputs {
				lv := levels[in]
				if lv < 0 {
					ready = false
					break
				}
				if lv > maxInput {
					maxInput = lv
				}
			}
			if !ready {
				continue
			}
			level := maxInput + 1
			if level > levels[g.Output] {
				levels[g.Output] = level
			}
			if level > maxLevel {
				maxLevel = level
			}
			placed[gi] = true
			remaining--
			progress = true
		}
		if !progress {
			return nil, errors.Wrapf(faulterr.ErrCombinationalLoop,
				"%d gate(s) could not be placed after a full sweep", remaining)
		}
	}

	gatesByLevel := make([][]int, maxLevel+1)
	for gi, g := range gates {
		lv := levels[g.Output]
		if lv < 0 {
			return nil, errors.Wrapf(faulterr.ErrCombinationalLoop, "net %q never received a level", c.NetName(g.Output))
		}
		gatesByLevel[lv] = append(gatesByLevel[lv], gi)
	}

	return &Circuit{
		Circuit:      c,
		NetLevels:    levels,
		GatesByLevel: gatesByLevel,
		MaxLevel:     maxLevel,
		Fanout:       fanout,
	}, nil
}
