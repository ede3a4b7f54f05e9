package engine

import (
	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/circuit"
	"github.com/faultsim/faultsim/faulterr"
	"github.com/faultsim/faultsim/gate"
	"github.com/faultsim/faultsim/levelize"
	"github.com/faultsim/faultsim/pattern"
)

// driverIndex maps every net to the index (into lc.Gates()) of the gate that
// drives it. PrimaryInputs have no entry.
func driverIndex(lc *levelize.Circuit) map[circuit.NetId]int {
	idx := make(map[circuit.NetId]int, lc.NetCount())
	for gi, g := range lc.Gates() {
		idx[g.Output] = gi
	}
	return idx
}

// dfsEvaluator evaluates net values on demand, recursing into driving gates
// and memoizing results, short-circuiting at a forced fault net instead of
// visiting its driving gate at all.
//
// Grounded on bcspragu-ReachabilityAnalyzer's bench package: typed gate
// nodes (And/Not/...) exposing Out()/SetOut(), evaluated by walking the
// graph rather than a flat ordered pass. dfsEvaluator generalizes that
// per-node evaluation shape to int-valued nets addressed by NetId, with a
// memo table, a separate visited set that detects combinational loops, and
// a fault short-circuit at the target net.
type dfsEvaluator struct {
	lc       *levelize.Circuit
	drivers  map[circuit.NetId]int
	pi       map[circuit.NetId]int
	hasFault bool
	fault    circuit.NetId
	faultVal int
	memo     map[circuit.NetId]int
	visited  map[circuit.NetId]bool
}

func newDFSEvaluator(lc *levelize.Circuit, drivers map[circuit.NetId]int, pi map[circuit.NetId]int) *dfsEvaluator {
	return &dfsEvaluator{
		lc:      lc,
		drivers: drivers,
		pi:      pi,
		memo:    make(map[circuit.NetId]int),
		visited: make(map[circuit.NetId]bool),
	}
}

func (d *dfsEvaluator) withFault(net circuit.NetId, val int) *dfsEvaluator {
	d.hasFault = true
	d.fault = net
	d.faultVal = val
	return d
}

func (d *dfsEvaluator) value(n circuit.NetId) (int, error) {
	if v, ok := d.memo[n]; ok {
		return v, nil
	}
	if d.hasFault && n == d.fault {
		d.memo[n] = d.faultVal
		return d.faultVal, nil
	}
	if d.lc.NetType(n) == circuit.PrimaryInput {
		v := d.pi[n]
		d.memo[n] = v
		return v, nil
	}
	if d.visited[n] {
		return 0, errors.Wrapf(faulterr.ErrCombinationalLoop, "net %q revisited during DFS evaluation", d.lc.NetName(n))
	}
	d.visited[n] = true
	gi, ok := d.drivers[n]
	if !ok {
		return 0, errors.Wrapf(faulterr.ErrUnresolvedNet, "net %q has no driver and is not a primary input", d.lc.NetName(n))
	}
	g := d.lc.Gates()[gi]
	ins := make([]int, len(g.Inputs))
	for i, in := range g.Inputs {
		v, err := d.value(in)
		if err != nil {
			return 0, err
		}
		ins[i] = v
	}
	v, err := gate.Eval(g.Type, ins)
	if err != nil {
		return 0, err
	}
	d.memo[n] = v
	return v, nil
}

// SerialDFS is the serial DFS backend: for every pattern, compute the golden
// primary-output vector, then for every (net, stuck value) recompute demand-
// driven from each PrimaryOutput with that net's value pinned.
type SerialDFS struct {
	opts    Options
	drivers map[circuit.NetId]int
	table   *answer.Table
}

// NewSerialDFS builds the serial reference backend over opts.
func NewSerialDFS(opts Options) *SerialDFS {
	return &SerialDFS{
		opts:    opts,
		drivers: driverIndex(opts.Circuit),
		table:   answer.NewTable(opts.PatternCount(), opts.NetCount()),
	}
}

func (s *SerialDFS) Answers() *answer.Table { return s.table }
func (s *SerialDFS) PatternCount() int      { return s.opts.PatternCount() }
func (s *SerialDFS) NetNames() []string     { return s.opts.Circuit.NetNames() }

// Start runs the DFS sweep for every pattern.
func (s *SerialDFS) Start() error {
	lc := s.opts.Circuit
	for p, row := range s.opts.Rows {
		golden, err := s.goldenOutputs(row)
		if err != nil {
			return err
		}
		for net := 0; net < lc.NetCount(); net++ {
			nid := circuit.NetId(net)
			for _, stuck0 := range [2]bool{true, false} {
				val := 1
				if stuck0 {
					val = 0
				}
				equal, err := s.faultOutputsEqual(row, nid, val, golden)
				if err != nil {
					return err
				}
				s.table.Set(p, net, stuck0, equal)
			}
		}
	}
	return nil
}

// goldenOutputs always evaluates the fault-free primary-output vector, then,
// if row supplies ProvidedOutputs, cross-checks every value against it
// (invariant 2: the golden reference the engine computes must equal any
// provided_outputs a pattern row declares) rather than trusting it verbatim.
func (s *SerialDFS) goldenOutputs(row pattern.Row) (map[circuit.NetId]int, error) {
	ev := newDFSEvaluator(s.opts.Circuit, s.drivers, row.Inputs)
	out := make(map[circuit.NetId]int, len(s.opts.Circuit.PrimaryOutputs()))
	for _, po := range s.opts.Circuit.PrimaryOutputs() {
		v, err := ev.value(po)
		if err != nil {
			return nil, err
		}
		out[po] = v
	}
	if row.ProvidedOutputs != nil {
		for _, po := range s.opts.Circuit.PrimaryOutputs() {
			provided, ok := row.ProvidedOutputs[po]
			if !ok {
				return nil, errors.Wrapf(faulterr.ErrMissingExpectedOutput, "missing expected output %q", s.opts.Circuit.NetName(po))
			}
			if provided != out[po] {
				return nil, errors.Wrapf(faulterr.ErrExpectedOutputMismatch,
					"provided output %q = %d, golden computed %d", s.opts.Circuit.NetName(po), provided, out[po])
			}
		}
	}
	return out, nil
}

func (s *SerialDFS) faultOutputsEqual(row pattern.Row, net circuit.NetId, val int, golden map[circuit.NetId]int) (bool, error) {
	ev := newDFSEvaluator(s.opts.Circuit, s.drivers, row.Inputs).withFault(net, val)
	for _, po := range s.opts.Circuit.PrimaryOutputs() {
		v, err := ev.value(po)
		if err != nil {
			return false, err
		}
		if v != golden[po] {
			return false, nil
		}
	}
	return true, nil
}
