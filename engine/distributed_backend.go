package engine

import (
	"github.com/faultsim/faultsim/answer"
	"github.com/faultsim/faultsim/engine/distributed"
)

// Distributed adapts the engine/distributed rank-partitioned protocol into
// the Backend capability set, so the orchestrator can select it exactly
// like any in-process engine.
type Distributed struct {
	opts  Options
	ranks int
	table *answer.Table
}

// NewDistributed builds a Distributed backend over opts using rank ranks
// (<=0 means one rank per GOMAXPROCS).
func NewDistributed(opts Options, ranks int) *Distributed {
	return &Distributed{opts: opts, ranks: ranks}
}

func (d *Distributed) Start() error {
	table, err := distributed.Run(distributed.Options{
		Circuit: d.opts.Circuit,
		Rows:    d.opts.Rows,
		Window:  d.opts.Window,
		Ranks:   d.ranks,
	})
	if err != nil {
		return err
	}
	d.table = table
	return nil
}

func (d *Distributed) Answers() *answer.Table { return d.table }
func (d *Distributed) PatternCount() int      { return d.opts.PatternCount() }
func (d *Distributed) NetNames() []string     { return d.opts.Circuit.NetNames() }
