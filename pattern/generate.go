package pattern

import (
	"math/rand/v2"

	"github.com/faultsim/faultsim/circuit"
)

// Generate produces count pattern rows, one random bit per PrimaryInput,
// drawn from a PRNG seeded deterministically from seed so the same
// (circuit, count, seed) triple always reproduces the same rows. Rows carry
// no ProvidedOutputs; the engine computes the golden reference itself.
//
// Grounded on hwtest.randBool's "one random bit per circuit input, per test
// iteration" idiom, generalized to one random bit per primary input, per
// generated pattern row, and upgraded to math/rand/v2 for a reproducible,
// self-contained source instead of the global rand.Seed the teacher uses.
func Generate(c *circuit.Circuit, count int, seed uint64) []Row {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	pis := c.PrimaryInputs()

	rows := make([]Row, count)
	for i := range rows {
		inputs := make(map[circuit.NetId]int, len(pis))
		for _, pi := range pis {
			inputs[pi] = int(rng.IntN(2))
		}
		rows[i] = Row{Inputs: inputs}
	}
	return rows
}
