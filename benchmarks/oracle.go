package benchmarks

import (
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

func randomBits(n int, rng *rand.Rand) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}
	return bits
}

// bernsteinVazirani recovers a random hidden string on the first n-1 qubits;
// the last qubit is the |-> ancilla of the phase oracle.
func bernsteinVazirani(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	hidden := randomBits(n-1, rng)
	anc := n - 1
	c := circuit.New("bv", n, n-1)
	c.X(anc)
	for q := 0; q < n; q++ {
		c.H(q)
	}
	c.Barrier()
	for q, bit := range hidden {
		if bit {
			c.CX(q, anc)
		}
	}
	c.Barrier()
	for q := 0; q < n-1; q++ {
		c.H(q)
	}
	c.Barrier()
	for q := 0; q < n-1; q++ {
		c.Measure(q, q)
	}
	return c, nil
}

// deutschJozsa queries a balanced oracle f(x) = x.b, with the inputs
// conjugated by X where a random mask is set.
func deutschJozsa(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	inputs := n - 1
	mask := randomBits(inputs, rng)
	anc := n - 1
	c := circuit.New("dj", n, inputs)
	c.X(anc)
	for q := 0; q < n; q++ {
		c.H(q)
	}
	c.Barrier()
	for q, bit := range mask {
		if bit {
			c.X(q)
		}
	}
	for q := 0; q < inputs; q++ {
		c.CX(q, anc)
	}
	for q, bit := range mask {
		if bit {
			c.X(q)
		}
	}
	c.Barrier()
	for q := 0; q < inputs; q++ {
		c.H(q)
	}
	c.Barrier()
	for q := 0; q < inputs; q++ {
		c.Measure(q, q)
	}
	return c, nil
}
