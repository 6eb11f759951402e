package benchmarks

import (
	"math"
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

// aeProbability is the success probability of the Bernoulli variable whose
// amplitude ae estimates.
const aeProbability = 0.2

// amplitudeEstimation estimates the amplitude prepared by ry(theta) on the
// last qubit with n-1 evaluation qubits. The Grover operator of that problem
// is ry(2 theta), so its powers are controlled ry rotations.
func amplitudeEstimation(n int, _ *rand.Rand) (*circuit.Circuit, error) {
	eval := n - 1
	objective := n - 1
	theta := 2 * math.Asin(math.Sqrt(aeProbability))
	c := circuit.New("ae", n, 0)
	c.RY(theta, objective)
	for q := 0; q < eval; q++ {
		c.H(q)
	}
	for q := 0; q < eval; q++ {
		c.Add("cry", []int{q, objective}, math.Pow(2, float64(q))*2*theta)
	}
	if err := appendInverseQFT(c, index(eval)); err != nil {
		return nil, err
	}
	return c.MeasureAll(), nil
}

// groverIterations is the optimal number of iterations for a single marked
// element among 2^k.
func groverIterations(k int) int {
	angle := math.Asin(math.Sqrt(1 / math.Pow(2, float64(k))))
	return int(math.Floor(math.Pi/(4*angle) + 1e-9))
}

// grover searches the all-ones string of the first n-1 qubits. The last
// qubit is the |1> flag of the phase oracle; the v-chain variant appends
// ancillas for its multi-controlled gates.
func grover(name string, vChain bool) buildFunc {
	return func(n int, _ *rand.Rand) (*circuit.Circuit, error) {
		k := n - 1
		search := index(k)
		flag := k
		width := n
		var mc multiControl
		if vChain {
			mc.ancillas = span(n, vChainAncillas(n))
			width += len(mc.ancillas)
		}
		c := circuit.New(name, width, 0)
		for _, q := range search {
			c.H(q)
		}
		c.X(flag)
		for i := 0; i < groverIterations(k); i++ {
			c.Barrier()
			mc.phase(c, math.Pi, search, flag)
			for _, q := range search {
				c.H(q)
				c.X(q)
			}
			mc.phase(c, math.Pi, search[:k-1], search[k-1])
			for _, q := range search {
				c.X(q)
				c.H(q)
			}
		}
		return c.MeasureAll(), nil
	}
}
