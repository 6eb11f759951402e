package benchmarks

import (
	"math"
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

func ghz(n int, _ *rand.Rand) (*circuit.Circuit, error) {
	c := circuit.New("ghz", n, 0)
	c.H(n - 1)
	for i := 1; i < n; i++ {
		c.CX(n-i, n-i-1)
	}
	return c.MeasureAll(), nil
}

// wState moves a single excitation down the register, leaving amplitude
// 1/sqrt(n) behind on every qubit.
func wState(n int, _ *rand.Rand) (*circuit.Circuit, error) {
	c := circuit.New("wstate", n, 0)
	c.X(0)
	for i := 0; i < n-1; i++ {
		theta := 2 * math.Acos(math.Sqrt(1/float64(n-i)))
		c.Add("cry", []int{i, i + 1}, theta)
		c.CX(i+1, i)
	}
	return c.MeasureAll(), nil
}

func graphState(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	c := circuit.New("graphstate", n, 0)
	for q := 0; q < n; q++ {
		c.H(q)
	}
	for _, e := range regularGraph(n, rng) {
		c.CZ(e[0], e[1])
	}
	return c.MeasureAll(), nil
}

// regularGraph returns a randomly labelled regular graph: a Moebius ladder
// (degree 3) for even n >= 4 and a ring (degree 2) otherwise.
func regularGraph(n int, rng *rand.Rand) [][2]int {
	perm := rng.Perm(n)
	var edges [][2]int
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int{perm[i], perm[(i+1)%n]})
	}
	if n%2 == 0 && n >= 4 {
		for i := 0; i < n/2; i++ {
			edges = append(edges, [2]int{perm[i], perm[i+n/2]})
		}
	}
	for i, e := range edges {
		if e[0] > e[1] {
			edges[i] = [2]int{e[1], e[0]}
		}
	}
	return edges
}
