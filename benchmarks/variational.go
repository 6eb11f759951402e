package benchmarks

import (
	"math"
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

// ansatzReps is the number of entangling blocks of the variational forms.
const ansatzReps = 3

// qaoaLayers is the number of cost and mixer layers of qaoa.
const qaoaLayers = 2

func randomAngle(rng *rand.Rand) float64 {
	return 2 * math.Pi * rng.Float64()
}

// qaoa solves max-cut on a random regular graph with seeded angles.
func qaoa(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	edges := regularGraph(n, rng)
	c := circuit.New("qaoa", n, 0)
	for q := 0; q < n; q++ {
		c.H(q)
	}
	for l := 0; l < qaoaLayers; l++ {
		gamma, beta := randomAngle(rng), randomAngle(rng)
		for _, e := range edges {
			c.Add("rzz", []int{e[0], e[1]}, 2*gamma)
		}
		for q := 0; q < n; q++ {
			c.RX(2*beta, q)
		}
	}
	return c.MeasureAll(), nil
}

type entanglement func(n int) [][2]int

func reverseLinear(n int) [][2]int {
	var pairs [][2]int
	for i := n - 2; i >= 0; i-- {
		pairs = append(pairs, [2]int{i, i + 1})
	}
	return pairs
}

func full(n int) [][2]int {
	var pairs [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// ansatz builds rotation layers of the given gates interleaved with
// entangling layers and a final rotation layer, all angles drawn from rng.
func ansatz(name string, n int, rng *rand.Rand, rotations []string, entangler string, ent entanglement) *circuit.Circuit {
	c := circuit.New(name, n, 0)
	rotate := func() {
		for _, g := range rotations {
			for q := 0; q < n; q++ {
				c.Add(g, []int{q}, randomAngle(rng))
			}
		}
	}
	for r := 0; r < ansatzReps; r++ {
		rotate()
		for _, p := range ent(n) {
			c.Add(entangler, []int{p[0], p[1]})
		}
		c.Barrier()
	}
	rotate()
	return c.MeasureAll()
}

func realAmplitudes(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	return ansatz("realamprandom", n, rng, []string{"ry"}, "cx", reverseLinear), nil
}

func efficientSU2(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	return ansatz("su2random", n, rng, []string{"ry", "rz"}, "cx", reverseLinear), nil
}

func twoLocal(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	return ansatz("twolocalrandom", n, rng, []string{"ry"}, "cz", full), nil
}

// qnnFeatureReps is the number of repetitions of the zz feature map of qnn.
const qnnFeatureReps = 2

// qnn encodes a random input with a zz feature map and classifies it with
// one block of real amplitudes.
func qnn(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	x := make([]float64, n)
	for i := range x {
		x[i] = randomAngle(rng) / 2
	}
	c := circuit.New("qnn", n, 0)
	for r := 0; r < qnnFeatureReps; r++ {
		for q := 0; q < n; q++ {
			c.H(q)
			c.P(2*x[q], q)
		}
		for _, p := range full(n) {
			c.CX(p[0], p[1])
			c.P(2*(math.Pi-x[p[0]])*(math.Pi-x[p[1]]), p[1])
			c.CX(p[0], p[1])
		}
	}
	c.Barrier()
	for q := 0; q < n; q++ {
		c.RY(randomAngle(rng), q)
	}
	for _, p := range reverseLinear(n) {
		c.CX(p[0], p[1])
	}
	for q := 0; q < n; q++ {
		c.RY(randomAngle(rng), q)
	}
	return c.MeasureAll(), nil
}
