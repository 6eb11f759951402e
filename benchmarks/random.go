package benchmarks

import (
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/samber/lo"
)

var randomCircuitGates = [][]string{
	{"id", "x", "y", "z", "h", "s", "sdg", "t", "tdg", "sx", "rx", "ry", "rz", "p", "u3"},
	{"cx", "cy", "cz", "ch", "swap", "cp", "crx", "cry", "crz", "rxx", "rzz"},
	{"ccx", "cswap"},
}

// randomCircuit fills 2n layers. Each layer shuffles the qubits and covers
// them with gates of random width and random angles.
func randomCircuit(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	c := circuit.New("randomcircuit", n, 0)
	for layer := 0; layer < 2*n; layer++ {
		qubits := rng.Perm(n)
		for len(qubits) > 0 {
			width := 1 + rng.Intn(lo.Min([]int{len(qubits), len(randomCircuitGates)}))
			names := randomCircuitGates[width-1]
			name := names[rng.Intn(len(names))]
			spec, err := circuit.LookupGate(name)
			if err != nil {
				return nil, err
			}
			params := make([]float64, spec.NumParams)
			for i := range params {
				params[i] = randomAngle(rng)
			}
			c.Add(name, qubits[:width], params...)
			qubits = qubits[width:]
		}
	}
	return c.MeasureAll(), nil
}
