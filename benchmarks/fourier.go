package benchmarks

import (
	"math"
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

// appendQFT applies the quantum Fourier transform, final swaps included, to
// the qubits in order of significance (qubits[0] least significant).
func appendQFT(c *circuit.Circuit, qubits []int) {
	n := len(qubits)
	for j := n - 1; j >= 0; j-- {
		c.H(qubits[j])
		for k := j - 1; k >= 0; k-- {
			c.CP(math.Pi/math.Pow(2, float64(j-k)), qubits[k], qubits[j])
		}
	}
	for i := 0; i < n/2; i++ {
		c.Swap(qubits[i], qubits[n-1-i])
	}
}

func appendInverseQFT(c *circuit.Circuit, qubits []int) error {
	f := circuit.New("qft", len(qubits), 0)
	appendQFT(f, index(len(qubits)))
	if err := f.Err(); err != nil {
		return err
	}
	inv, err := f.Inverse()
	if err != nil {
		return err
	}
	return c.Compose(inv, qubits)
}

func index(n int) []int {
	qs := make([]int, n)
	for i := range qs {
		qs[i] = i
	}
	return qs
}

func qft(n int, _ *rand.Rand) (*circuit.Circuit, error) {
	c := circuit.New("qft", n, 0)
	appendQFT(c, index(n))
	return c.MeasureAll(), nil
}

// qftEntangled transforms a GHZ state.
func qftEntangled(n int, _ *rand.Rand) (*circuit.Circuit, error) {
	c := circuit.New("qftentangled", n, 0)
	c.H(n - 1)
	for i := 1; i < n; i++ {
		c.CX(n-i, n-i-1)
	}
	appendQFT(c, index(n))
	return c.MeasureAll(), nil
}

// qpe estimates the eigenphase theta of p(2 pi theta) on the last qubit with
// the first n-1 qubits as counting register.
func qpe(name string, n int, theta float64) (*circuit.Circuit, error) {
	counting := n - 1
	target := n - 1
	c := circuit.New(name, n, counting)
	c.X(target)
	for q := 0; q < counting; q++ {
		c.H(q)
	}
	for q := 0; q < counting; q++ {
		c.CP(2*math.Pi*theta*math.Pow(2, float64(q)), q, target)
	}
	if err := appendInverseQFT(c, index(counting)); err != nil {
		return nil, err
	}
	c.Barrier()
	for q := 0; q < counting; q++ {
		c.Measure(q, q)
	}
	return c, nil
}

// maxPhaseNumerator bounds the drawn phase numerators so that 1<<digits
// never overflows.
const maxPhaseNumerator = 1 << 30

// qpeExact draws a phase with n-1 binary digits, which the counting
// register represents exactly.
func qpeExact(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	digits := n - 1
	k := 1 + rng.Intn(numerators(digits)-1)
	return qpe("qpeexact", n, float64(k)/math.Pow(2, float64(digits)))
}

// qpeInexact draws a phase halfway between two values the counting register
// can represent.
func qpeInexact(n int, rng *rand.Rand) (*circuit.Circuit, error) {
	digits := n - 1
	k := rng.Intn(numerators(digits))
	return qpe("qpeinexact", n, (float64(k)+0.5)/math.Pow(2, float64(digits)))
}

func numerators(digits int) int {
	if digits >= 30 {
		return maxPhaseNumerator
	}
	return 1 << digits
}
