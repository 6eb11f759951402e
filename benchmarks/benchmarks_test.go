//go:build unit
// +build unit

package benchmarks

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitaryPart(t *testing.T, c *circuit.Circuit) []complex128 {
	t.Helper()
	sv, err := c.Without(circuit.Measure, circuit.Barrier).Statevector()
	require.NoError(t, err)
	return sv
}

func TestCreateAll(t *testing.T) {
	for _, name := range Names() {
		b, err := Lookup(name)
		require.NoError(t, err)
		for _, n := range []int{b.MinQubits, 5} {
			c, err := Create(name, n)
			require.NoError(t, err, "%s with %d qubits", name, n)
			assert.Equal(t, b.Qubits(n), c.NumQubits)
			assert.Equal(t, name, c.Name)
			assert.NotEmpty(t, c.Draw())
			assert.Equal(t, circuit.Measure, c.Instructions[len(c.Instructions)-1].Name)
		}
		_, err = b.Create(b.MinQubits - 1)
		assert.Error(t, err, name)
	}
	assert.Len(t, Names(), 20)
}

func TestRandomBenchmarksAreReproducible(t *testing.T) {
	for _, name := range Names() {
		b, err := Lookup(name)
		require.NoError(t, err)
		if !b.Random {
			continue
		}
		first, err := b.Create(4)
		require.NoError(t, err)
		second, err := b.Create(4)
		require.NoError(t, err)
		assert.Equal(t, first.Instructions, second.Instructions, name)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ghz", want: "ghz"},
		{in: "GHZ", want: "ghz"},
		{in: "vqe-real-amp-random", want: "realamprandom"},
		{in: "vqesu2random", want: "su2random"},
		{in: "qft_entangled", want: "qftentangled"},
		{in: "grover_v_chain", want: "grover-v-chain"},
		{in: "QWalk-NoAncilla", want: "qwalk-noancilla"},
		{in: "shor", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, err := Lookup(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownBenchmark))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Name)
		})
	}
}

func TestGHZState(t *testing.T) {
	c, err := Create("ghz", 4)
	require.NoError(t, err)
	sv := unitaryPart(t, c)
	for i, amp := range sv {
		want := 0.0
		if i == 0 || i == len(sv)-1 {
			want = 1 / math.Sqrt2
		}
		assert.InDelta(t, want, cmplx.Abs(amp), 1e-9, "basis %d", i)
	}
}

func TestWState(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		c, err := Create("wstate", n)
		require.NoError(t, err)
		sv := unitaryPart(t, c)
		for i, amp := range sv {
			want := 0.0
			if i != 0 && i&(i-1) == 0 {
				want = 1 / math.Sqrt(float64(n))
			}
			assert.InDelta(t, want, cmplx.Abs(amp), 1e-9, "n=%d basis %d", n, i)
		}
	}
}

// probability of the counting register value, ancilla traced out
func countingProbabilities(sv []complex128, counting int) []float64 {
	probs := make([]float64, 1<<counting)
	mask := 1<<counting - 1
	for i, amp := range sv {
		probs[i&mask] += real(amp * cmplx.Conj(amp))
	}
	return probs
}

func TestQPEExactFindsPhase(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		c, err := Create("qpeexact", n)
		require.NoError(t, err)
		probs := countingProbabilities(unitaryPart(t, c), n-1)
		peak := 0.0
		for _, p := range probs {
			peak = math.Max(peak, p)
		}
		assert.InDelta(t, 1.0, peak, 1e-9, "n=%d", n)
	}
}

func TestQPEInexactSpreads(t *testing.T) {
	c, err := Create("qpeinexact", 4)
	require.NoError(t, err)
	probs := countingProbabilities(unitaryPart(t, c), 3)
	for _, p := range probs {
		assert.Less(t, p, 0.99)
	}
}

func TestOracleBenchmarksAreDeterministic(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"bv", 4},
		{"dj", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Create(tt.name, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.n-1, c.NumClbits)
			probs := countingProbabilities(unitaryPart(t, c), tt.n-1)
			peak := 0.0
			for _, p := range probs {
				peak = math.Max(peak, p)
			}
			assert.InDelta(t, 1.0, peak, 1e-9)
			// a balanced oracle never yields all zeros
			if tt.name == "dj" {
				assert.InDelta(t, 0.0, probs[0], 1e-9)
			}
		})
	}
}

func TestRegularGraph(t *testing.T) {
	tests := []struct {
		n          int
		wantDegree int
	}{
		{3, 2},
		{4, 3},
		{5, 2},
		{8, 3},
	}
	for _, tt := range tests {
		edges := regularGraph(tt.n, newRand())
		degree := make([]int, tt.n)
		seen := map[[2]int]bool{}
		for _, e := range edges {
			assert.Less(t, e[0], e[1])
			assert.False(t, seen[e], "duplicate edge %v", e)
			seen[e] = true
			degree[e[0]]++
			degree[e[1]]++
		}
		for q, d := range degree {
			assert.Equal(t, tt.wantDegree, d, "n=%d qubit %d", tt.n, q)
		}
	}
}

func TestQubits(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"ghz", 5, 5},
		{"grover-noancilla", 5, 5},
		{"grover-v-chain", 3, 3},
		{"grover-v-chain", 5, 7},
		{"qwalk-v-chain", 6, 9},
	}
	for _, tt := range tests {
		b, err := Lookup(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, b.Qubits(tt.n), "%s with %d qubits", tt.name, tt.n)
	}
}

func TestMultiControlledPhase(t *testing.T) {
	tests := []struct {
		name     string
		controls int
		ancillas []int
	}{
		{"one control", 1, nil},
		{"two controls", 2, nil},
		{"three controls", 3, nil},
		{"four controls", 4, nil},
		{"three controls with ancilla", 3, []int{4}},
		{"four controls with ancillas", 4, []int{5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.controls
			width := tt.controls + 1 + len(tt.ancillas)
			c := circuit.New("mcp", width, 0)
			for q := 0; q <= target; q++ {
				c.H(q)
			}
			multiControl{ancillas: tt.ancillas}.phase(c, math.Pi, index(tt.controls), target)
			require.NoError(t, c.Err())
			sv, err := c.Statevector()
			require.NoError(t, err)
			amp := 1 / math.Sqrt(float64(int(1)<<(target+1)))
			all := 1<<(target+1) - 1
			for i, a := range sv {
				want := complex(0, 0)
				switch {
				case i > all:
				case i == all:
					want = complex(-amp, 0)
				default:
					want = complex(amp, 0)
				}
				assert.InDelta(t, 0.0, cmplx.Abs(a-want), 1e-9, "basis %d", i)
			}
		})
	}
}

func TestMultiControlledX(t *testing.T) {
	for _, ancillas := range [][]int{nil, {5, 6}} {
		for _, input := range []int{0b1111, 0b0111, 0b1011} {
			c := circuit.New("mcx", 5+len(ancillas), 0)
			for q := 0; q < 4; q++ {
				if input>>q&1 == 1 {
					c.X(q)
				}
			}
			multiControl{ancillas: ancillas}.x(c, index(4), 4)
			sv, err := c.Statevector()
			require.NoError(t, err)
			want := input
			if input == 0b1111 {
				want |= 1 << 4
			}
			assert.InDelta(t, 1.0, cmplx.Abs(sv[want]), 1e-9, "input %b ancillas %v", input, ancillas)
		}
	}
}

func TestGroverFindsMarkedElement(t *testing.T) {
	for _, name := range []string{"grover-noancilla", "grover-v-chain"} {
		for _, n := range []int{3, 4, 5} {
			c, err := Create(name, n)
			require.NoError(t, err)
			sv := unitaryPart(t, c)
			// search register and flag all set, ancillas returned to zero
			marked := 1<<n - 1
			p := real(sv[marked] * cmplx.Conj(sv[marked]))
			assert.Greater(t, p, 0.9, "%s with %d qubits", name, n)
			for i := range sv {
				if i>>n != 0 {
					assert.InDelta(t, 0.0, cmplx.Abs(sv[i]), 1e-9, "%s basis %d", name, i)
				}
			}
		}
	}
}

func TestGroverIterations(t *testing.T) {
	tests := []struct {
		k    int
		want int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 3},
		{6, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groverIterations(tt.k), "k=%d", tt.k)
	}
}

func TestIncrementMovesWalker(t *testing.T) {
	const nodes = 3
	coin := nodes
	for _, ancillas := range [][]int{nil, {4}} {
		for v := 0; v < 1<<nodes; v++ {
			c := circuit.New("increment", nodes+1+len(ancillas), 0)
			c.X(coin)
			// qubit nodes-1 holds the least significant bit
			for b := 0; b < nodes; b++ {
				if v>>b&1 == 1 {
					c.X(nodes - 1 - b)
				}
			}
			appendIncrement(c, multiControl{ancillas: ancillas}, coin, nodes)
			sv, err := c.Statevector()
			require.NoError(t, err)
			next := (v + 1) % (1 << nodes)
			want := 1 << coin
			for b := 0; b < nodes; b++ {
				if next>>b&1 == 1 {
					want |= 1 << (nodes - 1 - b)
				}
			}
			assert.InDelta(t, 1.0, cmplx.Abs(sv[want]), 1e-9, "node %d ancillas %v", v, ancillas)
		}
	}
}

func TestQWalkKeepsAncillasClean(t *testing.T) {
	c, err := Create("qwalk-v-chain", 5)
	require.NoError(t, err)
	sv := unitaryPart(t, c)
	total := 0.0
	for i, a := range sv {
		if i>>5 == 0 {
			total += real(a * cmplx.Conj(a))
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestAmplitudeEstimation(t *testing.T) {
	const eval = 4
	c, err := Create("ae", eval+1)
	require.NoError(t, err)
	probs := countingProbabilities(unitaryPart(t, c), eval)
	best := 0
	for y, p := range probs {
		if p > probs[best] {
			best = y
		}
	}
	estimate := math.Pow(math.Sin(math.Pi*float64(best)/(1<<eval)), 2)
	assert.InDelta(t, aeProbability, estimate, 0.1)
}

func TestQNNFeatureMap(t *testing.T) {
	c, err := Create("qnn", 3)
	require.NoError(t, err)
	counts := c.CountOps()
	// two repetitions of three pairs with two cx each, then one linear block
	assert.Equal(t, 2*3*2+2, counts["cx"])
	assert.Equal(t, 2*3, counts["h"])
	sv := unitaryPart(t, c)
	norm := 0.0
	for _, a := range sv {
		norm += real(a * cmplx.Conj(a))
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}
