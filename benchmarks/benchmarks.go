package benchmarks

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"go.uber.org/zap"
)

// Seed makes every random benchmark reproducible.
const Seed = 10

var ErrUnknownBenchmark = errors.New("unknown benchmark")

type buildFunc func(n int, rng *rand.Rand) (*circuit.Circuit, error)

// Benchmark is an algorithm-level circuit family indexed by qubit count.
type Benchmark struct {
	Name      string
	MinQubits int
	Random    bool
	build     buildFunc
	// ancillas returns the qubits added to n by the construction
	ancillas func(n int) int
}

var registry = map[string]*Benchmark{}

// aliases of the registry names, keyed by their normalized form
var aliases = map[string]string{}

func register(b *Benchmark, alias ...string) {
	registry[b.Name] = b
	aliases[common.NormalizeName(b.Name)] = b.Name
	for _, a := range alias {
		aliases[common.NormalizeName(a)] = b.Name
	}
}

func init() {
	register(&Benchmark{Name: "ae", MinQubits: 2, build: amplitudeEstimation})
	register(&Benchmark{Name: "bv", MinQubits: 2, Random: true, build: bernsteinVazirani})
	register(&Benchmark{Name: "dj", MinQubits: 2, Random: true, build: deutschJozsa})
	register(&Benchmark{Name: "ghz", MinQubits: 2, build: ghz})
	register(&Benchmark{Name: "graphstate", MinQubits: 3, Random: true, build: graphState})
	register(&Benchmark{Name: "grover-noancilla", MinQubits: 2, build: grover("grover-noancilla", false)})
	register(&Benchmark{Name: "grover-v-chain", MinQubits: 2, build: grover("grover-v-chain", true), ancillas: vChainAncillas})
	register(&Benchmark{Name: "qaoa", MinQubits: 3, Random: true, build: qaoa})
	register(&Benchmark{Name: "qft", MinQubits: 1, build: qft})
	register(&Benchmark{Name: "qftentangled", MinQubits: 2, build: qftEntangled})
	register(&Benchmark{Name: "qnn", MinQubits: 2, Random: true, build: qnn})
	register(&Benchmark{Name: "qpeexact", MinQubits: 2, Random: true, build: qpeExact})
	register(&Benchmark{Name: "qpeinexact", MinQubits: 2, Random: true, build: qpeInexact})
	register(&Benchmark{Name: "qwalk-noancilla", MinQubits: 3, build: qwalk("qwalk-noancilla", false)})
	register(&Benchmark{Name: "qwalk-v-chain", MinQubits: 3, build: qwalk("qwalk-v-chain", true), ancillas: vChainAncillas})
	register(&Benchmark{Name: "randomcircuit", MinQubits: 1, Random: true, build: randomCircuit})
	register(&Benchmark{Name: "realamprandom", MinQubits: 2, Random: true, build: realAmplitudes}, "vqerealamprandom")
	register(&Benchmark{Name: "su2random", MinQubits: 2, Random: true, build: efficientSU2}, "vqesu2random")
	register(&Benchmark{Name: "twolocalrandom", MinQubits: 2, Random: true, build: twoLocal}, "vqetwolocalrandom")
	register(&Benchmark{Name: "wstate", MinQubits: 2, build: wState})
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup accepts registry names and their aliases in any case, with or
// without separators.
func Lookup(name string) (*Benchmark, error) {
	canonical, ok := aliases[common.NormalizeName(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBenchmark, "%q, supported: %v", name, Names())
	}
	return registry[canonical], nil
}

// Qubits is the width of the circuit created for n, which exceeds n for
// constructions with ancillas.
func (b *Benchmark) Qubits(n int) int {
	if b.ancillas == nil {
		return n
	}
	return n + b.ancillas(n)
}

// Create builds the algorithm-level circuit of the benchmark on n qubits.
func (b *Benchmark) Create(n int) (*circuit.Circuit, error) {
	if n < b.MinQubits {
		return nil, fmt.Errorf("%s needs at least %d qubits, got %d", b.Name, b.MinQubits, n)
	}
	c, err := b.build(n, newRand())
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to build %s with %d qubits/reason:%s", b.Name, n, err))
		return nil, err
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(Seed))
}

func Create(name string, n int) (*circuit.Circuit, error) {
	b, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.Create(n)
}
