package transpiler

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/samber/lo"
)

const tolerance = 1e-9

// Euler forms used to rebuild single-qubit unitaries. EulerZSX emits rz, sx
// and x; EulerR emits only r.
const (
	EulerU3  = "u3"
	EulerZSX = "zsx"
	EulerZYZ = "zyz"
	EulerZXZ = "zxz"
	EulerR   = "r"
)

// Basis is a target gate set: the single-qubit gates are rebuilt with one
// Euler form and every two-qubit interaction is expressed with one gate.
type Basis struct {
	Gates       []string
	Euler       string
	TwoQubit    string
	gateLookups map[string]struct{}
}

// IndependentBasis keeps every single-qubit gate and cx.
func IndependentBasis() *Basis {
	gates := lo.Filter(circuit.GateNames(), func(g string, _ int) bool {
		spec, _ := circuit.LookupGate(g)
		return spec.NumQubits == 1 || g == "cx" || !circuit.IsUnitary(g)
	})
	return newBasis(gates, EulerU3, "cx")
}

// NewBasis derives the Euler form and the entangling gate from a native gate
// list such as a provider's.
func NewBasis(gates []string) (*Basis, error) {
	has := lo.SliceToMap(gates, func(g string) (string, struct{}) { return g, struct{}{} })
	in := func(names ...string) bool {
		for _, n := range names {
			if _, ok := has[n]; !ok {
				return false
			}
		}
		return true
	}
	var euler string
	switch {
	case in("rz", "sx", "x"):
		euler = EulerZSX
	case in("rz", "ry"):
		euler = EulerZYZ
	case in("rz", "rx"):
		euler = EulerZXZ
	case in("r"):
		euler = EulerR
	case in("u3"):
		euler = EulerU3
	default:
		return nil, fmt.Errorf("no single-qubit synthesis for gate set %v", gates)
	}
	twoQ, ok := lo.Find([]string{"cx", "cz", "ecr", "rxx", "rzz"}, func(g string) bool { return in(g) })
	if !ok {
		return nil, fmt.Errorf("no supported two-qubit gate in gate set %v", gates)
	}
	return newBasis(gates, euler, twoQ), nil
}

func newBasis(gates []string, euler, twoQ string) *Basis {
	sorted := append([]string{}, gates...)
	sort.Strings(sorted)
	return &Basis{
		Gates:       sorted,
		Euler:       euler,
		TwoQubit:    twoQ,
		gateLookups: lo.SliceToMap(sorted, func(g string) (string, struct{}) { return g, struct{}{} }),
	}
}

// Contains reports whether the gate is part of the basis. Barriers and
// measurements always are.
func (b *Basis) Contains(name string) bool {
	if !circuit.IsUnitary(name) {
		return true
	}
	_, ok := b.gateLookups[name]
	return ok
}

// Synthesize returns gates on qubit q implementing m up to global phase. An
// identity yields no gates.
func (b *Basis) Synthesize(m circuit.Matrix, q int) []circuit.Instruction {
	theta, phi, lambda := EulerAngles(m)
	g := func(name string, params ...float64) circuit.Instruction {
		return circuit.Instruction{Name: name, Qubits: []int{q}, Params: params}
	}
	var res []circuit.Instruction
	rz := func(a float64) {
		if a = wrapAngle(a); !isZero(a) {
			res = append(res, g("rz", a))
		}
	}
	if isZero(theta) {
		if isZero(wrapAngle(phi + lambda)) {
			return nil
		}
		switch b.Euler {
		case EulerU3:
			return []circuit.Instruction{g("u3", 0, 0, wrapAngle(phi+lambda))}
		case EulerR:
			// rz(a) = r(pi, 0) r(pi, a/2) up to phase
			return []circuit.Instruction{g("r", math.Pi, 0), g("r", math.Pi, wrapAngle(phi+lambda)/2)}
		default:
			rz(phi + lambda)
			return res
		}
	}
	switch b.Euler {
	case EulerU3:
		res = append(res, g("u3", theta, wrapAngle(phi), wrapAngle(lambda)))
	case EulerZYZ:
		rz(lambda)
		res = append(res, g("ry", theta))
		rz(phi)
	case EulerZXZ:
		rz(lambda - math.Pi/2)
		res = append(res, g("rx", theta))
		rz(phi + math.Pi/2)
	case EulerZSX:
		switch {
		case isZero(theta - math.Pi):
			rz(lambda + math.Pi)
			res = append(res, g("x"))
			rz(phi)
		case isZero(theta - math.Pi/2):
			rz(lambda - math.Pi/2)
			res = append(res, g("sx"))
			rz(phi + math.Pi/2)
		default:
			rz(lambda)
			res = append(res, g("sx"))
			rz(theta + math.Pi)
			res = append(res, g("sx"))
			rz(phi + math.Pi)
		}
	case EulerR:
		if a := wrapAngle(phi + lambda); !isZero(a) {
			res = append(res, g("r", math.Pi, 0), g("r", math.Pi, a/2))
		}
		res = append(res, g("r", theta, wrapAngle(phi+math.Pi/2)))
	}
	return res
}

// EulerAngles returns theta, phi, lambda with m = u3(theta, phi, lambda) up to
// global phase, that is rz(lambda), ry(theta), rz(phi) in time order.
func EulerAngles(m circuit.Matrix) (theta, phi, lambda float64) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	s := cmplx.Sqrt(det)
	v00, v10, v11 := m[0][0]/s, m[1][0]/s, m[1][1]/s
	theta = 2 * math.Atan2(cmplx.Abs(v10), cmplx.Abs(v00))
	var sum, diff float64
	if cmplx.Abs(v11) > 1e-12 {
		sum = 2 * cmplx.Phase(v11)
	}
	if cmplx.Abs(v10) > 1e-12 {
		diff = 2 * cmplx.Phase(v10)
	}
	phi = (sum + diff) / 2
	lambda = (sum - diff) / 2
	return theta, phi, lambda
}

// wrapAngle maps an angle into (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	if math.Abs(a-math.Pi) < tolerance {
		return math.Pi
	}
	return a
}

func isZero(a float64) bool {
	return math.Abs(a) < tolerance
}
