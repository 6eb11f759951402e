package circuit

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a dense square complex matrix. For multi-qubit gates the first
// operand is the most significant bit of the row/column index.
type Matrix [][]complex128

func NewMatrix(dim int) Matrix {
	m := make(Matrix, dim)
	for i := range m {
		m[i] = make([]complex128, dim)
	}
	return m
}

func Identity(dim int) Matrix {
	m := NewMatrix(dim)
	for i := range m {
		m[i][i] = 1
	}
	return m
}

func (m Matrix) Dim() int {
	return len(m)
}

// Mul returns m*o.
func (m Matrix) Mul(o Matrix) Matrix {
	n := m.Dim()
	res := NewMatrix(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if m[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				res[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return res
}

func (m Matrix) Dagger() Matrix {
	n := m.Dim()
	res := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			res[j][i] = cmplx.Conj(m[i][j])
		}
	}
	return res
}

// EqualUpToPhase reports whether m = e^{ia} o for some real a.
func (m Matrix) EqualUpToPhase(o Matrix, tol float64) bool {
	if m.Dim() != o.Dim() {
		return false
	}
	var phase complex128
	found := false
	for i := range m {
		for j := range m[i] {
			if cmplx.Abs(o[i][j]) > 1e-6 {
				phase = m[i][j] / o[i][j]
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return false
	}
	for i := range m {
		for j := range m[i] {
			if cmplx.Abs(m[i][j]-phase*o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// IsIdentityUpToPhase reports whether m is a global phase times the identity.
func (m Matrix) IsIdentityUpToPhase(tol float64) bool {
	return m.EqualUpToPhase(Identity(m.Dim()), tol)
}

// GateMatrix returns the unitary of a gate.
func GateMatrix(name string, params []float64) (Matrix, error) {
	spec, err := LookupGate(name)
	if err != nil {
		return nil, err
	}
	if !IsUnitary(name) {
		return nil, fmt.Errorf("%s has no unitary", name)
	}
	if len(params) != spec.NumParams {
		return nil, fmt.Errorf("%s takes %d parameters, got %d", name, spec.NumParams, len(params))
	}
	switch spec.NumQubits {
	case 1:
		return singleQubitMatrix(name, params), nil
	case 2:
		return twoQubitMatrix(name, params), nil
	default:
		return threeQubitMatrix(name), nil
	}
}

func singleQubitMatrix(name string, params []float64) Matrix {
	i := complex(0, 1)
	half := func(theta float64) (complex128, complex128) {
		return complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	}
	phase := func(a float64) complex128 { return cmplx.Exp(complex(0, a)) }
	r2 := complex(1/math.Sqrt2, 0)
	switch name {
	case "id":
		return Identity(2)
	case "x":
		return Matrix{{0, 1}, {1, 0}}
	case "y":
		return Matrix{{0, -i}, {i, 0}}
	case "z":
		return Matrix{{1, 0}, {0, -1}}
	case "h":
		return Matrix{{r2, r2}, {r2, -r2}}
	case "s":
		return Matrix{{1, 0}, {0, i}}
	case "sdg":
		return Matrix{{1, 0}, {0, -i}}
	case "t":
		return Matrix{{1, 0}, {0, phase(math.Pi / 4)}}
	case "tdg":
		return Matrix{{1, 0}, {0, phase(-math.Pi / 4)}}
	case "sx":
		return Matrix{{(1 + i) / 2, (1 - i) / 2}, {(1 - i) / 2, (1 + i) / 2}}
	case "sxdg":
		return Matrix{{(1 - i) / 2, (1 + i) / 2}, {(1 + i) / 2, (1 - i) / 2}}
	case "rx":
		c, s := half(params[0])
		return Matrix{{c, -i * s}, {-i * s, c}}
	case "ry":
		c, s := half(params[0])
		return Matrix{{c, -s}, {s, c}}
	case "rz":
		return Matrix{{phase(-params[0] / 2), 0}, {0, phase(params[0] / 2)}}
	case "p", "u1":
		return Matrix{{1, 0}, {0, phase(params[0])}}
	case "u2":
		return u3Matrix(math.Pi/2, params[0], params[1])
	case "u3":
		return u3Matrix(params[0], params[1], params[2])
	case "r":
		c, s := half(params[0])
		return Matrix{{c, -i * phase(-params[1]) * s}, {-i * phase(params[1]) * s, c}}
	}
	return Identity(2)
}

func u3Matrix(theta, phi, lambda float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{
		{c, -cmplx.Exp(complex(0, lambda)) * s},
		{cmplx.Exp(complex(0, phi)) * s, cmplx.Exp(complex(0, phi+lambda)) * c},
	}
}

func controlled(u Matrix) Matrix {
	m := Identity(4)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			m[2+r][2+c] = u[r][c]
		}
	}
	return m
}

func twoQubitMatrix(name string, params []float64) Matrix {
	i := complex(0, 1)
	switch name {
	case "cx":
		return controlled(singleQubitMatrix("x", nil))
	case "cy":
		return controlled(singleQubitMatrix("y", nil))
	case "cz":
		return controlled(singleQubitMatrix("z", nil))
	case "ch":
		return controlled(singleQubitMatrix("h", nil))
	case "cp":
		return controlled(singleQubitMatrix("p", params))
	case "crx":
		return controlled(singleQubitMatrix("rx", params))
	case "cry":
		return controlled(singleQubitMatrix("ry", params))
	case "crz":
		return controlled(singleQubitMatrix("rz", params))
	case "swap":
		return Matrix{{1, 0, 0, 0}, {0, 0, 1, 0}, {0, 1, 0, 0}, {0, 0, 0, 1}}
	case "rxx":
		c := complex(math.Cos(params[0]/2), 0)
		s := -i * complex(math.Sin(params[0]/2), 0)
		return Matrix{{c, 0, 0, s}, {0, c, s, 0}, {0, s, c, 0}, {s, 0, 0, c}}
	case "rzz":
		a := cmplx.Exp(complex(0, -params[0]/2))
		b := cmplx.Exp(complex(0, params[0]/2))
		return Matrix{{a, 0, 0, 0}, {0, b, 0, 0}, {0, 0, b, 0}, {0, 0, 0, a}}
	case "ecr":
		s := complex(1/math.Sqrt2, 0)
		return Matrix{{0, 0, s, i * s}, {0, 0, i * s, s}, {s, -i * s, 0, 0}, {-i * s, s, 0, 0}}
	}
	return Identity(4)
}

func threeQubitMatrix(name string) Matrix {
	m := Identity(8)
	switch name {
	case "ccx":
		m[6][6], m[7][7] = 0, 0
		m[6][7], m[7][6] = 1, 1
	case "cswap":
		m[5][5], m[6][6] = 0, 0
		m[5][6], m[6][5] = 1, 1
	}
	return m
}

const halfPi = math.Pi / 2
