package circuit

import "fmt"

// MaxSimulatedQubits bounds Statevector and Unitary.
const MaxSimulatedQubits = 12

// Statevector applies the unitary part of the circuit to |0...0>. Qubit i
// is bit i of the basis index. Barriers are skipped; measurements and resets
// are rejected.
func (c *Circuit) Statevector() ([]complex128, error) {
	if c.NumQubits > MaxSimulatedQubits {
		return nil, fmt.Errorf("%d qubits exceed the simulation limit of %d", c.NumQubits, MaxSimulatedQubits)
	}
	state := make([]complex128, 1<<c.NumQubits)
	state[0] = 1
	if err := c.apply(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Unitary returns the circuit matrix in the same basis ordering as
// Statevector.
func (c *Circuit) Unitary() (Matrix, error) {
	if c.NumQubits > MaxSimulatedQubits {
		return nil, fmt.Errorf("%d qubits exceed the simulation limit of %d", c.NumQubits, MaxSimulatedQubits)
	}
	dim := 1 << c.NumQubits
	u := NewMatrix(dim)
	for col := 0; col < dim; col++ {
		state := make([]complex128, dim)
		state[col] = 1
		if err := c.apply(state); err != nil {
			return nil, err
		}
		for row := 0; row < dim; row++ {
			u[row][col] = state[row]
		}
	}
	return u, nil
}

func (c *Circuit) apply(state []complex128) error {
	for _, inst := range c.Instructions {
		if inst.Name == Barrier {
			continue
		}
		m, err := GateMatrix(inst.Name, inst.Params)
		if err != nil {
			return err
		}
		applyMatrix(state, m, inst.Qubits)
	}
	return nil
}

func applyMatrix(state []complex128, m Matrix, qubits []int) {
	k := len(qubits)
	local := 1 << k
	var mask int
	for _, q := range qubits {
		mask |= 1 << q
	}
	idx := make([]int, local)
	amp := make([]complex128, local)
	for base := 0; base < len(state); base++ {
		if base&mask != 0 {
			continue
		}
		for l := 0; l < local; l++ {
			g := base
			for j, q := range qubits {
				// first operand is the most significant local bit
				if l&(1<<(k-1-j)) != 0 {
					g |= 1 << q
				}
			}
			idx[l] = g
			amp[l] = state[g]
		}
		for r := 0; r < local; r++ {
			var v complex128
			for l := 0; l < local; l++ {
				v += m[r][l] * amp[l]
			}
			state[idx[r]] = v
		}
	}
}
