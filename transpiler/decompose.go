package transpiler

import (
	"fmt"
	"math"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

type rule func(q []int, p []float64) []circuit.Instruction

func gate(name string, qubits []int, params ...float64) circuit.Instruction {
	return circuit.Instruction{Name: name, Qubits: qubits, Params: params}
}

func on(qs ...int) []int {
	return qs
}

// decompositionRules express multi-qubit gates with single-qubit gates and
// cx. Gates are listed in time order.
var decompositionRules = map[string]rule{
	"cz": func(q []int, _ []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{gate("h", on(b)), gate("cx", on(a, b)), gate("h", on(b))}
	},
	"cy": func(q []int, _ []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{gate("sdg", on(b)), gate("cx", on(a, b)), gate("s", on(b))}
	},
	"ch": func(q []int, _ []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{
			gate("s", on(b)), gate("h", on(b)), gate("t", on(b)),
			gate("cx", on(a, b)),
			gate("tdg", on(b)), gate("h", on(b)), gate("sdg", on(b)),
		}
	},
	"swap": func(q []int, _ []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{gate("cx", on(a, b)), gate("cx", on(b, a)), gate("cx", on(a, b))}
	},
	"cp": func(q []int, p []float64) []circuit.Instruction {
		a, b, l := q[0], q[1], p[0]
		return []circuit.Instruction{
			gate("p", on(a), l/2),
			gate("cx", on(a, b)),
			gate("p", on(b), -l/2),
			gate("cx", on(a, b)),
			gate("p", on(b), l/2),
		}
	},
	"crz": func(q []int, p []float64) []circuit.Instruction {
		a, b, l := q[0], q[1], p[0]
		return []circuit.Instruction{
			gate("rz", on(b), l/2), gate("cx", on(a, b)), gate("rz", on(b), -l/2), gate("cx", on(a, b)),
		}
	},
	"cry": func(q []int, p []float64) []circuit.Instruction {
		a, b, l := q[0], q[1], p[0]
		return []circuit.Instruction{
			gate("ry", on(b), l/2), gate("cx", on(a, b)), gate("ry", on(b), -l/2), gate("cx", on(a, b)),
		}
	},
	"crx": func(q []int, p []float64) []circuit.Instruction {
		a, b, l := q[0], q[1], p[0]
		return []circuit.Instruction{
			gate("h", on(b)),
			gate("rz", on(b), l/2), gate("cx", on(a, b)), gate("rz", on(b), -l/2), gate("cx", on(a, b)),
			gate("h", on(b)),
		}
	},
	"rzz": func(q []int, p []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{gate("cx", on(a, b)), gate("rz", on(b), p[0]), gate("cx", on(a, b))}
	},
	"rxx": func(q []int, p []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{
			gate("h", on(a)), gate("h", on(b)),
			gate("cx", on(a, b)), gate("rz", on(b), p[0]), gate("cx", on(a, b)),
			gate("h", on(a)), gate("h", on(b)),
		}
	},
	"ecr": func(q []int, _ []float64) []circuit.Instruction {
		a, b := q[0], q[1]
		return []circuit.Instruction{
			gate("x", on(a)), gate("cx", on(a, b)), gate("rz", on(a), -math.Pi/2), gate("sxdg", on(b)),
		}
	},
	"ccx": ccx,
	"cswap": func(q []int, _ []float64) []circuit.Instruction {
		a, b, c := q[0], q[1], q[2]
		res := []circuit.Instruction{gate("cx", on(c, b))}
		res = append(res, ccx(on(a, b, c), nil)...)
		return append(res, gate("cx", on(c, b)))
	},
}

func ccx(q []int, _ []float64) []circuit.Instruction {
	a, b, c := q[0], q[1], q[2]
	return []circuit.Instruction{
		gate("h", on(c)),
		gate("cx", on(b, c)), gate("tdg", on(c)),
		gate("cx", on(a, c)), gate("t", on(c)),
		gate("cx", on(b, c)), gate("tdg", on(c)),
		gate("cx", on(a, c)), gate("t", on(b)), gate("t", on(c)),
		gate("h", on(c)),
		gate("cx", on(a, b)), gate("t", on(a)), gate("tdg", on(b)),
		gate("cx", on(a, b)),
	}
}

// Decompose rewrites every gate acting on two or more qubits into cx and
// single-qubit gates. Single-qubit gates, measurements and barriers are kept.
func Decompose(c *circuit.Circuit) (*circuit.Circuit, error) {
	res := c.CloneEmpty()
	for _, inst := range c.Instructions {
		out, err := decomposeInstruction(inst)
		if err != nil {
			return nil, err
		}
		for _, o := range out {
			if err := res.Append(o); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func decomposeInstruction(inst circuit.Instruction) ([]circuit.Instruction, error) {
	if inst.Name == "cx" || !circuit.IsUnitary(inst.Name) || len(inst.Qubits) == 1 {
		return []circuit.Instruction{inst}, nil
	}
	r, ok := decompositionRules[inst.Name]
	if !ok {
		return nil, fmt.Errorf("no decomposition for %s", inst.Name)
	}
	return r(inst.Qubits, inst.Params), nil
}
