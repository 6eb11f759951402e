package transpiler

import (
	"fmt"
	"math"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

// cxTemplates build cx(a, b) from one native entangling gate plus
// single-qubit gates, in time order. The single-qubit gates are rebuilt in the
// target basis afterwards.
var cxTemplates = map[string]func(a, b int) []circuit.Instruction{
	"cx": func(a, b int) []circuit.Instruction {
		return []circuit.Instruction{gate("cx", on(a, b))}
	},
	"cz": func(a, b int) []circuit.Instruction {
		return []circuit.Instruction{gate("h", on(b)), gate("cz", on(a, b)), gate("h", on(b))}
	},
	"ecr": func(a, b int) []circuit.Instruction {
		return []circuit.Instruction{
			gate("x", on(a)), gate("ecr", on(a, b)), gate("rz", on(a), math.Pi/2), gate("sx", on(b)),
		}
	},
	"rxx": func(a, b int) []circuit.Instruction {
		return []circuit.Instruction{
			gate("ry", on(a), math.Pi/2),
			gate("rxx", on(a, b), math.Pi/2),
			gate("rx", on(a), -math.Pi/2), gate("rx", on(b), -math.Pi/2),
			gate("ry", on(a), -math.Pi/2),
		}
	},
	"rzz": func(a, b int) []circuit.Instruction {
		return []circuit.Instruction{
			gate("h", on(b)),
			gate("rzz", on(a, b), math.Pi/2),
			gate("rz", on(a), -math.Pi/2), gate("rz", on(b), -math.Pi/2),
			gate("h", on(b)),
		}
	},
}

// TranslateToNative rewrites the circuit into the basis: multi-qubit gates go
// through cx into the basis entangling gate, and every run of single-qubit
// gates that holds a gate outside the basis is rebuilt with the basis Euler
// form. The result equals the input up to global phase.
func TranslateToNative(c *circuit.Circuit, b *Basis) (*circuit.Circuit, error) {
	dec, err := Decompose(c)
	if err != nil {
		return nil, err
	}
	tmpl, ok := cxTemplates[b.TwoQubit]
	if !ok {
		return nil, fmt.Errorf("no cx template for %s", b.TwoQubit)
	}
	res := dec.CloneEmpty()
	for _, inst := range dec.Instructions {
		if inst.Name == "cx" {
			res.Instructions = append(res.Instructions, tmpl(inst.Qubits[0], inst.Qubits[1])...)
			continue
		}
		res.Instructions = append(res.Instructions, inst)
	}
	return resynthesizeRuns(res, b, func(run []circuit.Instruction, _ []circuit.Instruction) bool {
		for _, g := range run {
			if !b.Contains(g.Name) {
				return true
			}
		}
		return false
	})
}

// CheckBasis returns an error naming the first gate outside the basis.
func CheckBasis(c *circuit.Circuit, b *Basis) error {
	for _, inst := range c.Instructions {
		if !b.Contains(inst.Name) {
			return fmt.Errorf("%s is not in the gate set %v", inst.Name, b.Gates)
		}
	}
	return nil
}

// resynthesizeRuns collects maximal runs of single-qubit unitaries per qubit
// and replaces a run by its synthesis when replace(run, synthesized) holds.
// Instructions on other qubits keep their relative order.
func resynthesizeRuns(c *circuit.Circuit, b *Basis, replace func(run, synthesized []circuit.Instruction) bool) (*circuit.Circuit, error) {
	res := c.CloneEmpty()
	pending := map[int][]circuit.Instruction{}
	flush := func(q int) error {
		run := pending[q]
		delete(pending, q)
		if len(run) == 0 {
			return nil
		}
		m := circuit.Identity(2)
		for _, g := range run {
			gm, err := circuit.GateMatrix(g.Name, g.Params)
			if err != nil {
				return err
			}
			m = gm.Mul(m)
		}
		synthesized := b.Synthesize(m, q)
		if replace(run, synthesized) {
			run = synthesized
		}
		res.Instructions = append(res.Instructions, run...)
		return nil
	}
	for _, inst := range c.Instructions {
		if circuit.IsUnitary(inst.Name) && len(inst.Qubits) == 1 {
			q := inst.Qubits[0]
			pending[q] = append(pending[q], inst)
			continue
		}
		for _, q := range inst.Qubits {
			if err := flush(q); err != nil {
				return nil, err
			}
		}
		res.Instructions = append(res.Instructions, inst)
	}
	for q := 0; q < c.NumQubits; q++ {
		if err := flush(q); err != nil {
			return nil, err
		}
	}
	return res, nil
}
