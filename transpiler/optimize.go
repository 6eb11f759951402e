package transpiler

import (
	"fmt"
	"slices"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"go.uber.org/zap"
)

const (
	MinOptimizationLevel = 0
	MaxOptimizationLevel = 3
)

// DefaultMaxIterations bounds the fixpoint loop of level 3.
const DefaultMaxIterations = 20

var inversePairs = map[string]string{
	"s": "sdg", "sdg": "s",
	"t": "tdg", "tdg": "t",
	"sx": "sxdg", "sxdg": "sx",
}

// rotations whose angles add up when applied twice on the same operands
var additiveRotations = map[string]struct{}{
	"rx": {}, "ry": {}, "rz": {}, "p": {}, "u1": {},
	"cp": {}, "crx": {}, "cry": {}, "crz": {}, "rxx": {}, "rzz": {},
}

// Optimize applies the passes of an optimization level. Level 0 returns a copy,
// level 1 drops identities and cancels adjacent inverse pairs, level 2 also
// merges rotations and shortens single-qubit runs with the basis Euler form,
// level 3 repeats level 2 until the circuit stops shrinking.
func Optimize(c *circuit.Circuit, level int, b *Basis) (*circuit.Circuit, error) {
	return optimize(c, level, b, DefaultMaxIterations)
}

func optimize(c *circuit.Circuit, level int, b *Basis, maxIterations int) (*circuit.Circuit, error) {
	if level < MinOptimizationLevel || level > MaxOptimizationLevel {
		return nil, fmt.Errorf("optimization level %d is not in [%d, %d]", level, MinOptimizationLevel, MaxOptimizationLevel)
	}
	res := c.Clone()
	if level == 0 {
		return res, nil
	}
	iterations := 1
	if level == 3 {
		iterations = maxIterations
	}
	for i := 0; i < iterations; i++ {
		before := res.Size()
		res = cancelInverses(res, level >= 2)
		if level >= 2 {
			var err error
			res, err = resynthesizeRuns(res, b, func(run, synthesized []circuit.Instruction) bool {
				return len(run) > 1 && len(synthesized) < len(run)
			})
			if err != nil {
				return nil, err
			}
		}
		if res.Size() >= before {
			zap.L().Debug(fmt.Sprintf("optimization of %s converged after %d iterations", c.Name, i+1))
			break
		}
	}
	return res, nil
}

// cancelInverses removes identity gates and pairs of adjacent gates on the
// same operands that multiply to the identity. With merge, adjacent rotations
// of the same kind are combined.
func cancelInverses(c *circuit.Circuit, merge bool) *circuit.Circuit {
	out := make([]*circuit.Instruction, 0, len(c.Instructions))
	// indices into out of the live instructions per qubit
	stacks := make([][]int, c.NumQubits)
	top := func(q int) int {
		s := stacks[q]
		if len(s) == 0 {
			return -1
		}
		return s[len(s)-1]
	}
	for i := range c.Instructions {
		inst := c.Instructions[i]
		if circuit.IsUnitary(inst.Name) && isIdentity(inst) {
			continue
		}
		prev := -1
		if circuit.IsUnitary(inst.Name) {
			prev = top(inst.Qubits[0])
			for _, q := range inst.Qubits[1:] {
				if top(q) != prev {
					prev = -1
					break
				}
			}
		}
		if prev >= 0 && slices.Equal(out[prev].Qubits, inst.Qubits) {
			p := out[prev]
			if cancels(*p, inst) {
				out[prev] = nil
				for _, q := range inst.Qubits {
					stacks[q] = stacks[q][:len(stacks[q])-1]
				}
				continue
			}
			if _, ok := additiveRotations[inst.Name]; ok && merge && p.Name == inst.Name {
				merged := circuit.Instruction{
					Name:   inst.Name,
					Qubits: inst.Qubits,
					Params: []float64{p.Params[0] + inst.Params[0]},
				}
				if isIdentity(merged) {
					out[prev] = nil
					for _, q := range inst.Qubits {
						stacks[q] = stacks[q][:len(stacks[q])-1]
					}
				} else {
					out[prev] = &merged
				}
				continue
			}
		}
		cp := inst
		out = append(out, &cp)
		for _, q := range inst.Qubits {
			stacks[q] = append(stacks[q], len(out)-1)
		}
	}
	res := c.CloneEmpty()
	for _, inst := range out {
		if inst != nil {
			res.Instructions = append(res.Instructions, *inst)
		}
	}
	return res
}

func cancels(a, b circuit.Instruction) bool {
	if inv, ok := inversePairs[a.Name]; ok {
		return inv == b.Name
	}
	if a.Name != b.Name {
		return false
	}
	spec, err := circuit.LookupGate(a.Name)
	return err == nil && spec.SelfInverse
}

func isIdentity(inst circuit.Instruction) bool {
	if inst.Name == "id" {
		return true
	}
	if len(inst.Params) == 0 {
		return false
	}
	m, err := circuit.GateMatrix(inst.Name, inst.Params)
	if err != nil {
		return false
	}
	return m.IsIdentityUpToPhase(tolerance)
}
