package circuit

import "sort"

// Levels returns, for every instruction, the 1-based layer it is scheduled
// in when operations are placed as early as their qubits and clbits allow.
// Barriers get level 0 and do not delay anything.
func (c *Circuit) Levels() []int {
	qLevel := make([]int, c.NumQubits)
	cLevel := make([]int, c.NumClbits)
	levels := make([]int, len(c.Instructions))
	for i, inst := range c.Instructions {
		if inst.Name == Barrier {
			continue
		}
		lvl := 0
		for _, q := range inst.Qubits {
			lvl = max(lvl, qLevel[q])
		}
		for _, b := range inst.Clbits {
			lvl = max(lvl, cLevel[b])
		}
		lvl++
		for _, q := range inst.Qubits {
			qLevel[q] = lvl
		}
		for _, b := range inst.Clbits {
			cLevel[b] = lvl
		}
		levels[i] = lvl
	}
	return levels
}

// Depth is the length of the critical path, ignoring barriers.
func (c *Circuit) Depth() int {
	depth := 0
	for _, l := range c.Levels() {
		depth = max(depth, l)
	}
	return depth
}

// Size counts every operation except barriers.
func (c *Circuit) Size() int {
	n := 0
	for _, inst := range c.Instructions {
		if inst.Name != Barrier {
			n++
		}
	}
	return n
}

// NumNonlocalGates counts operations on more than one qubit, barriers
// excluded.
func (c *Circuit) NumNonlocalGates() int {
	n := 0
	for _, inst := range c.Instructions {
		if inst.Name != Barrier && len(inst.Qubits) > 1 {
			n++
		}
	}
	return n
}

func (c *Circuit) CountOps() map[string]int {
	ops := make(map[string]int)
	for _, inst := range c.Instructions {
		ops[inst.Name]++
	}
	return ops
}

// GateSet returns the sorted names of all operations in the circuit.
func (c *Circuit) GateSet() []string {
	ops := c.CountOps()
	names := make([]string, 0, len(ops))
	for n := range ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ActiveQubits returns the sorted qubits touched by a non-barrier operation.
func (c *Circuit) ActiveQubits() []int {
	used := make(map[int]struct{})
	for _, inst := range c.Instructions {
		if inst.Name == Barrier {
			continue
		}
		for _, q := range inst.Qubits {
			used[q] = struct{}{}
		}
	}
	qs := make([]int, 0, len(used))
	for q := range used {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	return qs
}
