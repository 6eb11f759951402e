package features

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/graph/simple"
)

// Extract computes the feature record of a generated circuit.
func Extract(filename string, c *circuit.Circuit) (core.FeatureRecord, error) {
	sm, err := Supermarq(c)
	if err != nil {
		return core.FeatureRecord{}, fmt.Errorf("features of %s: %w", filename, err)
	}
	return core.FeatureRecord{
		Filename:              filename,
		NumQubits:             c.NumQubits,
		Depth:                 c.Depth(),
		NumGates:              c.Size(),
		NumMultipleQubitGates: c.NumNonlocalGates(),
		SupermarqFeatures:     sm,
	}, nil
}

// Supermarq computes the Supermarq application features. Barriers are
// ignored; measurements count towards depth and activity but are not gates.
func Supermarq(c *circuit.Circuit) (core.SupermarqFeatures, error) {
	dag := c.Without(circuit.Barrier)
	n := float64(dag.NumQubits)
	depth := dag.Depth()

	gates, twoQubit := 0, 0
	interactions := simple.NewUndirectedGraph()
	for _, inst := range dag.Instructions {
		if !circuit.IsUnitary(inst.Name) {
			continue
		}
		gates++
		if len(inst.Qubits) == 2 {
			twoQubit++
			a, b := int64(inst.Qubits[0]), int64(inst.Qubits[1])
			if a != b && !interactions.HasEdgeBetween(a, b) {
				interactions.SetEdge(interactions.NewEdge(simple.Node(a), simple.Node(b)))
			}
		}
	}

	var f core.SupermarqFeatures
	if dag.NumQubits > 1 {
		degreeSum := 0
		nodes := interactions.Nodes()
		for nodes.Next() {
			degreeSum += interactions.From(nodes.Node().ID()).Len()
		}
		f.ProgramCommunication = float64(degreeSum) / (n * (n - 1))
	}
	if depth > 0 {
		f.Liveness = float64(activity(dag)) / (n * float64(depth))
		if dag.NumQubits > 1 {
			f.Parallelism = max((float64(gates)/float64(depth)-1)/(n-1), 0)
		}
	}
	if gates > 0 {
		f.EntanglementRatio = float64(twoQubit) / float64(gates)
	}
	if twoQubit > 0 {
		f.CriticalDepth = float64(twoQubitOnLongestPath(dag)) / float64(twoQubit)
	}
	if err := check(f); err != nil {
		return core.SupermarqFeatures{}, err
	}
	return f, nil
}

// activity counts the (qubit, layer) cells occupied by an operation.
func activity(c *circuit.Circuit) int {
	type cell struct{ q, l int }
	active := map[cell]struct{}{}
	for i, l := range c.Levels() {
		for _, q := range c.Instructions[i].Qubits {
			active[cell{q, l}] = struct{}{}
		}
	}
	return len(active)
}

// twoQubitOnLongestPath returns the number of two-qubit gates on a longest
// chain of dependent operations, preferring chains with more of them.
func twoQubitOnLongestPath(c *circuit.Circuit) int {
	type state struct{ length, twoQubit int }
	lastOnQubit := make([]int, c.NumQubits)
	lastOnClbit := make([]int, c.NumClbits)
	for i := range lastOnQubit {
		lastOnQubit[i] = -1
	}
	for i := range lastOnClbit {
		lastOnClbit[i] = -1
	}
	better := func(a, b state) bool {
		return a.length > b.length || (a.length == b.length && a.twoQubit > b.twoQubit)
	}
	states := make([]state, len(c.Instructions))
	var best state
	for i, inst := range c.Instructions {
		var prev state
		for _, q := range inst.Qubits {
			if p := lastOnQubit[q]; p >= 0 && better(states[p], prev) {
				prev = states[p]
			}
		}
		for _, b := range inst.Clbits {
			if p := lastOnClbit[b]; p >= 0 && better(states[p], prev) {
				prev = states[p]
			}
		}
		cur := state{length: prev.length + 1, twoQubit: prev.twoQubit}
		if circuit.IsUnitary(inst.Name) && len(inst.Qubits) == 2 {
			cur.twoQubit++
		}
		states[i] = cur
		for _, q := range inst.Qubits {
			lastOnQubit[q] = i
		}
		for _, b := range inst.Clbits {
			lastOnClbit[b] = i
		}
		if better(cur, best) {
			best = cur
		}
	}
	return best.twoQubit
}

// rounding slack of the [0, 1] range check
const slack = 1e-12

func check(f core.SupermarqFeatures) error {
	var errs error
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"program_communication", f.ProgramCommunication},
		{"critical_depth", f.CriticalDepth},
		{"entanglement_ratio", f.EntanglementRatio},
		{"parallelism", f.Parallelism},
		{"liveness", f.Liveness},
	} {
		if v.value < -slack || v.value > 1+slack {
			errs = multierr.Append(errs, fmt.Errorf("%s %g is not in [0, 1]", v.name, v.value))
		}
	}
	return errs
}
