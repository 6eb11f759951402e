package transpiler

import (
	"fmt"
	"sort"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/device"
)

type LayoutMethod string

const (
	// LayoutTrivial places virtual qubit i on physical qubit i.
	LayoutTrivial LayoutMethod = "trivial"
	// LayoutLine places the qubits along a walk of coupled qubits.
	LayoutLine LayoutMethod = "line"
	// LayoutDense places the busiest virtual qubits on a densely connected,
	// well calibrated region of the device.
	LayoutDense LayoutMethod = "dense"
)

// Layout returns the initial placement of the circuit on the device: index is
// the virtual qubit, value the physical qubit.
func Layout(c *circuit.Circuit, d *device.Device, method LayoutMethod) ([]int, error) {
	if c.NumQubits > d.NumQubits {
		return nil, fmt.Errorf("%s needs %d qubits but %s has %d", c.Name, c.NumQubits, d.Name, d.NumQubits)
	}
	switch method {
	case LayoutTrivial:
		res := make([]int, c.NumQubits)
		for i := range res {
			res[i] = i
		}
		return res, nil
	case LayoutLine:
		return lineLayout(c.NumQubits, d), nil
	case LayoutDense:
		return denseLayout(c, d), nil
	}
	return nil, fmt.Errorf("unknown layout method %s", method)
}

// lineLayout walks from qubit 0 to the lowest unvisited neighbour. When the
// walk gets stuck it continues from the frontier of the visited set, so every
// prefix of the placement stays connected.
func lineLayout(n int, d *device.Device) []int {
	res := make([]int, 0, n)
	visited := map[int]bool{}
	cur := 0
	for len(res) < n {
		res = append(res, cur)
		visited[cur] = true
		if len(res) == n {
			break
		}
		next := -1
		for _, nb := range d.Neighbors(cur) {
			if !visited[nb] {
				next = nb
				break
			}
		}
		if next < 0 {
			next = frontier(res, visited, d, func(a, b int) bool { return a < b })
		}
		cur = next
	}
	return res
}

// denseLayout grows a connected region from the best connected qubit, always
// adding the frontier qubit with the most links into the region and the best
// calibration score. Virtual qubits with more two-qubit interactions get the
// earlier picks.
func denseLayout(c *circuit.Circuit, d *device.Device) []int {
	score := func(q int) float64 {
		if d.Calibration == nil {
			return 0
		}
		return d.Calibration.QubitScore(q)
	}
	start := 0
	for q := 1; q < d.NumQubits; q++ {
		if dq, ds := d.Degree(q), d.Degree(start); dq > ds || (dq == ds && score(q) > score(start)) {
			start = q
		}
	}
	region := []int{start}
	inRegion := map[int]bool{start: true}
	for len(region) < c.NumQubits {
		links := func(q int) int {
			n := 0
			for _, nb := range d.Neighbors(q) {
				if inRegion[nb] {
					n++
				}
			}
			return n
		}
		next := frontier(region, inRegion, d, func(a, b int) bool {
			if la, lb := links(a), links(b); la != lb {
				return la > lb
			}
			if sa, sb := score(a), score(b); sa != sb {
				return sa > sb
			}
			return a < b
		})
		region = append(region, next)
		inRegion[next] = true
	}

	interactions := make([]int, c.NumQubits)
	for _, inst := range c.Instructions {
		if circuit.IsUnitary(inst.Name) && len(inst.Qubits) > 1 {
			for _, q := range inst.Qubits {
				interactions[q]++
			}
		}
	}
	virtual := make([]int, c.NumQubits)
	for i := range virtual {
		virtual[i] = i
	}
	sort.SliceStable(virtual, func(i, j int) bool {
		return interactions[virtual[i]] > interactions[virtual[j]]
	})
	res := make([]int, c.NumQubits)
	for k, v := range virtual {
		res[v] = region[k]
	}
	return res
}

// frontier returns the best unvisited neighbour of the placed qubits under
// less, or the lowest unvisited qubit when the placed set has no neighbour
// left.
func frontier(placed []int, visited map[int]bool, d *device.Device, less func(a, b int) bool) int {
	best := -1
	for _, p := range placed {
		for _, nb := range d.Neighbors(p) {
			if visited[nb] {
				continue
			}
			if best < 0 || less(nb, best) {
				best = nb
			}
		}
	}
	if best >= 0 {
		return best
	}
	for q := 0; q < d.NumQubits; q++ {
		if !visited[q] {
			return q
		}
	}
	return -1
}
