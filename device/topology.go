package device

import (
	"fmt"
	"sort"
)

// Topology names used by the device catalogue.
const (
	TopologyAllToAll       = "all_to_all"
	TopologyRing           = "ring"
	TopologyLine           = "line"
	TopologyGrid           = "grid"
	TopologyStar           = "star"
	TopologyHeavyHexEagle  = "heavy_hex_eagle"
	TopologyHeavyHexFalcon = "heavy_hex_falcon"
	TopologyOctagonal      = "octagonal"
	TopologyExplicit       = "explicit"
)

type TopologySetting struct {
	Kind string `toml:"kind"`
	// grid and octagonal lattices
	Rows int `toml:"rows"`
	Cols int `toml:"cols"`
	// star
	Center int `toml:"center"`
	// octagonal lattices lose qubits from the end
	Drop int `toml:"drop"`
	// explicit
	Edges [][2]int `toml:"edges"`
}

// CouplingMap builds the symmetric coupling list of a topology.
func (t *TopologySetting) CouplingMap(numQubits int) ([]Edge, error) {
	var undirected []Edge
	switch t.Kind {
	case TopologyAllToAll:
		undirected = AllToAll(numQubits)
	case TopologyRing:
		undirected = Ring(numQubits)
	case TopologyLine:
		undirected = Line(numQubits)
	case TopologyGrid:
		if t.Rows*t.Cols != numQubits {
			return nil, fmt.Errorf("grid %dx%d does not have %d qubits", t.Rows, t.Cols, numQubits)
		}
		undirected = Grid(t.Rows, t.Cols)
	case TopologyStar:
		if t.Center < 0 || t.Center >= numQubits {
			return nil, fmt.Errorf("star center %d is out of range", t.Center)
		}
		undirected = Star(numQubits, t.Center)
	case TopologyHeavyHexEagle:
		undirected = HeavyHexEagle()
	case TopologyHeavyHexFalcon:
		undirected = HeavyHexFalcon()
	case TopologyOctagonal:
		undirected = Octagonal(t.Rows, t.Cols, t.Drop)
	case TopologyExplicit:
		for _, e := range t.Edges {
			undirected = append(undirected, Edge(e))
		}
	default:
		return nil, fmt.Errorf("unknown topology %s", t.Kind)
	}
	for _, e := range undirected {
		if e[0] < 0 || e[1] < 0 || e[0] >= numQubits || e[1] >= numQubits {
			return nil, fmt.Errorf("edge %v is out of range for %d qubits", e, numQubits)
		}
	}
	return Symmetrize(undirected), nil
}

// Symmetrize adds the reverse of every edge, drops self loops and
// duplicates, and sorts the result.
func Symmetrize(edges []Edge) []Edge {
	set := make(map[Edge]struct{}, 2*len(edges))
	for _, e := range edges {
		if e[0] == e[1] {
			continue
		}
		set[e] = struct{}{}
		set[e.Reversed()] = struct{}{}
	}
	res := make([]Edge, 0, len(set))
	for e := range set {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i][0] != res[j][0] {
			return res[i][0] < res[j][0]
		}
		return res[i][1] < res[j][1]
	})
	return res
}

func AllToAll(n int) []Edge {
	edges := []Edge{}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, Edge{i, j})
		}
	}
	return edges
}

func Line(n int) []Edge {
	edges := []Edge{}
	for i := 0; i+1 < n; i++ {
		edges = append(edges, Edge{i, i + 1})
	}
	return edges
}

func Ring(n int) []Edge {
	edges := Line(n)
	if n > 2 {
		edges = append(edges, Edge{n - 1, 0})
	}
	return edges
}

func Grid(rows, cols int) []Edge {
	edges := []Edge{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			q := r*cols + c
			if c+1 < cols {
				edges = append(edges, Edge{q, q + 1})
			}
			if r+1 < rows {
				edges = append(edges, Edge{q, q + cols})
			}
		}
	}
	return edges
}

func Star(n, center int) []Edge {
	edges := []Edge{}
	for i := 0; i < n; i++ {
		if i != center {
			edges = append(edges, Edge{center, i})
		}
	}
	return edges
}

// HeavyHexEagle is the 127-qubit heavy-hex lattice: seven rows of qubits
// joined by four bridge qubits between each pair of neighbouring rows.
func HeavyHexEagle() []Edge {
	type row struct{ start, length int }
	rows := []row{{0, 14}, {18, 15}, {37, 15}, {56, 15}, {75, 15}, {94, 15}, {113, 14}}
	edges := []Edge{}
	for _, r := range rows {
		for i := 0; i+1 < r.length; i++ {
			edges = append(edges, Edge{r.start + i, r.start + i + 1})
		}
	}
	for k := 0; k+1 < len(rows); k++ {
		top, bottom := rows[k], rows[k+1]
		cols := []int{0, 4, 8, 12}
		if k%2 == 1 {
			cols = []int{2, 6, 10, 14}
		}
		bridge := top.start + top.length
		for i, col := range cols {
			bottomCol := col
			if k+1 == len(rows)-1 {
				bottomCol = col - 1
			}
			edges = append(edges,
				Edge{top.start + col, bridge + i},
				Edge{bridge + i, bottom.start + bottomCol})
		}
	}
	return edges
}

// HeavyHexFalcon is the 27-qubit heavy-hex lattice.
func HeavyHexFalcon() []Edge {
	return []Edge{
		{0, 1}, {1, 2}, {1, 4}, {2, 3}, {3, 5}, {4, 7}, {5, 8}, {6, 7},
		{7, 10}, {8, 9}, {8, 11}, {10, 12}, {11, 14}, {12, 13}, {12, 15}, {13, 14},
		{14, 16}, {15, 18}, {16, 19}, {17, 18}, {18, 21}, {19, 20}, {19, 22}, {21, 23},
		{22, 25}, {23, 24}, {24, 25}, {25, 26},
	}
}

// Octagonal is a lattice of rows x cols rings of eight qubits. Ring o holds
// qubits 8o..8o+7 clockwise from its top-left corner; neighbouring rings are
// joined by two edges. The last drop qubits are removed.
func Octagonal(rows, cols, drop int) []Edge {
	q := func(o, pos int) int { return 8*o + pos }
	edges := []Edge{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			o := r*cols + c
			for pos := 0; pos < 8; pos++ {
				edges = append(edges, Edge{q(o, pos), q(o, (pos+1)%8)})
			}
			if c+1 < cols {
				right := o + 1
				edges = append(edges, Edge{q(o, 2), q(right, 7)}, Edge{q(o, 3), q(right, 6)})
			}
			if r+1 < rows {
				below := o + cols
				edges = append(edges, Edge{q(o, 5), q(below, 0)}, Edge{q(o, 4), q(below, 1)})
			}
		}
	}
	limit := 8*rows*cols - drop
	kept := edges[:0]
	for _, e := range edges {
		if e[0] < limit && e[1] < limit {
			kept = append(kept, e)
		}
	}
	return kept
}
