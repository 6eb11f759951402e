package device

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type Device struct {
	Name        string       `json:"name"`
	Provider    string       `json:"provider"`
	NumQubits   int          `json:"num_qubits"`
	BasisGates  []string     `json:"basis_gates"`
	CouplingMap []Edge       `json:"coupling_map"`
	Calibration *Calibration `json:"-"`

	mu    sync.Mutex
	graph *simple.UndirectedGraph
	paths *path.AllShortest
}

// SingleQubitGates returns the one-qubit unitary basis gates.
func (d *Device) SingleQubitGates() []string {
	return d.gatesWithArity(1)
}

// TwoQubitGates returns the two-qubit unitary basis gates.
func (d *Device) TwoQubitGates() []string {
	return d.gatesWithArity(2)
}

func (d *Device) gatesWithArity(n int) []string {
	res := []string{}
	for _, g := range d.BasisGates {
		if !circuit.IsUnitary(g) {
			continue
		}
		spec, err := circuit.LookupGate(g)
		if err != nil {
			continue
		}
		if spec.NumQubits == n {
			res = append(res, g)
		}
	}
	return res
}

func (d *Device) SingleQubitGateFidelity(gate string, qubit int) (float64, error) {
	if err := d.checkCalibration(); err != nil {
		return 0, err
	}
	return d.Calibration.SingleQubitGateFidelityOf(gate, qubit)
}

func (d *Device) TwoQubitGateFidelity(gate string, q0, q1 int) (float64, error) {
	if err := d.checkCalibration(); err != nil {
		return 0, err
	}
	return d.Calibration.TwoQubitGateFidelityOf(gate, q0, q1)
}

func (d *Device) ReadoutFidelity(qubit int) (float64, error) {
	if err := d.checkCalibration(); err != nil {
		return 0, err
	}
	return d.Calibration.ReadoutFidelityOf(qubit)
}

func (d *Device) checkCalibration() error {
	if d.Calibration == nil {
		return errors.Wrapf(ErrMissingCalibration, "device %s", d.Name)
	}
	return nil
}

// Graph returns the undirected coupling graph; node IDs are qubit indices.
func (d *Device) Graph() *simple.UndirectedGraph {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graphLocked()
}

func (d *Device) graphLocked() *simple.UndirectedGraph {
	if d.graph != nil {
		return d.graph
	}
	g := simple.NewUndirectedGraph()
	for q := 0; q < d.NumQubits; q++ {
		g.AddNode(simple.Node(q))
	}
	for _, e := range d.CouplingMap {
		if e[0] == e[1] {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
	}
	d.graph = g
	return g
}

// Connected reports whether q0 and q1 share a coupling edge.
func (d *Device) Connected(q0, q1 int) bool {
	return d.Graph().HasEdgeBetween(int64(q0), int64(q1))
}

// Degree returns the number of coupled neighbours of a qubit.
func (d *Device) Degree(q int) int {
	return d.Graph().From(int64(q)).Len()
}

// Neighbors returns the coupled neighbours of a qubit in ascending order.
func (d *Device) Neighbors(q int) []int {
	nodes := graph.NodesOf(d.Graph().From(int64(q)))
	res := make([]int, len(nodes))
	for i, n := range nodes {
		res[i] = int(n.ID())
	}
	sort.Ints(res)
	return res
}

// IsConnected reports whether every qubit can reach every other qubit.
func (d *Device) IsConnected() bool {
	if d.NumQubits <= 1 {
		return true
	}
	return len(topo.ConnectedComponents(d.Graph())) == 1
}

// ShortestPath returns the qubits of a shortest coupling path from q0 to q1,
// both ends included.
func (d *Device) ShortestPath(q0, q1 int) ([]int, error) {
	d.mu.Lock()
	if d.paths == nil {
		p := path.DijkstraAllPaths(d.graphLocked())
		d.paths = &p
	}
	paths := d.paths
	d.mu.Unlock()
	nodes, _, _ := paths.Between(int64(q0), int64(q1))
	if len(nodes) == 0 {
		return nil, fmt.Errorf("qubits %d and %d of %s are not connected", q0, q1, d.Name)
	}
	res := make([]int, len(nodes))
	for i, n := range nodes {
		res[i] = int(n.ID())
	}
	return res, nil
}

// Distance is the number of edges on a shortest path, -1 if unreachable.
func (d *Device) Distance(q0, q1 int) int {
	p, err := d.ShortestPath(q0, q1)
	if err != nil {
		return -1
	}
	return len(p) - 1
}

// CouplingList returns the coupling map as plain pairs.
func (d *Device) CouplingList() [][2]int {
	res := make([][2]int, len(d.CouplingMap))
	for i, e := range d.CouplingMap {
		res[i] = [2]int(e)
	}
	return res
}

// Sanitize normalizes the coupling map and drops calibration entries that do
// not belong to a qubit or an edge of the device.
func (d *Device) Sanitize() {
	d.mu.Lock()
	d.CouplingMap = Symmetrize(d.CouplingMap)
	d.graph = nil
	d.paths = nil
	d.mu.Unlock()
	if d.Calibration == nil {
		return
	}
	inRange := func(q int) bool { return q >= 0 && q < d.NumQubits }
	for _, m := range []map[int]map[string]float64{d.Calibration.SingleQubitGateFidelity, d.Calibration.SingleQubitGateDuration} {
		for q := range m {
			if !inRange(q) {
				delete(m, q)
			}
		}
	}
	for _, m := range []map[int]float64{d.Calibration.ReadoutFidelity, d.Calibration.ReadoutDuration, d.Calibration.T1, d.Calibration.T2} {
		for q := range m {
			if !inRange(q) {
				delete(m, q)
			}
		}
	}
	edges := make(map[Edge]struct{}, len(d.CouplingMap))
	for _, e := range d.CouplingMap {
		edges[e] = struct{}{}
	}
	for _, m := range []map[Edge]map[string]float64{d.Calibration.TwoQubitGateFidelity, d.Calibration.TwoQubitGateDuration} {
		for e := range m {
			if _, ok := edges[e]; !ok {
				zap.L().Debug(fmt.Sprintf("dropping calibration of edge %s on %s", e, d.Name))
				delete(m, e)
			}
		}
	}
}

// Validate checks that the device is usable as a mapping target.
func (d *Device) Validate() error {
	if d.NumQubits <= 0 {
		return fmt.Errorf("device %s has no qubits", d.Name)
	}
	for _, e := range d.CouplingMap {
		if e[0] < 0 || e[1] < 0 || e[0] >= d.NumQubits || e[1] >= d.NumQubits {
			return fmt.Errorf("edge %s of %s is out of range", e, d.Name)
		}
	}
	if len(d.TwoQubitGates()) > 1 {
		return fmt.Errorf("device %s has more than one two-qubit basis gate", d.Name)
	}
	if !d.IsConnected() {
		return fmt.Errorf("coupling map of %s is not connected", d.Name)
	}
	return nil
}
