package device

import (
	"fmt"
	"sort"

	"github.com/go-faster/errors"
)

// Edge is a directed coupling between two physical qubits.
type Edge [2]int

func (e Edge) String() string {
	return fmt.Sprintf("%d_%d", e[0], e[1])
}

func (e Edge) Reversed() Edge {
	return Edge{e[1], e[0]}
}

// Calibration holds fidelities (1 - error) and durations in seconds.
type Calibration struct {
	SingleQubitGateFidelity map[int]map[string]float64  `json:"single_qubit_gate_fidelity"`
	SingleQubitGateDuration map[int]map[string]float64  `json:"single_qubit_gate_duration"`
	TwoQubitGateFidelity    map[Edge]map[string]float64 `json:"-"`
	TwoQubitGateDuration    map[Edge]map[string]float64 `json:"-"`
	ReadoutFidelity         map[int]float64             `json:"readout_fidelity"`
	ReadoutDuration         map[int]float64             `json:"readout_duration"`
	T1                      map[int]float64             `json:"t1"`
	T2                      map[int]float64             `json:"t2"`
}

func NewCalibration() *Calibration {
	return &Calibration{
		SingleQubitGateFidelity: map[int]map[string]float64{},
		SingleQubitGateDuration: map[int]map[string]float64{},
		TwoQubitGateFidelity:    map[Edge]map[string]float64{},
		TwoQubitGateDuration:    map[Edge]map[string]float64{},
		ReadoutFidelity:         map[int]float64{},
		ReadoutDuration:         map[int]float64{},
		T1:                      map[int]float64{},
		T2:                      map[int]float64{},
	}
}

var ErrMissingCalibration = errors.New("missing calibration")

func (c *Calibration) SingleQubitGateFidelityOf(gate string, qubit int) (float64, error) {
	return lookup2(c.SingleQubitGateFidelity, qubit, gate, "single-qubit gate fidelity")
}

func (c *Calibration) SingleQubitGateDurationOf(gate string, qubit int) (float64, error) {
	return lookup2(c.SingleQubitGateDuration, qubit, gate, "single-qubit gate duration")
}

func (c *Calibration) TwoQubitGateFidelityOf(gate string, q0, q1 int) (float64, error) {
	return lookup2(c.TwoQubitGateFidelity, Edge{q0, q1}, gate, "two-qubit gate fidelity")
}

func (c *Calibration) TwoQubitGateDurationOf(gate string, q0, q1 int) (float64, error) {
	return lookup2(c.TwoQubitGateDuration, Edge{q0, q1}, gate, "two-qubit gate duration")
}

func (c *Calibration) ReadoutFidelityOf(qubit int) (float64, error) {
	return lookup1(c.ReadoutFidelity, qubit, "readout fidelity")
}

func (c *Calibration) ReadoutDurationOf(qubit int) (float64, error) {
	return lookup1(c.ReadoutDuration, qubit, "readout duration")
}

func (c *Calibration) T1Of(qubit int) (float64, error) {
	return lookup1(c.T1, qubit, "T1")
}

func (c *Calibration) T2Of(qubit int) (float64, error) {
	return lookup1(c.T2, qubit, "T2")
}

func lookup1(m map[int]float64, qubit int, what string) (float64, error) {
	v, ok := m[qubit]
	if !ok {
		return 0, errors.Wrapf(ErrMissingCalibration, "%s of qubit %d", what, qubit)
	}
	return v, nil
}

func lookup2[K comparable](m map[K]map[string]float64, key K, gate, what string) (float64, error) {
	gates, ok := m[key]
	if !ok {
		return 0, errors.Wrapf(ErrMissingCalibration, "%s of %v", what, key)
	}
	v, ok := gates[gate]
	if !ok {
		return 0, errors.Wrapf(ErrMissingCalibration, "%s of %s on %v", what, gate, key)
	}
	return v, nil
}

// AverageSingleQubitGateFidelity averages over every calibrated gate and qubit.
func (c *Calibration) AverageSingleQubitGateFidelity() float64 {
	var sum float64
	n := 0
	for _, gates := range c.SingleQubitGateFidelity {
		for _, f := range gates {
			sum += f
			n++
		}
	}
	return safeMean(sum, n)
}

func (c *Calibration) AverageTwoQubitGateFidelity() float64 {
	var sum float64
	n := 0
	for _, gates := range c.TwoQubitGateFidelity {
		for _, f := range gates {
			sum += f
			n++
		}
	}
	return safeMean(sum, n)
}

func (c *Calibration) AverageReadoutFidelity() float64 {
	var sum float64
	for _, f := range c.ReadoutFidelity {
		sum += f
	}
	return safeMean(sum, len(c.ReadoutFidelity))
}

func safeMean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// QubitScore is the product of readout fidelity and the mean single-qubit
// gate fidelity of a qubit. Uncalibrated qubits score 0.
func (c *Calibration) QubitScore(qubit int) float64 {
	ro, ok := c.ReadoutFidelity[qubit]
	if !ok {
		return 0
	}
	gates := c.SingleQubitGateFidelity[qubit]
	if len(gates) == 0 {
		return ro
	}
	var sum float64
	for _, f := range gates {
		sum += f
	}
	return ro * sum / float64(len(gates))
}

// Edges returns the calibrated two-qubit edges in sorted order.
func (c *Calibration) Edges() []Edge {
	edges := make([]Edge, 0, len(c.TwoQubitGateFidelity))
	for e := range c.TwoQubitGateFidelity {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}
