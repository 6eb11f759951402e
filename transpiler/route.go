package transpiler

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/device"
	"go.uber.org/zap"
)

// Route places the circuit on the device with the initial layout and inserts
// swaps along shortest coupling paths so that every two-qubit gate acts on
// coupled qubits. The input may only hold gates on at most two qubits. The
// result spans every device qubit and records the initial and final layouts.
func Route(c *circuit.Circuit, d *device.Device, initial []int) (*circuit.Circuit, error) {
	if len(initial) != c.NumQubits {
		return nil, fmt.Errorf("layout has %d entries for %d qubits", len(initial), c.NumQubits)
	}
	// v2p and p2v cover every physical qubit; idle physical qubits are
	// ancillas numbered from c.NumQubits.
	v2p := make([]int, d.NumQubits)
	p2v := make([]int, d.NumQubits)
	for i := range p2v {
		p2v[i] = -1
	}
	for v, p := range initial {
		if p < 0 || p >= d.NumQubits {
			return nil, fmt.Errorf("physical qubit %d is out of range for %s", p, d.Name)
		}
		if p2v[p] >= 0 {
			return nil, fmt.Errorf("physical qubit %d is used twice in the layout", p)
		}
		v2p[v] = p
		p2v[p] = v
	}
	next := c.NumQubits
	for p := range p2v {
		if p2v[p] < 0 {
			p2v[p] = next
			v2p[next] = p
			next++
		}
	}

	res := circuit.New(c.Name, d.NumQubits, c.NumClbits)
	for k, v := range c.Metadata {
		res.Metadata[k] = v
	}
	swaps := 0
	for _, inst := range c.Instructions {
		if circuit.IsUnitary(inst.Name) && len(inst.Qubits) > 2 {
			return nil, fmt.Errorf("%s acts on %d qubits; decompose before routing", inst.Name, len(inst.Qubits))
		}
		if circuit.IsUnitary(inst.Name) && len(inst.Qubits) == 2 {
			a, b := v2p[inst.Qubits[0]], v2p[inst.Qubits[1]]
			if !d.Connected(a, b) {
				path, err := d.ShortestPath(a, b)
				if err != nil {
					return nil, err
				}
				// move the first operand next to the second one
				for i := 0; i+2 < len(path); i++ {
					p, q := path[i], path[i+1]
					if err := res.Append(gate("swap", on(p, q))); err != nil {
						return nil, err
					}
					vp, vq := p2v[p], p2v[q]
					p2v[p], p2v[q] = vq, vp
					v2p[vp], v2p[vq] = q, p
					swaps++
				}
			}
		}
		mapped := circuit.Instruction{
			Name:   inst.Name,
			Qubits: make([]int, len(inst.Qubits)),
			Clbits: append([]int(nil), inst.Clbits...),
			Params: append([]float64(nil), inst.Params...),
		}
		for i, q := range inst.Qubits {
			mapped.Qubits[i] = v2p[q]
		}
		if err := res.Append(mapped); err != nil {
			return nil, err
		}
	}
	final := make([]int, c.NumQubits)
	copy(final, v2p[:c.NumQubits])
	res.Layout = &circuit.Layout{Initial: append([]int(nil), initial...), Final: final}
	zap.L().Debug(fmt.Sprintf("routed %s on %s with %d swaps", c.Name, d.Name, swaps))
	return res, nil
}

// CheckCoupling returns an error for the first two-qubit gate on uncoupled
// qubits.
func CheckCoupling(c *circuit.Circuit, d *device.Device) error {
	for _, inst := range c.Instructions {
		if circuit.IsUnitary(inst.Name) && len(inst.Qubits) == 2 && !d.Connected(inst.Qubits[0], inst.Qubits[1]) {
			return fmt.Errorf("%s on uncoupled qubits %d and %d of %s", inst.Name, inst.Qubits[0], inst.Qubits[1], d.Name)
		}
	}
	return nil
}
