package circuit

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

type Instruction struct {
	Name   string    `json:"name"`
	Qubits []int     `json:"qubits"`
	Clbits []int     `json:"clbits,omitempty"`
	Params []float64 `json:"params,omitempty"`
}

// Layout maps virtual qubits (index) to physical qubits (value).
type Layout struct {
	Initial []int `json:"initial"`
	Final   []int `json:"final"`
}

type Circuit struct {
	Name         string            `json:"name"`
	NumQubits    int               `json:"num_qubits"`
	NumClbits    int               `json:"num_clbits"`
	Instructions []Instruction     `json:"instructions"`
	Layout       *Layout           `json:"layout,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`

	// first error raised by a builder method
	err error
}

func New(name string, numQubits, numClbits int) *Circuit {
	return &Circuit{
		Name:         name,
		NumQubits:    numQubits,
		NumClbits:    numClbits,
		Instructions: []Instruction{},
		Metadata:     map[string]string{},
	}
}

// Err returns the first error raised by the chained builder methods.
func (c *Circuit) Err() error {
	return c.err
}

// Clone returns a deep copy of the circuit. The builder error is not copied.
func (c *Circuit) Clone() *Circuit {
	cp := deepcopy.Copy(*c).(Circuit)
	if cp.Instructions == nil {
		cp.Instructions = []Instruction{}
	}
	return &cp
}

// CloneEmpty returns a circuit with the same registers, layout and metadata
// but without instructions.
func (c *Circuit) CloneEmpty() *Circuit {
	cp := c.Clone()
	cp.Instructions = []Instruction{}
	return cp
}

// Append validates and adds an instruction.
func (c *Circuit) Append(inst Instruction) error {
	if err := c.validate(inst); err != nil {
		return err
	}
	c.Instructions = append(c.Instructions, inst)
	return nil
}

func (c *Circuit) validate(inst Instruction) error {
	spec, err := LookupGate(inst.Name)
	if err != nil {
		return err
	}
	if spec.NumQubits >= 0 && len(inst.Qubits) != spec.NumQubits {
		return fmt.Errorf("%s acts on %d qubits, got %d", inst.Name, spec.NumQubits, len(inst.Qubits))
	}
	if len(inst.Params) != spec.NumParams {
		return fmt.Errorf("%s takes %d parameters, got %d", inst.Name, spec.NumParams, len(inst.Params))
	}
	seen := make(map[int]struct{}, len(inst.Qubits))
	for _, q := range inst.Qubits {
		if q < 0 || q >= c.NumQubits {
			return fmt.Errorf("qubit %d is out of range for %s with %d qubits", q, c.Name, c.NumQubits)
		}
		if _, ok := seen[q]; ok {
			return fmt.Errorf("duplicate qubit %d in %s", q, inst.Name)
		}
		seen[q] = struct{}{}
	}
	if inst.Name == Measure && len(inst.Clbits) != 1 {
		return fmt.Errorf("measure needs one classical bit, got %d", len(inst.Clbits))
	}
	for _, b := range inst.Clbits {
		if b < 0 || b >= c.NumClbits {
			return fmt.Errorf("clbit %d is out of range for %s with %d clbits", b, c.Name, c.NumClbits)
		}
	}
	return nil
}

// Add appends a gate and keeps the first error for Err.
func (c *Circuit) Add(name string, qubits []int, params ...float64) *Circuit {
	if c.err != nil {
		return c
	}
	c.err = c.Append(Instruction{Name: name, Qubits: qubits, Params: params})
	return c
}

func (c *Circuit) ID(q int) *Circuit { return c.Add("id", []int{q}) }
func (c *Circuit) X(q int) *Circuit { return c.Add("x", []int{q}) }
func (c *Circuit) Y(q int) *Circuit { return c.Add("y", []int{q}) }
func (c *Circuit) Z(q int) *Circuit { return c.Add("z", []int{q}) }
func (c *Circuit) H(q int) *Circuit { return c.Add("h", []int{q}) }
func (c *Circuit) S(q int) *Circuit { return c.Add("s", []int{q}) }
func (c *Circuit) Sdg(q int) *Circuit { return c.Add("sdg", []int{q}) }
func (c *Circuit) T(q int) *Circuit { return c.Add("t", []int{q}) }
func (c *Circuit) Tdg(q int) *Circuit { return c.Add("tdg", []int{q}) }
func (c *Circuit) SX(q int) *Circuit { return c.Add("sx", []int{q}) }
func (c *Circuit) RX(theta float64, q int) *Circuit { return c.Add("rx", []int{q}, theta) }
func (c *Circuit) RY(theta float64, q int) *Circuit { return c.Add("ry", []int{q}, theta) }
func (c *Circuit) RZ(theta float64, q int) *Circuit { return c.Add("rz", []int{q}, theta) }
func (c *Circuit) P(lambda float64, q int) *Circuit { return c.Add("p", []int{q}, lambda) }
func (c *Circuit) CX(ctrl, tgt int) *Circuit { return c.Add("cx", []int{ctrl, tgt}) }
func (c *Circuit) CZ(ctrl, tgt int) *Circuit { return c.Add("cz", []int{ctrl, tgt}) }
func (c *Circuit) Swap(a, b int) *Circuit { return c.Add("swap", []int{a, b}) }
func (c *Circuit) CCX(c1, c2, tgt int) *Circuit { return c.Add("ccx", []int{c1, c2, tgt}) }

func (c *Circuit) CP(lambda float64, ctrl, tgt int) *Circuit {
	return c.Add("cp", []int{ctrl, tgt}, lambda)
}

func (c *Circuit) U3(theta, phi, lambda float64, q int) *Circuit {
	return c.Add("u3", []int{q}, theta, phi, lambda)
}

func (c *Circuit) Measure(q, b int) *Circuit {
	if c.err != nil {
		return c
	}
	c.err = c.Append(Instruction{Name: Measure, Qubits: []int{q}, Clbits: []int{b}})
	return c
}

// Barrier spans all qubits when called without arguments.
func (c *Circuit) Barrier(qubits ...int) *Circuit {
	if len(qubits) == 0 {
		qubits = c.allQubits()
	}
	return c.Add(Barrier, qubits)
}

// MeasureAll adds a barrier and a measurement of every qubit into a fresh
// classical register sized to the qubit count.
func (c *Circuit) MeasureAll() *Circuit {
	if c.err != nil {
		return c
	}
	offset := c.NumClbits
	c.NumClbits += c.NumQubits
	c.Barrier()
	for q := 0; q < c.NumQubits; q++ {
		c.Measure(q, offset+q)
	}
	return c
}

func (c *Circuit) allQubits() []int {
	qs := make([]int, c.NumQubits)
	for i := range qs {
		qs[i] = i
	}
	return qs
}

// Compose appends the instructions of o, with o's qubit i placed on
// qubits[i] of c.
func (c *Circuit) Compose(o *Circuit, qubits []int) error {
	if len(qubits) != o.NumQubits {
		return fmt.Errorf("compose needs %d qubits, got %d", o.NumQubits, len(qubits))
	}
	for _, inst := range o.Instructions {
		mapped := inst
		mapped.Qubits = make([]int, len(inst.Qubits))
		for i, q := range inst.Qubits {
			mapped.Qubits[i] = qubits[q]
		}
		mapped.Clbits = append([]int(nil), inst.Clbits...)
		mapped.Params = append([]float64(nil), inst.Params...)
		if err := c.Append(mapped); err != nil {
			return err
		}
	}
	return nil
}

// Inverse returns the adjoint of a unitary circuit.
func (c *Circuit) Inverse() (*Circuit, error) {
	inv := c.CloneEmpty()
	inv.Name = c.Name + "_dg"
	for i := len(c.Instructions) - 1; i >= 0; i-- {
		in, err := InverseInstruction(c.Instructions[i])
		if err != nil {
			return nil, err
		}
		inv.Instructions = append(inv.Instructions, in...)
	}
	return inv, nil
}

// InverseInstruction returns a sequence implementing the adjoint of inst.
func InverseInstruction(inst Instruction) ([]Instruction, error) {
	spec, err := LookupGate(inst.Name)
	if err != nil {
		return nil, err
	}
	q := append([]int(nil), inst.Qubits...)
	neg := func(name string) []Instruction {
		ps := make([]float64, len(inst.Params))
		for i, p := range inst.Params {
			ps[i] = -p
		}
		return []Instruction{{Name: name, Qubits: q, Params: ps}}
	}
	if spec.SelfInverse || inst.Name == Barrier {
		return []Instruction{{Name: inst.Name, Qubits: q}}, nil
	}
	switch inst.Name {
	case "s":
		return []Instruction{{Name: "sdg", Qubits: q}}, nil
	case "sdg":
		return []Instruction{{Name: "s", Qubits: q}}, nil
	case "t":
		return []Instruction{{Name: "tdg", Qubits: q}}, nil
	case "tdg":
		return []Instruction{{Name: "t", Qubits: q}}, nil
	case "sx":
		return []Instruction{{Name: "sxdg", Qubits: q}}, nil
	case "sxdg":
		return []Instruction{{Name: "sx", Qubits: q}}, nil
	case "rx", "ry", "rz", "p", "u1", "cp", "crx", "cry", "crz", "rxx", "rzz":
		return neg(inst.Name), nil
	case "u2":
		// u2(phi, lambda)^dg = u3(-pi/2, -lambda, -phi)
		return []Instruction{{Name: "u3", Qubits: q, Params: []float64{-halfPi, -inst.Params[1], -inst.Params[0]}}}, nil
	case "u3":
		return []Instruction{{Name: "u3", Qubits: q, Params: []float64{-inst.Params[0], -inst.Params[2], -inst.Params[1]}}}, nil
	case "r":
		return []Instruction{{Name: "r", Qubits: q, Params: []float64{-inst.Params[0], inst.Params[1]}}}, nil
	}
	return nil, fmt.Errorf("%s cannot be inverted", inst.Name)
}

// Without returns a copy of the circuit without the named operations.
func (c *Circuit) Without(names ...string) *Circuit {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	res := c.CloneEmpty()
	for _, inst := range c.Instructions {
		if _, ok := drop[inst.Name]; ok {
			continue
		}
		res.Instructions = append(res.Instructions, inst)
	}
	return res
}

func (c *Circuit) String() string {
	return c.Draw()
}
