package circuit

import (
	"fmt"
	"sort"
)

const (
	Measure = "measure"
	Barrier = "barrier"
	Reset   = "reset"
)

// GateSpec describes the shape of a gate: how many qubits it acts on and how
// many angle parameters it takes.
type GateSpec struct {
	Name        string
	NumQubits   int
	NumParams   int
	SelfInverse bool
	Directive   bool
}

var gateSpecs = map[string]GateSpec{
	"id":   {Name: "id", NumQubits: 1, SelfInverse: true},
	"x":    {Name: "x", NumQubits: 1, SelfInverse: true},
	"y":    {Name: "y", NumQubits: 1, SelfInverse: true},
	"z":    {Name: "z", NumQubits: 1, SelfInverse: true},
	"h":    {Name: "h", NumQubits: 1, SelfInverse: true},
	"s":    {Name: "s", NumQubits: 1},
	"sdg":  {Name: "sdg", NumQubits: 1},
	"t":    {Name: "t", NumQubits: 1},
	"tdg":  {Name: "tdg", NumQubits: 1},
	"sx":   {Name: "sx", NumQubits: 1},
	"sxdg": {Name: "sxdg", NumQubits: 1},
	"rx":   {Name: "rx", NumQubits: 1, NumParams: 1},
	"ry":   {Name: "ry", NumQubits: 1, NumParams: 1},
	"rz":   {Name: "rz", NumQubits: 1, NumParams: 1},
	"p":    {Name: "p", NumQubits: 1, NumParams: 1},
	"u1":   {Name: "u1", NumQubits: 1, NumParams: 1},
	"u2":   {Name: "u2", NumQubits: 1, NumParams: 2},
	"u3":   {Name: "u3", NumQubits: 1, NumParams: 3},
	"r":    {Name: "r", NumQubits: 1, NumParams: 2},

	"cx":   {Name: "cx", NumQubits: 2, SelfInverse: true},
	"cy":   {Name: "cy", NumQubits: 2, SelfInverse: true},
	"cz":   {Name: "cz", NumQubits: 2, SelfInverse: true},
	"ch":   {Name: "ch", NumQubits: 2, SelfInverse: true},
	"swap": {Name: "swap", NumQubits: 2, SelfInverse: true},
	"cp":   {Name: "cp", NumQubits: 2, NumParams: 1},
	"crx":  {Name: "crx", NumQubits: 2, NumParams: 1},
	"cry":  {Name: "cry", NumQubits: 2, NumParams: 1},
	"crz":  {Name: "crz", NumQubits: 2, NumParams: 1},
	"rxx":  {Name: "rxx", NumQubits: 2, NumParams: 1},
	"rzz":  {Name: "rzz", NumQubits: 2, NumParams: 1},
	"ecr":  {Name: "ecr", NumQubits: 2, SelfInverse: true},

	"ccx":   {Name: "ccx", NumQubits: 3, SelfInverse: true},
	"cswap": {Name: "cswap", NumQubits: 3, SelfInverse: true},

	Measure: {Name: Measure, NumQubits: 1},
	Reset:   {Name: Reset, NumQubits: 1},
	// barrier spans any number of qubits
	Barrier: {Name: Barrier, NumQubits: -1, Directive: true},
}

// LookupGate returns the definition of a known gate.
func LookupGate(name string) (GateSpec, error) {
	g, ok := gateSpecs[name]
	if !ok {
		return GateSpec{}, fmt.Errorf("unknown gate %s", name)
	}
	return g, nil
}

// IsKnownGate reports whether name is in the gate library.
func IsKnownGate(name string) bool {
	_, ok := gateSpecs[name]
	return ok
}

// GateNames returns every gate name of the library in sorted order.
func GateNames() []string {
	names := make([]string, 0, len(gateSpecs))
	for n := range gateSpecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsUnitary reports whether the operation is a unitary gate, that is neither
// a measurement, a reset nor a barrier.
func IsUnitary(name string) bool {
	return name != Measure && name != Reset && name != Barrier
}
