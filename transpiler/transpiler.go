package transpiler

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/device"
	"go.uber.org/zap"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	MetadataCompiler               = "compiler"
	MetadataVirtualPhysicalMapping = "virtual_physical_mapping"
	MetadataDevice                 = "device"
)

type Setting struct {
	MaxIterations int `toml:"max_iterations"`
}

func NewSetting() Setting {
	return Setting{
		MaxIterations: DefaultMaxIterations,
	}
}

type Options struct {
	OptimizationLevel int
	Layout            LayoutMethod
}

// Transpiler runs the level pipeline: decomposition into the independent
// basis, translation into a native gate set and placement on a device.
type Transpiler struct {
	setting Setting
}

func NewTranspiler() *Transpiler {
	return &Transpiler{setting: NewSetting()}
}

func (t *Transpiler) IsAcceptableCompiler(compiler string) bool {
	return compiler == core.CompilerQiskit || compiler == core.CompilerTKET
}

func (t *Transpiler) Setup(_ *core.Conf) error {
	s := NewSetting()
	ok, err := core.DecodeComponentSetting("transpiler", &s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode transpiler setting/reason:%s", err))
		return err
	}
	if !ok {
		zap.L().Debug("transpiler setting is not found, using defaults")
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive, got %d", s.MaxIterations)
	}
	t.setting = s
	zap.L().Debug(fmt.Sprintf("transpiler setting:%+v", t.setting))
	return nil
}

// Independent decomposes the circuit into single-qubit gates and cx and
// optimizes it.
func (t *Transpiler) Independent(c *circuit.Circuit, opts Options) (*circuit.Circuit, error) {
	dec, err := Decompose(c)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to decompose %s/reason:%s", c.Name, err))
		return nil, err
	}
	return optimize(dec, opts.OptimizationLevel, IndependentBasis(), t.maxIterations())
}

// Native translates the circuit into the gate set and optimizes it there.
func (t *Transpiler) Native(c *circuit.Circuit, gates []string, opts Options) (*circuit.Circuit, error) {
	b, err := NewBasis(gates)
	if err != nil {
		return nil, err
	}
	indep, err := t.Independent(c, opts)
	if err != nil {
		return nil, err
	}
	return t.toBasis(indep, b, opts)
}

// Mapped places the circuit on the device, routes it over the coupling map
// and translates it into the device basis. The layouts are kept in
// c.Layout and the virtual to physical mapping in the metadata.
func (t *Transpiler) Mapped(c *circuit.Circuit, d *device.Device, opts Options) (*circuit.Circuit, error) {
	b, err := NewBasis(d.BasisGates)
	if err != nil {
		return nil, err
	}
	indep, err := t.Independent(c, opts)
	if err != nil {
		return nil, err
	}
	layout, err := Layout(indep, d, opts.Layout)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to lay out %s on %s/reason:%s", c.Name, d.Name, err))
		return nil, err
	}
	routed, err := Route(indep, d, layout)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to route %s on %s/reason:%s", c.Name, d.Name, err))
		return nil, err
	}
	res, err := t.toBasis(routed, b, opts)
	if err != nil {
		return nil, err
	}
	if err := CheckCoupling(res, d); err != nil {
		return nil, err
	}
	vpm, err := NewVirtualPhysicalMapping(res.Layout).String()
	if err != nil {
		return nil, err
	}
	res.Metadata[MetadataDevice] = d.Name
	res.Metadata[MetadataVirtualPhysicalMapping] = vpm
	return res, nil
}

func (t *Transpiler) toBasis(c *circuit.Circuit, b *Basis, opts Options) (*circuit.Circuit, error) {
	native, err := TranslateToNative(c, b)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to translate %s into %v/reason:%s", c.Name, b.Gates, err))
		return nil, err
	}
	res, err := optimize(native, opts.OptimizationLevel, b, t.maxIterations())
	if err != nil {
		return nil, err
	}
	if err := CheckBasis(res, b); err != nil {
		return nil, err
	}
	return res, nil
}

func (t *Transpiler) maxIterations() int {
	if t.setting.MaxIterations < 1 {
		return DefaultMaxIterations
	}
	return t.setting.MaxIterations
}

// VirtualPhysicalMapping holds the initial and final placement of the
// virtual qubits.
type VirtualPhysicalMapping struct {
	QubitMapping      map[string]int `json:"qubit_mapping"`
	FinalQubitMapping map[string]int `json:"final_qubit_mapping"`
}

func NewVirtualPhysicalMapping(l *circuit.Layout) *VirtualPhysicalMapping {
	m := &VirtualPhysicalMapping{
		QubitMapping:      map[string]int{},
		FinalQubitMapping: map[string]int{},
	}
	if l == nil {
		return m
	}
	for v, p := range l.Initial {
		m.QubitMapping[strconv.Itoa(v)] = p
	}
	for v, p := range l.Final {
		m.FinalQubitMapping[strconv.Itoa(v)] = p
	}
	return m
}

func (m *VirtualPhysicalMapping) String() (string, error) {
	b, err := jsonIter.Marshal(m)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal virtual physical mapping:%v/reason:%s", m, err))
		return "", err
	}
	return string(b), nil
}

// PhysicalVirtualMapping inverts the initial placement stored in the
// metadata string.
func PhysicalVirtualMapping(virtualPhysicalMapping string) (map[uint32]uint32, error) {
	var m VirtualPhysicalMapping
	if err := jsonIter.Unmarshal([]byte(virtualPhysicalMapping), &m); err != nil {
		zap.L().Error(fmt.Sprintf("failed to unmarshal virtualPhysicalMapping:%s/reason:%s",
			virtualPhysicalMapping, err))
		return nil, err
	}
	pvm := map[uint32]uint32{}
	for k, v := range m.QubitMapping {
		num, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to convert qubit index:%s/reason:%s", k, err))
			return nil, err
		}
		pvm[uint32(v)] = uint32(num)
	}
	return pvm, nil
}
