package generator

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/oqtopus-bench/benchmarks"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/device"
	"github.com/oqtopus-team/oqtopus-bench/transpiler"
	"go.uber.org/zap"
)

const (
	DefaultProviderName = "ibm"
	DefaultDeviceName   = "ibm_washington"
	ToolName            = "oqtopus-bench"
)

// tket flavoured compilation runs at this optimization level
const tketOptimizationLevel = 2

const (
	MetadataLevel    = "level"
	MetadataFilename = "filename"
)

var ErrUnknownBenchmark = benchmarks.ErrUnknownBenchmark

type Request = core.BenchmarkRequest

// target is a validated request.
type target struct {
	benchmark *benchmarks.Benchmark
	level     Level
	size      int
	settings  *core.CompilerSettings
	provider  device.Provider
	device    *device.Device
}

type Generator struct {
	transpiler *transpiler.Transpiler
}

func NewGenerator() *Generator {
	return &Generator{transpiler: transpiler.NewTranspiler()}
}

func (g *Generator) Setup(conf *core.Conf) error {
	if err := g.transpiler.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("failed to set up transpiler/reason:%s", err))
		return err
	}
	return nil
}

func (g *Generator) IsAcceptableCompiler(compiler string) bool {
	return g.transpiler.IsAcceptableCompiler(compiler)
}

// Generate returns the benchmark circuit at the requested level. Level,
// provider and device tokens are checked before anything is built.
func (g *Generator) Generate(req *Request) (*circuit.Circuit, error) {
	t, err := g.resolve(req)
	if err != nil {
		zap.L().Error(fmt.Sprintf("invalid benchmark request %s/reason:%s", req, err))
		return nil, err
	}
	alg, err := t.benchmark.Create(t.size)
	if err != nil {
		return nil, err
	}
	var res *circuit.Circuit
	switch t.level {
	case LevelAlg:
		res = alg
	case LevelIndep:
		res, err = g.transpiler.Independent(alg, t.options())
	case LevelNativeGates:
		res, err = g.transpiler.Native(alg, t.provider.NativeGates(), t.options())
	case LevelMapped:
		res, err = g.transpiler.Mapped(alg, t.device, t.options())
	}
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to compile %s/reason:%s", req, err))
		return nil, err
	}
	res.Metadata[MetadataLevel] = t.level.String()
	res.Metadata[MetadataFilename] = t.filename()
	if t.level != LevelAlg {
		res.Metadata[transpiler.MetadataCompiler] = t.settings.Compiler()
	}
	zap.L().Debug(fmt.Sprintf("generated %s: depth %d, size %d", t.filename(), res.Depth(), res.Size()))
	return res, nil
}

func (g *Generator) resolve(req *Request) (*target, error) {
	if req == nil {
		return nil, fmt.Errorf("benchmark request is nil")
	}
	level, err := ParseLevel(req.Level)
	if err != nil {
		return nil, err
	}
	b, err := benchmarks.Lookup(req.BenchmarkName)
	if err != nil {
		return nil, err
	}
	if req.CircuitSize < b.MinQubits {
		return nil, fmt.Errorf("%s needs at least %d qubits, got %d", b.Name, b.MinQubits, req.CircuitSize)
	}
	t := &target{benchmark: b, level: level, size: req.CircuitSize}
	if level == LevelAlg {
		return t, nil
	}

	t.settings = req.CompilerSettings.Clone()
	if t.settings == nil || (t.settings.Qiskit == nil && t.settings.TKET == nil) {
		t.settings = core.DefaultCompilerSettings()
	}
	if err := validateSettings(t.settings, level); err != nil {
		return nil, err
	}
	if !g.IsAcceptableCompiler(t.settings.Compiler()) {
		return nil, fmt.Errorf("compiler %s is not supported", t.settings.Compiler())
	}

	switch level {
	case LevelNativeGates:
		name := req.ProviderName
		if name == "" {
			name = DefaultProviderName
		}
		if t.provider, err = device.ProviderByName(name); err != nil {
			return nil, err
		}
	case LevelMapped:
		name := req.DeviceName
		if name == "" {
			name = DefaultDeviceName
		}
		if t.device, err = device.DeviceByName(name); err != nil {
			return nil, err
		}
		if req.ProviderName != "" && req.ProviderName != t.device.Provider {
			return nil, fmt.Errorf("device %s is not offered by provider %s", t.device.Name, req.ProviderName)
		}
		if t.provider, err = device.ProviderByName(t.device.Provider); err != nil {
			return nil, err
		}
		if w := b.Qubits(t.size); w > t.device.NumQubits {
			return nil, fmt.Errorf("%s with %d qubits does not fit on %s with %d qubits",
				b.Name, w, t.device.Name, t.device.NumQubits)
		}
	}
	return t, nil
}

func validateSettings(s *core.CompilerSettings, level Level) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Qiskit != nil {
		l := s.Qiskit.OptimizationLevel
		if l < transpiler.MinOptimizationLevel || l > transpiler.MaxOptimizationLevel {
			return fmt.Errorf("qiskit optimization level %d is not in [%d, %d]",
				l, transpiler.MinOptimizationLevel, transpiler.MaxOptimizationLevel)
		}
	}
	if s.TKET != nil && level == LevelMapped {
		switch s.TKET.Placement {
		case core.PlacementLine, core.PlacementGraph:
		default:
			return fmt.Errorf("tket placement %q is not one of %s, %s",
				s.TKET.Placement, core.PlacementLine, core.PlacementGraph)
		}
	}
	return nil
}

func (t *target) options() transpiler.Options {
	if t.settings.TKET != nil {
		layout := transpiler.LayoutLine
		if t.settings.TKET.Placement == core.PlacementGraph {
			layout = transpiler.LayoutDense
		}
		return transpiler.Options{OptimizationLevel: tketOptimizationLevel, Layout: layout}
	}
	level := t.settings.Qiskit.OptimizationLevel
	layout := transpiler.LayoutTrivial
	if level >= 2 {
		layout = transpiler.LayoutDense
	}
	return transpiler.Options{OptimizationLevel: level, Layout: layout}
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// GetBenchmark generates a benchmark with a generator using default
// settings.
func GetBenchmark(req *Request) (*circuit.Circuit, error) {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator.Generate(req)
}

// QASMHeader describes a generated circuit for its QASM file.
func QASMHeader(c *circuit.Circuit) (*circuit.Header, error) {
	level, err := ParseLevel(c.Metadata[MetadataLevel])
	if err != nil {
		return nil, errors.Wrap(err, "circuit was not generated")
	}
	h := &circuit.Header{
		Tool:    ToolName,
		Version: core.Version,
		Date:    strfmt.Date(time.Now()),
	}
	if level >= LevelNativeGates {
		h.GateSet = c.GateSet()
	}
	if level == LevelMapped {
		d, err := device.DeviceByName(c.Metadata[transpiler.MetadataDevice])
		if err != nil {
			return nil, err
		}
		h.Mapped = true
		h.CouplingMap = d.CouplingList()
	}
	return h, nil
}
