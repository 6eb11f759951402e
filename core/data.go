package core

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	CompilerQiskit = "qiskit"
	CompilerTKET   = "tket"
)

const (
	PlacementLine  = "lineplacement"
	PlacementGraph = "graphplacement"
)

const DefaultOptimizationLevel = 1

type QiskitSettings struct {
	OptimizationLevel int `json:"optimization_level" toml:"optimization_level"`
}

type TKETSettings struct {
	Placement string `json:"placement" toml:"placement"`
}

// CompilerSettings selects the compiler flavour of the target-dependent
// levels. At most one of the two may be set.
type CompilerSettings struct {
	Qiskit *QiskitSettings `json:"qiskit,omitempty" toml:"qiskit,omitempty"`
	TKET   *TKETSettings   `json:"tket,omitempty" toml:"tket,omitempty"`
}

func DefaultCompilerSettings() *CompilerSettings {
	return &CompilerSettings{
		Qiskit: &QiskitSettings{OptimizationLevel: DefaultOptimizationLevel},
	}
}

func (c *CompilerSettings) Compiler() string {
	if c != nil && c.TKET != nil {
		return CompilerTKET
	}
	return CompilerQiskit
}

func (c *CompilerSettings) Validate() error {
	if c == nil {
		return nil
	}
	if c.Qiskit != nil && c.TKET != nil {
		return fmt.Errorf("only one of qiskit and tket settings can be given")
	}
	return nil
}

func (c *CompilerSettings) Clone() *CompilerSettings {
	if c == nil {
		return nil
	}
	return deepcopy.Copy(c).(*CompilerSettings)
}

// BenchmarkRequest is the input of a single benchmark generation. Level is
// kept as given and parsed by the generator.
type BenchmarkRequest struct {
	BenchmarkName    string            `json:"benchmark_name"`
	Level            string            `json:"level"`
	CircuitSize      int               `json:"circuit_size"`
	CompilerSettings *CompilerSettings `json:"compiler_settings,omitempty"`
	ProviderName     string            `json:"provider_name,omitempty"`
	DeviceName       string            `json:"device_name,omitempty"`
}

func (r *BenchmarkRequest) String() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal benchmark request/reason:%s", err))
		return ""
	}
	return string(st)
}

type SupermarqFeatures struct {
	ProgramCommunication float64 `json:"program_communication"`
	CriticalDepth        float64 `json:"critical_depth"`
	EntanglementRatio    float64 `json:"entanglement_ratio"`
	Parallelism          float64 `json:"parallelism"`
	Liveness             float64 `json:"liveness"`
}

// FeatureRecord describes one generated benchmark file. The filename is its
// identity.
type FeatureRecord struct {
	Filename              string            `json:"filename"`
	NumQubits             int               `json:"num_qubits"`
	Depth                 int               `json:"depth"`
	NumGates              int               `json:"num_gates"`
	NumMultipleQubitGates int               `json:"num_multiple_qubit_gates"`
	SupermarqFeatures     SupermarqFeatures `json:"supermarq_features"`
}

func (r *FeatureRecord) String() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal feature record/reason:%s", err))
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}
