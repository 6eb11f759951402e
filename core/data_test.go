//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

func TestFeatureRecordToString(t *testing.T) {
	r := &FeatureRecord{
		Filename:              "ghz_alg_3",
		NumQubits:             3,
		Depth:                 4,
		NumGates:              6,
		NumMultipleQubitGates: 2,
		SupermarqFeatures: SupermarqFeatures{
			ProgramCommunication: 0.5,
			CriticalDepth:        1,
			EntanglementRatio:    0.5,
			Parallelism:          0,
			Liveness:             0.75,
		},
	}
	want := heredoc.Doc(`
	  {
	    "filename": "ghz_alg_3",
	    "num_qubits": 3,
	    "depth": 4,
	    "num_gates": 6,
	    "num_multiple_qubit_gates": 2,
	    "supermarq_features": {
	      "program_communication": 0.5,
	      "critical_depth": 1,
	      "entanglement_ratio": 0.5,
	      "parallelism": 0,
	      "liveness": 0.75
	    }
	  }
	`)
	assert.Equal(t, want, r.String())
}

func TestBenchmarkRequestToString(t *testing.T) {
	tests := []struct {
		name string
		req  *BenchmarkRequest
		want string
	}{
		{
			name: "alg",
			req:  &BenchmarkRequest{BenchmarkName: "ghz", Level: "alg", CircuitSize: 5},
			want: `{"benchmark_name":"ghz","level":"alg","circuit_size":5}`,
		},
		{
			name: "mapped with settings",
			req: &BenchmarkRequest{
				BenchmarkName:    "dj",
				Level:            "mapped",
				CircuitSize:      3,
				CompilerSettings: DefaultCompilerSettings(),
				DeviceName:       "ibm_montreal",
			},
			want: `{"benchmark_name":"dj","level":"mapped","circuit_size":3,` +
				`"compiler_settings":{"qiskit":{"optimization_level":1}},"device_name":"ibm_montreal"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.String())
		})
	}
}

func TestCompilerSettings(t *testing.T) {
	tests := []struct {
		name         string
		settings     *CompilerSettings
		wantCompiler string
		wantErr      bool
	}{
		{"nil", nil, CompilerQiskit, false},
		{"default", DefaultCompilerSettings(), CompilerQiskit, false},
		{"tket", &CompilerSettings{TKET: &TKETSettings{Placement: PlacementLine}}, CompilerTKET, false},
		{
			name: "both",
			settings: &CompilerSettings{
				Qiskit: &QiskitSettings{OptimizationLevel: 2},
				TKET:   &TKETSettings{Placement: PlacementGraph},
			},
			wantCompiler: CompilerTKET,
			wantErr:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCompiler, tt.settings.Compiler())
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCloneCompilerSettings(t *testing.T) {
	orig := DefaultCompilerSettings()
	cloned := orig.Clone()
	cloned.Qiskit.OptimizationLevel = 3
	assert.Equal(t, DefaultOptimizationLevel, orig.Qiskit.OptimizationLevel)
	assert.Nil(t, (*CompilerSettings)(nil).Clone())
}
