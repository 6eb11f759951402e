//go:build unit
// +build unit

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	flags "github.com/jessevdk/go-flags"
	"github.com/oqtopus-team/oqtopus-bench/collector"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOnly parses args without executing the selected command.
func parseOnly(t *testing.T, args ...string) (*Bench, flags.Commander, error) {
	t.Helper()
	b := &Bench{}
	p := newParser(b)
	p.Options = flags.HelpFlag | flags.PassDoubleDash
	var selected flags.Commander
	p.CommandHandler = func(cmd flags.Commander, _ []string) error {
		selected = cmd
		return nil
	}
	_, err := p.ParseArgs(args)
	return b, selected, err
}

func TestParseGenerate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    core.BenchmarkRequest
		wantErr string
	}{
		{
			name: "defaults",
			args: []string{"generate", "--level", "alg", "--algorithm", "ghz", "--num-qubits", "5"},
			want: core.BenchmarkRequest{
				BenchmarkName:    "ghz",
				Level:            "alg",
				CircuitSize:      5,
				CompilerSettings: &core.CompilerSettings{Qiskit: &core.QiskitSettings{OptimizationLevel: 1}},
			},
		},
		{
			name: "native gates",
			args: []string{"generate", "--level", "nativegates", "--algorithm", "qft", "--num-qubits", "4",
				"--qiskit-optimization-level", "3", "--native-gate-set", "ionq"},
			want: core.BenchmarkRequest{
				BenchmarkName:    "qft",
				Level:            "nativegates",
				CircuitSize:      4,
				CompilerSettings: &core.CompilerSettings{Qiskit: &core.QiskitSettings{OptimizationLevel: 3}},
				ProviderName:     "ionq",
			},
		},
		{
			name: "tket mapped",
			args: []string{"generate", "--level", "mapped", "--algorithm", "dj", "--num-qubits", "3",
				"--compiler", "tket", "--device", "oqc_lucy"},
			want: core.BenchmarkRequest{
				BenchmarkName:    "dj",
				Level:            "mapped",
				CircuitSize:      3,
				CompilerSettings: &core.CompilerSettings{TKET: &core.TKETSettings{Placement: core.PlacementLine}},
				DeviceName:       "oqc_lucy",
			},
		},
		{
			name:    "placement without tket",
			args:    []string{"generate", "--level", "mapped", "--algorithm", "dj", "--num-qubits", "3", "--tket-placement", "graphplacement"},
			wantErr: "--tket-placement requires --compiler tket",
		},
		{
			name:    "missing algorithm",
			args:    []string{"generate", "--level", "alg", "--num-qubits", "3"},
			wantErr: "algorithm",
		},
		{
			name:    "optimization level out of range",
			args:    []string{"generate", "--level", "alg", "--algorithm", "ghz", "--num-qubits", "3", "--qiskit-optimization-level", "4"},
			wantErr: "qiskit-optimization-level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd, err := parseOnly(t, tt.args...)
			if err == nil {
				gc, ok := cmd.(*generateCmd)
				require.True(t, ok)
				var req *core.BenchmarkRequest
				req, err = gc.request()
				if err == nil {
					assert.Equal(t, tt.want, *req)
				}
			}
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// useBench parses args into the global bench used by the commands.
func useBench(t *testing.T, args ...string) flags.Commander {
	t.Helper()
	b, cmd, err := parseOnly(t, append([]string{"--disable-stdout-log", "--metrics-dir", t.TempDir()}, args...)...)
	require.NoError(t, err)
	prev := bench
	bench = b
	t.Cleanup(func() {
		bench = prev
		core.ResetSetting()
	})
	return cmd
}

func assetPath(t *testing.T, name string) string {
	t.Helper()
	p, err := common.GetAssetAbsPath(name)
	require.NoError(t, err)
	return p
}

func TestGenerateDefaultFormat(t *testing.T) {
	_, cmd, err := parseOnly(t, "generate", "--level", "alg", "--algorithm", "ghz", "--num-qubits", "3")
	require.NoError(t, err)
	gc, ok := cmd.(*generateCmd)
	require.True(t, ok)
	assert.Equal(t, "qasm2", gc.OutputFormat)
}

func TestParseGlobalOptions(t *testing.T) {
	t.Setenv("OQTOPUS_BENCH_RESULTS_DIR", "charts")
	b, cmd, err := parseOnly(t, "--log-level", "debug", "--record-store", "memory", "evaluate", "--device", "ibm_montreal")
	require.NoError(t, err)
	assert.Equal(t, "debug", b.Conf.LogLevel)
	assert.Equal(t, "charts", b.Conf.ResultsDir)
	assert.Equal(t, "./evaluation_data.ndjson", b.Conf.DatasetPath)
	assert.Equal(t, "memory", b.DIContainerParameters.RecordStore)
	assert.Equal(t, "transpiler", b.DIContainerParameters.Generator)
	ec, ok := cmd.(*evaluateCmd)
	require.True(t, ok)
	assert.Equal(t, []string{"ibm_montreal"}, ec.Devices)
	assert.Equal(t, []string{"qiskit", "tket"}, ec.Compilers)

	_, _, err = parseOnly(t, "--log-level", "trace", "devices")
	assert.Error(t, err)
}

func TestProvideDIContainer(t *testing.T) {
	b := &Bench{DIContainerParameters: &DIContainerParameters{
		Generator:     "unimplemented",
		RecordStore:   "memory",
		ChartRenderer: "unimplemented",
	}}
	c, err := b.provideDIContainer()
	require.NoError(t, err)
	s := core.NewSystemComponents(c)
	require.NoError(t, s.Setup(&core.Conf{ResultsDir: t.TempDir()}))
	circ, err := s.Generate(&core.BenchmarkRequest{BenchmarkName: "ghz", Level: "alg", CircuitSize: 2})
	require.NoError(t, err)
	assert.Equal(t, core.MockCircuitName, circ.Name)

	b.DIContainerParameters.Generator = "quantum"
	c, err = b.provideDIContainer()
	require.NoError(t, err)
	assert.Error(t, core.NewSystemComponents(c).Setup(&core.Conf{}))
}

func TestGenerateWrite(t *testing.T) {
	circ, err := generator.GetBenchmark(&core.BenchmarkRequest{BenchmarkName: "ghz", Level: "indep", CircuitSize: 3})
	require.NoError(t, err)

	var out bytes.Buffer
	c := &generateCmd{OutputFormat: "qasm2", out: &out}
	require.NoError(t, c.write(circ))
	assert.True(t, strings.HasPrefix(out.String(), "// Benchmark was created by oqtopus-bench on "))
	assert.Contains(t, out.String(), "OPENQASM 2.0;")

	out.Reset()
	c.OutputFormat = "draw"
	require.NoError(t, c.write(circ))
	assert.Contains(t, out.String(), "q_0")
}

func TestDevicesCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&devicesCmd{out: &out}).Execute(nil))
	assert.Contains(t, out.String(), `"name": "ibm_montreal"`)
	assert.Contains(t, out.String(), `"num_qubits": 27`)
}

func TestEvaluateCommand(t *testing.T) {
	resultsDir := filepath.Join(t.TempDir(), "results")
	cmd := useBench(t,
		"--dataset-path", assetPath(t, "records.ndjson"),
		"--setting-path", assetPath(t, "setting.toml"),
		"--results-dir", resultsDir,
		"evaluate")
	ec, ok := cmd.(*evaluateCmd)
	require.True(t, ok)
	var out bytes.Buffer
	ec.out = &out
	require.NoError(t, ec.Execute(nil))

	var got evaluationOutput
	require.NoError(t, jsonIter.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 10, got.Summary.Total)
	assert.Equal(t, 7, got.Summary.Mapped)
	assert.Equal(t, 3, got.Summary.NotMapped)
	assert.Equal(t, []string{
		filepath.Join(resultsDir, "device_shares.svg"),
		filepath.Join(resultsDir, "qubits_qiskit.pdf"),
		filepath.Join(resultsDir, "qubits_tket.pdf"),
		filepath.Join(resultsDir, "supermarq_features.pdf"),
	}, got.Charts)
	for _, p := range got.Charts {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), p)
	}
}

func TestEvaluateCommandMissingDataset(t *testing.T) {
	cmd := useBench(t,
		"--dataset-path", filepath.Join(t.TempDir(), "missing.ndjson"),
		"--results-dir", t.TempDir(),
		"--setting-path", filepath.Join(t.TempDir(), "missing.toml"),
		"evaluate")
	ec, ok := cmd.(*evaluateCmd)
	require.True(t, ok)
	ec.out = &bytes.Buffer{}
	err := ec.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func writeCollectorSetting(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "setting.toml")
	require.NoError(t, os.WriteFile(path, []byte(heredoc.Doc(`
		[com.collector]
		benchmarks = ["ghz"]
		sizes = [3]
		levels = ["alg", "indep"]
		providers = ["ibm"]
		devices = ["iqm_adonis"]
		optimization_levels = [1]
		tket_placements = ["lineplacement"]
		workers = 2
		output_path = ""
		qasm_dir = ""
		qasm_format = "qasm2"
	`)), 0o644))
	return path
}

func TestCollectCommand(t *testing.T) {
	resultsDir := filepath.Join(t.TempDir(), "results")
	cmd := useBench(t,
		"--record-store", "memory",
		"--setting-path", writeCollectorSetting(t),
		"--results-dir", resultsDir,
		"collect")
	cc, ok := cmd.(*collectCmd)
	require.True(t, ok)
	var out bytes.Buffer
	cc.out = &out
	require.NoError(t, cc.Execute(nil))

	var res collector.Result
	require.NoError(t, jsonIter.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 3, res.Planned)
	assert.Equal(t, 3, res.Succeeded)
	assert.Zero(t, res.Failed)
	assert.NotEmpty(t, res.RunID)

	_, err := os.Stat(resultsDir)
	assert.True(t, os.IsNotExist(err), "collect writes no charts")
}

func TestCollectCommandFailures(t *testing.T) {
	cmd := useBench(t,
		"--generator", "unimplemented",
		"--record-store", "memory",
		"--setting-path", writeCollectorSetting(t),
		"--results-dir", t.TempDir(),
		"collect")
	cc, ok := cmd.(*collectCmd)
	require.True(t, ok)
	var out bytes.Buffer
	cc.out = &out
	err := cc.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 files failed")
	assert.Contains(t, err.Error(), "compiler tket is not accepted by the generator")

	var res collector.Result
	require.NoError(t, jsonIter.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []string{"ghz_indep_tket_3"}, res.Failures)
}
