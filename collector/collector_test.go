//go:build unit
// +build unit

package collector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/generator"
	"github.com/oqtopus-team/oqtopus-bench/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPlan() Plan {
	return Plan{
		Benchmarks:         []string{"ghz"},
		Sizes:              []int{3},
		Levels:             generator.LevelNames(),
		Providers:          []string{"ibm"},
		Devices:            []string{"iqm_adonis"},
		OptimizationLevels: []int{1},
		TKETPlacements:     []string{core.PlacementLine},
		Workers:            2,
		QASMFormat:         "qasm3",
	}
}

var tinyPlanFiles = []string{
	"ghz_alg_3",
	"ghz_indep_qiskit_opt1_3",
	"ghz_indep_tket_3",
	"ghz_mapped_iqm_adonis_qiskit_opt1_3",
	"ghz_mapped_iqm_adonis_tket_lineplacement_3",
	"ghz_nativegates_ibm_qiskit_opt1_3",
	"ghz_nativegates_ibm_tket_3",
}

func filenames(records []core.FeatureRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Filename
	}
	return names
}

type mappedFailsGenerator struct {
	*generator.Generator
}

func (m mappedFailsGenerator) Generate(req *core.BenchmarkRequest) (*circuit.Circuit, error) {
	if req.Level == "mapped" {
		return nil, fmt.Errorf("device is offline")
	}
	return m.Generator.Generate(req)
}

func TestRequests(t *testing.T) {
	reqs, err := tinyPlan().Requests()
	require.NoError(t, err)
	var names []string
	for _, r := range reqs {
		name, err := generator.Filename(r)
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.ElementsMatch(t, tinyPlanFiles, names)

	p := tinyPlan()
	p.Benchmarks = []string{"graphstate", "ghz"}
	p.Sizes = []int{2, 7}
	p.Levels = []string{"alg", "mapped"}
	p.TKETPlacements = nil
	reqs, err = p.Requests()
	require.NoError(t, err)
	names = nil
	for _, r := range reqs {
		name, err := generator.Filename(r)
		require.NoError(t, err)
		names = append(names, name)
	}
	// graphstate needs 3 qubits; iqm_adonis holds 5
	assert.ElementsMatch(t, []string{
		"graphstate_alg_7",
		"ghz_alg_2",
		"ghz_mapped_iqm_adonis_qiskit_opt1_2",
		"ghz_alg_7",
	}, names)
}

func TestRequestsCountAncillas(t *testing.T) {
	p := tinyPlan()
	p.Benchmarks = []string{"grover-noancilla", "grover-v-chain"}
	p.Sizes = []int{4, 5}
	p.Levels = []string{"mapped"}
	p.TKETPlacements = nil
	reqs, err := p.Requests()
	require.NoError(t, err)
	var names []string
	for _, r := range reqs {
		name, err := generator.Filename(r)
		require.NoError(t, err)
		names = append(names, name)
	}
	// grover-v-chain on 5 qubits needs 2 ancillas
	assert.ElementsMatch(t, []string{
		"grover-noancilla_mapped_iqm_adonis_qiskit_opt1_4",
		"grover-noancilla_mapped_iqm_adonis_qiskit_opt1_5",
		"grover-v-chain_mapped_iqm_adonis_qiskit_opt1_4",
	}, names)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NewPlan().Validate())

	p := tinyPlan()
	p.Benchmarks = []string{"shor"}
	p.Sizes = []int{0}
	p.Levels = []string{"layout"}
	p.Providers = []string{"dwave"}
	p.Devices = []string{"ibm_nowhere"}
	p.OptimizationLevels = []int{4}
	p.TKETPlacements = []string{"noplacement"}
	p.Workers = 0
	p.QASMDir = "qasm"
	p.QASMFormat = "qasm4"
	err := p.Validate()
	require.Error(t, err)
	for _, msg := range []string{
		"shor",
		"size 0 is not positive",
		"layout",
		"dwave",
		"ibm_nowhere",
		"optimization level 4 is not in [0, 3]",
		"unknown tket placement noplacement",
		"workers must be positive, got 0",
		"unknown qasm format: qasm4",
	} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestLoadPlan(t *testing.T) {
	core.ResetSetting()
	defer core.ResetSetting()
	path, err := common.GetAssetAbsPath("setting.toml")
	require.NoError(t, err)
	require.NoError(t, core.ParseSettingFromPath(path))

	p, err := LoadPlan()
	require.NoError(t, err)
	assert.Equal(t, []string{"ghz", "dj"}, p.Benchmarks)
	assert.Equal(t, 2, p.Workers)
	assert.Equal(t, "evaluation_data.ndjson", p.OutputPath)
	reqs, err := p.Requests()
	require.NoError(t, err)
	assert.Len(t, reqs, 24)

	core.ResetSetting()
	p, err = LoadPlan()
	require.NoError(t, err)
	assert.Equal(t, NewPlan(), p)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	p := tinyPlan()
	p.QASMDir = filepath.Join(dir, "qasm")
	store := record.NewFileStore(filepath.Join(dir, "data.ndjson"))
	var metrics bytes.Buffer

	c, err := NewCollector(p, generator.NewGenerator(), store, slog.New(slog.NewJSONHandler(&metrics, nil)))
	require.NoError(t, err)
	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, 7, res.Planned)
	assert.Equal(t, 7, res.Succeeded)
	assert.Zero(t, res.Failed)
	assert.NotEmpty(t, res.RunID)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, tinyPlanFiles, filenames(records))
	for _, r := range records {
		if strings.Contains(r.Filename, "mapped") {
			assert.Equal(t, 5, r.NumQubits, r.Filename)
		} else {
			assert.Equal(t, 3, r.NumQubits, r.Filename)
		}
	}

	qasm, err := os.ReadFile(filepath.Join(p.QASMDir, "ghz_mapped_iqm_adonis_qiskit_opt1_3.qasm"))
	require.NoError(t, err)
	assert.Contains(t, string(qasm), "// Coupling List: [")
	assert.Contains(t, string(qasm), "OPENQASM 3.0;")

	lines := strings.Split(strings.TrimSpace(metrics.String()), "\n")
	assert.Len(t, lines, 7)
	for _, l := range lines {
		assert.Contains(t, l, `"run_id":"`+res.RunID+`"`)
		assert.Contains(t, l, `"status":"succeeded"`)
	}
}

func TestRunCollectsFailures(t *testing.T) {
	store := &core.MemoryRecordStore{}
	c, err := NewCollector(tinyPlan(), mappedFailsGenerator{generator.NewGenerator()}, store, nil)
	require.NoError(t, err)
	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Succeeded)
	assert.Equal(t, []string{
		"ghz_mapped_iqm_adonis_qiskit_opt1_3",
		"ghz_mapped_iqm_adonis_tket_lineplacement_3",
	}, res.Failures)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "device is offline")

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, "ghz_alg_3", records[0].Filename)
}

func TestRunRejectsUnacceptedCompiler(t *testing.T) {
	store := &core.MemoryRecordStore{}
	c, err := NewCollector(tinyPlan(), &core.UnimplementedGenerator{}, store, nil)
	require.NoError(t, err)
	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Succeeded)
	assert.Equal(t, []string{
		"ghz_indep_tket_3",
		"ghz_mapped_iqm_adonis_tket_lineplacement_3",
		"ghz_nativegates_ibm_tket_3",
	}, res.Failures)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "compiler tket is not accepted by the generator")
}

func TestRunCancelled(t *testing.T) {
	store := &core.MemoryRecordStore{}
	c, err := NewCollector(tinyPlan(), generator.NewGenerator(), store, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Load()
	assert.Error(t, err)
}

func TestRunWithSignals(t *testing.T) {
	store := &core.MemoryRecordStore{}
	p := tinyPlan()
	p.Levels = []string{"alg"}
	c, err := NewCollector(p, generator.NewGenerator(), store, nil)
	require.NoError(t, err)
	res, err := c.RunWithSignals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
}

func TestNewCollectorRejectsInvalidPlan(t *testing.T) {
	p := tinyPlan()
	p.Workers = 0
	_, err := NewCollector(p, generator.NewGenerator(), &core.MemoryRecordStore{}, nil)
	assert.Error(t, err)
}
