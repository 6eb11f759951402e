//go:build unit
// +build unit

package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLine = `{"filename":"ghz_alg_3","num_qubits":3,"depth":4,"num_gates":6,"num_multiple_qubit_gates":2,` +
	`"supermarq_features":{"program_communication":0.5,"critical_depth":1,"entanglement_ratio":0.5,"parallelism":0,"liveness":0.75}}`

func TestLoadAssetDataset(t *testing.T) {
	path, err := common.GetAssetAbsPath("records.ndjson")
	require.NoError(t, err)
	s := NewFileStore(path)
	records, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, records, 10)
	assert.Equal(t, "ghz_alg_5", records[0].Filename)
	for _, r := range records {
		assert.LessOrEqual(t, r.NumMultipleQubitGates, r.NumGates)
	}
}

func TestReadNDJSON(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantLen     int
		wantErrs    []string
		wantInvalid bool
	}{
		{
			name:    "valid with blank lines",
			in:      validLine + "\n\n" + strings.Replace(validLine, "ghz_alg_3", "ghz_alg_4", 1) + "\n",
			wantLen: 2,
		},
		{
			name:    "empty",
			in:      "",
			wantLen: 0,
		},
		{
			name:        "missing fields are reported together",
			in:          `{"filename":"x","num_qubits":3,"supermarq_features":{"liveness":0.2}}`,
			wantInvalid: true,
			wantErrs: []string{
				"line 1",
				"missing field depth",
				"missing field num_gates",
				"missing field num_multiple_qubit_gates",
				"missing field supermarq_features.program_communication",
			},
		},
		{
			name:        "wrong types",
			in:          validLine + "\n" + `{"filename":3,"num_qubits":"3","depth":1.5,"num_gates":-1,"num_multiple_qubit_gates":0,"supermarq_features":[]}`,
			wantInvalid: true,
			wantErrs: []string{
				"line 2",
				"field filename must be a non-empty string",
				"field num_qubits must be a number",
				"field depth must be a non-negative integer, got 1.5",
				"field num_gates must be a non-negative integer, got -1",
				"field supermarq_features must be an object",
			},
		},
		{
			name:        "feature out of range",
			in:          strings.Replace(validLine, `"liveness":0.75`, `"liveness":1.75`, 1),
			wantInvalid: true,
			wantErrs:    []string{"field supermarq_features.liveness must be in [0, 1], got 1.75"},
		},
		{
			name:        "not an object",
			in:          "[1, 2]",
			wantInvalid: true,
			wantErrs:    []string{"not a JSON object"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadNDJSON(strings.NewReader(tt.in))
			if tt.wantInvalid {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRecord))
				assert.Nil(t, got)
				for _, msg := range tt.wantErrs {
					assert.Contains(t, err.Error(), msg)
				}
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestReadJSON(t *testing.T) {
	got, err := ReadJSON(strings.NewReader("[" + validLine + "]"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.75, got[0].SupermarqFeatures.Liveness)

	_, err = ReadJSON(strings.NewReader(validLine))
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	_, err = ReadJSON(strings.NewReader(`[{"filename":"x"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 0")
}

func TestFileStoreRoundTrip(t *testing.T) {
	records := []FeatureRecord{
		{Filename: "qft_alg_3", NumQubits: 3, Depth: 7, NumGates: 12, NumMultipleQubitGates: 4},
		{Filename: "bv_alg_3", NumQubits: 3, Depth: 5, NumGates: 9, NumMultipleQubitGates: 1,
			SupermarqFeatures: SupermarqFeatures{Liveness: 0.5}},
	}
	for _, name := range []string{"data.ndjson", "data.json"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "nested", name)
			s := &FileStore{}
			require.NoError(t, s.Setup(&core.Conf{DatasetPath: path}))
			require.NoError(t, s.Save(records))
			_, err := os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))

			got, err := s.Load()
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "bv_alg_3", got[0].Filename)
			assert.Equal(t, records[0], got[1])
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteJSON(&b, nil))
	assert.Equal(t, "[]\n", b.String())

	b.Reset()
	require.NoError(t, WriteNDJSON(&b, []FeatureRecord{{Filename: "a"}}))
	want := heredoc.Doc(`
	  {"filename":"a","num_qubits":0,"depth":0,"num_gates":0,"num_multiple_qubit_gates":0,"supermarq_features":{"program_communication":0,"critical_depth":0,"entanglement_ratio":0,"parallelism":0,"liveness":0}}
	`)
	assert.Equal(t, want, b.String())
}

func TestFileStoreErrors(t *testing.T) {
	assert.Error(t, (&FileStore{}).Setup(&core.Conf{}))
	_, err := NewFileStore(filepath.Join(t.TempDir(), "missing.ndjson")).Load()
	assert.Error(t, err)
}
