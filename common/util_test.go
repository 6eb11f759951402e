//go:build unit
// +build unit

package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAsset(t *testing.T) {
	blob, err := GetAsset("records.ndjson")
	require.NoError(t, err)
	assert.Contains(t, blob, `"filename":"ghz_alg_5"`)

	_, err = GetAsset("no_such_file.json")
	assert.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"native-gates", "nativegates"},
		{"Native_Gates", "nativegates"},
		{" ALG ", "alg"},
		{"target-independent", "targetindependent"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestPlaninJsonString(t *testing.T) {
	jsonString := "{\n  \"name\": \"ghz\",\n  \"qubits\"}"
	expected := "{\"name\":\"ghz\",\"qubits\"}"

	actual := PlainJsonString(jsonString)
	assert.Equal(t, expected, actual)
	assert.Equal(t, "", PlainJsonString(""))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "charts")
	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, EnsureDir(file))
}

func TestIsDirWritable(t *testing.T) {
	assert.NoError(t, IsDirWritable(t.TempDir()))
	assert.EqualError(t, IsDirWritable("/no/such/dir"), "directory does not exist: /no/such/dir")
}
