//go:build unit
// +build unit

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"", zap.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewZapLogger(&core.Conf{
		DisableStdoutLog:   true,
		EnableFileLog:      true,
		LogDir:             dir,
		LogLevel:           "warn",
		LogRotationMaxDays: 1,
	})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	files, err := filepath.Glob(filepath.Join(dir, "oqtopus-bench-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"shown"`)
	assert.Contains(t, string(b), `"timestamp"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestFileLoggerErrors(t *testing.T) {
	_, err := NewZapLogger(&core.Conf{EnableFileLog: true, LogDir: filepath.Join(t.TempDir(), "missing"), LogRotationMaxDays: 1})
	assert.Error(t, err)
	_, err = NewZapLogger(&core.Conf{EnableFileLog: true, LogDir: t.TempDir(), LogRotationMaxDays: 0})
	assert.Error(t, err)
}

func TestDailyLogger(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)
	dl := newDailyLogger(dir, func() time.Time { return day })
	_, err := dl.Write([]byte("first\n"))
	require.NoError(t, err)
	day = day.Add(2 * time.Minute)
	_, err = dl.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, dl.Close())

	b, err := os.ReadFile(filepath.Join(dir, "metrics-2026-10-15.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(b))
	b, err = os.ReadFile(filepath.Join(dir, "metrics-2026-10-16.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(b))
}

func TestMetrics(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "metrics")
	m, err := NewMetrics(dir)
	require.NoError(t, err)
	m.Logger().Info(MetricsMessage, MetricsKeyFilename, "ghz_alg_3", MetricsKeyNumQubits, 3)
	m.Close()

	files, err := filepath.Glob(filepath.Join(dir, "metrics-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))
	assert.Contains(t, line, `"msg":"Metrics"`)
	assert.Contains(t, line, `"filename":"ghz_alg_3"`)
	assert.Contains(t, line, `"num_qubits":3`)
}
