package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oqtopus-team/oqtopus-bench/common"
	"go.uber.org/zap"
)

const (
	MetricsMessage = "Metrics"

	MetricsKeyRunID     = "run_id"
	MetricsKeyFilename  = "filename"
	MetricsKeyDuration  = "duration_ms"
	MetricsKeyNumQubits = "num_qubits"
	MetricsKeyDepth     = "depth"
	MetricsKeyStatus    = "status"
	MetricsKeyError     = "error"
)

// Metrics writes JSON lines into metrics-<date>.log files in a directory.
type Metrics struct {
	dl     *dailyLogger
	logger *slog.Logger
}

func NewMetrics(fileDir string) (*Metrics, error) {
	if err := common.EnsureDir(fileDir); err != nil {
		return nil, fmt.Errorf("failed to write to %s: %w", fileDir, err)
	}
	dl := newDailyLogger(fileDir, time.Now)
	return &Metrics{
		dl:     dl,
		logger: slog.New(slog.NewJSONHandler(dl, nil)),
	}, nil
}

func (m *Metrics) Logger() *slog.Logger {
	return m.logger
}

func (m *Metrics) Close() {
	if err := m.dl.Close(); err != nil {
		zap.L().Error("failed to close metrics log", zap.Error(err))
	}
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
	now             func() time.Time
}

func newDailyLogger(fileDir string, now func() time.Time) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
		now:     now,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := fmt.Sprintf("metrics-%s.log", dl.now().Format("2006-01-02"))
	if dl.file == nil || dl.currentFileName != fileName {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filepath.Join(dl.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			dl.file = nil
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}
