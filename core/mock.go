package core

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"go.uber.org/dig"
)

const MockCircuitName = "unimplemented"

type UnimplementedGenerator struct{}

func (u *UnimplementedGenerator) Setup(*Conf) error { return nil }

func (u *UnimplementedGenerator) IsAcceptableCompiler(compiler string) bool {
	return compiler == CompilerQiskit
}

func (u *UnimplementedGenerator) Generate(req *BenchmarkRequest) (*circuit.Circuit, error) {
	c := circuit.New(MockCircuitName, req.CircuitSize, 0)
	for q := 0; q < req.CircuitSize; q++ {
		c.H(q)
	}
	return c, c.Err()
}

type failingGeneratorForTest struct {
	UnimplementedGenerator
}

func (failingGeneratorForTest) Generate(req *BenchmarkRequest) (*circuit.Circuit, error) {
	return nil, fmt.Errorf("failed to generate %s", req.BenchmarkName)
}

// MemoryRecordStore keeps the dataset in memory.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records []FeatureRecord
}

func (m *MemoryRecordStore) Setup(*Conf) error { return nil }

func (m *MemoryRecordStore) Load() ([]FeatureRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		return nil, fmt.Errorf("no records are stored")
	}
	return append([]FeatureRecord(nil), m.records...), nil
}

func (m *MemoryRecordStore) Save(records []FeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]FeatureRecord(nil), records...)
	return nil
}

// UnimplementedChartRenderer returns the paths it would write without
// writing anything.
type UnimplementedChartRenderer struct {
	dir string
}

func (u *UnimplementedChartRenderer) Setup(conf *Conf) error {
	u.dir = conf.ResultsDir
	return nil
}

func (u *UnimplementedChartRenderer) Pie(name, _ string, labels []string, values []float64) (string, error) {
	if len(labels) != len(values) {
		return "", fmt.Errorf("%d labels for %d values", len(labels), len(values))
	}
	return filepath.Join(u.dir, name), nil
}

func (u *UnimplementedChartRenderer) HistogramKDE(name, _ string, _ []float64) (string, error) {
	return filepath.Join(u.dir, name), nil
}

func (u *UnimplementedChartRenderer) Violin(name, _ string, labels []string, columns [][]float64) (string, error) {
	if len(labels) != len(columns) {
		return "", fmt.Errorf("%d labels for %d columns", len(labels), len(columns))
	}
	return filepath.Join(u.dir, name), nil
}

func SCWithUnimplementedContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() Generator { return &UnimplementedGenerator{} })
	c.Provide(func() RecordStore { return &MemoryRecordStore{} })
	c.Provide(func() ChartRenderer { return &UnimplementedChartRenderer{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{ResultsDir: "results"})
	return s
}

func SCWithFailingGenerator() *SystemComponents {
	c := dig.New()
	c.Provide(func() Generator { return &failingGeneratorForTest{} })
	c.Provide(func() RecordStore { return &MemoryRecordStore{} })
	c.Provide(func() ChartRenderer { return &UnimplementedChartRenderer{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{ResultsDir: "results"})
	return s
}
