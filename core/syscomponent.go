package core

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

type Generator interface {
	Setup(*Conf) error
	IsAcceptableCompiler(string) bool
	Generate(*BenchmarkRequest) (*circuit.Circuit, error)
}

type RecordStore interface {
	Setup(*Conf) error
	Load() ([]FeatureRecord, error)
	Save([]FeatureRecord) error
}

// ChartRenderer writes chart files and returns their paths. Labels and
// values or columns are index-aligned.
type ChartRenderer interface {
	Setup(*Conf) error
	Pie(name, title string, labels []string, values []float64) (string, error)
	HistogramKDE(name, title string, values []float64) (string, error)
	Violin(name, title string, labels []string, columns [][]float64) (string, error)
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{con}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	zap.L().Debug("Setting up generator")
	err := s.Invoke(
		func(g Generator) error {
			return g.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up record store")
	err = s.Invoke(
		func(r RecordStore) error {
			return r.Setup(conf)
		})
	if err != nil {
		return err
	}

	zap.L().Debug("Setting up chart renderer")
	err = s.Invoke(
		func(c ChartRenderer) error {
			return c.Setup(conf)
		})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

func (s *SystemComponents) Generate(req *BenchmarkRequest) (*circuit.Circuit, error) {
	var c *circuit.Circuit
	err := s.Invoke(
		func(g Generator) error {
			var genErr error
			c, genErr = g.Generate(req)
			return genErr
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to generate %s/reason:%s", req, err))
		return nil, err
	}
	return c, nil
}

func (s *SystemComponents) LoadRecords() ([]FeatureRecord, error) {
	var records []FeatureRecord
	err := s.Invoke(
		func(r RecordStore) error {
			var loadErr error
			records, loadErr = r.Load()
			return loadErr
		})
	return records, err
}

func (s *SystemComponents) SaveRecords(records []FeatureRecord) error {
	return s.Invoke(
		func(r RecordStore) error {
			return r.Save(records)
		})
}

func (s *SystemComponents) ChartRenderer() (ChartRenderer, error) {
	var renderer ChartRenderer
	err := s.Invoke(
		func(c ChartRenderer) {
			renderer = c
		})
	return renderer, err
}

func (s *SystemComponents) Generator() (Generator, error) {
	var generator Generator
	err := s.Invoke(
		func(g Generator) {
			generator = g
		})
	return generator, err
}

func (s *SystemComponents) RecordStore() (RecordStore, error) {
	var store RecordStore
	err := s.Invoke(
		func(r RecordStore) {
			store = r
		})
	return store, err
}
