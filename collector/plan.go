package collector

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-bench/benchmarks"
	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/device"
	"github.com/oqtopus-team/oqtopus-bench/generator"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const SettingName = "collector"

// Plan lists the benchmark files of one collection run. Every combination of
// benchmark, size, level and compiler is generated; combinations a benchmark
// or device cannot hold are skipped.
type Plan struct {
	Benchmarks         []string `toml:"benchmarks"`
	Sizes              []int    `toml:"sizes"`
	Levels             []string `toml:"levels"`
	Providers          []string `toml:"providers"`
	Devices            []string `toml:"devices"`
	OptimizationLevels []int    `toml:"optimization_levels"`
	// TKETPlacements adds tket compiled files; empty means qiskit only.
	TKETPlacements []string `toml:"tket_placements"`
	Workers        int      `toml:"workers"`
	// OutputPath overrides the dataset path of the configuration.
	OutputPath string `toml:"output_path"`
	// QASMDir receives one QASM file per circuit when set.
	QASMDir    string `toml:"qasm_dir"`
	QASMFormat string `toml:"qasm_format"`
}

func NewPlan() Plan {
	return Plan{
		Benchmarks:         benchmarks.Names(),
		Sizes:              []int{3, 4, 5},
		Levels:             generator.LevelNames(),
		Providers:          []string{generator.DefaultProviderName},
		Devices:            []string{"ibm_montreal"},
		OptimizationLevels: []int{core.DefaultOptimizationLevel},
		Workers:            4,
		QASMFormat:         string(circuit.QASM3),
	}
}

// LoadPlan reads the [com.collector] setting over the defaults.
func LoadPlan() (Plan, error) {
	p := NewPlan()
	ok, err := core.DecodeComponentSetting(SettingName, &p)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode collector setting/reason:%s", err))
		return Plan{}, err
	}
	if !ok {
		zap.L().Info("collector setting is not found, using defaults")
	}
	return p, p.Validate()
}

func (p Plan) Validate() error {
	var errs error
	if len(p.Benchmarks) == 0 || len(p.Sizes) == 0 || len(p.Levels) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("plan needs benchmarks, sizes and levels"))
	}
	for _, b := range p.Benchmarks {
		if _, err := benchmarks.Lookup(b); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, n := range p.Sizes {
		if n < 1 {
			errs = multierr.Append(errs, fmt.Errorf("size %d is not positive", n))
		}
	}
	for _, l := range p.Levels {
		if _, err := generator.ParseLevel(l); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, name := range p.Providers {
		if _, err := device.ProviderByName(name); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, name := range p.Devices {
		if _, err := device.DeviceByName(name); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, o := range p.OptimizationLevels {
		if o < 0 || o > 3 {
			errs = multierr.Append(errs, fmt.Errorf("optimization level %d is not in [0, 3]", o))
		}
	}
	for _, pl := range p.TKETPlacements {
		if pl != core.PlacementLine && pl != core.PlacementGraph {
			errs = multierr.Append(errs, fmt.Errorf("unknown tket placement %s", pl))
		}
	}
	if len(p.OptimizationLevels) == 0 && len(p.TKETPlacements) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("plan needs optimization levels or tket placements"))
	}
	if p.Workers < 1 {
		errs = multierr.Append(errs, fmt.Errorf("workers must be positive, got %d", p.Workers))
	}
	if p.QASMDir != "" {
		if _, err := circuit.ParseQASMFormat(p.QASMFormat); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// compilerSettings returns the compiler variants of a level. Placement only
// distinguishes tket files at the mapped level.
func (p Plan) compilerSettings(level generator.Level) []*core.CompilerSettings {
	var out []*core.CompilerSettings
	for _, o := range p.OptimizationLevels {
		out = append(out, &core.CompilerSettings{Qiskit: &core.QiskitSettings{OptimizationLevel: o}})
	}
	if level == generator.LevelMapped {
		for _, pl := range p.TKETPlacements {
			out = append(out, &core.CompilerSettings{TKET: &core.TKETSettings{Placement: pl}})
		}
	} else if len(p.TKETPlacements) > 0 {
		out = append(out, &core.CompilerSettings{TKET: &core.TKETSettings{Placement: p.TKETPlacements[0]}})
	}
	return out
}

// Requests expands a validated plan into benchmark requests.
func (p Plan) Requests() ([]*core.BenchmarkRequest, error) {
	var reqs []*core.BenchmarkRequest
	for _, name := range p.Benchmarks {
		b, err := benchmarks.Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, n := range p.Sizes {
			if n < b.MinQubits {
				zap.L().Debug(fmt.Sprintf("skipping %s with %d qubits, needs %d", b.Name, n, b.MinQubits))
				continue
			}
			for _, token := range p.Levels {
				level, err := generator.ParseLevel(token)
				if err != nil {
					return nil, err
				}
				base := core.BenchmarkRequest{BenchmarkName: b.Name, Level: level.String(), CircuitSize: n}
				switch level {
				case generator.LevelAlg:
					r := base
					reqs = append(reqs, &r)
				case generator.LevelIndep:
					for _, s := range p.compilerSettings(level) {
						r := base
						r.CompilerSettings = s
						reqs = append(reqs, &r)
					}
				case generator.LevelNativeGates:
					for _, provider := range p.Providers {
						for _, s := range p.compilerSettings(level) {
							r := base
							r.CompilerSettings = s
							r.ProviderName = provider
							reqs = append(reqs, &r)
						}
					}
				case generator.LevelMapped:
					for _, name := range p.Devices {
						d, err := device.DeviceByName(name)
						if err != nil {
							return nil, err
						}
						if d.NumQubits < b.Qubits(n) {
							zap.L().Debug(fmt.Sprintf("skipping %s with %d qubits on %s", b.Name, b.Qubits(n), d.Name))
							continue
						}
						for _, s := range p.compilerSettings(level) {
							r := base
							r.CompilerSettings = s
							r.DeviceName = d.Name
							reqs = append(reqs, &r)
						}
					}
				}
			}
		}
	}
	return reqs, nil
}
