package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"

	"github.com/oqtopus-team/oqtopus-bench/chart"
	"github.com/oqtopus-team/oqtopus-bench/collector"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/generator"
	"github.com/oqtopus-team/oqtopus-bench/log"
	"github.com/oqtopus-team/oqtopus-bench/record"
	"github.com/oqtopus-team/oqtopus-bench/transpiler"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

var versionByBuildFlag string
var parser *flags.Parser
var bench *Bench

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	}
	bench = &Bench{}
	parser = newParser(bench)
}

type Bench struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Generator     string `long:"generator" description:"generator-type" default:"transpiler" choice:"transpiler" choice:"unimplemented" env:"OQTOPUS_BENCH_GENERATOR_TYPE"`
	RecordStore   string `long:"record-store" description:"record-store-type" default:"file" choice:"file" choice:"memory" env:"OQTOPUS_BENCH_RECORD_STORE_TYPE"`
	ChartRenderer string `long:"chart-renderer" description:"chart-renderer-type" default:"plot" choice:"plot" choice:"unimplemented" env:"OQTOPUS_BENCH_CHART_RENDERER_TYPE"`
}

func newParser(b *Bench) *flags.Parser {
	p := flags.NewParser(b, flags.Default)
	p.ShortDescription = "oqtopus bench"
	p.LongDescription = heredoc.Doc(`
		Generates quantum circuit benchmarks at four levels (algorithmic,
		target-independent, native gates and mapped), collects their features
		into a dataset and evaluates the dataset into charts.
	`)
	p.AddCommand("generate", "generate a benchmark",
		heredoc.Doc(`
			Generates one benchmark circuit and prints it to stdout as a
			drawing or as OpenQASM. The native gate set is required at the
			nativegates level and the device at the mapped level.
		`), &generateCmd{})
	p.AddCommand("evaluate", "evaluate a dataset",
		heredoc.Doc(`
			Reads the feature records of the dataset, writes the device share
			pie chart, the qubit histograms per compiler and the Supermarq
			feature violin plot, and prints a JSON summary.
		`), &evaluateCmd{})
	p.AddCommand("collect", "collect a dataset",
		heredoc.Doc(`
			Generates every benchmark of the [com.collector] plan of the
			setting file and writes their feature records into the dataset.
		`), &collectCmd{})
	p.AddCommand("devices", "list devices",
		"Prints the providers and devices known to the generator as JSON.", &devicesCmd{})
	return p
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Fprintf(os.Stderr, "failed to run, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (b *Bench) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() (core.Generator, error) {
		switch b.DIContainerParameters.Generator {
		case "transpiler":
			return generator.NewGenerator(), nil
		case "unimplemented":
			return &core.UnimplementedGenerator{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown Generator", b.DIContainerParameters.Generator)
		}
	})
	if err != nil {
		return nil, err
	}
	err = c.Provide(func() (core.RecordStore, error) {
		switch b.DIContainerParameters.RecordStore {
		case "file":
			return &record.FileStore{}, nil
		case "memory":
			return &core.MemoryRecordStore{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown RecordStore", b.DIContainerParameters.RecordStore)
		}
	})
	if err != nil {
		return nil, err
	}
	err = c.Provide(func() (core.ChartRenderer, error) {
		switch b.DIContainerParameters.ChartRenderer {
		case "plot":
			return &chart.Renderer{}, nil
		case "unimplemented":
			return &core.UnimplementedChartRenderer{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown ChartRenderer", b.DIContainerParameters.ChartRenderer)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	parse()
}

// prepare sets up logging, settings and the system components shared by
// every command. The returned function flushes the logger.
func prepare(conf *core.Conf) (*core.SystemComponents, func(), error) {
	logger, err := log.SetZap(conf)
	if err != nil {
		return nil, nil, err
	}
	sync := func() { _ = logger.Sync() }
	core.SetVersion(conf, versionByBuildFlag)
	log.LogVersion()
	core.SetInfo(conf)

	core.ResetSetting()
	registerSetting()
	if _, err := os.Stat(conf.SettingPath); os.IsNotExist(err) {
		zap.L().Info(fmt.Sprintf("setting file %s is not found, using defaults", conf.SettingPath))
	} else if err := core.ParseSettingFromPath(conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		sync()
		return nil, nil, err
	}

	s, err := setupSystemComponents(conf)
	if err != nil {
		sync()
		return nil, nil, err
	}
	return s, sync, nil
}

func setupSystemComponents(conf *core.Conf) (*core.SystemComponents, error) {
	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", bench.DIContainerParameters))
	container, err := bench.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return nil, err
	}
	zap.L().Debug("Setting up System Components")
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		return nil, err
	}
	return s, nil
}

func registerSetting() {
	core.RegisterSetting("transpiler", transpiler.NewSetting())
	core.RegisterSetting(chart.SettingName, chart.NewSetting())
	core.RegisterSetting(collector.SettingName, collector.NewPlan())
}

func runCollector(s *core.SystemComponents, conf *core.Conf) (*collector.Result, error) {
	plan, err := collector.LoadPlan()
	if err != nil {
		return nil, err
	}
	g, err := s.Generator()
	if err != nil {
		return nil, err
	}
	var store core.RecordStore = record.NewFileStore(plan.OutputPath)
	if plan.OutputPath == "" {
		if store, err = s.RecordStore(); err != nil {
			return nil, err
		}
	}
	metrics, err := log.NewMetrics(conf.MetricsDir)
	if err != nil {
		return nil, err
	}
	defer metrics.Close()

	c, err := collector.NewCollector(plan, g, store, metrics.Logger())
	if err != nil {
		return nil, err
	}
	return c.RunWithSignals(context.Background())
}
