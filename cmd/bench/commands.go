package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/device"
	"github.com/oqtopus-team/oqtopus-bench/evaluation"
	"github.com/oqtopus-team/oqtopus-bench/generator"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const outputDraw = "draw"

type generateCmd struct {
	Level                   string `long:"level" description:"alg, indep, nativegates or mapped" required:"true"`
	Algorithm               string `long:"algorithm" description:"benchmark name" required:"true"`
	NumQubits               int    `long:"num-qubits" description:"circuit size" required:"true"`
	Compiler                string `long:"compiler" description:"compiler" default:"qiskit" choice:"qiskit" choice:"tket"`
	QiskitOptimizationLevel int    `long:"qiskit-optimization-level" description:"qiskit optimization level" default:"1" choice:"0" choice:"1" choice:"2" choice:"3"`
	TKETPlacement           string `long:"tket-placement" description:"tket placement at the mapped level" choice:"lineplacement" choice:"graphplacement"`
	NativeGateSet           string `long:"native-gate-set" description:"provider of the native gate set"`
	Device                  string `long:"device" description:"device of the mapped level"`
	OutputFormat            string `long:"output-format" description:"output format" default:"qasm2" choice:"qasm2" choice:"qasm3" choice:"draw"`

	out io.Writer
}

func (c *generateCmd) request() (*core.BenchmarkRequest, error) {
	req := &core.BenchmarkRequest{
		BenchmarkName: c.Algorithm,
		Level:         c.Level,
		CircuitSize:   c.NumQubits,
		ProviderName:  c.NativeGateSet,
		DeviceName:    c.Device,
	}
	switch c.Compiler {
	case core.CompilerTKET:
		placement := c.TKETPlacement
		if placement == "" {
			placement = core.PlacementLine
		}
		req.CompilerSettings = &core.CompilerSettings{TKET: &core.TKETSettings{Placement: placement}}
	default:
		if c.TKETPlacement != "" {
			return nil, fmt.Errorf("--tket-placement requires --compiler %s", core.CompilerTKET)
		}
		req.CompilerSettings = &core.CompilerSettings{
			Qiskit: &core.QiskitSettings{OptimizationLevel: c.QiskitOptimizationLevel},
		}
	}
	return req, nil
}

func (c *generateCmd) Execute(args []string) error {
	req, err := c.request()
	if err != nil {
		return err
	}
	s, flush, err := prepare(bench.Conf)
	if err != nil {
		return err
	}
	defer flush()

	circ, err := s.Generate(req)
	if err != nil {
		return err
	}
	return c.write(circ)
}

func (c *generateCmd) write(circ *circuit.Circuit) error {
	out := writerOrStdout(c.out)
	if c.OutputFormat == outputDraw {
		_, err := fmt.Fprintln(out, circ.Draw())
		return err
	}
	format, err := circuit.ParseQASMFormat(c.OutputFormat)
	if err != nil {
		return err
	}
	h, err := generator.QASMHeader(circ)
	if err != nil {
		return err
	}
	return circ.WriteQASM(out, format, h)
}

type evaluateCmd struct {
	Devices   []string `long:"device" description:"devices of the share chart, every known device when omitted"`
	Compilers []string `long:"compiler" description:"compilers of the qubit histograms" default:"qiskit" default:"tket"`

	out io.Writer
}

type evaluationOutput struct {
	Summary *evaluation.Summary `json:"summary"`
	Charts  []string            `json:"charts"`
}

func (c *evaluateCmd) Execute(args []string) error {
	s, flush, err := prepare(bench.Conf)
	if err != nil {
		return err
	}
	defer flush()

	records, err := s.LoadRecords()
	if err != nil {
		return err
	}
	devices := c.Devices
	if len(devices) == 0 {
		devices = device.DeviceNames()
	}
	summary, err := evaluation.Summarize(records, devices, c.Compilers)
	if err != nil {
		return err
	}
	renderer, err := s.ChartRenderer()
	if err != nil {
		return err
	}
	paths, err := evaluation.WriteCharts(renderer, records, devices, c.Compilers)
	if err != nil {
		return err
	}
	return printJSON(writerOrStdout(c.out), &evaluationOutput{Summary: summary, Charts: paths})
}

type collectCmd struct {
	out io.Writer
}

func (c *collectCmd) Execute(args []string) error {
	s, flush, err := prepare(bench.Conf)
	if err != nil {
		return err
	}
	defer flush()

	res, err := runCollector(s, bench.Conf)
	if err != nil {
		return err
	}
	if err := printJSON(writerOrStdout(c.out), res); err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("%d of %d files failed: %w", res.Failed, res.Planned, res.Err)
	}
	return nil
}

type deviceView struct {
	Name       string   `json:"name"`
	NumQubits  int      `json:"num_qubits"`
	BasisGates []string `json:"basis_gates"`
	Couplings  int      `json:"num_couplings"`
}

type providerView struct {
	Name        string       `json:"name"`
	NativeGates []string     `json:"native_gates"`
	Devices     []deviceView `json:"devices"`
}

func catalogView() []providerView {
	var views []providerView
	for _, p := range device.Providers() {
		v := providerView{Name: p.Name(), NativeGates: p.NativeGates()}
		for _, d := range p.Devices() {
			v.Devices = append(v.Devices, deviceView{
				Name:       d.Name,
				NumQubits:  d.NumQubits,
				BasisGates: d.BasisGates,
				Couplings:  len(d.CouplingMap),
			})
		}
		views = append(views, v)
	}
	return views
}

type devicesCmd struct {
	out io.Writer
}

func (c *devicesCmd) Execute(args []string) error {
	return printJSON(writerOrStdout(c.out), catalogView())
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := jsonIter.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(b))
	return err
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
