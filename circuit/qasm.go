package circuit

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-openapi/strfmt"
)

type QASMFormat string

const (
	QASM2 QASMFormat = "qasm2"
	QASM3 QASMFormat = "qasm3"
)

func ParseQASMFormat(s string) (QASMFormat, error) {
	switch QASMFormat(strings.ToLower(s)) {
	case QASM2:
		return QASM2, nil
	case QASM3:
		return QASM3, nil
	}
	return "", fmt.Errorf("unknown qasm format: %s", s)
}

// gates that qelib1.inc does not declare
var qasm2Definitions = []struct {
	name string
	def  string
}{
	{"r", "gate r(theta,phi) q0 { u3(theta,phi - pi/2,-phi + pi/2) q0; }"},
	{"ecr", "gate ecr q0,q1 { x q0; cx q0,q1; rz(-pi/2) q0; sxdg q1; }"},
}

// gates that stdgates.inc does not declare, in dependency order
var qasm3Definitions = []struct {
	name string
	def  string
}{
	{"sxdg", "gate sxdg q0 { s q0; h q0; s q0; }"},
	{"r", "gate r(theta, phi) q0 { u3(theta, phi - pi/2, -phi + pi/2) q0; }"},
	{"rzz", "gate rzz(theta) q0, q1 { cx q0, q1; rz(theta) q1; cx q0, q1; }"},
	{"rxx", heredoc.Doc(`
		gate rxx(theta) q0, q1 {
		  h q0;
		  h q1;
		  cx q0, q1;
		  rz(theta) q1;
		  cx q0, q1;
		  h q0;
		  h q1;
		}`)},
	{"ecr", "gate ecr q0, q1 { x q0; cx q0, q1; rz(-pi/2) q0; sxdg q1; }"},
}

// Header is written as comment lines above the program.
type Header struct {
	Tool        string
	Version     string
	Date        strfmt.Date
	GateSet     []string
	Mapped      bool
	CouplingMap [][2]int
}

func (h *Header) lines() []string {
	lines := []string{
		fmt.Sprintf("// Benchmark was created by %s on %s", h.Tool, h.Date.String()),
		fmt.Sprintf("// %s version: %s", h.Tool, h.Version),
	}
	if len(h.GateSet) > 0 {
		quoted := make([]string, len(h.GateSet))
		for i, g := range h.GateSet {
			quoted[i] = "'" + g + "'"
		}
		lines = append(lines, "// Used Gate Set: ["+strings.Join(quoted, ", ")+"]")
	}
	if h.Mapped {
		edges := make([]string, len(h.CouplingMap))
		for i, e := range h.CouplingMap {
			edges[i] = fmt.Sprintf("[%d, %d]", e[0], e[1])
		}
		lines = append(lines, "// Coupling List: ["+strings.Join(edges, ", ")+"]")
	}
	return lines
}

func (c *Circuit) QASM(format QASMFormat) (string, error) {
	switch format {
	case QASM2:
		return c.QASM2(), nil
	case QASM3:
		return c.QASM3(), nil
	}
	return "", fmt.Errorf("unknown qasm format: %s", format)
}

func (c *Circuit) QASM2() string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\ninclude \"qelib1.inc\";\n")
	used := c.CountOps()
	// ecr needs sxdg, which qelib1.inc provides
	for _, d := range qasm2Definitions {
		if used[d.name] > 0 {
			b.WriteString(d.def + "\n")
		}
	}
	fmt.Fprintf(&b, "qreg q[%d];\n", c.NumQubits)
	if c.NumClbits > 0 {
		fmt.Fprintf(&b, "creg c[%d];\n", c.NumClbits)
	}
	for _, inst := range c.Instructions {
		switch inst.Name {
		case Measure:
			fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", inst.Qubits[0], inst.Clbits[0])
		default:
			b.WriteString(gateStatement(inst, ",") + "\n")
		}
	}
	return b.String()
}

func (c *Circuit) QASM3() string {
	var b strings.Builder
	b.WriteString("OPENQASM 3.0;\ninclude \"stdgates.inc\";\n")
	used := c.CountOps()
	if used["ecr"] > 0 {
		used["sxdg"]++
	}
	for _, d := range qasm3Definitions {
		if used[d.name] > 0 {
			b.WriteString(d.def + "\n")
		}
	}
	if c.NumClbits > 0 {
		fmt.Fprintf(&b, "bit[%d] c;\n", c.NumClbits)
	}
	fmt.Fprintf(&b, "qubit[%d] q;\n", c.NumQubits)
	for _, inst := range c.Instructions {
		switch inst.Name {
		case Measure:
			fmt.Fprintf(&b, "c[%d] = measure q[%d];\n", inst.Clbits[0], inst.Qubits[0])
		default:
			b.WriteString(gateStatement(inst, ", ") + "\n")
		}
	}
	return b.String()
}

func gateStatement(inst Instruction, sep string) string {
	operands := make([]string, len(inst.Qubits))
	for i, q := range inst.Qubits {
		operands[i] = fmt.Sprintf("q[%d]", q)
	}
	head := inst.Name
	if len(inst.Params) > 0 {
		ps := make([]string, len(inst.Params))
		for i, p := range inst.Params {
			ps[i] = FormatParam(p)
		}
		head += "(" + strings.Join(ps, sep) + ")"
	}
	return head + " " + strings.Join(operands, sep) + ";"
}

// WriteQASM writes the header, if any, followed by the program.
func (c *Circuit) WriteQASM(w io.Writer, format QASMFormat, h *Header) error {
	program, err := c.QASM(format)
	if err != nil {
		return err
	}
	if h != nil {
		for _, l := range h.lines() {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, program)
	return err
}

// SaveQASM writes <dir>/<filename>.qasm and returns its path.
func (c *Circuit) SaveQASM(dir, filename string, format QASMFormat, h *Header) (string, error) {
	if _, err := c.QASM(format); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename+".qasm")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := c.WriteQASM(f, format, h); err != nil {
		return "", err
	}
	return path, nil
}

var piDenominators = []float64{1, 2, 3, 4, 6, 8, 16}

// FormatParam renders an angle, using multiples of pi where exact.
func FormatParam(p float64) string {
	if p == 0 {
		return "0"
	}
	for _, d := range piDenominators {
		k := p * d / math.Pi
		rk := math.Round(k)
		if rk == 0 || math.Abs(k-rk) > 1e-9 || math.Abs(rk) > 64 {
			continue
		}
		var num string
		switch rk {
		case 1:
			num = "pi"
		case -1:
			num = "-pi"
		default:
			num = strconv.Itoa(int(rk)) + "*pi"
		}
		if d == 1 {
			return num
		}
		return num + "/" + strconv.Itoa(int(d))
	}
	return strconv.FormatFloat(p, 'g', -1, 64)
}
