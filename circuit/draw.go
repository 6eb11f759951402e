package circuit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	wire      = "─"
	classical = "═"
	crossing  = "┼"
	control   = "■"
	swapMark  = "x"
	barrierCh = "░"
)

type drawLayer struct {
	cells   map[int]string // qubit -> label
	crosses map[int]bool   // qubit -> vertical connector passes through
	clbit   string
}

func newDrawLayer() *drawLayer {
	return &drawLayer{cells: map[int]string{}, crosses: map[int]bool{}}
}

// Draw renders the circuit as text, one line per qubit plus one line for the
// classical register.
func (c *Circuit) Draw() string {
	layers := c.drawLayers()

	labels := make([]string, c.NumQubits)
	width := 0
	for q := 0; q < c.NumQubits; q++ {
		labels[q] = fmt.Sprintf("q_%d: ", q)
		width = max(width, utf8.RuneCountInString(labels[q]))
	}
	clLabel := fmt.Sprintf("c: %d/", c.NumClbits)
	width = max(width, utf8.RuneCountInString(clLabel))

	lines := make([]strings.Builder, c.NumQubits+1)
	for q := 0; q < c.NumQubits; q++ {
		lines[q].WriteString(padLeft(labels[q], width))
		lines[q].WriteString(wire)
	}
	lines[c.NumQubits].WriteString(padLeft(clLabel, width))
	lines[c.NumQubits].WriteString(classical)

	for _, l := range layers {
		w := 1
		for _, s := range l.cells {
			w = max(w, utf8.RuneCountInString(s))
		}
		w = max(w, utf8.RuneCountInString(l.clbit))
		for q := 0; q < c.NumQubits; q++ {
			switch {
			case l.cells[q] != "":
				lines[q].WriteString(center(l.cells[q], w, wire))
			case l.crosses[q]:
				lines[q].WriteString(center(crossing, w, wire))
			default:
				lines[q].WriteString(strings.Repeat(wire, w))
			}
			lines[q].WriteString(wire)
		}
		if l.clbit != "" {
			lines[c.NumQubits].WriteString(center(l.clbit, w, classical))
		} else {
			lines[c.NumQubits].WriteString(strings.Repeat(classical, w))
		}
		lines[c.NumQubits].WriteString(classical)
	}

	n := c.NumQubits
	if c.NumClbits > 0 {
		n++
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, lines[i].String())
	}
	return strings.Join(out, "\n")
}

func (c *Circuit) drawLayers() []*drawLayer {
	layers := []*drawLayer{}
	next := make([]int, c.NumQubits)
	nextClassical := 0
	for _, inst := range c.Instructions {
		if len(inst.Qubits) == 0 {
			continue
		}
		lo, hi := inst.Qubits[0], inst.Qubits[0]
		for _, q := range inst.Qubits {
			lo, hi = min(lo, q), max(hi, q)
		}
		if inst.Name == Measure {
			hi = c.NumQubits - 1
		}
		idx := 0
		for q := lo; q <= hi; q++ {
			idx = max(idx, next[q])
		}
		if inst.Name == Measure {
			idx = max(idx, nextClassical)
			nextClassical = idx + 1
		}
		for q := lo; q <= hi; q++ {
			next[q] = idx + 1
		}
		for len(layers) <= idx {
			layers = append(layers, newDrawLayer())
		}
		l := layers[idx]
		for q := lo; q <= hi; q++ {
			l.crosses[q] = true
		}
		for i, q := range inst.Qubits {
			l.cells[q] = cellLabel(inst, i)
		}
		if inst.Name == Measure {
			l.clbit = strconv.Itoa(inst.Clbits[0])
		}
	}
	return layers
}

func cellLabel(inst Instruction, operand int) string {
	params := ""
	if len(inst.Params) > 0 {
		ps := make([]string, len(inst.Params))
		for i, p := range inst.Params {
			ps[i] = FormatParam(p)
		}
		params = "(" + strings.Join(ps, ",") + ")"
	}
	box := func(name string) string {
		return "[" + strings.ToUpper(name) + params + "]"
	}
	switch inst.Name {
	case Measure:
		return "[M]"
	case Barrier:
		return barrierCh
	case Reset:
		return "|0>"
	case "cx", "cy", "ch", "cp", "crx", "cry", "crz":
		if operand == 0 {
			return control
		}
		return box(strings.TrimPrefix(inst.Name, "c"))
	case "cz":
		return control
	case "ccx":
		if operand < 2 {
			return control
		}
		return "[X]"
	case "swap":
		return swapMark
	case "cswap":
		if operand == 0 {
			return control
		}
		return swapMark
	case "rxx", "rzz", "ecr":
		return box(inst.Name) + strconv.Itoa(operand)
	}
	return box(inst.Name)
}

func center(s string, width int, fill string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, width-n-left)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
