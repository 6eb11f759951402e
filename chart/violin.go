package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/oqtopus-team/oqtopus-bench/evaluation"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// violinHalfWidth is the half width, in data units, of the widest violin.
const violinHalfWidth = 0.4

type violinBody struct {
	x      float64
	ys     []float64
	widths []float64
	median float64
}

// violins draws one mirrored density polygon per column at x = 0, 1, ...
type violins struct {
	bodies []violinBody
	fills  []color.Color
	line   draw.LineStyle
	median draw.GlyphStyle
}

func newViolins(columns [][]float64, points int) (*violins, error) {
	fills, err := colors(len(columns))
	if err != nil {
		return nil, err
	}
	v := &violins{
		fills:  fills,
		line:   plotter.DefaultLineStyle,
		median: draw.GlyphStyle{Color: color.White, Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}},
	}
	peak := 0.0
	for i, col := range columns {
		kde, err := evaluation.NewKDE(col)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		lo, hi := kde.Range()
		ys, widths := kde.Curve(lo, hi, points)
		peak = math.Max(peak, floats.Max(widths))
		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)
		v.bodies = append(v.bodies, violinBody{
			x:      float64(i),
			ys:     ys,
			widths: widths,
			median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		})
	}
	for i := range v.bodies {
		floats.Scale(violinHalfWidth/peak, v.bodies[i].widths)
	}
	return v, nil
}

func (v *violins) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, b := range v.bodies {
		outline := make([]vg.Point, 0, 2*len(b.ys)+1)
		for j := range b.ys {
			outline = append(outline, vg.Point{X: trX(b.x - b.widths[j]), Y: trY(b.ys[j])})
		}
		for j := len(b.ys) - 1; j >= 0; j-- {
			outline = append(outline, vg.Point{X: trX(b.x + b.widths[j]), Y: trY(b.ys[j])})
		}
		c.FillPolygon(v.fills[i], c.ClipPolygonXY(outline))
		outline = append(outline, outline[0])
		c.StrokeLines(v.line, c.ClipLinesXY(outline)...)

		m := vg.Point{X: trX(b.x), Y: trY(b.median)}
		if c.Contains(m) {
			c.DrawGlyph(v.median, m)
		}
	}
}

func (v *violins) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(v.bodies))-0.5
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, b := range v.bodies {
		ymin = math.Min(ymin, b.ys[0])
		ymax = math.Max(ymax, b.ys[len(b.ys)-1])
	}
	return xmin, xmax, ymin, ymax
}

// Violin writes one violin per column with a marker at its median.
func (r *Renderer) Violin(name, title string, labels []string, columns [][]float64) (string, error) {
	if len(labels) != len(columns) {
		return "", fmt.Errorf("%d labels for %d columns", len(labels), len(columns))
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("violin plot %s has no columns", name)
	}
	v, err := newViolins(columns, r.setting.Points)
	if err != nil {
		return "", fmt.Errorf("violin plot %s: %w", name, err)
	}
	p := newPlot(title)
	p.Add(v)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 8
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return r.save(p, name)
}
