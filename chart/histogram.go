package chart

import (
	"fmt"
	"math"

	"github.com/oqtopus-team/oqtopus-bench/evaluation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramKDE writes a density-normalised histogram of values with the
// kernel density estimate drawn over it.
func (r *Renderer) HistogramKDE(name, title string, values []float64) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("histogram %s has no values", name)
	}
	kde, err := evaluation.NewKDE(values)
	if err != nil {
		return "", err
	}
	c, err := colors(2)
	if err != nil {
		return "", err
	}

	p := newPlot(title)
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(values), r.setting.binsFor(len(values)))
	if err != nil {
		return "", err
	}
	h.Normalize(1)
	h.FillColor = c[0]
	h.LineStyle.Width = vg.Points(0.5)

	lo, hi := kde.Range()
	xs, ys := kde.Curve(lo, hi, r.setting.Points)
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", err
	}
	line.Color = c[1]
	line.Width = vg.Points(1.5)

	p.Add(h, line)
	p.Legend.Add("histogram", h)
	p.Legend.Add(fmt.Sprintf("kde (bw %.3g)", kde.Bandwidth()), line)
	return r.save(p, name)
}

// binsFor returns the configured bin count, or the square root of n rounded
// up when none is configured.
func (s Setting) binsFor(n int) int {
	if s.Bins > 0 {
		return s.Bins
	}
	return max(int(math.Ceil(math.Sqrt(float64(n)))), 1)
}
