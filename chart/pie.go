package chart

import (
	"fmt"
	"math"
	"os"

	"github.com/go-faster/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"
)

const pieSize = 512

// Pie writes an SVG pie chart. Values are normalised by their sum; slices are
// labelled with their percentage.
func (r *Renderer) Pie(name, title string, labels []string, values []float64) (string, error) {
	if len(labels) != len(values) {
		return "", fmt.Errorf("%d labels for %d values", len(labels), len(values))
	}
	total := 0.0
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("value of %s must be a non-negative number, got %g", labels[i], v)
		}
		total += v
	}
	if total == 0 {
		return "", fmt.Errorf("pie chart %s has no positive value", name)
	}

	pie := gochart.PieChart{
		Title:  title,
		Width:  pieSize,
		Height: pieSize,
	}
	for i, v := range values {
		if v == 0 {
			continue
		}
		pie.Values = append(pie.Values, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", labels[i], 100*v/total),
			Value: v,
		})
	}

	if err := r.ensureDir(); err != nil {
		return "", err
	}
	path := r.path(name, "svg")
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create pie chart")
	}
	defer f.Close()
	if err := pie.Render(gochart.SVG, f); err != nil {
		zap.L().Error(fmt.Sprintf("failed to render pie chart %s/reason:%s", path, err))
		return "", err
	}
	zap.L().Info(fmt.Sprintf("wrote %s", path))
	return path, nil
}
