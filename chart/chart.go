package chart

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg"
)

const SettingName = "chart"

type Setting struct {
	// Format is the file extension of the gonum/plot charts.
	Format string  `toml:"format"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	// Bins of the histograms; zero picks the square root of the sample count.
	Bins int `toml:"bins"`
	// Points sampled on each density curve.
	Points int `toml:"points"`
}

func NewSetting() Setting {
	return Setting{
		Format: "pdf",
		Width:  6,
		Height: 4,
		Bins:   0,
		Points: 200,
	}
}

var plotFormats = map[string]struct{}{
	"pdf": {}, "svg": {}, "eps": {}, "png": {}, "jpg": {}, "tif": {},
}

func (s Setting) validate() error {
	if _, ok := plotFormats[s.Format]; !ok {
		return fmt.Errorf("unsupported chart format %q", s.Format)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("chart size %gx%g must be positive", s.Width, s.Height)
	}
	if s.Bins < 0 {
		return fmt.Errorf("bins must not be negative, got %d", s.Bins)
	}
	if s.Points < 2 {
		return fmt.Errorf("points must be at least 2, got %d", s.Points)
	}
	return nil
}

// Renderer writes chart files into the results directory, which is created
// with the first chart. Pie charts are always SVG; the other charts use the
// configured format.
type Renderer struct {
	dir     string
	setting Setting
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, setting: NewSetting()}
}

func (r *Renderer) Setup(conf *core.Conf) error {
	s := NewSetting()
	if _, err := core.DecodeComponentSetting(SettingName, &s); err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode chart setting/reason:%s", err))
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	r.dir = conf.ResultsDir
	r.setting = s
	return nil
}

func (r *Renderer) Dir() string {
	return r.dir
}

func (r *Renderer) path(name, ext string) string {
	return filepath.Join(r.dir, name+"."+ext)
}

func (r *Renderer) ensureDir() error {
	if err := common.EnsureDir(r.dir); err != nil {
		zap.L().Error(fmt.Sprintf("failed to prepare results dir %s/reason:%s", r.dir, err))
		return err
	}
	return nil
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	if err := r.ensureDir(); err != nil {
		return "", err
	}
	path := r.path(name, r.setting.Format)
	if err := p.Save(vg.Length(r.setting.Width)*vg.Inch, vg.Length(r.setting.Height)*vg.Inch, path); err != nil {
		zap.L().Error(fmt.Sprintf("failed to save chart %s/reason:%s", path, err))
		return "", err
	}
	zap.L().Info(fmt.Sprintf("wrote %s", path))
	return path, nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Legend.Top = true
	p.Legend.Padding = 1 * vg.Millimeter
	return p
}

// colors returns n qualitative colors, repeating the palette when n exceeds it.
func colors(n int) ([]color.Color, error) {
	size := min(max(n, 3), 8)
	p, err := brewer.GetPalette(brewer.TypeQualitative, "Set2", size)
	if err != nil {
		return nil, err
	}
	base := p.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out, nil
}
