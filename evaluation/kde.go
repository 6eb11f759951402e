package evaluation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// KDE is a Gaussian kernel density estimate.
type KDE struct {
	samples   []float64
	bandwidth float64
}

// NewKDE estimates the density of samples with Scott's rule, sigma*n^(-1/5).
// Samples without spread use |mean| (or 1 for a zero mean) as sigma.
func NewKDE(samples []float64) (*KDE, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("kde needs at least one sample")
	}
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("kde sample %g is not finite", s)
		}
	}
	n := float64(len(samples))
	sigma := 0.0
	if len(samples) > 1 {
		sigma = stat.StdDev(samples, nil)
	}
	if sigma == 0 {
		sigma = math.Abs(stat.Mean(samples, nil))
		if sigma == 0 {
			sigma = 1
		}
	}
	return &KDE{
		samples:   append([]float64(nil), samples...),
		bandwidth: sigma * math.Pow(n, -0.2),
	}, nil
}

func (k *KDE) Bandwidth() float64 {
	return k.bandwidth
}

func (k *KDE) Density(x float64) float64 {
	sum := 0.0
	for _, s := range k.samples {
		sum += distuv.Normal{Mu: s, Sigma: k.bandwidth}.Prob(x)
	}
	return sum / float64(len(k.samples))
}

// Range returns the sample range widened by three bandwidths on each side.
func (k *KDE) Range() (float64, float64) {
	return floats.Min(k.samples) - 3*k.bandwidth, floats.Max(k.samples) + 3*k.bandwidth
}

// Curve evaluates the density at points evenly spaced over [lo, hi].
func (k *KDE) Curve(lo, hi float64, points int) (xs, ys []float64) {
	if points < 2 {
		points = 2
	}
	xs = make([]float64, points)
	floats.Span(xs, lo, hi)
	ys = make([]float64, points)
	for i, x := range xs {
		ys[i] = k.Density(x)
	}
	return xs, ys
}
