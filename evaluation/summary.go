package evaluation

import (
	"fmt"
	"sort"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/oqtopus-team/oqtopus-bench/record"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

const (
	DeviceSharesChart     = "device_shares"
	SupermarqFeatureChart = "supermarq_features"
	qubitsChartPrefix     = "qubits_"
)

type QubitStats struct {
	Compiler string  `json:"compiler"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
}

type Summary struct {
	Total                   int           `json:"total"`
	Mapped                  int           `json:"mapped"`
	NotMapped               int           `json:"not_mapped"`
	Devices                 []DeviceShare `json:"devices"`
	Compilers               []QubitStats  `json:"compilers"`
	MeanMultiQubitGateRatio float64       `json:"mean_multi_qubit_gate_ratio"`
}

func Summarize(records []record.FeatureRecord, devices, compilers []string) (*Summary, error) {
	if err := requireRecords(records); err != nil {
		return nil, err
	}
	shares, err := DeviceShares(records, devices)
	if err != nil {
		return nil, err
	}
	ratios, err := MultiQubitGateRatios(records)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Total:                   len(records),
		Mapped:                  CountContaining(records, MappedToken),
		NotMapped:               CountNotContaining(records, MappedToken),
		Devices:                 shares,
		MeanMultiQubitGateRatio: stat.Mean(ratios, nil),
	}
	for _, c := range compilers {
		s.Compilers = append(s.Compilers, qubitStats(c, QubitsForCompiler(records, c)))
	}
	return s, nil
}

func qubitStats(compiler string, values []float64) QubitStats {
	qs := QubitStats{Compiler: compiler, Count: len(values)}
	if len(values) == 0 {
		return qs
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	qs.Min = sorted[0]
	qs.Max = sorted[len(sorted)-1]
	qs.Mean = stat.Mean(sorted, nil)
	qs.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return qs
}

// WriteCharts renders the device share pie, one qubit histogram per compiler
// and the Supermarq violin plot. Compilers without records are skipped.
func WriteCharts(r core.ChartRenderer, records []record.FeatureRecord, devices, compilers []string) ([]string, error) {
	if err := requireRecords(records); err != nil {
		return nil, err
	}
	shares, err := DeviceShares(records, devices)
	if err != nil {
		return nil, err
	}
	shares = lo.Filter(shares, func(s DeviceShare, _ int) bool { return s.Count > 0 })
	if len(shares) == 0 {
		return nil, fmt.Errorf("no mapped records on devices %v", devices)
	}

	var paths []string
	path, err := r.Pie(DeviceSharesChart, "Mapped benchmarks per device",
		lo.Map(shares, func(s DeviceShare, _ int) string { return s.Device }),
		lo.Map(shares, func(s DeviceShare, _ int) float64 { return s.Share }))
	if err != nil {
		return nil, errors.Wrap(err, "device share chart")
	}
	paths = append(paths, path)

	for _, c := range compilers {
		values := QubitsForCompiler(records, c)
		if len(values) == 0 {
			zap.L().Warn(fmt.Sprintf("no records compiled with %s", c))
			continue
		}
		path, err := r.HistogramKDE(qubitsChartPrefix+c, fmt.Sprintf("Number of qubits (%s)", c), values)
		if err != nil {
			return nil, errors.Wrapf(err, "qubit chart of %s", c)
		}
		paths = append(paths, path)
	}

	path, err = r.Violin(SupermarqFeatureChart, "Supermarq features", SupermarqNames, SupermarqColumns(records))
	if err != nil {
		return nil, errors.Wrap(err, "supermarq chart")
	}
	paths = append(paths, path)
	return paths, nil
}
