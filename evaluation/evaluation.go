package evaluation

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/record"
	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// MappedToken marks records of the mapped level in their filenames.
const MappedToken = "mapped"

var ErrZeroDenominator = errors.New("zero denominator")

// CountContaining counts the records whose filename contains token.
func CountContaining(records []record.FeatureRecord, token string) int {
	return lo.CountBy(records, func(r record.FeatureRecord) bool {
		return strings.Contains(r.Filename, token)
	})
}

// CountNotContaining counts the records whose filename does not contain token.
func CountNotContaining(records []record.FeatureRecord, token string) int {
	return len(records) - CountContaining(records, token)
}

func Ratio(count, total int) (float64, error) {
	if total == 0 {
		return 0, errors.Wrapf(ErrZeroDenominator, "ratio %d/%d", count, total)
	}
	return float64(count) / float64(total), nil
}

// DeviceToken returns the filename token of circuits mapped to device. The
// trailing separator keeps ibm_kyiv from matching a hypothetical ibm_kyiv2.
func DeviceToken(device string) string {
	return MappedToken + "_" + device + "_"
}

type DeviceShare struct {
	Device string  `json:"device"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"`
}

// DeviceCounts counts mapped records per device, keyed by device name.
func DeviceCounts(records []record.FeatureRecord, devices []string) map[string]int {
	return lo.SliceToMap(devices, func(d string) (string, int) {
		return d, CountContaining(records, DeviceToken(d))
	})
}

// DeviceShares divides each device count by the number of mapped records.
// The result follows the order of devices. Filenames must follow the
// <benchmark>_mapped_<device>_<compiler>..._<size> layout written by the
// generator; a name ending right after the device is counted as mapped but
// not as that device.
func DeviceShares(records []record.FeatureRecord, devices []string) ([]DeviceShare, error) {
	mapped := CountContaining(records, MappedToken)
	counts := DeviceCounts(records, devices)
	shares := make([]DeviceShare, 0, len(devices))
	for _, d := range devices {
		share, err := Ratio(counts[d], mapped)
		if err != nil {
			return nil, errors.Wrapf(err, "share of %s", d)
		}
		shares = append(shares, DeviceShare{Device: d, Count: counts[d], Share: share})
	}
	return shares, nil
}

// CompilerToken returns the filename token of records produced by compiler.
func CompilerToken(compiler string) string {
	return "_" + compiler
}

// QubitsForCompiler collects num_qubits of the records produced by compiler,
// in record order.
func QubitsForCompiler(records []record.FeatureRecord, compiler string) []float64 {
	token := CompilerToken(compiler)
	return lo.FilterMap(records, func(r record.FeatureRecord, _ int) (float64, bool) {
		return float64(r.NumQubits), strings.Contains(r.Filename, token)
	})
}

// MultiQubitGateRatio is num_multiple_qubit_gates / num_gates.
func MultiQubitGateRatio(r record.FeatureRecord) (float64, error) {
	if r.NumGates == 0 {
		return 0, errors.Wrapf(ErrZeroDenominator, "%s has no gates", r.Filename)
	}
	if r.NumMultipleQubitGates > r.NumGates {
		return 0, errors.Errorf("%s has %d multi-qubit gates but only %d gates",
			r.Filename, r.NumMultipleQubitGates, r.NumGates)
	}
	return float64(r.NumMultipleQubitGates) / float64(r.NumGates), nil
}

// MultiQubitGateRatios returns the ratio of every record, reporting all
// records that have none.
func MultiQubitGateRatios(records []record.FeatureRecord) ([]float64, error) {
	var errs error
	ratios := make([]float64, 0, len(records))
	for _, r := range records {
		v, err := MultiQubitGateRatio(r)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		ratios = append(ratios, v)
	}
	if errs != nil {
		return nil, errs
	}
	return ratios, nil
}

var SupermarqNames = []string{
	"program_communication",
	"critical_depth",
	"entanglement_ratio",
	"parallelism",
	"liveness",
}

// SupermarqColumns returns one column per Supermarq feature, aligned with
// SupermarqNames.
func SupermarqColumns(records []record.FeatureRecord) [][]float64 {
	columns := make([][]float64, len(SupermarqNames))
	for i := range columns {
		columns[i] = make([]float64, 0, len(records))
	}
	for _, r := range records {
		f := r.SupermarqFeatures
		for i, v := range []float64{
			f.ProgramCommunication,
			f.CriticalDepth,
			f.EntanglementRatio,
			f.Parallelism,
			f.Liveness,
		} {
			columns[i] = append(columns[i], v)
		}
	}
	return columns
}

func requireRecords(records []record.FeatureRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to evaluate")
	}
	return nil
}
