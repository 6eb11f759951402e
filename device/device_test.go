//go:build unit
// +build unit

package device

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueDevices(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		numQubits   int
		numEdges    int
		maxDegree   int
		twoQubit    string
		singleQubit []string
	}{
		{"ibm_washington", "ibm", 127, 144, 3, "cx", []string{"id", "rz", "sx", "x"}},
		{"ibm_montreal", "ibm", 27, 28, 3, "cx", []string{"id", "rz", "sx", "x"}},
		{"ibm_kyiv", "ibm_open_access", 127, 144, 3, "ecr", []string{"id", "rz", "sx", "x"}},
		{"ionq_harmony", "ionq", 11, 55, 10, "rxx", []string{"rz", "ry", "rx"}},
		{"ionq_aria1", "ionq", 25, 300, 24, "rxx", []string{"rz", "ry", "rx"}},
		{"iqm_adonis", "iqm", 5, 4, 4, "cz", []string{"r"}},
		{"iqm_apollo", "iqm", 20, 31, 4, "cz", []string{"r"}},
		{"oqc_lucy", "oqc", 8, 8, 2, "ecr", []string{"rz", "sx", "x"}},
		{"quantinuum_h2", "quantinuum", 32, 496, 31, "rzz", []string{"rz", "ry", "rx"}},
		{"rigetti_aspen_m3", "rigetti", 79, 103, 3, "cz", []string{"rx", "rz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DeviceByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, d.Provider)
			assert.Equal(t, tt.numQubits, d.NumQubits)
			assert.Len(t, d.CouplingMap, 2*tt.numEdges)
			assert.True(t, d.IsConnected())
			assert.NoError(t, d.Validate())
			assert.Equal(t, []string{tt.twoQubit}, d.TwoQubitGates())
			assert.ElementsMatch(t, tt.singleQubit, d.SingleQubitGates())

			maxDegree := 0
			for q := 0; q < d.NumQubits; q++ {
				maxDegree = max(maxDegree, d.Degree(q))
			}
			assert.Equal(t, tt.maxDegree, maxDegree)

			e := d.CouplingMap[0]
			f, err := d.TwoQubitGateFidelity(tt.twoQubit, e[0], e[1])
			require.NoError(t, err)
			assert.Greater(t, f, 0.9)
			f, err = d.TwoQubitGateFidelity(tt.twoQubit, e[1], e[0])
			require.NoError(t, err)
			assert.Greater(t, f, 0.9)
		})
	}
}

func TestUnknownDevice(t *testing.T) {
	d, err := DeviceByName("ibm_nowhere")
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "device ibm_nowhere: not found")

	p, err := ProviderByName("ibm")
	require.NoError(t, err)
	_, err = p.Device("ionq_harmony")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = ProviderByName("dwave")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProviders(t *testing.T) {
	assert.Equal(t, []string{"ibm", "ibm_open_access", "ionq", "iqm", "oqc", "quantinuum", "rigetti"}, ProviderNames())
	assert.Len(t, DeviceNames(), 12)
	assert.Len(t, Devices(), 12)

	p, err := ProviderByName("ibm")
	require.NoError(t, err)
	assert.Equal(t, []string{"ibm_washington", "ibm_montreal"}, p.DeviceNames())
	assert.Equal(t, []string{"id", "rz", "sx", "x", "cx", "measure", "barrier"}, p.NativeGates())
	assert.Equal(t, 127, p.MaxQubits())
	assert.Len(t, p.AvailableBasisGates(), 1)

	p, err = ProviderByName("iqm")
	require.NoError(t, err)
	assert.Equal(t, 20, p.MaxQubits())
	d, err := p.Device("iqm_adonis")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 4}, d.Neighbors(2))
}

func TestShortestPath(t *testing.T) {
	d, err := DeviceByName("oqc_lucy")
	require.NoError(t, err)
	p, err := d.ShortestPath(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, p)
	assert.Equal(t, 4, d.Distance(0, 4))
	assert.Equal(t, 1, d.Distance(0, 7))
	assert.True(t, d.Connected(7, 0))
	assert.False(t, d.Connected(0, 2))
}

func TestTopologies(t *testing.T) {
	tests := []struct {
		name    string
		setting TopologySetting
		qubits  int
		edges   int
		wantErr bool
	}{
		{"line", TopologySetting{Kind: TopologyLine}, 4, 3, false},
		{"ring", TopologySetting{Kind: TopologyRing}, 4, 4, false},
		{"grid", TopologySetting{Kind: TopologyGrid, Rows: 2, Cols: 3}, 6, 7, false},
		{"grid size mismatch", TopologySetting{Kind: TopologyGrid, Rows: 2, Cols: 3}, 5, 0, true},
		{"star", TopologySetting{Kind: TopologyStar, Center: 0}, 4, 3, false},
		{"star out of range", TopologySetting{Kind: TopologyStar, Center: 4}, 4, 0, true},
		{"explicit", TopologySetting{Kind: TopologyExplicit, Edges: [][2]int{{0, 1}, {1, 0}, {1, 2}}}, 3, 2, false},
		{"explicit out of range", TopologySetting{Kind: TopologyExplicit, Edges: [][2]int{{0, 3}}}, 3, 0, true},
		{"unknown", TopologySetting{Kind: "moebius"}, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := tt.setting.CouplingMap(tt.qubits)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cm, 2*tt.edges)
		})
	}
}

func TestCalibrationLookup(t *testing.T) {
	d, err := DeviceByName("ibm_montreal")
	require.NoError(t, err)
	f, err := d.SingleQubitGateFidelity("sx", 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.99968, f, 1e-12)

	_, err = d.SingleQubitGateFidelity("h", 3)
	assert.True(t, errors.Is(err, ErrMissingCalibration))
	_, err = d.TwoQubitGateFidelity("cx", 0, 2)
	assert.True(t, errors.Is(err, ErrMissingCalibration))

	noCal := &Device{Name: "bare", NumQubits: 1}
	_, err = noCal.ReadoutFidelity(0)
	assert.True(t, errors.Is(err, ErrMissingCalibration))
}

func TestImportIBMBackend(t *testing.T) {
	path, err := common.GetAssetAbsPath("ibm_fake5_calibration.json")
	require.NoError(t, err)
	d, err := ImportIBMBackend(path, "cx")
	require.NoError(t, err)
	assert.Equal(t, "ibm_fake5", d.Name)
	assert.Equal(t, "ibm", d.Provider)
	assert.Equal(t, 5, d.NumQubits)
	assert.Len(t, d.CouplingMap, 8)

	cal := d.Calibration
	t1, err := cal.T1Of(0)
	require.NoError(t, err)
	assert.InDelta(t, 120.5e-6, t1, 1e-15)
	ro, err := cal.ReadoutDurationOf(0)
	require.NoError(t, err)
	assert.InDelta(t, 800e-9, ro, 1e-15)
	fid, err := d.ReadoutFidelity(2)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, fid, 1e-12)
	cx, err := d.TwoQubitGateFidelity("cx", 3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.98, cx, 1e-12)
	dur, err := cal.TwoQubitGateDurationOf("cx", 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 420e-9, dur, 1e-15)
	rz, err := d.SingleQubitGateFidelity("rz", 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rz)

	assert.Greater(t, cal.QubitScore(3), cal.QubitScore(2))
	assert.InDelta(t, 0.97, cal.AverageReadoutFidelity(), 1e-12)

	_, err = ImportIBMBackend(path, "ecr")
	assert.True(t, errors.Is(err, ErrMissingCalibration))
	_, err = ImportIBMBackend(path, "cz")
	assert.EqualError(t, err, "unsupported two-qubit gate cz")
	_, err = ImportIBMBackend("/no/such/file.json", "cx")
	assert.Error(t, err)
	_, err = ImportIBMCalibration([]byte(`{"name": 5}`), "cx")
	assert.Error(t, err)
}

func TestImportIonQCalibration(t *testing.T) {
	blob, err := common.GetAsset("ionq_fake_calibration.json")
	require.NoError(t, err)
	d, err := ImportIonQCalibration([]byte(blob))
	require.NoError(t, err)
	assert.Equal(t, "ionq", d.Provider)
	assert.Equal(t, []string{"rxx"}, d.TwoQubitGates())
	f, err := d.TwoQubitGateFidelity("rxx", 2, 0)
	assert.True(t, errors.Is(err, ErrMissingCalibration))
	f, err = d.TwoQubitGateFidelity("rxx", 0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.97, f, 1e-12)
	f, err = d.SingleQubitGateFidelity("ry", 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.998, f, 1e-12)

	_, err = ImportIonQCalibration([]byte(`{"name":"x","num_qubits":1,"timing":{"t1":1}}`))
	assert.True(t, errors.Is(err, ErrMissingCalibration))
}

func TestSanitizeDropsForeignCalibration(t *testing.T) {
	d := &Device{Name: "pair", NumQubits: 2, BasisGates: []string{"rz", "cx"}, CouplingMap: []Edge{{0, 1}}}
	d.Calibration = UniformCalibration(d, AverageCalibration{ReadoutFidelity: 0.9, TwoQubitGateFidelity: 0.99})
	d.Calibration.ReadoutFidelity[5] = 0.5
	d.Calibration.TwoQubitGateFidelity[Edge{0, 2}] = map[string]float64{"cx": 0.5}
	d.Sanitize()
	assert.Equal(t, []Edge{{0, 1}, {1, 0}}, d.CouplingMap)
	assert.NotContains(t, d.Calibration.ReadoutFidelity, 5)
	assert.NotContains(t, d.Calibration.TwoQubitGateFidelity, Edge{0, 2})
	assert.Contains(t, d.Calibration.TwoQubitGateFidelity, Edge{0, 1})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		dev     *Device
		wantErr string
	}{
		{"no qubits", &Device{Name: "d"}, "device d has no qubits"},
		{"edge out of range", &Device{Name: "d", NumQubits: 2, CouplingMap: []Edge{{0, 2}}}, "edge 0_2 of d is out of range"},
		{"two entangling gates", &Device{Name: "d", NumQubits: 2, BasisGates: []string{"cx", "cz"}, CouplingMap: []Edge{{0, 1}}}, "device d has more than one two-qubit basis gate"},
		{"disconnected", &Device{Name: "d", NumQubits: 3, CouplingMap: []Edge{{0, 1}}}, "coupling map of d is not connected"},
		{"single qubit", &Device{Name: "d", NumQubits: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dev.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
