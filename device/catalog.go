package device

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

//go:embed devices.toml
var catalogTOML string

type providerEntry struct {
	Name        string   `toml:"name"`
	NativeGates []string `toml:"native_gates"`
}

// AverageCalibration is a device-wide calibration summary. It is spread
// uniformly over every qubit and edge of the device.
type AverageCalibration struct {
	SingleQubitGateFidelity float64 `toml:"single_qubit_gate_fidelity"`
	SingleQubitGateDuration float64 `toml:"single_qubit_gate_duration"`
	TwoQubitGateFidelity    float64 `toml:"two_qubit_gate_fidelity"`
	TwoQubitGateDuration    float64 `toml:"two_qubit_gate_duration"`
	ReadoutFidelity         float64 `toml:"readout_fidelity"`
	ReadoutDuration         float64 `toml:"readout_duration"`
	T1                      float64 `toml:"t1"`
	T2                      float64 `toml:"t2"`
}

type deviceEntry struct {
	Name        string             `toml:"name"`
	Provider    string             `toml:"provider"`
	NumQubits   int                `toml:"num_qubits"`
	BasisGates  []string           `toml:"basis_gates"`
	Topology    TopologySetting    `toml:"topology"`
	Calibration AverageCalibration `toml:"calibration"`
}

type catalog struct {
	Providers []providerEntry `toml:"provider"`
	Devices   []deviceEntry   `toml:"device"`
}

var (
	loadOnce  sync.Once
	providers []*CatalogProvider
	loadErr   error
)

func loadCatalog() ([]*CatalogProvider, error) {
	loadOnce.Do(func() {
		providers, loadErr = parseCatalog(catalogTOML)
		if loadErr != nil {
			zap.L().Error(fmt.Sprintf("failed to load the device catalogue/reason:%s", loadErr))
		}
	})
	return providers, loadErr
}

func parseCatalog(blob string) ([]*CatalogProvider, error) {
	var c catalog
	if _, err := toml.Decode(blob, &c); err != nil {
		return nil, errors.Wrap(err, "decode device catalogue")
	}
	byName := make(map[string]*CatalogProvider, len(c.Providers))
	res := make([]*CatalogProvider, 0, len(c.Providers))
	for _, p := range c.Providers {
		if _, ok := byName[p.Name]; ok {
			return nil, fmt.Errorf("duplicate provider %s", p.Name)
		}
		cp := &CatalogProvider{name: p.Name, nativeGates: p.NativeGates}
		byName[p.Name] = cp
		res = append(res, cp)
	}
	seen := map[string]struct{}{}
	for _, e := range c.Devices {
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("duplicate device %s", e.Name)
		}
		seen[e.Name] = struct{}{}
		p, ok := byName[e.Provider]
		if !ok {
			return nil, fmt.Errorf("device %s refers to unknown provider %s", e.Name, e.Provider)
		}
		d, err := e.build()
		if err != nil {
			return nil, err
		}
		p.devices = append(p.devices, d)
	}
	return res, nil
}

func (e *deviceEntry) build() (*Device, error) {
	cm, err := e.Topology.CouplingMap(e.NumQubits)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s", e.Name)
	}
	d := &Device{
		Name:        e.Name,
		Provider:    e.Provider,
		NumQubits:   e.NumQubits,
		BasisGates:  e.BasisGates,
		CouplingMap: cm,
	}
	d.Calibration = UniformCalibration(d, e.Calibration)
	d.Sanitize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// UniformCalibration assigns the averages to every qubit, every edge and every
// basis gate of the device.
func UniformCalibration(d *Device, avg AverageCalibration) *Calibration {
	c := NewCalibration()
	oneQ := d.SingleQubitGates()
	for q := 0; q < d.NumQubits; q++ {
		c.SingleQubitGateFidelity[q] = map[string]float64{}
		c.SingleQubitGateDuration[q] = map[string]float64{}
		for _, g := range oneQ {
			c.SingleQubitGateFidelity[q][g] = avg.SingleQubitGateFidelity
			c.SingleQubitGateDuration[q][g] = avg.SingleQubitGateDuration
		}
		c.ReadoutFidelity[q] = avg.ReadoutFidelity
		c.ReadoutDuration[q] = avg.ReadoutDuration
		c.T1[q] = avg.T1
		c.T2[q] = avg.T2
	}
	twoQ := d.TwoQubitGates()
	for _, e := range d.CouplingMap {
		c.TwoQubitGateFidelity[e] = map[string]float64{}
		c.TwoQubitGateDuration[e] = map[string]float64{}
		for _, g := range twoQ {
			c.TwoQubitGateFidelity[e][g] = avg.TwoQubitGateFidelity
			c.TwoQubitGateDuration[e][g] = avg.TwoQubitGateDuration
		}
	}
	return c
}
