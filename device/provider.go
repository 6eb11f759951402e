package device

import (
	"fmt"
	"sort"

	"github.com/go-faster/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

// Provider groups the devices that share one native gate set.
type Provider interface {
	Name() string
	DeviceNames() []string
	NativeGates() []string
	Devices() []*Device
	Device(name string) (*Device, error)
	// AvailableBasisGates lists the distinct basis gate sets of the devices.
	AvailableBasisGates() [][]string
	MaxQubits() int
}

type CatalogProvider struct {
	name        string
	nativeGates []string
	devices     []*Device
}

func (p *CatalogProvider) Name() string {
	return p.name
}

func (p *CatalogProvider) DeviceNames() []string {
	return lo.Map(p.devices, func(d *Device, _ int) string { return d.Name })
}

func (p *CatalogProvider) NativeGates() []string {
	return append([]string{}, p.nativeGates...)
}

func (p *CatalogProvider) Devices() []*Device {
	return append([]*Device{}, p.devices...)
}

func (p *CatalogProvider) Device(name string) (*Device, error) {
	d, ok := lo.Find(p.devices, func(d *Device) bool { return d.Name == name })
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "device %s", name)
	}
	return d, nil
}

func (p *CatalogProvider) AvailableBasisGates() [][]string {
	res := [][]string{}
	seen := map[string]struct{}{}
	for _, d := range p.devices {
		key := fmt.Sprint(d.BasisGates)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, append([]string{}, d.BasisGates...))
	}
	return res
}

func (p *CatalogProvider) MaxQubits() int {
	return lo.Max(lo.Map(p.devices, func(d *Device, _ int) int { return d.NumQubits }))
}

// Providers returns every known provider in catalogue order.
func Providers() []Provider {
	ps, err := loadCatalog()
	if err != nil {
		return nil
	}
	return lo.Map(ps, func(p *CatalogProvider, _ int) Provider { return p })
}

func ProviderNames() []string {
	return lo.Map(Providers(), func(p Provider, _ int) string { return p.Name() })
}

func ProviderByName(name string) (Provider, error) {
	if _, err := loadCatalog(); err != nil {
		return nil, err
	}
	p, ok := lo.Find(Providers(), func(p Provider) bool { return p.Name() == name })
	if !ok {
		zap.L().Debug(fmt.Sprintf("unknown provider %s", name))
		return nil, errors.Wrapf(ErrNotFound, "provider %s", name)
	}
	return p, nil
}

// Devices returns every known device across providers.
func Devices() []*Device {
	return lo.FlatMap(Providers(), func(p Provider, _ int) []*Device { return p.Devices() })
}

// DeviceNames returns the sorted names of every known device.
func DeviceNames() []string {
	names := lo.Map(Devices(), func(d *Device, _ int) string { return d.Name })
	sort.Strings(names)
	return names
}

func DeviceByName(name string) (*Device, error) {
	if _, err := loadCatalog(); err != nil {
		return nil, err
	}
	d, ok := lo.Find(Devices(), func(d *Device) bool { return d.Name == name })
	if !ok {
		zap.L().Debug(fmt.Sprintf("unknown device %s", name))
		return nil, errors.Wrapf(ErrNotFound, "device %s", name)
	}
	return d, nil
}
