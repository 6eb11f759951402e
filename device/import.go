package device

import (
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/oqtopus-team/oqtopus-bench/common"
	"go.uber.org/zap"
)

const (
	microsecond = 1e-6
	nanosecond  = 1e-9
)

// ibmQubitProperties holds one entry of the IBM calibration "properties"
// object. T1/T2 are in microseconds, tRO and two-qubit durations in
// nanoseconds.
type ibmQubitProperties struct {
	T1, T2   float64
	ERO, TRO float64
	EID      float64
	ESX      float64
	EX       float64
	// keyed by "<q0>_<q1>"
	TwoQubitError    map[string]float64
	TwoQubitDuration map[string]float64
}

type backendHeader struct {
	Name         string
	BasisGates   []string
	NumQubits    int
	Connectivity []Edge
}

// ImportIBMBackend reads an IBM calibration file. twoQubitGate is the name of
// the calibrated entangling gate: "cx" (eCX/tCX) or "ecr" (eECR/tECR).
func ImportIBMBackend(path string, twoQubitGate string) (*Device, error) {
	blob, err := common.ReadFile(path)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read IBM calibration %s/reason:%s", path, err))
		return nil, err
	}
	return ImportIBMCalibration([]byte(blob), twoQubitGate)
}

func ImportIBMCalibration(data []byte, twoQubitGate string) (*Device, error) {
	var errKey, durKey, provider string
	switch twoQubitGate {
	case "cx":
		errKey, durKey, provider = "eCX", "tCX", "ibm"
	case "ecr":
		errKey, durKey, provider = "eECR", "tECR", "ibm_open_access"
	default:
		return nil, fmt.Errorf("unsupported two-qubit gate %s", twoQubitGate)
	}

	var h backendHeader
	props := map[int]*ibmQubitProperties{}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "properties":
			return d.Obj(func(d *jx.Decoder, qubit string) error {
				q, err := strconv.Atoi(qubit)
				if err != nil {
					return errors.Wrapf(err, "qubit key %q", qubit)
				}
				p, err := decodeIBMQubit(d, errKey, durKey)
				if err != nil {
					return errors.Wrapf(err, "qubit %d", q)
				}
				props[q] = p
				return nil
			})
		default:
			return h.decodeField(d, key)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode IBM calibration")
	}

	dev := &Device{
		Name:        h.Name,
		Provider:    provider,
		NumQubits:   h.NumQubits,
		BasisGates:  h.BasisGates,
		CouplingMap: h.Connectivity,
	}
	c := NewCalibration()
	for q := 0; q < h.NumQubits; q++ {
		p, ok := props[q]
		if !ok {
			return nil, errors.Wrapf(ErrMissingCalibration, "properties of qubit %d", q)
		}
		c.SingleQubitGateFidelity[q] = map[string]float64{
			"id": 1 - p.EID,
			"rz": 1,
			"sx": 1 - p.ESX,
			"x":  1 - p.EX,
		}
		c.ReadoutFidelity[q] = 1 - p.ERO
		c.ReadoutDuration[q] = p.TRO * nanosecond
		c.T1[q] = p.T1 * microsecond
		c.T2[q] = p.T2 * microsecond
	}
	for _, e := range h.Connectivity {
		p, ok := props[e[0]]
		if !ok {
			return nil, errors.Wrapf(ErrMissingCalibration, "properties of qubit %d", e[0])
		}
		fe, ok := p.TwoQubitError[e.String()]
		if !ok {
			return nil, errors.Wrapf(ErrMissingCalibration, "%s of edge %s", errKey, e)
		}
		c.TwoQubitGateFidelity[e] = map[string]float64{twoQubitGate: 1 - fe}
		if t, ok := p.TwoQubitDuration[e.String()]; ok {
			c.TwoQubitGateDuration[e] = map[string]float64{twoQubitGate: t * nanosecond}
		}
	}
	dev.Calibration = c
	dev.Sanitize()
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	zap.L().Debug(fmt.Sprintf("imported IBM backend %s with %d qubits", dev.Name, dev.NumQubits))
	return dev, nil
}

func decodeIBMQubit(d *jx.Decoder, errKey, durKey string) (*ibmQubitProperties, error) {
	p := &ibmQubitProperties{
		TwoQubitError:    map[string]float64{},
		TwoQubitDuration: map[string]float64{},
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "T1":
			p.T1, err = d.Float64()
		case "T2":
			p.T2, err = d.Float64()
		case "eRO":
			p.ERO, err = d.Float64()
		case "tRO":
			p.TRO, err = d.Float64()
		case "eID":
			p.EID, err = d.Float64()
		case "eSX":
			p.ESX, err = d.Float64()
		case "eX":
			p.EX, err = d.Float64()
		case errKey:
			err = decodeFloatMap(d, p.TwoQubitError)
		case durKey:
			err = decodeFloatMap(d, p.TwoQubitDuration)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

func decodeFloatMap(d *jx.Decoder, m map[string]float64) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		v, err := d.Float64()
		if err != nil {
			return errors.Wrapf(err, "entry %s", key)
		}
		m[key] = v
		return nil
	})
}

func (h *backendHeader) decodeField(d *jx.Decoder, key string) error {
	var err error
	switch key {
	case "name":
		h.Name, err = d.Str()
	case "num_qubits":
		h.NumQubits, err = d.Int()
	case "basis_gates":
		err = d.Arr(func(d *jx.Decoder) error {
			g, err := d.Str()
			if err != nil {
				return err
			}
			h.BasisGates = append(h.BasisGates, g)
			return nil
		})
	case "connectivity":
		err = d.Arr(func(d *jx.Decoder) error {
			var e []int
			if err := d.Arr(func(d *jx.Decoder) error {
				q, err := d.Int()
				if err != nil {
					return err
				}
				e = append(e, q)
				return nil
			}); err != nil {
				return err
			}
			if len(e) != 2 {
				return fmt.Errorf("coupling %v is not a pair", e)
			}
			h.Connectivity = append(h.Connectivity, Edge{e[0], e[1]})
			return nil
		})
	default:
		err = d.Skip()
	}
	return err
}

// ImportIonQCalibration reads an IonQ characterization document. Gate
// fidelities are device-wide means; rz is virtual.
func ImportIonQCalibration(data []byte) (*Device, error) {
	var h backendHeader
	var oneQ, twoQ, spam float64
	timing := map[string]float64{}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "fidelity":
			return d.Obj(func(d *jx.Decoder, kind string) error {
				var mean float64
				if err := d.Obj(func(d *jx.Decoder, stat string) error {
					if stat != "mean" {
						return d.Skip()
					}
					v, err := d.Float64()
					mean = v
					return err
				}); err != nil {
					return errors.Wrapf(err, "fidelity %s", kind)
				}
				switch kind {
				case "1q":
					oneQ = mean
				case "2q":
					twoQ = mean
				case "spam":
					spam = mean
				}
				return nil
			})
		case "timing":
			return decodeFloatMap(d, timing)
		default:
			return h.decodeField(d, key)
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode IonQ calibration")
	}
	for _, k := range []string{"t1", "t2", "1q", "2q", "readout"} {
		if _, ok := timing[k]; !ok {
			return nil, errors.Wrapf(ErrMissingCalibration, "timing %s", k)
		}
	}

	dev := &Device{
		Name:        h.Name,
		Provider:    "ionq",
		NumQubits:   h.NumQubits,
		BasisGates:  h.BasisGates,
		CouplingMap: h.Connectivity,
	}
	c := NewCalibration()
	for q := 0; q < h.NumQubits; q++ {
		c.SingleQubitGateFidelity[q] = map[string]float64{"rx": oneQ, "ry": oneQ, "rz": 1}
		c.SingleQubitGateDuration[q] = map[string]float64{"rx": timing["1q"], "ry": timing["1q"], "rz": 0}
		c.ReadoutFidelity[q] = spam
		c.ReadoutDuration[q] = timing["readout"]
		c.T1[q] = timing["t1"]
		c.T2[q] = timing["t2"]
	}
	for _, e := range h.Connectivity {
		c.TwoQubitGateFidelity[e] = map[string]float64{"rxx": twoQ}
		c.TwoQubitGateDuration[e] = map[string]float64{"rxx": timing["2q"]}
	}
	dev.Calibration = c
	dev.Sanitize()
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	return dev, nil
}
