package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-faster/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/oqtopus-bench/core"
	"github.com/tidwall/pretty"
	"go.uber.org/multierr"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidRecord = errors.New("invalid record")

type FeatureRecord = core.FeatureRecord

type SupermarqFeatures = core.SupermarqFeatures

var (
	intFields = []string{"num_qubits", "depth", "num_gates", "num_multiple_qubit_gates"}

	supermarqFields = []string{
		"program_communication",
		"critical_depth",
		"entanglement_ratio",
		"parallelism",
		"liveness",
	}
)

// Validate checks a single JSON object against the record layout and returns
// every problem found.
func Validate(data []byte) error {
	var errs error
	root := jsonIter.Get(data)
	if root.ValueType() != jsoniter.ObjectValue {
		return errors.New("not a JSON object")
	}
	if v := root.Get("filename"); v.ValueType() == jsoniter.InvalidValue {
		errs = multierr.Append(errs, errors.New("missing field filename"))
	} else if v.ValueType() != jsoniter.StringValue || v.ToString() == "" {
		errs = multierr.Append(errs, errors.New("field filename must be a non-empty string"))
	}
	for _, f := range intFields {
		errs = multierr.Append(errs, checkCount(root.Get(f), f))
	}
	sm := root.Get("supermarq_features")
	switch sm.ValueType() {
	case jsoniter.InvalidValue:
		errs = multierr.Append(errs, errors.New("missing field supermarq_features"))
	case jsoniter.ObjectValue:
		for _, f := range supermarqFields {
			errs = multierr.Append(errs, checkUnit(sm.Get(f), "supermarq_features."+f))
		}
	default:
		errs = multierr.Append(errs, errors.New("field supermarq_features must be an object"))
	}
	return errs
}

func checkCount(v jsoniter.Any, name string) error {
	if v.ValueType() == jsoniter.InvalidValue {
		return fmt.Errorf("missing field %s", name)
	}
	if v.ValueType() != jsoniter.NumberValue {
		return fmt.Errorf("field %s must be a number", name)
	}
	f := v.ToFloat64()
	if f < 0 || f != math.Trunc(f) {
		return fmt.Errorf("field %s must be a non-negative integer, got %s", name, v.ToString())
	}
	return nil
}

func checkUnit(v jsoniter.Any, name string) error {
	if v.ValueType() == jsoniter.InvalidValue {
		return fmt.Errorf("missing field %s", name)
	}
	if v.ValueType() != jsoniter.NumberValue {
		return fmt.Errorf("field %s must be a number", name)
	}
	if f := v.ToFloat64(); f < 0 || f > 1 {
		return fmt.Errorf("field %s must be in [0, 1], got %s", name, v.ToString())
	}
	return nil
}

// Decode validates and decodes one record. where names the record in errors.
func Decode(data []byte, where string) (FeatureRecord, error) {
	var r FeatureRecord
	if err := Validate(data); err != nil {
		return r, errors.Wrapf(ErrInvalidRecord, "%s: %s", where, err)
	}
	if err := jsonIter.Unmarshal(data, &r); err != nil {
		return r, errors.Wrapf(ErrInvalidRecord, "%s: %s", where, err)
	}
	return r, nil
}

// ReadNDJSON decodes one record per non-blank line. Every invalid record is
// reported; no records are returned when one is invalid.
func ReadNDJSON(r io.Reader) ([]FeatureRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var (
		records []FeatureRecord
		errs    error
	)
	line := 0
	for sc.Scan() {
		line++
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		rec, err := Decode(data, fmt.Sprintf("line %d", line))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	if errs != nil {
		return nil, errs
	}
	return records, nil
}

// ReadJSON decodes a JSON array of records.
func ReadJSON(r io.Reader) ([]FeatureRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	root := jsonIter.Get(data)
	if root.ValueType() != jsoniter.ArrayValue {
		return nil, errors.Wrap(ErrInvalidRecord, "dataset is not a JSON array")
	}
	var raw []jsoniter.RawMessage
	if err := jsonIter.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode records")
	}
	var (
		records []FeatureRecord
		errs    error
	)
	for i, item := range raw {
		rec, err := Decode(item, fmt.Sprintf("record %d", i))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	if errs != nil {
		return nil, errs
	}
	return records, nil
}

// WriteNDJSON writes one record per line.
func WriteNDJSON(w io.Writer, records []FeatureRecord) error {
	bw := bufio.NewWriter(w)
	for i := range records {
		b, err := jsonIter.Marshal(&records[i])
		if err != nil {
			return errors.Wrapf(err, "encode %s", records[i].Filename)
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, records []FeatureRecord) error {
	if records == nil {
		records = []FeatureRecord{}
	}
	b, err := jsonIter.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "encode records")
	}
	_, err = w.Write(pretty.Pretty(b))
	return err
}
