// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
)

// wellKnownParamKinds lists the capability parameters the current schema
// interprets and the type each must carry. Parameters outside this table are
// accepted as-is; they belong to newer schema revisions and are preserved
// through Raw.
var wellKnownParamKinds = map[string]Kind{
	"banks":            KindInt,
	"bank_depth":       KindInt,
	"bank_width":       KindInt,
	"batch":            KindInt,
	"ops_per_core":     KindInt,
	"load_parallel":    KindInt,
	"save_parallel":    KindInt,
	"channel_parallel": KindInt,
	"pixel_parallel":   KindInt,
	"isa":              KindString,
	"device":           KindString,
}

type wireDescriptor struct {
	Name        string            `json:"name"`
	Fingerprint json.RawMessage   `json:"fingerprint"`
	Parameters  json.RawMessage   `json:"parameters"`
	Derived     map[string]string `json:"derived"`
}

// Decode parses serialized descriptor bytes into a TargetDescriptor. The
// wire form is JSON; YAML input is detected and accepted as well. Decode is
// pure and all-or-nothing: on any schema violation it returns an error
// wrapping ErrMalformedDescriptor and no descriptor.
func Decode(data []byte) (TargetDescriptor, error) {
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool { return r == ' ' || r == '\t' || r == '\r' || r == '\n' })
	if len(trimmed) == 0 {
		return TargetDescriptor{}, fmt.Errorf("%w: empty input", ErrMalformedDescriptor)
	}
	var (
		wire wireDescriptor
		err  error
	)
	if trimmed[0] == '{' {
		wire, err = decodeJSONWire(data)
	} else {
		wire, err = decodeYAMLWire(data)
	}
	if err != nil {
		return TargetDescriptor{}, err
	}
	if wire.Name == "" {
		return TargetDescriptor{}, fmt.Errorf("%w: name is empty", ErrMalformedDescriptor)
	}
	fp, err := parseFingerprintField(wire.Fingerprint)
	if err != nil {
		return TargetDescriptor{}, err
	}
	params, err := parseParameters(wire.Parameters)
	if err != nil {
		return TargetDescriptor{}, err
	}
	for _, p := range params {
		if want, ok := wellKnownParamKinds[p.Name]; ok && p.Value.Kind != want {
			return TargetDescriptor{}, fmt.Errorf("%w: parameter %q must be %s, got %s",
				ErrMalformedDescriptor, p.Name, want, p.Value.Kind)
		}
	}
	params, err = applyDerived(params, wire.Derived)
	if err != nil {
		return TargetDescriptor{}, err
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return TargetDescriptor{
		Name:        wire.Name,
		Fingerprint: fp,
		Key:         fingerprint.Decode(fp),
		Parameters:  params,
		Raw:         raw,
	}, nil
}

// Encode serializes a descriptor. When the descriptor still carries its
// original bytes they are re-emitted verbatim, so fields this schema version
// does not interpret are not dropped. Descriptors constructed in memory are
// marshaled to canonical JSON with parameters in declaration order.
func Encode(d TargetDescriptor) ([]byte, error) {
	if len(d.Raw) > 0 {
		out := make([]byte, len(d.Raw))
		copy(out, d.Raw)
		return out, nil
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrMalformedDescriptor)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"name":`)
	writeJSONString(&buf, d.Name)
	fmt.Fprintf(&buf, `,"fingerprint":"0x%016x"`, d.Fingerprint)
	if len(d.Parameters) > 0 {
		buf.WriteString(`,"parameters":`)
		writeJSONParameters(&buf, d.Parameters)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeJSONWire(data []byte) (wireDescriptor, error) {
	var wire wireDescriptor
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&wire); err != nil {
		return wireDescriptor{}, fmt.Errorf("%w: %v", ErrMalformedDescriptor, err)
	}
	return wire, nil
}

func parseFingerprintField(raw json.RawMessage) (uint64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("%w: fingerprint is missing", ErrMalformedDescriptor)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: fingerprint: %v", ErrMalformedDescriptor, err)
		}
		fp, err := fingerprint.Parse(s)
		if err != nil {
			return 0, fmt.Errorf("%w: fingerprint %q: %v", ErrMalformedDescriptor, s, err)
		}
		return fp, nil
	}
	fp, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: fingerprint %s: %v", ErrMalformedDescriptor, raw, err)
	}
	return fp, nil
}

// parseParameters reads the parameters object with a token decoder so the
// declaration order in the serialized descriptor is preserved.
func parseParameters(raw json.RawMessage) (Parameters, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	params, err := parseJSONObject(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrMalformedDescriptor, err)
	}
	return params, nil
}

func parseJSONObject(dec *json.Decoder) (Parameters, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var params Parameters
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)
		val, err := parseJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %v", key, err)
		}
		params = append(params, Parameter{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return params, nil
}

func parseJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var sub Parameters
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				val, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				sub = append(sub, Parameter{Name: keyTok.(string), Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ObjectValue(sub), nil
		case '[':
			var list []Value
			for dec.More() {
				v, err := parseJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindList, List: list}, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return numberValue(t.String())
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return Value{}, fmt.Errorf("null is not a valid parameter value")
	}
	return Value{}, fmt.Errorf("unsupported value %v", tok)
}

func numberValue(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(f), nil
}

// decodeYAMLWire converts a YAML descriptor to the wire form. yaml.MapSlice
// keeps the parameter declaration order.
func decodeYAMLWire(data []byte) (wireDescriptor, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return wireDescriptor{}, fmt.Errorf("%w: %v", ErrMalformedDescriptor, err)
	}
	var wire wireDescriptor
	for _, item := range doc {
		key, ok := item.Key.(string)
		if !ok {
			return wireDescriptor{}, fmt.Errorf("%w: non-string key %v", ErrMalformedDescriptor, item.Key)
		}
		switch key {
		case "name":
			s, ok := item.Value.(string)
			if !ok {
				return wireDescriptor{}, fmt.Errorf("%w: name must be a string", ErrMalformedDescriptor)
			}
			wire.Name = s
		case "fingerprint":
			raw, err := yamlFingerprintRaw(item.Value)
			if err != nil {
				return wireDescriptor{}, err
			}
			wire.Fingerprint = raw
		case "parameters":
			params, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return wireDescriptor{}, fmt.Errorf("%w: parameters must be a mapping", ErrMalformedDescriptor)
			}
			raw, err := yamlParamsToJSON(params)
			if err != nil {
				return wireDescriptor{}, err
			}
			wire.Parameters = raw
		case "derived":
			m, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return wireDescriptor{}, fmt.Errorf("%w: derived must be a mapping", ErrMalformedDescriptor)
			}
			wire.Derived = make(map[string]string, len(m))
			for _, d := range m {
				name, nameOK := d.Key.(string)
				expr, exprOK := d.Value.(string)
				if !nameOK || !exprOK {
					return wireDescriptor{}, fmt.Errorf("%w: derived entries must map names to expressions", ErrMalformedDescriptor)
				}
				wire.Derived[name] = expr
			}
		}
	}
	return wire, nil
}

func yamlFingerprintRaw(v interface{}) (json.RawMessage, error) {
	switch t := v.(type) {
	case string:
		quoted, _ := json.Marshal(t)
		return quoted, nil
	case int:
		return json.RawMessage(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return json.RawMessage(strconv.FormatInt(t, 10)), nil
	case uint64:
		return json.RawMessage(strconv.FormatUint(t, 10)), nil
	default:
		return nil, fmt.Errorf("%w: fingerprint must be a string or integer", ErrMalformedDescriptor)
	}
}

// yamlParamsToJSON renders an ordered YAML mapping as an ordered JSON object
// so both formats share one parameter parser.
func yamlParamsToJSON(params yaml.MapSlice) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := writeYAMLMapAsJSON(&buf, params); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeYAMLMapAsJSON(buf *bytes.Buffer, m yaml.MapSlice) error {
	buf.WriteByte('{')
	for i, item := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("%w: non-string parameter key %v", ErrMalformedDescriptor, item.Key)
		}
		writeJSONString(buf, key)
		buf.WriteByte(':')
		if err := writeYAMLValueAsJSON(buf, item.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeYAMLValueAsJSON(buf *bytes.Buffer, v interface{}) error {
	switch t := v.(type) {
	case yaml.MapSlice:
		return writeYAMLMapAsJSON(buf, t)
	case []interface{}:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLValueAsJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case string:
		writeJSONString(buf, t)
		return nil
	case bool:
		buf.WriteString(strconv.FormatBool(t))
		return nil
	case int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
		return nil
	case uint64:
		buf.WriteString(strconv.FormatUint(t, 10))
		return nil
	case float64:
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
		return nil
	default:
		return fmt.Errorf("%w: unsupported parameter value %v", ErrMalformedDescriptor, v)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeJSONParameters(buf *bytes.Buffer, params Parameters) {
	buf.WriteByte('{')
	for i, p := range params {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, p.Name)
		buf.WriteByte(':')
		writeJSONValue(buf, p.Value)
	}
	buf.WriteByte('}')
}

func writeJSONValue(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		buf.WriteString(strconv.FormatFloat(v.Flt, 'g', -1, 64))
	case KindString:
		writeJSONString(buf, v.Str)
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindList:
		buf.WriteByte('[')
		for i, e := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONValue(buf, e)
		}
		buf.WriteByte(']')
	case KindObject:
		writeJSONParameters(buf, v.Sub)
	}
}
