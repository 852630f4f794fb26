// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package descriptor defines the DPU target descriptor and the codec that moves
it between its serialized form and memory. Decoding validates the descriptor;
encoding re-emits the original bytes when they are available so that fields
the current schema does not interpret survive a round trip.
*/
package descriptor

import (
	"fmt"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
)

// Kind discriminates parameter value types.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is one typed capability parameter value.
type Value struct {
	Kind Kind
	Int  int64
	Flt  float64
	Str  string
	Bool bool
	List []Value
	Sub  Parameters
}

func IntValue(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Flt: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }
func BoolValue(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func ListValue(v ...Value) Value { return Value{Kind: KindList, List: v} }
func ObjectValue(p Parameters) Value {
	return Value{Kind: KindObject, Sub: p}
}

// Parameter is a single named capability parameter.
type Parameter struct {
	Name  string
	Value Value
}

// Parameters is an ordered name to value mapping. Order follows the
// serialized descriptor, so re-emission and reports are stable.
type Parameters []Parameter

// Get returns the value for a parameter name.
func (ps Parameters) Get(name string) (Value, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Int returns the named parameter as an int64, or 0 when absent or not an
// integer.
func (ps Parameters) Int(name string) int64 {
	v, ok := ps.Get(name)
	if !ok || v.Kind != KindInt {
		return 0
	}
	return v.Int
}

// String returns the named parameter as a string, or "" when absent or not
// a string.
func (ps Parameters) String(name string) string {
	v, ok := ps.Get(name)
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// TargetDescriptor is the structured record of a DPU target: its unique
// name, its hardware fingerprint, and its capability parameters. Name and
// Fingerprint are immutable once the descriptor is registered.
type TargetDescriptor struct {
	Name        string
	Fingerprint uint64
	Key         fingerprint.Key
	Parameters  Parameters
	// Raw holds the original serialized bytes. Encode re-emits Raw verbatim
	// so uninterpreted fields are not lost, and it stays empty for
	// descriptors constructed in memory.
	Raw []byte
}

func (d TargetDescriptor) String() string {
	return fmt.Sprintf("%s (0x%016x)", d.Name, d.Fingerprint)
}

// FieldEqual reports whether two descriptors agree on every interpreted
// field. Raw bytes are intentionally excluded: two serializations of the
// same descriptor are field-equal.
func FieldEqual(a, b TargetDescriptor) bool {
	return a.Name == b.Name &&
		a.Fingerprint == b.Fingerprint &&
		a.Key == b.Key &&
		parametersEqual(a.Parameters, b.Parameters)
}

func parametersEqual(a, b Parameters) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !valuesEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindFloat:
		return a.Flt == b.Flt
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valuesEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return parametersEqual(a.Sub, b.Sub)
	}
	return false
}
