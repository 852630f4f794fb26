// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint decodes the 64-bit DPU hardware fingerprint into its
// declared sub-fields and implements the exact-match and compatibility
// policies used by target resolution.
package fingerprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies one sub-field of the fingerprint layout.
type Field uint8

const (
	FieldArch Field = iota
	FieldVersion
	FieldCores
	FieldFreq
	FieldFeatures
)

func (f Field) String() string {
	switch f {
	case FieldArch:
		return "arch"
	case FieldVersion:
		return "version"
	case FieldCores:
		return "cores"
	case FieldFreq:
		return "freq"
	case FieldFeatures:
		return "features"
	default:
		return "unknown"
	}
}

// SubField declares the position of one field within the 64-bit fingerprint.
type SubField struct {
	Field Field
	Shift uint
	Width uint
}

// Layout is the authoritative bit layout of the fingerprint. Matching code
// must go through Decode/Encode rather than masking raw values directly.
var Layout = []SubField{
	{Field: FieldArch, Shift: 56, Width: 8},
	{Field: FieldVersion, Shift: 48, Width: 8},
	{Field: FieldCores, Shift: 40, Width: 8},
	{Field: FieldFreq, Shift: 32, Width: 8},
	{Field: FieldFeatures, Shift: 0, Width: 32},
}

// Key is the decoded view of a fingerprint. Sub-field values are stored
// exactly as read from the raw fingerprint, so Encode always reconstitutes
// the original value, including values the current schema does not name.
type Key struct {
	Arch     uint8
	Version  uint8
	Cores    uint8
	Freq     uint8
	Features FeatureSet
}

// Decode extracts the sub-fields from a raw fingerprint. Decoding is total:
// every bit pattern yields a Key. Interpretation of out-of-range values is
// deferred to ArchFamily and FreqClass, which report Unknown sentinels.
func Decode(raw uint64) Key {
	return Key{
		Arch:     uint8(raw >> 56),
		Version:  uint8(raw >> 48),
		Cores:    uint8(raw >> 40),
		Freq:     uint8(raw >> 32),
		Features: FeatureSet(uint32(raw)),
	}
}

// Encode repacks the sub-fields into the raw fingerprint value.
func (k Key) Encode() uint64 {
	return uint64(k.Arch)<<56 |
		uint64(k.Version)<<48 |
		uint64(k.Cores)<<40 |
		uint64(k.Freq)<<32 |
		uint64(k.Features)
}

// Equal reports whether two keys match on every sub-field.
func Equal(a, b Key) bool {
	return a == b
}

func (k Key) String() string {
	return fmt.Sprintf("%s v%d cores=%d %s features=[%s]",
		k.ArchFamily(), k.Version, k.Cores, k.FreqClass(), strings.Join(k.Features.Names(), ","))
}

// Arch is the DPU architecture family encoded in the fingerprint.
type Arch uint8

const (
	ArchUnknown Arch = iota
	ArchDPUCZ        // Zynq UltraScale+ MPSoC
	ArchDPUCAH       // Alveo HBM
	ArchDPUCV        // Versal AI Core
	ArchDPUCAD       // Alveo DDR
	archMax
)

func (a Arch) String() string {
	switch a {
	case ArchDPUCZ:
		return "DPUCZ"
	case ArchDPUCAH:
		return "DPUCAH"
	case ArchDPUCV:
		return "DPUCV"
	case ArchDPUCAD:
		return "DPUCAD"
	default:
		return "Unknown"
	}
}

// ArchFamily interprets the arch sub-field. Values outside the known range
// map to ArchUnknown rather than failing; the raw value stays available in
// k.Arch so unrecognized hardware still round-trips and ranks.
func (k Key) ArchFamily() Arch {
	if k.Arch == 0 || Arch(k.Arch) >= archMax {
		return ArchUnknown
	}
	return Arch(k.Arch)
}

// FreqClass is the clock binning index encoded in the fingerprint.
type FreqClass uint8

const FreqClassUnknown FreqClass = 0

// freqClassMHz maps known frequency classes to their nominal clock. Class 0
// and classes beyond the table are reported as unknown.
var freqClassMHz = map[FreqClass]int{
	1: 200,
	2: 250,
	3: 300,
	4: 325,
	5: 350,
	6: 400,
	7: 500,
	8: 550,
}

func (c FreqClass) String() string {
	if mhz, ok := freqClassMHz[c]; ok {
		return fmt.Sprintf("%dMHz", mhz)
	}
	return "UnknownFreq"
}

// MHz returns the nominal clock for the class, or 0 if unknown.
func (c FreqClass) MHz() int {
	return freqClassMHz[c]
}

// FreqClass interprets the freq sub-field, mapping out-of-range values to
// FreqClassUnknown.
func (k Key) FreqClass() FreqClass {
	c := FreqClass(k.Freq)
	if _, ok := freqClassMHz[c]; !ok {
		return FreqClassUnknown
	}
	return c
}

// Parse converts a textual fingerprint to its raw value. Accepts 0x-prefixed
// hex, plain hex with a letter digit, or decimal.
func Parse(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty fingerprint")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	if strings.ContainsAny(s, "abcdefABCDEF") {
		return strconv.ParseUint(s, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
