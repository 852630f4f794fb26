// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"testing"
)

func TestDecodeEncodeIdentity(t *testing.T) {
	raws := []uint64{
		0,
		0x010101030000e3bf,
		0x010104040004e3ff,
		0xffffffffffffffff,
		0x00000000deadbeef,
		0x7f00ff01ffffffff, // out-of-range arch and freq still round-trip
	}
	for _, raw := range raws {
		key := Decode(raw)
		if got := key.Encode(); got != raw {
			t.Fatalf("Decode/Encode not an identity for 0x%016x: got 0x%016x", raw, got)
		}
	}
}

func TestDecodeSubFields(t *testing.T) {
	key := Decode(0x010204050004e3ff)
	if key.Arch != 1 || key.Version != 2 || key.Cores != 4 || key.Freq != 5 {
		t.Fatalf("unexpected sub-fields: %+v", key)
	}
	if key.Features != FeatureSet(0x0004e3ff) {
		t.Fatalf("unexpected features: 0x%08x", uint32(key.Features))
	}
}

func TestArchFamily(t *testing.T) {
	if got := Decode(0x0100000000000000).ArchFamily(); got != ArchDPUCZ {
		t.Fatalf("expected DPUCZ, got %s", got)
	}
	if got := Decode(0x0400000000000000).ArchFamily(); got != ArchDPUCAD {
		t.Fatalf("expected DPUCAD, got %s", got)
	}
	// out-of-range values map to the unknown sentinel rather than failing
	for _, raw := range []uint64{0x0000000000000000, 0x0500000000000000, 0xff00000000000000} {
		if got := Decode(raw).ArchFamily(); got != ArchUnknown {
			t.Fatalf("expected ArchUnknown for 0x%016x, got %s", raw, got)
		}
	}
}

func TestFreqClass(t *testing.T) {
	key := Decode(0x0101010300000000)
	if key.FreqClass().MHz() != 300 {
		t.Fatalf("expected 300MHz, got %s", key.FreqClass())
	}
	unknown := Decode(0x010101ff00000000)
	if unknown.FreqClass() != FreqClassUnknown {
		t.Fatalf("expected unknown freq class, got %s", unknown.FreqClass())
	}
	zero := Decode(0x0101010000000000)
	if zero.FreqClass() != FreqClassUnknown {
		t.Fatalf("expected unknown freq class for 0, got %s", zero.FreqClass())
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0x010104040004e3ff", 0x010104040004e3ff},
		{"0X01", 0x01},
		{"42", 42},
		{"e3ff", 0xe3ff},
		{" 0x10 ", 0x10},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = 0x%x, want 0x%x", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "0x", "zzz", "-1"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should have failed", bad)
		}
	}
}
