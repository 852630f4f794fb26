// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Policy declares which sub-fields are identity-defining for compatibility
// matching. Fields not in the set may differ between a query and a candidate
// without breaking compatibility; they are used only for ranking.
type Policy struct {
	identity mapset.Set[Field]
}

// NewPolicy builds a policy from an explicit identity-field list.
func NewPolicy(fields ...Field) Policy {
	s := mapset.NewThreadUnsafeSet[Field]()
	for _, f := range fields {
		s.Add(f)
	}
	return Policy{identity: s}
}

// DefaultPolicy treats the architecture family, ISA revision, and feature
// bitset as identity-defining. Core count and frequency class vary across
// hardware bins of the same software-compatible part, so they rank rather
// than filter.
func DefaultPolicy() Policy {
	return NewPolicy(FieldArch, FieldVersion, FieldFeatures)
}

// Identity returns the identity-defining fields.
func (p Policy) Identity() []Field {
	fields := p.identity.ToSlice()
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

func (p Policy) matches(f Field, a, b Key) bool {
	switch f {
	case FieldArch:
		return a.Arch == b.Arch
	case FieldVersion:
		return a.Version == b.Version
	case FieldCores:
		return a.Cores == b.Cores
	case FieldFreq:
		return a.Freq == b.Freq
	case FieldFeatures:
		return a.Features == b.Features
	}
	return false
}

// Compatible reports whether candidate can stand in for query: every
// identity-defining sub-field must match exactly.
func Compatible(query, candidate Key, p Policy) bool {
	for _, sf := range Layout {
		if p.identity.Contains(sf.Field) && !p.matches(sf.Field, query, candidate) {
			return false
		}
	}
	return true
}

func absDelta(a, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}

// Closeness compares two candidate keys against a query for ranking.
// Returns a negative value when a outranks b, positive when b outranks a,
// zero when they tie. Nearer frequency class wins first, then nearer core
// count. Ties are left to the caller, which breaks them by registration
// order.
func Closeness(query, a, b Key) int {
	if d := absDelta(query.Freq, a.Freq) - absDelta(query.Freq, b.Freq); d != 0 {
		return d
	}
	return absDelta(query.Cores, a.Cores) - absDelta(query.Cores, b.Cores)
}

// Rank orders candidate keys by closeness to the query, breaking ties by
// position in the input slice (callers pass candidates in registration
// order, so earlier registrations win). The returned slice holds indices
// into candidates. The ordering is deterministic for fixed inputs.
func Rank(query Key, candidates []Key) []int {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		c := Closeness(query, candidates[order[i]], candidates[order[j]])
		if c != 0 {
			return c < 0
		}
		return order[i] < order[j]
	})
	return order
}
