// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibleDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()
	query := Decode(0x01010a050004e3ff)

	// same arch, version, and features; different cores and freq
	assert.True(t, Compatible(query, Decode(0x010104040004e3ff), policy))
	// identical
	assert.True(t, Compatible(query, query, policy))
	// different feature bitset
	assert.False(t, Compatible(query, Decode(0x01010a050000e3bf), policy))
	// different architecture family
	assert.False(t, Compatible(query, Decode(0x02010a050004e3ff), policy))
	// different ISA revision
	assert.False(t, Compatible(query, Decode(0x01020a050004e3ff), policy))
}

func TestCompatibleCustomPolicy(t *testing.T) {
	// a stricter policy that also pins the frequency class
	policy := NewPolicy(FieldArch, FieldVersion, FieldFeatures, FieldFreq)
	query := Decode(0x0101040500000001)

	assert.True(t, Compatible(query, Decode(0x0101080500000001), policy))
	assert.False(t, Compatible(query, Decode(0x0101040400000001), policy))
}

func TestPolicyIdentity(t *testing.T) {
	fields := DefaultPolicy().Identity()
	require.Len(t, fields, 3)
	assert.Equal(t, []Field{FieldArch, FieldVersion, FieldFeatures}, fields)
}

func TestRankPrefersNearestFreqClass(t *testing.T) {
	query := Decode(0x0101040400000001) // freq class 4
	candidates := []Key{
		Decode(0x0101040700000001), // freq class 7, delta 3
		Decode(0x0101040300000001), // freq class 3, delta 1
		Decode(0x0101040600000001), // freq class 6, delta 2
	}
	order := Rank(query, candidates)
	require.Len(t, order, 3)
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestRankBreaksFreqTiesByCores(t *testing.T) {
	query := Decode(0x0101040400000001) // cores 4
	candidates := []Key{
		Decode(0x0101080500000001), // freq delta 1, cores delta 4
		Decode(0x0101020500000001), // freq delta 1, cores delta 2
	}
	order := Rank(query, candidates)
	assert.Equal(t, []int{1, 0}, order)
}

func TestRankBreaksFullTiesByRegistrationOrder(t *testing.T) {
	query := Decode(0x0101040400000001)
	// equidistant on both sides of the query's frequency class
	candidates := []Key{
		Decode(0x0101040500000001),
		Decode(0x0101040300000001),
	}
	order := Rank(query, candidates)
	assert.Equal(t, []int{0, 1}, order, "earliest-registered candidate should win a full tie")
}

func TestFeatureSet(t *testing.T) {
	s := FeatureConv | FeatureReLU | FeatureSoftmax
	assert.True(t, s.Has(FeatureConv|FeatureReLU))
	assert.False(t, s.Has(FeatureArgMax))
	assert.Equal(t, []string{"conv", "relu", "softmax"}, s.Names())

	bit, ok := FeatureFromName("softmax")
	require.True(t, ok)
	assert.Equal(t, FeatureSoftmax, bit)
	_, ok = FeatureFromName("nope")
	assert.False(t, ok)

	missing := s.Missing(FeatureConv | FeatureArgMax | FeatureFC)
	assert.Equal(t, []string{"argmax", "fc"}, missing)
}
