// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
)

func makeDescriptor(name string, fp uint64) descriptor.TargetDescriptor {
	return descriptor.TargetDescriptor{
		Name:        name,
		Fingerprint: fp,
		Key:         fingerprint.Decode(fp),
	}
}

func TestStoreInsertAndFind(t *testing.T) {
	s := NewStore()
	a := makeDescriptor("A", 0x01)
	b := makeDescriptor("B", 0x02)
	require.NoError(t, s.Insert(a))
	require.NoError(t, s.Insert(b))
	assert.Equal(t, 2, s.Len())

	got, ok := s.FindByName("A")
	require.True(t, ok)
	assert.Equal(t, a.Name, got.Name)

	got, ok = s.FindByFingerprint(0x02)
	require.True(t, ok)
	assert.Equal(t, b.Name, got.Name)

	_, ok = s.FindByName("C")
	assert.False(t, ok)
	_, ok = s.FindByFingerprint(0x03)
	assert.False(t, ok)
}

func TestStoreRejectsDuplicateName(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(makeDescriptor("A", 0x01)))
	err := s.Insert(makeDescriptor("A", 0x02))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
	// the failed insert must leave the store unchanged
	assert.Equal(t, 1, s.Len())
	_, ok := s.FindByFingerprint(0x02)
	assert.False(t, ok, "fingerprint index must not contain the rejected descriptor")
}

func TestStoreRejectsDuplicateFingerprint(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(makeDescriptor("A", 0x01)))
	err := s.Insert(makeDescriptor("B", 0x01))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFingerprint)
	assert.Equal(t, 1, s.Len())
	_, ok := s.FindByName("B")
	assert.False(t, ok, "name index must not contain the rejected descriptor")
}

func TestStoreAllIsSnapshotOrdered(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(makeDescriptor("A", 0x01)))
	require.NoError(t, s.Insert(makeDescriptor("B", 0x02)))
	require.NoError(t, s.Insert(makeDescriptor("C", 0x03)))

	seq := s.All()
	var names []string
	for d := range seq {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)

	// inserting after the sequence was taken must not change it
	require.NoError(t, s.Insert(makeDescriptor("D", 0x04)))
	names = names[:0]
	for d := range seq {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names, "All must be a restartable point-in-time snapshot")
}

func TestStoreAllEarlyStop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(makeDescriptor("A", 0x01)))
	require.NoError(t, s.Insert(makeDescriptor("B", 0x02)))
	count := 0
	for range s.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
