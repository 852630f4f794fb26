// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
)

// snapshot is an immutable view of the registered descriptors. Readers load
// the current snapshot once and work against it without locking; writers
// build a replacement and publish it atomically.
type snapshot struct {
	ordered []descriptor.TargetDescriptor // registration order
	byName  map[string]int
	byFP    map[uint64]int
}

var emptySnapshot = &snapshot{
	byName: map[string]int{},
	byFP:   map[uint64]int{},
}

// Store owns the registered target descriptors, indexed by unique name and
// by fingerprint. Resolution runs on hot compiler/runtime paths, so lookups
// are lock-free reads of a copy-on-write snapshot; Insert serializes writers
// and leaves the store unchanged when either uniqueness invariant would be
// violated. Descriptors are never removed: a live compiler may hold a
// resolved descriptor, and "stable once resolved" is part of the contract.
type Store struct {
	mu   sync.Mutex // serializes writers only
	snap atomic.Pointer[snapshot]
}

func NewStore() *Store {
	s := &Store{}
	s.snap.Store(emptySnapshot)
	return s
}

// Insert registers a descriptor. Both indices are checked before either is
// touched, so a rejected insert has no effect.
func (s *Store) Insert(d descriptor.TargetDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()
	if _, ok := cur.byName[d.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, d.Name)
	}
	if prev, ok := cur.byFP[d.Fingerprint]; ok {
		return fmt.Errorf("%w: 0x%016x already registered as %s",
			ErrDuplicateFingerprint, d.Fingerprint, cur.ordered[prev].Name)
	}
	next := &snapshot{
		ordered: make([]descriptor.TargetDescriptor, len(cur.ordered), len(cur.ordered)+1),
		byName:  make(map[string]int, len(cur.byName)+1),
		byFP:    make(map[uint64]int, len(cur.byFP)+1),
	}
	copy(next.ordered, cur.ordered)
	for k, v := range cur.byName {
		next.byName[k] = v
	}
	for k, v := range cur.byFP {
		next.byFP[k] = v
	}
	idx := len(next.ordered)
	next.ordered = append(next.ordered, d)
	next.byName[d.Name] = idx
	next.byFP[d.Fingerprint] = idx
	s.snap.Store(next)
	return nil
}

// FindByName returns the descriptor registered under name.
func (s *Store) FindByName(name string) (descriptor.TargetDescriptor, bool) {
	snap := s.snap.Load()
	idx, ok := snap.byName[name]
	if !ok {
		return descriptor.TargetDescriptor{}, false
	}
	return snap.ordered[idx], true
}

// FindByFingerprint returns the descriptor with an exactly matching
// fingerprint.
func (s *Store) FindByFingerprint(fp uint64) (descriptor.TargetDescriptor, bool) {
	snap := s.snap.Load()
	idx, ok := snap.byFP[fp]
	if !ok {
		return descriptor.TargetDescriptor{}, false
	}
	return snap.ordered[idx], true
}

// Len returns the number of registered descriptors.
func (s *Store) Len() int {
	return len(s.snap.Load().ordered)
}

// All iterates the registered descriptors in registration order. The
// sequence is a point-in-time snapshot: it is finite, restartable, and
// unaffected by registrations that happen while ranging.
func (s *Store) All() iter.Seq[descriptor.TargetDescriptor] {
	snap := s.snap.Load()
	return func(yield func(descriptor.TargetDescriptor) bool) {
		for _, d := range snap.ordered {
			if !yield(d) {
				return
			}
		}
	}
}
