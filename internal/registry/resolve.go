// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"log/slog"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
)

// Resolve maps a raw fingerprint to the best-matching registered descriptor.
// An exact fingerprint hit wins; otherwise the registered descriptors are
// scanned in registration order, those compatible with the query under the
// registry's policy are retained, and the closest-ranked candidate is
// returned. Resolution is deterministic for a fixed registry population.
func (r *Registry) Resolve(raw uint64) (descriptor.TargetDescriptor, error) {
	if d, ok := r.store.FindByFingerprint(raw); ok {
		return d, nil
	}
	query := fingerprint.Decode(raw)
	var (
		candidates []descriptor.TargetDescriptor
		keys       []fingerprint.Key
	)
	for d := range r.store.All() {
		if fingerprint.Compatible(query, d.Key, r.policy) {
			candidates = append(candidates, d)
			keys = append(keys, d.Key)
		}
	}
	if len(candidates) == 0 {
		return descriptor.TargetDescriptor{}, fmt.Errorf("%w: no target compatible with 0x%016x (%s)",
			ErrNotFound, raw, query)
	}
	best := candidates[fingerprint.Rank(query, keys)[0]]
	slog.Debug("resolved fingerprint by compatibility",
		slog.String("fingerprint", fmt.Sprintf("0x%016x", raw)),
		slog.String("target", best.Name),
		slog.Int("candidates", len(candidates)))
	return best, nil
}

// ResolveByName returns the descriptor registered under name. It bypasses
// fingerprint matching entirely.
func (r *Registry) ResolveByName(name string) (descriptor.TargetDescriptor, error) {
	d, ok := r.store.FindByName(name)
	if !ok {
		return descriptor.TargetDescriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return d, nil
}
