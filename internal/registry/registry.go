// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package registry maps DPU target descriptors to stable lookup keys. A
registry is populated once with the embedded built-in target set and may be
extended with custom descriptors during the process lifetime; lookups by
name or fingerprint are safe for concurrent use and never block on
registrations.
*/
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
)

// Registry is the public registration and resolution surface over the
// descriptor store.
type Registry struct {
	store  *Store
	policy fingerprint.Policy

	builtinsMu     sync.Mutex
	builtinsLoaded bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy overrides the compatibility policy. The default treats the
// architecture family, ISA revision, and feature bitset as
// identity-defining.
func WithPolicy(p fingerprint.Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// New constructs an empty registry. Callers normally follow with
// LoadBuiltins; tests may populate the registry entirely with customs.
func New(opts ...Option) *Registry {
	r := &Registry{
		store:  NewStore(),
		policy: fingerprint.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterCustom decodes serialized descriptor bytes and admits the
// descriptor into the registry. The first error wins: a malformed
// descriptor is never partially registered, and a conflicting one leaves
// the registry unchanged.
func (r *Registry) RegisterCustom(data []byte) error {
	d, err := descriptor.Decode(data)
	if err != nil {
		return err
	}
	if err := r.store.Insert(d); err != nil {
		slog.Debug("custom target rejected", slog.String("target", d.Name), slog.String("error", err.Error()))
		return err
	}
	slog.Debug("custom target registered", slog.String("target", d.Name),
		slog.String("fingerprint", fmt.Sprintf("0x%016x", d.Fingerprint)))
	return nil
}

// FindByName returns the descriptor registered under name.
func (r *Registry) FindByName(name string) (descriptor.TargetDescriptor, bool) {
	return r.store.FindByName(name)
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return r.store.Len()
}

// All iterates the registered descriptors in registration order.
func (r *Registry) All() iter.Seq[descriptor.TargetDescriptor] {
	return r.store.All()
}

// Policy returns the registry's compatibility policy.
func (r *Registry) Policy() fingerprint.Policy {
	return r.policy
}

// loadDescriptorArray splits a JSON array of descriptor objects and
// registers each element. Each descriptor keeps its own element bytes as its
// raw serialized form.
func (r *Registry) loadDescriptorArray(data []byte) error {
	var elements []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&elements); err != nil {
		return fmt.Errorf("%w: %v", descriptor.ErrMalformedDescriptor, err)
	}
	for i, element := range elements {
		if err := r.RegisterCustom(element); err != nil {
			return fmt.Errorf("descriptor %d: %w", i, err)
		}
	}
	return nil
}
