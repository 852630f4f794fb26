// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import "errors"

var (
	// ErrDuplicateName is returned by registration when a descriptor with
	// the same name is already registered.
	ErrDuplicateName = errors.New("duplicate target name")
	// ErrDuplicateFingerprint is returned by registration when a descriptor
	// with an identical fingerprint is already registered. Exact collisions
	// are rejected, never overwritten.
	ErrDuplicateFingerprint = errors.New("duplicate target fingerprint")
	// ErrNotFound is returned by resolution when no registered descriptor
	// matches, exactly or by compatibility.
	ErrNotFound = errors.New("target not found")
	// ErrBuiltinsLoaded is returned by LoadBuiltins after the built-in set
	// has already been loaded into the registry.
	ErrBuiltinsLoaded = errors.New("built-in targets already loaded")
)
