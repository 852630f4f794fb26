// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"embed"
	"fmt"
	"log/slog"
)

//go:embed resources
var resources embed.FS

const builtinTargetsFile = "resources/builtin_targets.json"

// LoadBuiltins decodes the embedded built-in target descriptors and inserts
// them in their declared order. Loading is an explicit step rather than an
// implicit load-on-first-use so tests can start from an empty registry;
// callers must load built-ins before registering customs, since earlier
// registration wins compatibility ties. A second call fails with
// ErrBuiltinsLoaded.
func (r *Registry) LoadBuiltins() error {
	r.builtinsMu.Lock()
	defer r.builtinsMu.Unlock()
	if r.builtinsLoaded {
		return ErrBuiltinsLoaded
	}
	data, err := resources.ReadFile(builtinTargetsFile)
	if err != nil {
		return fmt.Errorf("failed to read built-in targets: %w", err)
	}
	if err := r.loadDescriptorArray(data); err != nil {
		return fmt.Errorf("failed to load built-in targets: %w", err)
	}
	r.builtinsLoaded = true
	slog.Debug("built-in targets loaded", slog.Int("count", r.store.Len()))
	return nil
}
