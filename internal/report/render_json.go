// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"encoding/json"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
)

type jsonTarget struct {
	Name         string          `json:"name"`
	Fingerprint  string          `json:"fingerprint"`
	Architecture string          `json:"architecture"`
	Version      uint8           `json:"version"`
	Cores        uint8           `json:"cores"`
	Clock        string          `json:"clock"`
	Features     []string        `json:"features"`
	Descriptor   json.RawMessage `json:"descriptor"`
}

// RenderJSON emits the registry contents as a JSON array, one element per
// target in registration order, each carrying its re-encoded descriptor.
func RenderJSON(reg *registry.Registry) ([]byte, error) {
	targets := make([]jsonTarget, 0, reg.Len())
	for d := range reg.All() {
		encoded, err := descriptor.Encode(d)
		if err != nil {
			return nil, err
		}
		// descriptors registered from YAML carry YAML raw bytes; re-encode
		// those canonically so the embedded descriptor stays valid JSON
		if len(encoded) == 0 || bytes.TrimSpace(encoded)[0] != '{' {
			stripped := d
			stripped.Raw = nil
			if encoded, err = descriptor.Encode(stripped); err != nil {
				return nil, err
			}
		}
		targets = append(targets, jsonTarget{
			Name:         d.Name,
			Fingerprint:  hexFingerprint(d.Fingerprint),
			Architecture: d.Key.ArchFamily().String(),
			Version:      d.Key.Version,
			Cores:        d.Key.Cores,
			Clock:        d.Key.FreqClass().String(),
			Features:     d.Key.Features.Names(),
			Descriptor:   encoded,
		})
	}
	return json.MarshalIndent(targets, "", "  ")
}
