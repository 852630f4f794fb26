// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/util"
)

// LoadRegistry builds a registry holding the built-in targets followed by
// any custom descriptor files, in the order given. Built-ins load first so
// they win compatibility-ranking ties against customs.
func LoadRegistry(customPaths []string) (*registry.Registry, error) {
	reg := registry.New()
	if err := reg.LoadBuiltins(); err != nil {
		return nil, err
	}
	for _, path := range customPaths {
		if err := RegisterFile(reg, path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// RegisterFile reads one custom descriptor file and registers it. File I/O
// stays in the command layer; the registry core only ever sees bytes.
func RegisterFile(reg *registry.Registry, path string) error {
	absPath, err := util.AbsPath(path)
	if err != nil {
		return errors.Wrapf(err, "failed to expand custom target path %s", path)
	}
	exists, err := util.FileExists(absPath)
	if err != nil {
		return errors.Wrapf(err, "failed to stat custom target %s", path)
	}
	if !exists {
		return errors.Errorf("custom target file not found: %s", path)
	}
	data, err := os.ReadFile(absPath) // #nosec G304
	if err != nil {
		return errors.Wrapf(err, "failed to read custom target %s", path)
	}
	if err := reg.RegisterCustom(data); err != nil {
		return errors.Wrapf(err, "failed to register custom target %s", path)
	}
	slog.Debug("registered custom target file", slog.String("path", absPath))
	return nil
}
