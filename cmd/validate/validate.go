// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package validate is a subcommand of the root command. It checks that
// descriptor files decode cleanly and would be accepted by the registry.
package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/common"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/util"
)

const cmdName = "validate"

var examples = []string{
	fmt.Sprintf("  Validate descriptor files:              $ %s %s mytarget.json other.yaml", common.AppName, cmdName),
	fmt.Sprintf("  Check for conflicts with built-ins:     $ %s %s --against-builtins mytarget.json", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <file>...",
	Short:         "Validate DPU target descriptor files",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
}

var flagAgainstBuiltins bool

const flagAgainstBuiltinsName = "against-builtins"

func init() {
	Cmd.Flags().BoolVar(&flagAgainstBuiltins, flagAgainstBuiltinsName, false, "also reject descriptors that conflict with the built-in set")
}

func runCmd(cmd *cobra.Command, args []string) error {
	reg := registry.New()
	if flagAgainstBuiltins {
		if err := reg.LoadBuiltins(); err != nil {
			return err
		}
	}
	failed := 0
	for _, path := range args {
		if err := validateFile(reg, path); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: FAIL: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: OK\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d descriptor file(s) failed validation", failed, len(args))
	}
	return nil
}

// validateFile decodes the file, confirms the descriptor re-encodes and
// re-decodes to the same fields, and registers it so later files are checked
// for conflicts against earlier ones.
func validateFile(reg *registry.Registry, path string) error {
	absPath, err := util.AbsPath(path)
	if err != nil {
		return errors.Wrap(err, "failed to expand path")
	}
	data, err := os.ReadFile(absPath) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "failed to read file")
	}
	d, err := descriptor.Decode(data)
	if err != nil {
		return err
	}
	encoded, err := descriptor.Encode(d)
	if err != nil {
		return err
	}
	redecoded, err := descriptor.Decode(encoded)
	if err != nil {
		return errors.Wrap(err, "re-encoded descriptor failed to decode")
	}
	if !descriptor.FieldEqual(d, redecoded) {
		return fmt.Errorf("descriptor did not survive an encode/decode round trip")
	}
	return reg.RegisterCustom(data)
}
