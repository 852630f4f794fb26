// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package resolve is a subcommand of the root command. It resolves a
// fingerprint or target name to its descriptor.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/common"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/fingerprint"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
)

const cmdName = "resolve"

var examples = []string{
	fmt.Sprintf("  Resolve a fingerprint:       $ %s %s 0x010104040004e3ff", common.AppName, cmdName),
	fmt.Sprintf("  Resolve a target name:       $ %s %s DPUCZDX8G-B4096", common.AppName, cmdName),
	fmt.Sprintf("  Include custom targets:      $ %s %s 0x0101040a0004e3ff --custom mytarget.json", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " <fingerprint|name>",
	Short:         "Resolve a fingerprint or name to a DPU target descriptor",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
}

var flagCustom []string

const flagCustomName = "custom"

func init() {
	Cmd.Flags().StringSliceVar(&flagCustom, flagCustomName, nil, "custom target descriptor file(s) to register")
}

func runCmd(cmd *cobra.Command, args []string) error {
	reg, err := common.LoadRegistry(flagCustom)
	if err != nil {
		slog.Error("failed to load registry", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	d, err := lookup(reg, args[0])
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No matching DPU target: %s\n", args[0])
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	printDescriptor(d)
	return nil
}

// lookup treats the argument as a fingerprint when it parses as one, and as
// a target name otherwise.
func lookup(reg *registry.Registry, arg string) (descriptor.TargetDescriptor, error) {
	if raw, err := fingerprint.Parse(arg); err == nil {
		return reg.Resolve(raw)
	}
	return reg.ResolveByName(arg)
}

func printDescriptor(d descriptor.TargetDescriptor) {
	fmt.Printf("Name:         %s\n", d.Name)
	fmt.Printf("Fingerprint:  0x%016x\n", d.Fingerprint)
	fmt.Printf("Architecture: %s v%d\n", d.Key.ArchFamily(), d.Key.Version)
	fmt.Printf("Cores:        %d\n", d.Key.Cores)
	fmt.Printf("Clock:        %s\n", d.Key.FreqClass())
	fmt.Printf("Features:     %s\n", strings.Join(d.Key.Features.Names(), ", "))
	if len(d.Parameters) > 0 {
		fmt.Println("Parameters:")
		printParameters(d.Parameters, "  ")
	}
}

func printParameters(params descriptor.Parameters, indent string) {
	for _, p := range params {
		switch p.Value.Kind {
		case descriptor.KindInt:
			fmt.Printf("%s%s: %d\n", indent, p.Name, p.Value.Int)
		case descriptor.KindFloat:
			fmt.Printf("%s%s: %g\n", indent, p.Name, p.Value.Flt)
		case descriptor.KindString:
			fmt.Printf("%s%s: %s\n", indent, p.Name, p.Value.Str)
		case descriptor.KindBool:
			fmt.Printf("%s%s: %t\n", indent, p.Name, p.Value.Bool)
		case descriptor.KindList:
			fmt.Printf("%s%s: %s\n", indent, p.Name, formatList(p.Value.List))
		case descriptor.KindObject:
			fmt.Printf("%s%s:\n", indent, p.Name)
			printParameters(p.Value.Sub, indent+"  ")
		}
	}
}

func formatList(list []descriptor.Value) string {
	parts := make([]string, 0, len(list))
	for _, v := range list {
		switch v.Kind {
		case descriptor.KindInt:
			parts = append(parts, fmt.Sprintf("%d", v.Int))
		case descriptor.KindFloat:
			parts = append(parts, fmt.Sprintf("%g", v.Flt))
		case descriptor.KindString:
			parts = append(parts, v.Str)
		case descriptor.KindBool:
			parts = append(parts, fmt.Sprintf("%t", v.Bool))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
