// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package list is a subcommand of the root command. It prints the registered
// DPU targets.
package list

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/common"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/report"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/util"
)

const cmdName = "list"

var examples = []string{
	fmt.Sprintf("  List built-in targets:              $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Include custom targets:             $ %s %s --custom mytarget.json", common.AppName, cmdName),
	fmt.Sprintf("  Write an Excel workbook:            $ %s %s --format xlsx --output targets.xlsx", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "List the registered DPU targets",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagCustom []string
	flagFormat string
	flagOutput string
)

const (
	flagCustomName = "custom"
	flagFormatName = "format"
	flagOutputName = "output"
)

func init() {
	Cmd.Flags().StringSliceVar(&flagCustom, flagCustomName, nil, "custom target descriptor file(s) to register")
	Cmd.Flags().StringVar(&flagFormat, flagFormatName, "txt", "report format: txt, json, or xlsx")
	Cmd.Flags().StringVar(&flagOutput, flagOutputName, "", "write the report to a file instead of stdout")
}

func validateFlags(cmd *cobra.Command, args []string) error {
	format, err := report.FormatFromName(flagFormat)
	if err != nil {
		return err
	}
	if format == report.FormatXlsx && flagOutput == "" {
		return fmt.Errorf("--%s is required with the xlsx format", flagOutputName)
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	reg, err := common.LoadRegistry(flagCustom)
	if err != nil {
		slog.Error("failed to load registry", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	format, _ := report.FormatFromName(flagFormat)
	var out []byte
	switch format {
	case report.FormatText:
		out = []byte(report.RenderText(report.BuildTargetsTable(reg)))
	case report.FormatJSON:
		out, err = report.RenderJSON(reg)
	case report.FormatXlsx:
		return writeXlsx(reg)
	}
	if err != nil {
		slog.Error("failed to render report", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return writeOut(out)
}

func writeOut(out []byte) error {
	if flagOutput == "" {
		fmt.Print(string(out))
		return nil
	}
	path, err := util.AbsPath(flagOutput)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644) // #nosec G306
}

func writeXlsx(reg *registry.Registry) error {
	path, err := util.AbsPath(flagOutput)
	if err != nil {
		return err
	}
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return err
	}
	defer f.Close()
	return report.RenderXlsx(report.BuildTargetsTable(reg), f)
}
