// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cmd provides the command line interface for the application.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bryanloz-xilinx/Vitis-AI/cmd/list"
	"github.com/bryanloz-xilinx/Vitis-AI/cmd/resolve"
	"github.com/bryanloz-xilinx/Vitis-AI/cmd/serve"
	"github.com/bryanloz-xilinx/Vitis-AI/cmd/validate"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/common"
)

var gLogFile *os.File
var gVersion = "9.9.9" // overwritten by ldflags in Makefile

// LongAppName is the name of the application
const LongAppName = "DPU Target Registry"

var examples = []string{
	fmt.Sprintf("  List the built-in DPU targets:               $ %s list", common.AppName),
	fmt.Sprintf("  Resolve a hardware fingerprint:              $ %s resolve 0x010104040004e3ff", common.AppName),
	fmt.Sprintf("  Resolve with custom targets registered:      $ %s resolve 0x0101040a0004e3ff --custom mytarget.json", common.AppName),
	fmt.Sprintf("  Validate a custom descriptor file:           $ %s validate mytarget.yaml", common.AppName),
	fmt.Sprintf("  Serve resolution over HTTP:                  $ %s serve --listen :8080", common.AppName),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               common.AppName,
	Short:             common.AppName,
	Long:              fmt.Sprintf(`%s (%s) maps DPU hardware fingerprints and target names to the capability descriptors the Vitis AI compiler and runtime consume.`, LongAppName, common.AppName),
	Example:           strings.Join(examples, "\n"),
	PersistentPreRunE: initializeApplication,
	Version:           gVersion,
}

var (
	flagDebug     bool
	flagLogStdOut bool
)

const (
	flagDebugName     = "debug"
	flagLogStdOutName = "log-stdout"
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{}) // block the help command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup([]*cobra.Group{{ID: "primary", Title: "Commands:"}}...)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	// Global (persistent) flags
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, flagLogStdOutName, false, "write logs to stdout")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	err := rootCmd.Execute()
	if gLogFile != nil {
		gLogFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	// configure logging
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
		logOpts.AddSource = false
	}
	if flagLogStdOut {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &logOpts)))
	} else {
		var err error
		gLogFile, err = os.OpenFile(common.AppName+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
		if err != nil {
			fmt.Printf("Error: failed to open log file: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(gLogFile, &logOpts)))
	}
	slog.Info("Starting up", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
	cmd.Flags().VisitAll(func(pf *pflag.Flag) {
		if pf.Changed {
			slog.Debug("Flag", slog.String("name", pf.Name), slog.String("value", pf.Value.String()))
		}
	})
	// set app context
	cmd.Root().SetContext(
		context.WithValue(
			context.Background(),
			common.AppContext{},
			common.AppContext{
				Version: gVersion,
				Debug:   flagDebug,
			},
		),
	)
	return nil
}
