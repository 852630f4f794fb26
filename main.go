// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/bryanloz-xilinx/Vitis-AI/cmd"
)

func main() {
	// profile only if the environment variable is set
	if os.Getenv("DPUTARGET_PROFILE") != "" {
		cpuFile, err := os.Create("cpu.prof")
		if err != nil {
			panic(err)
		}
		defer cpuFile.Close()

		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
		defer fmt.Println("Profiling data written to cpu.prof")
	}
	cmd.Execute()
}
