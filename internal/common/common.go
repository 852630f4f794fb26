// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package common defines data structures and functions that are used by
// multiple application commands, e.g., list, resolve, validate, serve.
package common

// AppName is the name of the command line application.
const AppName = "dputarget"

// AppContext represents the application context that can be accessed from
// all commands.
type AppContext struct {
	Version string // Version is the version of the application.
	Debug   bool   // Debug reports whether debug logging was requested.
}
