// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const noTargets = "No targets registered."

// RenderText renders the table as fixed-width columns. When stdout is a
// terminal, the feature column is truncated so rows fit the terminal width.
func RenderText(tv TableValues) string {
	var sb strings.Builder
	sb.WriteString(tv.Name + "\n")
	sb.WriteString(strings.Repeat("=", len(tv.Name)) + "\n")
	if len(tv.Rows) == 0 {
		sb.WriteString(noTargets + "\n")
		return sb.String()
	}
	rows := tv.Rows
	if width, ok := terminalWidth(); ok {
		rows = truncateRows(tv, width)
	}
	// column width is the longest of the field name and its values; the last
	// column takes whatever remains
	const columnSpacing = 3
	maxLen := make([]int, len(tv.Fields))
	for i, field := range tv.Fields {
		if i == len(tv.Fields)-1 {
			continue
		}
		maxLen[i] = len(field)
		for _, row := range rows {
			if len(row[i]) > maxLen[i] {
				maxLen[i] = len(row[i])
			}
		}
	}
	for i, field := range tv.Fields {
		sb.WriteString(fmt.Sprintf("%-*s", maxLen[i]+columnSpacing, field))
	}
	sb.WriteString("\n")
	for i, field := range tv.Fields {
		sb.WriteString(fmt.Sprintf("%-*s", maxLen[i]+columnSpacing, strings.Repeat("-", len(field))))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i, val := range row {
			sb.WriteString(fmt.Sprintf("%-*s", maxLen[i]+columnSpacing, val))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func terminalWidth() (int, bool) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

// truncateRows shortens the features column so rows stay within width.
func truncateRows(tv TableValues, width int) [][]string {
	fixed := 0
	featureCol := -1
	for i, field := range tv.Fields {
		if field == "Features" {
			featureCol = i
			continue
		}
		colMax := len(field)
		for _, row := range tv.Rows {
			if len(row[i]) > colMax {
				colMax = len(row[i])
			}
		}
		fixed += colMax + 3
	}
	if featureCol < 0 {
		return tv.Rows
	}
	budget := width - fixed - 3
	if budget < 8 {
		budget = 8
	}
	rows := make([][]string, len(tv.Rows))
	for i, row := range tv.Rows {
		out := make([]string, len(row))
		copy(out, row)
		if len(out[featureCol]) > budget {
			out[featureCol] = out[featureCol][:budget-3] + "..."
		}
		rows[i] = out
	}
	return rows
}
