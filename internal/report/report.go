// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package report renders the contents of a target registry as text, JSON, or
an Excel workbook.
*/
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bryanloz-xilinx/Vitis-AI/internal/descriptor"
	"github.com/bryanloz-xilinx/Vitis-AI/internal/registry"
)

// Format identifies a report output format.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatXlsx Format = "xlsx"
)

// FormatFromName parses a format name.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXlsx, nil
	}
	return "", fmt.Errorf("unsupported report format: %s", name)
}

// TableValues holds one rendered table: field names across the top, one row
// of values per registered target.
type TableValues struct {
	Name   string
	Fields []string
	Rows   [][]string
}

var targetFields = []string{"Name", "Fingerprint", "Architecture", "Version", "Cores", "Clock", "Features", "Peak GOPS"}

func hexFingerprint(fp uint64) string {
	return fmt.Sprintf("0x%016x", fp)
}

// BuildTargetsTable flattens the registry into a table, one row per target
// in registration order.
func BuildTargetsTable(reg *registry.Registry) TableValues {
	// printer inserts thousands separators in large throughput numbers
	p := message.NewPrinter(language.English)
	tv := TableValues{
		Name:   "DPU Targets",
		Fields: targetFields,
	}
	for d := range reg.All() {
		peak := ""
		if v, ok := d.Parameters.Get("peak_gops"); ok {
			switch v.Kind {
			case descriptor.KindInt:
				peak = p.Sprintf("%d", v.Int)
			case descriptor.KindFloat:
				peak = p.Sprintf("%.1f", v.Flt)
			}
		}
		tv.Rows = append(tv.Rows, []string{
			d.Name,
			hexFingerprint(d.Fingerprint),
			d.Key.ArchFamily().String(),
			fmt.Sprintf("%d", d.Key.Version),
			fmt.Sprintf("%d", d.Key.Cores),
			d.Key.FreqClass().String(),
			strings.Join(d.Key.Features.Names(), ","),
			peak,
		})
	}
	return tv
}
