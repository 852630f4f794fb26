// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

// RenderXlsx writes the table as an Excel workbook with one sheet, a bold
// header row, and auto-sized columns.
func RenderXlsx(tv TableValues, w io.Writer) error {
	f := excelize.NewFile()
	const sheetName = "DPU Targets"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err != nil {
		return err
	}
	row := 1
	for col, field := range tv.Fields {
		cell := cellName(col+1, row)
		_ = f.SetCellValue(sheetName, cell, field)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for _, values := range tv.Rows {
		row++
		for col, val := range values {
			_ = f.SetCellValue(sheetName, cellName(col+1, row), val)
		}
	}
	for col, field := range tv.Fields {
		width := len(field)
		for _, values := range tv.Rows {
			if len(values[col]) > width {
				width = len(values[col])
			}
		}
		columnName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, columnName, columnName, float64(width+2)); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return f.Close()
}
