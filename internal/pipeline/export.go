package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"tcpagent/internal/tabular"
)

// ExportContractsXLSX writes every record into one workbook, one row per
// contract, columns unioned across records.
func ExportContractsXLSX(records []map[string]any, outputPath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no contracts to export")
	}

	table := tabular.ToColumnar(records)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "TCP Contracts")
	sheet = "TCP Contracts"

	for i, column := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, column)
	}

	for i, row := range table.Rows {
		r := i + 2
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			_ = f.SetCellValue(sheet, cell, cellValue(value))
		}
	}

	return saveWorkbook(f, outputPath)
}

// ExportContractXLSX writes a single record as a two-column Field/Value
// sheet, the layout used for reviewing one contract at a time.
func ExportContractXLSX(record map[string]any, outputPath string) error {
	pairs := tabular.ToTwoColumn(record)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "Contract Data")
	sheet = "Contract Data"

	_ = f.SetCellValue(sheet, "A1", "Field")
	_ = f.SetCellValue(sheet, "B1", "Value")

	for i, pair := range pairs {
		r := i + 2
		cellA, _ := excelize.CoordinatesToCellName(1, r)
		cellB, _ := excelize.CoordinatesToCellName(2, r)
		_ = f.SetCellValue(sheet, cellA, pair.Label)
		_ = f.SetCellValue(sheet, cellB, cellValue(pair.Value))
	}

	return saveWorkbook(f, outputPath)
}

func saveWorkbook(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// Absent fields render as blank cells.
func cellValue(v any) any {
	if v == nil {
		return ""
	}
	return v
}
