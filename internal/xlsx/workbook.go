// Package xlsx moves tables between local workbooks and the spreadsheet
package xlsx

import (
	"fmt"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"

	"github.com/xuri/excelize/v2"
)

// Export writes table to sheet of a new workbook at path
func Export(path, sheet string, table app.Table) error {
	if sheet == "" {
		return app.InvalidArgument("sheet name is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if sheet != defaultSheet {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		f.SetActiveSheet(idx)
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Import reads every row of sheet from the workbook at path.
// An empty sheet name selects the first sheet.
func Import(path, sheet string) (app.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, app.NewError(app.KindNoData, "sheet %s is empty", sheet)
	}
	return app.Table(rows), nil
}

// Rectangle pads rows to a common width and returns the A1 range the table
// covers when anchored at A1. Uploads must be rectangular.
func Rectangle(table app.Table) (app.Table, string, error) {
	width := table.Width()
	if len(table) == 0 || width == 0 {
		return nil, "", app.InvalidArgument("table is empty")
	}

	out := make(app.Table, len(table))
	for i, row := range table {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}

	ref, err := a1.ToRangeReference(1, 1, len(table), width)
	if err != nil {
		return nil, "", err
	}
	return out, ref, nil
}
