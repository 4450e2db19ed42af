package operations

import (
	"context"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/sheets"
)

// Writes overwrite starting at the top-left of the addressed target and never
// clear cells the payload does not cover.

// WriteCell writes one value
func (s *Sheets) WriteCell(sheet, cellRef, value string, done func(runner.Outcome[sheets.UpdateSummary])) *runner.Handle[sheets.UpdateSummary] {
	return submit(s, app.OpWriteCell, func(ctx context.Context) (sheets.UpdateSummary, error) {
		cell, err := a1.ParseCellReference(cellRef)
		if err != nil {
			return sheets.UpdateSummary{}, err
		}
		return s.updateValues(ctx, a1.BuildRange(sheet, cell.String()), sheets.RowValues([]string{value}))
	}, done)
}

// WriteRow writes values left to right starting at column A of row
func (s *Sheets) WriteRow(sheet string, row int, values []string, done func(runner.Outcome[sheets.UpdateSummary])) *runner.Handle[sheets.UpdateSummary] {
	return submit(s, app.OpWriteRow, func(ctx context.Context) (sheets.UpdateSummary, error) {
		anchor, err := a1.ToCellReference(row, 1)
		if err != nil {
			return sheets.UpdateSummary{}, err
		}
		if len(values) == 0 {
			return sheets.UpdateSummary{}, app.InvalidArgument("row values are empty")
		}
		return s.updateValues(ctx, a1.BuildRange(sheet, anchor), sheets.RowValues(values))
	}, done)
}

// WriteColumn writes values top to bottom starting at row 1 of column
func (s *Sheets) WriteColumn(sheet string, column int, values []string, done func(runner.Outcome[sheets.UpdateSummary])) *runner.Handle[sheets.UpdateSummary] {
	return submit(s, app.OpWriteColumn, func(ctx context.Context) (sheets.UpdateSummary, error) {
		anchor, err := a1.ToCellReference(1, column)
		if err != nil {
			return sheets.UpdateSummary{}, err
		}
		if len(values) == 0 {
			return sheets.UpdateSummary{}, app.InvalidArgument("column values are empty")
		}
		return s.updateValues(ctx, a1.BuildRange(sheet, anchor), sheets.ColumnValues(values))
	}, done)
}

// WriteRange writes a rectangle into rangeRef. Every row must have the same length.
func (s *Sheets) WriteRange(sheet, rangeRef string, rows app.Table, done func(runner.Outcome[sheets.UpdateSummary])) *runner.Handle[sheets.UpdateSummary] {
	return submit(s, app.OpWriteRange, func(ctx context.Context) (sheets.UpdateSummary, error) {
		start, end, err := a1.ParseRangeReference(rangeRef)
		if err != nil {
			return sheets.UpdateSummary{}, err
		}
		if len(rows) == 0 || rows.Width() == 0 {
			return sheets.UpdateSummary{}, app.InvalidArgument("range values are empty")
		}
		if !rows.IsRectangular() {
			return sheets.UpdateSummary{}, app.InvalidArgument("all rows must have the same length")
		}
		return s.updateValues(ctx, a1.BuildRange(sheet, start.String()+":"+end.String()), sheets.TableValues(rows))
	}, done)
}
