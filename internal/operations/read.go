package operations

import (
	"context"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/sheets"
)

// ReadCell reads one cell as text
func (s *Sheets) ReadCell(sheet, cellRef string, done func(runner.Outcome[string])) *runner.Handle[string] {
	return submit(s, app.OpReadCell, func(ctx context.Context) (string, error) {
		cell, err := a1.ParseCellReference(cellRef)
		if err != nil {
			return "", err
		}

		rangeRef := a1.BuildRange(sheet, cell.String())
		values, err := s.getValues(ctx, rangeRef)
		if err != nil {
			return "", err
		}
		if len(values[0]) == 0 {
			return "", noData(rangeRef)
		}
		return sheets.NewCell(values[0][0]).String(), nil
	}, done)
}

// ReadRow reads a whole row. Trailing blank cells are not included.
func (s *Sheets) ReadRow(sheet string, row int, done func(runner.Outcome[[]string])) *runner.Handle[[]string] {
	return submit(s, app.OpReadRow, func(ctx context.Context) ([]string, error) {
		ref, err := a1.RowReference(row)
		if err != nil {
			return nil, err
		}

		values, err := s.getValues(ctx, a1.BuildRange(sheet, ref))
		if err != nil {
			return nil, err
		}
		return sheets.ToRow(values[0]), nil
	}, done)
}

// ReadColumn reads a whole column down to its last non-blank cell.
// Blank cells above that point read as "".
func (s *Sheets) ReadColumn(sheet string, column int, done func(runner.Outcome[[]string])) *runner.Handle[[]string] {
	return submit(s, app.OpReadColumn, func(ctx context.Context) ([]string, error) {
		ref, err := a1.ColumnReference(column)
		if err != nil {
			return nil, err
		}

		values, err := s.getValues(ctx, a1.BuildRange(sheet, ref))
		if err != nil {
			return nil, err
		}

		out := make([]string, len(values))
		for i, row := range values {
			if len(row) > 0 {
				out[i] = sheets.NewCell(row[0]).String()
			}
		}
		return out, nil
	}, done)
}

// ReadRange reads a rectangle given as "A1:C4"
func (s *Sheets) ReadRange(sheet, rangeRef string, done func(runner.Outcome[app.Table])) *runner.Handle[app.Table] {
	return submit(s, app.OpReadRange, func(ctx context.Context) (app.Table, error) {
		start, end, err := a1.ParseRangeReference(rangeRef)
		if err != nil {
			return nil, err
		}

		values, err := s.getValues(ctx, a1.BuildRange(sheet, start.String()+":"+end.String()))
		if err != nil {
			return nil, err
		}
		return sheets.ToTable(values), nil
	}, done)
}

// ReadSheet reads every populated cell of a sheet
func (s *Sheets) ReadSheet(sheet string, done func(runner.Outcome[app.Table])) *runner.Handle[app.Table] {
	return submit(s, app.OpReadSheet, func(ctx context.Context) (app.Table, error) {
		if sheet == "" {
			return nil, app.InvalidArgument("sheet name is required")
		}

		values, err := s.getValues(ctx, a1.SheetRange(sheet))
		if err != nil {
			return nil, err
		}
		return sheets.ToTable(values), nil
	}, done)
}
