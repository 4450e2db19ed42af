package operations

import (
	"context"
	"strings"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/sheets"

	"github.com/rs/zerolog/log"
	gsheets "google.golang.org/api/sheets/v4"
)

// AddRow appends values after the last populated row and returns the
// 1-indexed row the backend wrote to
func (s *Sheets) AddRow(sheet string, values []string, done func(runner.Outcome[int])) *runner.Handle[int] {
	return submit(s, app.OpAddRow, func(ctx context.Context) (int, error) {
		if len(values) == 0 {
			return 0, app.InvalidArgument("row values are empty")
		}

		sess, err := s.session(ctx)
		if err != nil {
			return 0, err
		}

		summary, err := sess.Backend.AppendValues(ctx, sess.SpreadsheetID, a1.BuildRange(sheet, "A1"), sheets.RowValues(values), s.mode)
		if err != nil {
			return 0, remote(err)
		}

		row, err := appendedRow(summary.UpdatedRange())
		if err != nil {
			return 0, err
		}

		log.Debug().
			Str("sheet", sheet).
			Int("row", row).
			Msg("Appended row")

		return row, nil
	}, done)
}

// appendedRow extracts the first row of an updated range like "'My Sheet'!A7:C7"
func appendedRow(updatedRange string) (int, error) {
	_, ref := a1.SplitRange(updatedRange)
	corner, _, _ := strings.Cut(ref, ":")
	cell, err := a1.ParseCellReference(corner)
	if err != nil {
		return 0, app.NewError(app.KindRemoteFailure, "unexpected updated range %q", updatedRange)
	}
	return cell.Row, nil
}

// AddColumn writes values into the first column right of the header row and
// returns that column's 1-indexed number.
//
// The header read and the write are two calls. Another writer landing in
// between can make both end up in the same column.
func (s *Sheets) AddColumn(sheet string, values []string, done func(runner.Outcome[int])) *runner.Handle[int] {
	return submit(s, app.OpAddColumn, func(ctx context.Context) (int, error) {
		if len(values) == 0 {
			return 0, app.InvalidArgument("column values are empty")
		}

		header, err := a1.RowReference(1)
		if err != nil {
			return 0, err
		}

		width := 0
		existing, err := s.getValues(ctx, a1.BuildRange(sheet, header))
		switch {
		case err == nil:
			width = len(existing[0])
		case app.KindOf(err) != app.KindNoData:
			return 0, err
		}

		column := width + 1
		anchor, err := a1.ToCellReference(1, column)
		if err != nil {
			return 0, err
		}

		if _, err := s.updateValues(ctx, a1.BuildRange(sheet, anchor), sheets.ColumnValues(values)); err != nil {
			return 0, err
		}
		return column, nil
	}, done)
}

// RemoveRow deletes a row of the grid and shifts the rows below it up
func (s *Sheets) RemoveRow(gridID int64, row int, done func(runner.Outcome[struct{}])) *runner.Handle[struct{}] {
	return submit(s, app.OpRemoveRow, func(ctx context.Context) (struct{}, error) {
		if row < 1 {
			return struct{}{}, app.InvalidArgument("row must be >= 1, got %d", row)
		}
		return struct{}{}, s.deleteDimension(ctx, gridID, sheets.DimensionRows, row)
	}, done)
}

// RemoveColumn deletes a column of the grid and shifts the columns to its right left
func (s *Sheets) RemoveColumn(gridID int64, column int, done func(runner.Outcome[struct{}])) *runner.Handle[struct{}] {
	return submit(s, app.OpRemoveColumn, func(ctx context.Context) (struct{}, error) {
		if column < 1 {
			return struct{}{}, app.InvalidArgument("column must be >= 1, got %d", column)
		}
		return struct{}{}, s.deleteDimension(ctx, gridID, sheets.DimensionColumns, column)
	}, done)
}

// deleteDimension converts a 1-indexed position to the backend's zero-based
// half-open [index-1, index) span
func (s *Sheets) deleteDimension(ctx context.Context, gridID int64, dimension string, index int) error {
	if gridID < 0 {
		return app.InvalidArgument("grid id must be >= 0, got %d", gridID)
	}

	sess, err := s.session(ctx)
	if err != nil {
		return err
	}

	request := sheets.DeleteDimensionRequest(gridID, dimension, int64(index-1), int64(index))
	if err := sess.Backend.BatchUpdate(ctx, sess.SpreadsheetID, []*gsheets.Request{request}); err != nil {
		return remote(err)
	}
	return nil
}
