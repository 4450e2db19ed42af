package a1

import (
	"regexp"
	"strconv"
	"strings"

	"sheets_bridge/internal/app"
)

var cornerPattern = regexp.MustCompile(`^([A-Za-z]*)([0-9]*)$`)

// BuildRange qualifies ref with sheetName. An empty sheetName leaves ref
// untouched so the backend's default sheet applies.
//
// Sheet names are not quoted or escaped: names containing '!', spaces or
// quotes are passed through as given.
func BuildRange(sheetName, ref string) string {
	if sheetName == "" {
		return ref
	}
	return sheetName + "!" + ref
}

// SheetRange addresses every cell of a sheet
func SheetRange(sheetName string) string {
	return sheetName
}

// SplitRange separates a qualified range into sheet name and reference.
// The split is at the last '!', and single quotes around the sheet name are
// stripped because the backend reports titles quoted when they need it.
// A range without '!' is returned as a bare reference.
func SplitRange(rangeRef string) (sheetName, ref string) {
	i := strings.LastIndex(rangeRef, "!")
	if i < 0 {
		return "", rangeRef
	}
	sheetName = rangeRef[:i]
	if len(sheetName) >= 2 && strings.HasPrefix(sheetName, "'") && strings.HasSuffix(sheetName, "'") {
		sheetName = strings.ReplaceAll(sheetName[1:len(sheetName)-1], "''", "'")
	}
	return sheetName, rangeRef[i+1:]
}

// GridRange is a parsed reference with 1-indexed inclusive bounds.
// A zero start means the first row or column, and a zero end means unbounded.
type GridRange struct {
	StartRow    int
	StartColumn int
	EndRow      int
	EndColumn   int
}

// ParseGridRange parses the reference part of a range: "B2", "A1:C4",
// "3:3", "C:C", "A3:C" or "" for the whole sheet.
func ParseGridRange(ref string) (GridRange, error) {
	if ref == "" {
		return GridRange{}, nil
	}

	parts := strings.Split(ref, ":")
	if len(parts) == 1 {
		cell, err := ParseCellReference(ref)
		if err != nil {
			return GridRange{}, err
		}
		return GridRange{StartRow: cell.Row, StartColumn: cell.Column, EndRow: cell.Row, EndColumn: cell.Column}, nil
	}
	if len(parts) != 2 {
		return GridRange{}, app.InvalidArgument("%q is not a range reference", ref)
	}

	startCol, startRow, err := parseCorner(parts[0])
	if err != nil {
		return GridRange{}, err
	}
	endCol, endRow, err := parseCorner(parts[1])
	if err != nil {
		return GridRange{}, err
	}

	g := GridRange{StartRow: startRow, StartColumn: startCol, EndRow: endRow, EndColumn: endCol}
	if g.EndRow != 0 && g.StartRow > g.EndRow {
		g.StartRow, g.EndRow = g.EndRow, g.StartRow
	}
	if g.EndColumn != 0 && g.StartColumn > g.EndColumn {
		g.StartColumn, g.EndColumn = g.EndColumn, g.StartColumn
	}
	return g, nil
}

func parseCorner(text string) (column, row int, err error) {
	m := cornerPattern.FindStringSubmatch(text)
	if text == "" || m == nil {
		return 0, 0, app.InvalidArgument("invalid range corner %q", text)
	}
	if m[1] != "" {
		if column, err = ColumnNumber(m[1]); err != nil {
			return 0, 0, err
		}
	}
	if m[2] != "" {
		row, err = strconv.Atoi(m[2])
		if err != nil || row < 1 {
			return 0, 0, app.InvalidArgument("invalid row in range corner %q", text)
		}
	}
	return column, row, nil
}

// FirstRow returns the first row covered by the range
func (g GridRange) FirstRow() int {
	if g.StartRow == 0 {
		return 1
	}
	return g.StartRow
}

// FirstColumn returns the first column covered by the range
func (g GridRange) FirstColumn() int {
	if g.StartColumn == 0 {
		return 1
	}
	return g.StartColumn
}

// Contains reports whether the 1-indexed cell lies inside the range
func (g GridRange) Contains(row, column int) bool {
	if row < g.FirstRow() || column < g.FirstColumn() {
		return false
	}
	if g.EndRow != 0 && row > g.EndRow {
		return false
	}
	if g.EndColumn != 0 && column > g.EndColumn {
		return false
	}
	return true
}
