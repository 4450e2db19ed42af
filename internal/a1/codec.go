// Package a1 converts between numeric (row, column) coordinates and
// spreadsheet A1 references, and qualifies references with sheet names.
//
// Columns use bijective base-26: there is no zero digit, so 1 is "A",
// 26 is "Z" and 27 is "AA". Rows and columns are 1-indexed throughout.
package a1

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"sheets_bridge/internal/app"
)

var cellReferencePattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// Cell is a 1-indexed (row, column) coordinate
type Cell struct {
	Row    int
	Column int
}

// ToColumnLetters converts a positive column number to its letter form
func ToColumnLetters(column int) (string, error) {
	if column < 1 {
		return "", app.InvalidArgument("column must be >= 1, got %d", column)
	}

	var letters []byte
	for column > 0 {
		letters = append(letters, byte('A'+(column-1)%26))
		column = (column - 1) / 26
	}

	// letters were produced least-significant first
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters), nil
}

// ColumnNumber converts column letters (case-insensitive) back to a column number
func ColumnNumber(letters string) (int, error) {
	if letters == "" {
		return 0, app.InvalidArgument("column letters must not be empty")
	}
	column := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, app.InvalidArgument("invalid column letters %q", letters)
		}
		digit := int(r-'A') + 1
		if column > (math.MaxInt-digit)/26 {
			return 0, app.InvalidArgument("column %q is out of range", letters)
		}
		column = column*26 + digit
	}
	return column, nil
}

// ToCellReference converts a coordinate to a reference such as "B1"
func ToCellReference(row, column int) (string, error) {
	if row < 1 {
		return "", app.InvalidArgument("row must be >= 1, got %d", row)
	}
	letters, err := ToColumnLetters(column)
	if err != nil {
		return "", err
	}
	return letters + strconv.Itoa(row), nil
}

// ToRangeReference joins two corner references with ":".
// Corners are not reordered; the backend normalizes inverted ranges.
func ToRangeReference(row1, col1, row2, col2 int) (string, error) {
	start, err := ToCellReference(row1, col1)
	if err != nil {
		return "", err
	}
	end, err := ToCellReference(row2, col2)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}

// ParseCellReference parses a single-cell reference such as "b12".
// Ranges, bare letters, bare digits and row 0 are rejected.
func ParseCellReference(text string) (Cell, error) {
	m := cellReferencePattern.FindStringSubmatch(text)
	if m == nil {
		return Cell{}, app.InvalidArgument("%q is not a single cell reference", text)
	}

	column, err := ColumnNumber(m[1])
	if err != nil {
		return Cell{}, err
	}

	row, err := strconv.Atoi(m[2])
	if err != nil {
		return Cell{}, app.InvalidArgument("row in %q is out of range", text)
	}
	if row < 1 {
		return Cell{}, app.InvalidArgument("row must be >= 1 in %q", text)
	}

	return Cell{Row: row, Column: column}, nil
}

// ParseRangeReference parses a two-corner reference such as "A1:C4"
func ParseRangeReference(text string) (start, end Cell, err error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return Cell{}, Cell{}, app.InvalidArgument("%q is not a range reference", text)
	}
	if start, err = ParseCellReference(parts[0]); err != nil {
		return Cell{}, Cell{}, err
	}
	if end, err = ParseCellReference(parts[1]); err != nil {
		return Cell{}, Cell{}, err
	}
	return start, end, nil
}

// RowReference addresses a whole row, e.g. "3:3"
func RowReference(row int) (string, error) {
	if row < 1 {
		return "", app.InvalidArgument("row must be >= 1, got %d", row)
	}
	n := strconv.Itoa(row)
	return n + ":" + n, nil
}

// ColumnReference addresses a whole column, e.g. "C:C"
func ColumnReference(column int) (string, error) {
	letters, err := ToColumnLetters(column)
	if err != nil {
		return "", err
	}
	return letters + ":" + letters, nil
}

// String returns the A1 form of the cell. The cell must be valid.
func (c Cell) String() string {
	ref, err := ToCellReference(c.Row, c.Column)
	if err != nil {
		return ""
	}
	return ref
}
