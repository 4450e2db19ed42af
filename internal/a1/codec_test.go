package a1

import (
	"errors"
	"math"
	"testing"

	"sheets_bridge/internal/app"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestToColumnLetters(t *testing.T) {
	testCases := []struct {
		column   int
		expected string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
		{16384, "XFD"},
		{18278, "ZZZ"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result, err := ToColumnLetters(tc.column)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result != tc.expected {
				t.Errorf("Expected %q for column %d, got %q", tc.expected, tc.column, result)
			}
		})
	}
}

func TestToColumnLettersRejectsNonPositive(t *testing.T) {
	for _, column := range []int{0, -1, -26} {
		_, err := ToColumnLetters(column)
		if !errors.Is(err, app.ErrInvalidArgument) {
			t.Errorf("Expected InvalidArgument for column %d, got %v", column, err)
		}
	}
}

func TestColumnNumber(t *testing.T) {
	testCases := []struct {
		letters  string
		expected int
	}{
		{"A", 1},
		{"z", 26},
		{"AA", 27},
		{"aZ", 52},
		{"ZZ", 702},
		{"AAA", 703},
	}

	for _, tc := range testCases {
		result, err := ColumnNumber(tc.letters)
		if err != nil {
			t.Fatalf("Expected no error for %q, got %v", tc.letters, err)
		}
		if result != tc.expected {
			t.Errorf("Expected %d for %q, got %d", tc.expected, tc.letters, result)
		}
	}

	for _, bad := range []string{"", "A1", "É", "CRPXNLSKVLJFHH", "AAAAAAAAAAAAAAA"} {
		if _, err := ColumnNumber(bad); !errors.Is(err, app.ErrInvalidArgument) {
			t.Errorf("Expected InvalidArgument for %q, got %v", bad, err)
		}
	}
}

func TestColumnNumberLargestColumn(t *testing.T) {
	letters, err := ToColumnLetters(math.MaxInt)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if letters != "CRPXNLSKVLJFHG" {
		t.Errorf("Expected CRPXNLSKVLJFHG, got %s", letters)
	}

	column, err := ColumnNumber(letters)
	if err != nil {
		t.Fatalf("Expected no error for %q, got %v", letters, err)
	}
	if column != math.MaxInt {
		t.Errorf("Expected %d, got %d", math.MaxInt, column)
	}

	cell, err := ParseCellReference(letters + "1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cell.Column != math.MaxInt || cell.Row != 1 {
		t.Errorf("Expected (1, %d), got (%d, %d)", math.MaxInt, cell.Row, cell.Column)
	}
}

func TestToCellReference(t *testing.T) {
	ref, err := ToCellReference(1, 2)
	if err != nil || ref != "B1" {
		t.Errorf("Expected B1, got %q (%v)", ref, err)
	}

	ref, err = ToCellReference(100, 28)
	if err != nil || ref != "AB100" {
		t.Errorf("Expected AB100, got %q (%v)", ref, err)
	}

	invalid := []struct{ row, column int }{{0, 1}, {1, 0}, {-3, 2}, {0, 0}}
	for _, tc := range invalid {
		if _, err := ToCellReference(tc.row, tc.column); !errors.Is(err, app.ErrInvalidArgument) {
			t.Errorf("Expected InvalidArgument for (%d, %d), got %v", tc.row, tc.column, err)
		}
	}
}

func TestToRangeReference(t *testing.T) {
	ref, err := ToRangeReference(1, 2, 3, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ref != "B1:D3" {
		t.Errorf("Expected B1:D3, got %q", ref)
	}

	// corners are not reordered
	ref, err = ToRangeReference(3, 4, 1, 2)
	if err != nil || ref != "D3:B1" {
		t.Errorf("Expected D3:B1, got %q (%v)", ref, err)
	}

	if _, err := ToRangeReference(1, 1, 0, 1); !errors.Is(err, app.ErrInvalidArgument) {
		t.Errorf("Expected InvalidArgument for zero row, got %v", err)
	}
}

func TestParseCellReference(t *testing.T) {
	cell, err := ParseCellReference("B1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cell != (Cell{Row: 1, Column: 2}) {
		t.Errorf("Expected {1 2}, got %+v", cell)
	}

	cell, err = ParseCellReference("aa10")
	if err != nil || cell != (Cell{Row: 10, Column: 27}) {
		t.Errorf("Expected {10 27}, got %+v (%v)", cell, err)
	}
}

func TestParseCellReferenceRejects(t *testing.T) {
	for _, text := range []string{"", "12", "AB", "A1:B2", "1A", "A0", " A1", "A-1", "Sheet1!A1"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseCellReference(text)
			if !errors.Is(err, app.ErrInvalidArgument) {
				t.Errorf("Expected InvalidArgument for %q, got %v", text, err)
			}
		})
	}
}

func TestParseRangeReference(t *testing.T) {
	start, end, err := ParseRangeReference("A1:C4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if start != (Cell{1, 1}) || end != (Cell{4, 3}) {
		t.Errorf("Unexpected corners %+v %+v", start, end)
	}

	for _, bad := range []string{"A1", "A1:B2:C3", "A:C", "1:3", ""} {
		if _, _, err := ParseRangeReference(bad); !errors.Is(err, app.ErrInvalidArgument) {
			t.Errorf("Expected InvalidArgument for %q, got %v", bad, err)
		}
	}
}

func TestRowAndColumnReference(t *testing.T) {
	if ref, _ := RowReference(3); ref != "3:3" {
		t.Errorf("Expected 3:3, got %q", ref)
	}
	if ref, _ := ColumnReference(3); ref != "C:C" {
		t.Errorf("Expected C:C, got %q", ref)
	}
	if _, err := RowReference(0); !errors.Is(err, app.ErrInvalidArgument) {
		t.Errorf("Expected InvalidArgument, got %v", err)
	}
	if _, err := ColumnReference(0); !errors.Is(err, app.ErrInvalidArgument) {
		t.Errorf("Expected InvalidArgument, got %v", err)
	}
}

// TestCodecProperties uses property-based testing to verify codec invariants
func TestCodecProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cell reference round trip", prop.ForAll(
		func(row, column int) bool {
			ref, err := ToCellReference(row, column)
			if err != nil {
				return false
			}
			cell, err := ParseCellReference(ref)
			return err == nil && cell.Row == row && cell.Column == column
		},
		gen.IntRange(1, 1000000),
		gen.IntRange(1, 1000000),
	))

	properties.Property("column letters are inverse of column number", prop.ForAll(
		func(column int) bool {
			letters, err := ToColumnLetters(column)
			if err != nil {
				return false
			}
			back, err := ColumnNumber(letters)
			return err == nil && back == column
		},
		gen.IntRange(1, 10000000),
	))

	properties.Property("column letters contain only A-Z", prop.ForAll(
		func(column int) bool {
			letters, _ := ToColumnLetters(column)
			for _, r := range letters {
				if r < 'A' || r > 'Z' {
					return false
				}
			}
			return len(letters) > 0
		},
		gen.IntRange(1, 10000000),
	))

	properties.Property("successive columns never share letters", prop.ForAll(
		func(column int) bool {
			a, _ := ToColumnLetters(column)
			b, _ := ToColumnLetters(column + 1)
			return a != b
		},
		gen.IntRange(1, 1000000),
	))

	properties.TestingRun(t)
}
