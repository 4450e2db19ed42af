package app

// Table is the canonical shape of every read: ordered rows of text.
// Rows may be jagged; trailing blanks are dropped by the backend.
type Table [][]string

// Operation names, reported on failures and in logs
const (
	OpReadCell     = "ReadCell"
	OpWriteCell    = "WriteCell"
	OpReadRow      = "ReadRow"
	OpWriteRow     = "WriteRow"
	OpAddRow       = "AddRow"
	OpRemoveRow    = "RemoveRow"
	OpReadColumn   = "ReadColumn"
	OpWriteColumn  = "WriteColumn"
	OpAddColumn    = "AddColumn"
	OpRemoveColumn = "RemoveColumn"
	OpReadRange    = "ReadRange"
	OpWriteRange   = "WriteRange"
	OpReadSheet    = "ReadSheet"
)

// Width returns the length of the longest row
func (t Table) Width() int {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// IsRectangular reports whether every row has the same length
func (t Table) IsRectangular() bool {
	for _, row := range t {
		if len(row) != len(t[0]) {
			return false
		}
	}
	return true
}
