package sheets

import "sheets_bridge/internal/app"

// Helper functions converting between Google Sheets values and text.
// These are the only conversions between interface{} and the app.Table shape.

// ToTable converts a raw reply to rows of text
func ToTable(values [][]interface{}) app.Table {
	if len(values) == 0 {
		return nil
	}
	table := make(app.Table, len(values))
	for i, row := range values {
		table[i] = ToRow(row)
	}
	return table
}

// ToRow converts one raw row to text
func ToRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = NewCell(v).String()
	}
	return out
}

// IsEmptyReply reports whether a reply carries no non-blank cell
func IsEmptyReply(values [][]interface{}) bool {
	for _, row := range values {
		for _, v := range row {
			if !NewCell(v).IsEmpty() {
				return false
			}
		}
	}
	return true
}

// RowValues packages text as a single 1×N row
func RowValues(values []string) [][]interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return [][]interface{}{row}
}

// ColumnValues packages text as an N×1 column
func ColumnValues(values []string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, v := range values {
		out[i] = []interface{}{v}
	}
	return out
}

// TableValues packages a table of text for the API
func TableValues(table app.Table) [][]interface{} {
	out := make([][]interface{}, len(table))
	for i, row := range table {
		out[i] = RowValues(row)[0]
	}
	return out
}
