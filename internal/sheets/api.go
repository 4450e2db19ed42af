package sheets

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// Backend defines the remote spreadsheet operations the façade consumes.
// This separates transport concerns from the operation layer.
//
// Note on interface{} usage:
// The Google Sheets API (google.golang.org/api/sheets/v4) uses [][]interface{}
// for cell values. This is outside our control and required for API compatibility.
// - Use the Cell type wrapper to turn values into text
// - Keep interface{} constrained to this API boundary layer
type Backend interface {
	// GetValues reads values from a range.
	// An empty range yields a nil slice and no error.
	GetValues(ctx context.Context, spreadsheetID, rangeRef string) ([][]interface{}, error)

	// UpdateValues overwrites values starting at the range's top-left cell.
	// Cells the payload does not cover are left untouched.
	UpdateValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode InputMode) (*UpdateSummary, error)

	// AppendValues appends rows after the table found at rangeRef
	AppendValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode InputMode) (*AppendSummary, error)

	// BatchUpdate applies structural edits such as dimension deletes
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

// InputMode controls how written text is interpreted
type InputMode string

const (
	// InputUserEntered parses values as if typed into the UI
	InputUserEntered InputMode = "USER_ENTERED"
	// InputRaw stores values literally
	InputRaw InputMode = "RAW"
)

// Dimensions for structural edits
const (
	DimensionRows    = "ROWS"
	DimensionColumns = "COLUMNS"
)

// UpdateSummary reports what an UpdateValues call changed
type UpdateSummary struct {
	UpdatedRange   string `json:"updated_range"`
	UpdatedRows    int64  `json:"updated_rows"`
	UpdatedColumns int64  `json:"updated_columns"`
	UpdatedCells   int64  `json:"updated_cells"`
}

// AppendSummary reports where an AppendValues call landed
type AppendSummary struct {
	TableRange string         `json:"table_range,omitempty"`
	Updates    *UpdateSummary `json:"updates"`
}

// UpdatedRange returns the range the appended values were written to
func (s *AppendSummary) UpdatedRange() string {
	if s == nil || s.Updates == nil {
		return ""
	}
	return s.Updates.UpdatedRange
}

// DeleteDimensionRequest builds a structural edit removing [start, end) of a
// dimension. Indices are zero-based and half-open, as the backend expects.
func DeleteDimensionRequest(gridID int64, dimension string, start, end int64) *sheets.Request {
	return &sheets.Request{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    gridID,
				Dimension:  dimension,
				StartIndex: start,
				EndIndex:   end,
				// SheetId and StartIndex are 0 for the first sheet and first row
				ForceSendFields: []string{"SheetId", "StartIndex"},
			},
		},
	}
}
