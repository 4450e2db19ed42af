package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"sheets_bridge/internal/a1"

	"google.golang.org/api/sheets/v4"
)

var plainTitlePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Grid limits of a Google spreadsheet; writes past them are refused
const (
	MaxGridRows    = 10_000_000
	MaxGridColumns = 18278
)

// MemoryBackend is an in-process Backend that evaluates A1 ranges against
// grids held in memory. It mirrors the reply shapes of the Google API:
// trailing blank cells and rows are trimmed and an empty range reads as nil.
type MemoryBackend struct {
	mu      sync.Mutex
	sheets  []*memorySheet
	nextID  int64
	errors  map[string]error
	tracker *CallTracker
}

type memorySheet struct {
	title string
	id    int64
	cells [][]interface{}
}

// NewMemoryBackend creates a backend holding the named sheets. The first
// sheet is the default sheet and gets grid ID 0, like a new spreadsheet.
func NewMemoryBackend(titles ...string) *MemoryBackend {
	if len(titles) == 0 {
		titles = []string{"Sheet1"}
	}
	m := &MemoryBackend{
		errors:  make(map[string]error),
		tracker: NewCallTracker(),
	}
	for _, title := range titles {
		m.AddSheet(title)
	}
	return m
}

// AddSheet adds an empty sheet and returns its grid ID
func (m *MemoryBackend) AddSheet(title string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.sheets = append(m.sheets, &memorySheet{title: title, id: id})
	return id
}

// SheetID returns the grid ID of the named sheet
func (m *MemoryBackend) SheetID(title string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.sheetByTitle(title); s != nil {
		return s.id, true
	}
	return 0, false
}

// SetValues replaces the contents of a sheet, starting at A1
func (m *MemoryBackend) SetValues(title string, values [][]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sheetByTitle(title)
	if s == nil {
		return
	}
	s.cells = copyValues(values)
}

// Values returns a copy of a sheet's contents
func (m *MemoryBackend) Values(title string) [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sheetByTitle(title)
	if s == nil {
		return nil
	}
	return copyValues(s.cells)
}

// SetError makes every subsequent call to endpoint fail with err.
// A nil err clears the failure.
func (m *MemoryBackend) SetError(endpoint string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.errors, endpoint)
		return
	}
	m.errors[endpoint] = err
}

// Tracker returns the call tracker recording this backend's requests
func (m *MemoryBackend) Tracker() *CallTracker {
	return m.tracker
}

// GetValues implements Backend
func (m *MemoryBackend) GetValues(ctx context.Context, spreadsheetID, rangeRef string) ([][]interface{}, error) {
	m.tracker.RecordCall("GetValues")

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errors["GetValues"]; err != nil {
		return nil, err
	}

	s, g, err := m.resolve(rangeRef)
	if err != nil {
		return nil, err
	}

	lastRow := len(s.cells)
	if g.EndRow != 0 && g.EndRow < lastRow {
		lastRow = g.EndRow
	}

	var out [][]interface{}
	for r := g.FirstRow(); r <= lastRow; r++ {
		row := s.cells[r-1]
		lastCol := len(row)
		if g.EndColumn != 0 && g.EndColumn < lastCol {
			lastCol = g.EndColumn
		}
		var values []interface{}
		for c := g.FirstColumn(); c <= lastCol; c++ {
			values = append(values, row[c-1])
		}
		out = append(out, trimRow(values))
	}

	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// UpdateValues implements Backend
func (m *MemoryBackend) UpdateValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode InputMode) (*UpdateSummary, error) {
	m.tracker.RecordCall("UpdateValues")

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errors["UpdateValues"]; err != nil {
		return nil, err
	}

	s, g, err := m.resolve(rangeRef)
	if err != nil {
		return nil, err
	}

	startRow, startCol := g.FirstRow(), g.FirstColumn()
	rows, cols := len(values), width(values)
	if g.EndRow != 0 && startRow+rows-1 > g.EndRow {
		return nil, fmt.Errorf("requested writing within range [%s], but tried writing to row [%d]", rangeRef, startRow+rows-1)
	}
	if g.EndColumn != 0 && startCol+cols-1 > g.EndColumn {
		return nil, fmt.Errorf("requested writing within range [%s], but tried writing to column [%d]", rangeRef, startCol+cols-1)
	}

	if err := checkGrid(rangeRef, startRow, startCol, rows, cols); err != nil {
		return nil, err
	}

	cells := s.write(startRow, startCol, values)
	if rows == 0 || cols == 0 {
		return &UpdateSummary{}, nil
	}

	return &UpdateSummary{
		UpdatedRange:   formatRange(s.title, startRow, startCol, startRow+rows-1, startCol+cols-1),
		UpdatedRows:    int64(rows),
		UpdatedColumns: int64(cols),
		UpdatedCells:   cells,
	}, nil
}

// AppendValues implements Backend. Values land in the first row after the
// last non-blank row of the sheet, starting at the range's first column.
func (m *MemoryBackend) AppendValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode InputMode) (*AppendSummary, error) {
	m.tracker.RecordCall("AppendValues")

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errors["AppendValues"]; err != nil {
		return nil, err
	}

	s, g, err := m.resolve(rangeRef)
	if err != nil {
		return nil, err
	}

	lastUsed := s.lastUsedRow()
	startRow, startCol := lastUsed+1, g.FirstColumn()
	rows, cols := len(values), width(values)

	summary := &AppendSummary{}
	if lastUsed > 0 {
		summary.TableRange = formatRange(s.title, 1, 1, lastUsed, max(s.usedWidth(), 1))
	}

	if err := checkGrid(rangeRef, startRow, startCol, rows, cols); err != nil {
		return nil, err
	}

	cells := s.write(startRow, startCol, values)
	if rows == 0 || cols == 0 {
		summary.Updates = &UpdateSummary{}
		return summary, nil
	}

	summary.Updates = &UpdateSummary{
		UpdatedRange:   formatRange(s.title, startRow, startCol, startRow+rows-1, startCol+cols-1),
		UpdatedRows:    int64(rows),
		UpdatedColumns: int64(cols),
		UpdatedCells:   cells,
	}
	return summary, nil
}

// BatchUpdate implements Backend. Only dimension deletes are supported.
func (m *MemoryBackend) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	m.tracker.RecordCall("BatchUpdate")

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errors["BatchUpdate"]; err != nil {
		return err
	}

	for i, req := range requests {
		if req == nil || req.DeleteDimension == nil || req.DeleteDimension.Range == nil {
			return fmt.Errorf("request %d: only deleteDimension is supported", i)
		}
		dr := req.DeleteDimension.Range

		s := m.sheetByID(dr.SheetId)
		if s == nil {
			return fmt.Errorf("request %d: no grid with id: %d", i, dr.SheetId)
		}
		if dr.StartIndex < 0 || dr.EndIndex <= dr.StartIndex {
			return fmt.Errorf("request %d: invalid dimension range [%d, %d)", i, dr.StartIndex, dr.EndIndex)
		}

		switch dr.Dimension {
		case DimensionRows:
			s.cells = deleteSpan(s.cells, dr.StartIndex, dr.EndIndex)
		case DimensionColumns:
			for r := range s.cells {
				s.cells[r] = deleteSpan(s.cells[r], dr.StartIndex, dr.EndIndex)
			}
		default:
			return fmt.Errorf("request %d: unknown dimension %q", i, dr.Dimension)
		}
	}
	return nil
}

// resolve finds the sheet and grid range a qualified reference addresses.
// A bare reference that names a sheet addresses that whole sheet; any other
// bare reference applies to the default sheet.
func (m *MemoryBackend) resolve(rangeRef string) (*memorySheet, a1.GridRange, error) {
	title, ref := a1.SplitRange(rangeRef)
	if !strings.Contains(rangeRef, "!") {
		if s := m.sheetByTitle(rangeRef); s != nil {
			return s, a1.GridRange{}, nil
		}
		if len(m.sheets) == 0 {
			return nil, a1.GridRange{}, fmt.Errorf("unable to parse range: %s", rangeRef)
		}
		title = m.sheets[0].title
	}

	s := m.sheetByTitle(title)
	if s == nil {
		return nil, a1.GridRange{}, fmt.Errorf("unable to parse range: %s", rangeRef)
	}

	g, err := a1.ParseGridRange(ref)
	if err != nil {
		return nil, a1.GridRange{}, fmt.Errorf("unable to parse range: %s", rangeRef)
	}
	return s, g, nil
}

func (m *MemoryBackend) sheetByTitle(title string) *memorySheet {
	for _, s := range m.sheets {
		if s.title == title {
			return s
		}
	}
	return nil
}

func (m *MemoryBackend) sheetByID(id int64) *memorySheet {
	for _, s := range m.sheets {
		if s.id == id {
			return s
		}
	}
	return nil
}

// checkGrid refuses a block of rows x cols at (row, col) that would extend past the grid limits
func checkGrid(rangeRef string, row, col, rows, cols int) error {
	if row > MaxGridRows || rows > MaxGridRows-row+1 || col > MaxGridColumns || cols > MaxGridColumns-col+1 {
		return fmt.Errorf("range (%s) exceeds grid limits. Max rows: %d, max columns: %d", rangeRef, MaxGridRows, MaxGridColumns)
	}
	return nil
}

// write stores values with their top-left at (row, col) and returns the number of cells written
func (s *memorySheet) write(row, col int, values [][]interface{}) int64 {
	var written int64
	for i, rowValues := range values {
		r := row + i
		for len(s.cells) < r {
			s.cells = append(s.cells, nil)
		}
		for j, v := range rowValues {
			c := col + j
			for len(s.cells[r-1]) < c {
				s.cells[r-1] = append(s.cells[r-1], nil)
			}
			s.cells[r-1][c-1] = v
			written++
		}
	}
	return written
}

func (s *memorySheet) lastUsedRow() int {
	for r := len(s.cells); r > 0; r-- {
		if len(trimRow(s.cells[r-1])) > 0 {
			return r
		}
	}
	return 0
}

func (s *memorySheet) usedWidth() int {
	w := 0
	for _, row := range s.cells {
		if n := len(trimRow(row)); n > w {
			w = n
		}
	}
	return w
}

// formatRange renders a qualified range, quoting titles that need it
func formatRange(title string, row1, col1, row2, col2 int) string {
	ref, _ := a1.ToRangeReference(row1, col1, row2, col2)
	if row1 == row2 && col1 == col2 {
		ref, _ = a1.ToCellReference(row1, col1)
	}
	if !plainTitlePattern.MatchString(title) {
		title = "'" + strings.ReplaceAll(title, "'", "''") + "'"
	}
	return title + "!" + ref
}

func trimRow(row []interface{}) []interface{} {
	end := len(row)
	for end > 0 && NewCell(row[end-1]).IsEmpty() {
		end--
	}
	if end == 0 {
		return []interface{}{}
	}
	return row[:end]
}

func width(values [][]interface{}) int {
	w := 0
	for _, row := range values {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func deleteSpan[T any](s []T, start, end int64) []T {
	if start >= int64(len(s)) {
		return s
	}
	if end > int64(len(s)) {
		end = int64(len(s))
	}
	return append(s[:start:start], s[end:]...)
}

func copyValues(values [][]interface{}) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		out[i] = append([]interface{}(nil), row...)
	}
	return out
}
