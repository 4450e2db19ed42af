package mocks

import (
	"context"
	"sync"

	"sheets_bridge/internal/sheets"

	gsheets "google.golang.org/api/sheets/v4"
)

// MockBackend is a test double for sheets.Backend
type MockBackend struct {
	mu sync.Mutex

	// Responses to return
	GetValuesResponse    [][]interface{}
	GetValuesByRange     map[string][][]interface{}
	UpdateValuesResponse *sheets.UpdateSummary
	AppendValuesResponse *sheets.AppendSummary

	// Errors to return
	GetValuesError    error
	UpdateValuesError error
	AppendValuesError error
	BatchUpdateError  error

	// Call tracking
	GetValuesCalls    int
	UpdateValuesCalls int
	AppendValuesCalls int
	BatchUpdateCalls  int

	// Call parameters tracking
	LastSpreadsheetID string
	GetValuesRanges   []string
	UpdateRanges      []string
	LastUpdateValues  [][]interface{}
	LastInputMode     sheets.InputMode
	LastAppendRange   string
	LastAppendValues  [][]interface{}
	LastRequests      []*gsheets.Request
}

// TotalCalls counts every backend call
func (m *MockBackend) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetValuesCalls + m.UpdateValuesCalls + m.AppendValuesCalls + m.BatchUpdateCalls
}

func (m *MockBackend) GetValues(ctx context.Context, spreadsheetID, rangeRef string) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetValuesCalls++
	m.LastSpreadsheetID = spreadsheetID
	m.GetValuesRanges = append(m.GetValuesRanges, rangeRef)

	if m.GetValuesError != nil {
		return nil, m.GetValuesError
	}
	if values, ok := m.GetValuesByRange[rangeRef]; ok {
		return values, nil
	}
	return m.GetValuesResponse, nil
}

func (m *MockBackend) UpdateValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode sheets.InputMode) (*sheets.UpdateSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateValuesCalls++
	m.LastSpreadsheetID = spreadsheetID
	m.UpdateRanges = append(m.UpdateRanges, rangeRef)
	m.LastUpdateValues = values
	m.LastInputMode = mode

	if m.UpdateValuesError != nil {
		return nil, m.UpdateValuesError
	}
	if m.UpdateValuesResponse != nil {
		return m.UpdateValuesResponse, nil
	}
	return &sheets.UpdateSummary{UpdatedRange: rangeRef}, nil
}

func (m *MockBackend) AppendValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode sheets.InputMode) (*sheets.AppendSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendValuesCalls++
	m.LastSpreadsheetID = spreadsheetID
	m.LastAppendRange = rangeRef
	m.LastAppendValues = values
	m.LastInputMode = mode

	if m.AppendValuesError != nil {
		return nil, m.AppendValuesError
	}
	return m.AppendValuesResponse, nil
}

func (m *MockBackend) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*gsheets.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BatchUpdateCalls++
	m.LastSpreadsheetID = spreadsheetID
	m.LastRequests = requests

	return m.BatchUpdateError
}
