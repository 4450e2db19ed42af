package sheets

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client implements the Backend interface using Google Sheets API.
//
// Note: This client uses [][]interface{} as required by the Google Sheets API.
// This is the only layer where interface{} should appear. All other code should
// use the Cell type wrapper for access to cell values.
type Client struct {
	service *sheets.Service
	tracker *CallTracker
}

// NewClient creates a Google Sheets client authenticated by tokens.
// applicationName is sent as the user agent of every request.
func NewClient(ctx context.Context, tokens oauth2.TokenSource, applicationName string, tracker *CallTracker) (*Client, error) {
	opts := []option.ClientOption{option.WithTokenSource(tokens)}
	if applicationName != "" {
		opts = append(opts, option.WithUserAgent(applicationName))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if tracker == nil {
		tracker = NewCallTracker()
	}

	return &Client{
		service: service,
		tracker: tracker,
	}, nil
}

// NewClientWithHTTP creates a client over a preconfigured HTTP client and endpoint.
// Used to point the client at a local test server.
func NewClientWithHTTP(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{service: service, tracker: NewCallTracker()}, nil
}

// Tracker returns the call tracker recording this client's requests
func (c *Client) Tracker() *CallTracker {
	return c.tracker
}

// GetValues reads values from the specified range.
// Returns [][]interface{} as mandated by Google Sheets API.
func (c *Client) GetValues(ctx context.Context, spreadsheetID, rangeRef string) ([][]interface{}, error) {
	c.tracker.RecordCall("GetValues")

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rangeRef, err)
	}

	log.Debug().
		Str("range", rangeRef).
		Int("rows", len(resp.Values)).
		Msg("Read values")

	return resp.Values, nil
}

// UpdateValues overwrites the specified range with the provided values.
// Accepts [][]interface{} as mandated by Google Sheets API.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode InputMode) (*UpdateSummary, error) {
	c.tracker.RecordCall("UpdateValues")

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rangeRef, valueRange).
		ValueInputOption(string(mode)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update range %s: %w", rangeRef, err)
	}

	return &UpdateSummary{
		UpdatedRange:   resp.UpdatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
	}, nil
}

// AppendValues appends rows after the table anchored at the specified range.
// New rows are inserted rather than overwriting whatever follows the table.
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rangeRef string, values [][]interface{}, mode InputMode) (*AppendSummary, error) {
	c.tracker.RecordCall("AppendValues")

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	resp, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rangeRef, valueRange).
		ValueInputOption(string(mode)).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append to %s: %w", rangeRef, err)
	}

	summary := &AppendSummary{TableRange: resp.TableRange}
	if resp.Updates != nil {
		summary.Updates = &UpdateSummary{
			UpdatedRange:   resp.Updates.UpdatedRange,
			UpdatedRows:    resp.Updates.UpdatedRows,
			UpdatedColumns: resp.Updates.UpdatedColumns,
			UpdatedCells:   resp.Updates.UpdatedCells,
		}
	}
	return summary, nil
}

// BatchUpdate applies structural edit requests to the spreadsheet
func (c *Client) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	c.tracker.RecordCall("BatchUpdate")

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to apply %d structural edits: %w", len(requests), err)
	}

	return nil
}
