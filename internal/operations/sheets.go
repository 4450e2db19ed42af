// Package operations exposes the asynchronous spreadsheet entry points.
//
// Every entry point validates its arguments, resolves an A1 range, acquires a
// session snapshot and issues one backend call on a runner worker. The
// outcome is delivered once on the configured completion context, where the
// error notifier runs first, then the caller's callback. The returned handle
// resolves last.
package operations

import (
	"context"
	"errors"
	"sync"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"
	"sheets_bridge/internal/config"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/session"
	"sheets_bridge/internal/sheets"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
)

// Options configures a Sheets façade
type Options struct {
	Runner          *runner.Runner
	Sessions        *session.Cache
	SpreadsheetID   string
	CredentialsRef  string
	ApplicationName string
	InputMode       sheets.InputMode
	Completion      runner.Context
	OnError         func(app.OperationError)
}

// identity is shared by every view of a façade so setters apply to all of them
type identity struct {
	mu              sync.RWMutex
	spreadsheetID   string
	credentialsRef  string
	applicationName string
}

// Sheets is the host-facing façade over one spreadsheet
type Sheets struct {
	runner     *runner.Runner
	sessions   *session.Cache
	mode       sheets.InputMode
	completion runner.Context
	onError    func(app.OperationError)
	id         *identity
}

// New creates a façade. A nil Runner or Sessions gets a default one.
func New(opts Options) *Sheets {
	s := &Sheets{
		runner:     opts.Runner,
		sessions:   opts.Sessions,
		mode:       opts.InputMode,
		completion: opts.Completion,
		onError:    opts.OnError,
		id: &identity{
			spreadsheetID:   opts.SpreadsheetID,
			credentialsRef:  opts.CredentialsRef,
			applicationName: opts.ApplicationName,
		},
	}
	if s.runner == nil {
		s.runner = runner.New(config.DefaultRunnerConfig)
	}
	if s.sessions == nil {
		s.sessions = session.NewCache(session.Options{})
	}
	if s.mode == "" {
		s.mode = sheets.InputUserEntered
	}
	if s.completion == nil {
		s.completion = runner.Inline
	}
	if s.id.applicationName == "" {
		s.id.applicationName = config.DefaultApplicationName
	}
	return s
}

// WithCompletion returns a view of s that delivers outcomes on completion.
// Both views share the runner, the session cache and the identity.
func (s *Sheets) WithCompletion(completion runner.Context) *Sheets {
	view := *s
	if completion == nil {
		completion = runner.Inline
	}
	view.completion = completion
	return &view
}

// SetSpreadsheetID targets a different spreadsheet for subsequent operations
func (s *Sheets) SetSpreadsheetID(id string) {
	s.id.mu.Lock()
	defer s.id.mu.Unlock()
	s.id.spreadsheetID = id
}

// SetCredentials changes the credential reference. The next operation
// rebuilds the session; operations in flight keep the old one.
func (s *Sheets) SetCredentials(ref string) {
	s.id.mu.Lock()
	defer s.id.mu.Unlock()
	s.id.credentialsRef = ref
}

// SetApplicationName changes the label sent with every request
func (s *Sheets) SetApplicationName(name string) {
	s.id.mu.Lock()
	defer s.id.mu.Unlock()
	s.id.applicationName = name
}

// SpreadsheetID returns the spreadsheet operations currently target
func (s *Sheets) SpreadsheetID() string {
	s.id.mu.RLock()
	defer s.id.mu.RUnlock()
	return s.id.spreadsheetID
}

// CellReference converts 1-indexed coordinates to an A1 cell reference
func (s *Sheets) CellReference(row, column int) (string, error) {
	return a1.ToCellReference(row, column)
}

// RangeReference converts two corners to an A1 range reference
func (s *Sheets) RangeReference(row1, col1, row2, col2 int) (string, error) {
	return a1.ToRangeReference(row1, col1, row2, col2)
}

func (s *Sheets) session(ctx context.Context) (*session.Session, error) {
	s.id.mu.RLock()
	spreadsheetID := s.id.spreadsheetID
	credentialsRef := s.id.credentialsRef
	applicationName := s.id.applicationName
	s.id.mu.RUnlock()

	if spreadsheetID == "" {
		return nil, app.InvalidArgument("spreadsheet id is not set")
	}
	return s.sessions.Get(ctx, credentialsRef, spreadsheetID, applicationName)
}

// submit runs body on the runner and routes failures through the notifier
func submit[T any](s *Sheets, op string, body func(ctx context.Context) (T, error), done func(runner.Outcome[T])) *runner.Handle[T] {
	work := func(ctx context.Context) (T, error) {
		v, err := body(ctx)
		if err != nil {
			var zero T
			return zero, app.WithOp(op, err)
		}
		return v, nil
	}

	deliver := func(o runner.Outcome[T]) {
		if o.Err != nil {
			s.notify(op, o.Err)
		}
		if done != nil {
			done(o)
		}
	}

	return runner.Submit(s.runner, op, s.completion, work, deliver)
}

func (s *Sheets) notify(op string, err error) {
	kind := app.KindOf(err)
	message := err.Error()
	var appErr *app.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	log.Warn().
		Str("operation", op).
		Str("kind", kind.String()).
		Err(err).
		Msg("Spreadsheet operation failed")

	if s.onError != nil {
		s.onError(app.OperationError{Operation: op, Kind: kind, Message: message})
	}
}

// remote turns a backend error into a RemoteFailure carrying the backend's
// own message when it has one
func remote(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &app.Error{Kind: app.KindRemoteFailure, Message: apiErr.Message, Err: err}
	}
	return app.WrapError(app.KindRemoteFailure, err)
}

func noData(rangeRef string) error {
	return app.NewError(app.KindNoData, "no data in %s", rangeRef)
}

// getValues acquires a session and reads rangeRef, mapping an empty reply to NoData
func (s *Sheets) getValues(ctx context.Context, rangeRef string) ([][]interface{}, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	values, err := sess.Backend.GetValues(ctx, sess.SpreadsheetID, rangeRef)
	if err != nil {
		return nil, remote(err)
	}
	if sheets.IsEmptyReply(values) {
		return nil, noData(rangeRef)
	}
	return values, nil
}

func (s *Sheets) updateValues(ctx context.Context, rangeRef string, values [][]interface{}) (sheets.UpdateSummary, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return sheets.UpdateSummary{}, err
	}

	summary, err := sess.Backend.UpdateValues(ctx, sess.SpreadsheetID, rangeRef, values, s.mode)
	if err != nil {
		return sheets.UpdateSummary{}, remote(err)
	}
	if summary == nil {
		return sheets.UpdateSummary{UpdatedRange: rangeRef}, nil
	}
	return *summary, nil
}
