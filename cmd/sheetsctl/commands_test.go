package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"sheets_bridge/internal/app"
	"sheets_bridge/internal/config"
	"sheets_bridge/internal/operations"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/session"
	"sheets_bridge/internal/sheets"
	"sheets_bridge/internal/xlsx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConnector(backend sheets.Backend) connector {
	return func(opts *globalOptions) (*operations.Sheets, func(), error) {
		r := runner.New(config.RunnerConfig{Workers: 1, QueueCapacity: 1})
		s := operations.New(operations.Options{
			Runner:        r,
			Sessions:      session.Static(backend),
			SpreadsheetID: "spreadsheet-id",
		})
		return s, r.Close, nil
	}
}

func execute(t *testing.T, backend sheets.Backend, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out, memoryConnector(backend))
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestReadWriteCommands(t *testing.T) {
	backend := sheets.NewMemoryBackend()

	_, err := execute(t, backend, "write-row", "Sheet1", "1", "name", "score")
	require.NoError(t, err)

	out, err := execute(t, backend, "add-row", "Sheet1", "ann", "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"row":2}`, out)

	out, err = execute(t, backend, "read-row", "Sheet1", "2")
	require.NoError(t, err)
	assert.JSONEq(t, `["ann","3"]`, out)

	out, err = execute(t, backend, "read-cell", "Sheet1", "B1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"score"}`, out)

	out, err = execute(t, backend, "add-column", "Sheet1", "rank", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"column":3}`, out)

	out, err = execute(t, backend, "read-column", "Sheet1", "C")
	require.NoError(t, err)
	assert.JSONEq(t, `["rank","1"]`, out)

	_, err = execute(t, backend, "write-range", "Sheet1", "A3:B3", `[["bob","5"]]`)
	require.NoError(t, err)

	out, err = execute(t, backend, "read-range", "Sheet1", "A2:B3")
	require.NoError(t, err)
	assert.JSONEq(t, `[["ann","3"],["bob","5"]]`, out)

	_, err = execute(t, backend, "remove-row", "0", "2")
	require.NoError(t, err)

	out, err = execute(t, backend, "read-sheet", "Sheet1")
	require.NoError(t, err)
	var table app.Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Len(t, table, 2)
}

func TestCommandErrors(t *testing.T) {
	backend := sheets.NewMemoryBackend()

	_, err := execute(t, backend, "read-row", "Sheet1", "0")
	assert.True(t, errors.Is(err, app.ErrInvalidArgument))

	_, err = execute(t, backend, "read-row", "Sheet1", "five")
	assert.True(t, errors.Is(err, app.ErrInvalidArgument))

	_, err = execute(t, backend, "read-cell", "Sheet1", "A1")
	assert.True(t, errors.Is(err, app.ErrNoData))

	_, err = execute(t, backend, "write-range", "Sheet1", "A1:B2", `not json`)
	assert.True(t, errors.Is(err, app.ErrInvalidArgument))

	_, err = execute(t, backend, "read-cell", "Sheet1")
	assert.Error(t, err)
}

func TestReferenceCommands(t *testing.T) {
	out, err := execute(t, nil, "cellref", "3", "28")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"AB3"}`, out)

	out, err = execute(t, nil, "rangeref", "1", "2", "3", "4")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"B1:D3"}`, out)

	_, err = execute(t, nil, "cellref", "0", "1")
	assert.True(t, errors.Is(err, app.ErrInvalidArgument))
}

func TestExportImportCommands(t *testing.T) {
	source := sheets.NewMemoryBackend()
	source.SetValues("Sheet1", [][]interface{}{{"name", "score"}, {"ann"}})
	path := filepath.Join(t.TempDir(), "export.xlsx")

	out, err := execute(t, source, "export", "Sheet1", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"`+path+`","rows":2}`, out)

	exported, err := xlsx.Import(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, app.Table{{"name", "score"}, {"ann"}}, exported)

	target := sheets.NewMemoryBackend("Sheet1", "Copy")
	_, err = execute(t, target, "import", path, "Copy")
	require.NoError(t, err)

	assert.Equal(t, [][]interface{}{{"name", "score"}, {"ann", ""}}, target.Values("Copy"))
}

func TestConnectRequiresSpreadsheet(t *testing.T) {
	_, _, err := connect(&globalOptions{})
	assert.Error(t, err)
}
