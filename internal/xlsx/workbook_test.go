package xlsx

import (
	"errors"
	"path/filepath"
	"testing"

	"sheets_bridge/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.xlsx")
	table := app.Table{
		{"name", "score"},
		{"ann", "3"},
		{"bob", "5"},
	}

	require.NoError(t, Export(path, "Scores", table))

	got, err := Import(path, "Scores")
	require.NoError(t, err)
	assert.Equal(t, table, got)

	// first sheet is used when none is named
	got, err = Import(path, "")
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestExportKeepsDefaultSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.xlsx")
	require.NoError(t, Export(path, "Sheet1", app.Table{{"a"}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}

func TestExportRequiresSheetName(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "x.xlsx"), "", app.Table{{"a"}})
	assert.True(t, errors.Is(err, app.ErrInvalidArgument))
}

func TestImportEmptySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Import(path, "")
	assert.True(t, errors.Is(err, app.ErrNoData))
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}

func TestRectangle(t *testing.T) {
	padded, ref, err := Rectangle(app.Table{{"a", "b", "c"}, {"d"}})
	require.NoError(t, err)
	assert.Equal(t, "A1:C2", ref)
	assert.Equal(t, app.Table{{"a", "b", "c"}, {"d", "", ""}}, padded)
	assert.True(t, padded.IsRectangular())

	_, _, err = Rectangle(nil)
	assert.True(t, errors.Is(err, app.ErrInvalidArgument))
}
