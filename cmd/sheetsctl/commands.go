package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"sheets_bridge/internal/a1"
	"sheets_bridge/internal/app"
	"sheets_bridge/internal/config"
	"sheets_bridge/internal/operations"
	"sheets_bridge/internal/runner"
	"sheets_bridge/internal/session"
	"sheets_bridge/internal/sheets"
	"sheets_bridge/internal/xlsx"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	spreadsheetID string
	credentials   string
	appName       string
	raw           bool
	pretty        bool
}

// connector builds the façade for one command and a func releasing it
type connector func(opts *globalOptions) (*operations.Sheets, func(), error)

func connect(opts *globalOptions) (*operations.Sheets, func(), error) {
	if opts.spreadsheetID == "" {
		return nil, nil, fmt.Errorf("--spreadsheet or SPREADSHEET_ID is required")
	}

	mode := sheets.InputUserEntered
	if opts.raw {
		mode = sheets.InputRaw
	}

	r := runner.New(config.DefaultRunnerConfig)
	s := operations.New(operations.Options{
		Runner:          r,
		Sessions:        session.NewCache(session.Options{}),
		SpreadsheetID:   opts.spreadsheetID,
		CredentialsRef:  opts.credentials,
		ApplicationName: opts.appName,
		InputMode:       mode,
	})
	return s, r.Close, nil
}

type cli struct {
	out     io.Writer
	connect connector
	opts    globalOptions
}

type action func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error)

func (c *cli) run(fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, release, err := c.connect(&c.opts)
		if err != nil {
			return err
		}
		defer release()

		v, err := fn(cmd.Context(), s, args)
		if err != nil {
			return err
		}
		return c.print(v)
	}
}

func (c *cli) print(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if c.opts.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, app.InvalidArgument("%s must be a number, got %q", name, raw)
	}
	return n, nil
}

// parseColumn accepts a column number or its letters
func parseColumn(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	return a1.ColumnNumber(raw)
}

func parseGridID(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, app.InvalidArgument("grid id must be a number, got %q", raw)
	}
	return n, nil
}

func newRootCommand(out io.Writer, connect connector) *cobra.Command {
	c := &cli{out: out, connect: connect}

	rootCmd := &cobra.Command{
		Use:          "sheetsctl",
		Short:        "Read and write a Google spreadsheet",
		Long:         `sheetsctl runs one spreadsheet operation per invocation and prints the outcome as JSON.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.spreadsheetID, "spreadsheet", os.Getenv("SPREADSHEET_ID"), "Spreadsheet ID")
	flags.StringVar(&c.opts.credentials, "credentials", envOr("GOOGLE_CREDENTIALS_FILE", "credentials.json"), "Credentials JSON file")
	flags.StringVar(&c.opts.appName, "app-name", envOr("SHEETS_APP_NAME", config.DefaultApplicationName), "Application name sent with requests")
	flags.BoolVar(&c.opts.raw, "raw", false, "Store written values literally instead of parsing them")
	flags.BoolVar(&c.opts.pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(
		c.readCellCommand(),
		c.readRowCommand(),
		c.readColumnCommand(),
		c.readRangeCommand(),
		c.readSheetCommand(),
		c.writeCellCommand(),
		c.writeRowCommand(),
		c.writeColumnCommand(),
		c.writeRangeCommand(),
		c.addRowCommand(),
		c.addColumnCommand(),
		c.removeRowCommand(),
		c.removeColumnCommand(),
		c.exportCommand(),
		c.importCommand(),
	)
	rootCmd.AddCommand(c.referenceCommands()...)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *cli) readCellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-cell SHEET CELL",
		Short: "Read one cell",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			v, err := s.ReadCell(args[0], args[1], nil).Wait(ctx)
			return map[string]string{"value": v}, err
		}),
	}
}

func (c *cli) readRowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-row SHEET ROW",
		Short: "Read a whole row",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			row, err := parseInt("row", args[1])
			if err != nil {
				return nil, err
			}
			return s.ReadRow(args[0], row, nil).Wait(ctx)
		}),
	}
}

func (c *cli) readColumnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-column SHEET COLUMN",
		Short: "Read a whole column (number or letters)",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			column, err := parseColumn(args[1])
			if err != nil {
				return nil, err
			}
			return s.ReadColumn(args[0], column, nil).Wait(ctx)
		}),
	}
}

func (c *cli) readRangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-range SHEET RANGE",
		Short: "Read a rectangle such as A1:C4",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			return s.ReadRange(args[0], args[1], nil).Wait(ctx)
		}),
	}
}

func (c *cli) readSheetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-sheet SHEET",
		Short: "Read every populated cell of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			return s.ReadSheet(args[0], nil).Wait(ctx)
		}),
	}
}

func (c *cli) writeCellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write-cell SHEET CELL VALUE",
		Short: "Write one cell",
		Args:  cobra.ExactArgs(3),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			return s.WriteCell(args[0], args[1], args[2], nil).Wait(ctx)
		}),
	}
}

func (c *cli) writeRowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write-row SHEET ROW VALUE...",
		Short: "Write values across a row starting at column A",
		Args:  cobra.MinimumNArgs(3),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			row, err := parseInt("row", args[1])
			if err != nil {
				return nil, err
			}
			return s.WriteRow(args[0], row, args[2:], nil).Wait(ctx)
		}),
	}
}

func (c *cli) writeColumnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write-column SHEET COLUMN VALUE...",
		Short: "Write values down a column starting at row 1",
		Args:  cobra.MinimumNArgs(3),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			column, err := parseColumn(args[1])
			if err != nil {
				return nil, err
			}
			return s.WriteColumn(args[0], column, args[2:], nil).Wait(ctx)
		}),
	}
}

func (c *cli) writeRangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write-range SHEET RANGE ROWS_JSON",
		Short: `Write a rectangle, e.g. write-range Sheet1 A1:B2 '[["a","b"],["c","d"]]'`,
		Args:  cobra.ExactArgs(3),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			var rows app.Table
			if err := json.Unmarshal([]byte(args[2]), &rows); err != nil {
				return nil, app.InvalidArgument("rows must be a JSON array of string arrays: %v", err)
			}
			return s.WriteRange(args[0], args[1], rows, nil).Wait(ctx)
		}),
	}
}

func (c *cli) addRowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-row SHEET VALUE...",
		Short: "Append a row after the last populated row",
		Args:  cobra.MinimumNArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			row, err := s.AddRow(args[0], args[1:], nil).Wait(ctx)
			return map[string]int{"row": row}, err
		}),
	}
}

func (c *cli) addColumnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-column SHEET VALUE...",
		Short: "Write a column right of the header row",
		Args:  cobra.MinimumNArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			column, err := s.AddColumn(args[0], args[1:], nil).Wait(ctx)
			return map[string]int{"column": column}, err
		}),
	}
}

func (c *cli) removeRowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-row GRID_ID ROW",
		Short: "Delete a row and shift the rows below it up",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			gridID, err := parseGridID(args[0])
			if err != nil {
				return nil, err
			}
			row, err := parseInt("row", args[1])
			if err != nil {
				return nil, err
			}
			_, err = s.RemoveRow(gridID, row, nil).Wait(ctx)
			return map[string]int{"removed_row": row}, err
		}),
	}
}

func (c *cli) removeColumnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-column GRID_ID COLUMN",
		Short: "Delete a column and shift the columns to its right left",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			gridID, err := parseGridID(args[0])
			if err != nil {
				return nil, err
			}
			column, err := parseColumn(args[1])
			if err != nil {
				return nil, err
			}
			_, err = s.RemoveColumn(gridID, column, nil).Wait(ctx)
			return map[string]int{"removed_column": column}, err
		}),
	}
}

func (c *cli) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export SHEET FILE.xlsx",
		Short: "Save a sheet to a local workbook",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			table, err := s.ReadSheet(args[0], nil).Wait(ctx)
			if err != nil {
				return nil, err
			}
			if err := xlsx.Export(args[1], args[0], table); err != nil {
				return nil, err
			}
			return map[string]interface{}{"file": args[1], "rows": len(table)}, nil
		}),
	}
}

func (c *cli) importCommand() *cobra.Command {
	var fromSheet string

	cmd := &cobra.Command{
		Use:   "import FILE.xlsx SHEET",
		Short: "Upload a local workbook sheet, anchored at A1",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(ctx context.Context, s *operations.Sheets, args []string) (interface{}, error) {
			table, err := xlsx.Import(args[0], fromSheet)
			if err != nil {
				return nil, err
			}
			rows, ref, err := xlsx.Rectangle(table)
			if err != nil {
				return nil, err
			}
			return s.WriteRange(args[1], ref, rows, nil).Wait(ctx)
		}),
	}
	cmd.Flags().StringVar(&fromSheet, "from-sheet", "", "Workbook sheet to read (default: first sheet)")
	return cmd
}

func (c *cli) referenceCommands() []*cobra.Command {
	cellref := &cobra.Command{
		Use:   "cellref ROW COLUMN",
		Short: "Print the A1 reference of a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseInt("row", args[0])
			if err != nil {
				return err
			}
			column, err := parseInt("column", args[1])
			if err != nil {
				return err
			}
			ref, err := a1.ToCellReference(row, column)
			if err != nil {
				return err
			}
			return c.print(map[string]string{"ref": ref})
		},
	}

	rangeref := &cobra.Command{
		Use:   "rangeref ROW1 COL1 ROW2 COL2",
		Short: "Print the A1 reference of a range",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n [4]int
			for i, raw := range args {
				v, err := parseInt("coordinate", raw)
				if err != nil {
					return err
				}
				n[i] = v
			}
			ref, err := a1.ToRangeReference(n[0], n[1], n[2], n[3])
			if err != nil {
				return err
			}
			return c.print(map[string]string{"ref": ref})
		},
	}

	return []*cobra.Command{cellref, rangeref}
}
