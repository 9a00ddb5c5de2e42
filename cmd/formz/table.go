package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zoobzio/formz"
	"github.com/zoobzio/formz/bridge"
	"github.com/zoobzio/formz/table"
)

type tableFlags struct {
	schema string
	rows   string
	search string
	watch  bool
}

func newTableCmd() *cobra.Command {
	var f tableFlags
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Render rows through a column schema",
		Long: `Resolve a column schema and print the rows as a text table.

The schema is a JSON or YAML list of columns:

  - key: gender
    label: Gender
    type: enum
    options:
      - {label: M, value: 0}
      - {label: F, value: 1}

Supported types: text, date, datetime, unixtime, enum, switch.

With --watch the schema file is reloaded on every write and the table is
printed again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return runTable(ctx, cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVarP(&f.schema, "schema", "s", getEnv("FORMZ_SCHEMA", ""), "Column schema file (JSON or YAML)")
	cmd.Flags().StringVarP(&f.rows, "rows", "r", getEnv("FORMZ_ROWS", ""), "Rows file (JSON or YAML list)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Quick search over formatted values")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Reload the schema when the file changes")
	return cmd
}

func runTable(ctx context.Context, w io.Writer, f tableFlags) error {
	if f.schema == "" || f.rows == "" {
		return fmt.Errorf("--schema and --rows are required")
	}

	rows, err := readRows(f.rows)
	if err != nil {
		return err
	}

	decode := func(data []byte) (*table.Schema, error) {
		return table.LoadSchema(codecFor(f.schema), data, nil)
	}

	schemas := make(chan *table.Schema, 1)
	if f.watch {
		watcher := bridge.New(func() bridge.Source[*table.Schema] {
			return bridge.FileSource(f.schema, decode)
		})
		unsub := watcher.Subscribe(func(s bridge.Snapshot[*table.Schema]) {
			switch {
			case s.Err != nil:
				log.Printf("schema: %v", s.Err)
			case s.HasValue && !s.Loading:
				latest(schemas, s.Value)
			}
		})
		defer unsub()
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Close()
	} else {
		data, err := os.ReadFile(f.schema)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		schema, err := decode(data)
		if err != nil {
			return err
		}
		schemas <- schema
	}

	var tbl *table.Table
	defer func() {
		if tbl != nil {
			tbl.Close()
		}
	}()
	ready := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case schema := <-schemas:
			if tbl != nil {
				tbl.SetSchema(schema)
				continue
			}
			tbl = table.New(schema, table.Options{})
			tbl.Subscribe(func(s bridge.Snapshot[[]table.ResolvedColumn]) {
				if !s.Loading && (s.HasValue || s.Err != nil) {
					latest(ready, struct{}{})
				}
			})
			if err := tbl.Start(ctx); err != nil {
				return err
			}

		case <-ready:
			if err := tbl.Err(); err != nil {
				if !f.watch {
					return err
				}
				log.Printf("columns: %v", err)
				continue
			}
			if err := render(w, tbl, tbl.Search(rows, f.search)); err != nil {
				return err
			}
			if !f.watch {
				return nil
			}
			fmt.Fprintln(w)
		}
	}
}

// latest replaces any undelivered value in ch with v.
func latest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func readRows(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	tree, err := formz.DecodeValues(codecFor(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	rows, ok := tree.([]any)
	if !ok {
		return nil, fmt.Errorf("rows file must contain a list, got %T", tree)
	}
	return rows, nil
}

func render(w io.Writer, tbl *table.Table, rows []any) error {
	cols := tbl.Columns()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
		if header[i] == "" {
			header[i] = c.Key
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = strings.ReplaceAll(c.Cell(row).String(), "\n", " ")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
