package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zoobzio/formz"
	"github.com/zoobzio/formz/bridge"
	"github.com/zoobzio/formz/table"
)

func TestSchemaReload_FileDrivesTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "columns.yaml")

	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write schema: %v", err)
		}
	}
	write("- key: name\n  label: Name\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	schemas := bridge.New(func() bridge.Source[*table.Schema] {
		return bridge.FileSource(path, func(data []byte) (*table.Schema, error) {
			return table.LoadSchema(formz.YAMLCodec{}, data, nil)
		})
	})
	if err := schemas.Start(ctx); err != nil {
		t.Fatalf("failed to start schema bridge: %v", err)
	}
	defer schemas.Close()

	if !waitFor(t, time.Second, func() bool { return schemas.Snapshot().HasValue }) {
		t.Fatal("timeout waiting for initial schema")
	}

	tbl := table.New(schemas.Snapshot().Value, table.Options{})
	if err := tbl.Start(ctx); err != nil {
		t.Fatalf("failed to start table: %v", err)
	}
	defer tbl.Close()

	if !waitFor(t, time.Second, func() bool { return len(tbl.Columns()) == 1 }) {
		t.Fatal("timeout waiting for initial columns")
	}

	first := schemas.Snapshot().Value
	write("- key: name\n  label: Name\n- key: gender\n  label: Gender\n  type: enum\n  options:\n    - {label: M, value: 0}\n")

	if !waitFor(t, 2*time.Second, func() bool {
		s := schemas.Snapshot()
		return s.HasValue && s.Value != first && len(s.Value.Columns) == 2
	}) {
		t.Fatal("timeout waiting for schema reload")
	}
	tbl.SetSchema(schemas.Snapshot().Value)

	if !waitFor(t, time.Second, func() bool { return len(tbl.Columns()) == 2 }) {
		t.Fatal("timeout waiting for reloaded columns")
	}
	if got := tbl.Columns()[1].Value(map[string]any{"gender": float64(0)}); got != "M" {
		t.Errorf("expected M from reloaded enum, got %v", got)
	}
}

func TestSchemaReload_InvalidSchemaKeepsLastGood(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "columns.json")
	if err := os.WriteFile(path, []byte(`[{"key":"name"}]`), 0o600); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	schemas := bridge.New(func() bridge.Source[*table.Schema] {
		return bridge.FileSource(path, func(data []byte) (*table.Schema, error) {
			return table.LoadSchema(formz.JSONCodec{}, data, nil)
		})
	})
	if err := schemas.Start(ctx); err != nil {
		t.Fatalf("failed to start schema bridge: %v", err)
	}
	defer schemas.Close()

	if !waitFor(t, time.Second, func() bool { return schemas.Snapshot().HasValue }) {
		t.Fatal("timeout waiting for initial schema")
	}
	good := schemas.Snapshot().Value

	if err := os.WriteFile(path, []byte(`[{"key":"name","type":"money"}]`), 0o600); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return schemas.Snapshot().Err != nil }) {
		t.Fatal("timeout waiting for schema error")
	}
	if s := schemas.Snapshot(); s.Value != good {
		t.Error("expected last good schema to remain")
	}
}
