package table

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/zoobzio/formz/bridge"
)

// ActionColumnKey is the key of the column appended for row actions.
const ActionColumnKey = "_action"

// SortOrder is the requested sort direction.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Schema is an ordered column list. Tables reload their columns when they
// are given a different *Schema.
type Schema struct {
	Columns []Column
}

// Options configures a Table.
type Options struct {
	// Actions renders the trailing action cell of a row.
	Actions func(row any) *Node

	// OnSearchChange receives quick search input. When set, Search leaves
	// filtering to the caller.
	OnSearchChange func(q string)

	// OnColumnVisibilityChange receives the visible column keys after a toggle.
	OnColumnVisibilityChange func(visible []string)
}

// Table is the view model of a schema-driven table: resolved columns,
// visibility, sort and filter decoration, and quick search.
type Table struct {
	opts    Options
	columns *bridge.Bridge[[]ResolvedColumn]

	mu          sync.Mutex
	schema      *Schema
	visible     []string
	sortBy      string
	sortOrder   SortOrder
	filterState map[string][]any
}

// New creates a Table for schema. Columns resolve after Start.
func New(schema *Schema, opts Options) *Table {
	if schema == nil {
		schema = &Schema{}
	}
	t := &Table{
		opts:    opts,
		schema:  schema,
		visible: initialVisible(schema),
	}
	t.columns = bridge.New(func() bridge.Source[[]ResolvedColumn] {
		cols := t.Schema().Columns
		return bridge.Future(func(ctx context.Context) ([]ResolvedColumn, error) {
			return Resolve(ctx, cols)
		})
	})
	t.columns.SetDeps(schema)
	return t
}

// Start resolves the columns of the current schema.
func (t *Table) Start(ctx context.Context) error {
	return t.columns.Start(ctx)
}

// Close stops column resolution.
func (t *Table) Close() {
	t.columns.Close()
}

// Schema returns the current schema.
func (t *Table) Schema() *Schema {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.schema
}

// SetSchema swaps the schema. A different *Schema resets column visibility
// and resolves the new columns.
func (t *Table) SetSchema(schema *Schema) {
	if schema == nil {
		schema = &Schema{}
	}
	t.mu.Lock()
	changed := schema != t.schema
	t.schema = schema
	if changed {
		t.visible = initialVisible(schema)
	}
	t.mu.Unlock()

	t.columns.SetDeps(schema)
}

// Reload resolves the current schema again.
func (t *Table) Reload() {
	t.columns.Reload()
}

// Loading reports whether columns are being resolved.
func (t *Table) Loading() bool {
	snap := t.columns.Snapshot()
	return snap.Loading || (!snap.HasValue && snap.Err == nil)
}

// Err returns the last resolution failure.
func (t *Table) Err() error {
	return t.columns.Snapshot().Err
}

// Subscribe is called with every column resolution state.
func (t *Table) Subscribe(fn func(bridge.Snapshot[[]ResolvedColumn])) func() {
	return t.columns.Subscribe(fn)
}

// Columns returns the visible, decorated columns followed by the action
// column. It returns nil until the first resolution completes.
func (t *Table) Columns() []ResolvedColumn {
	snap := t.columns.Snapshot()
	if !snap.HasValue {
		return nil
	}

	t.mu.Lock()
	visible := slices.Clone(t.visible)
	sortBy, sortOrder := t.sortBy, t.sortOrder
	filterState := t.filterState
	t.mu.Unlock()

	out := make([]ResolvedColumn, 0, len(snap.Value)+1)
	for _, c := range snap.Value {
		if !slices.Contains(visible, c.Key) {
			continue
		}
		if sortBy != "" && c.Key == sortBy {
			c.SortOrder = sortOrderName(sortOrder)
		}
		if fv, ok := filterState[c.Key]; ok {
			c.FilteredValue = fv
		}
		out = append(out, c)
	}

	if t.opts.Actions != nil {
		actions := t.opts.Actions
		out = append(out, ResolvedColumn{
			Key:    ActionColumnKey,
			Props:  map[string]any{"align": "right", "fixed": "right"},
			render: actions,
		})
	}
	return out
}

// VisibleColumns returns the keys of the visible columns.
func (t *Table) VisibleColumns() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.visible)
}

// Togglable returns the schema columns whose visibility can be toggled.
func (t *Table) Togglable() []Column {
	var out []Column
	for _, c := range t.Schema().Columns {
		if c.Key != ActionColumnKey && c.Label != "" {
			out = append(out, c)
		}
	}
	return out
}

// ToggleColumn shows a hidden column or hides a visible one.
func (t *Table) ToggleColumn(key string) {
	t.mu.Lock()
	visible := slices.Clone(t.visible)
	if i := slices.Index(visible, key); i >= 0 {
		visible = slices.Delete(visible, i, i+1)
	} else {
		visible = append(visible, key)
	}
	t.visible = visible
	t.mu.Unlock()

	if t.opts.OnColumnVisibilityChange != nil {
		t.opts.OnColumnVisibilityChange(slices.Clone(visible))
	}
}

// SetSort marks column by as sorted in order. An empty by clears sorting.
func (t *Table) SetSort(by string, order SortOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sortBy = by
	t.sortOrder = order
}

// SetFilterState sets the active filter values per column key.
func (t *Table) SetFilterState(state map[string][]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filterState = state
}

// Search returns the rows where any column's formatted value contains q.
// Rows are returned unchanged for an empty query, while columns are still
// resolving, or when OnSearchChange is set; the latter also receives q.
func (t *Table) Search(rows []any, q string) []any {
	if t.opts.OnSearchChange != nil {
		t.opts.OnSearchChange(q)
		return rows
	}
	snap := t.columns.Snapshot()
	if q == "" || !snap.HasValue {
		return rows
	}

	var out []any
	for _, row := range rows {
		for _, c := range snap.Value {
			if matches(c.Value(row), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func matches(v any, q string) bool {
	if items, ok := asSlice(v); ok {
		for _, item := range items {
			if strings.Contains(display(item), q) {
				return true
			}
		}
		return false
	}
	return strings.Contains(display(v), q)
}

func sortOrderName(o SortOrder) string {
	switch o {
	case SortAsc:
		return "ascend"
	case SortDesc:
		return "descend"
	default:
		return ""
	}
}

func initialVisible(schema *Schema) []string {
	var keys []string
	for _, c := range schema.Columns {
		if !c.Hide {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
