package table

import (
	"context"

	"github.com/zoobzio/formz"
)

// FormatFunc converts a raw cell value into its display value.
type FormatFunc func(value any, row any) any

// RenderFunc converts a display value into a cell Node. A nil Node renders
// nothing.
type RenderFunc func(value any, row any) *Node

// TypeDef is what a ColumnType resolves to.
type TypeDef struct {
	Format FormatFunc
	Render RenderFunc
	Filter *Filter

	// Props are column defaults; non-nil column props override them.
	Props map[string]any
}

// ColumnType resolves the formatting behavior of a column. Resolution may
// block, e.g. to load enum options.
type ColumnType interface {
	Resolve(ctx context.Context) (TypeDef, error)
}

// TypeFunc adapts a function to ColumnType.
type TypeFunc func(ctx context.Context) (TypeDef, error)

// Resolve implements ColumnType.
func (f TypeFunc) Resolve(ctx context.Context) (TypeDef, error) {
	return f(ctx)
}

type textType struct{}

func (textType) Resolve(context.Context) (TypeDef, error) {
	return TypeDef{Format: identity}, nil
}

// Text displays the raw value. A Column without a Type is a Text column.
var Text ColumnType = textType{}

func identity(v any, _ any) any { return v }

// Column describes one table column.
type Column struct {
	// Key is the dotted path of the cell value inside a row.
	Key   string
	Label string
	Type  ColumnType
	Hide  bool

	// Render overrides the type renderer. It receives the formatted value.
	Render RenderFunc

	// Props are passed through to the resolved column.
	Props map[string]any
}

// ResolvedColumn is a Column with its type applied.
type ResolvedColumn struct {
	Key       string
	Title     string
	DataIndex formz.Path
	Format    FormatFunc
	Filter    *Filter
	Props     map[string]any

	// SortOrder is "ascend", "descend" or empty.
	SortOrder string

	// FilteredValue holds the active filter keys, if any.
	FilteredValue []any

	render func(row any) *Node
}

// Raw returns the unformatted cell value of row.
func (c ResolvedColumn) Raw(row any) any {
	return formz.DeepGetString(row, c.Key)
}

// Value returns the formatted cell value of row.
func (c ResolvedColumn) Value(row any) any {
	raw := c.Raw(row)
	if c.Format == nil {
		return raw
	}
	return c.Format(raw, row)
}

// Cell renders the cell of row.
func (c ResolvedColumn) Cell(row any) *Node {
	if c.render != nil {
		return c.render(row)
	}
	return TextNode(c.Value(row))
}

// resolveColumn applies col's type and merges its props.
func resolveColumn(ctx context.Context, col Column) (ResolvedColumn, error) {
	rc := ResolvedColumn{Key: col.Key, Title: col.Label}

	if col.Type == nil || isText(col.Type) {
		rc.Format = identity
		rc.DataIndex = formz.ParsePath(col.Key)
		if col.Render != nil {
			render := col.Render
			rc.render = func(row any) *Node {
				return render(rc.Raw(row), row)
			}
		}
		rc.Props = mergeProps(col.Props)
		return rc, nil
	}

	def, err := col.Type.Resolve(ctx)
	if err != nil {
		return ResolvedColumn{}, err
	}

	format := def.Format
	if format == nil {
		format = identity
	}
	rc.Format = format
	rc.Filter = def.Filter

	render := col.Render
	if render == nil {
		render = def.Render
	}
	if render != nil {
		rc.render = func(row any) *Node {
			return render(format(formz.DeepGetString(row, col.Key), row), row)
		}
	}

	rc.Props = mergeProps(def.Props, col.Props)
	return rc, nil
}

func isText(t ColumnType) bool {
	_, ok := t.(textType)
	return ok
}

// mergeProps overlays the given maps in order. Later non-nil values win and
// nil values are dropped.
func mergeProps(layers ...map[string]any) map[string]any {
	var out map[string]any
	for _, layer := range layers {
		for k, v := range layer {
			if v == nil {
				continue
			}
			if out == nil {
				out = make(map[string]any)
			}
			out[k] = v
		}
	}
	return out
}
