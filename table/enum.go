package table

import (
	"context"
	"fmt"
	"reflect"
)

// DefaultPalette is the cold color cycle assigned to enum options without
// an explicit color.
var DefaultPalette = []string{
	"#1890FF",
	"#722ED1",
	"#69C0FF",
	"#B37FEB",
	"#13C2C2",
	"#2F54EB",
	"#85A5FF",
}

// EnumOption is one entry of an enum column.
type EnumOption struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// EnumSource loads the options of an enum column.
type EnumSource func(ctx context.Context) ([]EnumOption, error)

// StaticOptions returns a source for a literal option list.
func StaticOptions(opts ...EnumOption) EnumSource {
	return func(context.Context) ([]EnumOption, error) {
		return opts, nil
	}
}

// Display selects how enum labels are rendered.
type Display string

// Display modes.
const (
	DisplayTag  Display = "tag"
	DisplayText Display = "text"
)

// EnumConfig configures an Enum column.
type EnumConfig struct {
	// OnClick makes rendered labels clickable. It receives the option value.
	OnClick func(value any)

	// Palettes overrides DefaultPalette.
	Palettes []string

	// Display defaults to DisplayTag.
	Display Display

	// Filterable attaches Filter metadata to the column.
	Filterable bool

	// EmptyText is shown for empty cells that match no option.
	EmptyText string

	// ShowUnlisted displays values missing from the options as-is instead
	// of hiding them.
	ShowUnlisted bool

	// FilterMultiple allows selecting several filter options. Default true.
	FilterMultiple *bool
}

// Enum maps cell values to option labels. Scalar and slice cells are both
// supported.
func Enum(source EnumSource, cfg EnumConfig) ColumnType {
	return TypeFunc(func(ctx context.Context) (TypeDef, error) {
		opts, err := source(ctx)
		if err != nil {
			return TypeDef{}, fmt.Errorf("failed to load enum options: %w", err)
		}
		return newEnum(opts, cfg).typeDef(), nil
	})
}

type enum struct {
	cfg     EnumConfig
	options []EnumOption
	byValue map[string]int
	byLabel map[string]int
}

// newEnum copies opts and assigns palette colors by position.
func newEnum(opts []EnumOption, cfg EnumConfig) *enum {
	palette := cfg.Palettes
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if cfg.Display == "" {
		cfg.Display = DisplayTag
	}

	e := &enum{
		cfg:     cfg,
		options: make([]EnumOption, len(opts)),
		byValue: make(map[string]int, len(opts)),
		byLabel: make(map[string]int, len(opts)),
	}
	for i, o := range opts {
		if o.Color == "" {
			o.Color = palette[i%len(palette)]
		}
		e.options[i] = o
		e.byLabel[o.Label] = i
		e.byValue[enumKey(o.Value)] = i
	}
	return e
}

func (e *enum) typeDef() TypeDef {
	def := TypeDef{Format: e.format, Render: e.render}
	if e.cfg.Filterable {
		multiple := true
		if e.cfg.FilterMultiple != nil {
			multiple = *e.cfg.FilterMultiple
		}
		def.Filter = &Filter{Options: e.options, Multiple: multiple}
	}
	return def
}

func (e *enum) format(v any, _ any) any {
	if items, ok := asSlice(v); ok {
		if len(items) == 0 && e.cfg.EmptyText != "" {
			return e.cfg.EmptyText
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = e.formatSingle(item)
		}
		return out
	}
	if v == nil || v == "" {
		if i, ok := e.byValue[enumKey(v)]; ok {
			return e.options[i].Label
		}
		if e.cfg.EmptyText == "" {
			return nil
		}
		return e.cfg.EmptyText
	}
	return e.formatSingle(v)
}

func (e *enum) formatSingle(v any) any {
	if i, ok := e.byValue[enumKey(v)]; ok {
		return e.options[i].Label
	}
	if e.cfg.ShowUnlisted {
		return v
	}
	return nil
}

func (e *enum) render(v any, _ any) *Node {
	if e.cfg.EmptyText != "" && v == e.cfg.EmptyText {
		return TextNode(v)
	}
	if items, ok := asSlice(v); ok {
		frag := &Node{Kind: NodeFragment}
		for _, item := range items {
			if n := e.renderSingle(item); n != nil {
				frag.Children = append(frag.Children, n)
			}
		}
		return frag
	}
	return e.renderSingle(v)
}

// renderSingle renders one formatted label.
func (e *enum) renderSingle(label any) *Node {
	var opt EnumOption
	found := false
	if s, ok := label.(string); ok {
		var i int
		if i, found = e.byLabel[s]; found {
			opt = e.options[i]
		}
	}
	if !found {
		if !e.cfg.ShowUnlisted || label == nil {
			return nil
		}
		opt = EnumOption{Label: display(label), Value: label}
	}

	kind := NodeTag
	if e.cfg.Display == DisplayText {
		kind = NodeText
	}
	n := &Node{Kind: kind, Text: opt.Label, Value: opt.Value}
	if kind == NodeTag {
		n.Color = opt.Color
	}
	if e.cfg.OnClick != nil {
		n.onClick = e.cfg.OnClick
	}
	return n
}

// enumKey is the matching key of an option value. Numbers compare by value
// so JSON float64 cells match int options; strings never match numbers.
func enumKey(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + x
	}
	if f, ok := toFloat(v); ok {
		return "n:" + fmt.Sprint(f)
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// asSlice reports whether v is a slice and returns its elements.
func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []any:
		return x, true
	case string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
