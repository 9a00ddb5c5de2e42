package table

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/formz"
)

func TestResolveColumn_Text(t *testing.T) {
	col := resolveOne(t, Column{Key: "user.name", Label: "Name"})

	if col.Title != "Name" {
		t.Errorf("expected title Name, got %s", col.Title)
	}
	if diff := cmp.Diff(formz.Path{"user", "name"}, col.DataIndex); diff != "" {
		t.Errorf("unexpected data index (-want +got):\n%s", diff)
	}

	row := map[string]any{"user": map[string]any{"name": "Ada"}}
	if got := col.Value(row); got != "Ada" {
		t.Errorf("expected raw value, got %v", got)
	}
	if n := col.Cell(row); n.Kind != NodeText || n.Text != "Ada" {
		t.Errorf("expected text node, got %+v", n)
	}

	explicit := resolveOne(t, Column{Key: "x", Type: Text})
	if explicit.DataIndex == nil {
		t.Error("expected explicit Text to behave as text column")
	}
}

func TestResolveColumn_TextRenderReceivesRaw(t *testing.T) {
	var got any
	col := resolveOne(t, Column{Key: "n", Render: func(v any, _ any) *Node {
		got = v
		return TextNode("custom")
	}})

	n := col.Cell(map[string]any{"n": 42})
	if got != 42 {
		t.Errorf("expected raw 42, got %v", got)
	}
	if n.Text != "custom" {
		t.Errorf("expected custom node, got %+v", n)
	}
}

func upperType(props map[string]any) ColumnType {
	return TypeFunc(func(context.Context) (TypeDef, error) {
		return TypeDef{
			Format: func(v any, _ any) any {
				s, _ := v.(string)
				return strings.ToUpper(s)
			},
			Render: func(v any, _ any) *Node {
				return TextNode("type:" + v.(string))
			},
			Props: props,
		}, nil
	})
}

func TestResolveColumn_TypedRender(t *testing.T) {
	row := map[string]any{"s": "abc"}

	col := resolveOne(t, Column{Key: "s", Type: upperType(nil)})
	if col.DataIndex != nil {
		t.Errorf("expected no data index for typed column, got %v", col.DataIndex)
	}
	if got := col.Value(row); got != "ABC" {
		t.Errorf("expected formatted value, got %v", got)
	}
	if n := col.Cell(row); n.Text != "type:ABC" {
		t.Errorf("expected type renderer, got %+v", n)
	}

	override := resolveOne(t, Column{
		Key:  "s",
		Type: upperType(nil),
		Render: func(v any, _ any) *Node {
			return TextNode("field:" + v.(string))
		},
	})
	if n := override.Cell(row); n.Text != "field:ABC" {
		t.Errorf("expected field renderer with formatted value, got %+v", n)
	}
}

func TestResolveColumn_FormatOnly(t *testing.T) {
	typ := TypeFunc(func(context.Context) (TypeDef, error) {
		return TypeDef{Format: func(v any, _ any) any { return "x" }}, nil
	})
	col := resolveOne(t, Column{Key: "s", Type: typ})
	if n := col.Cell(map[string]any{}); n.Text != "x" {
		t.Errorf("expected text node of formatted value, got %+v", n)
	}
}

func TestResolveColumn_MergeProps(t *testing.T) {
	col := resolveOne(t, Column{
		Key:   "s",
		Type:  upperType(map[string]any{"align": "center", "width": 100}),
		Props: map[string]any{"width": 200, "align": nil, "ellipsis": true},
	})

	want := map[string]any{"align": "center", "width": 200, "ellipsis": true}
	if diff := cmp.Diff(want, col.Props); diff != "" {
		t.Errorf("unexpected props (-want +got):\n%s", diff)
	}
}

func TestMergeProps_Empty(t *testing.T) {
	if got := mergeProps(nil, map[string]any{"a": nil}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestNode_String(t *testing.T) {
	frag := &Node{Kind: NodeFragment, Children: []*Node{TextNode("a"), TextNode(nil), TextNode(2)}}
	if got := frag.String(); got != "a, 2" {
		t.Errorf("expected \"a, 2\", got %q", got)
	}
	var nilNode *Node
	if nilNode.String() != "" || nilNode.Clickable() {
		t.Error("expected nil node to be empty and inert")
	}
	if NodeSwitch.String() != "switch" || NodeKind(99).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
