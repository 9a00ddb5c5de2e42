package table

import (
	"fmt"
	"strings"
)

// NodeKind identifies how a cell Node is displayed.
type NodeKind int

const (
	// NodeText is plain text.
	NodeText NodeKind = iota

	// NodeTag is a colored label.
	NodeTag

	// NodeSwitch is an on/off toggle bound to a SwitchCell.
	NodeSwitch

	// NodeFragment groups child nodes without decoration.
	NodeFragment
)

// String returns the string representation of the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeTag:
		return "tag"
	case NodeSwitch:
		return "switch"
	case NodeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Node is a renderer-neutral description of a table cell.
type Node struct {
	Kind     NodeKind
	Text     string
	Color    string
	Value    any
	Checked  bool
	Disabled bool
	Children []*Node
	Switch   *SwitchCell

	onClick func(value any)
}

// TextNode returns a text node displaying v. nil displays as empty.
func TextNode(v any) *Node {
	return &Node{Kind: NodeText, Text: display(v), Value: v}
}

// Clickable reports whether the node reacts to Click.
func (n *Node) Clickable() bool {
	return n != nil && n.onClick != nil
}

// Click invokes the node's click handler with its value.
func (n *Node) Click() {
	if n.Clickable() {
		n.onClick(n.Value)
	}
}

// String flattens the node to display text. Fragments join their children
// with ", ".
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	if n.Kind == NodeFragment {
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			if s := c.String(); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return n.Text
}

// display converts a formatted value to text. Slices are joined with ", ".
func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if item != nil {
				parts = append(parts, display(item))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
