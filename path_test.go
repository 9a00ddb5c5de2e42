package formz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		key  string
		want Path
	}{
		{"", Path{}},
		{"name", Path{"name"}},
		{"items.0.name", Path{"items", 0, "name"}},
		{"a.-1", Path{"a", "-1"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParsePath(tt.key)); diff != "" {
			t.Errorf("ParsePath(%q) (-want +got):\n%s", tt.key, diff)
		}
	}
}

func TestPath_String(t *testing.T) {
	if got := (Path{"items", 2, "name"}).String(); got != "items.2.name" {
		t.Errorf("expected items.2.name, got %q", got)
	}
	if got := (Path{}).String(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestDeepGet(t *testing.T) {
	tree := map[string]any{
		"user":  map[string]any{"name": "Ann"},
		"items": []any{"a", map[string]any{"id": 7}},
		"byID":  map[string]any{"3": "three"},
	}

	tests := []struct {
		path Path
		want any
	}{
		{Path{}, tree},
		{Path{"user", "name"}, "Ann"},
		{Path{"items", 1, "id"}, 7},
		{Path{"items", 5}, nil},
		{Path{"items", -1}, nil},
		{Path{"byID", 3}, "three"},
		{Path{"missing", "deeper"}, nil},
		{Path{"user", "name", "x"}, nil},
	}
	for _, tt := range tests {
		got := DeepGet(tree, tt.path)
		if tt.path.String() == "" {
			if !Same(got, tree) {
				t.Error("expected empty path to return the tree itself")
			}
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("DeepGet(%s) (-want +got):\n%s", tt.path, diff)
		}
	}

	if got := DeepGet(nil, Path{"a"}); got != nil {
		t.Errorf("expected nil from nil tree, got %v", got)
	}
}

func TestDeepSet_RoundTrip(t *testing.T) {
	paths := []Path{
		{"name"},
		{"user", "address", "city"},
		{"items", 2, "name"},
		{"matrix", 1, 0},
	}
	for _, p := range paths {
		tree := DeepSet(map[string]any{"name": "old"}, p, "value")
		if got := DeepGet(tree, p); got != "value" {
			t.Errorf("DeepGet(DeepSet(%s)) = %v", p, got)
		}
	}
}

func TestDeepSet_DoesNotMutateInput(t *testing.T) {
	orig := map[string]any{"user": map[string]any{"name": "Ann"}}

	_ = DeepSet(orig, Path{"user", "name"}, "Bob")
	_ = DeepSet(orig, Path{"user", "email"}, "bob@example.com")

	if diff := cmp.Diff(map[string]any{"user": map[string]any{"name": "Ann"}}, orig); diff != "" {
		t.Errorf("input tree was mutated (-want +got):\n%s", diff)
	}
	if got := DeepGet(orig, Path{"user", "name"}); got != "Ann" {
		t.Errorf("expected Ann, got %v", got)
	}
}

func TestDeepSet_StructuralSharing(t *testing.T) {
	untouched := map[string]any{"x": 1}
	list := []any{"a", "b"}
	orig := map[string]any{
		"user":  map[string]any{"name": "Ann"},
		"other": untouched,
		"list":  list,
	}

	next := DeepSet(orig, Path{"user", "name"}, "Bob").(map[string]any)

	if Same(next, orig) {
		t.Error("expected a new root")
	}
	if Same(next["user"], orig["user"]) {
		t.Error("expected the containers on the path to be copied")
	}
	if !Same(next["other"], untouched) {
		t.Error("expected sibling maps to be shared")
	}
	if !Same(next["list"], list) {
		t.Error("expected sibling slices to be shared")
	}
}

func TestDeepSet_TypedContainers(t *testing.T) {
	tags := []string{"a", "b", "c"}
	labels := map[string]string{"env": "prod", "team": "core"}
	orig := map[string]any{"tags": tags, "labels": labels}

	if got := DeepGet(orig, Path{"tags", 1}); got != "b" {
		t.Errorf("expected b from []string, got %v", got)
	}
	if got := DeepGet(orig, Path{"labels", "team"}); got != "core" {
		t.Errorf("expected core from map[string]string, got %v", got)
	}

	next := DeepSet(orig, Path{"tags", 1}, "x")
	next = DeepSet(next, Path{"labels", "env"}, "dev")

	want := map[string]any{
		"tags":   []any{"a", "x", "c"},
		"labels": map[string]any{"env": "dev", "team": "core"},
	}
	if diff := cmp.Diff(want, next); diff != "" {
		t.Errorf("siblings lost (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, tags); diff != "" {
		t.Errorf("typed slice was mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"env": "prod", "team": "core"}, labels); diff != "" {
		t.Errorf("typed map was mutated (-want +got):\n%s", diff)
	}
}

func TestDeepGet_BytesAreLeaves(t *testing.T) {
	tree := map[string]any{"raw": []byte("hi")}
	if got := DeepGet(tree, Path{"raw", 0}); got != nil {
		t.Errorf("expected nil indexing into []byte, got %v", got)
	}
}

func TestDeepSet_CreatesContainers(t *testing.T) {
	tree := DeepSet(nil, Path{"items", 1, "name"}, "x")

	want := map[string]any{
		"items": []any{nil, map[string]any{"name": "x"}},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestDeepSet_ReplacesWrongKind(t *testing.T) {
	tree := DeepSet(map[string]any{"a": "scalar"}, Path{"a", "b"}, 1)
	if got := DeepGet(tree, Path{"a", "b"}); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}

	tree = DeepSet(map[string]any{"a": map[string]any{}}, Path{"a", 0}, 1)
	if _, ok := DeepGet(tree, Path{"a"}).([]any); !ok {
		t.Errorf("expected a slice at a, got %T", DeepGet(tree, Path{"a"}))
	}
}

func TestDeepSet_EmptyPathReplacesRoot(t *testing.T) {
	if got := DeepSet(map[string]any{"a": 1}, Path{}, "root"); got != "root" {
		t.Errorf("expected root, got %v", got)
	}
}

func TestDeepSet_NegativeIndexIsKey(t *testing.T) {
	tree := DeepSet(nil, Path{"a", -1}, "x")
	if got := DeepGet(tree, Path{"a", "-1"}); got != "x" {
		t.Errorf("expected x, got %v", got)
	}
}

func TestSame(t *testing.T) {
	m := map[string]any{"a": 1}
	s := []any{1, 2}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", nil, m, false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]any{"a": 1}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:1], false},
		{"equal strings", "a", "a", true},
		{"different types", 1, int64(1), false},
	}
	for _, tt := range tests {
		if got := Same(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Same = %v, want %v", tt.name, got, tt.want)
		}
	}
}
