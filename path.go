package formz

import (
	"reflect"
	"strconv"
	"strings"
)

// Path locates a value inside a nested tree of map[string]any and []any.
// Segments are either string keys or int indices. An empty Path refers to
// the whole tree.
type Path []any

// ParsePath splits a dotted key such as "items.0.name" into a Path.
// Purely numeric segments become int indices.
func ParsePath(key string) Path {
	if key == "" {
		return Path{}
	}
	parts := strings.Split(key, ".")
	path := make(Path, len(parts))
	for i, part := range parts {
		if idx, err := strconv.Atoi(part); err == nil && idx >= 0 {
			path[i] = idx
			continue
		}
		path[i] = part
	}
	return path
}

// String renders the path in dotted form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		switch s := seg.(type) {
		case string:
			parts[i] = s
		case int:
			parts[i] = strconv.Itoa(s)
		default:
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ".")
}

// DeepGet follows path from tree and returns the value found there, or nil
// as soon as an intermediate node is missing. Typed slices and maps with
// string keys are walked like []any and map[string]any.
func DeepGet(tree any, path Path) any {
	current := tree
	for _, seg := range path {
		if current == nil {
			return nil
		}
		if m, ok := asMap(current); ok {
			key, ok := seg.(string)
			if !ok {
				key = Path{seg}.String()
			}
			current = m[key]
			continue
		}
		list, ok := asList(current)
		if !ok {
			return nil
		}
		idx, ok := seg.(int)
		if !ok || idx < 0 || idx >= len(list) {
			return nil
		}
		current = list[idx]
	}
	return current
}

// DeepGetString is DeepGet with a dotted key.
func DeepGetString(tree any, key string) any {
	return DeepGet(tree, ParsePath(key))
}

// DeepSet returns a copy of tree with the node at path replaced by value.
//
// Every container on the path is shallow-copied; every branch off the path
// is shared with the original. Missing intermediates are created as []any
// when the following segment is an int and map[string]any otherwise. A
// typed container on the path, such as []string, is rebuilt as []any or
// map[string]any holding its elements.
func DeepSet(tree any, path Path, value any) any {
	if len(path) == 0 {
		return value
	}
	return setAt(tree, path, value)
}

func setAt(node any, path Path, value any) any {
	seg := path[0]
	if idx, ok := seg.(int); ok && idx >= 0 {
		list, _ := asList(node)
		size := len(list)
		if idx >= size {
			size = idx + 1
		}
		copied := make([]any, size)
		copy(copied, list)
		if len(path) == 1 {
			copied[idx] = value
		} else {
			copied[idx] = setAt(containerFor(copied[idx], path[1]), path[1:], value)
		}
		return copied
	}

	key, ok := seg.(string)
	if !ok {
		key = Path{seg}.String()
	}
	m, _ := asMap(node)
	copied := make(map[string]any, len(m)+1)
	for k, v := range m {
		copied[k] = v
	}
	if len(path) == 1 {
		copied[key] = value
	} else {
		copied[key] = setAt(containerFor(copied[key], path[1]), path[1:], value)
	}
	return copied
}

// containerFor returns existing when it can hold next, otherwise nil so
// setAt allocates a fresh container of the right kind.
func containerFor(existing any, next any) any {
	idx, isIndex := next.(int)
	isIndex = isIndex && idx >= 0
	if _, ok := asList(existing); ok && isIndex {
		return existing
	}
	if _, ok := asMap(existing); ok && !isIndex {
		return existing
	}
	return nil
}

// asList views slices and arrays of any element type as []any. A []any is
// returned as is; other kinds are copied element by element.
func asList(node any) ([]any, bool) {
	if list, ok := node.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(node)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a leaf.
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

// asMap views maps with string keys as map[string]any. A map[string]any is
// returned as is; other map types are copied entry by entry.
func asMap(node any) (map[string]any, bool) {
	if m, ok := node.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(node)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// Same reports whether a and b are the same value by identity. Maps and
// slices compare by their backing pointer, comparable leaves by ==.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
