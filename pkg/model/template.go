package model

import (
	"reflect"
	"sort"
)

// Template is the Reference Template: a nested JSON-shaped object whose keys
// fix the payload expected by the server. Nested maps are internal nodes,
// everything else (including slices) is a leaf.
type Template map[string]any

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	if t == nil {
		return nil
	}
	return Template(DeepCopy(map[string]any(t)).(map[string]any))
}

// Leaves returns every leaf path in sorted order.
func (t Template) Leaves() []string {
	var out []string
	walkTemplate(t, "", func(path string, node bool) {
		if !node {
			out = append(out, path)
		}
	})
	sort.Strings(out)
	return out
}

// Nodes returns every internal node path (excluding the root) in sorted order.
func (t Template) Nodes() []string {
	var out []string
	walkTemplate(t, "", func(path string, node bool) {
		if node {
			out = append(out, path)
		}
	})
	sort.Strings(out)
	return out
}

// Has reports whether path names a leaf or an internal node.
func (t Template) Has(path string) bool {
	_, ok := Lookup(t, path)
	return ok
}

// IsLeaf reports whether path names a leaf of the template.
func (t Template) IsLeaf(path string) bool {
	v, ok := Lookup(t, path)
	return ok && !IsNode(v)
}

func walkTemplate(node map[string]any, prefix string, visit func(path string, node bool)) {
	for _, key := range SortedKeys(node) {
		path := JoinPath(prefix, key)
		if child, ok := AsNode(node[key]); ok {
			visit(path, true)
			walkTemplate(child, path, visit)
			continue
		}
		visit(path, false)
	}
}

// IsNode reports whether v is an internal node (a JSON object).
func IsNode(v any) bool {
	_, ok := AsNode(v)
	return ok
}

// AsNode returns v as a map when it is an internal node. Template instances
// are accepted alongside plain maps.
func AsNode(v any) (map[string]any, bool) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, true
	case Template:
		return map[string]any(typed), true
	default:
		return nil, false
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves a dotted path inside a nested object.
func Lookup(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range SplitPath(path) {
		node, ok := AsNode(current)
		if !ok {
			return nil, false
		}
		next, ok := node[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Assign writes value at a dotted path, creating intermediate maps. Existing
// non-map values along the way are replaced.
func Assign(root map[string]any, path string, value any) {
	if root == nil || path == "" {
		return
	}
	segments := SplitPath(path)
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := AsNode(node[segment])
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// IsEmpty reports whether a value carries no data: nil, the empty string, or
// an empty slice or map.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch typed := v.(type) {
	case string:
		return typed == ""
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// DeepCopy clones maps and slices recursively; other values are returned as is.
func DeepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = DeepCopy(v)
		}
		return clone
	case Template:
		return DeepCopy(map[string]any(typed))
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = DeepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
