package layer

import (
	"reflect"
	"slices"
	"strings"
)

// DeepMerge merges src into dst and returns dst. Nested maps merge key by
// key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

// GetByPath looks up a dot-separated path such as "editor.tabWidth".
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// SetByPath stores value at a dot-separated path, creating intermediate
// maps. A non-map value in the way is replaced.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil || path == "" {
		return
	}
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// DeleteByPath removes the value at path. It returns true if something
// was removed.
func DeleteByPath(data map[string]any, path string) bool {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	key := parts[len(parts)-1]
	if _, ok := current[key]; !ok {
		return false
	}
	delete(current, key)
	return true
}

// Flatten turns nested maps into one map keyed by dot-separated path.
func Flatten(data map[string]any) map[string]any {
	result := make(map[string]any)
	flatten(data, "", result)
	return result
}

func flatten(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, key, result)
			continue
		}
		result[key] = val
	}
}

// Diff returns the sorted paths whose values differ between old and new,
// including paths present in only one of them.
func Diff(old, new map[string]any) []string {
	oldFlat := Flatten(old)
	newFlat := Flatten(new)

	var changed []string
	for path, nv := range newFlat {
		if ov, ok := oldFlat[path]; !ok || !reflect.DeepEqual(ov, nv) {
			changed = append(changed, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)
	return changed
}
