// Package payload provides typed views over deserialized TV-client API
// responses. A payload is the untyped tree produced by encoding/json:
// map[string]any objects, []any arrays and scalar leaves.
package payload

import "encoding/json"

// Object returns v as a JSON object, or nil if it is not one.
func Object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Array returns v as a JSON array, or nil if it is not one.
func Array(v any) []any {
	a, _ := v.([]any)
	return a
}

// String returns v as a string, or "" if it is not one.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Dig walks v along keys. String keys index objects and int keys index
// arrays. Any missing or mistyped step yields nil.
func Dig(v any, keys ...any) any {
	cur := v
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[key]
		case int:
			a, ok := cur.([]any)
			if !ok || key < 0 || key >= len(a) {
				return nil
			}
			cur = a[key]
		default:
			return nil
		}
	}
	return cur
}

// DigObject is Dig restricted to object keys, returning the object found at
// the end of the path or nil.
func DigObject(v any, keys ...string) map[string]any {
	cur := Object(v)
	for _, k := range keys {
		if cur == nil {
			return nil
		}
		cur = Object(cur[k])
	}
	return cur
}

// Ensure returns parent[key] as an object, creating it when absent or not
// an object.
func Ensure(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	parent[key] = m
	return m
}

// Has reports whether v is an object containing key with a non-nil value.
func Has(v any, key string) bool {
	m := Object(v)
	return m != nil && m[key] != nil
}

// Truthy mirrors the client's loose truth test for flags carried as JSON
// values: false, 0, "", null and absent are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func number(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		f, _ := t.Float64()
		return int(f)
	default:
		return 0
	}
}
