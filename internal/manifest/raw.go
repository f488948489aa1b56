package manifest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// doc is a parsed manifest file of any supported shape
type doc map[string]any

// lookup walks nested maps by key
func (d doc) lookup(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// str returns the value at path as a string; numbers and booleans are formatted
func (d doc) str(path ...string) string {
	v, ok := d.lookup(path...)
	if !ok {
		return ""
	}
	return scalar(v)
}

// sub returns the map at path, or nil
func (d doc) sub(path ...string) doc {
	v, ok := d.lookup(path...)
	if !ok {
		return nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	return doc(m)
}

// list returns the slice at path, or nil
func (d doc) list(path ...string) []any {
	v, ok := d.lookup(path...)
	if !ok {
		return nil
	}
	l, _ := v.([]any)
	return l
}

// stringList returns the string items of the list at path. Map items
// contribute their "name" entry (tS translator lists).
func (d doc) stringList(path ...string) []string {
	var out []string
	for _, item := range d.list(path...) {
		if m, ok := asMap(item); ok {
			item = m["name"]
		}
		if s := scalar(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case doc:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func scalar(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		if s.Hour() == 0 && s.Minute() == 0 && s.Second() == 0 {
			return s.Format(time.DateOnly)
		}
		return s.Format(time.RFC3339)
	}
	return ""
}
