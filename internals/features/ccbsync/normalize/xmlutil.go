package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Defensive navigation over mxj's generic maps. CCB responses omit nodes,
// collapse single-element lists into objects, and flip between string and
// numeric ids, so every access goes through these helpers. Exported because
// the fetch layer walks the same maps.

// Dig walks a path of keys, returning nil as soon as anything is missing.
func Dig(v interface{}, path ...string) interface{} {
	for _, key := range path {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		v, ok = m[key]
		if !ok {
			return nil
		}
	}
	return v
}

// DigSlice walks a path and always returns a slice: a missing node yields nil,
// a singleton yields a one-element slice.
func DigSlice(v interface{}, path ...string) []interface{} {
	node := Dig(v, path...)
	if node == nil {
		return nil
	}
	if s, ok := node.([]interface{}); ok {
		return s
	}
	return []interface{}{node}
}

// Str coerces a leaf value to a trimmed string. Handles plain strings, numeric
// leaves, and mxj element maps carrying attributes plus "#text".
func Str(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		return Str(t["#text"])
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// Attr reads an XML attribute off an element map (mxj prefixes them with "-").
func Attr(v interface{}, name string) string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	return Str(m["-"+name])
}

// IDOf resolves an element's id from either an attribute or a child node.
func IDOf(v interface{}, childKeys ...string) string {
	if id := Attr(v, "id"); id != "" {
		return id
	}
	for _, key := range childKeys {
		if id := Str(Dig(v, key)); id != "" {
			return id
		}
	}
	return ""
}

var instantLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant tries the timestamp layouts CCB has been observed to emit.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CombineDateTime joins a bare date with an optional clock time.
func CombineDateTime(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, false
	}
	if clock == "" {
		return ParseInstant(date)
	}
	if len(clock) == 5 { // HH:MM
		clock += ":00"
	}
	return ParseInstant(date + " " + clock)
}
