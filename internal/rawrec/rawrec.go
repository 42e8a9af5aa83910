// Package rawrec provides null-safe access into the raw, semi-structured
// alert records emitted by scanner export tools. A missing or mistyped
// nested path always degrades to a zero value, never to an error.
package rawrec

import (
	"encoding/json"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// codec decodes numbers as json.Number so tool-native integer ids survive
// stringification without a float round-trip (42, not 4.2e+01).
var codec = jsoniter.Config{UseNumber: true}.Froze()

// Record is one raw alert: a string-keyed structure mixing scalars, nested
// objects and lists.
type Record map[string]any

// DecodeBatch parses a source batch into its sequence of raw records.
// A batch that is not a JSON array of objects is malformed as a whole.
func DecodeBatch(data []byte) ([]Record, error) {
	var records []Record
	if err := codec.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed alert batch: %w", err)
	}
	return records, nil
}

// Get walks the given key path and returns the raw value, or nil if any
// step of the path is absent or not an object.
func (r Record) Get(path ...string) any {
	var current any = map[string]any(r)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
		if current == nil {
			return nil
		}
	}
	return current
}

// String returns the value at the path rendered as a string, or "" when the
// path is absent.
func (r Record) String(path ...string) string {
	return Stringify(r.Get(path...))
}

// Bool returns the boolean at the path, or false when the path is absent or
// holds a non-boolean.
func (r Record) Bool(path ...string) bool {
	b, ok := r.Get(path...).(bool)
	return ok && b
}

// List returns the list at the path, or nil when the path is absent or holds
// a non-list.
func (r Record) List(path ...string) []any {
	l, _ := r.Get(path...).([]any)
	return l
}

// Stringify renders a decoded JSON scalar the way its source text wrote it.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
