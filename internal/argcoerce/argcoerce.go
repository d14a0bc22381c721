// Package argcoerce turns CLI positional arguments (raw JSON text) into the
// hashable, read-only values iotaa task functions expect (spec.md §6:
// "values that would yield key-value maps or sequences are coerced to
// hashable, read-only forms so they may be used as dedup keys").
package argcoerce

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Parse decodes each raw JSON argument and freezes it into a hashable form.
func Parse(raw []string) ([]any, error) {
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		var v any
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			return nil, fmt.Errorf("iotaa: argument %q is not valid JSON: %w", r, err)
		}
		out = append(out, freeze(v))
	}
	return out, nil
}

// Seq is the frozen form of a JSON array: the array's canonical JSON text.
// A named string type is itself comparable and hashable, so a Seq is safe
// to use directly as a map key or in a task name's dedup identity — unlike
// a struct holding a []any, which Go refuses to compare or hash.
type Seq string

// Len reports the number of elements.
func (s Seq) Len() int {
	var elems []json.RawMessage
	_ = json.Unmarshal([]byte(s), &elems)
	return len(elems)
}

// At returns the element at position i, frozen the same way Parse freezes
// top-level arguments.
func (s Seq) At(i int) any {
	var elems []json.RawMessage
	_ = json.Unmarshal([]byte(s), &elems)
	var v any
	_ = json.Unmarshal(elems[i], &v)
	return freeze(v)
}

// Mapping is the frozen form of a JSON object: the object's canonical JSON
// text. encoding/json sorts object keys (at every nesting level) when
// marshaling a map, so two Mappings built from the same key/value pairs are
// byte-identical regardless of the input's original key order — which is
// what makes the plain string comparison underlying Mapping equality and
// hashing order-independent. Like Seq, it is a named string type: genuinely
// comparable and hashable, not merely equal under reflect.DeepEqual.
type Mapping string

// Keys returns the mapping's keys in sorted order.
func (m Mapping) Keys() []string {
	var obj map[string]json.RawMessage
	_ = json.Unmarshal([]byte(m), &obj)
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for key, frozen the same way Parse freezes
// top-level arguments, and whether it was present.
func (m Mapping) Get(key string) (any, bool) {
	var obj map[string]json.RawMessage
	_ = json.Unmarshal([]byte(m), &obj)
	raw, ok := obj[key]
	if !ok {
		return nil, false
	}
	var v any
	_ = json.Unmarshal(raw, &v)
	return freeze(v), true
}

// freeze converts a decoded JSON value (float64, string, bool, nil, []any,
// map[string]any) into a form safe to use as a map key: scalars pass
// through unchanged, []any becomes Seq, map[string]any becomes Mapping.
// json.Marshal already canonicalizes the entire subtree (sorting object
// keys at every level, preserving array order), so no manual recursion is
// needed to reach a deterministic encoding.
func freeze(v any) any {
	switch t := v.(type) {
	case []any:
		b, err := json.Marshal(t)
		if err != nil {
			return Seq("[]")
		}
		return Seq(b)
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return Mapping("{}")
		}
		return Mapping(b)
	default:
		return t
	}
}
