// Package jcanon implements the canonical JSON encoding spec.md's Design
// Notes §9 calls for: sorted object keys (recursively), no insignificant
// whitespace, UTF-8, no HTML escaping. This is not encoding/json's default
// behavior (map key order is randomized by Marshal, and HTML characters are
// escaped by default), so it must be hand-rolled — grounded on the
// sunholo-data-ailang corpus's internal/schema.MarshalDeterministic, which
// solves the exact same problem the same way: marshal once with HTML
// escaping disabled, decode into a generic map, then recursively re-marshal
// with keys sorted.
package jcanon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Marshal produces the canonical JSON encoding of v: object keys sorted
// lexicographically at every nesting level, no inserted whitespace, and no
// HTML escaping of '<', '>', or '&'. Two values that are deep-equal under
// encoding/json's own decoding always produce byte-identical output, which
// is what makes this suitable for content hashing (internal/pkgfmt's
// manifest_sha and toc_sha).
func Marshal(v any) ([]byte, error) {
	raw, err := encode(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		// encode always emits valid JSON, scalars included, so this is
		// only a fallback: the first encode is returned unchanged.
		return raw, nil
	}
	return marshalSorted(generic)
}

// encode runs v through encoding/json once with HTML escaping disabled,
// trimming the trailing newline json.Encoder always appends.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("jcanon: marshal: %w", err)
	}
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// marshalSorted recursively re-encodes a decoded JSON value (map[string]any,
// []any, or a scalar) with every object's keys sorted.
func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := encode(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil

	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			buf.Write(itemJSON)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	default:
		return encode(v)
	}
}

// Equal reports whether two JSON-encodable values canonicalize to the same
// bytes, regardless of map iteration order on either side.
func Equal(a, b any) (bool, error) {
	ca, err := Marshal(a)
	if err != nil {
		return false, err
	}
	cb, err := Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}
