// Package blob implements the content-addressed blob: an immutable,
// unordered set of attribute name/value pairs, canonicalised to a
// deterministic JSON byte string and hashed to a digest.
//
// Grounded on the teacher's pkg/commitment canonicalisation helper
// (CanonicalizeJSON: sort map keys, marshal compactly) but hand-rolled per
// spec.md §9's Design Notes, which forbid relying on a general JSON
// library's default serialiser for digest-critical output: encoding/json
// HTML-escapes '<', '>', '&' by default and offers no contractual guarantee
// about separator whitespace across versions, so this package encodes
// values itself, escaping only the characters RFC 8259 requires.
package blob

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/openregister/registers-cli/pkg/hash"
)

// Value is either a scalar string or an ordered list of strings. Exactly
// one of the two forms is populated; IsList reports which.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// String constructs a scalar Value.
func String(s string) Value { return Value{scalar: s} }

// List constructs a list-valued Value. The slice is copied.
func List(items []string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{list: cp, isList: true}
}

// IsList reports whether the value is a list (cardinality "many").
func (v Value) IsList() bool { return v.isList }

// Scalar returns the scalar form and whether v is in fact scalar.
func (v Value) Scalar() (string, bool) {
	if v.isList {
		return "", false
	}
	return v.scalar, true
}

// Items returns the list form and whether v is in fact a list.
func (v Value) Items() ([]string, bool) {
	if !v.isList {
		return nil, false
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out, true
}

// Blob is an immutable, content-addressed set of attribute/value pairs.
type Blob struct {
	fields map[string]Value
}

// New builds a Blob from a map of fields. The map is copied; Blob is
// thereafter immutable.
func New(fields map[string]Value) Blob {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Blob{fields: cp}
}

// Get returns the value for key and whether it is present.
func (b Blob) Get(key string) (Value, bool) {
	v, ok := b.fields[key]
	return v, ok
}

// GetString is a convenience accessor for scalar fields, returning "" if the
// field is absent or is a list.
func (b Blob) GetString(key string) string {
	v, ok := b.fields[key]
	if !ok {
		return ""
	}
	s, _ := v.Scalar()
	return s
}

// Keys returns the field names in sorted order.
func (b Blob) Keys() []string {
	keys := make([]string, 0, len(b.fields))
	for k := range b.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields.
func (b Blob) Len() int { return len(b.fields) }

// CanonicalJSON renders the blob per spec.md §4.1: sorted keys, minimal
// separators (',' and ':'), no whitespace, non-ASCII left as raw UTF-8.
func (b Blob) CanonicalJSON() []byte {
	keys := b.Keys()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, k)
		buf.WriteByte(':')
		writeValueJSON(&buf, b.fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeValueJSON(buf *bytes.Buffer, v Value) {
	if v.isList {
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, item)
		}
		buf.WriteByte(']')
		return
	}
	writeJSONString(buf, v.scalar)
}

// writeJSONString writes s as an RFC 8259 JSON string literal without
// escaping non-ASCII runes (they are emitted as raw UTF-8 bytes) and
// without HTML-escaping '<', '>', '&' — only the characters the grammar
// requires to be escaped.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// Digest returns the SHA-256 digest of the blob's canonical JSON encoding.
func (b Blob) Digest() hash.Hash {
	return hash.SHA256(b.CanonicalJSON())
}

// Equal reports whether two blobs share the same digest. Per spec.md §3,
// blob equality is digest equality.
func (b Blob) Equal(other Blob) bool {
	return b.Digest().Equal(other.Digest())
}

// String implements fmt.Stringer by returning the canonical JSON form.
func (b Blob) String() string {
	return string(b.CanonicalJSON())
}

// Parse reconstructs a Blob from a decoded JSON object, as produced by
// encoding/json when unmarshalling into map[string]any — used by the RSF
// parser when reading an add-item command. List values must be
// homogeneous []any of strings.
func Parse(raw map[string]any) (Blob, error) {
	fields := make(map[string]Value, len(raw))
	for k, v := range raw {
		switch vv := v.(type) {
		case string:
			fields[k] = String(vv)
		case []any:
			items := make([]string, 0, len(vv))
			for _, el := range vv {
				s, ok := el.(string)
				if !ok {
					return Blob{}, fmt.Errorf("blob: field %q has a non-string element in its value list", k)
				}
				items = append(items, s)
			}
			fields[k] = List(items)
		default:
			return Blob{}, fmt.Errorf("blob: field %q has an unsupported JSON value type %T", k, v)
		}
	}
	return New(fields), nil
}

// ToMap renders the blob back to a generic map, suitable for
// encoding/json.Marshal when producing the non-canonical, presentation-only
// JSON bodies described in spec.md §6 (entry/record resource bodies embed
// blob fields via this shape).
func (b Blob) ToMap() map[string]any {
	out := make(map[string]any, len(b.fields))
	for k, v := range b.fields {
		if v.isList {
			items := make([]string, len(v.list))
			copy(items, v.list)
			out[k] = items
		} else {
			out[k] = v.scalar
		}
	}
	return out
}
