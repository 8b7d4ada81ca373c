// Package entry implements the log Entry: the append-only record that binds
// a key to a blob hash at a point in time.
//
// Grounded on the teacher's pkg/ledger value-object style (immutable struct,
// constructor validation) and on original_source/registers/entry.py for the
// exact field set and canonical JSON shape used both for the entry digest
// and as the Merkle leaf (spec.md §9 Design Notes resolves the "one shape or
// two" Open Question in favour of a single shape).
package entry

import (
	"bytes"
	"fmt"

	"github.com/openregister/registers-cli/pkg/hash"
)

// Scope identifies who is permitted to submit an entry for a key.
type Scope string

const (
	// User scope: ordinary data entries.
	User Scope = "user"
	// System scope: metadata entries describing the register itself
	// (fields, register-record, custodian, ...).
	System Scope = "system"
)

// Entry is one append-only change record in a Log.
//
// Position is 1-based and assigned by the Log at collection time; a
// freshly-constructed Entry not yet appended to a Log has Position 0.
type Entry struct {
	Key       string
	Scope     Scope
	Timestamp string
	BlobHash  hash.Hash
	Position  int
}

// New constructs an Entry with no position assigned. Key must be non-empty;
// neither New nor the Log checks the key grammar (see
// validator.ValidateKey).
func New(key string, scope Scope, timestamp string, blobHash hash.Hash) (Entry, error) {
	if key == "" {
		return Entry{}, fmt.Errorf("entry: key must not be empty")
	}
	return Entry{Key: key, Scope: scope, Timestamp: timestamp, BlobHash: blobHash}, nil
}

// WithPosition returns a copy of e with Position set to pos.
func (e Entry) WithPosition(pos int) Entry {
	e.Position = pos
	return e
}

// CanonicalJSON renders the entry as the single-element JSON array shape
// used both for digesting and as Merkle leaf bytes:
//
//	[{"index-entry-number":"1","entry-number":"1","entry-timestamp":"...",
//	  "key":"...","item-hash":["sha-256:..."]}]
func (e Entry) CanonicalJSON() []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.WriteByte('{')
	writeField(&buf, "index-entry-number", posString(e.Position), true)
	buf.WriteByte(',')
	writeField(&buf, "entry-number", posString(e.Position), true)
	buf.WriteByte(',')
	writeField(&buf, "entry-timestamp", e.Timestamp, true)
	buf.WriteByte(',')
	writeField(&buf, "key", e.Key, true)
	buf.WriteByte(',')
	writeArrayField(&buf, "item-hash", []string{e.BlobHash.String()})
	buf.WriteByte('}')
	buf.WriteByte(']')
	return buf.Bytes()
}

func posString(pos int) string {
	return fmt.Sprintf("%d", pos)
}

func writeField(buf *bytes.Buffer, key, value string, quoted bool) {
	writeJSONString(buf, key)
	buf.WriteByte(':')
	if quoted {
		writeJSONString(buf, value)
	} else {
		buf.WriteString(value)
	}
}

func writeArrayField(buf *bytes.Buffer, key string, values []string) {
	writeJSONString(buf, key)
	buf.WriteByte(':')
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, v)
	}
	buf.WriteByte(']')
}

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

// Digest returns the SHA-256 digest of the entry's canonical JSON form.
func (e Entry) Digest() hash.Hash {
	return hash.SHA256(e.CanonicalJSON())
}

// Equal reports digest equality, matching the Python reference's __eq__.
func (e Entry) Equal(other Entry) bool {
	return e.Digest().Equal(other.Digest())
}

// String implements fmt.Stringer, mirroring the Python reference's __repr__
// (which returns to_json()).
func (e Entry) String() string {
	return string(e.CanonicalJSON())
}
