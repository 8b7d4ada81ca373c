// Package record implements Record: the latest entry for a key, joined with
// the blob it points to.
//
// Grounded on original_source/registers/record.py, adapted to the Go
// constructor-returns-error idiom used throughout this module instead of
// raising on construction.
package record

import (
	"bytes"
	"fmt"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
)

// Record pairs an Entry with the Blob its BlobHash refers to.
type Record struct {
	Entry entry.Entry
	Blob  blob.Blob
}

// New builds a Record, failing if the entry's blob hash does not match the
// blob's actual digest — the same consistency check the Python reference
// raises InconsistentRecord for.
func New(e entry.Entry, b blob.Blob) (Record, error) {
	if !e.BlobHash.Equal(b.Digest()) {
		return Record{}, fmt.Errorf("record: entry %q references blob hash %s but the given blob digests to %s", e.Key, e.BlobHash, b.Digest())
	}
	return Record{Entry: e, Blob: b}, nil
}

// Get is a convenience accessor for a scalar blob field.
func (r Record) Get(key string) string {
	return r.Blob.GetString(key)
}

// CanonicalJSON renders the record's HTTP resource body (spec.md §6,
// "Record JSON"):
//
//	{"<key>":{"index-entry-number":"<n>","entry-number":"<n>",
//	  "entry-timestamp":"<ts>","key":"<k>","item":[<blob-canonical-json>]}}
func (r Record) CanonicalJSON() []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeJSONString(&buf, r.Entry.Key)
	buf.WriteByte(':')
	buf.WriteByte('{')

	writeJSONString(&buf, "index-entry-number")
	buf.WriteByte(':')
	writeJSONString(&buf, fmt.Sprintf("%d", r.Entry.Position))
	buf.WriteByte(',')

	writeJSONString(&buf, "entry-number")
	buf.WriteByte(':')
	writeJSONString(&buf, fmt.Sprintf("%d", r.Entry.Position))
	buf.WriteByte(',')

	writeJSONString(&buf, "entry-timestamp")
	buf.WriteByte(':')
	writeJSONString(&buf, r.Entry.Timestamp)
	buf.WriteByte(',')

	writeJSONString(&buf, "key")
	buf.WriteByte(':')
	writeJSONString(&buf, r.Entry.Key)
	buf.WriteByte(',')

	writeJSONString(&buf, "item")
	buf.WriteByte(':')
	buf.WriteByte('[')
	buf.Write(r.Blob.CanonicalJSON())
	buf.WriteByte(']')

	buf.WriteByte('}')
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
