// Package xsv serialises and deserialises registers to and from tabular
// CSV/TSV text. Multivalues always use ";" as their separator, independent
// of the outer column delimiter, and this cannot be changed (spec.md §4.8).
//
// Grounded on original_source/registers/xsv.py, reusing encoding/csv for both
// directions rather than hand-rolling delimiter handling.
package xsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/record"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/schema"
	"github.com/openregister/registers-cli/pkg/validator"
)

// sniffLen is the number of leading bytes sampled to detect the field
// delimiter, mirroring csv.Sniffer's default probe size in the reference
// implementation.
const sniffLen = 2048

// SerialiseBlobs writes headers followed by one row per blob, each row built
// by reading the header fields off the blob in order.
func SerialiseBlobs(w io.Writer, blobs []blob.Blob, headers []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, b := range blobs {
		row, err := serialiseBlobRow(b, headers)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SerialiseRecords writes headers followed by one row per record, each row
// formed from the record's entry columns (position, position, timestamp,
// key) followed by its blob's header fields.
func SerialiseRecords(w io.Writer, records []record.Record, headers []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	blobHeaders := dropEntryHeaders(headers)
	for _, r := range records {
		row, err := serialiseEntryRow(r.Entry)
		if err != nil {
			return err
		}
		row = row[:len(row)-1] // drop the trailing item-hash column

		blobRow, err := serialiseBlobRow(r.Blob, blobHeaders)
		if err != nil {
			return err
		}
		row = append(row, blobRow...)

		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// entryHeaders are the column names an Entry itself occupies; they are
// excluded from the blob-header portion of a record row.
var entryHeaders = []string{"index-entry-number", "entry-number", "entry-timestamp", "key", "item-hash"}

func dropEntryHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		skip := false
		for _, eh := range entryHeaders {
			if h == eh {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, h)
		}
	}
	return out
}

func serialiseBlobRow(b blob.Blob, headers []string) ([]string, error) {
	row := make([]string, len(headers))
	for i, h := range headers {
		v, ok := b.Get(h)
		if !ok {
			row[i] = ""
			continue
		}
		s, err := SerialiseValue(v)
		if err != nil {
			return nil, err
		}
		row[i] = s
	}
	return row, nil
}

func serialiseEntryRow(e entry.Entry) ([]string, error) {
	return []string{
		posString(e.Position),
		posString(e.Position),
		e.Timestamp,
		e.Key,
		e.BlobHash.String(),
	}, nil
}

func posString(pos int) string {
	return fmt.Sprintf("%d", pos)
}

// SerialiseValue renders a blob.Value as its xsv text: a scalar is returned
// unchanged, a list is ";"-joined with any element containing ";" quoted.
func SerialiseValue(v blob.Value) (string, error) {
	if !v.IsList() {
		s, _ := v.Scalar()
		return s, nil
	}
	items, _ := v.Items()
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quoteValue(item)
	}
	return strings.Join(quoted, ";"), nil
}

func quoteValue(value string) string {
	if strings.Contains(value, ";") {
		return `"` + value + `"`
	}
	return value
}

// Deserialise reads a CSV/TSV stream, auto-detecting the field delimiter
// from a leading sample, and coerces every row into a Blob validated against
// schema s.
func Deserialise(data []byte, s *schema.Schema) ([]blob.Blob, error) {
	delim, err := sniffDelimiter(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	blobs := make([]blob.Blob, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowMap := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				rowMap[key] = row[i]
			}
		}
		b, err := Coerce(rowMap, s)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	return blobs, nil
}

// sniffDelimiter inspects a leading sample of data and guesses whether it is
// comma- or tab-delimited, by counting occurrences on the header line.
func sniffDelimiter(data []byte) (rune, error) {
	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	end := bytes.IndexByte(sample, '\n')
	if end == -1 {
		end = len(sample)
	}
	line := sample[:end]

	tabs := bytes.Count(line, []byte{'\t'})
	commas := bytes.Count(line, []byte{','})
	if tabs > commas {
		return '\t', nil
	}
	if commas == 0 && tabs == 0 {
		return 0, fmt.Errorf("xsv: could not detect a field delimiter")
	}
	return ',', nil
}

// DeserialiseValue parses a raw xsv token into a blob.Value according to
// cardinality. An empty (or whitespace-only) token yields ok=false: the
// caller should omit the field entirely rather than store an empty value.
func DeserialiseValue(token string, cardinality schema.Cardinality) (blob.Value, bool) {
	if strings.TrimSpace(token) == "" {
		return blob.Value{}, false
	}

	if cardinality == schema.Many {
		items := splitToken(token)
		cleaned := make([]string, 0, len(items))
		for _, item := range items {
			item = strings.TrimSpace(item)
			if item != "" {
				cleaned = append(cleaned, item)
			}
		}
		if len(cleaned) == 0 {
			return blob.Value{}, false
		}
		return blob.List(cleaned), true
	}

	return blob.String(strings.TrimSpace(token)), true
}

// splitToken splits a multivalue token on ";", respecting CSV-style quoting
// so that a quoted element may itself contain ";".
func splitToken(token string) []string {
	r := csv.NewReader(strings.NewReader(token))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return strings.Split(token, ";")
	}
	return fields
}

// Coerce builds a Blob from a raw row (field name -> text) and validates it
// against s, per spec.md §4.8: blank or ";"-only tokens are omitted, unknown
// fields fail with UnknownAttribute, and the primary key is checked against
// the key grammar before the rest of the row is validated.
func Coerce(data map[string]string, s *schema.Schema) (blob.Blob, error) {
	clean := make(map[string]blob.Value, len(data))

	for key, raw := range data {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || trimmed == ";" {
			continue
		}

		key = strings.TrimSpace(key)
		attr, ok := s.Get(key)
		if !ok {
			return blob.Blob{}, &rerr.UnknownAttribute{Attribute: key, Value: raw}
		}

		if key == s.PrimaryKey {
			if err := validator.ValidateKey(raw); err != nil {
				return blob.Blob{}, err
			}
		}

		v, ok := DeserialiseValue(raw, attr.Cardinality)
		if !ok {
			continue
		}
		clean[key] = v
	}

	if err := validator.Validate(clean, s); err != nil {
		return blob.Blob{}, err
	}

	return blob.New(clean), nil
}
