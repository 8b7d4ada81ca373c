// Package schema implements the register's Schema: the set of attributes
// derived from its metadata log, one of which is the primary key.
//
// Grounded on original_source/registers/schema.py, with the per-datatype
// helper-constructor family (string/string_set/integer/integer_set/...)
// collapsed into a single New(uid, datatype, cardinality, description)
// constructor — idiomatic
// Go favours one parameterised function over twenty near-identical ones.
package schema

import (
	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/rerr"
)

// Datatype is one of the ten closed datatype tags (spec.md §4.6).
type Datatype string

const (
	Curie     Datatype = "curie"
	Datetime  Datatype = "datetime"
	Name      Datatype = "name"
	Hash      Datatype = "hash"
	Integer   Datatype = "integer"
	Period    Datatype = "period"
	StringT   Datatype = "string"
	Text      Datatype = "text"
	Timestamp Datatype = "timestamp"
	URL       Datatype = "url"
)

// Datatypes lists every valid Datatype, in the order spec.md §4.6 presents
// them.
var Datatypes = []Datatype{Curie, Datetime, Name, Hash, Integer, Period, StringT, Text, Timestamp, URL}

// Valid reports whether d is one of the ten closed datatype tags.
func (d Datatype) Valid() bool {
	for _, dt := range Datatypes {
		if dt == d {
			return true
		}
	}
	return false
}

// Cardinality is an attribute's value shape: a single scalar or a list.
type Cardinality string

const (
	One  Cardinality = "1"
	Many Cardinality = "n"
)

// Attribute describes one field a register's blobs may carry.
type Attribute struct {
	UID         string
	Datatype    Datatype
	Cardinality Cardinality
	Description string
}

// New constructs an Attribute.
func New(uid string, datatype Datatype, cardinality Cardinality, description string) Attribute {
	return Attribute{UID: uid, Datatype: datatype, Cardinality: cardinality, Description: description}
}

// ToBlob renders the attribute as its metadata blob representation
// (the `field:<uid>` record body).
func (a Attribute) ToBlob() blob.Blob {
	fields := map[string]blob.Value{
		"field":       blob.String(a.UID),
		"datatype":    blob.String(string(a.Datatype)),
		"cardinality": blob.String(string(a.Cardinality)),
	}
	if a.Description != "" {
		fields["text"] = blob.String(a.Description)
	}
	return blob.New(fields)
}

// FromBlob transforms a metadata blob into an Attribute (spec.md §4.5):
// the uid, datatype, cardinality and description are read from the blob's
// `field`, `datatype`, `cardinality`, `text` fields.
func FromBlob(b blob.Blob) (Attribute, error) {
	uid := b.GetString("field")
	if uid == "" {
		return Attribute{}, &rerr.MissingAttributeIdentifier{}
	}

	datatype := Datatype(b.GetString("datatype"))
	if !datatype.Valid() {
		return Attribute{}, &rerr.InvalidValue{Datatype: "datatype", Value: string(datatype)}
	}

	cardinality := Cardinality(b.GetString("cardinality"))
	if cardinality != One && cardinality != Many {
		return Attribute{}, &rerr.InvalidValue{Datatype: "cardinality", Value: string(cardinality)}
	}

	return New(uid, datatype, cardinality, b.GetString("text")), nil
}

// Schema is the set of attributes for a register, one of which — named by
// PrimaryKey — is the register's primary key.
type Schema struct {
	PrimaryKey string
	attrs      []Attribute
}

// NewSchema builds a Schema with no attributes.
func NewSchema(primaryKey string) *Schema {
	return &Schema{PrimaryKey: primaryKey}
}

// Attributes returns the schema's attributes in insertion order.
func (s *Schema) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Get returns the attribute with the given uid, if any.
func (s *Schema) Get(uid string) (Attribute, bool) {
	for _, a := range s.attrs {
		if a.UID == uid {
			return a, true
		}
	}
	return Attribute{}, false
}

// Insert adds an attribute, failing if one with the same uid already
// exists.
func (s *Schema) Insert(a Attribute) error {
	if _, ok := s.Get(a.UID); ok {
		return &rerr.AttributeAlreadyExists{UID: a.UID}
	}
	s.attrs = append(s.attrs, a)
	return nil
}

// IsReady reports whether the schema has a primary-key attribute plus at
// least one other (spec.md §4.5, §4.9).
func (s *Schema) IsReady() bool {
	if len(s.attrs) <= 1 {
		return false
	}
	_, ok := s.Get(s.PrimaryKey)
	return ok
}
