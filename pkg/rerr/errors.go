// Package rerr holds the closed error-kind taxonomy shared by the register
// core (spec.md §7): Parse, Integrity, Schema, Value and Operational errors.
// Named rerr, not errors, to avoid colliding with the standard library
// package that every file importing it also needs.
//
// Grounded on the teacher's pkg/database/errors.go sentinel-variable
// convention (exported `Err*` values, wrapped at the call site with
// fmt.Errorf("%w: ...", err) so errors.Is keeps working) and on
// original_source/registers/exceptions.py for the exact kind set and the
// structured fields each kind carries.
package rerr

import (
	"errors"
	"fmt"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/hash"
)

// Category sentinels. Every structured error type below implements Unwrap()
// returning one of these, so callers can test with errors.Is(err,
// rerr.ErrIntegrity) for the category or errors.As for the detail.
var (
	ErrParse       = errors.New("rerr: parse error")
	ErrIntegrity   = errors.New("rerr: integrity error")
	ErrSchema      = errors.New("rerr: schema error")
	ErrValidation  = errors.New("rerr: validation error")
	ErrOperational = errors.New("rerr: operational error")
)

// Parse-category sentinels, each wrapping ErrParse. pkg/rsf defines and
// returns its own parallel sentinels, which do not wrap these or ErrParse.
var (
	ErrUnknownCommand          = fmt.Errorf("%w: unknown command", ErrParse)
	ErrMalformedAddItem        = fmt.Errorf("%w: malformed add-item", ErrParse)
	ErrMalformedAppendEntry    = fmt.Errorf("%w: malformed append-entry", ErrParse)
	ErrMalformedAssertRootHash = fmt.Errorf("%w: malformed assert-root-hash", ErrParse)
	ErrBadScope                = fmt.Errorf("%w: bad scope", ErrParse)
	ErrBadHash                 = fmt.Errorf("%w: bad hash", ErrParse)
)

// OrphanEntry reports an append-entry command whose blob_hash was never
// added to the pool.
type OrphanEntry struct {
	Key      string
	Position int
	BlobHash hash.Hash
}

func (e *OrphanEntry) Error() string {
	return fmt.Sprintf("entry %d for key %s points to an unknown blob (%s)", e.Position, e.Key, e.BlobHash)
}

func (e *OrphanEntry) Unwrap() error { return ErrIntegrity }

// InconsistentLog reports that an assert-root-hash command did not match
// the log's actual root at the point it was consumed.
type InconsistentLog struct {
	Expected hash.Hash
	Actual   hash.Hash
	Size     int
}

func (e *InconsistentLog) Error() string {
	return fmt.Sprintf("the log at size %d was expected to have root hash %s but it is %s", e.Size, e.Expected, e.Actual)
}

func (e *InconsistentLog) Unwrap() error { return ErrIntegrity }

// DuplicatedEntry reports an append-entry whose key already has the given
// blob as its latest value. Never fail-fast: outside relaxed mode it is
// accumulated and the entry skipped; in relaxed mode the entry is appended
// and no error is recorded (spec.md §4.10).
type DuplicatedEntry struct {
	Key  string
	Blob blob.Blob
}

func (e *DuplicatedEntry) Error() string {
	return fmt.Sprintf("the latest entry for %s already has blob %s", e.Key, e.Blob)
}

func (e *DuplicatedEntry) Unwrap() error { return ErrIntegrity }

// Schema-category errors.

type MissingIdentifier struct{}

func (e *MissingIdentifier) Error() string { return "register has no identifier" }
func (e *MissingIdentifier) Unwrap() error { return ErrSchema }

type MissingAttributeIdentifier struct{}

func (e *MissingAttributeIdentifier) Error() string { return "attributes must have a unique identifier" }
func (e *MissingAttributeIdentifier) Unwrap() error { return ErrSchema }

type AttributeAlreadyExists struct {
	UID string
}

func (e *AttributeAlreadyExists) Error() string {
	return fmt.Sprintf("attribute %q already exists", e.UID)
}
func (e *AttributeAlreadyExists) Unwrap() error { return ErrSchema }

type MissingPrimaryKey struct {
	PrimaryKey string
	Value      string
}

func (e *MissingPrimaryKey) Error() string {
	return fmt.Sprintf("the primary key attribute %q must be present in %q", e.PrimaryKey, e.Value)
}
func (e *MissingPrimaryKey) Unwrap() error { return ErrSchema }

type UnknownAttribute struct {
	Attribute string
	Value     string
}

func (e *UnknownAttribute) Error() string {
	return fmt.Sprintf("the attribute %q in %q is not present in the schema", e.Attribute, e.Value)
}
func (e *UnknownAttribute) Unwrap() error { return ErrSchema }

type CardinalityMismatch struct {
	Attribute   string
	Cardinality string
	Value       string
}

func (e *CardinalityMismatch) Error() string {
	return fmt.Sprintf("the attribute %q expects %q to be cardinality %q", e.Attribute, e.Value, e.Cardinality)
}
func (e *CardinalityMismatch) Unwrap() error { return ErrSchema }

// Value-category errors.

// RepresentationError reports a non-string value where the datatype grammar
// requires a string representation.
type RepresentationError struct {
	Attribute string
	Value     string
	Datatype  string
}

func (e *RepresentationError) Error() string {
	return fmt.Sprintf("the value for %q has a value %q that is not a string representation for %q", e.Attribute, e.Value, e.Datatype)
}
func (e *RepresentationError) Unwrap() error { return ErrValidation }

// InvalidValue reports a value that fails its datatype's grammar.
//
// Datatype holds the *expected* datatype tag (e.g. "curie"); Value holds
// the offending token. This is the corrected field assignment resolved in
// spec.md §9's Open Question — the Python reference has a bug where its
// constructor assigns `value` to both fields.
type InvalidValue struct {
	Datatype string
	Value    string
}

func (e *InvalidValue) Error() string {
	return fmt.Sprintf("%q is not a valid %q", e.Value, e.Datatype)
}
func (e *InvalidValue) Unwrap() error { return ErrValidation }

// InvalidKey reports a key that fails the key grammar (spec.md §4.6).
type InvalidKey struct {
	Value string
}

func (e *InvalidKey) Error() string {
	return fmt.Sprintf("%q is not a valid key", e.Value)
}
func (e *InvalidKey) Unwrap() error { return ErrValidation }

// Operational-category errors.

// CommandError reports an operation attempted against a register that is
// not in the required readiness state (spec.md §4.9).
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string { return e.Reason }
func (e *CommandError) Unwrap() error { return ErrOperational }
