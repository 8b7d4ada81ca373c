// Package register implements Register, the top-level object composing a
// data log and a metadata log into the full state of a register: its
// records, schema, context and readiness.
//
// Grounded on original_source/registers/register.py.
package register

import (
	"errors"
	"strings"

	"github.com/openregister/registers-cli/pkg/patch"
	"github.com/openregister/registers-cli/pkg/record"
	"github.com/openregister/registers-cli/pkg/reglog"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/rsf"
	"github.com/openregister/registers-cli/pkg/schema"
)

const fieldPrefix = "field:"

// Register is a register's full state: its data log, metadata log, the
// commands it was built from, and the identifier/update-date derived from
// its metadata.
type Register struct {
	data       *reglog.Log
	metadata   *reglog.Log
	commands   []rsf.Command
	uid        string
	updateDate string
}

// New returns an empty Register.
func New() *Register {
	return &Register{data: reglog.New(), metadata: reglog.New()}
}

// Load builds a Register from a full command sequence. relaxed controls
// whether DuplicatedEntry violations are tolerated (spec.md §4.10).
func Load(commands []rsf.Command, relaxed bool) (*Register, error) {
	r := New()
	if len(commands) == 0 {
		return r, nil
	}
	if err := r.loadCommands(commands, relaxed); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Register) loadCommands(commands []rsf.Command, relaxed bool) error {
	result, err := reglog.Collect(commands, r.data, r.metadata, relaxed)
	if err != nil {
		return err
	}
	r.commands = append(r.commands, commands...)
	r.data = result.Data
	r.metadata = result.Metadata
	r.collectBasicMetadata()
	return errors.Join(result.Errors...)
}

func (r *Register) collectBasicMetadata() {
	if rec, ok, _ := r.metadata.LatestRecord("name"); ok {
		r.uid = rec.Get("name")
	}
	r.collectUpdateDate()
}

func (r *Register) collectUpdateDate() {
	entries := r.data.Entries()
	if len(entries) > 0 {
		r.updateDate = entries[len(entries)-1].Timestamp
		return
	}
	metaEntries := r.metadata.Entries()
	if len(metaEntries) > 0 {
		r.updateDate = metaEntries[len(metaEntries)-1].Timestamp
	}
}

// Apply appends a patch's commands to the register (never in relaxed mode).
// An orphan entry or a root-hash mismatch stops it; an entry that repeats its
// key's current blob is skipped and reported as a DuplicatedEntry in the
// returned error, after the rest of the patch has been applied.
func (r *Register) Apply(p *patch.Patch) error {
	return r.loadCommands(p.Commands, false)
}

// UID returns the register's identifier, and whether one has been derived
// yet (the metadata log carries a "name" record).
func (r *Register) UID() (string, bool) {
	return r.uid, r.uid != ""
}

// Commands returns every command the register has been built or updated
// from, in application order.
func (r *Register) Commands() []rsf.Command {
	out := make([]rsf.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Log returns the register's data (user-scope) log.
func (r *Register) Log() *reglog.Log { return r.data }

// Metalog returns the register's metadata (system-scope) log.
func (r *Register) Metalog() *reglog.Log { return r.metadata }

// Records computes the latest record per key across the data log.
func (r *Register) Records() (map[string]record.Record, error) {
	return r.data.Snapshot(-1)
}

// Record returns the current record for key, if any.
func (r *Register) Record(key string) (record.Record, bool, error) {
	return r.data.LatestRecord(key)
}

// Trail returns every entry ever recorded for key, in position order.
func (r *Register) Trail(key string) []rsf.Command {
	entries := r.data.Trail(key)
	commands := make([]rsf.Command, len(entries))
	for i, e := range entries {
		commands[i] = rsf.NewAppendEntry(e)
	}
	return commands
}

// Schema derives the current schema from the metadata log's field:* records.
func (r *Register) Schema() (*schema.Schema, error) {
	if r.uid == "" {
		return nil, &rerr.MissingIdentifier{}
	}

	snapshot, err := r.metadata.Snapshot(-1)
	if err != nil {
		return nil, err
	}

	s := schema.NewSchema(r.uid)
	for key, rec := range snapshot {
		if !strings.HasPrefix(key, fieldPrefix) {
			continue
		}
		attr, err := schema.FromBlob(rec.Blob)
		if err != nil {
			return nil, err
		}
		if err := s.Insert(attr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Context collects the register's context document (spec.md §6, "Context
// JSON"): record/entry totals, last-updated timestamp, and — when present —
// the register's own register:<uid> record and its custodian.
func (r *Register) Context() (map[string]any, error) {
	if r.uid == "" {
		return nil, &rerr.MissingIdentifier{}
	}

	records, err := r.Records()
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"total-records": len(records),
		"total-entries": r.data.Size(),
		"last-updated":  r.updateDate,
	}

	registerKey := "register:" + r.uid
	if rec, ok, _ := r.metadata.LatestRecord(registerKey); ok {
		result["register-record"] = rec.Blob.ToMap()
	}

	if rec, ok, _ := r.metadata.LatestRecord("custodian"); ok {
		result["custodian"] = rec.Get("custodian")
	}

	return result, nil
}

// Title returns the register's human-readable title, if one has been
// recorded.
func (r *Register) Title() (string, bool) {
	rec, ok, _ := r.metadata.LatestRecord("register-name")
	if !ok {
		return "", false
	}
	return rec.Get("register-name"), true
}

// Description returns the register's human-readable description, if one
// has been recorded.
func (r *Register) Description() (string, bool) {
	if r.uid == "" {
		return "", false
	}
	rec, ok, _ := r.metadata.LatestRecord("register:" + r.uid)
	if !ok {
		return "", false
	}
	text, hasText := rec.Blob.Get("text")
	if !hasText {
		return "", false
	}
	s, _ := text.Scalar()
	return s, s != ""
}

// IsReady reports whether the register has an identifier and a schema with
// at least one non-primary attribute (spec.md §4.9).
func (r *Register) IsReady() bool {
	if r.uid == "" {
		return false
	}
	s, err := r.Schema()
	if err != nil {
		return false
	}
	return s.IsReady()
}

// IsEmpty reports whether the register's data log has no entries.
func (r *Register) IsEmpty() bool {
	return r.data.IsEmpty()
}
