package register

import (
	"errors"
	"testing"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
	"github.com/openregister/registers-cli/pkg/patch"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/rsf"
)

// fieldBlob builds a field:<uid> metadata blob.
func fieldBlob(uid, datatype, cardinality string) blob.Blob {
	return blob.New(map[string]blob.Value{
		"field":       blob.String(uid),
		"datatype":    blob.String(datatype),
		"cardinality": blob.String(cardinality),
	})
}

// countryFixture builds a small two-field "country" register: the metadata
// log declares the country/name fields and the register's own uid, and the
// data log carries a single GB record. Mirrors spec.md §8's country register
// scenarios (S2-S5) at a scale this test can construct inline.
func countryFixture(t *testing.T) []rsf.Command {
	t.Helper()
	var commands []rsf.Command

	addField := func(uid, datatype, cardinality, ts string) {
		b := fieldBlob(uid, datatype, cardinality)
		e, err := entry.New("field:"+uid, entry.System, ts, b.Digest())
		if err != nil {
			t.Fatalf("entry.New(field:%s): %v", uid, err)
		}
		commands = append(commands, rsf.NewAddItem(b), rsf.NewAppendEntry(e))
	}

	addField("country", "curie", "1", "2016-04-05T13:23:05Z")
	addField("name", "string", "1", "2016-04-05T13:23:05Z")

	nameBlob := blob.New(map[string]blob.Value{"name": blob.String("country")})
	nameEntry, err := entry.New("name", entry.System, "2016-04-05T13:23:05Z", nameBlob.Digest())
	if err != nil {
		t.Fatalf("entry.New(name): %v", err)
	}
	commands = append(commands, rsf.NewAddItem(nameBlob), rsf.NewAppendEntry(nameEntry))

	gbBlob := blob.New(map[string]blob.Value{"country": blob.String("GB"), "name": blob.String("United Kingdom")})
	gbEntry, err := entry.New("GB", entry.User, "2016-04-05T13:23:05Z", gbBlob.Digest())
	if err != nil {
		t.Fatalf("entry.New(GB): %v", err)
	}
	commands = append(commands, rsf.NewAddItem(gbBlob), rsf.NewAppendEntry(gbEntry))

	return commands
}

func TestLoad_DerivesUIDAndSchema(t *testing.T) {
	r, err := Load(countryFixture(t), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	uid, ok := r.UID()
	if !ok || uid != "country" {
		t.Fatalf("UID() = %q, %v; want \"country\", true", uid, ok)
	}

	s, err := r.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if s.PrimaryKey != "country" {
		t.Errorf("PrimaryKey = %q, want country", s.PrimaryKey)
	}
	if !s.IsReady() {
		t.Error("schema should be ready: primary key plus one other attribute")
	}
	if !r.IsReady() {
		t.Error("register should be ready")
	}
}

func TestLoad_RecordsAndRecordLookup(t *testing.T) {
	r, err := Load(countryFixture(t), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	records, err := r.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec, ok, err := r.Record("GB")
	if err != nil || !ok {
		t.Fatalf("Record(GB): ok=%v err=%v", ok, err)
	}
	if rec.Get("name") != "United Kingdom" {
		t.Errorf("name = %q, want United Kingdom", rec.Get("name"))
	}
	if rec.Entry.Position != 1 {
		t.Errorf("Position = %d, want 1", rec.Entry.Position)
	}
}

func TestContext_ReportsTotals(t *testing.T) {
	r, err := Load(countryFixture(t), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx, err := r.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if ctx["total-records"] != 1 {
		t.Errorf("total-records = %v, want 1", ctx["total-records"])
	}
	if ctx["total-entries"] != 1 {
		t.Errorf("total-entries = %v, want 1", ctx["total-entries"])
	}
	if ctx["last-updated"] != "2016-04-05T13:23:05Z" {
		t.Errorf("last-updated = %v", ctx["last-updated"])
	}
}

// TestApply_GrowsTheRegister mirrors spec.md §8 scenario S4: applying a
// patch of new data grows the record count and entry count accordingly.
func TestApply_GrowsTheRegister(t *testing.T) {
	r, err := Load(countryFixture(t), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s, err := r.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}

	ciBlob := blob.New(map[string]blob.Value{"country": blob.String("CI"), "name": blob.String("Ivory Coast")})
	p, err := patch.FromBlobs(s, []blob.Blob{ciBlob}, "2016-04-06T09:00:00Z")
	if err != nil {
		t.Fatalf("FromBlobs: %v", err)
	}

	if err := r.Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	records, err := r.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records after apply, want 2", len(records))
	}
	if r.Log().Size() != 2 {
		t.Errorf("data log size = %d, want 2", r.Log().Size())
	}
}

// TestApply_ReplayingTheSamePatchIsIgnored mirrors spec.md §8 testable
// property 10: replaying an already-applied patch does not grow the register
// a second time; the replayed entry is not appended again and Apply reports
// it as a DuplicatedEntry.
func TestApply_ReplayingTheSamePatchIsIgnored(t *testing.T) {
	r, err := Load(countryFixture(t), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s, err := r.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}

	ciBlob := blob.New(map[string]blob.Value{"country": blob.String("CI"), "name": blob.String("Ivory Coast")})
	p, err := patch.FromBlobs(s, []blob.Blob{ciBlob}, "2016-04-06T09:00:00Z")
	if err != nil {
		t.Fatalf("FromBlobs: %v", err)
	}
	if err := r.Apply(p); err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	p2, err := patch.FromBlobs(s, []blob.Blob{ciBlob}, "2016-04-06T09:00:00Z")
	if err != nil {
		t.Fatalf("FromBlobs (second): %v", err)
	}
	var dup *rerr.DuplicatedEntry
	if err := r.Apply(p2); !errors.As(err, &dup) {
		t.Fatalf("second Apply: expected *rerr.DuplicatedEntry, got %v", err)
	}

	if r.Log().Size() != 2 {
		t.Errorf("data log size = %d, want 2 (the replayed entry must not be appended again)", r.Log().Size())
	}
	records, err := r.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

// TestLoad_InconsistentRootHash mirrors spec.md §8 scenario S5: an
// assert-root-hash command that doesn't match the log's actual digest fails
// with InconsistentLog reporting the size already consumed.
func TestLoad_InconsistentRootHash(t *testing.T) {
	commands := countryFixture(t)
	commands = append(commands, rsf.NewAssertRootHash(hash.Empty))

	_, err := Load(commands, false)
	var bad *rerr.InconsistentLog
	if !errors.As(err, &bad) {
		t.Fatalf("expected *rerr.InconsistentLog, got %v", err)
	}
	if bad.Size != 1 {
		t.Errorf("InconsistentLog.Size = %d, want 1 (one data entry already appended)", bad.Size)
	}
}

func TestIsReady_FalseBeforeAnyMetadata(t *testing.T) {
	r := New()
	if r.IsReady() {
		t.Error("a fresh register should not be ready")
	}
	if !r.IsEmpty() {
		t.Error("a fresh register's data log should be empty")
	}
}
