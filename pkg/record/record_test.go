package record

import (
	"encoding/json"
	"testing"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
)

func TestNew_RejectsMismatchedBlobHash(t *testing.T) {
	b := blob.New(map[string]blob.Value{"country": blob.String("GB")})
	wrongHash := hash.Hash{Algorithm: "sha-256", Digest: "0000"}
	e, err := entry.New("GB", entry.User, "2016-04-05T13:23:05Z", wrongHash)
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}

	if _, err := New(e, b); err == nil {
		t.Error("expected an error when the entry's blob hash does not match the blob")
	}
}

func TestNew_AcceptsConsistentPair(t *testing.T) {
	b := blob.New(map[string]blob.Value{"country": blob.String("GB")})
	e, err := entry.New("GB", entry.User, "2016-04-05T13:23:05Z", b.Digest())
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}

	r, err := New(e, b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Get("country") != "GB" {
		t.Errorf("Get(country) = %q, want GB", r.Get("country"))
	}
}

func TestCanonicalJSON_Shape(t *testing.T) {
	b := blob.New(map[string]blob.Value{"country": blob.String("GB"), "name": blob.String("United Kingdom")})
	e, err := entry.New("GB", entry.User, "2016-04-05T13:23:05Z", b.Digest())
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	e = e.WithPosition(204)

	r, err := New(e, b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(r.CanonicalJSON(), &decoded); err != nil {
		t.Fatalf("decoding record JSON: %v", err)
	}
	gb, ok := decoded["GB"]
	if !ok {
		t.Fatalf("expected a top-level %q key, got %v", "GB", decoded)
	}
	if gb["entry-number"] != "204" {
		t.Errorf("entry-number = %v, want \"204\"", gb["entry-number"])
	}
	if gb["key"] != "GB" {
		t.Errorf("key = %v, want GB", gb["key"])
	}
	items, ok := gb["item"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("item = %v, want a single-element array", gb["item"])
	}
	itemObj, ok := items[0].(map[string]any)
	if !ok || itemObj["country"] != "GB" {
		t.Errorf("item[0] = %v, want the original blob", items[0])
	}
}

func TestCanonicalJSON_EscapesQuotesAndBackslashes(t *testing.T) {
	b := blob.New(map[string]blob.Value{"country": blob.String(`GB`)})
	e, err := entry.New(`say "hi"`, entry.User, "2016-04-05T13:23:05Z", b.Digest())
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	r, err := New(e, b)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(r.CanonicalJSON(), &decoded); err != nil {
		t.Fatalf("decoding record JSON with escaped key: %v", err)
	}
	if _, ok := decoded[`say "hi"`]; !ok {
		t.Errorf("expected the escaped key to round-trip, got %v", decoded)
	}
}
