package xsv

import (
	"bytes"
	"errors"
	"testing"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/schema"
)

func xyzSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.NewSchema("foo")
	for _, a := range []schema.Attribute{
		schema.New("foo", schema.StringT, schema.One, ""),
		schema.New("x", schema.Integer, schema.Many, ""),
		schema.New("y", schema.Integer, schema.One, ""),
	} {
		if err := s.Insert(a); err != nil {
			t.Fatalf("insert %s: %v", a.UID, err)
		}
	}
	return s
}

// TestCoerce_S6 exercises spec.md §8 scenario S6: a row "abc","1;2;3","4"
// against schema (foo:string[1], x:integer[n], y:integer[1]) yields
// {"foo":"abc","x":["1","2","3"],"y":"4"}.
func TestCoerce_S6(t *testing.T) {
	s := xyzSchema(t)
	row := map[string]string{"foo": "abc", "x": "1;2;3", "y": "4"}

	b, err := Coerce(row, s)
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}

	if b.GetString("foo") != "abc" {
		t.Errorf("foo = %q, want abc", b.GetString("foo"))
	}
	xv, ok := b.Get("x")
	if !ok || !xv.IsList() {
		t.Fatalf("x = %v, want a list value", xv)
	}
	items, _ := xv.Items()
	want := []string{"1", "2", "3"}
	if len(items) != len(want) {
		t.Fatalf("x items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("x[%d] = %q, want %q", i, items[i], want[i])
		}
	}
	if b.GetString("y") != "4" {
		t.Errorf("y = %q, want 4", b.GetString("y"))
	}
}

func TestDeserialise_AutoDetectsTabDelimiter(t *testing.T) {
	s := xyzSchema(t)
	data := []byte("foo\tx\ty\nabc\t1;2;3\t4\n")

	blobs, err := Deserialise(data, s)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if len(blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs))
	}
	if blobs[0].GetString("foo") != "abc" {
		t.Errorf("foo = %q, want abc", blobs[0].GetString("foo"))
	}
}

func TestDeserialise_AutoDetectsCommaDelimiter(t *testing.T) {
	s := xyzSchema(t)
	data := []byte("foo,x,y\nabc,1;2;3,4\n")

	blobs, err := Deserialise(data, s)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if len(blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs))
	}
	if blobs[0].GetString("y") != "4" {
		t.Errorf("y = %q, want 4", blobs[0].GetString("y"))
	}
}

func TestCoerce_BlankTokensAreOmitted(t *testing.T) {
	s := xyzSchema(t)
	row := map[string]string{"foo": "abc", "x": "", "y": "4"}

	b, err := Coerce(row, s)
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	if _, ok := b.Get("x"); ok {
		t.Error("blank token should have been omitted from the blob")
	}
}

func TestCoerce_UnknownFieldFails(t *testing.T) {
	s := xyzSchema(t)
	row := map[string]string{"foo": "abc", "y": "4", "bogus": "z"}

	_, err := Coerce(row, s)
	var ua *rerr.UnknownAttribute
	if !errors.As(err, &ua) {
		t.Fatalf("expected UnknownAttribute, got %v", err)
	}
}

func TestSerialiseBlobs_RoundTripsThroughCoerce(t *testing.T) {
	s := xyzSchema(t)
	b := blob.New(map[string]blob.Value{
		"foo": blob.String("abc"),
		"x":   blob.List([]string{"1", "2"}),
		"y":   blob.String("4"),
	})

	var buf bytes.Buffer
	if err := SerialiseBlobs(&buf, []blob.Blob{b}, []string{"foo", "x", "y"}); err != nil {
		t.Fatalf("SerialiseBlobs: %v", err)
	}

	blobs, err := Deserialise(buf.Bytes(), s)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if len(blobs) != 1 || !blobs[0].Equal(b) {
		t.Errorf("round-tripped blob does not match original: %v", blobs)
	}
}

func TestSerialiseValue_QuotesSemicolonsInListElements(t *testing.T) {
	v := blob.List([]string{"a;b", "c"})
	got, err := SerialiseValue(v)
	if err != nil {
		t.Fatalf("SerialiseValue: %v", err)
	}
	want := `"a;b";c`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
