package hash

import "testing"

func TestEmpty(t *testing.T) {
	want := "sha-256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if Empty.String() != want {
		t.Errorf("got %s, want %s", Empty.String(), want)
	}
}

func TestSHA256(t *testing.T) {
	got := SHA256(nil)
	if !got.Equal(Empty) {
		t.Errorf("SHA256(nil) = %s, want %s", got, Empty)
	}
}

func TestParse(t *testing.T) {
	h, err := Parse("sha-256:abcd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Algorithm != "sha-256" || h.Digest != "abcd" {
		t.Errorf("got %+v", h)
	}

	if _, err := Parse("no-colon-here"); err == nil {
		t.Error("expected an error for a value missing ':'")
	}
}

func TestParseStrict(t *testing.T) {
	ok := "sha-256:" + "0000000000000000000000000000000000000000000000000000000000000000"[:64]
	if _, err := ParseStrict(ok); err != nil {
		t.Errorf("unexpected error for well-formed value: %v", err)
	}

	cases := []string{
		"sha-1:0000000000000000000000000000000000000000000000000000000000000000",
		"sha-256:abc",
		"sha-256:" + "ZZZZ000000000000000000000000000000000000000000000000000000000000",
	}
	for _, c := range cases {
		if _, err := ParseStrict(c); err == nil {
			t.Errorf("expected an error for %q", c)
		}
	}
}

func TestEqual(t *testing.T) {
	a := Hash{Algorithm: "sha-256", Digest: "abc"}
	b := Hash{Algorithm: "sha-256", Digest: "abc"}
	c := Hash{Algorithm: "sha-256", Digest: "def"}
	if !a.Equal(b) {
		t.Error("expected a == b")
	}
	if a.Equal(c) {
		t.Error("expected a != c")
	}
}
