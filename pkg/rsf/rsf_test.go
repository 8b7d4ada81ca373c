package rsf

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_AllThreeCommands(t *testing.T) {
	doc := strings.Join([]string{
		`add-item	{"name":"x"}`,
		`append-entry	system	name	2019-01-01T00:00:00Z	sha-256:cebdb3231b47a9dbfda92df6fbd4e71d0932c9322a454c855a01bccc1b3702d9`,
		`assert-root-hash	sha-256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855`,
	}, "\n")

	commands, err := ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(commands))
	}
	if commands[0].Action != AddItem {
		t.Errorf("commands[0].Action = %v", commands[0].Action)
	}
	if commands[1].Action != AppendEntry {
		t.Errorf("commands[1].Action = %v", commands[1].Action)
	}
	if commands[1].Entry.Scope != "system" {
		t.Errorf("commands[1].Entry.Scope = %v", commands[1].Entry.Scope)
	}
	if commands[2].Action != AssertRootHash {
		t.Errorf("commands[2].Action = %v", commands[2].Action)
	}
}

func TestRoundTrip_EmitParse(t *testing.T) {
	doc := strings.Join([]string{
		`add-item	{"country":"GB","name":"United Kingdom"}`,
		`append-entry	user	GB	2016-04-05T13:23:05Z	sha-256:` + strings.Repeat("a", 64),
		`assert-root-hash	sha-256:` + strings.Repeat("b", 64),
	}, "\n") + "\n"

	commands, err := ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	got := Dump(commands)
	if got != doc {
		t.Errorf("emit(parse(doc)) != doc:\n got:  %q\n want: %q", got, doc)
	}
}

func TestParseLine_UnknownCommand(t *testing.T) {
	_, err := ParseLine("frobnicate\tsomething")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestParseLine_MalformedAddItem(t *testing.T) {
	_, err := ParseLine("add-item\tnot json")
	if !errors.Is(err, ErrMalformedAddItem) {
		t.Errorf("expected ErrMalformedAddItem, got %v", err)
	}
}

func TestParseLine_BadScope(t *testing.T) {
	_, err := ParseLine("append-entry\tweird\tkey\t2019-01-01T00:00:00Z\tsha-256:ab")
	if !errors.Is(err, ErrBadScope) {
		t.Errorf("expected ErrBadScope, got %v", err)
	}
}

func TestParseLine_BadHash(t *testing.T) {
	_, err := ParseLine("assert-root-hash\tnotahash")
	if !errors.Is(err, ErrBadHash) {
		t.Errorf("expected ErrBadHash, got %v", err)
	}
}

func TestParseLine_MalformedAppendEntryArity(t *testing.T) {
	_, err := ParseLine("append-entry\tuser\tkey\t2019-01-01T00:00:00Z")
	if !errors.Is(err, ErrMalformedAppendEntry) {
		t.Errorf("expected ErrMalformedAppendEntry, got %v", err)
	}
}

func TestParseLine_NoTabSeparator(t *testing.T) {
	_, err := ParseLine("add-item-without-a-tab")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}
