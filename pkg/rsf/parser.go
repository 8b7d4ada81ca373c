package rsf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
)

// Parse reads an RSF stream line by line and returns the parsed commands in
// order. It stops at the first parse error.
//
// Grounded on original_source/registers/rsf/parser.py's parse()/load(),
// generalised from "a list of strings" to an io.Reader so callers can parse
// directly from an open file without buffering it into memory first.
func Parse(r io.Reader) ([]Command, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var commands []Command
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("rsf: line %d: %w", lineNo, err)
		}
		commands = append(commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rsf: reading stream: %w", err)
	}
	return commands, nil
}

// ParseString parses an in-memory RSF document (e.g. a patch body), matching
// original_source/registers/rsf/__init__.py's load().
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

// ParseLine parses a single RSF command line (no trailing newline).
func ParseLine(line string) (Command, error) {
	action, rest, ok := strings.Cut(line, "\t")
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}

	switch Action(action) {
	case AddItem:
		b, err := parseBlob(rest)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrMalformedAddItem, err)
		}
		return NewAddItem(b), nil

	case AppendEntry:
		e, err := parseEntry(rest)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %w", ErrMalformedAppendEntry, err)
		}
		return NewAppendEntry(e), nil

	case AssertRootHash:
		h, err := parseHash(strings.TrimSpace(rest))
		if err != nil {
			return Command{}, fmt.Errorf("%w: %w", ErrMalformedAssertRootHash, err)
		}
		return NewAssertRootHash(h), nil

	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
}

func parseBlob(rest string) (blob.Blob, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest)), &raw); err != nil {
		return blob.Blob{}, err
	}
	return blob.Parse(raw)
}

func parseEntry(rest string) (entry.Entry, error) {
	fields := strings.Split(strings.TrimSpace(rest), "\t")
	if len(fields) != 4 {
		return entry.Entry{}, fmt.Errorf("expected 4 fields (scope, key, timestamp, hash), got %d", len(fields))
	}
	scopeTok, key, timestamp, hashTok := fields[0], fields[1], fields[2], fields[3]

	var scope entry.Scope
	switch scopeTok {
	case string(entry.User):
		scope = entry.User
	case string(entry.System):
		scope = entry.System
	default:
		return entry.Entry{}, fmt.Errorf("%w: %q", ErrBadScope, scopeTok)
	}

	h, err := parseHash(hashTok)
	if err != nil {
		return entry.Entry{}, err
	}

	return entry.New(key, scope, timestamp, h)
}

func parseHash(tok string) (hash.Hash, error) {
	h, err := hash.Parse(tok)
	if err != nil {
		return hash.Hash{}, fmt.Errorf("%w: %v", ErrBadHash, err)
	}
	return h, nil
}
