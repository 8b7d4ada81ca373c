// Package rsf implements the Register Serialisation Format: the
// line-oriented, tab-delimited command stream that is a register's sole
// persisted representation (spec.md §4.3).
//
// Grounded on original_source/registers/rsf/core.go.py (Action, Command) and
// original_source/registers/rsf/parser.py (grammar), with Go error handling
// in the teacher's pkg/database/errors.go sentinel style.
package rsf

import (
	"fmt"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
)

// Action identifies an RSF command's verb.
type Action string

const (
	AddItem        Action = "add-item"
	AppendEntry    Action = "append-entry"
	AssertRootHash Action = "assert-root-hash"
)

// Command is one line of an RSF stream. Exactly one of Blob, Entry, Hash is
// populated, matching Action.
type Command struct {
	Action Action
	Blob   blob.Blob
	Entry  entry.Entry
	Hash   hash.Hash
}

// NewAddItem composes an add-item command.
func NewAddItem(b blob.Blob) Command {
	return Command{Action: AddItem, Blob: b}
}

// NewAppendEntry composes an append-entry command.
func NewAppendEntry(e entry.Entry) Command {
	return Command{Action: AppendEntry, Entry: e}
}

// NewAssertRootHash composes an assert-root-hash command.
func NewAssertRootHash(h hash.Hash) Command {
	return Command{Action: AssertRootHash, Hash: h}
}

// String renders the command in its RSF wire form (without a trailing
// newline — see Dump for stream-level joining).
func (c Command) String() string {
	switch c.Action {
	case AddItem:
		return fmt.Sprintf("%s\t%s", AddItem, c.Blob.CanonicalJSON())
	case AppendEntry:
		return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", AppendEntry, c.Entry.Scope, c.Entry.Key, c.Entry.Timestamp, c.Entry.BlobHash)
	case AssertRootHash:
		return fmt.Sprintf("%s\t%s", AssertRootHash, c.Hash)
	default:
		return fmt.Sprintf("%s\t<unknown>", c.Action)
	}
}
