// Package patch implements Patch: a batch of RSF commands built either from
// a list of blobs or from an existing command sequence, optionally sealed
// with before/after root-hash assertions for exact-position replay.
//
// Grounded on original_source/registers/patch.py.
package patch

import (
	"fmt"

	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
	"github.com/openregister/registers-cli/pkg/rsf"
	"github.com/openregister/registers-cli/pkg/schema"
)

// Patch is a batch of changes: the schema it was checked against, the
// commands that constitute it, and the timestamp used to generate them.
type Patch struct {
	Schema    *schema.Schema
	Commands  []rsf.Command
	Timestamp string
}

// FromBlobs builds a Patch from a list of blobs, emitting an
// add-item/append-entry pair per blob (spec.md §4.7).
func FromBlobs(s *schema.Schema, blobs []blob.Blob, timestamp string) (*Patch, error) {
	if len(blobs) == 0 {
		return nil, fmt.Errorf("patch: a patch must receive some data")
	}
	commands, err := collect(s.PrimaryKey, blobs, timestamp)
	if err != nil {
		return nil, err
	}
	return &Patch{Schema: s, Commands: commands, Timestamp: timestamp}, nil
}

// FromCommands builds a Patch from an existing command sequence, recovering
// the timestamp from the first append-entry command.
func FromCommands(s *schema.Schema, commands []rsf.Command) (*Patch, error) {
	if len(commands) == 0 {
		return nil, fmt.Errorf("patch: a patch must receive some data")
	}

	var timestamp string
	for _, cmd := range commands {
		if cmd.Action == rsf.AppendEntry {
			timestamp = cmd.Entry.Timestamp
			break
		}
	}

	return &Patch{Schema: s, Commands: commands, Timestamp: timestamp}, nil
}

// Add appends the commands for one more blob to the patch, using the
// patch's existing timestamp.
func (p *Patch) Add(b blob.Blob) error {
	commands, err := collect(p.Schema.PrimaryKey, []blob.Blob{b}, p.Timestamp)
	if err != nil {
		return err
	}
	p.Commands = append(p.Commands, commands...)
	return nil
}

// Seal brackets the patch with before/after assert-root-hash commands,
// making it exact-position replayable.
func (p *Patch) Seal(start, end hash.Hash) {
	p.Commands = append([]rsf.Command{rsf.NewAssertRootHash(start)}, p.Commands...)
	p.Commands = append(p.Commands, rsf.NewAssertRootHash(end))
}

// IsSealed reports whether the patch is bracketed by assert-root-hash
// commands at both ends.
func (p *Patch) IsSealed() bool {
	if len(p.Commands) == 0 {
		return false
	}
	first := p.Commands[0]
	last := p.Commands[len(p.Commands)-1]
	return first.Action == rsf.AssertRootHash && last.Action == rsf.AssertRootHash
}

func collect(primaryKey string, blobs []blob.Blob, timestamp string) ([]rsf.Command, error) {
	commands := make([]rsf.Command, 0, len(blobs)*2)
	for _, b := range blobs {
		key := b.GetString(primaryKey)
		if key == "" {
			return nil, fmt.Errorf("patch: blob is missing the primary key field %q", primaryKey)
		}
		e, err := entry.New(key, entry.User, timestamp, b.Digest())
		if err != nil {
			return nil, err
		}
		commands = append(commands, rsf.NewAddItem(b))
		commands = append(commands, rsf.NewAppendEntry(e))
	}
	return commands, nil
}
