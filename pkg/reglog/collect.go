package reglog

import (
	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
	"github.com/openregister/registers-cli/pkg/rerr"
	"github.com/openregister/registers-cli/pkg/rsf"
)

// Result is the outcome of Collect: the (possibly freshly created) data and
// metadata logs, plus any accumulated duplicate-entry errors.
type Result struct {
	Data     *Log
	Metadata *Log
	// Errors accumulates DuplicatedEntry violations encountered in
	// non-relaxed mode, whose entries are skipped rather than appended. In
	// relaxed mode a duplicate is instead appended to its log like any
	// other entry, and Errors stays empty.
	Errors []error
}

// Collect replays commands into data/metadata logs, per spec.md §4.4.
//
// data and metadata may be nil, in which case fresh empty logs are used;
// passing existing logs lets a caller continue appending to an
// already-loaded register (e.g. applying a new Patch).
//
// add-item blobs land in a lookup pool shared by both logs, not in either
// log's own pool; an append-entry moves its blob into the target log's pool
// (data or metadata, by scope) when it is appended.
//
// Collection is fail-fast on parse errors, OrphanEntry and InconsistentLog.
// DuplicatedEntry violations never abort collection: in non-relaxed mode
// they are accumulated in Result.Errors and the offending entry is not
// appended; in relaxed mode the duplicate entry is appended anyway and no
// error is recorded, matching original_source/registers/log.py's collect().
func Collect(commands []rsf.Command, data, metadata *Log, relaxed bool) (*Result, error) {
	if data == nil {
		data = New()
	}
	if metadata == nil {
		metadata = New()
	}

	pool := make(map[hash.Hash]blob.Blob)
	for h, b := range data.Blobs() {
		pool[h] = b
	}
	for h, b := range metadata.Blobs() {
		pool[h] = b
	}

	var accumulated []error

	for _, cmd := range commands {
		switch cmd.Action {
		case rsf.AssertRootHash:
			actual := data.Digest()
			if !cmd.Hash.Equal(actual) {
				return nil, &rerr.InconsistentLog{
					Expected: cmd.Hash,
					Actual:   actual,
					Size:     data.Size(),
				}
			}

		case rsf.AddItem:
			pool[cmd.Blob.Digest()] = cmd.Blob

		case rsf.AppendEntry:
			e := cmd.Entry

			target := data
			if e.Scope == entry.System {
				target = metadata
			}

			b, ok := pool[e.BlobHash]
			if !ok {
				return nil, &rerr.OrphanEntry{Key: e.Key, Position: e.Position, BlobHash: e.BlobHash}
			}

			existing, found, err := target.LatestRecord(e.Key)
			if err != nil {
				return nil, err
			}

			if found && existing.Blob.Digest().Equal(e.BlobHash) {
				if !relaxed {
					accumulated = append(accumulated, &rerr.DuplicatedEntry{Key: e.Key, Blob: existing.Blob})
					continue
				}
			}

			target.PutBlob(b)
			target.Append(e)
		}
	}

	return &Result{Data: data, Metadata: metadata, Errors: accumulated}, nil
}

// Slice renders the log's entries from startPosition (0-based index into
// Entries()) onward as a replayable add-item/append-entry command pair
// sequence, matching original_source/registers/log.py's slice().
func Slice(l *Log, startPosition int) []rsf.Command {
	var commands []rsf.Command
	entries := l.Entries()
	if startPosition > len(entries) {
		startPosition = len(entries)
	}
	for _, e := range entries[startPosition:] {
		b, ok := l.GetBlob(e.BlobHash)
		if !ok {
			continue
		}
		commands = append(commands, rsf.NewAddItem(b))
		commands = append(commands, rsf.NewAppendEntry(e))
	}
	return commands
}
