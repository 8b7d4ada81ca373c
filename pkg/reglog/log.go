// Package reglog implements Log, the append-only sequence of entries (with
// its pooled blobs) that backs either the data or metadata half of a
// register, and Collect, the function that replays RSF commands into a
// pair of Logs.
//
// Grounded on the teacher's pkg/ledger/store.go for Go shape (explicit
// sentinel/structured errors instead of bare nil, a single owning type
// wrapping the persisted state) and on original_source/registers/log.py for
// the exact algorithm.
package reglog

import (
	"github.com/openregister/registers-cli/pkg/blob"
	"github.com/openregister/registers-cli/pkg/entry"
	"github.com/openregister/registers-cli/pkg/hash"
	"github.com/openregister/registers-cli/pkg/merkle"
	"github.com/openregister/registers-cli/pkg/record"
)

// Log is an append-only sequence of entries plus the pool of blobs those
// entries reference. A Log backs either a register's data scope or its
// metadata scope.
type Log struct {
	entries []entry.Entry
	blobs   map[hash.Hash]blob.Blob
}

// New returns an empty Log.
func New() *Log {
	return &Log{blobs: make(map[hash.Hash]blob.Blob)}
}

// Entries returns the log's entries in position order.
func (l *Log) Entries() []entry.Entry {
	out := make([]entry.Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Blobs returns the log's blob pool, keyed by digest.
func (l *Log) Blobs() map[hash.Hash]blob.Blob {
	out := make(map[hash.Hash]blob.Blob, len(l.blobs))
	for k, v := range l.blobs {
		out[k] = v
	}
	return out
}

// Size is the number of entries in the log.
func (l *Log) Size() int { return len(l.entries) }

// IsEmpty reports whether the log has no entries.
func (l *Log) IsEmpty() bool { return len(l.entries) == 0 }

// Digest is the log's Merkle root hash over its entries' canonical JSON
// bytes — the value asserted by an `assert-root-hash` RSF command.
func (l *Log) Digest() hash.Hash {
	return merkle.New(l.leafBytes()).RootHash()
}

func (l *Log) leafBytes() [][]byte {
	out := make([][]byte, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.CanonicalJSON()
	}
	return out
}

// PutBlob adds a blob to the pool, keyed by its own digest.
func (l *Log) PutBlob(b blob.Blob) {
	l.blobs[b.Digest()] = b
}

// GetBlob looks up a blob by digest.
func (l *Log) GetBlob(h hash.Hash) (blob.Blob, bool) {
	b, ok := l.blobs[h]
	return b, ok
}

// Append assigns the next position to e and appends it to the log.
func (l *Log) Append(e entry.Entry) entry.Entry {
	e = e.WithPosition(len(l.entries) + 1)
	l.entries = append(l.entries, e)
	return e
}

// Snapshot collects the latest record per key as of the given size (all
// entries if size < 0), matching original_source/registers/log.py's
// snapshot().
func (l *Log) Snapshot(size int) (map[string]record.Record, error) {
	entries := l.entries
	if size >= 0 && size < len(entries) {
		entries = entries[:size]
	}

	records := make(map[string]record.Record, len(entries))
	for _, e := range entries {
		b, ok := l.blobs[e.BlobHash]
		if !ok {
			continue
		}
		r, err := record.New(e, b)
		if err != nil {
			return nil, err
		}
		records[e.Key] = r
	}
	return records, nil
}

// LatestRecord returns the current record for key, if any.
func (l *Log) LatestRecord(key string) (record.Record, bool, error) {
	snap, err := l.Snapshot(-1)
	if err != nil {
		return record.Record{}, false, err
	}
	r, ok := snap[key]
	return r, ok, nil
}

// Trail collects every entry ever recorded for key, in position order.
func (l *Log) Trail(key string) []entry.Entry {
	var out []entry.Entry
	for _, e := range l.entries {
		if e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// Stats reports the log's entry and blob counts.
func (l *Log) Stats() (totalEntries, totalBlobs int) {
	return len(l.entries), len(l.blobs)
}
