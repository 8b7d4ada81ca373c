// Package merkle implements the RFC 6962 Merkle tree used to bind a Log's
// entries to a single root hash (spec.md §4.2).
//
// Grounded on the teacher's pkg/merkle/tree.go (Tree struct, levels storage,
// GenerateProof/VerifyProof naming, mutex-guarded build), re-derived against
// original_source/registers/merkle.py for the exact algorithm: leaves and
// nodes are tagged with 0x00/0x01 per RFC 6962 §2.1, and an orphaned node at
// an odd-length level is promoted unchanged to the next level rather than
// duplicated, which is where the teacher's own implementation diverges from
// the register spec.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/openregister/registers-cli/pkg/hash"
)

// Common errors.
var (
	ErrEmptyTree    = errors.New("merkle: tree has no leaves")
	ErrLeafNotFound = errors.New("merkle: leaf not found in tree")
)

// Digest is a single tree node's hash bytes (always 32 bytes, SHA-256).
type Digest [32]byte

// Level is one row of the tree, leaves at level 0 up to the single root at
// the last level.
type Level []Digest

// Tree is an immutable Merkle tree built over a sequence of leaves.
//
// Levels are stored exactly as the Python reference shows them: a level
// with an odd number of nodes carries its last node forward unchanged into
// the next level, rather than duplicating it.
//
//	[
//	    [a, b, c, d, e], // level 0 (leaf hashes)
//	    [f, g, e],       // level 1
//	    [h, e],          // level 2
//	    [i],             // root
//	]
type Tree struct {
	mu     sync.RWMutex
	leaves []Digest
	levels []Level
}

// New builds a Tree from raw leaf bytes. An empty slice of leaves yields the
// well-defined empty tree whose root is hash.Empty (spec.md §8, property 3).
func New(leaves [][]byte) *Tree {
	t := &Tree{}
	t.leaves = make([]Digest, len(leaves))
	for i, l := range leaves {
		t.leaves[i] = hashLeaf(l)
	}
	t.levels = buildLevels(t.leaves)
	return t
}

func hashLeaf(leaf []byte) Digest {
	buf := make([]byte, 0, 1+len(leaf))
	buf = append(buf, 0x00)
	buf = append(buf, leaf...)
	return sha256.Sum256(buf)
}

func hashNode(left, right Digest) Digest {
	buf := make([]byte, 0, 1+32+32)
	buf = append(buf, 0x01)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}

func hashEmpty() Digest {
	return sha256.Sum256(nil)
}

func buildLevels(leaves []Digest) []Level {
	if len(leaves) == 0 {
		return []Level{{hashEmpty()}}
	}

	level0 := make(Level, len(leaves))
	copy(level0, leaves)
	levels := []Level{level0}

	if len(leaves) == 1 {
		return levels
	}

	for {
		next := buildLevel(levels[len(levels)-1])
		levels = append(levels, next)
		if len(next) == 1 {
			break
		}
	}
	return levels
}

func buildLevel(level Level) Level {
	if len(level) == 0 {
		return Level{hashEmpty()}
	}
	if len(level) == 1 {
		return level
	}

	next := make(Level, 0, (len(level)+1)/2)
	i := 0
	for ; i+1 < len(level); i += 2 {
		next = append(next, hashNode(level[i], level[i+1]))
	}
	if len(level)%2 == 1 {
		next = append(next, level[len(level)-1])
	}
	return next
}

// RootHash returns the tree's root hash in its wire form ("sha-256:<hex>").
func (t *Tree) RootHash() hash.Hash {
	t.mu.RLock()
	defer t.mu.RUnlock()
	root := t.levels[len(t.levels)-1][0]
	return digestToHash(root)
}

// Width returns the number of leaves (the Log's entry count).
func (t *Tree) Width() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.leaves)
}

// Height returns the number of levels, including the root level.
func (t *Tree) Height() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.levels)
}

// ProofSegment is a single step of an audit path: the sibling digest and
// which side of the current node it sits on.
type ProofSegment struct {
	Hash Digest
	// Left reports whether Hash is the left sibling (so the step computes
	// hash(sibling, current)); otherwise the step computes
	// hash(current, sibling).
	Left bool
}

// GenerateProof computes the audit path for the leaf at leafIndex (0-based),
// following original_source/registers/merkle.py's path()/path_segment(): at
// each level, record the sibling of the current node unless the sibling
// index exceeds the last real node index at that level (an orphan-promotion
// level has no sibling to record).
func (t *Tree) GenerateProof(leafIndex int) ([]ProofSegment, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	width := len(t.leaves)
	if width == 0 {
		return nil, ErrEmptyTree
	}
	if leafIndex < 0 || leafIndex >= width {
		return nil, fmt.Errorf("merkle: leaf index %d out of range [0, %d)", leafIndex, width)
	}

	var path []ProofSegment

	nodeIndex := leafIndex
	lastNodeIndex := width - 1
	level := 0

	for lastNodeIndex > 0 {
		if level >= len(t.levels) {
			break
		}

		sib := sibling(nodeIndex)
		if sib <= lastNodeIndex {
			path = append(path, ProofSegment{
				Hash: t.levels[level][sib],
				Left: isRightChild(nodeIndex),
			})
		}

		nodeIndex = parentIndex(nodeIndex)
		lastNodeIndex = parentIndex(lastNodeIndex)
		level++
	}

	return path, nil
}

func sibling(nodeIndex int) int {
	if isRightChild(nodeIndex) {
		return nodeIndex - 1
	}
	return nodeIndex + 1
}

func isRightChild(nodeIndex int) bool { return nodeIndex%2 == 1 }

func parentIndex(nodeIndex int) int { return nodeIndex / 2 }

// VerifyProof recomputes a root hash from a leaf's raw bytes and an audit
// path, and reports whether it equals expectedRoot.
func VerifyProof(leaf []byte, path []ProofSegment, expectedRoot hash.Hash) (bool, error) {
	current := hashLeaf(leaf)
	for _, seg := range path {
		if seg.Left {
			current = hashNode(seg.Hash, current)
		} else {
			current = hashNode(current, seg.Hash)
		}
	}
	return digestToHash(current).Equal(expectedRoot), nil
}

func digestToHash(d Digest) hash.Hash {
	return hash.Hash{Algorithm: hash.Algorithm, Digest: hex.EncodeToString(d[:])}
}
