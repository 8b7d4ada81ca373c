// Portable Merkle inclusion proof.
//
// Grounded on the teacher's pkg/merkle/receipt.go Receipt/ReceiptEntry
// shape (a flat start/anchor/entries JSON document, independently
// reverifiable without trusting the issuer), narrowed to a single layer —
// this register has one Merkle tree, not the teacher's multi-layer anchor
// chain — and re-derived for RFC 6962 leaf/node tagging.

package merkle

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Proof is a self-contained, independently verifiable inclusion proof: the
// leaf hash being proven, the root it proves inclusion in, and the audit
// path between them.
type Proof struct {
	// Leaf is the hex-encoded leaf digest (the RFC 6962 tagged leaf hash,
	// not the raw entry bytes) being proven.
	Leaf string `json:"leaf"`

	// Root is the hex-encoded root digest the proof resolves to.
	Root string `json:"root"`

	// Path is the audit path from Leaf to Root.
	Path []ProofEntry `json:"path"`
}

// ProofEntry is one sibling hash on an audit path.
type ProofEntry struct {
	// Hash is the hex-encoded sibling digest.
	Hash string `json:"hash"`

	// Left reports whether Hash is the left sibling of the current node.
	Left bool `json:"left"`
}

// NewProof builds a portable Proof from a Tree's audit path for the leaf at
// leafIndex.
func (t *Tree) NewProof(leafIndex int) (*Proof, error) {
	t.mu.RLock()
	if leafIndex < 0 || leafIndex >= len(t.leaves) {
		t.mu.RUnlock()
		return nil, fmt.Errorf("merkle: leaf index %d out of range [0, %d)", leafIndex, len(t.leaves))
	}
	leaf := t.leaves[leafIndex]
	t.mu.RUnlock()

	segments, err := t.GenerateProof(leafIndex)
	if err != nil {
		return nil, err
	}

	root := t.RootHash()

	p := &Proof{
		Leaf: hex.EncodeToString(leaf[:]),
		Root: root.Digest,
		Path: make([]ProofEntry, len(segments)),
	}
	for i, seg := range segments {
		p.Path[i] = ProofEntry{Hash: hex.EncodeToString(seg.Hash[:]), Left: seg.Left}
	}
	return p, nil
}

// Validate recomputes the root from Leaf and Path and reports whether it
// equals Root. Leaf here is already a hashed leaf digest (as produced by
// NewProof), so recomputation starts from it directly rather than rehashing
// raw entry bytes.
func (p *Proof) Validate() error {
	leafBytes, err := hex.DecodeString(p.Leaf)
	if err != nil {
		return fmt.Errorf("merkle: invalid leaf hex: %w", err)
	}
	rootBytes, err := hex.DecodeString(p.Root)
	if err != nil {
		return fmt.Errorf("merkle: invalid root hex: %w", err)
	}
	if len(leafBytes) != 32 || len(rootBytes) != 32 {
		return fmt.Errorf("merkle: leaf and root must be 32 bytes")
	}

	var current Digest
	copy(current[:], leafBytes)

	for i, entry := range p.Path {
		sib, err := hex.DecodeString(entry.Hash)
		if err != nil {
			return fmt.Errorf("merkle: invalid path[%d] hex: %w", i, err)
		}
		if len(sib) != 32 {
			return fmt.Errorf("merkle: path[%d] hash must be 32 bytes", i)
		}
		var sibDigest Digest
		copy(sibDigest[:], sib)

		if entry.Left {
			current = hashNode(sibDigest, current)
		} else {
			current = hashNode(current, sibDigest)
		}
	}

	var root Digest
	copy(root[:], rootBytes)
	if current != root {
		return fmt.Errorf("merkle: recomputed root %x does not match expected %x", current, root)
	}
	return nil
}

// ToJSON serialises the proof to JSON.
func (p *Proof) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// ProofFromJSON deserialises a proof from JSON.
func ProofFromJSON(data []byte) (*Proof, error) {
	var p Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
