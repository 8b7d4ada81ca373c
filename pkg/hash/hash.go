// Package hash represents the typed hash values used throughout the
// register: blob digests, entry digests and Merkle root hashes.
//
// Grounded on the teacher's pkg/commitment hex-hashing helpers, narrowed to
// the single "sha-256:<hex>" wire form the register spec requires.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Algorithm identifies the hash function used to produce a digest. Only
// SHA-256 is ever produced by this package, but parsing accepts any
// algorithm tag so that unknown-but-well-formed hashes round-trip.
const Algorithm = "sha-256"

// Hash is the pair (algorithm, hex digest) described by the register spec.
type Hash struct {
	Algorithm string
	Digest    string
}

// String renders the hash in its wire form "{algorithm}:{hex}".
func (h Hash) String() string {
	return h.Algorithm + ":" + h.Digest
}

// IsZero reports whether h is the zero value.
func (h Hash) IsZero() bool {
	return h.Algorithm == "" && h.Digest == ""
}

// Equal reports whether two hashes denote the same digest under the same
// algorithm.
func (h Hash) Equal(other Hash) bool {
	return h.Algorithm == other.Algorithm && h.Digest == other.Digest
}

// SHA256 hashes buf and returns the resulting Hash tagged "sha-256".
func SHA256(buf []byte) Hash {
	sum := sha256.Sum256(buf)
	return Hash{Algorithm: Algorithm, Digest: hex.EncodeToString(sum[:])}
}

// Parse parses a wire-form hash "{algorithm}:{hexdigits}". It fails on
// missing separators but, per the spec's parse policy, does not validate
// that Digest is valid hex or of any particular length — that is left to
// callers that need a stronger guarantee (see ParseStrict).
func Parse(s string) (Hash, error) {
	algorithm, digest, ok := strings.Cut(s, ":")
	if !ok {
		return Hash{}, fmt.Errorf("hash: malformed value %q: missing ':' separator", s)
	}
	if algorithm == "" || digest == "" {
		return Hash{}, fmt.Errorf("hash: malformed value %q", s)
	}
	return Hash{Algorithm: algorithm, Digest: digest}, nil
}

// ParseStrict parses a "sha-256:<64 lowercase hex chars>" value, the same
// shape the `hash` datatype grammar accepts (spec.md §4.6).
func ParseStrict(s string) (Hash, error) {
	h, err := Parse(s)
	if err != nil {
		return Hash{}, err
	}
	if h.Algorithm != Algorithm {
		return Hash{}, fmt.Errorf("hash: unsupported algorithm %q", h.Algorithm)
	}
	if len(h.Digest) != 64 {
		return Hash{}, fmt.Errorf("hash: digest must be 64 hex characters, got %d", len(h.Digest))
	}
	for _, r := range h.Digest {
		if !isLowerHex(r) {
			return Hash{}, fmt.Errorf("hash: digest contains non-hex-lowercase character %q", r)
		}
	}
	return h, nil
}

func isLowerHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}

// Empty is the SHA-256 digest of the empty byte string, i.e. the root hash
// of an empty Merkle tree (spec.md §8, testable property 3).
var Empty = Hash{Algorithm: Algorithm, Digest: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"}
