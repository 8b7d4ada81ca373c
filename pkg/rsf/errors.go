package rsf

import "errors"

// Sentinel parse errors, in the teacher's pkg/database/errors.go style:
// exported error variables, wrapped with the offending line via
// fmt.Errorf("%w: ...", err) at the call site so errors.Is keeps working.
var (
	// ErrUnknownCommand is returned when a line's action token does not
	// match any of add-item, append-entry, assert-root-hash.
	ErrUnknownCommand = errors.New("rsf: unknown command")

	// ErrMalformedAddItem is returned when an add-item line's remainder is
	// not a JSON object whose values are strings or lists of strings.
	ErrMalformedAddItem = errors.New("rsf: malformed add-item command")

	// ErrMalformedAppendEntry is returned when an append-entry line does
	// not split into exactly scope/key/timestamp/hash.
	ErrMalformedAppendEntry = errors.New("rsf: malformed append-entry command")

	// ErrMalformedAssertRootHash is returned when an assert-root-hash
	// line's remainder is not a well-formed hash token.
	ErrMalformedAssertRootHash = errors.New("rsf: malformed assert-root-hash command")

	// ErrBadScope is returned when an append-entry's scope token is
	// neither "user" nor "system".
	ErrBadScope = errors.New("rsf: scope must be \"user\" or \"system\"")

	// ErrBadHash is returned when a hash token lacks its "algorithm:digest"
	// separator.
	ErrBadHash = errors.New("rsf: malformed hash value")
)
