// Package errs collects the sentinel errors returned across this module's
// packages, so callers can use errors.Is against a single stable set of
// values regardless of which package produced the error.
package errs

import "errors"

var (
	// ErrNotMiniSEED is returned when a byte stream does not begin with a
	// recognizable v2 or v3 record header.
	ErrNotMiniSEED = errors.New("mseed: not a miniSEED record")

	// ErrTruncated is returned when fewer bytes are available than the
	// record's declared length.
	ErrTruncated = errors.New("mseed: truncated record")

	// ErrBadLength is returned when a declared record length is out of
	// range or not a multiple of the codec's payload alignment.
	ErrBadLength = errors.New("mseed: invalid record length")

	// ErrUnknownEncoding is returned when a record declares an encoding id
	// this module does not decode.
	ErrUnknownEncoding = errors.New("mseed: unknown or unsupported encoding")

	// ErrBadCRC is returned when a v3 record's stored CRC does not match
	// the CRC computed over its bytes.
	ErrBadCRC = errors.New("mseed: CRC-32C mismatch")

	// ErrSteimBadNibble is returned when a Steim frame's nibble word
	// selects an invalid or unsupported packing.
	ErrSteimBadNibble = errors.New("mseed: invalid steim nibble")

	// ErrAllocFailure is returned when a decode or encode path cannot
	// obtain the memory it needs; partial output is never returned.
	ErrAllocFailure = errors.New("mseed: allocation failure")

	// ErrIOFailure wraps an underlying read/seek failure from a record
	// source.
	ErrIOFailure = errors.New("mseed: I/O failure")

	// ErrGenericError is a catch-all for conditions not covered by a more
	// specific sentinel; callers should inspect the wrapped detail.
	ErrGenericError = errors.New("mseed: error")

	// ErrInvalidHeaderSize is returned when a fixed header section is
	// not exactly its required size.
	ErrInvalidHeaderSize = errors.New("mseed: invalid header size")

	// ErrInvalidHeaderFlags is returned when a header's flag/magic field
	// fails validation.
	ErrInvalidHeaderFlags = errors.New("mseed: invalid header flags")

	// ErrInvalidBlockette is returned when a v2 blockette chain is
	// malformed (bad length, cyclic next-offset, or unknown type treated
	// strictly).
	ErrInvalidBlockette = errors.New("mseed: invalid blockette")

	// ErrInvalidPath is returned by the cbor store when a path names a
	// missing key, traverses a non-map item, or (for AppendToArray) ends
	// at an item that is not an array.
	ErrInvalidPath = errors.New("mseed: invalid cbor path")

	// ErrUnsupported is returned when an operation is asked to act on a
	// construct it deliberately does not support, e.g. fetch/set across
	// an indefinite-length CBOR container.
	ErrUnsupported = errors.New("mseed: unsupported operation")

	// ErrInvalidSelection is returned by selection-file parsing when a
	// line matches neither recognized shape.
	ErrInvalidSelection = errors.New("mseed: invalid selection line")
)
