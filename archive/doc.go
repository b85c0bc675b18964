// Package archive provides transparent decompression for miniSEED archive
// byte streams. Data centers commonly distribute day-volume miniSEED files
// wrapped in a general-purpose compressor (.mseed.zst, .mseed.lz4); this
// package sniffs a stream's leading bytes for a known frame magic and, if
// found, returns a reader that transparently decompresses the underlying
// records before record.Reader ever sees them.
//
// Unlike a per-payload block codec, archive compression wraps an entire
// file of concatenated records, so Wrap works in terms of io.Reader rather
// than whole-buffer Compress/Decompress.
package archive

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Type identifies the compression frame format Wrap detected.
type Type uint8

const (
	None Type = iota
	Zstd
	S2
	LZ4
)

func (t Type) String() string {
	switch t {
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
	// s2 and snappy streams share the same chunked-stream framing: a
	// stream-identifier chunk (type 0xFF, 3-byte little-endian length
	// 0x000006) always opens the stream.
	s2Magic = []byte{0xFF, 0x06, 0x00, 0x00}
)

const peekWindow = 4

// Sniff inspects up to the first 4 bytes of peek and reports which frame
// format, if any, they match. It never returns an error: an unrecognized
// or too-short prefix simply reports None.
func Sniff(peek []byte) Type {
	switch {
	case hasPrefix(peek, zstdMagic):
		return Zstd
	case hasPrefix(peek, lz4Magic):
		return LZ4
	case hasPrefix(peek, s2Magic):
		return S2
	default:
		return None
	}
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}

	for i, p := range prefix {
		if b[i] != p {
			return false
		}
	}

	return true
}

// Wrap peeks at the leading bytes of r and, if they match a known
// compression frame magic, returns a reader that transparently
// decompresses the stream. If no known magic is found, r is returned
// unchanged (buffered, so the peeked bytes are not lost).
func Wrap(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 4096)

	peek, err := br.Peek(peekWindow)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	switch Sniff(peek) {
	case Zstd:
		return newZstdReader(br)
	case LZ4:
		return lz4.NewReader(br), nil
	case S2:
		return s2.NewReader(br), nil
	default:
		return br, nil
	}
}
