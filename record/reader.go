package record

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
)

const (
	// defaultMaxRecordLength bounds the largest single record Next will
	// attempt to read. A corrupt length field cannot force an unbounded
	// read past this.
	defaultMaxRecordLength = 1 << 16

	// defaultMaxSkipBytes bounds how far Next hunts through non-record
	// bytes before giving up on the stream.
	defaultMaxSkipBytes = 1 << 20
)

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxSkip bounds how many leading junk bytes Next scans past while
// hunting for the next record header before returning
// errs.ErrNotMiniSEED.
func WithMaxSkip(n int64) ReaderOption {
	return func(r *Reader) { r.maxSkip = n }
}

// WithMaxRecordLength bounds the largest record Next will attempt to
// read.
func WithMaxRecordLength(n int) ReaderOption {
	return func(r *Reader) { r.maxRecordLength = n }
}

// Reader is a stateful, forward-only reader over a byte stream carrying
// zero or more concatenated miniSEED records, v2 and v3 freely mixed. It
// detects end-of-stream and skips non-record bytes between records until
// detection succeeds again.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src             io.ReadSeeker
	maxSkip         int64
	maxRecordLength int
	pos             int64
}

// NewReader wraps src, a seekable source such as an open file or an
// in-memory byte range. Records are read starting at src's current
// position.
func NewReader(src io.ReadSeeker, opts ...ReaderOption) (*Reader, error) {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIOFailure, err)
	}

	r := &Reader{
		src:             src,
		maxSkip:         defaultMaxSkipBytes,
		maxRecordLength: defaultMaxRecordLength,
		pos:             pos,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Next returns the next record in the stream, advancing past it. It
// returns io.EOF once the stream is exhausted (no further record header
// found within the remaining bytes), or errs.ErrNotMiniSEED if it scans
// more than the configured maximum skip without locating one. Next checks
// ctx before each record and returns ctx.Err() immediately if it has been
// cancelled.
func (r *Reader) Next(ctx context.Context) (*Record, error) {
	var skipped int64

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		peek, err := r.readAt(r.pos, minDetectBytes)
		if len(peek) < minDetectBytes {
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, err
			}

			return nil, io.EOF
		}

		version, order, derr := DetectVersion(peek)
		if derr == nil {
			rec, length, perr := r.parseAt(version, order)
			if perr != nil {
				return nil, perr
			}

			r.pos += int64(length)

			return rec, nil
		}

		if !errors.Is(derr, errs.ErrNotMiniSEED) {
			return nil, derr
		}

		r.pos++
		skipped++

		if skipped > r.maxSkip {
			return nil, fmt.Errorf("%w: no record found within %d bytes", errs.ErrNotMiniSEED, r.maxSkip)
		}
	}
}

// readAt seeks to offset and reads up to n bytes, returning as many as
// were actually available.
func (r *Reader) readAt(offset int64, n int) ([]byte, error) {
	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIOFailure, err)
	}

	buf := make([]byte, n)

	read, err := io.ReadFull(r.src, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %v", errs.ErrIOFailure, err)
	}

	return buf[:read], err
}

// parseAt reads and parses the full record at r.pos, given its already
// detected version and byte order, returning the record and its length in
// bytes.
func (r *Reader) parseAt(version int, order endian.EndianEngine) (*Record, int, error) {
	switch version {
	case 3:
		return r.parseV3At(r.pos)
	case 2:
		return r.parseV2At(r.pos, order)
	default:
		return nil, 0, fmt.Errorf("%w: unrecognized format version %d", errs.ErrNotMiniSEED, version)
	}
}

func (r *Reader) parseV3At(offset int64) (*Record, int, error) {
	head, err := r.readAt(offset, v3FixedHeaderSize)
	if len(head) < v3FixedHeaderSize {
		return nil, 0, fmt.Errorf("%w: %v", errs.ErrTruncated, err)
	}

	order := binary.LittleEndian
	sidLen := int(head[v3OffSIDLength])
	extraLen := int(order.Uint16(head[v3OffExtraLength : v3OffExtraLength+2]))
	dataLen := int(order.Uint32(head[v3OffDataLength : v3OffDataLength+4]))
	total := v3FixedHeaderSize + sidLen + extraLen + dataLen

	if total > r.maxRecordLength {
		return nil, 0, fmt.Errorf("%w: declared record length %d exceeds maximum %d", errs.ErrBadLength, total, r.maxRecordLength)
	}

	full, err := r.readAt(offset, total)
	if len(full) < total {
		return nil, 0, fmt.Errorf("%w: %v", errs.ErrTruncated, err)
	}

	rec, perr := ParseV3(full)
	if perr != nil {
		return nil, 0, perr
	}

	return rec, total, nil
}

// parseV2At parses a v2 record starting at offset. Unlike v3, a v2
// record's total length is only known once its blockette chain has been
// walked (via the 1000 blockette's record-length exponent), so this reads
// an initial probe window and grows it if parsing reports a truncated
// buffer. When the stream ends inside the window, the bytes that remain
// are parsed as they are.
func (r *Reader) parseV2At(offset int64, order endian.EndianEngine) (*Record, int, error) {
	probe := v2FixedHeaderSize

	for {
		buf, err := r.readAt(offset, probe)
		if len(buf) < v2FixedHeaderSize {
			return nil, 0, fmt.Errorf("%w: %v", errs.ErrTruncated, err)
		}

		rec, perr := ParseV2(buf, order)
		if perr == nil {
			return rec, len(rec.RecordBytes), nil
		}

		if !errors.Is(perr, errs.ErrTruncated) && !errors.Is(perr, errs.ErrInvalidBlockette) {
			return nil, 0, perr
		}

		if len(buf) < probe {
			return nil, 0, fmt.Errorf("%w: %v", errs.ErrTruncated, perr)
		}

		if probe >= r.maxRecordLength {
			return nil, 0, fmt.Errorf("%w: v2 record exceeds maximum length %d", errs.ErrBadLength, r.maxRecordLength)
		}

		probe *= 2
		if probe > r.maxRecordLength {
			probe = r.maxRecordLength
		}
	}
}
