// Package steim implements the Steim-1 and Steim-2 frame-based difference
// codecs used by the INT32 "compressed" sample encodings. Both codecs pack
// an integer number of fixed 64-byte frames; each frame opens with a
// 4-byte nibble word classifying its fifteen payload words, and frame 0
// additionally reserves its first two payload words for the forward and
// reverse integration constants.
package steim

import (
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
)

const (
	// FrameSize is the fixed byte length of one Steim frame.
	FrameSize = 64

	// WordsPerFrame is the number of 4-byte words in a frame, including
	// the leading nibble word.
	WordsPerFrame = 16

	// PayloadWordsPerFrame is the number of data words following the
	// nibble word.
	PayloadWordsPerFrame = WordsPerFrame - 1
)

// Frame is one 64-byte Steim frame: a packed nibble word followed by
// fifteen 32-bit payload words. Internally a Frame always holds its words
// big-endian; splitFrames and framesBytes convert to and from the
// record's actual on-the-wire word order at the package boundary, the
// same swap-on-the-way-in/out approach libmseed's decoder uses via its
// swapflag.
type Frame [FrameSize]byte

// Nibble returns the 2-bit nibble at index i (0..15). Nibble 0 is always
// reserved and must be 0; nibbles 1..15 classify payload words 1..15.
func (f *Frame) Nibble(i int) uint8 {
	word := f.nibbleWord()
	shift := uint(2 * (15 - i))

	return uint8((word >> shift) & 0x3)
}

// SetNibble sets the 2-bit nibble at index i (0..15).
func (f *Frame) SetNibble(i int, v uint8) {
	word := f.nibbleWord()
	shift := uint(2 * (15 - i))
	word &^= 0x3 << shift
	word |= uint32(v&0x3) << shift
	f.setNibbleWord(word)
}

func (f *Frame) nibbleWord() uint32 {
	return uint32(f[0])<<24 | uint32(f[1])<<16 | uint32(f[2])<<8 | uint32(f[3])
}

func (f *Frame) setNibbleWord(w uint32) {
	f[0] = byte(w >> 24)
	f[1] = byte(w >> 16)
	f[2] = byte(w >> 8)
	f[3] = byte(w)
}

// Word returns payload word i (1..15) as a raw 32-bit big-endian value.
func (f *Frame) Word(i int) uint32 {
	off := i * 4
	return uint32(f[off])<<24 | uint32(f[off+1])<<16 | uint32(f[off+2])<<8 | uint32(f[off+3])
}

// SetWord sets payload word i (1..15).
func (f *Frame) SetWord(i int, v uint32) {
	off := i * 4
	f[off] = byte(v >> 24)
	f[off+1] = byte(v >> 16)
	f[off+2] = byte(v >> 8)
	f[off+3] = byte(v)
}

// X0 returns frame 0's forward integration constant (payload word 1).
func (f *Frame) X0() int32 { return int32(f.Word(1)) }

// SetX0 sets frame 0's forward integration constant.
func (f *Frame) SetX0(v int32) { f.SetWord(1, uint32(v)) }

// Xn returns frame 0's reverse integration constant (payload word 2).
func (f *Frame) Xn() int32 { return int32(f.Word(2)) }

// SetXn sets frame 0's reverse integration constant.
func (f *Frame) SetXn(v int32) { f.SetWord(2, uint32(v)) }

// splitFrames splits a compressed payload into its constituent frames,
// converting each word from engine's byte order into Frame's big-endian
// internal representation. Returns errs.ErrBadLength if the payload
// length is not a multiple of FrameSize.
func splitFrames(data []byte, engine endian.EndianEngine) ([]*Frame, error) {
	if len(data)%FrameSize != 0 {
		return nil, errs.ErrBadLength
	}

	n := len(data) / FrameSize
	frames := make([]*Frame, n)
	littleEndian := isLittleEndian(engine)

	for i := range n {
		f := new(Frame)
		copy(f[:], data[i*FrameSize:(i+1)*FrameSize])
		if littleEndian {
			swapWords(f)
		}
		frames[i] = f
	}

	return frames, nil
}

// framesBytes serializes frames (held big-endian internally) into a
// payload in engine's byte order.
func framesBytes(frames []*Frame, engine endian.EndianEngine) []byte {
	out := make([]byte, 0, len(frames)*FrameSize)
	littleEndian := isLittleEndian(engine)

	for _, f := range frames {
		if !littleEndian {
			out = append(out, f[:]...)
			continue
		}

		swapped := *f
		swapWords(&swapped)
		out = append(out, swapped[:]...)
	}

	return out
}

// swapWords reverses the byte order of every 32-bit word in f, including
// the leading nibble word.
func swapWords(f *Frame) {
	for i := 0; i < WordsPerFrame; i++ {
		endian.SwapInPlace32(f[i*4 : i*4+4])
	}
}

func isLittleEndian(engine endian.EndianEngine) bool {
	return engine == endian.GetLittleEndianEngine()
}
