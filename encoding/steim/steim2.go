package steim

import (
	"fmt"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
)

// Steim2 packs differences more densely than Steim1 by giving nibbles 2
// and 3 a second-level 2-bit sub-selector (the word's leading 2 bits)
// choosing among three fixed-width packings each:
//
//	nibble 2: dnib 1 -> 1x30-bit, dnib 2 -> 2x15-bit, dnib 3 -> 3x10-bit
//	nibble 3: dnib 1 -> 5x6-bit,  dnib 2 -> 6x5-bit,  dnib 3 -> 7x4-bit
//
// Nibble 1 packs 4x8-bit values with no sub-selector, identical to Steim1.

type steim2Packing struct {
	nibble, dnib uint8
	count, bits  int
}

// Widest-to-narrowest packing density: more values per word always wins
// since it minimizes the number of words (and therefore frames) needed.
var steim2Packings = []steim2Packing{
	{3, 3, 7, 4},
	{3, 2, 6, 5},
	{3, 1, 5, 6},
	{1, 0, 4, 8},
	{2, 3, 3, 10},
	{2, 2, 2, 15},
	{2, 1, 1, 30},
}

func fitsSignedBits(diffs []int32, n, bits int) bool {
	if len(diffs) < n {
		n = len(diffs)
	}

	lo := int32(-1) << (bits - 1)
	hi := -lo - 1

	for i := range n {
		if diffs[i] < lo || diffs[i] > hi {
			return false
		}
	}

	return true
}

func steim2Pick(diffs []int32) steim2Packing {
	for _, p := range steim2Packings {
		if fitsSignedBits(diffs, p.count, p.bits) {
			return p
		}
	}

	// Unreachable: EncodeSteim2 rejects any difference wider than 30 bits
	// before packing, and the 1x30-bit packing fits every other one.
	return steim2Packing{1, 0, 4, 8}
}

// packBits writes values (each a signed value fitting in bits) packed
// MSB-first into the word immediately after a leading 2-bit dnib,
// zero-padding any unused low-order bits.
func packBits(dnib uint8, values []int32, bits int) uint32 {
	word := uint32(dnib) << 30
	shift := 30

	for _, v := range values {
		shift -= bits
		mask := uint32(1)<<bits - 1
		word |= (uint32(v) & mask) << uint(shift)
	}

	return word
}

func unpackBits(word uint32, count, bits int) []int32 {
	out := make([]int32, count)
	shift := 30

	for i := range count {
		shift -= bits
		raw := (word >> uint(shift)) & (uint32(1)<<bits - 1)

		signBit := uint32(1) << (bits - 1)
		if raw&signBit != 0 {
			out[i] = int32(raw) - int32(uint32(1)<<bits)
		} else {
			out[i] = int32(raw)
		}
	}

	return out
}

func packSteim2Word(f *Frame, w int, p steim2Packing, diffs []int32) {
	n := p.count
	if n > len(diffs) {
		n = len(diffs)
	}
	vals := diffs[:n]

	if p.nibble == 1 {
		var word uint32
		for i := 0; i < 4; i++ {
			var v int8
			if i < len(vals) {
				v = int8(vals[i])
			}
			word |= uint32(byte(v)) << uint(24-8*i)
		}
		f.SetWord(w, word)

		return
	}

	padded := make([]int32, p.count)
	copy(padded, vals)
	f.SetWord(w, packBits(p.dnib, padded, p.bits))
}

func unpackSteim2Word(nibble uint8, word uint32) []int32 {
	switch nibble {
	case 0:
		return nil
	case 1:
		return []int32{
			int32(int8(word >> 24)),
			int32(int8(word >> 16)),
			int32(int8(word >> 8)),
			int32(int8(word)),
		}
	case 2:
		dnib := uint8(word >> 30)
		switch dnib {
		case 1:
			return unpackBits(word, 1, 30)
		case 2:
			return unpackBits(word, 2, 15)
		case 3:
			return unpackBits(word, 3, 10)
		default:
			return nil
		}
	case 3:
		dnib := uint8(word >> 30)
		switch dnib {
		case 1:
			return unpackBits(word, 5, 6)
		case 2:
			return unpackBits(word, 6, 5)
		case 3:
			return unpackBits(word, 7, 4)
		default:
			return nil
		}
	default:
		return nil
	}
}

// EncodeSteim2 compresses samples into a Steim-2 payload, writing words
// in engine's byte order.
func EncodeSteim2(samples []int32, engine endian.EndianEngine) ([]byte, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	diffs := make([]int32, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		diffs[i-1] = samples[i] - samples[i-1]
		if !fitsSignedBits(diffs[i-1:i], 1, 30) {
			return nil, fmt.Errorf("%w: steim2 difference %d does not fit in 30 bits", errs.ErrGenericError, diffs[i-1])
		}
	}

	var frames []*Frame
	pos := 0

	for pos < len(diffs) || len(frames) == 0 {
		frame := new(Frame)
		isFirst := len(frames) == 0
		wordStart := 1

		if isFirst {
			frame.SetX0(samples[0])
			frame.SetXn(samples[len(samples)-1])
			wordStart = 3
		}

		for w := wordStart; w <= PayloadWordsPerFrame; w++ {
			if pos >= len(diffs) {
				frame.SetNibble(w, 0)
				continue
			}

			p := steim2Pick(diffs[pos:])
			packSteim2Word(frame, w, p, diffs[pos:])
			frame.SetNibble(w, p.nibble)

			n := p.count
			if pos+n > len(diffs) {
				n = len(diffs) - pos
			}
			pos += n
		}

		frames = append(frames, frame)
	}

	return framesBytes(frames, engine), nil
}

// DecodeSteim2 decompresses a Steim-2 payload into count samples, reading
// words in engine's byte order.
func DecodeSteim2(data []byte, count int, engine endian.EndianEngine) ([]int32, error) {
	if count == 0 {
		return nil, nil
	}

	frames, err := splitFrames(data, engine)
	if err != nil {
		return nil, err
	}

	if len(frames) == 0 {
		return nil, errs.ErrTruncated
	}

	samples := make([]int32, 0, count)

	xn := frames[0].Xn()
	prev := frames[0].X0()
	samples = append(samples, prev)

	for fi, f := range frames {
		wordStart := 1
		if fi == 0 {
			wordStart = 3
		}

		for w := wordStart; w <= PayloadWordsPerFrame; w++ {
			if len(samples) >= count {
				break
			}

			nibble := f.Nibble(w)
			word := f.Word(w)

			for _, d := range unpackSteim2Word(nibble, word) {
				if len(samples) >= count {
					break
				}

				prev += d
				samples = append(samples, prev)
			}
		}
	}

	if len(samples) < count {
		return nil, errs.ErrTruncated
	}

	if samples[len(samples)-1] != xn {
		return nil, errs.ErrSteimBadNibble
	}

	return samples, nil
}
