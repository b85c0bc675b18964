package steim

import (
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
)

// Steim1 packs differences into each payload word as 4 int8, 2 int16, or 1
// int32, selected by the word's nibble (1, 2, 3 respectively). Nibble 0
// marks an unused padding word at the tail of the final frame.

// EncodeSteim1 compresses samples into a Steim-1 payload, writing words in
// engine's byte order. Returns an integer number of 64-byte frames.
func EncodeSteim1(samples []int32, engine endian.EndianEngine) ([]byte, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	// S0 = X0 is carried directly in frame 0's reserved word; the
	// difference stream covers d_i = S_i - S_{i-1} for i = 1..n-1.
	diffs := make([]int32, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		diffs[i-1] = samples[i] - samples[i-1]
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

			n, count := steim1Pick(diffs[pos:])
			packSteim1Word(frame, w, n, diffs[pos:pos+count])
			frame.SetNibble(w, n)
			pos += count
		}

		frames = append(frames, frame)
	}

	return framesBytes(frames, engine), nil
}

// steim1Pick chooses the widest nibble that fits the available run of
// differences, preferring the one that packs the most differences per
// word when several widths fit.
func steim1Pick(diffs []int32) (nibble uint8, count int) {
	if fitsInt8(diffs, 4) {
		return 1, min(4, len(diffs))
	}

	if fitsInt16(diffs, 2) {
		return 2, min(2, len(diffs))
	}

	return 3, 1
}

func fitsInt8(diffs []int32, n int) bool {
	if len(diffs) < n {
		n = len(diffs)
	}

	for i := range n {
		if diffs[i] < -128 || diffs[i] > 127 {
			return false
		}
	}

	return true
}

func fitsInt16(diffs []int32, n int) bool {
	if len(diffs) < n {
		n = len(diffs)
	}

	for i := range n {
		if diffs[i] < -32768 || diffs[i] > 32767 {
			return false
		}
	}

	return true
}

func packSteim1Word(f *Frame, w int, nibble uint8, diffs []int32) {
	var word uint32

	switch nibble {
	case 1:
		for i := 0; i < 4; i++ {
			var v int8
			if i < len(diffs) {
				v = int8(diffs[i])
			}
			word |= uint32(byte(v)) << uint(24-8*i)
		}
	case 2:
		for i := 0; i < 2; i++ {
			var v int16
			if i < len(diffs) {
				v = int16(diffs[i])
			}
			word |= uint32(uint16(v)) << uint(16-16*i)
		}
	case 3:
		word = uint32(diffs[0])
	}

	f.SetWord(w, word)
}

// DecodeSteim1 decompresses a Steim-1 payload into count samples, reading
// words in engine's byte order.
func DecodeSteim1(data []byte, count int, engine endian.EndianEngine) ([]int32, error) {
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

			for _, d := range unpackSteim1Word(nibble, word) {
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

func unpackSteim1Word(nibble uint8, word uint32) []int32 {
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
		return []int32{
			int32(int16(word >> 16)),
			int32(int16(word)),
		}
	case 3:
		return []int32{int32(word)}
	default:
		return nil
	}
}
