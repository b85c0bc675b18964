package record

import (
	"fmt"
	"math"
	"time"

	"github.com/seisio/mseed/cbor"
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
)

// Known v2 blockette types.
const (
	blocketteSampleRate    = 100
	blocketteEventDetect   = 200
	blocketteCalibEvent    = 201
	blocketteGenericCalib  = 300
	blocketteSineCalib     = 310
	blocketteSquareCalib   = 320
	blocketteChannelConfig = 390
	blocketteCalibAbort    = 395
	blocketteBeamDelay     = 400
	blocketteBeamConfig    = 405
	blocketteTimingQuality = 500
	blocketteDataOnly      = 1000
	blocketteDataExtension = 1001
	blocketteOpaque        = 2000
)

// blocketteHeaderSize is the common type+next_offset prefix every
// blockette carries.
const blocketteHeaderSize = 4

// walkBlockettes walks the v2 blockette chain starting at firstOffset
// within record, applying each recognized blockette's effect to rec. Minor
// event/calibration/timing blockettes that do not affect decode are folded
// into rec.ExtraHeaders verbatim; 100/1000/1001 are interpreted because
// they affect sample rate, encoding, byte order, and record framing.
func walkBlockettes(rec *Record, record []byte, firstOffset int, order endian.EndianEngine) (encoding byte, recordLen int, err error) {
	store, err := cbor.Open(rec.ExtraHeaders)
	if err != nil {
		return 0, 0, err
	}

	recordLen = len(record)
	seen := map[int]bool{}
	offset := firstOffset

	for offset != 0 {
		if seen[offset] {
			return 0, 0, fmt.Errorf("%w: cyclic blockette chain at offset %d", errs.ErrInvalidBlockette, offset)
		}
		seen[offset] = true

		if offset+blocketteHeaderSize > len(record) {
			return 0, 0, fmt.Errorf("%w: blockette offset %d out of range", errs.ErrInvalidBlockette, offset)
		}

		btype := order.Uint16(record[offset : offset+2])
		next := int(order.Uint16(record[offset+2 : offset+4]))
		body := record[offset+blocketteHeaderSize:]

		switch btype {
		case blocketteSampleRate:
			if len(body) < 8 {
				return 0, 0, fmt.Errorf("%w: blockette 100 truncated", errs.ErrInvalidBlockette)
			}

			bits := order.Uint32(body[0:4])
			rec.SampleRate = float64(math.Float32frombits(bits))

		case blocketteDataOnly:
			if len(body) < 4 {
				return 0, 0, fmt.Errorf("%w: blockette 1000 truncated", errs.ErrInvalidBlockette)
			}

			encoding = body[0]
			recordLen = 1 << body[2]

		case blocketteDataExtension:
			if len(body) < 4 {
				return 0, 0, fmt.Errorf("%w: blockette 1001 truncated", errs.ErrInvalidBlockette)
			}

			timingQuality := body[0]
			microsec := int8(body[1])

			if err := store.Set("FDSN/Time/Quality", cbor.Int(int64(timingQuality))); err != nil {
				return 0, 0, err
			}

			rec.StartTime = rec.StartTime.Add(time.Duration(microsec) * time.Microsecond)

		case blocketteTimingQuality:
			if len(body) >= 1 {
				if err := store.Set("FDSN/Time/Quality", cbor.Int(int64(body[0]))); err != nil {
					return 0, 0, err
				}
			}

		case blocketteEventDetect, blocketteCalibEvent:
			if err := appendRawBlockette(store, "FDSN/Event/Detections", btype, body); err != nil {
				return 0, 0, err
			}

		case blocketteGenericCalib, blocketteSineCalib, blocketteSquareCalib, blocketteChannelConfig, blocketteCalibAbort:
			if err := appendRawBlockette(store, "FDSN/Calibration/Entries", btype, body); err != nil {
				return 0, 0, err
			}

		case blocketteBeamDelay, blocketteBeamConfig:
			if err := appendRawBlockette(store, "FDSN/Beam/Entries", btype, body); err != nil {
				return 0, 0, err
			}

		default:
			if err := appendRawBlockette(store, "FDSN/Blockette/Opaque", btype, body); err != nil {
				return 0, 0, err
			}
		}

		offset = next
	}

	rec.ExtraHeaders = store.Bytes()

	return encoding, recordLen, nil
}

func appendRawBlockette(store *cbor.Store, path string, btype uint16, body []byte) error {
	return store.AppendToArray(path, map[string]cbor.Item{
		"type": cbor.Int(int64(btype)),
		"data": cbor.BytesItem(append([]byte(nil), body...)),
	})
}

