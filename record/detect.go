package record

import (
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
)

// minDetectBytes is the minimum peek length DetectVersion needs to
// evaluate both the v3 and v2 branches.
const minDetectBytes = 24

// DetectVersion classifies a peeked byte window as a v3 or v2 record
// header. For v2 it also determines byte order, since the fixed header
// carries no explicit byte-order flag: both interpretations of the
// year/day fields are tried and the plausible one wins.
func DetectVersion(peek []byte) (version int, order endian.EndianEngine, err error) {
	if len(peek) < minDetectBytes {
		return 0, nil, errs.ErrTruncated
	}

	if peek[0] == 'M' && peek[1] == 'S' && peek[2] == 3 {
		return 3, endian.GetLittleEndianEngine(), nil
	}

	switch peek[6] {
	case 'D', 'R', 'Q', 'M':
	default:
		return 0, nil, errs.ErrNotMiniSEED
	}

	if order, ok := plausibleV2ByteOrder(peek); ok {
		return 2, order, nil
	}

	return 0, nil, errs.ErrNotMiniSEED
}

func plausibleV2ByteOrder(peek []byte) (endian.EndianEngine, bool) {
	for _, order := range []endian.EndianEngine{endian.GetBigEndianEngine(), endian.GetLittleEndianEngine()} {
		year := order.Uint16(peek[20:22])
		day := order.Uint16(peek[22:24])

		if year >= 1900 && year <= 2100 && day >= 1 && day <= 366 {
			return order, true
		}
	}

	return nil, false
}
