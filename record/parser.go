package record

import (
	"fmt"

	"github.com/seisio/mseed/errs"
)

// Parse detects a record's format version and byte order from its leading
// bytes, then fully parses it. data must hold at least one complete
// record; trailing bytes beyond the record's declared length are ignored.
func Parse(data []byte) (*Record, error) {
	version, order, err := DetectVersion(data)
	if err != nil {
		return nil, err
	}

	switch version {
	case 3:
		return ParseV3(data)
	case 2:
		return ParseV2(data, order)
	default:
		return nil, fmt.Errorf("%w: unrecognized format version %d", errs.ErrNotMiniSEED, version)
	}
}
