//go:build cgozstd

package archive

import (
	"bytes"
	"io"

	"github.com/valyala/gozstd"
)

// newZstdReader returns a reader over the zstd-decompressed stream, backed
// by the cgo gozstd bindings and selected by the cgozstd build tag for
// deployments that can pay the cgo cost for gozstd's faster decode path.
// It reads the whole compressed input and decompresses it in one call
// before returning; it does not decompress incrementally.
func newZstdReader(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(decompressed), nil
}
