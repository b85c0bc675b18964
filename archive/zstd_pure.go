//go:build !cgozstd

package archive

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZstdReader returns a streaming zstd decompressor backed by the pure-Go
// klauspost/compress/zstd implementation.
func newZstdReader(r io.Reader) (io.Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return dec.IOReadCloser(), nil
}
