//go:build !unix

package httpcore

import (
	"os"

	"github.com/pkg/errors"
)

// OpenBlobStore reads path fully into memory. Platforms without mmap
// support pay a one-time copy at startup instead; read-only access
// afterwards behaves identically to the mapped path.
func OpenBlobStore(path string) (*BlobStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read corpus blob")
	}
	if len(data) == 0 {
		return nil, errors.New("corpus blob is empty")
	}

	return &BlobStore{
		data:   data,
		digest: checksum(data),
	}, nil
}
