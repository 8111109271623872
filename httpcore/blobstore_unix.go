//go:build unix

package httpcore

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// OpenBlobStore maps path into memory read-only. The mapping is
// established once and held for the process lifetime; callers never
// see a short read or a torn write because there are no writers.
func OpenBlobStore(path string) (*BlobStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open corpus blob")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat corpus blob")
	}
	size := info.Size()
	if size == 0 {
		return nil, errors.New("corpus blob is empty")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "mmap corpus blob")
	}

	return &BlobStore{
		data:   data,
		digest: checksum(data),
		closer: func() error { return unix.Munmap(data) },
	}, nil
}
