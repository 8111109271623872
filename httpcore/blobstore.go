package httpcore

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// ErrRecordOutOfRange is returned by Record when n falls outside
// [0, RecordCount).
var ErrRecordOutOfRange = errors.New("record index out of range")

// BlobStore gives read-only access to the fixed-stride corpus file,
// mapped into memory once at startup and never copied or modified
// afterwards, so concurrent readers need no locking.
type BlobStore struct {
	data   []byte
	digest uint64
	closer func() error
}

// Checksum returns the xxhash of the full mapped blob, computed once at
// load time; handy for confirming every worker is actually looking at
// the corpus file the operator pointed it at.
func (s *BlobStore) Checksum() uint64 {
	return s.digest
}

// Record returns the raw bytes of record n, including its leading label
// byte, as a slice into the memory-mapped blob. The slice must not be
// retained past the BlobStore's lifetime.
func (s *BlobStore) Record(n int) ([]byte, error) {
	if n < 0 || n >= RecordCount {
		return nil, ErrRecordOutOfRange
	}
	start := n * RecordStride
	end := start + RecordStride
	if end > len(s.data) {
		return nil, errors.Wrap(ErrRecordOutOfRange, "blob shorter than expected")
	}
	return s.data[start:end], nil
}

// Close unmaps the underlying file.
func (s *BlobStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *BlobStore) describe() string {
	return fmt.Sprintf("%d bytes, xxhash=%x", len(s.data), s.digest)
}

func checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
