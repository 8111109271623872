package httpcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestBlob(t *testing.T, records int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.bin")

	buf := make([]byte, records*RecordStride)
	for n := 0; n < records; n++ {
		start := n * RecordStride
		buf[start] = byte(n % 10) // label
		for i := 1; i < RecordStride; i++ {
			buf[start+i] = byte((n + i) % 256)
		}
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestBlobStoreRecordRoundTrip(t *testing.T) {
	path := writeTestBlob(t, 3)

	store, err := OpenBlobStore(path)
	require.NoError(t, err)
	defer store.Close()

	rec, err := store.Record(1)
	require.NoError(t, err)
	assert.Len(t, rec, RecordStride)
	assert.Equal(t, byte(1), rec[0])
}

func TestBlobStoreOutOfRange(t *testing.T) {
	path := writeTestBlob(t, 2)
	store, err := OpenBlobStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Record(-1)
	assert.ErrorIs(t, err, ErrRecordOutOfRange)

	_, err = store.Record(2)
	assert.Error(t, err)
}

func TestBlobStoreChecksumStable(t *testing.T) {
	path := writeTestBlob(t, 2)
	s1, err := OpenBlobStore(path)
	require.NoError(t, err)
	defer s1.Close()

	s2, err := OpenBlobStore(path)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, s1.Checksum(), s2.Checksum())
}

func TestOpenBlobStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := OpenBlobStore(path)
	assert.Error(t, err)
}
