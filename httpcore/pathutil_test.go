package httpcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentDecode(t *testing.T) {
	out, err := percentDecode("a%20b%2Fc")
	require.NoError(t, err)
	assert.Equal(t, "a b/c", out)
}

func TestPercentDecodeInvalidEscape(t *testing.T) {
	_, err := percentDecode("a%zz")
	assert.Error(t, err)
}

func TestCanonicalizeWithinRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	p, err := canonicalize(root, "a.txt")
	require.NoError(t, err)

	wantRoot, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, filepath.Join(wantRoot, "a.txt"), p)
}

func TestCanonicalizeEscapesRoot(t *testing.T) {
	root := t.TempDir()
	_, err := canonicalize(root, "../../../../etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestCanonicalizeMissingRootFails(t *testing.T) {
	_, err := canonicalize(filepath.Join(t.TempDir(), "does-not-exist"), "a.txt")
	assert.ErrorIs(t, err, ErrStaticRootUnavailable)
}
