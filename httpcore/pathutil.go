package httpcore

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrOutsideRoot is returned by canonicalize when a request path
// resolves outside the configured static root.
var ErrOutsideRoot = errors.New("path escapes static root")

// ErrStaticRootUnavailable is returned by canonicalize when the
// configured static root itself cannot be resolved -- a server
// misconfiguration, not a bad request, and kept distinct from
// ErrOutsideRoot (400) and from a request path that fails to resolve
// (404) so callers can answer 500.
var ErrStaticRootUnavailable = errors.New("static root unavailable")

// percentDecode decodes a percent-escaped request path. It treats '+'
// literally (this is a filesystem path, not a form field), unlike
// url.QueryUnescape.
func percentDecode(path string) (string, error) {
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return "", errors.Wrap(err, "percent-decode path")
	}
	return decoded, nil
}

// canonicalRealPath resolves path to its absolute, symlink-free form.
func canonicalRealPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// canonicalize resolves decoded relative to an explicit static root
// directory and verifies the result falls within that root, itself
// canonicalised the same way. Resolving against an explicit root
// rather than the process's working directory is deliberate: a CWD-
// relative check only works by accident of where the server happens to
// be started from.
func canonicalize(root, decoded string) (string, error) {
	canonicalRoot, err := canonicalRealPath(root)
	if err != nil {
		return "", ErrStaticRootUnavailable
	}

	requested := decoded
	if !filepath.IsAbs(requested) {
		requested = filepath.Join(root, decoded)
	}
	canonicalPath, err := canonicalRealPath(requested)
	if err != nil {
		return "", errors.Wrap(err, "canonicalize requested path")
	}

	if canonicalPath != canonicalRoot && !strings.HasPrefix(canonicalPath, canonicalRoot+string(os.PathSeparator)) {
		return "", ErrOutsideRoot
	}
	return canonicalPath, nil
}
