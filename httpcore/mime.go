package httpcore

import "strings"

var mimeTypesByExtension = map[string]string{
	".svg": "image/svg+xml",
	".css": "text/css",
	".txt": "text/plain",
}

// guessContentType returns the content type for a static file path
// based on its extension, or "" if none of the known extensions match
// (the caller then omits the Content-Type header entirely).
func guessContentType(path string) string {
	lower := strings.ToLower(path)
	for ext, mime := range mimeTypesByExtension {
		if strings.HasSuffix(lower, ext) {
			return mime
		}
	}
	return ""
}
