// Package httpcore implements the hand-rolled HTTP/1.1 surface of the
// image corpus server: connection handling, request parsing, response
// framing and the small set of resources the server exposes.
package httpcore

import "time"

const (
	// ImageSize is the width and height, in pixels, of a single corpus record.
	ImageSize = 32
	// recordChannels is the number of color planes stored per record (R, G, B).
	recordChannels = 3
	// RecordStride is the byte size of one fixed-width record: one label
	// byte followed by the three planar color channels.
	RecordStride = 1 + ImageSize*ImageSize*recordChannels
	// RecordCount is the number of fixed-width records in the corpus blob.
	RecordCount = 10000

	// TableSize is the width/height of the thumbnail grid on an index page.
	TableSize = 10
	// ImagesPerPage is the number of thumbnails rendered on one index page.
	ImagesPerPage = TableSize * TableSize
	// PageCount is the number of distinct index pages the corpus supports.
	PageCount = RecordCount / ImagesPerPage
)

// DefaultKeepAliveIdleTimeout is the idle timeout applied when a
// Config doesn't override it.
const DefaultKeepAliveIdleTimeout = 10 * time.Second

// KeepAliveIdleTimeout bounds how long a kept-alive connection may sit
// idle between requests (and between partial reads of one request)
// before it is torn down. It is a var, not a const, so Config.IdleTimeout
// and tests can both override it without a clock-injection interface.
var KeepAliveIdleTimeout = DefaultKeepAliveIdleTimeout

const (
	connectionKeepAlive = "Connection: keep-alive"
	serverBanner        = "Server: imgserve"
)
