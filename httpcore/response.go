package httpcore

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/packetd/imgserve/internal/zerocopy"
)

// Status codes the server ever produces. There is deliberately no
// generic passthrough: every branch of the resolver picks one of these.
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusInternalServerError = 500
)

var reasonPhrases = map[int]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInternalServerError: "Internal Server Error",
}

func reasonPhrase(code int) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return ""
}

// Response accumulates the pieces of an outgoing response. A response
// either carries its body inline in Body, or streams a file from disk
// via UseSendfile -- never both.
type Response struct {
	Code        int
	ContentType string
	Body        *bytebufferpool.ByteBuffer

	UseSendfile bool
	FilePath    string
	FileSize    int64
	FileModTime time.Time
}

// NewResponse returns a Response defaulted to 200 OK with an empty body.
func NewResponse() *Response {
	return &Response{
		Code: StatusOK,
		Body: bytebufferpool.Get(),
	}
}

// Release returns the response's body buffer to the shared pool. Callers
// must not touch the Response after calling Release.
func (r *Response) Release() {
	bytebufferpool.Put(r.Body)
	r.Body = nil
}

// Send writes the response's headers, inline body and, if applicable,
// the file it references, to conn. It stops at and reports the first
// error encountered, following the same ordering as a server that commits to
// its headers before it has confirmed the referenced file still opens
// cleanly: a late file-open failure here is reported to the caller but
// the client will already have received headers promising a body that
// never fully arrives.
func (r *Response) Send(conn net.Conn) error {
	contentLength := r.Body.Len()
	if r.UseSendfile {
		contentLength = int(r.FileSize)
	}

	headers := bytebufferpool.Get()
	defer bytebufferpool.Put(headers)

	fmt.Fprintf(headers, "HTTP/1.1 %d %s\r\n", r.Code, reasonPhrase(r.Code))
	fmt.Fprintf(headers, "%s\r\n", connectionKeepAlive)
	fmt.Fprintf(headers, "%s\r\n", serverBanner)
	if r.UseSendfile {
		fmt.Fprintf(headers, "Date: %s\r\n", r.FileModTime.UTC().Format(time.RFC1123))
	}
	if r.ContentType != "" {
		fmt.Fprintf(headers, "Content-Type: %s\r\n", r.ContentType)
	}
	fmt.Fprintf(headers, "Content-Length: %d\r\n", contentLength)
	headers.WriteString("\r\n")

	if _, err := conn.Write(headers.Bytes()); err != nil {
		return errors.Wrap(err, "write response headers")
	}

	if r.Body.Len() != 0 {
		if _, err := conn.Write(r.Body.Bytes()); err != nil {
			return errors.Wrap(err, "write response body")
		}
	}

	if !r.UseSendfile {
		return nil
	}

	f, err := os.Open(r.FilePath)
	if err != nil {
		return errors.Wrap(err, "open response file")
	}
	defer f.Close()

	if err := zerocopy.SendFile(conn, f, r.FileSize); err != nil {
		return errors.Wrap(err, "send response file")
	}
	return nil
}
