package httpcore

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/packetd/imgserve/common"
)

// ReceiveResult is the outcome of reading one request off a connection.
type ReceiveResult int

const (
	ReceiveSuccess ReceiveResult = iota
	ReceiveBadRequest
	ReceiveError
	ReceiveDisconnected
)

// Request holds the pieces of a parsed request line and the one header
// this server cares about. Everything else on the wire is read and
// discarded.
type Request struct {
	Method    string
	Path      string
	Query     string
	KeepAlive bool
}

// Receive reads and parses one request from conn. keepAliveIn reports
// whether this is a subsequent request on an already kept-alive
// connection; when true an idle timeout applies to every read,
// including mid-request reads of a slowly trickling header block. The
// very first request on a connection blocks indefinitely, matching a
// server that never set a read deadline for it.
func (req *Request) Receive(conn net.Conn, keepAliveIn bool) ReceiveResult {
	parser := newLineParser(req)
	defer parser.release()

	buf := make([]byte, common.ReadWriteBlockSize)
	for {
		if keepAliveIn {
			_ = conn.SetReadDeadline(time.Now().Add(KeepAliveIdleTimeout))
		} else {
			_ = conn.SetReadDeadline(time.Time{})
		}

		n, err := conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return ReceiveDisconnected
			}
			if errors.Is(err, io.EOF) {
				return ReceiveDisconnected
			}
			return ReceiveError
		}
		if n == 0 {
			return ReceiveDisconnected
		}

		consumed := parser.consume(buf[:n])
		if consumed != n {
			parser.invalid = true
		}
		if parser.complete || parser.invalid {
			break
		}
	}

	if parser.invalid {
		return ReceiveBadRequest
	}
	return ReceiveSuccess
}
