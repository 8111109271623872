package httpcore

import (
	"net"

	"github.com/google/uuid"

	"github.com/packetd/imgserve/logger"
)

// serve runs the request/response loop for one accepted connection,
// closing it itself only on the disconnected path; every other exit
// leaves the close to the caller, matching the six distinct teardown
// paths this protocol distinguishes (poll/read error, idle timeout,
// peer half-close, malformed request, handler error, clean keep-alive
// exhaustion).
func (r *Resolver) serve(conn net.Conn) {
	connID := uuid.NewString()
	keepLoop := true
	first := true

	for keepLoop {
		req := &Request{}

		result := req.Receive(conn, !first)
		first = false

		switch result {
		case ReceiveSuccess:
			resp := r.Handle(req)
			if err := resp.Send(conn); err != nil {
				logger.Debugf("conn %s: failed writing response: %v", connID, err)
			}
			resp.Release()
			keepLoop = req.KeepAlive

		case ReceiveBadRequest:
			resp := r.errorPage(StatusBadRequest)
			_ = resp.Send(conn)
			resp.Release()
			return

		case ReceiveError:
			resp := r.errorPage(StatusInternalServerError)
			_ = resp.Send(conn)
			resp.Release()
			return

		case ReceiveDisconnected:
			_ = conn.Close()
			return
		}
	}
}
