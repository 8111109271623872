// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux

package zerocopy

import (
	"errors"
	"io"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// SendFile writes size bytes from f (starting at offset 0) to conn using
// sendfile(2) when conn exposes a raw file descriptor, retrying on EINTR
// and EAGAIN up to MaxAttempts times. Connections that cannot hand out a
// raw descriptor (e.g. in-memory pipes used by tests) fall back to a
// plain io.CopyN, which still satisfies the transfer contract, just not
// the zero-copy one.
func SendFile(conn syscallConn, f *os.File, size int64) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return copyFallback(conn, f, size)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return copyFallback(conn, f, size)
	}

	srcFD := int(f.Fd())
	var offset int64
	remaining := size
	attempts := 0
	var opErr error

	ctlErr := raw.Write(func(fd uintptr) bool {
		for remaining > 0 {
			n, err := unix.Sendfile(int(fd), srcFD, &offset, int(remaining))
			if n > 0 {
				remaining -= int64(n)
			}
			if err == nil {
				continue
			}
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				attempts++
				if attempts >= MaxAttempts {
					opErr = ErrTooManyAttempts
					return true
				}
				if errors.Is(err, unix.EAGAIN) {
					// ask the runtime poller to wait for writability
					// then re-invoke this callback.
					return false
				}
				continue
			}
			opErr = err
			return true
		}
		return true
	})
	if ctlErr != nil {
		return ctlErr
	}
	return opErr
}

type syscallConn interface {
	io.Writer
}

func copyFallback(conn syscallConn, f *os.File, size int64) error {
	_, err := io.CopyN(conn, f, size)
	return err
}
