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

//go:build !linux

package zerocopy

import (
	"io"
	"os"
)

// SendFile on non-Linux platforms falls back to a plain copy; it still
// satisfies the transfer contract, just not the zero-copy one.
func SendFile(conn io.Writer, f *os.File, size int64) error {
	_, err := io.CopyN(conn, f, size)
	return err
}
