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

// Package zerocopy transmits a file's contents to a connection without
// bouncing the bytes through a userspace buffer, when the platform and
// connection type allow it.
package zerocopy

import "errors"

// MaxAttempts bounds how many times SendFile retries a transient send
// error (EINTR/EAGAIN surfacing from the underlying syscall) before
// giving up.
const MaxAttempts = 5

// ErrTooManyAttempts is returned once MaxAttempts transient errors have
// been observed for a single SendFile call.
var ErrTooManyAttempts = errors.New("zerocopy: too many transient send errors")
