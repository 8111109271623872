//go:build unix

package controller

import (
	"syscall"

	"github.com/packetd/imgserve/internal/sigs"
)

// ignoreNoisySignals masks SIGCHLD and SIGPIPE for the process
// lifetime so a half-closed client socket or a reaped child never
// interrupts a blocking accept/read or kills the server outright.
func ignoreNoisySignals() {
	sigs.Ignore(syscall.SIGCHLD)
	sigs.Ignore(syscall.SIGPIPE)
}
