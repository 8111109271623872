//go:build !unix

package controller

// ignoreNoisySignals is a no-op on platforms without SIGCHLD/SIGPIPE.
func ignoreNoisySignals() {}
