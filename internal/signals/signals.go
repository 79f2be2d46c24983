//go:build !unix

package signals

import "os"

// Shutdown returns the signals that trigger graceful shutdown. Only Interrupt
// exists on non-Unix platforms.
func Shutdown() []os.Signal {
	return []os.Signal{os.Interrupt}
}
