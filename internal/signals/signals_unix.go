//go:build unix

package signals

import (
	"os"
	"syscall"
)

// Shutdown returns the signals that trigger graceful shutdown, including
// SIGTERM from container runtimes and process managers.
func Shutdown() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
