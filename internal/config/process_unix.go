//go:build !windows

package config

import (
	"os"
	"syscall"
)

// processAlive sends signal 0 to pid; on Unix FindProcess always succeeds.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
