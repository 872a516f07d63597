//go:build !windows

package runner

import "golang.org/x/sys/unix"

func sendInterrupt() {
	_ = unix.Kill(unix.Getpid(), unix.SIGINT)
}
