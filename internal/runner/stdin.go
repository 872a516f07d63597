package runner

import (
	"os"

	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/scanner"
	"golang.org/x/term"
)

// startStdinToggle reads single keypresses from stdin and toggles the
// returned pauser on Enter or Space. The cleanup function restores the
// terminal. If stdin is not a terminal, the pauser is nil.
func startStdinToggle(quiet bool) (pauser *scanner.Pauser, cleanup func()) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logging.Warnf("Could not enable raw terminal: %v", err)
		return nil, func() {}
	}

	// MakeRaw also clears OPOST, which breaks \n -> \r\n on output.
	fixOutputProcessing(fd)

	pauser = scanner.NewPauser()
	cleanup = func() {
		_ = term.Restore(fd, oldState)
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}

			switch key := buf[0]; key {
			case 0x03:
				// Ctrl+C: restore the terminal and re-raise SIGINT so the
				// context cancellation fires as usual.
				_ = term.Restore(fd, oldState)
				sendInterrupt()
				return
			case '\r', '\n', ' ':
				nowPaused := pauser.Toggle()
				if quiet {
					continue
				}
				os.Stderr.WriteString("\r\033[K")
				if nowPaused {
					logging.Infof("Scan PAUSED, press Enter or Space to resume")
				} else {
					logging.Infof("Scan RESUMED")
				}
			}
		}
	}()

	return pauser, cleanup
}
