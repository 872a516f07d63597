// Package logging holds the process-wide status logger. Status lines go to
// stderr so stdout stays reserved for scan results.
package logging

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger.
var L = clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "keycrack"})

// Setup points L at w with a level derived from the quiet/debug flags.
func Setup(w io.Writer, quiet, debug bool) {
	L = clog.NewWithOptions(w, clog.Options{Prefix: "keycrack"})
	switch {
	case debug:
		L.SetLevel(clog.DebugLevel)
	case quiet:
		L.SetLevel(clog.ErrorLevel)
	default:
		L.SetLevel(clog.InfoLevel)
	}
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}
