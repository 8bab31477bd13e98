// Package logging builds the process logger.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Only warnings and errors are shown
// unless verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "openit",
		ReportTimestamp: false,
	})

	logger.SetLevel(Level(verbose))

	return logger
}

// Level maps the verbose flag to a log level.
func Level(verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}

	return log.WarnLevel
}
