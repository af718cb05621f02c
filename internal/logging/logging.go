// Package logging configures the charmbracelet/log logger shared by every
// beman-init package.
//
// All log output goes to stderr; stdout carries only the final summary so
// that it can be piped. Call Setup once from the CLI before any package
// creates its logger with New: child loggers copy the default logger's
// settings at creation time.
//
//	logging.Setup(verbose, quiet, jsonFormat)
//	logger := logging.New("rewrite")
//	logger.Debug("rewrote file", "path", "CMakeLists.txt")
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Re-exported levels so callers need not import charmbracelet/log.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Setup configures the default logger. Quiet wins over verbose.
func Setup(verbose, quiet, jsonFormat bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}

	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)

	if jsonFormat {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

// New returns a logger tagged with the given component prefix. An empty
// component yields an unprefixed logger.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// Discard returns a logger that drops everything. Used by tests and by
// library callers that pass no logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// SetOutput redirects the default logger, mainly so tests can capture it.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}
