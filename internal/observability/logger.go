package observability

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger creates a levelled console logger writing to stderr.
// Unknown levels fall back to info, unknown formats to text.
func NewLogger(level, format string) *log.Logger {
	return newLogger(os.Stderr, level, format)
}

// NopLogger discards everything. Useful as a default and in tests.
func NopLogger() *log.Logger {
	return log.New(io.Discard)
}

func newLogger(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}

	formatter := log.TextFormatter
	switch strings.ToLower(format) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Formatter:       formatter,
	})
}
