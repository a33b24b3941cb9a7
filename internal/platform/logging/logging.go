package logging

import (
	"io"
	"strings"

	clog "github.com/charmbracelet/log"
)

// New returns the process logger writing to w. Unknown levels fall back
// to info.
func New(w io.Writer, level string) *clog.Logger {
	l := clog.NewWithOptions(w, clog.Options{
		Prefix:          "certflow",
		ReportTimestamp: false,
	})
	l.SetLevel(ParseLevel(level))
	return l
}

func ParseLevel(level string) clog.Level {
	parsed, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return clog.InfoLevel
	}
	return parsed
}
