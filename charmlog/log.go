// Package charmlog provides an implementation of eisenhower.Logger using charmbracelet/log
package charmlog

import (
	"io"
	"os"
	"path"

	"github.com/benjamonnguyen/eisenhower"
	"github.com/charmbracelet/log"
)

type Options struct {
	Writer io.Writer
	Level  string
	Prefix string
}

func NewLogger(opts Options) eisenhower.Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
}

// OpenFile opens (creating parent dirs) the append-only log file at p.
func OpenFile(p string) (*os.File, error) {
	if err := os.MkdirAll(path.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
