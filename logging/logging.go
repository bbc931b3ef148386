// Package logging builds the process loggers: a main log on stderr
// (optionally teed to a file) and a separate error log capturing per-file
// processing failures.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	mainLogName  = "dicomsar.log"
	errorLogName = "dicomsar.errors.log"
)

type Options struct {
	// Verbose lowers the main log level to debug.
	Verbose bool

	// Dir, when set, receives the log files. Without it the main log goes to
	// stderr only and errors share the main log.
	Dir string

	// Quiet drops the stderr sinks, leaving file output only. Used while a
	// live display owns the terminal.
	Quiet bool
}

// Logs bundles the configured loggers. Close releases the underlying files.
type Logs struct {
	Main  *slog.Logger
	Error *slog.Logger

	files []*os.File
}

func (l *Logs) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Setup builds the loggers per the options.
func Setup(opts Options) (*Logs, error) {
	return setup(opts, os.Stderr)
}

func setup(opts Options, stderr io.Writer) (*Logs, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	logs := &Logs{}

	mainSinks := []io.Writer{}
	if !opts.Quiet {
		mainSinks = append(mainSinks, stderr)
	}
	if opts.Dir != "" {
		f, err := openLog(filepath.Join(opts.Dir, mainLogName))
		if err != nil {
			return nil, err
		}
		logs.files = append(logs.files, f)
		mainSinks = append(mainSinks, f)
	}
	logs.Main = slog.New(slog.NewTextHandler(combine(mainSinks), &slog.HandlerOptions{Level: level}))

	logs.Error = logs.Main
	if opts.Dir != "" {
		f, err := openLog(filepath.Join(opts.Dir, errorLogName))
		if err != nil {
			logs.Close()
			return nil, err
		}
		logs.files = append(logs.files, f)
		errSinks := []io.Writer{f}
		if !opts.Quiet {
			errSinks = append([]io.Writer{stderr}, errSinks...)
		}
		logs.Error = slog.New(slog.NewTextHandler(combine(errSinks), &slog.HandlerOptions{Level: level}))
	}

	return logs, nil
}

func combine(sinks []io.Writer) io.Writer {
	switch len(sinks) {
	case 0:
		return io.Discard
	case 1:
		return sinks[0]
	}
	return io.MultiWriter(sinks...)
}

func openLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "Setup error: opening log file %s", path)
	}
	return f, nil
}
