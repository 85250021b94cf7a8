// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/fx"
)

// Logger is the logging interface expected by xvcd.  Loggers in
// various packages, such as go.uber.org/fx, implement this interface.
type Logger interface {
	Printf(string, ...interface{})
}

// WriterLogger is a Logger that sends its output to a given io.Writer.
type WriterLogger struct {
	Writer io.Writer
}

func (wl WriterLogger) Printf(format string, args ...interface{}) {
	var o bytes.Buffer
	fmt.Fprintf(&o, format+"\n", args...)

	// ensure a single write for each printf
	_, err := wl.Writer.Write(o.Bytes())
	if err != nil {
		panic(err)
	}
}

// DiscardLogger is a Logger that ignores all output.
type DiscardLogger struct{}

func (dl DiscardLogger) Printf(string, ...interface{}) {}

// Verbose carries the logger used for per-connection and per-command
// chatter.  It is a distinct type so that the verbose and normal loggers
// can coexist in the same dependency graph.  Unless --verbose is given,
// it discards everything.
type Verbose struct {
	Logger
}

func provideLogger(w io.Writer) fx.Option {
	return fx.Provide(
		func() Logger {
			return WriterLogger{Writer: w}
		},
		func(cl CommandLine, l Logger) Verbose {
			if cl.Verbose {
				return Verbose{Logger: l}
			}

			return Verbose{Logger: DiscardLogger{}}
		},
	)
}
