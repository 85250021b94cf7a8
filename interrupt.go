// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"go.uber.org/atomic"
	"go.uber.org/fx"
)

// terminationMessage is the only output the interrupt handler produces.
const terminationMessage = "Terminating...\n"

// TerminationFlag is the single word of state shared between the
// interrupt handler and the server loop.  It is set at most once per run
// and never cleared.  Readers poll it between blocking operations and
// must never block waiting on it.
type TerminationFlag struct {
	requested atomic.Bool
}

// Set requests termination.  Setting an already-set flag has no
// additional effect.
func (f *TerminationFlag) Set() {
	f.requested.Store(true)
}

// Requested reports whether termination has been requested.
func (f *TerminationFlag) Requested() bool {
	return f.requested.Load()
}

// awaitInterrupt services the signal channel.  On the first delivery it
// writes the termination message and sets the flag; further deliveries do
// nothing.  It returns when the channel is closed.
func awaitInterrupt(sigs <-chan os.Signal, w io.Writer, f *TerminationFlag) {
	for range sigs {
		if f.Requested() {
			continue
		}

		io.WriteString(w, terminationMessage)
		f.Set()
	}
}

func provideInterrupt() fx.Option {
	return fx.Options(
		fx.Provide(
			func() *TerminationFlag {
				return new(TerminationFlag)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, f *TerminationFlag) {
				sigs := make(chan os.Signal, 1)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						signal.Notify(sigs, os.Interrupt)
						go awaitInterrupt(sigs, os.Stdout, f)
						return nil
					},
					OnStop: func(context.Context) error {
						signal.Stop(sigs)
						close(sigs)
						return nil
					},
				})
			},
		),
	)
}
