// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"go.uber.org/fx"
)

// Driver is a hardware backend capable of answering XVC requests.  A
// driver is configured at most once per process run through Activate and
// torn down through Deactivate.
//
// Activate receives the profile arguments as parallel name/value slices,
// in profile order.  Names are not required to be unique; a driver
// interprets duplicates however it sees fit.  The slices are only valid
// for the duration of the call: a driver that needs an argument later
// must copy it.
type Driver interface {
	Name() string
	Help() string
	Activate(argNames, argValues []string) error
	Deactivate() error
}

// Shifter is an optional Driver capability: shifting numBits bits of TMS
// and TDI through the scan chain.  The returned TDO vector holds the same
// number of bits.
type Shifter interface {
	Shift(numBits int, tms, tdi []byte) ([]byte, error)
}

// ClockSetter is an optional Driver capability: configuring the TCK
// period.  It returns the period actually in effect, in nanoseconds,
// which may differ from the requested one.
type ClockSetter interface {
	SetClockPeriod(ns int) int
}

// Registry is an ordered, read-only collection of driver descriptors.
// It is populated once at startup.  Names are unique; if a duplicate
// slips in, the first registered driver wins.
type Registry struct {
	drivers []Driver
}

func NewRegistry(drivers ...Driver) *Registry {
	return &Registry{drivers: drivers}
}

// Scan calls visit for each driver in registration order and returns the
// first driver for which visit reports true.  It is the registry's single
// enumeration primitive: find-by-name and print-all are both built on it.
func (r *Registry) Scan(visit func(Driver) bool) (Driver, bool) {
	for _, d := range r.drivers {
		if visit(d) {
			return d, true
		}
	}

	return nil, false
}

// Find returns the driver with the given name.  Matching is exact and
// case-sensitive.
func (r *Registry) Find(name string) (Driver, bool) {
	return r.Scan(func(d Driver) bool {
		return d.Name() == name
	})
}

func builtinRegistry() *Registry {
	return NewRegistry(
		NewLoopbackDriver(),
	)
}

func printDrivers(w io.Writer, r *Registry, aliases []Alias) {
	fmt.Fprintln(w, "Drivers:")
	r.Scan(func(d Driver) bool {
		fmt.Fprintf(w, "%q:\n%s\n", d.Name(), d.Help())
		return false
	})

	fmt.Fprintln(w, "Aliases:")
	for _, a := range aliases {
		fmt.Fprintf(w, "%q - %s\n", a.Alias, a.Description)
	}
}

func provideDrivers() fx.Option {
	return fx.Provide(
		builtinRegistry,
	)
}
