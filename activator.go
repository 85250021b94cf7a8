// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/fx"
)

var (
	// ErrDriverNotFound is returned when a profile names a driver that is
	// not in the registry.
	ErrDriverNotFound = errors.New("no registered driver with that name")

	// ErrDriverActive is returned by Activate when a driver has already
	// been activated in this run.
	ErrDriverActive = errors.New("a driver is already activated")

	// ErrActivation is returned when the resolved driver rejects its
	// activation arguments.  Activation is attempted exactly once; there
	// is no retry.
	ErrActivation = errors.New("driver activation failed")
)

// ActivatorState tracks the driver activation lifecycle.
type ActivatorState int

const (
	StateIdle ActivatorState = iota
	StateActivating
	StateActivated
	StateDeactivating
	StateFailed
)

func (s ActivatorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateDeactivating:
		return "deactivating"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Activator resolves profile strings against the registry and owns the
// activation lifecycle of the selected driver.  At most one driver is
// activated per process run.
type Activator struct {
	logger   Logger
	registry *Registry
	aliases  []Alias

	lock   sync.Mutex
	state  ActivatorState
	active Driver
}

func NewActivator(l Logger, r *Registry, aliases []Alias) *Activator {
	return &Activator{
		logger:   l,
		registry: r,
		aliases:  aliases,
	}
}

// State reports the current lifecycle state.
func (a *Activator) State() ActivatorState {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.state
}

// Active returns the activated driver, or nil when no driver is active.
func (a *Activator) Active() Driver {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.active
}

// Activate expands aliases in profile, parses it, looks the named driver
// up and invokes its activation contract with the parsed argument pairs.
// A lookup miss or a driver rejection leaves the activator failed; the
// caller decides whether that ends the process.
func (a *Activator) Activate(profile string) (Driver, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state != StateIdle {
		return nil, fmt.Errorf("%w: can not activate %q while %s", ErrDriverActive, profile, a.state)
	}

	resolved := ResolveAlias(a.aliases, profile, a.logger)
	parsed, err := ParseProfile(resolved)
	if err != nil {
		return nil, err
	}

	a.state = StateActivating
	d, ok := a.registry.Find(parsed.Driver)
	if !ok {
		a.state = StateFailed
		a.logger.Printf("can not find driver %q", parsed.Driver)
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, parsed.Driver)
	}

	if err := d.Activate(parsed.Names, parsed.Values); err != nil {
		a.state = StateFailed
		a.logger.Printf("failed to activate driver %q: %s", d.Name(), err)
		return nil, fmt.Errorf("%w: %q: %s", ErrActivation, d.Name(), err)
	}

	a.state = StateActivated
	a.active = d
	a.logger.Printf("activated driver %q", d.Name())
	return d, nil
}

// Deactivate tears the activated driver down.  A deactivation failure is
// reported as a warning only: shutdown is already underway and the exit
// status must not change.  Calling Deactivate with no activated driver is
// a no-op.
func (a *Activator) Deactivate() {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state != StateActivated {
		return
	}

	a.state = StateDeactivating
	if err := a.active.Deactivate(); err != nil {
		a.logger.Printf("warning: failed to deactivate driver %q: %s", a.active.Name(), err)
	}

	a.active = nil
	a.state = StateIdle
}

func provideActivator() fx.Option {
	return fx.Options(
		fx.Provide(
			NewActivator,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, cl CommandLine, a *Activator) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						_, err := a.Activate(cl.Profile)
						return err
					},
					OnStop: func(context.Context) error {
						a.Deactivate()
						return nil
					},
				})
			},
		),
	)
}
