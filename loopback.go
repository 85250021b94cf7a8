// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	defaultLoopbackTCK = 100 // ns

	loopbackHelp = "  tckns=<period>  emulated TCK period in nanoseconds (default 100)\n" +
		"  maxvec=<bytes>  largest accepted shift vector, in bytes (default 2048)\n"
)

// ErrLoopbackInactive is returned by loopback operations attempted
// outside the activated state.
var ErrLoopbackInactive = errors.New("loopback driver is not active")

// LoopbackDriver is a software backend: TDO mirrors TDI and no hardware is
// touched.  It exists for server bring-up and for running without a cable
// attached.
type LoopbackDriver struct {
	active bool
	tckNS  int
	maxVec int
}

func NewLoopbackDriver() *LoopbackDriver {
	return &LoopbackDriver{
		tckNS:  defaultLoopbackTCK,
		maxVec: DefaultVectorBytes,
	}
}

func (d *LoopbackDriver) Name() string { return "loopback" }
func (d *LoopbackDriver) Help() string { return loopbackHelp }

func (d *LoopbackDriver) Activate(argNames, argValues []string) error {
	if d.active {
		return errors.New("loopback driver is already active")
	}

	// duplicate argument names are allowed; the last occurrence wins
	for i, name := range argNames {
		value := argValues[i]
		switch name {
		case "tckns":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("bad tckns value %q", value)
			}
			d.tckNS = n

		case "maxvec":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("bad maxvec value %q", value)
			}
			d.maxVec = n

		default:
			return fmt.Errorf("unrecognized argument %q", name)
		}
	}

	d.active = true
	return nil
}

func (d *LoopbackDriver) Deactivate() error {
	if !d.active {
		return ErrLoopbackInactive
	}

	d.active = false
	return nil
}

// SetClockPeriod records the requested TCK period.  The loopback always
// honors the request exactly.
func (d *LoopbackDriver) SetClockPeriod(ns int) int {
	if ns > 0 {
		d.tckNS = ns
	}

	return d.tckNS
}

// Shift echoes the TDI vector back as TDO.
func (d *LoopbackDriver) Shift(numBits int, tms, tdi []byte) ([]byte, error) {
	if !d.active {
		return nil, ErrLoopbackInactive
	}

	numBytes := (numBits + 7) / 8
	if numBytes > d.maxVec {
		return nil, fmt.Errorf("%d bit shift exceeds the %d byte vector limit", numBits, d.maxVec)
	}

	if len(tms) < numBytes || len(tdi) < numBytes {
		return nil, fmt.Errorf("short shift vectors: need %d bytes, have %d and %d", numBytes, len(tms), len(tdi))
	}

	tdo := make([]byte, numBytes)
	copy(tdo, tdi[:numBytes])
	return tdo, nil
}
