// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/stretchr/testify/mock"
)

type mockDriver struct {
	mock.Mock

	name string
	help string
}

var _ Driver = (*mockDriver)(nil)

func newMockDriver(name string) *mockDriver {
	return &mockDriver{
		name: name,
		help: "a mock driver used by tests",
	}
}

func (m *mockDriver) Name() string { return m.name }
func (m *mockDriver) Help() string { return m.help }

func (m *mockDriver) Activate(argNames, argValues []string) error {
	args := m.Called(argNames, argValues)
	return args.Error(0)
}

func (m *mockDriver) Deactivate() error {
	args := m.Called()
	return args.Error(0)
}

// mockShiftDriver is a mock driver that also advertises the Shifter and
// ClockSetter capabilities.
type mockShiftDriver struct {
	mockDriver
}

var _ Shifter = (*mockShiftDriver)(nil)
var _ ClockSetter = (*mockShiftDriver)(nil)

func newMockShiftDriver(name string) *mockShiftDriver {
	return &mockShiftDriver{
		mockDriver: mockDriver{
			name: name,
			help: "a mock shifting driver used by tests",
		},
	}
}

func (m *mockShiftDriver) Shift(numBits int, tms, tdi []byte) ([]byte, error) {
	args := m.Called(numBits, tms, tdi)
	tdo, _ := args.Get(0).([]byte)
	return tdo, args.Error(1)
}

func (m *mockShiftDriver) SetClockPeriod(ns int) int {
	args := m.Called(ns)
	return args.Int(0)
}
