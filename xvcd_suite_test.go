// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/chronon"
)

// XVCDSuite hosts common infrastructure for xvcd unit test suites.
type XVCDSuite struct {
	suite.Suite

	now    time.Time
	logger Logger
}

var _ suite.BeforeTest = (*XVCDSuite)(nil)
var _ suite.SetupAllSuite = (*XVCDSuite)(nil)

func (suite *XVCDSuite) SetupSuite() {
	suite.now = time.Now()
}

func (suite *XVCDSuite) BeforeTest(suiteName, testName string) {
	suite.logger = testLogger{
		t:         suite.T(),
		suiteName: suiteName,
		testName:  testName,
	}
}

func (suite *XVCDSuite) clock() *chronon.FakeClock {
	return chronon.NewFakeClock(suite.now)
}
