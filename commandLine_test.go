// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

type CommandLineSuite struct {
	XVCDSuite
}

func (suite *CommandLineSuite) parse(args ...string) (CommandLine, error) {
	var cl CommandLine
	app := fx.New(
		fx.Logger(DiscardLogger{}),
		parseCommandLine(args),
		fx.Populate(&cl),
	)

	return cl, app.Err()
}

func (suite *CommandLineSuite) TestError() {
	_, err := suite.parse("--unrecognized")
	suite.Error(err)
}

func (suite *CommandLineSuite) TestMissingProfile() {
	_, err := suite.parse()
	suite.Error(err)
}

func (suite *CommandLineSuite) TestTypical() {
	cl, err := suite.parse(
		"--profile", "loopback:tckns=50",
		"--listen", "127.0.0.1:9999",
		"--status", "8080",
		"--verbose",
	)

	suite.Require().NoError(err)
	suite.Equal("loopback:tckns=50", cl.Profile)
	suite.Equal("127.0.0.1:9999", cl.Listen)
	suite.Equal("8080", cl.Status)
	suite.True(cl.Verbose)
}

func (suite *CommandLineSuite) TestShortFlags() {
	cl, err := suite.parse("-p", "sim", "-a", "127.0.0.1:2543", "-v")

	suite.Require().NoError(err)
	suite.Equal("sim", cl.Profile)
	suite.Equal("127.0.0.1:2543", cl.Listen)
	suite.True(cl.Verbose)
}

func (suite *CommandLineSuite) TestDefaults() {
	cl, err := suite.parse("-p", "sim")

	suite.Require().NoError(err)
	suite.Equal(DefaultListenAddr, cl.Listen)
	suite.Empty(cl.Status)
	suite.Empty(cl.Aliases)
	suite.False(cl.Verbose)
}

func TestCommandLine(t *testing.T) {
	suite.Run(t, new(CommandLineSuite))
}
