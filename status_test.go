// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StatusSuite struct {
	XVCDSuite
}

func (suite *StatusSuite) newActivatedHandler() StatusHandler {
	jtag := newMockDriver("jtag")
	jtag.On("Activate", []string(nil), []string(nil)).Once().Return(error(nil))

	a := NewActivator(suite.logger, NewRegistry(jtag), nil)
	_, err := a.Activate("jtag")
	suite.Require().NoError(err)

	return StatusHandler{
		Activator: a,
		Clock:     suite.clock(),
		Started:   suite.now.Add(-5 * time.Minute),
	}
}

func (suite *StatusSuite) TestActivated() {
	var (
		sh       = suite.newActivatedHandler()
		request  = httptest.NewRequest("GET", "/status", nil)
		response = httptest.NewRecorder()
	)

	sh.ServeHTTP(response, request)

	result := response.Result()
	suite.Equal(http.StatusOK, result.StatusCode)
	suite.Equal("application/json", result.Header.Get("Content-Type"))

	var report statusReport
	suite.Require().NoError(json.NewDecoder(result.Body).Decode(&report))
	suite.Equal("jtag", report.Driver)
	suite.Equal("activated", report.State)
	suite.Equal("5m0s", report.Uptime)
}

func (suite *StatusSuite) TestIdle() {
	var (
		sh = StatusHandler{
			Activator: NewActivator(suite.logger, NewRegistry(), nil),
			Clock:     suite.clock(),
			Started:   suite.now,
		}

		request  = httptest.NewRequest("GET", "/status", nil)
		response = httptest.NewRecorder()
	)

	sh.ServeHTTP(response, request)

	var report statusReport
	suite.Require().NoError(json.NewDecoder(response.Result().Body).Decode(&report))
	suite.Empty(report.Driver)
	suite.Equal("idle", report.State)
}

func (suite *StatusSuite) TestProvideStatusDisabled() {
	suite.Nil(suite.buildServer(CommandLine{}))
}

func (suite *StatusSuite) TestProvideStatusPortOnly() {
	server := suite.buildServer(CommandLine{Status: "8080"})
	suite.Require().NotNil(server)
	suite.Equal(":8080", server.Addr)
}

func (suite *StatusSuite) TestRouting() {
	server := suite.buildServer(CommandLine{Status: "127.0.0.1:0"})
	suite.Require().NotNil(server)

	response := httptest.NewRecorder()
	server.Handler.ServeHTTP(response, httptest.NewRequest("GET", "/status", nil))
	suite.Equal(http.StatusOK, response.Result().StatusCode)

	response = httptest.NewRecorder()
	server.Handler.ServeHTTP(response, httptest.NewRequest("PUT", "/status", nil))
	suite.Equal(http.StatusMethodNotAllowed, response.Result().StatusCode)
}

// buildServer exercises the same constructor provideStatus registers.
func (suite *StatusSuite) buildServer(cl CommandLine) *http.Server {
	return newStatusServer(cl, suite.newActivatedHandler())
}

func TestStatus(t *testing.T) {
	suite.Run(t, new(StatusSuite))
}
