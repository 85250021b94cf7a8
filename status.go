// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/chronon"
	"go.uber.org/fx"
)

// StatusHandler reports the bridge's current condition: the activated
// driver, the activator state, and process uptime.
type StatusHandler struct {
	Activator *Activator
	Clock     chronon.Clock
	Started   time.Time
}

type statusReport struct {
	Driver string `json:"driver,omitempty"`
	State  string `json:"state"`
	Uptime string `json:"uptime"`
}

func (sh StatusHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	report := statusReport{
		State:  sh.Activator.State().String(),
		Uptime: sh.Clock.Now().Sub(sh.Started).String(),
	}

	if d := sh.Activator.Active(); d != nil {
		report.Driver = d.Name()
	}

	response.Header().Set("Content-Type", "application/json")
	json.NewEncoder(response).Encode(report)
}

// newStatusServer builds the optional status listener.  It returns nil
// when no status address was configured.
func newStatusServer(cl CommandLine, sh StatusHandler) *http.Server {
	if len(cl.Status) == 0 {
		return nil
	}

	address := cl.Status

	// just a port is allowed
	p, err := strconv.Atoi(cl.Status)
	if err == nil {
		address = fmt.Sprintf(":%d", p)
	}

	r := mux.NewRouter()
	r.Handle("/status", sh).Methods("GET")

	return &http.Server{
		Addr:    address,
		Handler: r,
	}
}

func provideStatus() fx.Option {
	return fx.Options(
		fx.Provide(
			func(a *Activator, c chronon.Clock) StatusHandler {
				return StatusHandler{
					Activator: a,
					Clock:     c,
					Started:   c.Now(),
				}
			},
			newStatusServer,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, logger Logger, server *http.Server) {
				if server == nil {
					return
				}

				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go func() {
							err := server.ListenAndServe()
							if !errors.Is(err, http.ErrServerClosed) {
								logger.Printf("status server error: %s", err)
							}
						}()

						return nil
					},
					OnStop: server.Shutdown,
				})
			},
		),
	)
}
