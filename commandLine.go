// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
)

// DefaultListenAddr is where the XVC server listens when -a is not given.
const DefaultListenAddr = "127.0.0.1:2542"

type CommandLine struct {
	Listen      string         `name:"listen" short:"a" default:"127.0.0.1:2542" help:"colon-separated address and port to listen for incoming XVC connections at"`
	Profile     string         `name:"profile" short:"p" required:"" help:"hardware profile or profile alias, of the form driver:arg0=val0,arg1=val1,..."`
	Aliases     string         `name:"aliases" optional:"" help:"TOML file with additional profile aliases"`
	Status      string         `name:"status" optional:"" help:"HTTP listen address or port for the status endpoint (disabled when empty)"`
	Verbose     bool           `name:"verbose" short:"v" help:"enable verbose output"`
	ListDrivers driverListFlag `name:"list-drivers" short:"l" help:"print available drivers and profile aliases, then exit"`
}

// driverListFlag dumps the driver and alias tables and exits successfully,
// short-circuiting the rest of parsing the same way kong.VersionFlag does.
type driverListFlag bool

func (driverListFlag) BeforeApply(app *kong.Kong) error {
	printDrivers(os.Stdout, builtinRegistry(), builtinAliases())
	app.Exit(0)
	return nil
}

func parseCommandLine(args []string) fx.Option {
	var (
		options []fx.Option
		cl      CommandLine
		k, err  = kong.New(
			&cl,
			kong.Name("xvcd"),
			kong.Description(
				"An XVC (Xilinx Virtual Cable) server.  A hardware profile selects the backend driver that answers XVC requests and supplies its configuration arguments.  Use --list-drivers to see the available drivers and the predefined profile aliases.",
			),
		)
	)

	if err == nil {
		_, err = k.Parse(args)
	}

	if err == nil {
		var debug Logger
		if cl.Verbose {
			debug = WriterLogger{Writer: os.Stdout}
		} else {
			debug = DiscardLogger{}
		}

		options = append(options,
			fx.Logger(debug),
			fx.Supply(cl),
		)
	}

	if err != nil {
		options = append(options, fx.Error(err))
	}

	return fx.Options(options...)
}
