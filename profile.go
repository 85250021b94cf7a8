// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"
)

const (
	// MaxProfileArgs is the largest number of name=value pairs accepted
	// in a single profile.
	MaxProfileArgs = 32

	// MaxProfileLen bounds the length of a profile string, measured after
	// alias substitution.
	MaxProfileLen = 1024

	// maxAliasPasses bounds fixed-point alias substitution so that a
	// self-referential or mutually-referential alias table terminates.
	maxAliasPasses = 8
)

var (
	// ErrProfileTooLong is returned for profiles longer than MaxProfileLen.
	ErrProfileTooLong = errors.New("profile string is too long")

	// ErrTooManyArgs is returned for profiles with more than
	// MaxProfileArgs argument pairs.
	ErrTooManyArgs = errors.New("profile has too many arguments")
)

// Alias maps a short name onto a fully specified profile string.  Alias
// tables are ordered: substitution scans them front to back.
type Alias struct {
	Alias       string `toml:"alias"`
	Profile     string `toml:"profile"`
	Description string `toml:"description"`
}

func builtinAliases() []Alias {
	return []Alias{
		{
			Alias:       "sim",
			Profile:     "loopback:tckns=100",
			Description: "software loopback with a 10 MHz emulated TCK",
		},
		{
			Alias:       "sim-fast",
			Profile:     "loopback:tckns=10",
			Description: "software loopback with a 100 MHz emulated TCK",
		},
	}
}

// ResolveAlias expands profile against the alias table.  Each entry whose
// alias equals the whole working string replaces it entirely, and the scan
// continues with the remaining entries against the new string, so aliases
// may chain and a later match overrides an earlier one within a pass.
// Passes repeat until a fixed point, capped at maxAliasPasses so that a
// cyclic table cannot spin forever.
func ResolveAlias(table []Alias, profile string, l Logger) string {
	for pass := 0; pass < maxAliasPasses; pass++ {
		substituted := false
		for _, a := range table {
			if profile == a.Alias {
				l.Printf("found alias %s (%s), using profile %s", a.Alias, a.Description, a.Profile)
				profile = a.Profile
				substituted = true
			}
		}

		if !substituted {
			break
		}
	}

	return profile
}

// ParsedProfile is the result of splitting one profile string.  Names and
// Values are parallel slices in profile order.  The strings alias the
// profile text handed to ParseProfile; the value is transient and drivers
// copy what they keep.
type ParsedProfile struct {
	Driver string
	Names  []string
	Values []string
}

// ParseProfile splits a profile of the form
//
//	<driver>:<name0>=<val0>,<name1>=<val1>,...
//
// Splitting is purely lexical and lenient: a profile without ':' is just
// a driver name, and a pair without '=' yields an empty value.  The two
// hard limits, MaxProfileLen and MaxProfileArgs, are enforced loudly
// rather than by silent truncation.
func ParseProfile(s string) (ParsedProfile, error) {
	if len(s) > MaxProfileLen {
		return ParsedProfile{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrProfileTooLong, len(s), MaxProfileLen)
	}

	name, rest, found := strings.Cut(s, ":")
	parsed := ParsedProfile{Driver: name}
	if !found || len(rest) == 0 {
		return parsed, nil
	}

	pairs := strings.Split(rest, ",")

	// a single empty trailing segment ("d:a=1,") is dropped; interior
	// empty segments still count as empty-name pairs
	if pairs[len(pairs)-1] == "" {
		pairs = pairs[:len(pairs)-1]
	}

	if len(pairs) > MaxProfileArgs {
		return ParsedProfile{}, fmt.Errorf("%w: %d pairs (limit %d)", ErrTooManyArgs, len(pairs), MaxProfileArgs)
	}

	for _, pair := range pairs {
		n, v, _ := strings.Cut(pair, "=")
		parsed.Names = append(parsed.Names, n)
		parsed.Values = append(parsed.Values, v)
	}

	return parsed, nil
}

func provideAliases() fx.Option {
	return fx.Provide(
		func(cl CommandLine) ([]Alias, error) {
			aliases := builtinAliases()
			if len(cl.Aliases) == 0 {
				return aliases, nil
			}

			extra, err := LoadAliasFile(cl.Aliases)
			if err != nil {
				return nil, err
			}

			return append(aliases, extra...), nil
		},
	)
}
