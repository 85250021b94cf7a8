// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// aliasFile is the on-disk shape of a user alias table:
//
//	[[alias]]
//	alias = "mimas"
//	profile = "loopback:tckns=100"
//	description = "Mimas A7 board over the software loopback"
type aliasFile struct {
	Alias []Alias `toml:"alias"`
}

// LoadAliasFile reads additional profile aliases from a TOML file.  The
// returned entries keep file order; callers append them after the
// built-ins so they take part in the same in-order substitution scan.
func LoadAliasFile(path string) ([]Alias, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f aliasFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i, a := range f.Alias {
		if len(a.Alias) == 0 || len(a.Profile) == 0 {
			return nil, fmt.Errorf("%s: alias entry %d needs both an alias and a profile", path, i)
		}
	}

	return f.Alias, nil
}
