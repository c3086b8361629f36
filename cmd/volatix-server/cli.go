// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"fmt"
	"os"

	"github.com/volatixdb/volatix/internal/config"
)

// cliParse parses os.Args[1:] into a config.Config, printing usage and
// exiting the way the standard flag package does on a bad flag.
func cliParse() config.Config {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}
