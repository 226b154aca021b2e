// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/shayne/yargs"
	"github.com/yeetrun/posixopt/pkg/cli"
)

type globalFlagsParsed struct {
	LogLevel  string `flag:"log-level" help:"Log level: debug, info, warn or error (POSIXOPT_LOG_LEVEL)"`
	LogFormat string `flag:"log-format" help:"Log format: text or json"`
	NoColor   bool   `flag:"no-color" help:"Disable colored output (NO_COLOR)"`
	Defs      string `flag:"defs" help:"Directory searched for definition files (POSIXOPT_DEFS)"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func (a *app) handlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		cli.CommandFlatten: a.handleFlatten,
		cli.CommandParse:   a.handleParse,
		cli.CommandBatch:   a.handleBatch,
		cli.CommandTyped:   a.handleTyped,
	}
}

// Keep in sync with the group metadata in pkg/cli.
func (a *app) groupHandlers() map[string]yargs.Group {
	return map[string]yargs.Group{
		cli.GroupDef: {
			Description: cli.GroupInfos()[cli.GroupDef].Description,
			Commands: map[string]yargs.SubcommandHandler{
				cli.CommandCheck:   a.handleDefCheck,
				cli.CommandConvert: a.handleDefConvert,
			},
		},
	}
}

func (a *app) handlerFor(path []string) yargs.SubcommandHandler {
	switch len(path) {
	case 1:
		return a.handlers()[path[0]]
	case 2:
		return a.groupHandlers()[path[0]].Commands[path[1]]
	}
	return nil
}
