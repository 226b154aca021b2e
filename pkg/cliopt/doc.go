// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cliopt defines command-line options and the registry that holds
// them.
//
// An Option is built once and never modified:
//
//	verbose := cliopt.New("v").Long("verbose").Desc("Verbose output").MustBuild()
//	output := cliopt.New("o").Long("output").HasArg().ArgName("FILE").MustBuild()
//
//	opts := cliopt.NewOptions()
//	opts.MustAdd(verbose)
//	opts.MustAdd(output)
//
// Mutually exclusive options are collected in a Group:
//
//	opts.AddGroup(cliopt.NewRequiredGroup(jsonOpt, yamlOpt))
//
// Options holds no parse state, so one registry may be shared by any number
// of concurrent parses once it is fully built. See package posix for the
// parser.
package cliopt
