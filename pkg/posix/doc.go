// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package posix parses command-line arguments against a cliopt registry
// using POSIX conventions.
//
// Parsing happens in two passes. Flatten rewrites the raw arguments into
// one token per option or value: burst short options such as "-abc" are
// split into "-a", "-b", "-c", attached values such as "-dvalue" and
// "--name=value" are separated, and a "--" marks the end of options. The
// parse engine then walks those tokens, pulls the values each option's
// arity calls for, enforces mutually exclusive groups and reports missing
// required options.
//
//	cl, err := posix.Parse(opts, os.Args[1:], false)
//	if err != nil {
//		var pe posix.ParseError
//		if errors.As(err, &pe) {
//			...
//		}
//	}
//	if cl.Has("verbose") {
//		...
//	}
//
// Everything a parse accumulates is kept outside the registry, so one
// *cliopt.Options may be shared by any number of concurrent parses.
package posix
