// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/posixopt/pkg/cliopt"
)

// ErrNoValue is returned by typed access to an option that is absent or
// was given without a value.
var ErrNoValue = errors.New("option has no value")

// ParseError is implemented by every error a parse can fail with.
type ParseError interface {
	error
	parseError()
}

// UnrecognizedOptionError reports a token with option syntax that names no
// registered option.
type UnrecognizedOptionError struct {
	Option string
}

func (e *UnrecognizedOptionError) Error() string {
	return fmt.Sprintf("unrecognized option: %s", e.Option)
}

func (*UnrecognizedOptionError) parseError() {}

// AmbiguousOptionError reports a long option prefix that abbreviates more
// than one long name.
type AmbiguousOptionError struct {
	Option  string
	Matches []string
}

func (e *AmbiguousOptionError) Error() string {
	flags := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		flags[i] = "--" + m
	}
	return fmt.Sprintf("ambiguous option: %s (could be: %s)", e.Option, strings.Join(flags, ", "))
}

func (*AmbiguousOptionError) parseError() {}

// MissingArgumentError reports an option followed by fewer values than its
// arity demands.
type MissingArgumentError struct {
	Option *cliopt.Option
	Want   cliopt.Arity
	Got    int
}

func (e *MissingArgumentError) Error() string {
	if e.Want == cliopt.Unlimited || e.Want == 1 {
		return fmt.Sprintf("missing argument for option: %s", e.Option.Flag())
	}
	return fmt.Sprintf("missing argument for option: %s (want %d values, got %d)", e.Option.Flag(), int(e.Want), e.Got)
}

func (*MissingArgumentError) parseError() {}

// MissingOptionError lists the required options and groups a parse did not
// see. Options are named by their short name, groups as "[-a | -b]".
type MissingOptionError struct {
	Missing []string
}

func (e *MissingOptionError) Error() string {
	if len(e.Missing) == 1 {
		return "missing required option: " + e.Missing[0]
	}
	return "missing required options: " + strings.Join(e.Missing, ", ")
}

func (*MissingOptionError) parseError() {}

// AlreadySelectedError reports a second member of a mutually exclusive
// group.
type AlreadySelectedError struct {
	Group    *cliopt.Group
	Selected *cliopt.Option
	Option   *cliopt.Option
}

func (e *AlreadySelectedError) Error() string {
	return fmt.Sprintf("option %s cannot be used with %s: only one of %s may be given",
		e.Option.Flag(), e.Selected.Flag(), e.Group)
}

func (*AlreadySelectedError) parseError() {}
