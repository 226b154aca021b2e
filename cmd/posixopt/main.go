// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command posixopt parses command lines against option definition files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/posixopt/pkg/cli"
	"github.com/yeetrun/posixopt/pkg/ctxlog"
	"github.com/yeetrun/posixopt/pkg/tui"
)

const defaultLogLevel = "warn"

type app struct {
	stdout io.Writer
	stderr io.Writer
	// color is applied to stdout; errColor to stderr.
	color    tui.Colorizer
	errColor tui.Colorizer
	defsDir  string
	progress bool
}

func newApp(stdout, stderr io.Writer, flags globalFlagsParsed) *app {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		defsDir: flags.Defs,
	}
	if a.defsDir == "" {
		a.defsDir = os.Getenv("POSIXOPT_DEFS")
	}
	if f, ok := stdout.(*os.File); ok {
		a.color = tui.ColorizerFor(f, !flags.NoColor)
	}
	if f, ok := stderr.(*os.File); ok {
		a.errColor = tui.ColorizerFor(f, !flags.NoColor)
		a.progress = tui.IsTerminal(f)
	}
	return a
}

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		printCLIError(stderr, usageError{err})
		return exitCode(usageError{err})
	}
	if flags.NoColor {
		color.NoColor = true
	}
	level := flags.LogLevel
	if level == "" {
		level = os.Getenv("POSIXOPT_LOG_LEVEL")
	}
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := ctxlog.ParseLevel(level)
	if err != nil {
		printCLIError(stderr, usageError{err})
		return exitCode(usageError{err})
	}
	logger, err := ctxlog.New(lvl, flags.LogFormat, stderr)
	if err != nil {
		printCLIError(stderr, usageError{err})
		return exitCode(usageError{err})
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	a := newApp(stdout, stderr, flags)
	if err := a.dispatch(ctx, remaining); err != nil {
		printCLIError(stderr, err)
		return exitCode(err)
	}
	return 0
}

// dispatch routes args to a command handler. Help flags after "--" are part
// of the command line being parsed, so yargs' help handling is bypassed for
// them.
func (a *app) dispatch(ctx context.Context, args []string) error {
	helpConfig := cli.HelpConfig()
	args = yargs.ApplyAliases(args, helpConfig)
	end := len(args)
	if i := slices.Index(args, "--"); i >= 0 {
		end = i
	}
	res, ok, err := yargs.ResolveCommandWithRegistry(args[:end], cli.Registry())
	if err == nil && ok {
		ctxlog.FromContext(ctx).Debug("resolved command", "path", res.Path)
		if end < len(args) && !hasHelpFlag(args[:end]) && hasHelpFlag(args[end+1:]) {
			if h := a.handlerFor(res.Path); h != nil {
				name := res.Path[len(res.Path)-1]
				return h(ctx, slices.Concat([]string{name}, res.Args, args[end:]))
			}
		}
	}
	return yargs.RunSubcommandsWithGroups(ctx, args, helpConfig, globalFlagsParsed{}, a.handlers(), a.groupHandlers())
}

func hasHelpFlag(args []string) bool {
	return slices.ContainsFunc(args, func(s string) bool {
		return s == "-h" || s == "--help" || s == "--help-llm"
	})
}

func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed, color.Bold).Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
