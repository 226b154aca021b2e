// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yeetrun/posixopt/pkg/batch"
	"github.com/yeetrun/posixopt/pkg/cli"
	"github.com/yeetrun/posixopt/pkg/cliopt"
	"github.com/yeetrun/posixopt/pkg/coerce"
	"github.com/yeetrun/posixopt/pkg/ctxlog"
	"github.com/yeetrun/posixopt/pkg/optdef"
	"github.com/yeetrun/posixopt/pkg/posix"
	"github.com/yeetrun/posixopt/pkg/tui"
)

var definitionExts = []string{".toml", ".yaml", ".yml", ".hcl", ".json"}

// findDefinition resolves name against the definitions directory when it
// does not name an existing file.
func (a *app) findDefinition(name string) string {
	if _, err := os.Stat(name); err == nil || a.defsDir == "" || filepath.IsAbs(name) {
		return name
	}
	candidates := []string{filepath.Join(a.defsDir, name)}
	if filepath.Ext(name) == "" {
		for _, ext := range definitionExts {
			candidates = append(candidates, filepath.Join(a.defsDir, name+ext))
		}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return name
}

func (a *app) loadDefinition(ctx context.Context, name string) (*optdef.Definition, *cliopt.Options, error) {
	path := a.findDefinition(name)
	d, err := optdef.Load(path)
	if err != nil {
		return nil, nil, err
	}
	opts, err := d.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("loaded definition", "path", path, "name", d.Name, "options", opts.Len())
	return d, opts, nil
}

func parserFor(d *optdef.Definition, stop bool) posix.Parser {
	p := d.Parser()
	if stop {
		p.StopAtNonOption = true
	}
	return p
}

func (a *app) handleFlatten(ctx context.Context, args []string) error {
	inv, err := cli.ParseFlatten(args)
	if err != nil {
		return usageError{err}
	}
	if err := cli.RequireArgsAtLeast(cli.CommandFlatten, inv.Args, 1); err != nil {
		return usageError{err}
	}
	d, opts, err := a.loadDefinition(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	p := parserFor(d, inv.Flags.Stop)
	argv := slices.Concat(inv.Args[1:], inv.Argv)
	for _, tok := range posix.Flatten(opts, argv, p.StopAtNonOption) {
		fmt.Fprintln(a.stdout, a.styleToken(opts, tok))
	}
	return nil
}

func (a *app) styleToken(opts *cliopt.Options, tok string) string {
	switch {
	case tok == "--":
		return a.color.Wrap(tui.ColorDim, tok)
	case strings.HasPrefix(tok, "-") && len(tok) > 1 && opts.Has(tok):
		return a.color.Wrap(tui.ColorGreen, tok)
	}
	return tok
}

func (a *app) handleParse(ctx context.Context, args []string) error {
	inv, err := cli.ParseParse(args)
	if err != nil {
		return usageError{err}
	}
	if err := cli.RequireArgsAtLeast(cli.CommandParse, inv.Args, 1); err != nil {
		return usageError{err}
	}
	d, opts, err := a.loadDefinition(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	cl, err := parserFor(d, inv.Flags.Stop).Parse(opts, slices.Concat(inv.Args[1:], inv.Argv))
	if err != nil {
		return err
	}
	return a.writeCommandLine(inv.Flags.Format, cl)
}

func (a *app) handleBatch(ctx context.Context, args []string) error {
	inv, err := cli.ParseBatch(args)
	if err != nil {
		return usageError{err}
	}
	if err := cli.RequireArgsAtLeast(cli.CommandBatch, inv.Args, 2); err != nil {
		return usageError{err}
	}
	d, opts, err := a.loadDefinition(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	lines, err := batch.ReadFile(inv.Args[1])
	if err != nil {
		return err
	}

	var onProgress func(done, total int)
	var progress *tui.Progress
	if a.progress && len(lines) > 0 {
		progress = tui.NewProgress(a.stderr, "parsing", tui.WithColor(a.errColor))
		progress.Start(len(lines))
		onProgress = progress.Set
	}
	results, err := batch.RunProgress(ctx, parserFor(d, inv.Flags.Stop), opts, lines, inv.Flags.Workers, onProgress)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}
	if err := a.writeBatch(inv.Flags.Format, results); err != nil {
		return err
	}
	if n := batch.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d lines failed to parse", n, len(results))
	}
	return nil
}

func (a *app) handleTyped(ctx context.Context, args []string) error {
	inv, err := cli.ParseTyped(args)
	if err != nil {
		return usageError{err}
	}
	if err := cli.RequireArgsAtLeast(cli.CommandTyped, inv.Args, 2); err != nil {
		return usageError{err}
	}
	d, opts, err := a.loadDefinition(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	key := inv.Args[1]
	if !opts.Has(key) {
		return &posix.UnrecognizedOptionError{Option: key}
	}
	cl, err := parserFor(d, inv.Flags.Stop).Parse(opts, slices.Concat(inv.Args[2:], inv.Argv))
	if err != nil {
		return err
	}
	var v any
	if inv.Flags.As != "" {
		t, err := coerce.ParseType(inv.Flags.As)
		if err != nil {
			return usageError{err}
		}
		v, err = cl.TypedValueAs(key, t)
		if err != nil {
			return err
		}
	} else {
		v, err = cl.TypedValue(key)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(a.stdout, "%v\n", v)
	return nil
}

func (a *app) handleDefCheck(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == cli.CommandCheck {
		args = args[1:]
	}
	if err := cli.RequireArgsAtLeast(cli.CommandCheck, args, 1); err != nil {
		return usageError{err}
	}
	d, opts, err := a.loadDefinition(ctx, args[0])
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return a.writeDefinition(d, opts)
}

func (a *app) handleDefConvert(ctx context.Context, args []string) error {
	inv, err := cli.ParseConvert(args)
	if err != nil {
		return usageError{err}
	}
	if err := cli.RequireArgsAtLeast(cli.CommandConvert, inv.Args, 1); err != nil {
		return usageError{err}
	}
	d, _, err := a.loadDefinition(ctx, inv.Args[0])
	if err != nil {
		return err
	}
	return optdef.Encode(a.stdout, d, optdef.Format(inv.Flags.To))
}
