// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/posixopt/pkg/batch"
	"github.com/yeetrun/posixopt/pkg/cli"
	"github.com/yeetrun/posixopt/pkg/cliopt"
	"github.com/yeetrun/posixopt/pkg/optdef"
	"github.com/yeetrun/posixopt/pkg/posix"
	"github.com/yeetrun/posixopt/pkg/tui"
	"gopkg.in/yaml.v3"
)

type resolvedOutput struct {
	Option string   `json:"option" yaml:"option"`
	Long   string   `json:"long,omitempty" yaml:"long,omitempty"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

type commandLineOutput struct {
	Options []resolvedOutput `json:"options" yaml:"options"`
	Args    []string         `json:"args" yaml:"args"`
}

type batchOutput struct {
	Line   int                `json:"line" yaml:"line"`
	Args   []string           `json:"args" yaml:"args"`
	Result *commandLineOutput `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string             `json:"error,omitempty" yaml:"error,omitempty"`
}

func toOutput(cl *posix.CommandLine) *commandLineOutput {
	out := &commandLineOutput{
		Options: []resolvedOutput{},
		Args:    cl.Args(),
	}
	if out.Args == nil {
		out.Args = []string{}
	}
	for _, r := range cl.Options() {
		out.Options = append(out.Options, resolvedOutput{
			Option: r.Option.Name(),
			Long:   r.Option.Long(),
			Values: r.Values,
		})
	}
	return out
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case cli.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case cli.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

func (a *app) writeCommandLine(format string, cl *posix.CommandLine) error {
	if format != cli.FormatTable {
		return writeStructured(a.stdout, format, toOutput(cl))
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tLONG\tVALUES")
	for _, r := range cl.Options() {
		long := "-"
		if r.Option.HasLong() {
			long = "--" + r.Option.Long()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.color.Wrap(tui.ColorGreen, r.Option.Flag()), long, quoteAll(r.Values))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stdout, "ARGS: %s\n", quoteAll(cl.Args()))
	return err
}

func (a *app) writeBatch(format string, results []batch.Result) error {
	if format != cli.FormatTable {
		out := make([]batchOutput, 0, len(results))
		for _, r := range results {
			bo := batchOutput{Line: r.Line.Num, Args: r.Line.Args}
			if r.Err != nil {
				bo.Error = r.Err.Error()
			} else {
				bo.Result = toOutput(r.CommandLine)
			}
			out = append(out, bo)
		}
		return writeStructured(a.stdout, format, out)
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tSTATUS\tRESULT")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Line.Num, a.color.Wrap(tui.ColorRed, "error"), r.Err)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Line.Num, a.color.Wrap(tui.ColorGreen, "ok"), r.CommandLine)
	}
	return tw.Flush()
}

func (a *app) writeDefinition(d *optdef.Definition, opts *cliopt.Options) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tLONG\tARGS\tTYPE\tREQUIRED\tDESCRIPTION")
	for _, o := range opts.All() {
		long := "-"
		if o.HasLong() {
			long = "--" + o.Long()
		}
		args := o.Arity().String()
		if o.OptionalArg() {
			args += "?"
		}
		required := ""
		if o.Required() {
			required = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", o.Flag(), long, args, o.Type(), required, o.Description())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, g := range opts.Groups() {
		kind := "group"
		if g.Required() {
			kind = "required group"
		}
		fmt.Fprintf(a.stdout, "%s %s\n", kind, g)
	}
	for _, k := range slices.Sorted(maps.Keys(d.Defaults)) {
		fmt.Fprintf(a.stdout, "default %s=%s\n", k, d.Defaults[k])
	}
	name := d.Name
	if name == "" {
		name = "definition"
	}
	_, err := fmt.Fprintf(a.stdout, "%s %s: %d options, %d groups\n",
		a.color.Wrap(tui.ColorGreen, "ok"), name, opts.Len(), len(opts.Groups()))
	return err
}

func quoteAll(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = strconv.Quote(v)
	}
	return strings.Join(q, " ")
}
