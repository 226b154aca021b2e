// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posix

import (
	"maps"
	"slices"
	"strings"

	"github.com/yeetrun/posixopt/pkg/cliopt"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// Parser holds the settings of a parse. The zero value parses with
// interspersed options and no defaults. A Parser may be used concurrently.
type Parser struct {
	// StopAtNonOption ends option processing at the first token that is
	// not a registered option.
	StopAtNonOption bool

	// Defaults supplies values, keyed by short or long name, for options
	// absent from the arguments. Flags are set when their default is
	// "yes", "true" or "1".
	Defaults map[string]string
}

// Parse flattens args and resolves them against opts.
func Parse(opts *cliopt.Options, args []string, stopAtNonOption bool) (*CommandLine, error) {
	return Parser{StopAtNonOption: stopAtNonOption}.Parse(opts, args)
}

// Parse flattens args and resolves them against opts. On error the returned
// CommandLine is nil.
func (p Parser) Parse(opts *cliopt.Options, args []string) (*CommandLine, error) {
	return p.run(opts, scan(opts, args, p.StopAtNonOption))
}

// ParseTokens resolves a sequence previously produced by Flatten. Values
// attached to long options that themselves look like options cannot be
// told apart once flattened; use Parse on the raw arguments for those.
func (p Parser) ParseTokens(opts *cliopt.Options, tokens []string) (*CommandLine, error) {
	return p.run(opts, scan(opts, tokens, false))
}

// state is everything a single parse accumulates. The registry is never
// written to.
type state struct {
	opts     *cliopt.Options
	order    []*cliopt.Option
	seen     set.Set[*cliopt.Option]
	values   map[*cliopt.Option][]string
	occ      map[*cliopt.Option][]int
	selected map[*cliopt.Group]*cliopt.Option
	args     []string
}

func (p Parser) run(opts *cliopt.Options, toks []token) (*CommandLine, error) {
	st := &state{opts: opts, seen: set.Set[*cliopt.Option]{}}
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.kind {
		case tokOption:
			n, err := st.take(t.opt, toks[i+1:])
			if err != nil {
				return nil, err
			}
			i += n
		case tokUnknown:
			return nil, &UnrecognizedOptionError{Option: t.text}
		case tokAmbiguous:
			return nil, &AmbiguousOptionError{Option: t.text, Matches: t.matches}
		case tokEnd:
		default:
			st.args = append(st.args, t.text)
		}
	}
	if err := st.applyDefaults(p.Defaults); err != nil {
		return nil, err
	}
	if err := st.checkRequired(); err != nil {
		return nil, err
	}
	return st.commandLine(), nil
}

// take records o with the values that follow it and returns how many
// tokens it consumed.
func (st *state) take(o *cliopt.Option, rest []token) (int, error) {
	if err := st.selectOption(o); err != nil {
		return 0, err
	}
	var vals []string
	used := 0
	if o.HasArg() {
		want := o.Arity()
		for _, t := range rest {
			if t.kind != tokValue || (want != cliopt.Unlimited && len(vals) >= int(want)) {
				break
			}
			used++
			limit := -1
			if want != cliopt.Unlimited {
				limit = int(want) - len(vals)
			}
			vals = append(vals, splitValue(o, t.text, limit)...)
		}
		short := len(vals) == 0
		if want != cliopt.Unlimited {
			short = len(vals) < int(want)
		}
		if short && !o.OptionalArg() {
			return 0, &MissingArgumentError{Option: o, Want: want, Got: len(vals)}
		}
	}
	st.record(o, vals)
	return used, nil
}

// splitValue splits v on o's separator into at most limit values. A
// negative limit means no bound.
func splitValue(o *cliopt.Option, v string, limit int) []string {
	sep, ok := o.Separator()
	if !ok {
		return []string{v}
	}
	return strings.SplitN(v, string(sep), limit)
}

func (st *state) selectOption(o *cliopt.Option) error {
	g := st.opts.GroupOf(o)
	if g == nil {
		return nil
	}
	if cur, ok := st.selected[g]; ok && cur != o {
		return &AlreadySelectedError{Group: g, Selected: cur, Option: o}
	}
	mak.Set(&st.selected, g, o)
	return nil
}

func (st *state) record(o *cliopt.Option, vals []string) {
	if !st.seen.Contains(o) {
		st.seen.Add(o)
		st.order = append(st.order, o)
	}
	if len(vals) > 0 {
		mak.Set(&st.values, o, append(st.values[o], vals...))
	}
	mak.Set(&st.occ, o, append(st.occ[o], len(vals)))
}

func (st *state) applyDefaults(defaults map[string]string) error {
	for _, key := range slices.Sorted(maps.Keys(defaults)) {
		o, ok := st.opts.Option(key)
		if !ok {
			return &UnrecognizedOptionError{Option: key}
		}
		if st.seen.Contains(o) {
			continue
		}
		if g := st.opts.GroupOf(o); g != nil {
			if _, taken := st.selected[g]; taken {
				continue
			}
		}
		v := defaults[key]
		if !o.HasArg() && !isTrue(v) {
			continue
		}
		var vals []string
		if o.HasArg() {
			limit := -1
			if o.Arity() != cliopt.Unlimited {
				limit = int(o.Arity())
			}
			vals = splitValue(o, v, limit)
		}
		if err := st.selectOption(o); err != nil {
			return err
		}
		st.record(o, vals)
	}
	return nil
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "true", "1":
		return true
	}
	return false
}

func (st *state) checkRequired() error {
	var missing []string
	for _, req := range st.opts.Required() {
		if req.Group != nil {
			if _, ok := st.selected[req.Group]; !ok {
				missing = append(missing, req.Group.String())
			}
			continue
		}
		if !st.seen.Contains(req.Option) {
			missing = append(missing, req.Option.Name())
		}
	}
	if len(missing) > 0 {
		return &MissingOptionError{Missing: missing}
	}
	return nil
}

func (st *state) commandLine() *CommandLine {
	cl := &CommandLine{args: st.args}
	for _, o := range st.order {
		cl.resolved = append(cl.resolved, Resolved{Option: o, Values: st.values[o]})
		cl.occ = append(cl.occ, st.occ[o])
	}
	return cl
}
