// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posix

import (
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/posixopt/pkg/cliopt"
)

type tokenKind uint8

const (
	tokWord      tokenKind = iota // plain text, a positional unless consumed
	tokOption                     // a registered option; token.opt is set
	tokUnknown                    // option syntax naming nothing registered
	tokAmbiguous                  // long prefix of several names
	tokValue                      // reserved for the preceding option
	tokEnd                        // "--", literal or synthetic
	tokArg                        // after the end of options
)

type token struct {
	text    string
	kind    tokenKind
	opt     *cliopt.Option
	matches []string
}

// Flatten rewrites args into one token per option and value. Burst short
// options ("-abc") are split, attached values ("-dvalue", "--name=value")
// become their own token, and unique long prefixes are expanded to the full
// long name. Tokens that will be consumed as option values are copied
// unchanged.
//
// With stopAtNonOption set, the first token that is not a registered option
// ends option processing: a "--" is emitted before it and everything after
// it is copied verbatim.
func Flatten(opts *cliopt.Options, args []string, stopAtNonOption bool) []string {
	toks := scan(opts, args, stopAtNonOption)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.text
	}
	return out
}

type scanner struct {
	opts *cliopt.Options
	stop bool
	out  []token

	cur   *cliopt.Option // last option emitted
	slots int            // values cur may still take; cliopt.Unlimited for no bound
	ended bool
}

func scan(opts *cliopt.Options, args []string, stop bool) []token {
	s := &scanner{opts: opts, stop: stop, out: make([]token, 0, len(args))}
	for _, arg := range args {
		switch {
		case s.ended:
			s.emit(arg, tokArg)
		case s.slots != 0 && !isOptionToken(opts, arg):
			s.value(arg)
		default:
			s.slots = 0
			s.next(arg)
		}
	}
	return s.out
}

func (s *scanner) emit(text string, kind tokenKind) {
	s.out = append(s.out, token{text: text, kind: kind})
}

func (s *scanner) next(arg string) {
	switch {
	case arg == "--":
		s.end()
	case arg == "-":
		s.emit(arg, tokWord)
	case strings.HasPrefix(arg, "--"):
		s.long(arg)
	case strings.HasPrefix(arg, "-"):
		s.short(arg)
	default:
		s.nonOption(arg)
	}
}

func (s *scanner) end() {
	s.emit("--", tokEnd)
	s.ended = true
}

func (s *scanner) nonOption(arg string) {
	if s.stop {
		s.end()
		s.emit(arg, tokArg)
		return
	}
	s.emit(arg, tokWord)
}

// unknown handles option syntax that resolves to nothing.
func (s *scanner) unknown(arg string, kind tokenKind, matches []string) {
	if s.stop {
		s.nonOption(arg)
		return
	}
	s.out = append(s.out, token{text: arg, kind: kind, matches: matches})
}

func (s *scanner) option(o *cliopt.Option, text string) {
	s.out = append(s.out, token{text: text, kind: tokOption, opt: o})
	s.cur = o
	s.slots = int(o.Arity())
}

// value emits v as a value of the current option and uses up the slots it
// fills.
func (s *scanner) value(v string) {
	s.emit(v, tokValue)
	if s.slots <= 0 {
		return
	}
	n := 1
	if sep, ok := s.cur.Separator(); ok {
		n = len(strings.SplitN(v, string(sep), s.slots))
	}
	s.slots -= n
}

func (s *scanner) long(arg string) {
	name, val, hasVal := strings.Cut(arg[2:], "=")
	o, matches := resolveLong(s.opts, name)
	if o == nil {
		kind := tokUnknown
		if len(matches) > 1 {
			kind = tokAmbiguous
		}
		s.unknown(arg, kind, matches)
		return
	}
	s.option(o, "--"+o.Long())
	if hasVal {
		s.value(val)
	}
}

func (s *scanner) short(arg string) {
	body := arg[1:]
	if o, ok := lookupWhole(s.opts, body); ok {
		s.option(o, arg)
		return
	}
	first, _ := utf8.DecodeRuneInString(body)
	if !s.opts.HasShort(string(first)) {
		s.unknown(arg, tokUnknown, nil)
		return
	}
	for off := 0; off < len(body); {
		r, size := utf8.DecodeRuneInString(body[off:])
		o, ok := s.opts.Short(string(r))
		if !ok {
			rest := body[off:]
			if s.stop {
				s.end()
				s.emit(rest, tokArg)
				return
			}
			// The remainder is reported as a single option token; it is
			// not burst any further.
			s.emit("-"+rest, tokUnknown)
			return
		}
		s.option(o, "-"+string(r))
		off += size
		if o.HasArg() {
			if off < len(body) {
				s.value(body[off:])
			}
			return
		}
	}
}

func lookupWhole(opts *cliopt.Options, name string) (*cliopt.Option, bool) {
	if o, ok := opts.Short(name); ok {
		return o, true
	}
	return opts.Long(name)
}

// resolveLong returns the option name abbreviates along with the long names
// it matched. The option is nil unless exactly one name matched.
func resolveLong(opts *cliopt.Options, name string) (*cliopt.Option, []string) {
	if name == "" {
		return nil, nil
	}
	matches := opts.MatchingLong(name)
	if len(matches) != 1 {
		return nil, matches
	}
	o, _ := opts.Long(matches[0])
	return o, matches
}

// isOptionToken reports whether arg ends the values of a preceding option:
// "--", or a dashed token whose option part names a registered option.
func isOptionToken(opts *cliopt.Options, arg string) bool {
	switch {
	case arg == "--":
		return true
	case len(arg) < 2 || arg[0] != '-':
		return false
	case strings.HasPrefix(arg, "--"):
		name, _, _ := strings.Cut(arg[2:], "=")
		return name != "" && len(opts.MatchingLong(name)) > 0
	}
	body := arg[1:]
	if _, ok := lookupWhole(opts, body); ok {
		return true
	}
	r, _ := utf8.DecodeRuneInString(body)
	return opts.HasShort(string(r))
}
