// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yeetrun/posixopt/pkg/coerce"
)

//go:generate go run tailscale.com/cmd/cloner -type=Option

// Arity is the number of values an option consumes.
type Arity int

const (
	// NoArgs marks a flag that takes no value.
	NoArgs Arity = 0
	// Unlimited consumes values until the next option or the end of input.
	Unlimited Arity = -1
)

func (a Arity) String() string {
	switch {
	case a == NoArgs:
		return "none"
	case a == Unlimited:
		return "unlimited"
	case a < 0:
		return "invalid(" + strconv.Itoa(int(a)) + ")"
	}
	return strconv.Itoa(int(a))
}

// Option describes one recognized command-line option. Options are built
// with a Builder and never change afterwards; values seen during a parse
// are kept by the parser, not here.
type Option struct {
	name        string
	long        string
	description string
	argName     string
	arity       Arity
	optionalArg bool
	required    bool
	separator   rune
	valueType   coerce.Type
}

// Name returns the short name, without the leading dash.
func (o *Option) Name() string { return o.name }

// Long returns the long name, without leading dashes, or "".
func (o *Option) Long() string { return o.long }

// HasLong reports whether the option has a long name.
func (o *Option) HasLong() bool { return o.long != "" }

func (o *Option) Description() string { return o.description }

// ArgName is the display name of the option's value, e.g. "FILE".
func (o *Option) ArgName() string { return o.argName }

func (o *Option) Arity() Arity { return o.arity }

// HasArg reports whether the option takes at least one value.
func (o *Option) HasArg() bool { return o.arity != NoArgs }

// HasArgs reports whether the option may take more than one value.
func (o *Option) HasArgs() bool { return o.arity > 1 || o.arity == Unlimited }

// OptionalArg reports whether the option's values may be omitted.
func (o *Option) OptionalArg() bool { return o.optionalArg }

// Required reports whether the option must appear. Membership in a Group
// overrides this; see Options.Required.
func (o *Option) Required() bool { return o.required }

// Separator returns the rune that splits one value token into several
// values, and whether one is set.
func (o *Option) Separator() (rune, bool) { return o.separator, o.separator != 0 }

// Type is the conversion applied by typed value access.
func (o *Option) Type() coerce.Type { return o.valueType }

// Flag returns the option as it is written on the command line with a
// single dash, e.g. "-a".
func (o *Option) Flag() string { return "-" + o.name }

// Display returns "-a" or "-a/--alpha".
func (o *Option) Display() string {
	if o.long == "" {
		return o.Flag()
	}
	return o.Flag() + "/--" + o.long
}

func (o *Option) String() string {
	var b strings.Builder
	b.WriteString("[ option: ")
	b.WriteString(o.name)
	if o.long != "" {
		b.WriteString(" ")
		b.WriteString(o.long)
	}
	b.WriteString(" ")
	switch {
	case o.HasArgs():
		b.WriteString("[ARG...]")
	case o.HasArg():
		b.WriteString("[ARG]")
	}
	fmt.Fprintf(&b, " :: %s", o.description)
	if o.valueType != coerce.String {
		fmt.Fprintf(&b, " :: %s", o.valueType)
	}
	b.WriteString(" ]")
	return b.String()
}
