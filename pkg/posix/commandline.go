// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posix

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/posixopt/pkg/cliopt"
	"github.com/yeetrun/posixopt/pkg/coerce"
)

// Resolved is one option seen by a parse together with every value it was
// given, across repeated occurrences.
type Resolved struct {
	Option *cliopt.Option
	Values []string
}

// CommandLine is the result of a successful parse. It is not modified after
// Parse returns and is safe for concurrent reads.
type CommandLine struct {
	resolved []Resolved
	occ      [][]int // per resolved option, values given by each occurrence
	args     []string
}

// lookup strips leading hyphens from key and finds the resolved option with
// that short or long name.
func (c *CommandLine) lookup(key string) (int, bool) {
	key = strings.TrimPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")
	for i, r := range c.resolved {
		if r.Option.Name() == key {
			return i, true
		}
	}
	for i, r := range c.resolved {
		if r.Option.HasLong() && r.Option.Long() == key {
			return i, true
		}
	}
	return 0, false
}

// Has reports whether the option named key was given.
func (c *CommandLine) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Option returns the registered option named key if it was given.
func (c *CommandLine) Option(key string) (*cliopt.Option, bool) {
	i, ok := c.lookup(key)
	if !ok {
		return nil, false
	}
	return c.resolved[i].Option, true
}

// Value returns the first value of the option named key, or "".
func (c *CommandLine) Value(key string) string {
	return c.ValueOr(key, "")
}

// ValueOr returns the first value of the option named key, or def when the
// option is absent or has no value.
func (c *CommandLine) ValueOr(key, def string) string {
	i, ok := c.lookup(key)
	if !ok || len(c.resolved[i].Values) == 0 {
		return def
	}
	return c.resolved[i].Values[0]
}

// Values returns every value of the option named key in the order given.
func (c *CommandLine) Values(key string) []string {
	i, ok := c.lookup(key)
	if !ok {
		return nil
	}
	return slices.Clone(c.resolved[i].Values)
}

// Args returns the positional arguments.
func (c *CommandLine) Args() []string {
	return slices.Clone(c.args)
}

// Options returns the resolved options in the order they were first seen.
func (c *CommandLine) Options() []Resolved {
	out := make([]Resolved, len(c.resolved))
	for i, r := range c.resolved {
		out[i] = Resolved{Option: r.Option, Values: slices.Clone(r.Values)}
	}
	return out
}

// Properties pairs up the values of each occurrence of the option named
// key, as in -Dname=value. An occurrence with a single value maps it to
// "true".
func (c *CommandLine) Properties(key string) map[string]string {
	i, ok := c.lookup(key)
	if !ok {
		return nil
	}
	props := make(map[string]string)
	vals := c.resolved[i].Values
	for _, n := range c.occ[i] {
		chunk := vals[:n]
		vals = vals[n:]
		switch {
		case n >= 2:
			props[chunk[0]] = chunk[1]
		case n == 1:
			props[chunk[0]] = "true"
		}
	}
	return props
}

// TypedValue converts the first value of the option named key using the
// option's own type.
func (c *CommandLine) TypedValue(key string) (any, error) {
	o, ok := c.Option(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoValue, key)
	}
	return c.TypedValueAs(key, o.Type())
}

// TypedValueAs converts the first value of the option named key to t.
func (c *CommandLine) TypedValueAs(key string, t coerce.Type) (any, error) {
	i, ok := c.lookup(key)
	if !ok || len(c.resolved[i].Values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValue, key)
	}
	return coerce.Coerce(c.resolved[i].Values[0], t)
}

// Equal reports whether c and o resolved the same options, in the same
// order, with the same values and positional arguments.
func (c *CommandLine) Equal(o *CommandLine) bool {
	if c == nil || o == nil {
		return c == o
	}
	return slices.EqualFunc(c.resolved, o.resolved, func(a, b Resolved) bool {
		return a.Option == b.Option && slices.Equal(a.Values, b.Values)
	}) && slices.Equal(c.args, o.args)
}

func (c *CommandLine) String() string {
	var b strings.Builder
	b.WriteString("[ CommandLine: options [")
	for i, r := range c.resolved {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(r.Option.Flag())
		if len(r.Values) > 0 {
			fmt.Fprintf(&b, "=%q", r.Values)
		}
	}
	fmt.Fprintf(&b, " ] args %q ]", c.args)
	return b.String()
}
