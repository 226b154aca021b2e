// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"slices"
	"strings"
)

// Group is a set of mutually exclusive options: at most one member may
// appear in a single parse. If the group is required, exactly one must.
type Group struct {
	members  []*Option
	required bool
}

// NewGroup returns an optional group of the given options.
func NewGroup(members ...*Option) *Group {
	return &Group{members: slices.Clone(members)}
}

// NewRequiredGroup returns a group of which one member must be selected.
func NewRequiredGroup(members ...*Option) *Group {
	g := NewGroup(members...)
	g.required = true
	return g
}

// Members returns the group's options in the order given.
func (g *Group) Members() []*Option {
	return slices.Clone(g.members)
}

func (g *Group) Required() bool { return g.required }

// Contains reports whether o is a member of g.
func (g *Group) Contains(o *Option) bool {
	return slices.Contains(g.members, o)
}

// Names returns the members' short names.
func (g *Group) Names() []string {
	names := make([]string, len(g.members))
	for i, o := range g.members {
		names[i] = o.Name()
	}
	return names
}

// String returns the members as they appear on the command line, e.g.
// "[-a | -b]".
func (g *Group) String() string {
	flags := make([]string, len(g.members))
	for i, o := range g.members {
		flags[i] = o.Flag()
	}
	return "[" + strings.Join(flags, " | ") + "]"
}
