// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"tailscale.com/util/mak"
)

// Options is the registry of every option and group a command accepts.
//
// The zero value is an empty registry. Options must not be modified while
// it is being used by a parser.
type Options struct {
	all     []*Option
	short   map[string]*Option
	long    map[string]*Option
	groups  []*Group
	groupOf map[*Option]*Group
}

// NewOptions returns an empty registry.
func NewOptions() *Options {
	return &Options{}
}

// Add registers o. Adding the same *Option twice is a no-op; adding a
// different option under a name already in use is a DuplicateOptionError.
func (r *Options) Add(o *Option) error {
	if o == nil {
		return errors.New("nil option")
	}
	if cur, ok := r.short[o.name]; ok && cur == o {
		return nil
	}
	if err := r.conflict(o); err != nil {
		return err
	}
	mak.Set(&r.short, o.name, o)
	if o.long != "" {
		mak.Set(&r.long, o.long, o)
	}
	r.all = append(r.all, o)
	return nil
}

func (r *Options) conflict(o *Option) error {
	if cur, ok := r.short[o.name]; ok && cur != o {
		return &DuplicateOptionError{Name: o.name}
	}
	if o.long == "" {
		return nil
	}
	if cur, ok := r.long[o.long]; ok && cur != o {
		return &DuplicateOptionError{Name: o.long, Long: true}
	}
	return nil
}

// MustAdd is like Add but panics on error. It returns r for chaining.
func (r *Options) MustAdd(o *Option) *Options {
	if err := r.Add(o); err != nil {
		panic(err)
	}
	return r
}

// AddGroup registers g and any of its members not yet registered. An option
// may belong to at most one group.
func (r *Options) AddGroup(g *Group) error {
	if g == nil {
		return errors.New("nil group")
	}
	for _, o := range g.members {
		if cur, ok := r.groupOf[o]; ok && cur != g {
			return fmt.Errorf("%w: %s is in %s", ErrAlreadyGrouped, o.Flag(), cur)
		}
		if err := r.conflict(o); err != nil {
			return err
		}
	}
	for _, o := range g.members {
		if err := r.Add(o); err != nil {
			return err
		}
	}
	if slices.Contains(r.groups, g) {
		return nil
	}
	for _, o := range g.members {
		mak.Set(&r.groupOf, o, g)
	}
	r.groups = append(r.groups, g)
	return nil
}

// stripHyphens removes one leading "--" or "-".
func stripHyphens(key string) string {
	if strings.HasPrefix(key, "--") {
		return key[2:]
	}
	return strings.TrimPrefix(key, "-")
}

// Option returns the option whose short or long name is key. Leading
// hyphens on key are ignored. Short names take precedence.
func (r *Options) Option(key string) (*Option, bool) {
	key = stripHyphens(key)
	if o, ok := r.short[key]; ok {
		return o, true
	}
	o, ok := r.long[key]
	return o, ok
}

// Short returns the option with the given short name.
func (r *Options) Short(name string) (*Option, bool) {
	o, ok := r.short[stripHyphens(name)]
	return o, ok
}

// Long returns the option with the given long name.
func (r *Options) Long(name string) (*Option, bool) {
	o, ok := r.long[stripHyphens(name)]
	return o, ok
}

func (r *Options) Has(key string) bool {
	_, ok := r.Option(key)
	return ok
}

func (r *Options) HasShort(name string) bool {
	_, ok := r.Short(name)
	return ok
}

func (r *Options) HasLong(name string) bool {
	_, ok := r.Long(name)
	return ok
}

// MatchingLong returns the long names that prefix may abbreviate. An exact
// match is returned alone; otherwise every long name starting with prefix
// is returned in sorted order.
func (r *Options) MatchingLong(prefix string) []string {
	prefix = stripHyphens(prefix)
	if _, ok := r.long[prefix]; ok {
		return []string{prefix}
	}
	var names []string
	for name := range r.long {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// All returns every registered option in the order it was added.
func (r *Options) All() []*Option {
	return slices.Clone(r.all)
}

// Len returns the number of registered options.
func (r *Options) Len() int {
	return len(r.all)
}

// Groups returns every registered group in the order it was added.
func (r *Options) Groups() []*Group {
	return slices.Clone(r.groups)
}

// GroupOf returns the group o belongs to, or nil.
func (r *Options) GroupOf(o *Option) *Group {
	return r.groupOf[o]
}

// Requirement is one entry of Options.Required: either a single option or a
// group from which one member must be chosen.
type Requirement struct {
	Option *Option
	Group  *Group
}

func (q Requirement) String() string {
	if q.Group != nil {
		return q.Group.String()
	}
	return q.Option.Name()
}

// Required returns the options that must appear in every parse, followed by
// the required groups. Required options that belong to a group are covered
// by their group instead.
func (r *Options) Required() []Requirement {
	var reqs []Requirement
	for _, o := range r.all {
		if o.required && r.groupOf[o] == nil {
			reqs = append(reqs, Requirement{Option: o})
		}
	}
	for _, g := range r.groups {
		if g.required {
			reqs = append(reqs, Requirement{Group: g})
		}
	}
	return reqs
}

func (r *Options) String() string {
	var b strings.Builder
	b.WriteString("[ Options: [ short ")
	for i, o := range r.all {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.String())
	}
	b.WriteString(" ] [ groups ")
	for i, g := range r.groups {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.String())
	}
	b.WriteString(" ] ]")
	return b.String()
}
