// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optdef loads option registries from definition files.
//
// A definition lists options, mutually exclusive groups and default values.
// It may be written in TOML, YAML, HCL or JSON:
//
//	name = "tar"
//	stop_at_non_option = true
//
//	[[options]]
//	name = "f"
//	long = "file"
//	args = 1
//	arg_name = "ARCHIVE"
//
//	[[groups]]
//	required = true
//	options = ["c", "x", "t"]
//
// In HCL, options and groups are blocks:
//
//	option "f" {
//	  long = "file"
//	  args = 1
//	}
//
//	group {
//	  required = true
//	  options  = ["c", "x", "t"]
//	}
package optdef

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/yeetrun/posixopt/pkg/cliopt"
	"github.com/yeetrun/posixopt/pkg/coerce"
	"github.com/yeetrun/posixopt/pkg/posix"
)

// Definition is the decoded form of a definition file.
type Definition struct {
	Name            string            `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty" hcl:"name,optional"`
	StopAtNonOption bool              `toml:"stop_at_non_option,omitempty" yaml:"stop_at_non_option,omitempty" json:"stop_at_non_option,omitempty" hcl:"stop_at_non_option,optional"`
	Defaults        map[string]string `toml:"defaults,omitempty" yaml:"defaults,omitempty" json:"defaults,omitempty" hcl:"defaults,optional"`
	Options         []OptionDef       `toml:"options,omitempty" yaml:"options,omitempty" json:"options,omitempty" hcl:"option,block"`
	Groups          []GroupDef        `toml:"groups,omitempty" yaml:"groups,omitempty" json:"groups,omitempty" hcl:"group,block"`
}

// OptionDef describes one option. Args is the number of values; -1 means
// unlimited.
type OptionDef struct {
	Name        string `toml:"name" yaml:"name" json:"name" hcl:"name,label"`
	Long        string `toml:"long,omitempty" yaml:"long,omitempty" json:"long,omitempty" hcl:"long,optional"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty" hcl:"description,optional"`
	ArgName     string `toml:"arg_name,omitempty" yaml:"arg_name,omitempty" json:"arg_name,omitempty" hcl:"arg_name,optional"`
	Args        int    `toml:"args,omitempty" yaml:"args,omitempty" json:"args,omitempty" hcl:"args,optional"`
	OptionalArg bool   `toml:"optional_arg,omitempty" yaml:"optional_arg,omitempty" json:"optional_arg,omitempty" hcl:"optional_arg,optional"`
	Required    bool   `toml:"required,omitempty" yaml:"required,omitempty" json:"required,omitempty" hcl:"required,optional"`
	Separator   string `toml:"separator,omitempty" yaml:"separator,omitempty" json:"separator,omitempty" hcl:"separator,optional"`
	Type        string `toml:"type,omitempty" yaml:"type,omitempty" json:"type,omitempty" hcl:"type,optional"`
}

// GroupDef lists the short or long names of a group's members.
type GroupDef struct {
	Required bool     `toml:"required,omitempty" yaml:"required,omitempty" json:"required,omitempty" hcl:"required,optional"`
	Options  []string `toml:"options" yaml:"options" json:"options" hcl:"options"`
}

// Validate checks d against the definition schema and then builds it,
// reporting the first problem found.
func (d *Definition) Validate() error {
	if err := validateDefinition(d); err != nil {
		return err
	}
	_, err := d.Build()
	return err
}

// Build returns the registry d describes.
func (d *Definition) Build() (*cliopt.Options, error) {
	opts := cliopt.NewOptions()
	for _, od := range d.Options {
		o, err := od.Build()
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", od.Name, err)
		}
		if err := opts.Add(o); err != nil {
			return nil, err
		}
	}
	for i, gd := range d.Groups {
		members := make([]*cliopt.Option, 0, len(gd.Options))
		for _, key := range gd.Options {
			o, ok := opts.Option(key)
			if !ok {
				return nil, fmt.Errorf("group %d: unknown option %q", i+1, key)
			}
			members = append(members, o)
		}
		g := cliopt.NewGroup(members...)
		if gd.Required {
			g = cliopt.NewRequiredGroup(members...)
		}
		if err := opts.AddGroup(g); err != nil {
			return nil, fmt.Errorf("group %d: %w", i+1, err)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(d.Defaults)) {
		if !opts.Has(key) {
			return nil, fmt.Errorf("default for unknown option %q", key)
		}
	}
	return opts, nil
}

// Parser returns a parser configured with d's stop mode and defaults.
func (d *Definition) Parser() posix.Parser {
	return posix.Parser{
		StopAtNonOption: d.StopAtNonOption,
		Defaults:        maps.Clone(d.Defaults),
	}
}

// Build returns the option od describes.
func (od OptionDef) Build() (*cliopt.Option, error) {
	b := cliopt.New(od.Name).
		Long(od.Long).
		Desc(od.Description).
		ArgName(od.ArgName)
	if od.Args == -1 {
		b.UnlimitedArgs()
	} else {
		b.Args(od.Args)
	}
	if od.OptionalArg {
		b.OptionalArg()
	}
	if od.Required {
		b.Required()
	}
	if od.Separator != "" {
		r, size := utf8.DecodeRuneInString(od.Separator)
		if size != len(od.Separator) {
			return nil, fmt.Errorf("separator %q must be a single character", od.Separator)
		}
		b.Separator(r)
	}
	t, err := coerce.ParseType(od.Type)
	if err != nil {
		return nil, err
	}
	return b.Type(t).Build()
}
