// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"fmt"
	"unicode"

	"github.com/yeetrun/posixopt/pkg/coerce"
)

// Builder accumulates the attributes of an Option. The zero Builder is not
// usable; start with New or From.
type Builder struct {
	o Option
}

// New starts a Builder for the option with the given short name.
func New(name string) *Builder {
	return &Builder{o: Option{name: name}}
}

// From starts a Builder that copies every attribute of o.
func From(o *Option) *Builder {
	return &Builder{o: *o.Clone()}
}

func (b *Builder) Long(name string) *Builder {
	b.o.long = name
	return b
}

func (b *Builder) Desc(description string) *Builder {
	b.o.description = description
	return b
}

func (b *Builder) ArgName(name string) *Builder {
	b.o.argName = name
	return b
}

// HasArg makes the option take exactly one value.
func (b *Builder) HasArg() *Builder {
	b.o.arity = 1
	return b
}

// Args sets a fixed number of values. Args(0) makes the option a flag.
func (b *Builder) Args(n int) *Builder {
	b.o.arity = Arity(n)
	return b
}

// UnlimitedArgs makes the option consume values until the next option.
func (b *Builder) UnlimitedArgs() *Builder {
	b.o.arity = Unlimited
	return b
}

// OptionalArg allows the option's values to be omitted. An option with no
// arity is given one.
func (b *Builder) OptionalArg() *Builder {
	b.o.optionalArg = true
	return b
}

func (b *Builder) Required() *Builder {
	b.o.required = true
	return b
}

// Separator splits each value token on sep, as in -Dkey=value. An option
// with no arity is given one.
func (b *Builder) Separator(sep rune) *Builder {
	b.o.separator = sep
	return b
}

func (b *Builder) Type(t coerce.Type) *Builder {
	b.o.valueType = t
	return b
}

// Build validates the accumulated attributes and returns a new Option. The
// Builder may be reused afterwards.
func (b *Builder) Build() (*Option, error) {
	o := b.o
	if err := validateName(o.name); err != nil {
		return nil, err
	}
	if o.long != "" {
		if err := validateLong(o.long); err != nil {
			return nil, err
		}
	}
	if o.arity < Unlimited {
		return nil, fmt.Errorf("option %q: %w: %d", o.name, ErrInvalidArity, int(o.arity))
	}
	if o.arity == NoArgs && (o.separator != 0 || o.optionalArg) {
		o.arity = 1
	}
	return &o, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Option {
	o, err := b.Build()
	if err != nil {
		panic(err)
	}
	return o
}

func validateName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name, Reason: "name is empty"}
	}
	runes := []rune(name)
	if len(runes) == 1 && (runes[0] == '?' || runes[0] == '@') {
		return nil
	}
	for _, r := range runes {
		if !isNameRune(r) {
			return &InvalidNameError{Name: name, Reason: fmt.Sprintf("invalid character %q", r)}
		}
	}
	return nil
}

func validateLong(name string) error {
	if name[0] == '-' {
		return &InvalidNameError{Name: name, Long: true, Reason: "must not start with '-'"}
	}
	for _, r := range name {
		if !isNameRune(r) && r != '-' {
			return &InvalidNameError{Name: name, Long: true, Reason: fmt.Sprintf("invalid character %q", r)}
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
