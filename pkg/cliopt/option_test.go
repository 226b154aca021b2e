// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"errors"
	"testing"

	"github.com/yeetrun/posixopt/pkg/coerce"
)

func TestBuildValidatesNames(t *testing.T) {
	tests := []struct {
		name    string
		short   string
		long    string
		wantErr bool
	}{
		{name: "letter", short: "a"},
		{name: "digit", short: "1"},
		{name: "underscore", short: "_x"},
		{name: "question", short: "?"},
		{name: "at", short: "@"},
		{name: "long with dash", short: "d", long: "dry-run"},
		{name: "empty", short: "", wantErr: true},
		{name: "space", short: "a b", wantErr: true},
		{name: "double question", short: "??", wantErr: true},
		{name: "dash", short: "-", wantErr: true},
		{name: "long leading dash", short: "x", long: "-x", wantErr: true},
		{name: "long equals", short: "x", long: "a=b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.short).Long(tt.long).Build()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var nameErr *InvalidNameError
				if !errors.As(err, &nameErr) {
					t.Fatalf("Build() error = %T, want *InvalidNameError", err)
				}
			}
		})
	}
}

func TestBuildArity(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want Arity
	}{
		{name: "flag", b: New("a"), want: NoArgs},
		{name: "one", b: New("b").HasArg(), want: 1},
		{name: "fixed", b: New("c").Args(3), want: 3},
		{name: "unlimited", b: New("d").UnlimitedArgs(), want: Unlimited},
		{name: "separator raises", b: New("D").Separator('='), want: 1},
		{name: "optional raises", b: New("o").OptionalArg(), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.b.MustBuild()
			if got := o.Arity(); got != tt.want {
				t.Fatalf("Arity() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := New("x").Args(-2).Build(); !errors.Is(err, ErrInvalidArity) {
		t.Fatalf("Args(-2).Build() error = %v, want ErrInvalidArity", err)
	}
}

func TestOptionAccessors(t *testing.T) {
	o := New("f").
		Long("file").
		Desc("input file").
		ArgName("FILE").
		HasArg().
		Required().
		Type(coerce.ExistingFile).
		MustBuild()

	if o.Name() != "f" {
		t.Fatalf("Name() = %q, want f", o.Name())
	}
	if !o.HasLong() || o.Long() != "file" {
		t.Fatalf("Long() = %q, want file", o.Long())
	}
	if o.Description() != "input file" {
		t.Fatalf("Description() = %q", o.Description())
	}
	if o.ArgName() != "FILE" {
		t.Fatalf("ArgName() = %q, want FILE", o.ArgName())
	}
	if !o.HasArg() || o.HasArgs() {
		t.Fatalf("HasArg() = %v, HasArgs() = %v, want true, false", o.HasArg(), o.HasArgs())
	}
	if !o.Required() || o.OptionalArg() {
		t.Fatalf("Required() = %v, OptionalArg() = %v", o.Required(), o.OptionalArg())
	}
	if _, ok := o.Separator(); ok {
		t.Fatalf("Separator() set, want unset")
	}
	if o.Type() != coerce.ExistingFile {
		t.Fatalf("Type() = %v, want %v", o.Type(), coerce.ExistingFile)
	}
	if got := o.Display(); got != "-f/--file" {
		t.Fatalf("Display() = %q, want %q", got, "-f/--file")
	}
	if got := New("v").MustBuild().Display(); got != "-v" {
		t.Fatalf("Display() = %q, want %q", got, "-v")
	}
}

func TestOptionString(t *testing.T) {
	tests := []struct {
		o    *Option
		want string
	}{
		{New("a").Desc("all").MustBuild(), "[ option: a  :: all ]"},
		{New("b").Long("bfile").HasArg().Desc("file").MustBuild(), "[ option: b bfile [ARG] :: file ]"},
		{New("c").Args(2).Desc("pair").Type(coerce.Number).MustBuild(), "[ option: c [ARG...] :: pair :: number ]"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCloneAndFrom(t *testing.T) {
	orig := New("D").Long("define").Separator('=').Args(2).MustBuild()

	c := orig.Clone()
	if c == orig {
		t.Fatal("Clone() returned the same pointer")
	}
	if *c != *orig {
		t.Fatalf("Clone() = %v, want %v", c, orig)
	}

	changed := From(orig).Long("def").MustBuild()
	if orig.Long() != "define" {
		t.Fatalf("From() modified the original: Long() = %q", orig.Long())
	}
	if changed.Long() != "def" {
		t.Fatalf("From().Long() = %q, want def", changed.Long())
	}
	if sep, ok := changed.Separator(); !ok || sep != '=' {
		t.Fatalf("From() lost separator: %q, %v", sep, ok)
	}

	var nilOpt *Option
	if nilOpt.Clone() != nil {
		t.Fatal("nil Clone() != nil")
	}
}

func TestArityString(t *testing.T) {
	tests := map[Arity]string{
		NoArgs:    "none",
		Unlimited: "unlimited",
		3:         "3",
		-4:        "invalid(-4)",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Arity(%d).String() = %q, want %q", int(a), got, want)
		}
	}
}
