// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cliopt

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOptionsLookup(t *testing.T) {
	a := New("a").Long("all").MustBuild()
	b := New("b").MustBuild()
	opts := NewOptions().MustAdd(a).MustAdd(b)

	tests := []struct {
		key  string
		want *Option
	}{
		{"a", a},
		{"-a", a},
		{"all", a},
		{"--all", a},
		{"b", b},
		{"-b", b},
		{"c", nil},
		{"--b", b},
	}
	for _, tt := range tests {
		got, ok := opts.Option(tt.key)
		if ok != (tt.want != nil) || got != tt.want {
			t.Errorf("Option(%q) = %v, %v, want %v", tt.key, got, ok, tt.want)
		}
	}

	if !opts.HasShort("a") || opts.HasShort("all") {
		t.Fatal("HasShort mismatch")
	}
	if !opts.HasLong("--all") || opts.HasLong("a") {
		t.Fatal("HasLong mismatch")
	}
	if !opts.Has("all") || opts.Has("zzz") {
		t.Fatal("Has mismatch")
	}
	if opts.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", opts.Len())
	}
	if got := opts.All(); !slices.Equal(got, []*Option{a, b}) {
		t.Fatalf("All() = %v, want [a b]", got)
	}
}

func TestOptionsDuplicate(t *testing.T) {
	opts := NewOptions().MustAdd(New("a").Long("all").MustBuild())

	var dup *DuplicateOptionError
	err := opts.Add(New("a").MustBuild())
	if !errors.As(err, &dup) || dup.Long || dup.Name != "a" {
		t.Fatalf("Add(-a) error = %v, want duplicate -a", err)
	}
	err = opts.Add(New("x").Long("all").MustBuild())
	if !errors.As(err, &dup) || !dup.Long || dup.Name != "all" {
		t.Fatalf("Add(--all) error = %v, want duplicate --all", err)
	}
	if err.Error() != "duplicate option: --all" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if opts.Len() != 1 {
		t.Fatalf("Len() = %d after failed adds, want 1", opts.Len())
	}
	if err := opts.Add(nil); err == nil {
		t.Fatal("Add(nil) succeeded")
	}
}

func TestOptionsAddSameTwice(t *testing.T) {
	a := New("a").MustBuild()
	opts := NewOptions()
	for range 2 {
		if err := opts.Add(a); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if opts.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", opts.Len())
	}
}

func TestMatchingLong(t *testing.T) {
	opts := NewOptions().
		MustAdd(New("v").Long("verbose").MustBuild()).
		MustAdd(New("V").Long("version").MustBuild()).
		MustAdd(New("x").Long("ver").MustBuild()).
		MustAdd(New("q").Long("quiet").MustBuild())

	tests := []struct {
		prefix string
		want   []string
	}{
		{"ver", []string{"ver"}},
		{"verb", []string{"verbose"}},
		{"--vers", []string{"version"}},
		{"v", []string{"ver", "verbose", "version"}},
		{"z", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, opts.MatchingLong(tt.prefix)); diff != "" {
			t.Errorf("MatchingLong(%q) mismatch (-want +got):\n%s", tt.prefix, diff)
		}
	}
}

func TestGroups(t *testing.T) {
	a := New("a").MustBuild()
	b := New("b").Required().MustBuild()
	c := New("c").Required().MustBuild()
	g := NewRequiredGroup(a, b)

	opts := NewOptions().MustAdd(c)
	if err := opts.AddGroup(g); err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	if err := opts.AddGroup(g); err != nil {
		t.Fatalf("second AddGroup() error = %v", err)
	}
	if !opts.HasShort("a") || !opts.HasShort("b") {
		t.Fatal("AddGroup did not register members")
	}
	if opts.GroupOf(a) != g || opts.GroupOf(c) != nil {
		t.Fatal("GroupOf mismatch")
	}
	if len(opts.Groups()) != 1 {
		t.Fatalf("Groups() = %v, want one group", opts.Groups())
	}
	if got := g.String(); got != "[-a | -b]" {
		t.Fatalf("Group.String() = %q, want %q", got, "[-a | -b]")
	}
	if diff := cmp.Diff([]string{"a", "b"}, g.Names()); diff != "" {
		t.Fatalf("Names() mismatch (-want +got):\n%s", diff)
	}
	if !g.Contains(b) || g.Contains(c) {
		t.Fatal("Contains mismatch")
	}

	var got []string
	for _, r := range opts.Required() {
		got = append(got, r.String())
	}
	if diff := cmp.Diff([]string{"c", "[-a | -b]"}, got); diff != "" {
		t.Fatalf("Required() mismatch (-want +got):\n%s", diff)
	}
}

func TestAddGroupRejectsSecondGroup(t *testing.T) {
	a := New("a").MustBuild()
	b := New("b").MustBuild()
	opts := NewOptions()
	if err := opts.AddGroup(NewGroup(a, b)); err != nil {
		t.Fatal(err)
	}

	d := New("d").MustBuild()
	err := opts.AddGroup(NewGroup(d, a))
	if !errors.Is(err, ErrAlreadyGrouped) {
		t.Fatalf("AddGroup() error = %v, want ErrAlreadyGrouped", err)
	}
	if opts.HasShort("d") {
		t.Fatal("failed AddGroup registered -d")
	}
}

func TestAddGroupRejectsConflict(t *testing.T) {
	opts := NewOptions().MustAdd(New("a").MustBuild())
	x := New("x").MustBuild()
	err := opts.AddGroup(NewGroup(x, New("a").MustBuild()))
	var dup *DuplicateOptionError
	if !errors.As(err, &dup) {
		t.Fatalf("AddGroup() error = %v, want *DuplicateOptionError", err)
	}
	if opts.HasShort("x") {
		t.Fatal("failed AddGroup registered -x")
	}
}

func TestOptionsString(t *testing.T) {
	a := New("a").Desc("all").MustBuild()
	b := New("b").Desc("bee").MustBuild()
	opts := NewOptions().MustAdd(a)
	if err := opts.AddGroup(NewGroup(b)); err != nil {
		t.Fatal(err)
	}
	want := "[ Options: [ short [ option: a  :: all ], [ option: b  :: bee ] ] [ groups [-b] ] ]"
	if got := opts.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
