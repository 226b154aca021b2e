// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package posix

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/posixopt/pkg/cliopt"
)

type resolvedView struct {
	Name   string
	Values []string
}

func view(cl *CommandLine) []resolvedView {
	var out []resolvedView
	for _, r := range cl.Options() {
		out = append(out, resolvedView{Name: r.Option.Name(), Values: r.Values})
	}
	return out
}

func TestParse(t *testing.T) {
	opts := testOptions(t)

	tests := []struct {
		name     string
		args     []string
		stop     bool
		wantOpts []resolvedView
		wantArgs []string
	}{
		{
			name:     "burst flags",
			args:     []string{"-abc"},
			wantOpts: []resolvedView{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
		{
			name:     "positionals interspersed",
			args:     []string{"x", "-a", "y", "--", "-b"},
			wantOpts: []resolvedView{{Name: "a"}},
			wantArgs: []string{"x", "y", "-b"},
		},
		{
			name:     "stop at non-option",
			args:     []string{"-a", "foo", "-b"},
			stop:     true,
			wantOpts: []resolvedView{{Name: "a"}},
			wantArgs: []string{"foo", "-b"},
		},
		{
			name:     "attached and separate values",
			args:     []string{"-dvalue", "--data", "two", "--data=three"},
			wantOpts: []resolvedView{{Name: "d", Values: []string{"value", "two", "three"}}},
		},
		{
			name:     "attached long value looks like option",
			args:     []string{"--data=-a"},
			wantOpts: []resolvedView{{Name: "d", Values: []string{"-a"}}},
		},
		{
			name:     "stdin marker",
			args:     []string{"-", "-d", "-"},
			wantOpts: []resolvedView{{Name: "d", Values: []string{"-"}}},
			wantArgs: []string{"-"},
		},
		{
			name:     "fixed arity leaves extra",
			args:     []string{"-p", "1", "2", "3"},
			wantOpts: []resolvedView{{Name: "p", Values: []string{"1", "2"}}},
			wantArgs: []string{"3"},
		},
		{
			name:     "unlimited",
			args:     []string{"-e", "1", "2", "-a", "3"},
			wantOpts: []resolvedView{{Name: "e", Values: []string{"1", "2"}}, {Name: "a"}},
			wantArgs: []string{"3"},
		},
		{
			name:     "separator",
			args:     []string{"-Dkey=a=b", "x"},
			wantOpts: []resolvedView{{Name: "D", Values: []string{"key", "a=b"}}},
			wantArgs: []string{"x"},
		},
		{
			name:     "optional value absent",
			args:     []string{"-o", "-a"},
			wantOpts: []resolvedView{{Name: "o"}, {Name: "a"}},
		},
		{
			name:     "optional value present",
			args:     []string{"-o", "v"},
			wantOpts: []resolvedView{{Name: "o", Values: []string{"v"}}},
		},
		{
			name:     "repeated accumulates",
			args:     []string{"-d", "x", "-a", "-d", "y"},
			wantOpts: []resolvedView{{Name: "d", Values: []string{"x", "y"}}, {Name: "a"}},
		},
		{
			name:     "flag given a long value",
			args:     []string{"--alpha=x"},
			wantOpts: []resolvedView{{Name: "a"}},
			wantArgs: []string{"x"},
		},
		{
			name:     "negative number",
			args:     []string{"-n", "-5"},
			wantOpts: []resolvedView{{Name: "n", Values: []string{"-5"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, err := Parse(opts, tt.args, tt.stop)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.args, err)
			}
			if diff := cmp.Diff(tt.wantOpts, view(cl)); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, cl.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	opts := testOptions(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown short", args: []string{"-z"}, want: "unrecognized option: -z"},
		{name: "unknown long", args: []string{"--zzz"}, want: "unrecognized option: --zzz"},
		{name: "unknown burst remainder", args: []string{"-axc"}, want: "unrecognized option: -xc"},
		{name: "ambiguous", args: []string{"--bu"}, want: "ambiguous option: --bu (could be: --build, --bundle)"},
		{name: "missing value", args: []string{"-d"}, want: "missing argument for option: -d"},
		{name: "value is an option", args: []string{"-d", "-a"}, want: "missing argument for option: -d"},
		{name: "too few values", args: []string{"-p", "1"}, want: "missing argument for option: -p (want 2 values, got 1)"},
		{name: "unlimited needs one", args: []string{"-e", "--", "x"}, want: "missing argument for option: -e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, err := Parse(opts, tt.args, false)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", tt.args, cl)
			}
			if cl != nil {
				t.Fatalf("Parse(%q) returned a CommandLine with error %v", tt.args, err)
			}
			if err.Error() != tt.want {
				t.Fatalf("error = %q, want %q", err.Error(), tt.want)
			}
			var pe ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T does not implement ParseError", err)
			}
		})
	}
}

func TestMissingArgumentError(t *testing.T) {
	_, err := Parse(testOptions(t), []string{"-p", "1"}, false)
	var mae *MissingArgumentError
	if !errors.As(err, &mae) {
		t.Fatalf("error = %v, want *MissingArgumentError", err)
	}
	if mae.Option.Name() != "p" || mae.Want != 2 || mae.Got != 1 {
		t.Fatalf("got %+v", mae)
	}
}

func groupOptions(t *testing.T, required bool) *cliopt.Options {
	t.Helper()
	a := cliopt.New("a").MustBuild()
	b := cliopt.New("b").MustBuild()
	v := cliopt.New("v").HasArg().MustBuild()
	g := cliopt.NewGroup(a, b, v)
	if required {
		g = cliopt.NewRequiredGroup(a, b, v)
	}
	opts := cliopt.NewOptions().MustAdd(cliopt.New("x").MustBuild())
	if err := opts.AddGroup(g); err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestGroupExclusivity(t *testing.T) {
	opts := groupOptions(t, false)

	for _, args := range [][]string{{"-a", "-b"}, {"-ab"}, {"-b", "-vfoo"}} {
		_, err := Parse(opts, args, false)
		var ase *AlreadySelectedError
		if !errors.As(err, &ase) {
			t.Fatalf("Parse(%q) error = %v, want *AlreadySelectedError", args, err)
		}
		if ase.Selected.Name() != args[0][1:2] {
			t.Errorf("Selected = %s, want -%s", ase.Selected.Name(), args[0][1:2])
		}
	}

	cl, err := Parse(opts, []string{"-a", "-x", "-a"}, false)
	if err != nil {
		t.Fatalf("repeating a member: %v", err)
	}
	if !cl.Has("a") || !cl.Has("x") {
		t.Fatalf("got %v", cl)
	}
	if _, err := Parse(opts, nil, false); err != nil {
		t.Fatalf("optional group: %v", err)
	}
}

func TestRequired(t *testing.T) {
	opts := cliopt.NewOptions().
		MustAdd(cliopt.New("r").Long("req").Required().MustBuild()).
		MustAdd(cliopt.New("a").MustBuild())

	_, err := Parse(opts, []string{"-a"}, false)
	var moe *MissingOptionError
	if !errors.As(err, &moe) {
		t.Fatalf("error = %v, want *MissingOptionError", err)
	}
	if diff := cmp.Diff([]string{"r"}, moe.Missing); diff != "" {
		t.Fatalf("Missing mismatch (-want +got):\n%s", diff)
	}
	if got, want := err.Error(), "missing required option: r"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	if _, err := Parse(opts, []string{"--req"}, false); err != nil {
		t.Fatalf("Parse(--req) error = %v", err)
	}

	_, err = Parse(groupOptions(t, true), []string{"-x"}, false)
	if !errors.As(err, &moe) {
		t.Fatalf("error = %v, want *MissingOptionError", err)
	}
	if diff := cmp.Diff([]string{"[-a | -b | -v]"}, moe.Missing); diff != "" {
		t.Fatalf("Missing mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	opts := testOptions(t)
	p := Parser{Defaults: map[string]string{
		"data": "fallback",
		"a":    "yes",
		"b":    "no",
		"c":    "TRUE",
		"D":    "k=v",
		"p":    "1",
	}}

	cl, err := p.Parse(opts, []string{"-d", "given"})
	if err != nil {
		t.Fatal(err)
	}
	if got := cl.Values("d"); !reflect.DeepEqual(got, []string{"given"}) {
		t.Errorf("Values(d) = %q, want [given]", got)
	}
	if !cl.Has("a") || cl.Has("b") || !cl.Has("c") {
		t.Errorf("flags from defaults: a=%v b=%v c=%v", cl.Has("a"), cl.Has("b"), cl.Has("c"))
	}
	if got := cl.Values("D"); !reflect.DeepEqual(got, []string{"k", "v"}) {
		t.Errorf("Values(D) = %q, want [k v]", got)
	}
	if got := cl.Value("p"); got != "1" {
		t.Errorf("Value(p) = %q, want 1", got)
	}

	cl, err = p.Parse(opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := cl.Value("d"); got != "fallback" {
		t.Errorf("Value(d) = %q, want fallback", got)
	}
}

func TestDefaultsRespectGroups(t *testing.T) {
	opts := groupOptions(t, true)
	p := Parser{Defaults: map[string]string{"a": "true", "v": "val"}}

	cl, err := p.Parse(opts, []string{"-b"})
	if err != nil {
		t.Fatal(err)
	}
	if cl.Has("a") || cl.Has("v") {
		t.Fatalf("defaults overrode the group selection: %v", cl)
	}

	// With nothing selected, the first default in key order wins the group
	// and satisfies the requirement.
	cl, err = p.Parse(opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cl.Has("a") || cl.Has("v") {
		t.Fatalf("got %v, want only -a", cl)
	}
}

func TestDefaultsUnknownKey(t *testing.T) {
	p := Parser{Defaults: map[string]string{"nope": "1"}}
	_, err := p.Parse(testOptions(t), nil)
	var uoe *UnrecognizedOptionError
	if !errors.As(err, &uoe) || uoe.Option != "nope" {
		t.Fatalf("error = %v, want unrecognized nope", err)
	}
}

func TestParseTokens(t *testing.T) {
	opts := testOptions(t)
	args := []string{"-abdvalue", "x", "-e", "1", "2", "--", "-c"}

	want, err := Parse(opts, args, false)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parser{}.ParseTokens(opts, Flatten(opts, args, false))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Fatalf("ParseTokens = %v, want %v", got, want)
	}
}

func TestParseTokensAttachedOptionLikeValue(t *testing.T) {
	opts := testOptions(t)
	args := []string{"--data=-a"}

	cl, err := Parse(opts, args, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := cl.Value("d"); got != "-a" {
		t.Fatalf("Parse(%q): Value(d) = %q, want -a", args, got)
	}

	// Flattened, the value is indistinguishable from the -a flag.
	_, err = Parser{}.ParseTokens(opts, Flatten(opts, args, false))
	var missing *MissingArgumentError
	if !errors.As(err, &missing) {
		t.Fatalf("ParseTokens error = %v, want *MissingArgumentError", err)
	}
}

func TestParseKeepsValueBytes(t *testing.T) {
	opts := testOptions(t)
	const raw = "caf\xe9.txt"

	tests := [][]string{
		{"-d", raw},
		{"-d" + raw},
		{"-ad" + raw},
		{"--data=" + raw},
	}
	for _, args := range tests {
		cl, err := Parse(opts, args, false)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", args, err)
		}
		if got := cl.Value("d"); got != raw {
			t.Errorf("Parse(%q): Value(d) = %q, want %q", args, got, raw)
		}
	}
}

func TestParseIsRepeatable(t *testing.T) {
	opts := testOptions(t)
	args := []string{"-ab", "-d", "v", "pos", "-e", "1", "--", "-c"}

	first, err := Parse(opts, args, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(opts, args, false)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Equal(second) {
		t.Fatalf("parses differ:\n%v\n%v", first, second)
	}

	other, err := Parse(opts, []string{"-a"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if first.Equal(other) {
		t.Fatal("different parses compare equal")
	}
}

func TestParseConcurrent(t *testing.T) {
	opts := groupOptions(t, false)
	want, err := Parse(opts, []string{"-a", "-x"}, false)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Alternate members so a group selection leaking between
			// parses would surface as AlreadySelectedError.
			args := []string{"-a", "-x"}
			if i%2 == 1 {
				args = []string{"-b"}
			}
			cl, err := Parse(opts, args, false)
			if err != nil {
				errs <- err
				return
			}
			if i%2 == 0 && !cl.Equal(want) {
				errs <- errors.New("unequal result")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
