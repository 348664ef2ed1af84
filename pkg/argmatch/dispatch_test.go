// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type tree struct {
	verbose bool
	target  string
	release bool
	runArgs []string
}

func newTree(t *testing.T, opts ...RegistryOption) (*Registry, *tree) {
	t.Helper()
	tr := &tree{}
	root := NewRegistry("prog", append([]RegistryOption{quiet()}, opts...)...)
	mustRegister(t, root, Opt("verbose", 'v', Switch(&tr.verbose, true)))

	build := NewRegistry("build", WithAbout("Build a target."))
	mustRegister(t, build,
		Opt("release", 'r', Switch(&tr.release, true)),
		Arg("target", Scalar(&tr.target, String)),
	)
	run := NewRegistry("run", WithAbout("Run a command."))
	mustRegister(t, run, Arg("args", Collection(&tr.runArgs, Any(), String)))

	if err := root.AddSubcommand("build", build); err != nil {
		t.Fatalf("AddSubcommand(build) error = %v", err)
	}
	if err := root.AddSubcommand("run", run); err != nil {
		t.Fatalf("AddSubcommand(run) error = %v", err)
	}
	return root, tr
}

func TestSubcommandDispatch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantPath []string
		want     tree
	}{
		{
			name:     "parent option before subcommand",
			args:     []string{"-v", "build", "app", "--release"},
			wantPath: []string{"build"},
			want:     tree{verbose: true, target: "app", release: true},
		},
		{
			name:     "subcommand name as child value",
			args:     []string{"run", "build", "x"},
			wantPath: []string{"run"},
			want:     tree{runArgs: []string{"build", "x"}},
		},
		{
			name:     "child option names are child scoped",
			args:     []string{"build", "-r", "lib"},
			wantPath: []string{"build"},
			want:     tree{target: "lib", release: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, got := newTree(t)
			p, _ := newTestParser(t, root)
			res, err := p.Parse(tt.args)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.args, err)
			}
			if !reflect.DeepEqual(res.Path, tt.wantPath) {
				t.Errorf("Path = %v, want %v", res.Path, tt.wantPath)
			}
			if res.Command() != tt.wantPath[len(tt.wantPath)-1] {
				t.Errorf("Command() = %q", res.Command())
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("bound = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestSubcommandErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		kind        ParseErrorKind
		wantCommand []string
		wantParam   string
	}{
		{name: "missing", args: []string{"-v"}, kind: MissingRequiredValue, wantCommand: []string{"prog"}, wantParam: "command"},
		{name: "unknown", args: []string{"deploy"}, kind: UnknownSubcommand, wantCommand: []string{"prog"}, wantParam: "command"},
		{name: "child missing argument", args: []string{"-v", "build"}, kind: MissingRequiredValue, wantCommand: []string{"prog", "build"}, wantParam: "TARGET"},
		{name: "parent option after subcommand", args: []string{"build", "app", "--verbose"}, kind: UnknownOption, wantCommand: []string{"prog", "build"}, wantParam: "--verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, got := newTree(t)
			p, _ := newTestParser(t, root)
			_, err := p.Parse(tt.args)
			pe := parseErr(t, err, tt.kind)
			if !reflect.DeepEqual(pe.Command, tt.wantCommand) {
				t.Errorf("Command = %v, want %v", pe.Command, tt.wantCommand)
			}
			if pe.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", pe.Param, tt.wantParam)
			}
			if got.verbose {
				t.Error("parent slot written although the child failed to match")
			}
		})
	}
}

func TestOptionalSubcommand(t *testing.T) {
	root, got := newTree(t, WithOptionalSubcommand())
	p, _ := newTestParser(t, root)
	res, err := p.Parse([]string{"-v"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Path) != 0 || res.Command() != "" {
		t.Errorf("Path = %v, want empty", res.Path)
	}
	if !got.verbose {
		t.Error("verbose = false, want true")
	}
}

func TestSubcommandHelp(t *testing.T) {
	root, got := newTree(t)
	p, tc := newTestParser(t, root)
	_, err := p.Parse([]string{"-v", "build", "--help"})
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("Parse() error = %v, want ErrHelp", err)
	}
	out := tc.out.String()
	if !strings.HasPrefix(out, "usage: prog build [-h] [-r] TARGET\n") {
		t.Errorf("help = %q, want child usage", out)
	}
	if !strings.Contains(out, "Build a target.") {
		t.Errorf("help = %q, want child about text", out)
	}
	if got.verbose {
		t.Error("verbose bound on help")
	}
}

func TestGreedyArgumentYieldsToSubcommand(t *testing.T) {
	var inputs, rest []string
	root := NewRegistry("prog", quiet())
	mustRegister(t, root, Arg("inputs", Collection(&inputs, AtLeastOne(), String)))
	child := NewRegistry("go")
	mustRegister(t, child, Arg("rest", Collection(&rest, Any(), String)))
	if err := root.AddSubcommand("go", child); err != nil {
		t.Fatalf("AddSubcommand() error = %v", err)
	}
	p, _ := newTestParser(t, root)

	res, err := p.Parse([]string{"a", "b", "go", "x"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(inputs, []string{"a", "b"}) || !reflect.DeepEqual(rest, []string{"x"}) {
		t.Errorf("inputs = %v, rest = %v, want [a b] [x]", inputs, rest)
	}
	if res.Command() != "go" {
		t.Errorf("Command() = %q, want go", res.Command())
	}

	// The first value of a required argument is never a subcommand.
	inputs = nil
	_, err = p.Parse([]string{"go"})
	pe := parseErr(t, err, MissingRequiredValue)
	if pe.Param != "command" {
		t.Errorf("Param = %q, want command", pe.Param)
	}
	if inputs != nil {
		t.Errorf("inputs = %v, want untouched", inputs)
	}
}
