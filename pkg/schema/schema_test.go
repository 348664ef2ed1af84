// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argmatch/pkg/argmatch"
)

const deployTOML = `
program = "deploy"
about = "Deploy a service"
optional_command = true

[[arguments]]
name = "service"
help = "Service name"

[[options]]
name = "replicas"
short = "r"
type = "int"
default = "1"

[[options]]
name = "verbose"
short = "v"
type = "bool"

[[options]]
name = "tag"
nargs = "+"

[commands.rollback]
about = "Roll back a release"

[[commands.rollback.options]]
name = "to"
type = "semver"
nargs = "?"
`

const deployYAML = `
program: deploy
about: Deploy a service
optional_command: true
arguments:
  - name: service
    help: Service name
options:
  - name: replicas
    short: r
    type: int
    default: "1"
  - name: verbose
    short: v
    type: bool
  - name: tag
    nargs: "+"
commands:
  rollback:
    about: Roll back a release
    options:
      - name: to
        type: semver
        nargs: "?"
`

func quiet() argmatch.RegistryOption {
	return argmatch.WithLogger(log.New(io.Discard))
}

func mustCompile(t *testing.T, src string, format Format) *Compiled {
	t.Helper()
	s, err := Decode([]byte(src), format)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	c, err := Compile(s, quiet())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return c
}

func testConsole() (argmatch.ParserOption, *bytes.Buffer) {
	var out bytes.Buffer
	return argmatch.WithConsole(&argmatch.Console{Out: &out, Err: &out, Width: 80}), &out
}

func TestCompileAndParse(t *testing.T) {
	args := []string{"--tag", "a", "b", "-v", "api", "rollback", "--to", "1.2.3"}
	want := map[string]any{
		"service":  "api",
		"replicas": 1,
		"verbose":  true,
		"tag":      []any{"a", "b"},
		"rollback": map[string]any{"to": "1.2.3"},
	}
	for _, tt := range []struct {
		name   string
		src    string
		format Format
	}{
		{"toml", deployTOML, TOML},
		{"yaml", deployYAML, YAML},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCompile(t, tt.src, tt.format)
			opt, _ := testConsole()
			res, err := c.Parse(args, opt)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := res.Command(); got != "rollback" {
				t.Errorf("Command() = %q, want rollback", got)
			}
			if diff := cmp.Diff(want, c.Values(res.Path)); diff != "" {
				t.Errorf("Values() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	c := mustCompile(t, deployTOML, TOML)
	opt, _ := testConsole()
	res, err := c.Parse([]string{"web"}, opt)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]any{
		"service":  "web",
		"replicas": 1,
		"verbose":  false,
	}
	if diff := cmp.Diff(want, c.Values(res.Path)); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	const src = `
program = "srv"

[[options]]
name = "port"
type = "port:1024-2048"

[[options]]
name = "mode"
choices = ["fast", "slow"]

[[options]]
name = "timeout"
type = "duration"
`
	tests := []struct {
		args []string
		kind argmatch.ParseErrorKind
	}{
		{[]string{"--port", "80"}, argmatch.InvalidValue},
		{[]string{"--mode", "medium"}, argmatch.InvalidValue},
		{[]string{"--timeout", "soon"}, argmatch.InvalidValue},
		{[]string{"--port"}, argmatch.MissingRequiredValue},
		{[]string{"extra"}, argmatch.UnexpectedPositional},
		{[]string{"--nope"}, argmatch.UnknownOption},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			c := mustCompile(t, src, TOML)
			opt, _ := testConsole()
			_, err := c.Parse(tt.args, opt)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.kind)
			}
			if diff := cmp.Diff(map[string]any{}, c.Values(nil)); diff != "" {
				t.Errorf("Values() after failed parse (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypedValues(t *testing.T) {
	const src = `
program = "typed"

[[options]]
name = "ratio"
type = "float"

[[options]]
name = "wait"
type = "duration"

[[options]]
name = "endpoint"
type = "url"

[[options]]
name = "port"
type = "port"

[[options]]
name = "id"
type = "uuid"

[[options]]
name = "flags"
type = "bool"
nargs = "*"
`
	c := mustCompile(t, src, TOML)
	opt, _ := testConsole()
	_, err := c.Parse([]string{
		"--ratio", "0.5",
		"--wait", "90s",
		"--endpoint", "https://example.com/x",
		"--port", "8080",
		"--id", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8",
		"--flags", "true", "false",
	}, opt)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]any{
		"ratio":    0.5,
		"wait":     "1m30s",
		"endpoint": "https://example.com/x",
		"port":     8080,
		"id":       "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"flags":    []any{true, false},
	}
	if diff := cmp.Diff(want, c.Values(nil)); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestHelp(t *testing.T) {
	c := mustCompile(t, deployYAML, YAML)
	opt, out := testConsole()
	if _, err := c.Parse([]string{"-h"}, opt); !errors.Is(err, argmatch.ErrHelp) {
		t.Fatalf("Parse() error = %v, want ErrHelp", err)
	}
	for _, want := range []string{
		"usage: deploy",
		"Deploy a service",
		"[default: 1]",
		"rollback",
		"Roll back a release",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
	}{
		{"toml", "progam = \"x\"\n", TOML},
		{"toml nested", "[[options]]\nname = \"a\"\nhelpp = \"b\"\n", TOML},
		{"yaml", "progam: x\n", YAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.src), tt.format); err == nil {
				t.Errorf("Decode() error = nil, want unknown key error")
			}
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	s, err := Decode(nil, YAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Program != "" || len(s.Options) != 0 {
		t.Errorf("Decode() = %+v, want empty schema", s)
	}
}

func TestCompileKeepsNargs(t *testing.T) {
	tests := []struct {
		nargs string
		typ   string
		want  argmatch.Narg
	}{
		{"", "", argmatch.Exactly(1)},
		{"1", "int", argmatch.Exactly(1)},
		{"2", "", argmatch.Exactly(2)},
		{"?", "", argmatch.ExactlyOneOptional()},
		{"+", "", argmatch.AtLeastOne()},
		{"*", "", argmatch.Any()},
		{"", "bool", argmatch.Zero()},
		{"0", "", argmatch.Zero()},
	}
	for _, tt := range tests {
		t.Run(tt.nargs+"/"+tt.typ, func(t *testing.T) {
			s := &Schema{Program: "prog", Options: []Param{{Name: "o", Nargs: tt.nargs, Type: tt.typ}}}
			c, err := Compile(s, quiet())
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if got := c.Registry.Options()[0].Narg(); got != tt.want {
				t.Errorf("Narg() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptionalOption(t *testing.T) {
	s := &Schema{Program: "prog", Options: []Param{{Name: "to", Nargs: "?", Type: "semver"}}}
	c, err := Compile(s, quiet())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	opt, _ := testConsole()
	if _, err := c.Parse(nil, opt); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{}, c.Values(nil)); diff != "" {
		t.Errorf("Values() without --to (-want +got):\n%s", diff)
	}
	if _, err := c.Parse([]string{"--to", "2.0.0"}, opt); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{"to": "2.0.0"}, c.Values(nil)); diff != "" {
		t.Errorf("Values() with --to (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		s    Schema
		kind error
	}{
		{
			name: "unknown type",
			s:    Schema{Options: []Param{{Name: "a", Type: "complex"}}},
		},
		{
			name: "switch with string type",
			s:    Schema{Options: []Param{{Name: "a", Type: "string", Nargs: "0"}}},
		},
		{
			name: "bad default",
			s:    Schema{Options: []Param{{Name: "a", Type: "int", Default: "ten"}}},
		},
		{
			name: "argument short name",
			s:    Schema{Arguments: []Param{{Name: "a", Short: "x"}}},
		},
		{
			name: "long short name",
			s:    Schema{Options: []Param{{Name: "a", Short: "xy"}}},
		},
		{
			name: "shared name",
			s: Schema{
				Arguments: []Param{{Name: "a"}},
				Options:   []Param{{Name: "a"}},
			},
		},
		{
			name: "optional argument",
			s:    Schema{Arguments: []Param{{Name: "a", Nargs: "?"}}},
			kind: argmatch.IllegalNargForKind,
		},
		{
			name: "duplicate option",
			s:    Schema{Options: []Param{{Name: "a"}, {Name: "a"}}},
			kind: argmatch.DuplicateName,
		},
		{
			name: "reserved help",
			s:    Schema{Options: []Param{{Name: "help"}}},
			kind: argmatch.ReservedName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.s.Program = "prog"
			_, err := Compile(&tt.s, quiet())
			if err == nil {
				t.Fatalf("Compile() error = nil, want error")
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Errorf("Compile() error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.toml")
	if err := os.WriteFile(path, []byte("[[options]]\nname = \"n\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Program != "tool" {
		t.Errorf("Program = %q, want tool", s.Program)
	}
	if len(s.Options) != 1 || s.Options[0].Name != "n" {
		t.Errorf("Options = %+v, want one option n", s.Options)
	}

	if _, err := Load(filepath.Join(dir, "tool.json")); err == nil {
		t.Errorf("Load(.json) error = nil, want unknown format")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "a", "argmatch.yaml")
	if err := os.WriteFile(want, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}

	// TOML wins over YAML in the same directory.
	toml := filepath.Join(root, "a", "argmatch.toml")
	if err := os.WriteFile(toml, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := Find(nested); got != toml {
		t.Errorf("Find() = %q, want %q", got, toml)
	}
}

func TestLocate(t *testing.T) {
	t.Setenv(EnvVar, "/etc/from-env.toml")
	if got, err := Locate("cli.yaml"); err != nil || got != "cli.yaml" {
		t.Errorf("Locate(explicit) = %q, %v, want cli.yaml", got, err)
	}
	if got, err := Locate(""); err != nil || got != "/etc/from-env.toml" {
		t.Errorf("Locate(env) = %q, %v, want /etc/from-env.toml", got, err)
	}
}
