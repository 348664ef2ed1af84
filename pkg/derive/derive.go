// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package derive builds argmatch registries from struct tags.
//
// Exported fields become options unless tagged otherwise:
//
//	type Flags struct {
//	    Verbose bool          `flag:"verbose" short:"v" help:"Enable verbose output"`
//	    Port    argmatch.Port `flag:"port" default:"8080" port:"1024-65535"`
//	    Tags    []string      `flag:"tag" nargs:"+"`
//	    Name    *string       `flag:"name"`
//	    Files   []string      `pos:"0*" help:"Input files"`
//	    Build   *BuildFlags   `cmd:"build" help:"Build a target"`
//	}
//
// bool fields are switches, pointer fields may be omitted or given once,
// slices collect values ("*" unless nargs says otherwise) and every other
// field takes exactly one value. A default tag is converted and stored
// before parsing, so an absent option keeps it.
//
// Subcommand fields point at a struct of the same shape. After Settle only
// the fields along the selected subcommand path are non-nil.
package derive

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/argmatch/pkg/argmatch"
)

// Command is a Registry derived from a struct, along with the struct it
// writes into.
type Command struct {
	Registry *argmatch.Registry
	subs     []subField
}

type subField struct {
	name  string
	field reflect.Value
	cmd   *Command
}

type argField struct {
	pos   int
	param *argmatch.Param
}

// New derives a Command from dst, which must be a pointer to a struct.
// Default values are written into dst immediately.
func New(program string, dst any, opts ...argmatch.RegistryOption) (*Command, error) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("derive: want a non-nil pointer to a struct, got %T", dst)
	}
	return build(program, v.Elem(), opts)
}

func build(program string, v reflect.Value, opts []argmatch.RegistryOption) (*Command, error) {
	c := &Command{Registry: argmatch.NewRegistry(program, opts...)}
	t := v.Type()

	var args []argField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("flag") == "-" {
			continue
		}
		field := v.Field(i)

		if name := sf.Tag.Get("cmd"); name != "" {
			sub, err := buildSub(name, sf, field)
			if err != nil {
				return nil, err
			}
			c.subs = append(c.subs, sub)
			continue
		}

		if pos := sf.Tag.Get("pos"); pos != "" {
			a, err := argumentFor(sf, field, pos)
			if err != nil {
				return nil, fieldErr(sf, err)
			}
			args = append(args, a)
			continue
		}

		p, err := optionFor(sf, field)
		if err != nil {
			return nil, fieldErr(sf, err)
		}
		if err := c.Registry.Register(p); err != nil {
			return nil, fieldErr(sf, err)
		}
	}

	slices.SortStableFunc(args, func(a, b argField) int { return a.pos - b.pos })
	for _, a := range args {
		if err := c.Registry.Register(a.param); err != nil {
			return nil, err
		}
	}
	for _, s := range c.subs {
		if err := c.Registry.AddSubcommand(s.name, s.cmd.Registry); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func buildSub(name string, sf reflect.StructField, field reflect.Value) (subField, error) {
	if sf.Type.Kind() != reflect.Pointer || sf.Type.Elem().Kind() != reflect.Struct {
		return subField{}, fieldErr(sf, errors.New("cmd fields must be pointers to structs"))
	}
	sub := reflect.New(sf.Type.Elem())
	var opts []argmatch.RegistryOption
	if about := sf.Tag.Get("help"); about != "" {
		opts = append(opts, argmatch.WithAbout(about))
	}
	cmd, err := build(name, sub.Elem(), opts)
	if err != nil {
		return subField{}, err
	}
	field.Set(sub)
	return subField{name: name, field: field, cmd: cmd}, nil
}

func fieldErr(sf reflect.StructField, err error) error {
	return fmt.Errorf("derive: field %s: %w", sf.Name, err)
}

// optionFor builds the option for a field. The option name is the flag
// tag or the lower-cased field name.
func optionFor(sf reflect.StructField, field reflect.Value) (*argmatch.Param, error) {
	name := sf.Tag.Get("flag")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	var short rune
	if s := sf.Tag.Get("short"); s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if size != len(s) {
			return nil, fmt.Errorf("short name %q must be a single character", s)
		}
		short = r
	}

	val, err := valueFor(sf, field, sf.Tag.Get("nargs"))
	if err != nil {
		return nil, err
	}
	return decorate(argmatch.Opt(name, short, val), sf), nil
}

// argumentFor builds the argument for a field tagged pos:"N", "N*" or "N+".
// The suffix is the argument's nargs.
func argumentFor(sf reflect.StructField, field reflect.Value, tag string) (argField, error) {
	posStr := strings.TrimRight(tag, "*+?")
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return argField{}, fmt.Errorf("invalid pos tag %q", tag)
	}
	nargs := strings.TrimPrefix(tag, posStr)
	if nargs == "" {
		nargs = sf.Tag.Get("nargs")
	}
	val, err := valueFor(sf, field, nargs)
	if err != nil {
		return argField{}, err
	}
	name := sf.Tag.Get("flag")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	return argField{pos: pos, param: decorate(argmatch.Arg(name, val), sf)}, nil
}

func decorate(p *argmatch.Param, sf reflect.StructField) *argmatch.Param {
	p.Help(sf.Tag.Get("help"))
	if ph := sf.Tag.Get("placeholder"); ph != "" {
		p.Placeholder(ph)
	}
	if d := sf.Tag.Get("default"); d != "" {
		p.Meta("default: " + d)
	}
	for _, c := range choices(sf) {
		p.Choice(c, "")
	}
	return p
}

func choices(sf reflect.StructField) []string {
	tag := sf.Tag.Get("choices")
	if tag == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(tag, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Settle clears every subcommand field that is not on path, the
// subcommand chain reported by argmatch.Result.
func (c *Command) Settle(path []string) {
	for _, s := range c.subs {
		if len(path) > 0 && path[0] == s.name {
			s.cmd.Settle(path[1:])
			continue
		}
		s.field.Set(reflect.Zero(s.field.Type()))
	}
}

// Parse derives a parser for dst, parses args and settles dst's subcommand
// fields. Help and errors go to the parser's console.
func Parse(program string, dst any, args []string, opts ...argmatch.ParserOption) (*argmatch.Result, error) {
	c, err := New(program, dst)
	if err != nil {
		return nil, err
	}
	if err := c.Registry.Finalize(); err != nil {
		return nil, err
	}
	res, err := argmatch.New(c.Registry, opts...).Parse(args)
	if err != nil {
		c.Settle(nil)
		return nil, err
	}
	c.Settle(res.Path)
	return res, nil
}
