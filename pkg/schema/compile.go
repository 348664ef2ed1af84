// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/argmatch/pkg/argmatch"
)

// Compiled is a schema level turned into a registry. Parsed values land
// in cells owned by the Compiled tree, one per parameter.
type Compiled struct {
	Registry *argmatch.Registry

	cells    []*cell
	children map[string]*Compiled
}

// cell holds the bound value of one parameter in display form: string,
// int, float64, bool or a slice of those.
type cell struct {
	name  string
	value any
	set   bool
}

func (c *cell) store(v any) {
	c.value = v
	c.set = true
}

// Compile builds a registry for s and its commands. The result is
// finalized and ready to parse.
func Compile(s *Schema, opts ...argmatch.RegistryOption) (*Compiled, error) {
	c, err := compile(s.Program, s, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Registry.Finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func compile(program string, s *Schema, opts []argmatch.RegistryOption) (*Compiled, error) {
	if s.About != "" {
		opts = append(opts, argmatch.WithAbout(s.About))
	}
	if s.OptionalCommand {
		opts = append(opts, argmatch.WithOptionalSubcommand())
	}
	c := &Compiled{Registry: argmatch.NewRegistry(program, opts...)}

	for i := range s.Arguments {
		if err := c.add(argmatch.Argument, &s.Arguments[i]); err != nil {
			return nil, err
		}
	}
	for i := range s.Options {
		if err := c.add(argmatch.Option, &s.Options[i]); err != nil {
			return nil, err
		}
	}

	// Commands are keyed by a map in both encodings; register them sorted
	// so help output is stable.
	for _, name := range slices.Sorted(maps.Keys(s.Commands)) {
		sub := s.Commands[name]
		if sub == nil {
			sub = &Schema{}
		}
		child, err := compile(name, sub, nil)
		if err != nil {
			return nil, err
		}
		if err := c.Registry.AddSubcommand(name, child.Registry); err != nil {
			return nil, err
		}
		if c.children == nil {
			c.children = make(map[string]*Compiled)
		}
		c.children[name] = child
	}
	return c, nil
}

func (c *Compiled) add(kind argmatch.Kind, p *Param) error {
	cl := &cell{name: p.Name}
	val, err := valueFor(p, cl)
	if err != nil {
		return fmt.Errorf("%s %q: %w", kind, p.Name, err)
	}

	var param *argmatch.Param
	if kind == argmatch.Argument {
		if p.Short != "" {
			return fmt.Errorf("argument %q: arguments have no short name", p.Name)
		}
		param = argmatch.Arg(p.Name, val)
	} else {
		short, err := shortName(p.Short)
		if err != nil {
			return fmt.Errorf("option %q: %w", p.Name, err)
		}
		param = argmatch.Opt(p.Name, short, val)
	}
	param.Help(p.Help)
	if p.Placeholder != "" {
		param.Placeholder(p.Placeholder)
	}
	if p.Default != "" {
		param.Meta("default: " + p.Default)
	}
	for _, ch := range p.Choices {
		param.Choice(ch, "")
	}
	if err := c.Registry.Register(param); err != nil {
		return err
	}
	// Arguments and options share the output namespace.
	for _, other := range c.cells {
		if other.name == p.Name {
			return fmt.Errorf("%s %q: name already used in %s", kind, p.Name, c.Registry.Program())
		}
	}
	c.cells = append(c.cells, cl)
	return nil
}

func shortName(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("short name %q must be a single character", s)
	}
	return r, nil
}

// valueFor builds the Value for p writing into cl, and stores p's default
// in cl.
func valueFor(p *Param, cl *cell) (argmatch.Value, error) {
	typ := p.Type
	nargs := p.Nargs
	if typ == "" {
		typ = "string"
		if nargs == "0" {
			typ = "bool"
		}
	}
	if nargs == "" {
		nargs = "1"
		if typ == "bool" {
			nargs = "0"
		}
	}
	narg, err := argmatch.ParseNarg(nargs)
	if err != nil {
		return nil, err
	}
	conv, err := converterFor(typ)
	if err != nil {
		return nil, err
	}
	if len(p.Choices) > 0 {
		conv = argmatch.OneOf(conv, p.Choices...)
	}

	switch {
	case narg.IsSwitch():
		if typ != "bool" {
			return nil, fmt.Errorf("nargs 0 needs type bool, got %q", typ)
		}
		cl.value = false
		if p.Default != "" {
			v, err := argmatch.Bool(p.Default)
			if err != nil {
				return nil, fmt.Errorf("invalid default %q: %w", p.Default, err)
			}
			cl.value = v
		}
		return argmatch.SwitchFunc[any](cl.store, true), nil
	case narg.IsCollection():
		if p.Default != "" {
			var vals []any
			for _, d := range strings.Split(p.Default, ",") {
				v, err := conv(strings.TrimSpace(d))
				if err != nil {
					return nil, fmt.Errorf("invalid default %q: %w", p.Default, err)
				}
				vals = append(vals, v)
			}
			cl.store(vals)
		}
		return argmatch.CollectionFunc(func(v []any) { cl.store(v) }, narg, conv), nil
	}

	if p.Default != "" {
		v, err := conv(p.Default)
		if err != nil {
			return nil, fmt.Errorf("invalid default %q: %w", p.Default, err)
		}
		cl.store(v)
	}
	if narg == argmatch.ExactlyOneOptional() {
		return argmatch.OptionalFunc(cl.store, conv), nil
	}
	return argmatch.ScalarFunc(cl.store, conv), nil
}

// converterFor maps a schema type name to a converter producing a display
// value. "port" may carry a range, as in "port:1024-65535".
func converterFor(typ string) (argmatch.Converter[any], error) {
	name, arg, _ := strings.Cut(typ, ":")
	if arg != "" && name != "port" {
		return nil, fmt.Errorf("type %q takes no argument", name)
	}
	switch name {
	case "string":
		return display(argmatch.String, nil), nil
	case "int":
		return display(argmatch.Int, nil), nil
	case "float":
		return display(argmatch.Float64, nil), nil
	case "bool":
		return display(argmatch.Bool, nil), nil
	case "duration":
		return display(argmatch.Duration, func(v any) any { return fmt.Sprint(v) }), nil
	case "url":
		return display(argmatch.URL, func(v any) any { return fmt.Sprint(v) }), nil
	case "semver":
		return display(argmatch.Version, func(v any) any { return fmt.Sprint(v) }), nil
	case "uuid":
		return display(argmatch.UUID, func(v any) any { return fmt.Sprint(v) }), nil
	case "port":
		var conv argmatch.Converter[argmatch.Port] = argmatch.ParsePort
		if arg != "" {
			var err error
			if conv, err = argmatch.ParsePortRange(arg); err != nil {
				return nil, err
			}
		}
		return display(conv, func(v any) any { return int(v.(argmatch.Port)) }), nil
	}
	return nil, fmt.Errorf("unknown type %q", typ)
}

func display[T any](conv argmatch.Converter[T], show func(any) any) argmatch.Converter[any] {
	return func(s string) (any, error) {
		v, err := conv(s)
		if err != nil {
			return nil, err
		}
		if show != nil {
			return show(v), nil
		}
		return v, nil
	}
}

// Parse parses args against the compiled schema. Help and errors go to the
// parser's console.
func (c *Compiled) Parse(args []string, opts ...argmatch.ParserOption) (*argmatch.Result, error) {
	return argmatch.New(c.Registry, opts...).Parse(args)
}

// Values returns the bound values of this level and, nested under the
// command name, those of each subcommand on path. Parameters with neither
// a value nor a default are omitted.
func (c *Compiled) Values(path []string) map[string]any {
	out := make(map[string]any)
	for _, cl := range c.cells {
		if cl.set || cl.value != nil {
			out[cl.name] = cl.value
		}
	}
	if len(path) > 0 {
		if child, ok := c.children[path[0]]; ok {
			out[path[0]] = child.Values(path[1:])
		}
	}
	return out
}

// Command returns the compiled subcommand at path below c.
func (c *Compiled) Command(path ...string) (*Compiled, bool) {
	cur := c
	for _, name := range path {
		next, ok := cur.children[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
