// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"slices"
	"strings"
)

// Param describes one argument or option. Build it with Arg or Opt and
// decorate it with the chainable metadata methods before registering it.
// A Param belongs to at most one Registry.
type Param struct {
	kind  Kind
	narg  Narg
	name  string
	short rune
	value Value

	help        string
	placeholder string
	meta        []string
	choices     map[string]string
}

// Arg declares a positional argument. name is used for help and error
// messages only; arguments are never addressed by key.
func Arg(name string, value Value) *Param {
	return &Param{kind: Argument, narg: value.Narg(), name: name, value: value}
}

// Opt declares an option addressed as --name and, when short is non-zero,
// as -short.
func Opt(name string, short rune, value Value) *Param {
	return &Param{kind: Option, narg: value.Narg(), name: name, short: short, value: value}
}

// Help sets the help text.
func (p *Param) Help(text string) *Param {
	p.help = text
	return p
}

// Placeholder overrides the metavariable shown in usage text, which
// otherwise is the upper-cased name.
func (p *Param) Placeholder(s string) *Param {
	p.placeholder = s
	return p
}

// Meta adds bracketed notes after the help text, such as "default: 1".
func (p *Param) Meta(columns ...string) *Param {
	p.meta = append(p.meta, columns...)
	return p
}

// Choice documents one accepted value in help. Choices never change what
// the matcher or binder accept; pair them with OneOf for enforcement.
func (p *Param) Choice(value, description string) *Param {
	if p.choices == nil {
		p.choices = make(map[string]string)
	}
	p.choices[value] = description
	return p
}

// Kind reports whether p is an argument or an option.
func (p *Param) Kind() Kind { return p.kind }

// Narg reports p's arity.
func (p *Param) Narg() Narg { return p.narg }

// Name reports the long name of an option or the display name of an argument.
func (p *Param) Name() string { return p.name }

// Short reports the option's short name, or zero.
func (p *Param) Short() rune { return p.short }

// HelpText reports the help text.
func (p *Param) HelpText() string { return p.help }

// MetaColumns reports the extra help columns.
func (p *Param) MetaColumns() []string { return p.meta }

// Choices reports the documented choices sorted by value.
func (p *Param) Choices() []string {
	out := make([]string, 0, len(p.choices))
	for c := range p.choices {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// ChoiceHelp reports the description documented for choice.
func (p *Param) ChoiceHelp(choice string) string { return p.choices[choice] }

// metavar is the upper-cased placeholder used in usage grammar.
func (p *Param) metavar() string {
	if p.placeholder != "" {
		return p.placeholder
	}
	return strings.ToUpper(strings.ReplaceAll(p.name, "-", "_"))
}

// label names p in error messages: "--name" for options, "NAME" for arguments.
func (p *Param) label() string {
	if p.kind == Option {
		return "--" + p.name
	}
	return p.metavar()
}
