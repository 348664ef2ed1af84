// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import "os"

// Parser runs argv against a finalized Registry.
type Parser struct {
	reg     *Registry
	console *Console
	exit    func(int)
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithConsole sets where help and errors are written.
func WithConsole(c *Console) ParserOption {
	return func(p *Parser) { p.console = c }
}

// New returns a Parser for reg, which must be finalized before Parse.
func New(reg *Registry, opts ...ParserOption) *Parser {
	p := &Parser{reg: reg, exit: os.Exit}
	for _, o := range opts {
		o(p)
	}
	if p.console == nil {
		p.console = DefaultConsole()
	}
	return p
}

// Registry returns the parser's registry.
func (p *Parser) Registry() *Registry { return p.reg }

// Result describes a successful parse.
type Result struct {
	// Path lists the selected subcommands, outermost first.
	Path []string
}

// Command returns the innermost selected subcommand, or "".
func (r *Result) Command() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}

// Parse classifies args (argv without the program name), matches the
// tokens against the whole command tree and then binds the captured
// values, parents before children.
//
// If help is requested anywhere, Parse writes it to the console and
// returns ErrHelp without binding anything. Match errors also leave every
// slot untouched; a conversion failure during binding may leave slots
// bound before it written.
func (p *Parser) Parse(args []string) (*Result, error) {
	if !p.reg.finalized {
		return nil, &ConfigError{Kind: RegistryNotReady, Command: p.reg.program}
	}
	toks := Classify(args)
	o, err := match(p.reg, []string{p.reg.program}, toks, args)
	if err != nil {
		return nil, err
	}
	leaf := o.leaf()
	if leaf.help {
		p.console.Help(p.reg, subPath(leaf.path))
		return nil, ErrHelp
	}
	if err := bind(o, args); err != nil {
		return nil, err
	}
	return &Result{Path: subPath(leaf.path)}, nil
}

// ParseOrExit is Parse for main functions: on help it exits 0, on error it
// reports to the console and exits with ExitCode(err).
func (p *Parser) ParseOrExit(args []string) *Result {
	res, err := p.Parse(args)
	if err == nil {
		return res
	}
	code := ExitCode(err)
	if code != 0 {
		p.console.Error(p.reg, err, args)
	}
	p.exit(code)
	return nil
}
