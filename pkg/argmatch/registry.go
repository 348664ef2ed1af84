// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"tailscale.com/util/set"
)

// Registry holds the parameters of one parser level: positional arguments
// in match order, options keyed by long and short name, and optionally a
// set of named subcommands, each with its own Registry.
//
// A Registry is built with Register and AddSubcommand, sealed with
// Finalize, and is read-only afterwards. The first construction error is
// sticky: Finalize reports it again.
type Registry struct {
	program string
	about   string
	logger  *log.Logger

	args   []*Param
	opts   []*Param
	longs  map[string]*Param
	shorts map[rune]*Param
	names  set.Set[string] // argument display names

	subs        []subcommand
	subByName   map[string]*Registry
	subPos      int
	optionalSub bool

	finalized bool
	err       error
}

type subcommand struct {
	name string
	reg  *Registry
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAbout sets the description shown under the usage line.
func WithAbout(about string) RegistryOption {
	return func(r *Registry) { r.about = about }
}

// WithLogger sets the logger Finalize reports warnings to. Child registries
// without their own logger inherit it.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithOptionalSubcommand lets a parse end without selecting a subcommand.
func WithOptionalSubcommand() RegistryOption {
	return func(r *Registry) { r.optionalSub = true }
}

// NewRegistry returns an empty Registry for program.
func NewRegistry(program string, opts ...RegistryOption) *Registry {
	r := &Registry{
		program:   program,
		longs:     make(map[string]*Param),
		shorts:    make(map[rune]*Param),
		names:     make(set.Set[string]),
		subByName: make(map[string]*Registry),
		subPos:    -1,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Program reports the program (or subcommand) name.
func (r *Registry) Program() string { return r.program }

// About reports the description set by WithAbout.
func (r *Registry) About() string { return r.about }

// Arguments reports the registered arguments in match order.
func (r *Registry) Arguments() []*Param { return r.args }

// Options reports the registered options in registration order.
func (r *Registry) Options() []*Param { return r.opts }

// Subcommands reports the subcommand names in registration order.
func (r *Registry) Subcommands() []string {
	out := make([]string, len(r.subs))
	for i, s := range r.subs {
		out[i] = s.name
	}
	return out
}

// Subcommand returns the child Registry registered under name.
func (r *Registry) Subcommand(name string) (*Registry, bool) {
	c, ok := r.subByName[name]
	return c, ok
}

func (r *Registry) configErr(kind ConfigErrorKind, name, detail string) error {
	err := &ConfigError{Kind: kind, Command: r.program, Name: name, Detail: detail}
	// A sealed registry stays valid; only construction errors are sticky.
	if r.err == nil && !r.finalized {
		r.err = err
	}
	return err
}

// Register adds p to the registry.
func (r *Registry) Register(p *Param) error {
	if r.finalized {
		return r.configErr(RegistryNotReady, p.label(), "registry already finalized")
	}
	if !p.narg.legalFor(p.kind) {
		return r.configErr(IllegalNargForKind, p.label(), "nargs "+p.narg.String()+" for "+p.kind.String())
	}
	if p.kind == Argument {
		return r.registerArgument(p)
	}
	return r.registerOption(p)
}

func (r *Registry) registerArgument(p *Param) error {
	if strings.TrimSpace(p.name) == "" {
		return r.configErr(InvalidName, p.name, "argument name is empty")
	}
	if p.short != 0 {
		return r.configErr(InvalidName, p.name, "arguments take no short name")
	}
	if r.names.Contains(p.name) {
		return r.configErr(DuplicateName, p.label(), "")
	}
	r.names.Add(p.name)
	r.args = append(r.args, p)
	return nil
}

func (r *Registry) registerOption(p *Param) error {
	if p.name == "help" {
		return r.configErr(ReservedName, "--help", "")
	}
	if p.short == 'h' {
		return r.configErr(ReservedName, "-h", "")
	}
	if !validLongName(p.name) {
		return r.configErr(InvalidName, "--"+p.name, "")
	}
	if p.short != 0 && !validShortName(p.short) {
		return r.configErr(InvalidName, "-"+string(p.short), "")
	}
	if _, dup := r.longs[p.name]; dup {
		return r.configErr(DuplicateName, "--"+p.name, "")
	}
	if _, dup := r.shorts[p.short]; p.short != 0 && dup {
		return r.configErr(DuplicateName, "-"+string(p.short), "")
	}
	r.longs[p.name] = p
	if p.short != 0 {
		r.shorts[p.short] = p
	}
	r.opts = append(r.opts, p)
	return nil
}

func validLongName(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") {
		return false
	}
	return !strings.ContainsFunc(s, func(c rune) bool {
		return c == '=' || unicode.IsSpace(c) || !unicode.IsPrint(c)
	})
}

func validShortName(c rune) bool {
	return c != '-' && c != '=' && unicode.IsPrint(c) && !unicode.IsSpace(c)
}

// AddSubcommand attaches child under name. The subcommand position is fixed
// at the number of arguments registered before the first call; arguments
// registered after it fail Finalize with ArgumentAfterSubcommand.
func (r *Registry) AddSubcommand(name string, child *Registry) error {
	if r.finalized {
		return r.configErr(RegistryNotReady, name, "registry already finalized")
	}
	if name == "" || strings.HasPrefix(name, "-") || strings.ContainsFunc(name, unicode.IsSpace) {
		return r.configErr(InvalidName, name, "subcommand name")
	}
	if _, dup := r.subByName[name]; dup {
		return r.configErr(DuplicateSubcommandName, name, "")
	}
	if r.subPos < 0 {
		r.subPos = len(r.args)
	}
	r.subs = append(r.subs, subcommand{name: name, reg: child})
	r.subByName[name] = child
	return nil
}

// Finalize validates the registry and every child registry and seals
// them for parsing.
func (r *Registry) Finalize() error {
	return r.finalize(nil)
}

func (r *Registry) finalize(inherited *log.Logger) error {
	if r.logger == nil {
		r.logger = inherited
	}
	if r.err != nil {
		return r.err
	}
	if r.finalized {
		return nil
	}
	if r.subPos >= 0 && len(r.args) > r.subPos {
		return r.configErr(ArgumentAfterSubcommand, r.args[r.subPos].label(), "")
	}
	r.warnGreedy()
	for _, s := range r.subs {
		if err := s.reg.finalize(r.log()); err != nil {
			return err
		}
	}
	r.finalized = true
	return nil
}

// warnGreedy reports layouts that parse deterministically but are easy to
// misuse from the command line.
func (r *Registry) warnGreedy() {
	var greedy []string
	for _, a := range r.args {
		if a.narg.IsGreedy() {
			greedy = append(greedy, a.metavar())
		}
	}
	if len(greedy) > 1 {
		r.log().Warn("multiple greedy arguments; only an option token separates them",
			"command", r.program, "arguments", strings.Join(greedy, ","))
	}
	if r.subPos > 0 && r.args[r.subPos-1].narg.IsGreedy() {
		r.log().Warn("greedy argument precedes subcommand position",
			"command", r.program, "argument", r.args[r.subPos-1].metavar())
	}
}

func (r *Registry) log() *log.Logger {
	if r.logger == nil {
		r.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "argmatch",
			Level:  log.WarnLevel,
		})
	}
	return r.logger
}

// Finalized reports whether Finalize has succeeded.
func (r *Registry) Finalized() bool { return r.finalized }
