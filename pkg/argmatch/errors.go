// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is returned by Parser.Parse after help text has been rendered.
// Callers should treat it as successful termination.
var ErrHelp = errors.New("help requested")

// ConfigErrorKind classifies programmer errors found while building a Registry.
// Kinds are errors themselves, so errors.Is(err, DuplicateName) works on a
// *ConfigError of that kind.
type ConfigErrorKind int

const (
	// DuplicateName: a long name, short name or argument name is taken.
	DuplicateName ConfigErrorKind = iota + 1
	// IllegalNargForKind: Zero or ExactlyOneOptional declared on an argument.
	IllegalNargForKind
	// DuplicateSubcommandName: two subcommands share a name.
	DuplicateSubcommandName
	// RegistryNotReady: parsing before Finalize, or changing a finalized registry.
	RegistryNotReady
	// ReservedName: an option redeclares -h or --help.
	ReservedName
	// InvalidName: an empty or malformed parameter or subcommand name.
	InvalidName
	// ArgumentAfterSubcommand: an argument registered past the subcommand position.
	ArgumentAfterSubcommand
)

func (k ConfigErrorKind) Error() string {
	switch k {
	case DuplicateName:
		return "duplicate name"
	case IllegalNargForKind:
		return "illegal nargs for parameter kind"
	case DuplicateSubcommandName:
		return "duplicate subcommand name"
	case RegistryNotReady:
		return "registry not finalized"
	case ReservedName:
		return "reserved name"
	case InvalidName:
		return "invalid name"
	case ArgumentAfterSubcommand:
		return "argument declared after subcommand position"
	}
	return fmt.Sprintf("config error %d", int(k))
}

// ConfigError is returned by Registry construction and Finalize.
type ConfigError struct {
	Kind    ConfigErrorKind
	Command string // program name of the registry at fault
	Name    string // offending parameter or subcommand name, as written on the command line
	Detail  string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config error")
	if e.Command != "" {
		fmt.Fprintf(&b, " in %s", e.Command)
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// ParseErrorKind classifies user errors found while matching or binding argv.
type ParseErrorKind int

const (
	// UnknownOption: no option has the given long or short name.
	UnknownOption ParseErrorKind = iota + 1
	// UnexpectedPositional: a value arrived with no argument left to take it.
	UnexpectedPositional
	// MissingRequiredValue: a parameter closed with fewer values than it needs.
	MissingRequiredValue
	// TooManyValues: a switch was given an inline value.
	TooManyValues
	// UnknownSubcommand: a value arrived where only a subcommand name fits.
	UnknownSubcommand
	// InvalidValue: a converter rejected a captured value.
	InvalidValue
	// RepeatedOption: an option appeared more than once.
	RepeatedOption
)

func (k ParseErrorKind) Error() string {
	switch k {
	case UnknownOption:
		return "unknown option"
	case UnexpectedPositional:
		return "unexpected positional argument"
	case MissingRequiredValue:
		return "missing required value"
	case TooManyValues:
		return "too many values"
	case UnknownSubcommand:
		return "unknown subcommand"
	case InvalidValue:
		return "invalid value"
	case RepeatedOption:
		return "repeated option"
	}
	return fmt.Sprintf("parse error %d", int(k))
}

// ParseError is returned when argv does not fit the Registry.
type ParseError struct {
	Kind ParseErrorKind
	// Command is the program name followed by any selected subcommands.
	Command []string
	// Param labels the parameter involved ("--count", "NAME"), if any.
	Param string
	// Token is the offending argv entry; empty when input ended early.
	Token string
	// Index is Token's position in the argv passed to Parse; it equals
	// len(argv) when input ended early.
	Index int
	// Column is the byte offset inside Token the error points at.
	Column int
	// Expected and Got describe value counts for MissingRequiredValue and
	// TooManyValues.
	Expected string
	Got      int
	// Raw is the string a converter rejected (InvalidValue only).
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnknownOption:
		return fmt.Sprintf("unknown option: %s", e.Param)
	case UnexpectedPositional:
		return fmt.Sprintf("unexpected argument %q", e.Token)
	case MissingRequiredValue:
		return fmt.Sprintf("not enough values for %s (expected %s, got %d)", e.Param, e.Expected, e.Got)
	case TooManyValues:
		return fmt.Sprintf("too many values for %s (expected %s, got %d)", e.Param, e.Expected, e.Got)
	case UnknownSubcommand:
		return fmt.Sprintf("unknown command %q", e.Token)
	case InvalidValue:
		return fmt.Sprintf("invalid value %q for %s: %v", e.Raw, e.Param, e.Err)
	case RepeatedOption:
		return fmt.Sprintf("option %s given more than once", e.Param)
	}
	return e.Kind.Error()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ExitCode maps a Parse result onto the process exit convention: 0 for
// success or rendered help, 1 for user errors, 2 for configuration errors.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrHelp) {
		return 0
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return 2
	}
	return 1
}

// ErrorContext renders argv on one line with a caret under the token a
// ParseError points at.
type ErrorContext struct {
	Tokens []string
	Index  int
	Column int
}

// ContextOf builds the ErrorContext for err against the argv given to Parse.
// It reports false if err carries no position.
func ContextOf(err error, argv []string) (ErrorContext, bool) {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return ErrorContext{}, false
	}
	return ErrorContext{Tokens: argv, Index: pe.Index, Column: pe.Column}, true
}

func (c ErrorContext) String() string {
	line := strings.Join(c.Tokens, " ")
	caret := 0
	for i := 0; i < c.Index && i < len(c.Tokens); i++ {
		caret += len(c.Tokens[i]) + 1
	}
	if c.Index >= len(c.Tokens) {
		caret = len(line)
		if len(c.Tokens) > 0 {
			caret++
		}
	} else {
		caret += min(c.Column, len(c.Tokens[c.Index]))
	}
	return line + "\n" + strings.Repeat(" ", caret) + "^"
}
