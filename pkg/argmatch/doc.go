// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argmatch matches a command line against a declared set of
// positional arguments, options and subcommands, and binds the captured
// values into caller-owned variables.
//
// Parsing runs in three stages:
//   - Classify turns argv into tokens: positionals, long options, short
//     clusters and the "--" terminator. Only the first '=' splits a value.
//   - The matcher walks the tokens against a Registry, opening one value
//     buffer at a time. An option token always ends an open buffer, and a
//     buffer that ends short of its minimum is an error.
//   - The binder converts each captured buffer through its Value.
//
// # Declaring parameters
//
//	var (
//	    verbose bool
//	    count   = 1
//	    files   []string
//	)
//	reg := argmatch.NewRegistry("tool", argmatch.WithAbout("Process files."))
//	reg.Register(argmatch.Opt("verbose", 'v', argmatch.Switch(&verbose, true)).Help("Chatty output"))
//	reg.Register(argmatch.Opt("count", 'c', argmatch.Scalar(&count, argmatch.Int)))
//	reg.Register(argmatch.Arg("files", argmatch.Collection(&files, argmatch.AtLeastOne(), argmatch.String)))
//	if err := reg.Finalize(); err != nil {
//	    log.Fatal(err)
//	}
//	argmatch.New(reg).ParseOrExit(os.Args[1:])
//
// # Arity
//
// Every parameter has a Narg: Exactly(n), AtLeastOne ("+"), Any ("*"),
// Zero (a switch) or ExactlyOneOptional. Zero and ExactlyOneOptional are
// for options only. A value given inline ("--key=value", "-k=value") is
// always the one and only value of that occurrence.
//
// # Subcommands
//
// AddSubcommand attaches a child Registry after the parent's arguments.
// Once every parent argument can close, a positional token naming a
// subcommand hands the remaining tokens to the child. Each level reserves
// -h and --help and renders its own help.
//
// # Errors
//
// Registry problems are *ConfigError values, command line problems are
// *ParseError values. Both wrap a kind, so callers can test with
// errors.Is(err, argmatch.UnknownOption). ExitCode maps them onto the
// usual process exit statuses.
package argmatch
