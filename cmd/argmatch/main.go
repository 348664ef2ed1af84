// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The argmatch command parses a shell script's arguments against a schema
// file and prints the bound values:
//
//	eval "$(argmatch --schema deploy.toml -- "$@")"
//
// Help and usage errors for the scripted program go to stderr. In env
// format an "exit N" line follows them on stdout, so an eval'ing script
// stops as a native program would.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yeetrun/argmatch/pkg/argmatch"
	"github.com/yeetrun/argmatch/pkg/derive"
	"github.com/yeetrun/argmatch/pkg/env"
	"github.com/yeetrun/argmatch/pkg/schema"
	"gopkg.in/yaml.v3"
)

type flags struct {
	Schema  string   `flag:"schema" short:"s" placeholder:"FILE" help:"Schema file; defaults to $ARGMATCH_SCHEMA or the nearest argmatch.toml, argmatch.yaml or argmatch.yml"`
	Format  string   `flag:"format" short:"f" default:"env" choices:"env,json,yaml" help:"Output format"`
	Prefix  string   `flag:"prefix" short:"p" default:"ARGS_" help:"Variable prefix for env output"`
	Verbose bool     `flag:"verbose" short:"v" help:"Log schema resolution to stderr"`
	Args    []string `pos:"0*" flag:"args" help:"Arguments to parse; put them after --"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "argmatch", Level: log.WarnLevel})

	var f flags
	cmd, err := derive.New("argmatch", &f,
		argmatch.WithAbout("Parse arguments against a schema file and print the bound values."),
		argmatch.WithLogger(logger))
	if err != nil {
		logger.Error("failed to declare flags", "err", err)
		return 2
	}
	if err := cmd.Registry.Finalize(); err != nil {
		logger.Error("failed to declare flags", "err", err)
		return 2
	}
	console := argmatch.NewConsole(stdout, stderr)
	if _, err := argmatch.New(cmd.Registry, argmatch.WithConsole(console)).Parse(args); err != nil {
		if code := argmatch.ExitCode(err); code != 0 {
			console.Error(cmd.Registry, err, args)
			return code
		}
		return 0
	}
	if f.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	path, err := schema.Locate(f.Schema)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Error("no schema file found; pass --schema or set " + schema.EnvVar)
		} else {
			logger.Error("failed to locate schema", "err", err)
		}
		return 1
	}
	logger.Debug("loading schema", "path", path)
	s, err := schema.Load(path)
	if err != nil {
		logger.Error("failed to load schema", "err", err)
		return 1
	}
	compiled, err := schema.Compile(s, argmatch.WithLogger(logger))
	if err != nil {
		logger.Error("invalid schema", "path", path, "err", err)
		return argmatch.ExitCode(err)
	}

	// The scripted program's help goes to stderr so stdout stays
	// machine-readable.
	res, err := compiled.Parse(f.Args, argmatch.WithConsole(argmatch.NewConsole(stderr, stderr)))
	if err != nil {
		code := argmatch.ExitCode(err)
		if code != 0 {
			argmatch.NewConsole(stderr, stderr).Error(compiled.Registry, err, f.Args)
		}
		if f.Format == "env" {
			fmt.Fprintf(stdout, "exit %d\n", code)
		}
		return code
	}
	logger.Debug("parsed", "command", res.Path)

	values := compiled.Values(res.Path)
	if len(res.Path) > 0 {
		if _, ok := values["command"]; ok {
			logger.Warn("parameter named command hides the command path")
		} else {
			values["command"] = strings.Join(res.Path, " ")
		}
	}
	if err := write(stdout, f.Format, f.Prefix, values); err != nil {
		logger.Error("failed to write values", "err", err)
		return 1
	}
	return 0
}

func write(w io.Writer, format, prefix string, values map[string]any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	}
	return env.Marshal(w, prefix, values)
}
