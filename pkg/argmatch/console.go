// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yeetrun/argmatch/pkg/tui"
)

// Console is where a Parser renders help and errors.
type Console struct {
	Out   io.Writer
	Err   io.Writer
	Width int
	Color tui.Colorizer
}

// NewConsole returns a Console sized to out and colored when errw is a
// terminal.
func NewConsole(out, errw io.Writer) *Console {
	return &Console{
		Out:   out,
		Err:   errw,
		Width: tui.Width(out, defaultWidth),
		Color: tui.ForWriter(errw),
	}
}

// DefaultConsole writes to the process stdout and stderr.
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr)
}

// Help writes the help text of the subcommand at path below root.
func (c *Console) Help(root *Registry, path []string) {
	fmt.Fprint(c.Out, root.Help(path, c.Width))
}

// Error writes err for a user: usage, message, the offending position in
// argv and a pointer to --help.
func (c *Console) Error(root *Registry, err error, argv []string) {
	var pe *ParseError
	if !errors.As(err, &pe) {
		fmt.Fprintf(c.Err, "%s: %s\n", root.program, c.Color.Error(err.Error()))
		return
	}
	path := subPath(pe.Command)
	name := root.displayName(path)
	fmt.Fprintln(c.Err, root.Usage(path, c.Width))
	fmt.Fprintf(c.Err, "%s: %s %s\n", name, c.Color.Error("error:"), err)
	if ctx, ok := ContextOf(err, argv); ok && len(argv) > 0 {
		line, caret, _ := strings.Cut(ctx.String(), "\n")
		fmt.Fprintf(c.Err, "  %s\n  %s\n", line, c.Color.Caret(caret))
	}
	fmt.Fprintf(c.Err, "Try '%s --help' for more information.\n", c.Color.Accent(name))
}

// subPath drops the program name from a ParseError command path.
func subPath(cmd []string) []string {
	if len(cmd) == 0 {
		return nil
	}
	return cmd[1:]
}
