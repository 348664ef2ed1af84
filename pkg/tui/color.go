// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Colorizer paints help and error text. The zero value never colors.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer that is enabled only if enabled is true
// and the environment does not opt out via NO_COLOR or a dumb TERM.
func NewColorizer(enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// ForWriter enables color when w is a terminal.
func ForWriter(w io.Writer) Colorizer {
	return NewColorizer(IsTerminal(w))
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width reports the column count of the terminal behind w, or fallback.
func Width(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return fallback
	}
	return cols
}

func (c Colorizer) paint(text string, attrs ...color.Attribute) string {
	if !c.Enabled || text == "" {
		return text
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(text)
}

// Error paints error labels.
func (c Colorizer) Error(text string) string { return c.paint(text, color.FgRed, color.Bold) }

// Accent paints command names.
func (c Colorizer) Accent(text string) string { return c.paint(text, color.FgCyan) }

// Caret paints the marker under an offending token.
func (c Colorizer) Caret(text string) string { return c.paint(text, color.FgYellow) }
