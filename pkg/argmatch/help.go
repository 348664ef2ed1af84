// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import "strings"

const (
	defaultWidth = 80
	minWidth     = 40
	maxLabelCol  = 26
	helpText     = "Show this help message and exit."
)

// Usage returns the usage line for the subcommand at path below r (nil for r
// itself), wrapped to width columns.
func (r *Registry) Usage(path []string, width int) string {
	return r.lookup(path).usage(r.displayName(path), clampWidth(width))
}

// Help returns the full help text for the subcommand at path below r.
func (r *Registry) Help(path []string, width int) string {
	width = clampWidth(width)
	reg := r.lookup(path)

	var b strings.Builder
	b.WriteString(reg.usage(r.displayName(path), width))
	b.WriteString("\n")
	if reg.about != "" {
		b.WriteString("\n")
		for _, line := range wrap(reg.about, width) {
			b.WriteString(line + "\n")
		}
	}

	var args, opts, cmds []row
	for _, a := range reg.args {
		args = append(args, row{label: argLabel(a), help: paramHelp(a)})
		args = append(args, choiceRows(a)...)
	}
	opts = append(opts, row{label: "-h, --help", help: helpText})
	for _, o := range reg.opts {
		opts = append(opts, row{label: optLabel(o), help: paramHelp(o)})
		opts = append(opts, choiceRows(o)...)
	}
	for _, s := range reg.subs {
		cmds = append(cmds, row{label: s.name, help: s.reg.about})
	}

	col := labelColumn(args, opts, cmds)
	writeSection(&b, "positional arguments:", args, col, width)
	writeSection(&b, "options:", opts, col, width)
	writeSection(&b, "commands:", cmds, col, width)
	return b.String()
}

func (r *Registry) displayName(path []string) string {
	return strings.Join(append([]string{r.program}, path...), " ")
}

func (r *Registry) usage(name string, width int) string {
	parts := []string{"[-h]"}
	for _, o := range r.opts {
		parts = append(parts, "["+optUsage(o)+"]")
	}
	for _, a := range r.args {
		if g := grammar(a); g != "" {
			parts = append(parts, g)
		}
	}
	if len(r.subs) > 0 {
		names := make([]string, len(r.subs))
		for i, s := range r.subs {
			names[i] = s.name
		}
		cmd := "{" + strings.Join(names, ", ") + "} ..."
		if r.optionalSub {
			cmd = "[" + cmd + "]"
		}
		parts = append(parts, cmd)
	}

	prefix := "usage: " + name
	indent := strings.Repeat(" ", min(len(prefix)+1, width/2))
	var b strings.Builder
	line := prefix
	for _, p := range parts {
		if line != prefix && len(line)+1+len(p) > width {
			b.WriteString(line + "\n")
			line = indent + p
			continue
		}
		line += " " + p
	}
	b.WriteString(line)
	return b.String()
}

// grammar renders the values p takes, e.g. "NAME NAME", "[NAME ...]".
func grammar(p *Param) string {
	mv := p.metavar()
	if len(p.choices) > 0 {
		mv = "{" + strings.Join(p.Choices(), ", ") + "}"
	}
	lo, hi := p.narg.Bounds()
	switch {
	case p.narg.IsSwitch():
		return ""
	case hi < 0 && lo == 0:
		return "[" + mv + " ...]"
	case hi < 0:
		return mv + " [...]"
	}
	return strings.TrimSpace(strings.Repeat(mv+" ", lo))
}

func optUsage(o *Param) string {
	name := "--" + o.name
	if o.short != 0 {
		name = "-" + string(o.short)
	}
	if g := grammar(o); g != "" {
		return name + " " + g
	}
	return name
}

func optLabel(o *Param) string {
	label := "--" + o.name
	if o.short != 0 {
		label = "-" + string(o.short) + ", " + label
	}
	if g := grammar(o); g != "" {
		label += " " + g
	}
	return label
}

func argLabel(a *Param) string {
	if len(a.choices) > 0 {
		return "{" + strings.Join(a.Choices(), ", ") + "}"
	}
	return a.metavar()
}

func paramHelp(p *Param) string {
	parts := []string{p.help}
	for _, m := range p.meta {
		parts = append(parts, "["+m+"]")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func choiceRows(p *Param) []row {
	var rows []row
	for _, c := range p.Choices() {
		rows = append(rows, row{label: "  " + c, help: p.choices[c]})
	}
	return rows
}

type row struct {
	label string
	help  string
}

func labelColumn(sections ...[]row) int {
	col := 0
	for _, rows := range sections {
		for _, r := range rows {
			col = max(col, len(r.label)+4)
		}
	}
	return min(col, maxLabelCol)
}

func writeSection(b *strings.Builder, title string, rows []row, col, width int) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n" + title + "\n")
	pad := strings.Repeat(" ", col)
	for _, r := range rows {
		label := "  " + r.label
		lines := wrap(r.help, width-col)
		switch {
		case len(lines) == 0:
			b.WriteString(label + "\n")
			continue
		case len(label)+2 > col:
			b.WriteString(label + "\n")
		default:
			b.WriteString(label + strings.Repeat(" ", col-len(label)) + lines[0] + "\n")
			lines = lines[1:]
		}
		for _, l := range lines {
			b.WriteString(pad + l + "\n")
		}
	}
}

// wrap breaks text into lines of at most width columns at word boundaries.
// A single word longer than width gets a line of its own.
func wrap(text string, width int) []string {
	var lines []string
	var cur string
	for _, w := range strings.Fields(text) {
		if cur != "" && len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = ""
		}
		if cur == "" {
			cur = w
		} else {
			cur += " " + w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func clampWidth(w int) int {
	if w <= 0 {
		return defaultWidth
	}
	return max(w, minWidth)
}
