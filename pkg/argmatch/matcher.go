// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"slices"
	"strconv"

	"tailscale.com/util/mak"
)

type matchState int

const (
	expectingToken matchState = iota
	bindingPositional
	bindingOption
	matchDone
	matchFailed
)

// rawValue is one captured string and where it came from.
type rawValue struct {
	text   string
	index  int
	column int
}

// buffer accumulates the values of a single parameter occurrence. At most
// one buffer is open at a time.
type buffer struct {
	p        *Param
	vals     []rawValue
	min, max int
}

func newBuffer(p *Param) *buffer {
	lo, hi := p.narg.Bounds()
	return &buffer{p: p, min: lo, max: hi}
}

func (b *buffer) full() bool { return b.max >= 0 && len(b.vals) >= b.max }

// capture is a closed buffer waiting to be bound.
type capture struct {
	p    *Param
	vals []rawValue
}

func (c capture) raw() []string {
	if len(c.vals) == 0 {
		return nil
	}
	out := make([]string, len(c.vals))
	for i, v := range c.vals {
		out[i] = v.text
	}
	return out
}

// outcome is the matched but not yet bound result of one parser level.
type outcome struct {
	reg      *Registry
	path     []string
	captures []capture
	help     bool
	child    *outcome
}

func (o *outcome) leaf() *outcome {
	for o.child != nil {
		o = o.child
	}
	return o
}

type matcher struct {
	reg    *Registry
	path   []string
	argv   []string
	state  matchState
	open   *buffer
	cursor int // next argument not yet opened
	used   map[*Param]bool
	out    *outcome
}

// match runs toks against reg. argv is the full command line the tokens
// were classified from; it is only used for error positions.
func match(reg *Registry, path []string, toks []Token, argv []string) (*outcome, error) {
	m := &matcher{
		reg:  reg,
		path: path,
		argv: argv,
		out:  &outcome{reg: reg, path: path},
	}
	for i, t := range toks {
		if t.Kind == Positional && m.state != bindingOption {
			if child, ok := m.subcommandFor(t); ok {
				return m.dispatch(child, t, toks[i+1:])
			}
		}
		if err := m.feed(t); err != nil {
			m.state = matchFailed
			return nil, err
		}
		if m.state == matchDone {
			return m.out, nil
		}
	}
	if err := m.finish(); err != nil {
		m.state = matchFailed
		return nil, err
	}
	return m.out, nil
}

func (m *matcher) feed(t Token) error {
	switch t.Kind {
	case Terminator:
		if m.state == bindingOption {
			return m.interrupt(t)
		}
		return nil
	case LongOption:
		if t.Name == "help" {
			m.requestHelp()
			return nil
		}
		if err := m.interrupt(t); err != nil {
			return err
		}
		p, ok := m.reg.longs[t.Name]
		if !ok {
			return m.errorAt(UnknownOption, "--"+t.Name, t.Index, 0)
		}
		return m.startOption(p, t, 0, true)
	case ShortCluster:
		if slices.Contains(t.Shorts, 'h') {
			m.requestHelp()
			return nil
		}
		if err := m.interrupt(t); err != nil {
			return err
		}
		for i, c := range t.Shorts {
			p, ok := m.reg.shorts[c]
			if !ok {
				return m.errorAt(UnknownOption, "-"+string(c), t.Index, t.shortColumn(i))
			}
			if err := m.startOption(p, t, t.shortColumn(i), i == len(t.Shorts)-1); err != nil {
				return err
			}
		}
		return nil
	}
	return m.positional(t)
}

func (m *matcher) requestHelp() {
	m.out.help = true
	m.state = matchDone
}

// startOption begins one option occurrence. Only the last flag of a token
// may take the inline value or the following positional tokens; earlier
// flags in a cluster close with no values.
func (m *matcher) startOption(p *Param, t Token, column int, last bool) error {
	if m.used[p] {
		return m.errorAt(RepeatedOption, p.label(), t.Index, column)
	}
	mak.Set(&m.used, p, true)

	b := newBuffer(p)
	if p.narg.IsSwitch() {
		if last && t.HasValue {
			err := m.errorAt(TooManyValues, p.label(), t.Index, t.valueColumn())
			err.Expected, err.Got = "0", 1
			return err
		}
		m.out.captures = append(m.out.captures, capture{p: p})
		return nil
	}
	if !last {
		return m.close(b, t.Index, column)
	}
	if t.HasValue {
		b.vals = append(b.vals, rawValue{text: t.Value, index: t.Index, column: t.valueColumn()})
		return m.close(b, t.Index, t.valueColumn())
	}
	m.open = b
	m.state = bindingOption
	return nil
}

func (m *matcher) positional(t Token) error {
	if m.open == nil {
		if m.cursor >= len(m.reg.args) {
			if len(m.reg.subs) > 0 {
				return m.errorAt(UnknownSubcommand, "command", t.Index, 0)
			}
			return m.errorAt(UnexpectedPositional, "", t.Index, 0)
		}
		m.open = newBuffer(m.reg.args[m.cursor])
		m.cursor++
		m.state = bindingPositional
	}
	m.open.vals = append(m.open.vals, rawValue{text: t.Text, index: t.Index})
	if m.open.full() {
		b := m.open
		m.open = nil
		m.state = expectingToken
		return m.close(b, t.Index, 0)
	}
	return nil
}

// interrupt closes the open buffer ahead of an option token. The
// interrupted parameter never receives further values.
func (m *matcher) interrupt(t Token) error {
	if m.open == nil {
		return nil
	}
	b := m.open
	m.open = nil
	m.state = expectingToken
	return m.close(b, t.Index, 0)
}

// close moves b to the capture list. index and column locate the error
// if b is under-filled.
func (m *matcher) close(b *buffer, index, column int) error {
	if len(b.vals) < b.min {
		err := m.errorAt(MissingRequiredValue, b.p.label(), index, column)
		err.Expected, err.Got = expected(b.p.narg), len(b.vals)
		return err
	}
	if len(b.vals) > 0 {
		m.out.captures = append(m.out.captures, capture{p: b.p, vals: b.vals})
	}
	return nil
}

// closeRemaining closes every argument that was never opened.
func (m *matcher) closeRemaining(index int) error {
	for m.cursor < len(m.reg.args) {
		p := m.reg.args[m.cursor]
		m.cursor++
		if err := m.close(newBuffer(p), index, 0); err != nil {
			return err
		}
	}
	return nil
}

func (m *matcher) finish() error {
	end := len(m.argv)
	if m.open != nil {
		b := m.open
		m.open = nil
		if err := m.close(b, end, 0); err != nil {
			return err
		}
	}
	if err := m.closeRemaining(end); err != nil {
		return err
	}
	if len(m.reg.subs) > 0 && !m.reg.optionalSub {
		err := m.errorAt(MissingRequiredValue, "command", end, 0)
		err.Expected, err.Got = "1", 0
		return err
	}
	m.state = matchDone
	return nil
}

func (m *matcher) errorAt(kind ParseErrorKind, param string, index, column int) *ParseError {
	pe := &ParseError{
		Kind:    kind,
		Command: m.path,
		Param:   param,
		Index:   index,
		Column:  column,
	}
	if index < len(m.argv) {
		pe.Token = m.argv[index]
	}
	return pe
}

// expected describes how many values n requires, for error messages.
func expected(n Narg) string {
	lo, hi := n.Bounds()
	if hi < 0 {
		return "at least " + strconv.Itoa(lo)
	}
	return strconv.Itoa(lo)
}
