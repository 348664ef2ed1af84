// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import "slices"

// subcommandFor reports the child registry t selects. A token selects a
// subcommand only once every argument ahead of the subcommand position can
// close successfully; until then it is an ordinary value.
func (m *matcher) subcommandFor(t Token) (*Registry, bool) {
	if len(m.reg.subs) == 0 {
		return nil, false
	}
	child, ok := m.reg.subByName[t.Text]
	if !ok || !m.argumentsSatisfied() {
		return nil, false
	}
	return child, true
}

func (m *matcher) argumentsSatisfied() bool {
	if m.open != nil && len(m.open.vals) < m.open.min {
		return false
	}
	for _, p := range m.reg.args[m.cursor:] {
		if lo, _ := p.narg.Bounds(); lo > 0 {
			return false
		}
	}
	return true
}

// dispatch closes this level and hands the rest of the tokens to child.
// The child's result, success or failure, becomes this level's result.
func (m *matcher) dispatch(child *Registry, t Token, rest []Token) (*outcome, error) {
	if err := m.interrupt(t); err != nil {
		return nil, err
	}
	if err := m.closeRemaining(t.Index); err != nil {
		return nil, err
	}
	m.state = matchDone
	sub, err := match(child, append(slices.Clip(m.path), t.Text), rest, m.argv)
	if err != nil {
		return nil, err
	}
	m.out.child = sub
	return m.out, nil
}

// lookup resolves a command path, as recorded in ParseError.Command or
// Result.Path, to the registry that owns it.
func (r *Registry) lookup(path []string) *Registry {
	cur := r
	for _, name := range path {
		next, ok := cur.subByName[name]
		if !ok {
			break
		}
		cur = next
	}
	return cur
}
