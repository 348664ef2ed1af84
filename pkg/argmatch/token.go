// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import "strings"

// TokenKind classifies one argv entry.
type TokenKind int

const (
	// Positional is a plain value, or any token after "--".
	Positional TokenKind = iota
	// LongOption is "--name" or "--name=value".
	LongOption
	// ShortCluster is "-abc" or "-abc=value", one or more short names.
	ShortCluster
	// Terminator is a bare "--".
	Terminator
)

func (k TokenKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case LongOption:
		return "long option"
	case ShortCluster:
		return "short cluster"
	case Terminator:
		return "terminator"
	}
	return "unknown"
}

// Token is one classified argv entry.
type Token struct {
	Kind TokenKind
	// Text is the argv entry as given.
	Text string
	// Name is the option name without dashes (LongOption only).
	Name string
	// Shorts are the flag characters of a ShortCluster.
	Shorts []rune
	// Value is the text after the first '=', valid if HasValue.
	Value    string
	HasValue bool
	// Index is the position of the entry in argv.
	Index int
}

// Classify turns argv into tokens. Every string is classifiable. After a
// bare "--" every entry is Positional; a bare "-" is always Positional.
func Classify(argv []string) []Token {
	toks := make([]Token, 0, len(argv))
	terminated := false
	for i, a := range argv {
		t := Token{Kind: Positional, Text: a, Index: i}
		switch {
		case terminated:
		case a == "--":
			t.Kind = Terminator
			terminated = true
		case strings.HasPrefix(a, "--"):
			t.Kind = LongOption
			t.Name, t.Value, t.HasValue = strings.Cut(a[2:], "=")
		case len(a) > 1 && a[0] == '-':
			flags, value, hasValue := strings.Cut(a[1:], "=")
			if flags == "" {
				// "-=x" names no flag at all.
				break
			}
			t.Kind = ShortCluster
			t.Shorts = []rune(flags)
			t.Value, t.HasValue = value, hasValue
		}
		toks = append(toks, t)
	}
	return toks
}

// shortColumn is the byte offset of the i'th flag character in a cluster.
func (t Token) shortColumn(i int) int {
	return 1 + len(string(t.Shorts[:i]))
}

// valueColumn is the byte offset of the inline value.
func (t Token) valueColumn() int {
	if !t.HasValue {
		return 0
	}
	return strings.IndexByte(t.Text, '=') + 1
}
