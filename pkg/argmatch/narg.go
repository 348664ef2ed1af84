// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"fmt"
	"strconv"
)

// Kind distinguishes positional arguments from named options.
type Kind int

const (
	// Argument is a positional, order-significant parameter.
	Argument Kind = iota
	// Option is a named parameter, matched by its long or short name.
	Option
)

func (k Kind) String() string {
	switch k {
	case Argument:
		return "argument"
	case Option:
		return "option"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type nargForm uint8

const (
	formExactly nargForm = iota
	formAtLeastOne
	formAny
	formZero
	formOptionalOne
)

// Narg is the declared arity of a parameter. The set of forms is closed;
// construct values with Exactly, AtLeastOne, Any, Zero or ExactlyOneOptional.
type Narg struct {
	form nargForm
	n    int
}

// Exactly consumes precisely n values. n must be at least 1; a Registry
// rejects Exactly(0) in favor of Zero.
func Exactly(n int) Narg { return Narg{form: formExactly, n: n} }

// AtLeastOne greedily consumes one or more values ("+").
func AtLeastOne() Narg { return Narg{form: formAtLeastOne} }

// Any greedily consumes zero or more values ("*").
func Any() Narg { return Narg{form: formAny} }

// Zero is a switch: the parameter takes no values.
func Zero() Narg { return Narg{form: formZero} }

// ExactlyOneOptional takes exactly one value when present and may be absent
// entirely. Only options may use it.
func ExactlyOneOptional() Narg { return Narg{form: formOptionalOne} }

// Bounds reports the minimum and maximum number of values a single
// occurrence accepts. max is -1 when unbounded.
func (n Narg) Bounds() (min, max int) {
	switch n.form {
	case formExactly:
		return n.n, n.n
	case formAtLeastOne:
		return 1, -1
	case formAny:
		return 0, -1
	case formZero:
		return 0, 0
	case formOptionalOne:
		return 1, 1
	}
	panic("unreachable")
}

// IsSwitch reports whether n is Zero.
func (n Narg) IsSwitch() bool { return n.form == formZero }

// IsGreedy reports whether n captures an unbounded run of values.
func (n Narg) IsGreedy() bool { return n.form == formAtLeastOne || n.form == formAny }

// IsCollection reports whether bound values are delivered as a sequence.
func (n Narg) IsCollection() bool {
	return n.IsGreedy() || (n.form == formExactly && n.n > 1)
}

// legalFor reports whether n may be declared for a parameter of kind k.
func (n Narg) legalFor(k Kind) bool {
	switch n.form {
	case formExactly:
		return n.n >= 1
	case formZero, formOptionalOne:
		return k == Option
	default:
		return true
	}
}

func (n Narg) String() string {
	switch n.form {
	case formExactly:
		return strconv.Itoa(n.n)
	case formAtLeastOne:
		return "+"
	case formAny:
		return "*"
	case formZero:
		return "0"
	case formOptionalOne:
		return "?"
	}
	return "invalid"
}

// ParseNarg parses the textual form produced by Narg.String: a positive
// count, "+", "*", "0" or "?".
func ParseNarg(s string) (Narg, error) {
	switch s {
	case "+":
		return AtLeastOne(), nil
	case "*":
		return Any(), nil
	case "0":
		return Zero(), nil
	case "?":
		return ExactlyOneOptional(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Narg{}, fmt.Errorf("invalid nargs %q (expected N, \"+\", \"*\", \"0\" or \"?\")", s)
	}
	return Exactly(n), nil
}
