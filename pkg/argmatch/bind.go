// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import "errors"

// bind writes every capture through its parameter's Value, parent levels
// before children and captures in the order they closed. It stops at the
// first failure; parameters written before it keep their new values.
func bind(o *outcome, argv []string) error {
	for ; o != nil; o = o.child {
		for _, c := range o.captures {
			if err := c.p.value.Set(c.raw()); err != nil {
				return bindError(o.path, c, err, argv)
			}
		}
	}
	return nil
}

func bindError(path []string, c capture, err error, argv []string) *ParseError {
	pe := &ParseError{
		Kind:    InvalidValue,
		Command: path,
		Param:   c.p.label(),
		Err:     err,
	}
	at := rawValue{}
	if len(c.vals) > 0 {
		at = c.vals[0]
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		pe.Raw, pe.Err = ce.Raw, ce.Err
		at = locate(c.vals, ce, at)
	}
	pe.Index, pe.Column = at.index, at.column
	if at.index < len(argv) {
		pe.Token = argv[at.index]
	}
	return pe
}

// locate finds the captured value ce rejected: at ce.Pos when that holds
// ce.Raw, else the first value with the same text.
func locate(vals []rawValue, ce *ConversionError, fallback rawValue) rawValue {
	if ce.Pos >= 0 && ce.Pos < len(vals) && vals[ce.Pos].text == ce.Raw {
		return vals[ce.Pos]
	}
	for _, v := range vals {
		if v.text == ce.Raw {
			return v
		}
	}
	return fallback
}
