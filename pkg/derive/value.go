// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package derive

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/yeetrun/argmatch/pkg/argmatch"
)

// fieldValue is an argmatch.Value that writes into a struct field.
type fieldValue struct {
	narg argmatch.Narg
	set  func(raw []string) error
}

func (v *fieldValue) Narg() argmatch.Narg    { return v.narg }
func (v *fieldValue) Set(raw []string) error { return v.set(raw) }

// valueFor picks the arity and conversion for a field from its type and
// nargs, and stores the field's default tag.
func valueFor(sf reflect.StructField, field reflect.Value, nargs string) (argmatch.Value, error) {
	t := sf.Type
	def := sf.Tag.Get("default")

	switch {
	case t.Kind() == reflect.Bool && (nargs == "" || nargs == "0"):
		if def != "" {
			if err := setOne(field, mustConv(converterFor(t, "")), def); err != nil {
				return nil, fmt.Errorf("invalid default: %w", err)
			}
		}
		return &fieldValue{narg: argmatch.Zero(), set: func(raw []string) error {
			field.SetBool(true)
			return nil
		}}, nil

	case t.Kind() == reflect.Slice:
		narg := argmatch.Any()
		if nargs != "" {
			n, err := argmatch.ParseNarg(nargs)
			if err != nil {
				return nil, err
			}
			if n.IsSwitch() || n == argmatch.ExactlyOneOptional() {
				return nil, fmt.Errorf("nargs %q does not fit a slice", nargs)
			}
			narg = n
		}
		conv, err := restricted(sf, t.Elem())
		if err != nil {
			return nil, err
		}
		if def != "" {
			if err := setMany(field, conv, splitDefault(def)); err != nil {
				return nil, fmt.Errorf("invalid default: %w", err)
			}
		}
		return &fieldValue{narg: narg, set: func(raw []string) error {
			return setMany(field, conv, raw)
		}}, nil

	case t.Kind() == reflect.Pointer && t != urlPtrType && t != versionType:
		if nargs != "" && nargs != "?" {
			return nil, fmt.Errorf("nargs %q does not fit a pointer", nargs)
		}
		conv, err := restricted(sf, t.Elem())
		if err != nil {
			return nil, err
		}
		if def != "" {
			if err := setPtr(field, conv, def); err != nil {
				return nil, fmt.Errorf("invalid default: %w", err)
			}
		}
		return &fieldValue{narg: argmatch.ExactlyOneOptional(), set: func(raw []string) error {
			return setPtr(field, conv, raw[0])
		}}, nil
	}

	if nargs != "" && nargs != "1" {
		return nil, fmt.Errorf("nargs %q needs a slice field", nargs)
	}
	conv, err := restricted(sf, t)
	if err != nil {
		return nil, err
	}
	if def != "" {
		if err := setOne(field, conv, def); err != nil {
			return nil, fmt.Errorf("invalid default: %w", err)
		}
	}
	return &fieldValue{narg: argmatch.Exactly(1), set: func(raw []string) error {
		return setOne(field, conv, raw[0])
	}}, nil
}

// restricted returns the converter for t, limited to the field's choices.
func restricted(sf reflect.StructField, t reflect.Type) (converter, error) {
	conv, err := converterFor(t, sf.Tag.Get("port"))
	if err != nil {
		return nil, err
	}
	if ch := choices(sf); len(ch) > 0 {
		conv = converter(argmatch.OneOf(argmatch.Converter[reflect.Value](conv), ch...))
	}
	return conv, nil
}

func mustConv(c converter, err error) converter {
	if err != nil {
		panic(err)
	}
	return c
}

func setOne(field reflect.Value, conv converter, raw string) error {
	v, err := conv(raw)
	if err != nil {
		return &argmatch.ConversionError{Raw: raw, Err: err}
	}
	field.Set(v)
	return nil
}

func setPtr(field reflect.Value, conv converter, raw string) error {
	v, err := conv(raw)
	if err != nil {
		return &argmatch.ConversionError{Raw: raw, Err: err}
	}
	p := reflect.New(field.Type().Elem())
	p.Elem().Set(v)
	field.Set(p)
	return nil
}

// setMany converts every raw value before replacing the slice.
func setMany(field reflect.Value, conv converter, raw []string) error {
	out := reflect.MakeSlice(field.Type(), 0, len(raw))
	for i, r := range raw {
		v, err := conv(r)
		if err != nil {
			return &argmatch.ConversionError{Raw: r, Pos: i, Err: err}
		}
		out = reflect.Append(out, v)
	}
	field.Set(out)
	return nil
}

// splitDefault splits a comma-separated slice default, dropping empty parts.
func splitDefault(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
