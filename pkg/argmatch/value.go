// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import "fmt"

// Value is the write capability the binder holds over caller-owned storage
// for a single parameter. Set receives every raw string captured for the
// parameter in capture order; for switches raw is empty.
//
// Set must either write the complete result or return an error without
// writing. Failures to convert a particular raw string are reported as a
// *ConversionError so the binder can name the offending text.
type Value interface {
	Narg() Narg
	Set(raw []string) error
}

// ConversionError reports a raw string that a Converter rejected.
type ConversionError struct {
	Raw string
	// Pos is the index of Raw in the slice passed to Value.Set.
	Pos int
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid value %q: %v", e.Raw, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

type scalarValue[T any] struct {
	set  func(T)
	conv Converter[T]
}

// Scalar binds exactly one value, converted with conv, into dst.
func Scalar[T any](dst *T, conv Converter[T]) Value {
	return ScalarFunc(func(v T) { *dst = v }, conv)
}

// ScalarFunc is Scalar with an explicit setter in place of a pointer.
func ScalarFunc[T any](set func(T), conv Converter[T]) Value {
	return &scalarValue[T]{set: set, conv: conv}
}

func (v *scalarValue[T]) Narg() Narg { return Exactly(1) }

func (v *scalarValue[T]) Set(raw []string) error {
	if len(raw) != 1 {
		return fmt.Errorf("scalar expects 1 value, got %d", len(raw))
	}
	out, err := v.conv(raw[0])
	if err != nil {
		return &ConversionError{Raw: raw[0], Err: err}
	}
	v.set(out)
	return nil
}

type optionalValue[T any] struct {
	scalarValue[T]
}

// Optional binds at most one value into dst, leaving dst untouched when the
// option never appears. It is only legal for options.
func Optional[T any](dst **T, conv Converter[T]) Value {
	return OptionalFunc(func(v T) { *dst = &v }, conv)
}

// OptionalFunc is Optional with an explicit setter in place of a pointer.
func OptionalFunc[T any](set func(T), conv Converter[T]) Value {
	return &optionalValue[T]{scalarValue[T]{set: set, conv: conv}}
}

func (v *optionalValue[T]) Narg() Narg { return ExactlyOneOptional() }

type switchValue[T any] struct {
	set    func(T)
	target T
}

// Switch writes target into dst when the option appears. It takes no
// values and is only legal for options.
func Switch[T any](dst *T, target T) Value {
	return SwitchFunc(func(v T) { *dst = v }, target)
}

// SwitchFunc is Switch with an explicit setter in place of a pointer.
func SwitchFunc[T any](set func(T), target T) Value {
	return &switchValue[T]{set: set, target: target}
}

func (v *switchValue[T]) Narg() Narg { return Zero() }

func (v *switchValue[T]) Set(raw []string) error {
	if len(raw) != 0 {
		return fmt.Errorf("switch takes no values, got %d", len(raw))
	}
	v.set(v.target)
	return nil
}

type collectionValue[T any] struct {
	set  func([]T)
	narg Narg
	conv Converter[T]
}

// Collection binds every captured value, converted with conv and in
// capture order, into dst. The previous contents of dst are replaced.
func Collection[T any](dst *[]T, narg Narg, conv Converter[T]) Value {
	return CollectionFunc(func(v []T) { *dst = v }, narg, conv)
}

// CollectionFunc is Collection with an explicit setter in place of a pointer.
func CollectionFunc[T any](set func([]T), narg Narg, conv Converter[T]) Value {
	return &collectionValue[T]{set: set, narg: narg, conv: conv}
}

func (v *collectionValue[T]) Narg() Narg { return v.narg }

func (v *collectionValue[T]) Set(raw []string) error {
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		c, err := v.conv(r)
		if err != nil {
			return &ConversionError{Raw: r, Pos: i, Err: err}
		}
		out = append(out, c)
	}
	v.set(out)
	return nil
}
