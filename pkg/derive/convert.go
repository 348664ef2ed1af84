// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package derive

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/argmatch/pkg/argmatch"
)

// converter turns one raw string into a value of a fixed type.
type converter func(string) (reflect.Value, error)

var (
	durationType  = reflect.TypeOf(time.Duration(0))
	portType      = reflect.TypeOf(argmatch.Port(0))
	urlPtrType    = reflect.TypeOf((*url.URL)(nil))
	urlType       = reflect.TypeOf(url.URL{})
	versionType   = reflect.TypeOf((*semver.Version)(nil))
	uuidType      = reflect.TypeOf(uuid.UUID{})
	unmarshalType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// wrap adapts a typed argmatch converter.
func wrap[T any](conv argmatch.Converter[T]) converter {
	return func(s string) (reflect.Value, error) {
		v, err := conv(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	}
}

// converterFor returns the converter for values of type t. portRange is
// the optional "min-max" port tag.
func converterFor(t reflect.Type, portRange string) (converter, error) {
	switch t {
	case portType:
		if portRange == "" {
			return wrap(argmatch.ParsePort), nil
		}
		conv, err := argmatch.ParsePortRange(portRange)
		if err != nil {
			return nil, err
		}
		return wrap(conv), nil
	case durationType:
		return wrap(argmatch.Duration), nil
	case urlPtrType:
		return wrap(argmatch.URL), nil
	case urlType:
		return func(s string) (reflect.Value, error) {
			u, err := argmatch.URL(s)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(*u), nil
		}, nil
	case versionType:
		return wrap(argmatch.Version), nil
	case uuidType:
		return wrap(argmatch.UUID), nil
	}

	if reflect.PointerTo(t).Implements(unmarshalType) {
		return func(s string) (reflect.Value, error) {
			v := reflect.New(t)
			if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return reflect.Value{}, fmt.Errorf("not a valid %s: %w", t, err)
			}
			return v.Elem(), nil
		}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return func(s string) (reflect.Value, error) {
			return reflect.ValueOf(s).Convert(t), nil
		}, nil
	case reflect.Bool:
		return func(s string) (reflect.Value, error) {
			b, err := argmatch.Bool(s)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(b).Convert(t), nil
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (reflect.Value, error) {
			i, err := strconv.ParseInt(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("not an integer: %w", numErr(err))
			}
			return reflect.ValueOf(i).Convert(t), nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (reflect.Value, error) {
			u, err := strconv.ParseUint(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("not an unsigned integer: %w", numErr(err))
			}
			return reflect.ValueOf(u).Convert(t), nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(s string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("not a number: %w", numErr(err))
			}
			return reflect.ValueOf(f).Convert(t), nil
		}, nil
	}
	return nil, fmt.Errorf("unsupported field type %s", t)
}

func numErr(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
