// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Converter turns one raw command-line string into a typed value.
type Converter[T any] func(string) (T, error)

// Port is a uint16 for IP ports. Use PortRange to restrict the accepted range.
type Port uint16

// String passes the raw value through unchanged.
func String(s string) (string, error) { return s, nil }

// Int parses a base-10 int.
func Int(s string) (int, error) {
	i, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %w", numErr(err))
	}
	return int(i), nil
}

// Int64 parses a base-10 int64.
func Int64(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %w", numErr(err))
	}
	return i, nil
}

// Uint parses a base-10 uint.
func Uint(s string) (uint, error) {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer: %w", numErr(err))
	}
	return uint(u), nil
}

// Float64 parses a float64.
func Float64(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", numErr(err))
	}
	return f, nil
}

// Bool parses the forms accepted by strconv.ParseBool.
func Bool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %w", numErr(err))
	}
	return b, nil
}

// Duration parses a time.Duration such as "1m30s".
func Duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		// time's errors quote the input again.
		return 0, errors.New("not a duration (want e.g. 90s or 1h30m)")
	}
	return d, nil
}

// URL parses an absolute or relative URL.
func URL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("not a URL: %w", err)
	}
	return u, nil
}

// Version parses a semantic version, tolerating a leading "v".
func Version(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("not a semantic version: %w", err)
	}
	return v, nil
}

// UUID parses a UUID in any of the forms accepted by uuid.Parse.
func UUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("not a UUID: %w", err)
	}
	return id, nil
}

// ParsePort parses a port in 0-65535.
func ParsePort(s string) (Port, error) {
	return PortRange(0, 65535)(s)
}

// PortRange returns a Converter accepting ports within [min, max].
func PortRange(min, max uint16) Converter[Port] {
	return func(s string) (Port, error) {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			var ne *strconv.NumError
			if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
				return 0, fmt.Errorf("port must be between %d and %d", min, max)
			}
			return 0, errors.New("not a port number")
		}
		p := uint16(v)
		if p < min || p > max {
			return 0, fmt.Errorf("port must be between %d and %d", min, max)
		}
		return Port(p), nil
	}
}

// ParsePortRange parses a "min-max" range string into a Converter.
func ParsePortRange(rangeStr string) (Converter[Port], error) {
	lo, hi, ok := strings.Cut(rangeStr, "-")
	if !ok {
		return nil, fmt.Errorf("invalid port range format %q (expected \"min-max\")", rangeStr)
	}
	minVal, err := strconv.ParseUint(lo, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid min port in range %q: %w", rangeStr, err)
	}
	maxVal, err := strconv.ParseUint(hi, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid max port in range %q: %w", rangeStr, err)
	}
	if minVal > maxVal {
		return nil, fmt.Errorf("invalid port range %q: min (%d) > max (%d)", rangeStr, minVal, maxVal)
	}
	return PortRange(uint16(minVal), uint16(maxVal)), nil
}

// OneOf restricts conv to the raw strings in allowed.
func OneOf[T any](conv Converter[T], allowed ...string) Converter[T] {
	return func(s string) (T, error) {
		if !slices.Contains(allowed, s) {
			var zero T
			return zero, fmt.Errorf("must be one of {%s}", strings.Join(allowed, ", "))
		}
		return conv(s)
	}
}

// numErr strips the strconv wrapper so messages read "invalid syntax"
// rather than repeating the function name and input.
func numErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
