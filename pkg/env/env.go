// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env renders parsed values as shell variable assignments suitable
// for eval.
package env

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Write writes an environment file with the given name and content.
func Write(name, prefix string, values map[string]any) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := Marshal(f, prefix, values); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	return f.Close()
}

// Marshal writes one NAME=value line per entry of values, sorted by key.
// Names are upper-cased with '-' mapped to '_' and prefixed with prefix.
// Nested maps are flattened with their key as an extra prefix, slices
// become bash arrays and nil values are skipped. Values are quoted for
// bash only when they need it.
func Marshal(w io.Writer, prefix string, values map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		name := prefix + VarName(k)
		switch v := values[k].(type) {
		case nil:
			continue
		case map[string]any:
			if err := Marshal(w, name+"_", v); err != nil {
				return err
			}
			continue
		case []any:
			words := make([]string, len(v))
			for i, e := range v {
				q, err := quote(e)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				words[i] = q
			}
			if _, err := fmt.Fprintf(w, "%s=(%s)\n", name, strings.Join(words, " ")); err != nil {
				return err
			}
		default:
			q, err := quote(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if _, err := fmt.Fprintf(w, "%s=%s\n", name, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// VarName turns a parameter name into a shell variable name.
func VarName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

func quote(v any) (string, error) {
	return syntax.Quote(fmt.Sprint(v), syntax.LangBash)
}
